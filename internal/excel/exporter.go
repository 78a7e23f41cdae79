package excel

import (
	"fmt"
	"time"

	"github.com/example/wordquest/pkg/models"
	"github.com/xuri/excelize/v2"
)

const reportSheet = "Sheet1"

// ReportRow is one lesson line of the progress report
type ReportRow struct {
	LessonID string
	Title    string
	Course   models.CourseLevel
	Progress models.LessonProgress
}

var reportHeader = []string{"Lesson", "Title", "Course", "Easy", "Medium", "Hard", "Mixed", "Last Updated"}

// ExportProgress writes the star ratings of every row into an Excel workbook
func ExportProgress(path string, rows []ReportRow) error {
	f := excelize.NewFile()
	defer f.Close()

	for col, title := range reportHeader {
		if err := setCell(f, col+1, 1, title); err != nil {
			return err
		}
	}

	for i, row := range rows {
		r := i + 2

		lastUpdated := ""
		if at := row.Progress.UpdatedAt(); !at.IsZero() {
			lastUpdated = at.UTC().Format(time.RFC3339)
		}

		values := []interface{}{row.LessonID, row.Title, string(row.Course)}
		for _, d := range models.Difficulties() {
			values = append(values, row.Progress.Scores.Get(d))
		}
		if lastUpdated != "" {
			values = append(values, lastUpdated)
		}

		for col, v := range values {
			if err := setCell(f, col+1, r, v); err != nil {
				return err
			}
		}
	}

	if err := f.SetColWidth(reportSheet, "B", "B", 32); err != nil {
		return fmt.Errorf("failed to set column width: %w", err)
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func setCell(f *excelize.File, col, row int, value interface{}) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return err
	}
	if err := f.SetCellValue(reportSheet, cell, value); err != nil {
		return fmt.Errorf("failed to write cell %s: %w", cell, err)
	}
	return nil
}
