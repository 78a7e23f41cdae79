package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wordquest/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines where each question field lives in the sheet
type ImportConfig struct {
	FilePath                 string // Path to the Excel or CSV file
	LessonColumn             string // Column with the lesson ID
	DifficultyColumn         string // Column with the pool difficulty
	IDColumn                 string // Column with the question ID (optional)
	TypeColumn               string // Column with "multiple-choice" or "text-input"
	TextColumn               string // Column with the prompt
	AnswerColumn             string // Column with the correct answer
	ExplanationColumn        string // Column with the explanation
	QuestionDifficultyColumn string // Column with the question's own difficulty (optional)
	EmojiColumn              string // Column with the emoji (optional)
	OptionsColumn            string // Column with the options, joined by OptionsSeparator
	OptionsSeparator         string
	SheetName                string // Name of the sheet to import
	StartRow                 int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		LessonColumn:             "A",
		DifficultyColumn:         "B",
		IDColumn:                 "C",
		TypeColumn:               "D",
		TextColumn:               "E",
		AnswerColumn:             "F",
		ExplanationColumn:        "G",
		QuestionDifficultyColumn: "H",
		EmojiColumn:              "I",
		OptionsColumn:            "J",
		OptionsSeparator:         "|",
		SheetName:                "Sheet1",
		StartRow:                 2, // By default, start from the second row (skip header)
	}
}

// Pools maps lesson ID to difficulty to the questions of that pool
type Pools map[string]map[models.Difficulty][]models.QuizQuestion

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
	Pools          Pools
}

// ImportQuestions imports question pools from an Excel or CSV file
func ImportQuestions(config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))

	var (
		rows [][]string
		err  error
	)
	if ext == ".csv" {
		rows, err = readCSV(config.FilePath)
	} else {
		rows, err = readExcel(config)
	}
	if err != nil {
		return nil, err
	}

	result := &ImportResult{
		Errors: make([]string, 0),
		Pools:  make(Pools),
	}

	for i, row := range rows {
		// Skip header rows
		if i < config.StartRow-1 {
			continue
		}
		if isBlank(row) {
			continue
		}

		result.TotalProcessed++

		if err := processRow(row, config, result); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", i+1, err))
		}
	}

	return result, nil
}

// readExcel returns all rows of the configured sheet
func readExcel(config ImportConfig) ([][]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}
	return rows, nil
}

// readCSV returns all records of a CSV file
func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	var rows [][]string
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// processRow turns one sheet row into a question and adds it to its pool
func processRow(row []string, config ImportConfig, result *ImportResult) error {
	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if colIdx := columnToIndex(column); colIdx >= 0 && colIdx < len(row) {
			return strings.TrimSpace(row[colIdx])
		}
		return ""
	}

	lessonID := cell(config.LessonColumn)
	if lessonID == "" {
		return fmt.Errorf("lesson ID cannot be empty")
	}

	poolDifficulty, err := models.ParseDifficulty(strings.ToLower(cell(config.DifficultyColumn)))
	if err != nil {
		return err
	}

	text := cell(config.TextColumn)
	if text == "" {
		return fmt.Errorf("question text cannot be empty")
	}

	answer := cell(config.AnswerColumn)
	if answer == "" {
		return fmt.Errorf("correct answer cannot be empty")
	}

	var options []string
	if raw := cell(config.OptionsColumn); raw != "" {
		for _, opt := range strings.Split(raw, config.OptionsSeparator) {
			if opt = strings.TrimSpace(opt); opt != "" {
				options = append(options, opt)
			}
		}
	}

	kind := strings.ToLower(cell(config.TypeColumn))
	if kind == "" {
		kind = models.ResponseTextInput
		if len(options) > 0 {
			kind = models.ResponseMultipleChoice
		}
	}

	response, err := models.NewResponse(kind, options)
	if err != nil {
		return err
	}
	if mc, ok := response.(models.MultipleChoice); ok && !containsFold(mc.Options, answer) {
		return fmt.Errorf("options do not contain the correct answer %q", answer)
	}

	questionDifficulty := poolDifficulty
	if raw := cell(config.QuestionDifficultyColumn); raw != "" {
		questionDifficulty, err = models.ParseDifficulty(strings.ToLower(raw))
		if err != nil {
			return err
		}
	}

	if result.Pools[lessonID] == nil {
		result.Pools[lessonID] = make(map[models.Difficulty][]models.QuizQuestion)
	}
	pool := result.Pools[lessonID][poolDifficulty]

	id := cell(config.IDColumn)
	if id == "" {
		id = fmt.Sprintf("%s-%s-%d", lessonID, poolDifficulty, len(pool)+1)
	}

	result.Pools[lessonID][poolDifficulty] = append(pool, models.QuizQuestion{
		ID:            id,
		Text:          text,
		Response:      response,
		CorrectAnswer: answer,
		Explanation:   cell(config.ExplanationColumn),
		Difficulty:    questionDifficulty,
		Emoji:         cell(config.EmojiColumn),
	})
	result.Imported++

	return nil
}

// Helper function to convert Excel column letter to index
func columnToIndex(column string) int {
	column = strings.ToUpper(column)
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func containsFold(options []string, answer string) bool {
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), strings.TrimSpace(answer)) {
			return true
		}
	}
	return false
}
