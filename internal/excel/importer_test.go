package excel_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/example/wordquest/internal/excel"
	"github.com/example/wordquest/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `lesson,difficulty,id,type,text,answer,explanation,question difficulty,emoji,options
el-u1,easy,q1,multiple-choice,What is 'pes'?,Dog,Pes means dog.,,🐶,Dog|Cat|Cow|Hen
el-u1,easy,,multiple-choice,What is 'kočka'?,Cat,Kočka means cat.,,,Dog|Cat|Cow|Hen
el-u1,hard,q3,text-input,Translate: 'jablko',apple,Jablko is apple.,,,
el-u1,mixed,q4,,Translate: 'dům',house,,hard,,

el-u1,nope,q5,text-input,Bad difficulty,x,,,,
el-u1,easy,q6,multiple-choice,Missing answer in options,Fish,,,,Dog|Cat
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportQuestions_CSV(t *testing.T) {
	config := excel.DefaultImportConfig()
	config.FilePath = writeFile(t, "bank.csv", sampleCSV)

	result, err := excel.ImportQuestions(config)
	require.NoError(t, err)

	assert.Equal(t, 6, result.TotalProcessed)
	assert.Equal(t, 4, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	assert.Len(t, result.Errors, 2)

	easy := result.Pools["el-u1"][models.Easy]
	require.Len(t, easy, 2)
	assert.Equal(t, "🐶", easy[0].Emoji)
	assert.Equal(t, []string{"Dog", "Cat", "Cow", "Hen"}, easy[0].Options())
	assert.Equal(t, "el-u1-easy-2", easy[1].ID, "generated ID")

	hard := result.Pools["el-u1"][models.Hard]
	require.Len(t, hard, 1)
	assert.IsType(t, models.TextInput{}, hard[0].Response)

	mixed := result.Pools["el-u1"][models.Mixed]
	require.Len(t, mixed, 1)
	assert.Equal(t, models.Hard, mixed[0].Difficulty)
	assert.IsType(t, models.TextInput{}, mixed[0].Response, "no options defaults to text input")
}

func TestImportQuestions_Excel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.xlsx")

	f := excelize.NewFile()
	rows := [][]interface{}{
		{"lesson", "difficulty", "id", "type", "text", "answer", "explanation", "qd", "emoji", "options"},
		{"pre-u2", "medium", "m1", "multiple-choice", "I sit on a ___", "chair", "You sit on a chair.", "", "🪑", "chair|table|door"},
		{"pre-u2", "medium", "m2", "text-input", "Spell 'okno'", "window"},
	}
	for r, row := range rows {
		for c, v := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", cell, v))
		}
	}
	require.NoError(t, f.SaveAs(path))
	f.Close()

	config := excel.DefaultImportConfig()
	config.FilePath = path

	result, err := excel.ImportQuestions(config)
	require.NoError(t, err)

	pool := result.Pools["pre-u2"][models.Medium]
	require.Len(t, pool, 2, "errors: %v", result.Errors)
	assert.Equal(t, "chair", pool[0].CorrectAnswer)
	assert.Equal(t, "You sit on a chair.", pool[0].Explanation)
	assert.IsType(t, models.TextInput{}, pool[1].Response)
}

func TestImportQuestions_MissingFile(t *testing.T) {
	config := excel.DefaultImportConfig()
	config.FilePath = filepath.Join(t.TempDir(), "missing.xlsx")

	_, err := excel.ImportQuestions(config)
	assert.Error(t, err)
}
