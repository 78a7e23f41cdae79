package models_test

import (
	"encoding/json"
	"testing"

	"github.com/example/wordquest/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizQuestion_UnmarshalVariants(t *testing.T) {
	data := `[
	  {"id": "a", "text": "What is 'pes'?", "type": "multiple-choice", "options": ["Dog", "Cat"], "correctAnswer": "Dog", "explanation": "", "difficulty": "easy"},
	  {"id": "b", "text": "Spell 'okno'", "type": "text-input", "options": null, "correctAnswer": "window", "explanation": "", "difficulty": "hard"}
	]`

	var questions []models.QuizQuestion
	require.NoError(t, json.Unmarshal([]byte(data), &questions))
	require.Len(t, questions, 2)

	mc, ok := questions[0].Response.(models.MultipleChoice)
	require.True(t, ok, "expected multiple choice, got %T", questions[0].Response)
	assert.Equal(t, []string{"Dog", "Cat"}, mc.Options)

	assert.IsType(t, models.TextInput{}, questions[1].Response)
	assert.Nil(t, questions[1].Options())
}

func TestQuizQuestion_UnmarshalRejectsBadResponse(t *testing.T) {
	tests := []string{
		`{"id": "a", "type": "multiple-choice", "options": ["only"]}`,
		`{"id": "a", "type": "drag-and-drop"}`,
	}

	for _, data := range tests {
		var q models.QuizQuestion
		assert.Error(t, json.Unmarshal([]byte(data), &q), data)
	}
}

func TestQuizQuestion_MarshalWritesDiscriminator(t *testing.T) {
	q := models.QuizQuestion{ID: "b", Text: "Spell 'okno'", Response: models.TextInput{}, CorrectAnswer: "window"}

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type":"text-input"`)
	assert.NotContains(t, string(data), `"options"`)

	_, err = json.Marshal(models.QuizQuestion{ID: "c"})
	assert.Error(t, err, "a question needs a response")
}

func TestScores_GetWith(t *testing.T) {
	s := models.Scores{}.With(models.Hard, 2)

	assert.Equal(t, 2, s.Get(models.Hard))
	for _, d := range []models.Difficulty{models.Easy, models.Medium, models.Mixed} {
		assert.Zero(t, s.Get(d), "difficulty %s", d)
	}
}
