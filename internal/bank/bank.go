// Package bank gives read-only access to the pre-generated question pools.
package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/wordquest/internal/excel"
	"github.com/example/wordquest/internal/scoring"
	"github.com/example/wordquest/internal/shuffle"
	"github.com/example/wordquest/pkg/models"
)

// ErrNotFound is returned when a lesson has no pool for a difficulty.
// Unknown lessons, missing difficulties and empty pools all report it.
var ErrNotFound = errors.New("question pool not found")

// Bank is the static lesson -> difficulty -> pool mapping
type Bank struct {
	pools map[string]map[models.Difficulty][]models.QuizQuestion
}

// New wraps already loaded pools
func New(pools map[string]map[models.Difficulty][]models.QuizQuestion) *Bank {
	if pools == nil {
		pools = make(map[string]map[models.Difficulty][]models.QuizQuestion)
	}
	return &Bank{pools: pools}
}

// Load reads a bank from disk. JSON files use the generator's output
// format; .xlsx and .csv files go through the spreadsheet importer.
func Load(path string) (*Bank, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".csv":
		config := excel.DefaultImportConfig()
		config.FilePath = path

		result, err := excel.ImportQuestions(config)
		if err != nil {
			return nil, fmt.Errorf("failed to import question bank: %w", err)
		}
		if len(result.Errors) > 0 {
			return nil, fmt.Errorf("question bank %s has %d invalid rows, first: %s", path, len(result.Errors), result.Errors[0])
		}
		return New(result.Pools), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question bank: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON bank
func Parse(data []byte) (*Bank, error) {
	var pools map[string]map[models.Difficulty][]models.QuizQuestion
	if err := json.Unmarshal(data, &pools); err != nil {
		return nil, fmt.Errorf("failed to decode question bank: %w", err)
	}

	for lessonID, byDifficulty := range pools {
		for d, pool := range byDifficulty {
			if !d.Valid() {
				return nil, fmt.Errorf("lesson %s: unknown difficulty %q", lessonID, d)
			}
			for _, q := range pool {
				if !answerable(q) {
					return nil, fmt.Errorf("lesson %s (%s): question %s: options do not contain the correct answer %q", lessonID, d, q.ID, q.CorrectAnswer)
				}
			}
		}
	}

	return New(pools), nil
}

// answerable reports whether a multiple-choice question offers its own
// correct answer. Typed questions always are.
func answerable(q models.QuizQuestion) bool {
	mc, ok := q.Response.(models.MultipleChoice)
	if !ok {
		return true
	}
	for _, opt := range mc.Options {
		if scoring.IsCorrect(opt, q.CorrectAnswer) {
			return true
		}
	}
	return false
}

// Pool returns a copy of the questions for the lesson and difficulty
func (b *Bank) Pool(lessonID string, difficulty models.Difficulty) ([]models.QuizQuestion, error) {
	byDifficulty, ok := b.pools[lessonID]
	if !ok {
		return nil, fmt.Errorf("lesson %s (%s): %w", lessonID, difficulty, ErrNotFound)
	}

	pool := byDifficulty[difficulty]
	if len(pool) == 0 {
		return nil, fmt.Errorf("lesson %s (%s): %w", lessonID, difficulty, ErrNotFound)
	}

	questions := make([]models.QuizQuestion, len(pool))
	copy(questions, pool)
	return questions, nil
}

// Draw returns up to n questions from the pool in random order
func (b *Bank) Draw(src shuffle.Source, lessonID string, difficulty models.Difficulty, n int) ([]models.QuizQuestion, error) {
	pool, err := b.Pool(lessonID, difficulty)
	if err != nil {
		return nil, err
	}
	return shuffle.Draw(src, pool, n), nil
}

// Lessons returns the IDs of every lesson with at least one pool
func (b *Bank) Lessons() []string {
	ids := make([]string, 0, len(b.pools))
	for id := range b.pools {
		ids = append(ids, id)
	}
	return ids
}
