package database

import (
	"time"
)

// Attempt is one finished quiz session as kept in attempt_history
type Attempt struct {
	ID             int64     `db:"id"`
	SessionID      string    `db:"session_id"`
	LessonID       string    `db:"lesson_id"`
	Difficulty     string    `db:"difficulty"`
	CorrectAnswers int       `db:"correct_answers"`
	TotalQuestions int       `db:"total_questions"`
	Score          int       `db:"score"`
	Review         bool      `db:"review"`
	PlayedAt       time.Time `db:"played_at"`
}
