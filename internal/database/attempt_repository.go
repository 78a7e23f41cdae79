package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// AttemptRepository handles the attempt_history table
type AttemptRepository struct {
	db *sqlx.DB
}

// NewAttemptRepository creates a new repository instance
func NewAttemptRepository(db *sqlx.DB) *AttemptRepository {
	return &AttemptRepository{db: db}
}

// Create inserts a finished attempt and sets its ID
func (r *AttemptRepository) Create(ctx context.Context, a *Attempt) error {
	if a.PlayedAt.IsZero() {
		a.PlayedAt = time.Now()
	}
	a.PlayedAt = a.PlayedAt.UTC()

	query := r.db.Rebind(`
		INSERT INTO attempt_history (
			session_id, lesson_id, difficulty, correct_answers,
			total_questions, score, review, played_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := r.db.QueryRowxContext(ctx, query,
		a.SessionID,
		a.LessonID,
		a.Difficulty,
		a.CorrectAnswers,
		a.TotalQuestions,
		a.Score,
		a.Review,
		a.PlayedAt,
	).Scan(&a.ID)
	if err != nil {
		return fmt.Errorf("failed to create attempt: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, newest first
func (r *AttemptRepository) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	var attempts []Attempt
	query := r.db.Rebind("SELECT * FROM attempt_history ORDER BY played_at DESC, id DESC LIMIT ?")

	if err := r.db.SelectContext(ctx, &attempts, query, limit); err != nil {
		return nil, fmt.Errorf("failed to get attempts: %w", err)
	}
	return attempts, nil
}

// LastPlayedAt returns the time of the newest attempt, or ErrNotFound
func (r *AttemptRepository) LastPlayedAt(ctx context.Context) (time.Time, error) {
	var attempt Attempt
	query := "SELECT * FROM attempt_history ORDER BY played_at DESC, id DESC LIMIT 1"

	err := r.db.GetContext(ctx, &attempt, query)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get last attempt: %w", err)
	}
	return attempt.PlayedAt, nil
}
