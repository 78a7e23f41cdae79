package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/example/wordquest/internal/progress"
	"github.com/jmoiron/sqlx"
)

// ErrNotFound is returned when no row exists for a key
var ErrNotFound = errors.New("record not found")

// KVRepository handles the kv_store table
type KVRepository struct {
	db  *sqlx.DB
	now func() time.Time
}

// NewKVRepository creates a new repository instance
func NewKVRepository(db *sqlx.DB) *KVRepository {
	return &KVRepository{db: db, now: time.Now}
}

// Get returns the payload stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	var payload string
	query := r.db.Rebind("SELECT payload FROM kv_store WHERE storage_key = ?")

	err := r.db.GetContext(ctx, &payload, query, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %s: %w", key, err)
	}
	return payload, nil
}

// Put stores payload under key, replacing any previous value
func (r *KVRepository) Put(ctx context.Context, key, payload string) error {
	query := r.db.Rebind(`
		INSERT INTO kv_store (storage_key, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (storage_key) DO UPDATE
		SET payload = excluded.payload, updated_at = excluded.updated_at
	`)

	if _, err := r.db.ExecContext(ctx, query, key, payload, r.now().UTC()); err != nil {
		return fmt.Errorf("failed to put %s: %w", key, err)
	}
	return nil
}

// ProgressStorage adapts a KVRepository to progress.Storage
type ProgressStorage struct {
	repo *KVRepository
}

// NewProgressStorage creates progress storage on top of repo
func NewProgressStorage(repo *KVRepository) *ProgressStorage {
	return &ProgressStorage{repo: repo}
}

func (s *ProgressStorage) Load(ctx context.Context, key string) ([]byte, error) {
	payload, err := s.repo.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil, progress.ErrNoRecord
	}
	if err != nil {
		return nil, err
	}
	return []byte(payload), nil
}

func (s *ProgressStorage) Save(ctx context.Context, key string, value []byte) error {
	return s.repo.Put(ctx, key, string(value))
}
