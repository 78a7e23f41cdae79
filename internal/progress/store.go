// Package progress keeps the learner's best-ever star ratings per lesson
// and difficulty and persists them as a single record.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/wordquest/internal/scoring"
	"github.com/example/wordquest/pkg/models"
)

// StorageKey is the fixed key the progress record is stored under
const StorageKey = "english-quest-progress-v2"

// ErrNoRecord is returned by a Storage when nothing is stored under the key
var ErrNoRecord = errors.New("no stored record")

// Storage is the key-value backend the store persists to
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
}

// Store maps lesson IDs to their best results.
// It is not safe for concurrent use.
type Store struct {
	storage Storage
	logger  *log.Logger
	now     func() time.Time
	records map[string]models.LessonProgress
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the clock used for LastUpdated timestamps
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// NewStore creates an empty store backed by storage
func NewStore(storage Storage, logger *log.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = log.Default()
	}
	s := &Store{
		storage: storage,
		logger:  logger,
		now:     time.Now,
		records: make(map[string]models.LessonProgress),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load replaces the in-memory records with the persisted ones.
// A missing, unreadable or malformed record leaves the store empty.
func (s *Store) Load(ctx context.Context) {
	s.records = make(map[string]models.LessonProgress)

	data, err := s.storage.Load(ctx, StorageKey)
	if errors.Is(err, ErrNoRecord) {
		return
	}
	if err != nil {
		s.logger.Printf("Failed to load progress: %v", err)
		return
	}

	records, err := Decode(data)
	if err != nil {
		s.logger.Printf("Ignoring malformed progress record: %v", err)
		return
	}
	s.records = records
}

// RecordAttempt stores the attempt's stars for (lessonID, difficulty) if
// they beat the stored rating. Equal or lower results leave the record,
// including its timestamp, untouched. It reports whether the record changed.
// Unknown difficulties and tallies outside 0 <= correct <= total are ignored.
func (s *Store) RecordAttempt(ctx context.Context, lessonID string, correct, total int, difficulty models.Difficulty) bool {
	if total <= 0 || correct < 0 || correct > total || !difficulty.Valid() {
		return false
	}

	stars := scoring.StarRating(correct, total)

	current := s.records[lessonID]
	if stars <= current.Scores.Get(difficulty) {
		return false
	}

	s.records[lessonID] = models.LessonProgress{
		Scores:      current.Scores.With(difficulty, stars),
		LastUpdated: s.now().UnixMilli(),
	}

	s.persist(ctx)
	return true
}

// Lesson returns the progress of one lesson, zero if never played
func (s *Store) Lesson(lessonID string) models.LessonProgress {
	return s.records[lessonID]
}

// All returns a copy of every lesson's progress
func (s *Store) All() map[string]models.LessonProgress {
	out := make(map[string]models.LessonProgress, len(s.records))
	for id, p := range s.records {
		out[id] = p
	}
	return out
}

// persist writes the whole mapping. Failures are logged, never returned:
// the in-memory result stays valid for the rest of the run.
func (s *Store) persist(ctx context.Context) {
	data, err := Encode(s.records)
	if err != nil {
		s.logger.Printf("Failed to encode progress: %v", err)
		return
	}
	if err := s.storage.Save(ctx, StorageKey, data); err != nil {
		s.logger.Printf("Failed to save progress: %v", err)
	}
}

// Encode serializes the progress mapping
func Encode(records map[string]models.LessonProgress) ([]byte, error) {
	return json.Marshal(records)
}

// Decode parses a progress mapping. The record is rejected as a whole if
// any star rating is outside 0-3.
func Decode(data []byte) (map[string]models.LessonProgress, error) {
	var records map[string]models.LessonProgress
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = make(map[string]models.LessonProgress)
	}

	for id, p := range records {
		for _, d := range models.Difficulties() {
			if stars := p.Scores.Get(d); stars < 0 || stars > scoring.MaxStars {
				return nil, fmt.Errorf("lesson %s: %s rating %d out of range", id, d, stars)
			}
		}
	}
	return records, nil
}
