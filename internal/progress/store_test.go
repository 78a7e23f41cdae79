package progress_test

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/example/wordquest/internal/progress"
	"github.com/example/wordquest/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// fakeClock hands out strictly increasing times
type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newStore(t *testing.T, storage progress.Storage) (*progress.Store, *bytes.Buffer) {
	t.Helper()
	var logs bytes.Buffer
	clock := &fakeClock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	s := progress.NewStore(storage, log.New(&logs, "", 0), progress.WithClock(clock.now))
	return s, &logs
}

type StorageMock struct {
	mock.Mock
}

func (m *StorageMock) Load(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *StorageMock) Save(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func TestRecordAttempt_StarThresholds(t *testing.T) {
	s, _ := newStore(t, progress.NewMemoryStorage())
	ctx := context.Background()

	s.RecordAttempt(ctx, "L1", 6, 10, models.Easy)
	assert.Equal(t, 1, s.Lesson("L1").Scores.Easy, "60%")

	s.RecordAttempt(ctx, "L1", 7, 10, models.Easy)
	assert.Equal(t, 2, s.Lesson("L1").Scores.Easy, "70%")

	s.RecordAttempt(ctx, "L1", 9, 10, models.Easy)
	assert.Equal(t, 3, s.Lesson("L1").Scores.Easy, "90%")
}

func TestRecordAttempt_ZeroTotalIsNoop(t *testing.T) {
	storage := progress.NewMemoryStorage()
	s, _ := newStore(t, storage)

	assert.False(t, s.RecordAttempt(context.Background(), "L1", 0, 0, models.Easy))

	_, err := storage.Load(context.Background(), progress.StorageKey)
	assert.ErrorIs(t, err, progress.ErrNoRecord)
}

func TestRecordAttempt_RejectsInvalidInput(t *testing.T) {
	seed := `{"L1": {"scores": {"easy": 3, "medium": 0, "hard": 0, "mixed": 0}, "lastUpdated": 1000}}`

	tests := []struct {
		name       string
		correct    int
		total      int
		difficulty models.Difficulty
	}{
		{"unknown difficulty", 10, 10, models.Difficulty("bogus")},
		{"empty difficulty", 10, 10, models.Difficulty("")},
		{"more correct than total", 12, 10, models.Easy},
		{"negative correct", -3, 10, models.Easy},
		{"negative total", 0, -1, models.Medium},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := progress.NewMemoryStorage()
			ctx := context.Background()
			require.NoError(t, storage.Save(ctx, progress.StorageKey, []byte(seed)))

			s, _ := newStore(t, storage)
			s.Load(ctx)

			assert.False(t, s.RecordAttempt(ctx, "L1", tt.correct, tt.total, tt.difficulty))
			assert.Equal(t, models.LessonProgress{
				Scores:      models.Scores{Easy: 3},
				LastUpdated: 1000,
			}, s.Lesson("L1"))
			assert.Len(t, s.All(), 1)

			stored, err := storage.Load(ctx, progress.StorageKey)
			require.NoError(t, err)
			assert.Equal(t, seed, string(stored))
		})
	}
}

func TestRecordAttempt_Monotonic(t *testing.T) {
	s, _ := newStore(t, progress.NewMemoryStorage())
	ctx := context.Background()

	attempts := []struct{ correct, total int }{
		{5, 10}, {9, 10}, {7, 10}, {2, 10}, {10, 10}, {0, 10},
	}

	best := 0
	for _, a := range attempts {
		s.RecordAttempt(ctx, "L1", a.correct, a.total, models.Mixed)

		got := s.Lesson("L1").Scores.Mixed
		require.GreaterOrEqual(t, got, best, "rating decreased")
		best = got
	}
	assert.Equal(t, 3, best)
}

func TestRecordAttempt_LowerOrEqualKeepsTimestamp(t *testing.T) {
	s, _ := newStore(t, progress.NewMemoryStorage())
	ctx := context.Background()

	require.True(t, s.RecordAttempt(ctx, "L1", 10, 10, models.Hard))
	before := s.Lesson("L1")

	assert.False(t, s.RecordAttempt(ctx, "L1", 7, 10, models.Hard), "2 stars must not replace 3")
	assert.False(t, s.RecordAttempt(ctx, "L1", 9, 10, models.Hard), "an equal result must not update")

	assert.Equal(t, before, s.Lesson("L1"))
}

func TestRecordAttempt_DifficultiesAreIndependent(t *testing.T) {
	s, _ := newStore(t, progress.NewMemoryStorage())
	ctx := context.Background()

	s.RecordAttempt(ctx, "L1", 10, 10, models.Easy)
	s.RecordAttempt(ctx, "L1", 7, 10, models.Medium)

	assert.Equal(t, models.Scores{Easy: 3, Medium: 2}, s.Lesson("L1").Scores)
}

func TestStore_PersistsAndReloads(t *testing.T) {
	storage := progress.NewMemoryStorage()
	ctx := context.Background()

	s, _ := newStore(t, storage)
	s.RecordAttempt(ctx, "L1", 8, 10, models.Easy)
	s.RecordAttempt(ctx, "L2", 10, 10, models.Mixed)

	reloaded, _ := newStore(t, storage)
	reloaded.Load(ctx)

	require.Len(t, reloaded.All(), 2)
	assert.Equal(t, s.Lesson("L1"), reloaded.Lesson("L1"))
	assert.Equal(t, 3, reloaded.Lesson("L2").Scores.Mixed)
}

func TestLoad_DegradesToEmpty(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"not json", "{oops"},
		{"wrong shape", `["L1"]`},
		{"star out of range", `{"L1": {"scores": {"easy": 7, "medium": 0, "hard": 0, "mixed": 0}, "lastUpdated": 1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			storage := progress.NewMemoryStorage()
			require.NoError(t, storage.Save(context.Background(), progress.StorageKey, []byte(tt.blob)))

			s, logs := newStore(t, storage)
			s.Load(context.Background())

			assert.Empty(t, s.All())
			assert.Contains(t, logs.String(), "malformed")
		})
	}
}

func TestLoad_MissingRecord(t *testing.T) {
	s, logs := newStore(t, progress.NewMemoryStorage())
	s.Load(context.Background())

	assert.Empty(t, s.All())
	assert.Zero(t, logs.Len(), "a missing record should be silent")
}

func TestStore_PersistenceFailureIsSwallowed(t *testing.T) {
	storage := new(StorageMock)
	storage.On("Load", mock.Anything, progress.StorageKey).Return(nil, errors.New("storage unavailable"))
	storage.On("Save", mock.Anything, progress.StorageKey, mock.Anything).Return(errors.New("quota exceeded"))

	s, logs := newStore(t, storage)
	ctx := context.Background()

	s.Load(ctx)
	require.True(t, s.RecordAttempt(ctx, "L1", 10, 10, models.Easy), "accepted in memory")

	assert.Equal(t, 3, s.Lesson("L1").Scores.Easy)
	assert.Contains(t, logs.String(), "storage unavailable")
	assert.Contains(t, logs.String(), "quota exceeded")
	storage.AssertExpectations(t)
}

func TestDecode_WireFormat(t *testing.T) {
	blob := `{"L1": {"scores": {"easy": 3, "medium": 2, "hard": 0, "mixed": 1}, "lastUpdated": 1767225600000}}`

	records, err := progress.Decode([]byte(blob))
	require.NoError(t, err)

	assert.Equal(t, models.LessonProgress{
		Scores:      models.Scores{Easy: 3, Medium: 2, Mixed: 1},
		LastUpdated: 1767225600000,
	}, records["L1"])

	data, err := progress.Encode(records)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"lastUpdated":1767225600000`)
}
