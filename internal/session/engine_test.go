package session_test

import (
	"context"
	"fmt"
	"io"
	"log"
	"testing"

	"github.com/example/wordquest/internal/progress"
	"github.com/example/wordquest/internal/session"
	"github.com/example/wordquest/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type RecorderMock struct {
	mock.Mock
}

func (m *RecorderMock) RecordAttempt(ctx context.Context, lessonID string, correct, total int, d models.Difficulty) bool {
	args := m.Called(ctx, lessonID, correct, total, d)
	return args.Bool(0)
}

func makeQuestions(n int) []models.QuizQuestion {
	questions := make([]models.QuizQuestion, n)
	for i := range questions {
		questions[i] = models.QuizQuestion{
			ID:            fmt.Sprintf("q%d", i),
			Text:          fmt.Sprintf("Translate word %d", i),
			Response:      models.TextInput{},
			CorrectAnswer: fmt.Sprintf("Word%d", i),
			Explanation:   fmt.Sprintf("Word %d explained", i),
			Difficulty:    models.Easy,
		}
	}
	return questions
}

// answer submits and settles the current question
func answer(t *testing.T, e *session.Engine, correct bool) (session.Result, *session.AttemptCompleted) {
	t.Helper()

	snap := e.Snapshot()
	require.NotNil(t, snap.Question, "expected an active question")

	raw := "wrong"
	if correct {
		raw = snap.Question.CorrectAnswer
	}

	res, err := e.Submit(raw)
	require.NoError(t, err)
	done, err := e.Advance(context.Background())
	require.NoError(t, err)
	return res, done
}

func TestStart_RequiresQuestions(t *testing.T) {
	e := session.New(nil)

	assert.ErrorIs(t, e.Start("L1", models.Easy, nil), session.ErrNoQuestions)
	assert.ErrorIs(t, e.Start("", models.Easy, makeQuestions(3)), session.ErrNoQuestions)
	assert.Equal(t, session.NotStarted, e.State())
}

func TestStart_RejectsUnknownDifficulty(t *testing.T) {
	for _, d := range []models.Difficulty{"", "bogus", "EASY"} {
		t.Run(string(d), func(t *testing.T) {
			e := session.New(nil)

			err := e.Start("L1", d, makeQuestions(5))

			assert.ErrorIs(t, err, session.ErrBadDifficulty)
			assert.Equal(t, session.NotStarted, e.State())
			assert.Empty(t, e.SessionID())
			assert.Nil(t, e.Snapshot().Question)
		})
	}
}

func TestStart_BadDifficultyKeepsRunningSession(t *testing.T) {
	e := session.New(nil)
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(5)))
	answer(t, e, true)
	before := e.Snapshot()

	assert.ErrorIs(t, e.Start("L2", models.Difficulty("bogus"), makeQuestions(5)), session.ErrBadDifficulty)
	assert.Equal(t, before, e.Snapshot())
}

func TestSubmit_ScoreAndStreak(t *testing.T) {
	e := session.New(nil)
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(6)))

	wantDeltas := []int{100, 110, 120, 130}
	for i, want := range wantDeltas {
		res, _ := answer(t, e, true)
		assert.Equal(t, want, res.Delta, "answer %d", i+1)
	}

	stats := e.Snapshot().Stats
	assert.Equal(t, 460, stats.Score)
	assert.Equal(t, 4, stats.Streak)

	res, _ := answer(t, e, false)
	assert.False(t, res.Correct)
	assert.Zero(t, res.Delta)

	stats = e.Snapshot().Stats
	assert.Equal(t, models.PlayerStats{Score: 460, Streak: 0, TotalQuestions: 5, CorrectAnswers: 4}, stats)
}

func TestSubmit_NormalizesAnswers(t *testing.T) {
	q := []models.QuizQuestion{
		{ID: "a", Response: models.TextInput{}, CorrectAnswer: "Apple"},
		{ID: "b", Response: models.TextInput{}, CorrectAnswer: "Apple"},
		{ID: "c", Response: models.TextInput{}, CorrectAnswer: "Apple"},
	}
	e := session.New(nil)
	require.NoError(t, e.Start("L1", models.Hard, q))

	for _, tt := range []struct {
		raw  string
		want bool
	}{
		{" Apple ", true},
		{"apple", true},
		{"Aple", false},
	} {
		res, err := e.Submit(tt.raw)
		require.NoError(t, err)
		assert.Equal(t, tt.want, res.Correct, "Submit(%q)", tt.raw)

		_, err = e.Advance(context.Background())
		require.NoError(t, err)
	}
}

func TestSubmit_RejectedWhileSettling(t *testing.T) {
	e := session.New(nil)
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(2)))

	_, err := e.Submit("Word0")
	require.NoError(t, err)
	_, err = e.Submit("Word0")
	assert.ErrorIs(t, err, session.ErrAlreadyAnswered)

	snap := e.Snapshot()
	assert.Equal(t, 0, snap.Index, "the pointer waits for Advance")
	assert.Equal(t, 1, snap.Stats.TotalQuestions)
	assert.True(t, snap.Answered)
	assert.Equal(t, "Word0", snap.Selected)
}

func TestAdvance_Preconditions(t *testing.T) {
	e := session.New(nil)

	_, err := e.Advance(context.Background())
	assert.ErrorIs(t, err, session.ErrNotActive)
	_, err = e.Submit("x")
	assert.ErrorIs(t, err, session.ErrNotActive)

	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(2)))
	_, err = e.Advance(context.Background())
	assert.ErrorIs(t, err, session.ErrNotAnswered)
}

func TestSession_ShortPoolHandled(t *testing.T) {
	rec := new(RecorderMock)
	e := session.New(rec)
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(3)))

	var done *session.AttemptCompleted
	for i := 0; i < 3; i++ {
		_, done = answer(t, e, true)
	}

	require.NotNil(t, done)
	assert.Equal(t, 3, done.Length)
	assert.Equal(t, session.Completed, e.State())
	assert.False(t, done.Recorded)
	rec.AssertNotCalled(t, "RecordAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestReview_MistakeRoundTrip(t *testing.T) {
	rec := new(RecorderMock)
	rec.On("RecordAttempt", mock.Anything, "L1", 7, 10, models.Medium).Return(true).Once()

	e := session.New(rec)
	require.NoError(t, e.Start("L1", models.Medium, makeQuestions(10)))

	missed := map[int]bool{2: true, 5: true, 9: true}
	var done *session.AttemptCompleted
	for i := 0; i < 10; i++ {
		_, done = answer(t, e, !missed[i])
	}

	require.NotNil(t, done)
	assert.Equal(t, 3, done.Mistakes)
	assert.False(t, done.Perfect)
	assert.True(t, done.Recorded)

	require.NoError(t, e.StartReview())

	snap := e.Snapshot()
	require.Equal(t, 3, snap.Length)
	assert.True(t, snap.Review)
	assert.Zero(t, snap.Mistakes)
	assert.Equal(t, models.PlayerStats{}, snap.Stats)

	for i, id := range []string{"q2", "q5", "q9"} {
		assert.Equal(t, id, e.Snapshot().Question.ID, "review question %d", i)
		_, done = answer(t, e, true)
	}

	assert.True(t, done.Perfect)
	assert.True(t, done.Review)
	assert.Empty(t, e.Mistakes())
	assert.ErrorIs(t, e.StartReview(), session.ErrNoMistakes)

	// the short review round is never recorded
	rec.AssertNumberOfCalls(t, "RecordAttempt", 1)
	rec.AssertExpectations(t)
}

func TestStartReview_RequiresCompletedSession(t *testing.T) {
	e := session.New(nil)
	assert.ErrorIs(t, e.StartReview(), session.ErrNoMistakes)

	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(2)))
	answer(t, e, false)
	assert.ErrorIs(t, e.StartReview(), session.ErrNoMistakes, "refused mid-session")
}

func TestSession_EndToEndPerfectRun(t *testing.T) {
	store := progress.NewStore(progress.NewMemoryStorage(), log.New(io.Discard, "", 0))

	var events []session.AttemptCompleted
	e := session.New(store, session.WithCompletionListener(func(ev session.AttemptCompleted) {
		events = append(events, ev)
	}))
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(10)))

	var (
		res  session.Result
		done *session.AttemptCompleted
	)
	for i := 0; i < 10; i++ {
		res, done = answer(t, e, true)
		if i < 9 {
			require.False(t, res.Last, "answer %d", i+1)
			require.False(t, res.Perfect, "answer %d", i+1)
		}
	}

	assert.True(t, res.Last)
	assert.True(t, res.Perfect)

	require.NotNil(t, done)
	assert.Equal(t, models.PlayerStats{Score: 1450, Streak: 10, TotalQuestions: 10, CorrectAnswers: 10}, done.Stats)
	assert.True(t, done.Perfect)
	assert.True(t, done.Recorded)
	assert.Equal(t, 3, store.Lesson("L1").Scores.Easy)

	require.Len(t, events, 1)
	assert.Equal(t, done.SessionID, events[0].SessionID)
}

func TestStart_SupersedesPreviousSession(t *testing.T) {
	ids := []string{"s1", "s2"}
	e := session.New(nil, session.WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}))

	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(5)))
	answer(t, e, false)
	answer(t, e, true)

	require.NoError(t, e.Start("L2", models.Hard, makeQuestions(4)))
	snap := e.Snapshot()
	assert.Equal(t, "s2", snap.SessionID)
	assert.Equal(t, "L2", snap.LessonID)
	assert.Zero(t, snap.Index)
	assert.Equal(t, models.PlayerStats{}, snap.Stats)
	assert.Zero(t, snap.Mistakes)
}

func TestReset(t *testing.T) {
	e := session.New(nil)
	require.NoError(t, e.Start("L1", models.Easy, makeQuestions(3)))
	answer(t, e, false)

	e.Reset()

	assert.Equal(t, session.NotStarted, e.State())
	assert.Empty(t, e.SessionID())
	assert.Nil(t, e.Snapshot().Question)
}
