// Package session runs a single quiz attempt: question pointer, running
// stats, mistake collection, completion and review rounds.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/example/wordquest/internal/scoring"
	"github.com/example/wordquest/pkg/models"
	"github.com/google/uuid"
)

// MinRecordedLength is the shortest session whose result counts toward
// the stored progress
const MinRecordedLength = 5

var (
	ErrNoQuestions     = errors.New("session needs a lesson and at least one question")
	ErrBadDifficulty   = errors.New("unknown difficulty")
	ErrNotActive       = errors.New("no active session")
	ErrAlreadyAnswered = errors.New("current question is already answered")
	ErrNotAnswered     = errors.New("current question is not answered yet")
	ErrNoMistakes      = errors.New("no mistakes to review")
)

// State is the lifecycle phase of the engine
type State int

const (
	NotStarted State = iota
	Active
	Completed
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Active:
		return "active"
	case Completed:
		return "completed"
	}
	return "unknown"
}

// Recorder receives the final tally of sessions long enough to count
type Recorder interface {
	RecordAttempt(ctx context.Context, lessonID string, correct, total int, difficulty models.Difficulty) bool
}

// AttemptCompleted is emitted once per finished session. Perfect is set
// when every question of the session was answered correctly.
type AttemptCompleted struct {
	SessionID  string
	LessonID   string
	Difficulty models.Difficulty
	Stats      models.PlayerStats
	Length     int
	Mistakes   int
	Perfect    bool
	Review     bool
	Recorded   bool
}

// Result describes the outcome of one submitted answer
type Result struct {
	Correct       bool
	CorrectAnswer string
	Explanation   string
	Delta         int
	Last          bool
	Perfect       bool
}

// Engine owns at most one session at a time. It is not safe for
// concurrent use; callers serialize access.
type Engine struct {
	recorder   Recorder
	onComplete func(AttemptCompleted)
	newID      func() string

	state      State
	id         string
	lessonID   string
	difficulty models.Difficulty
	review     bool
	questions  []models.QuizQuestion
	index      int
	mistakes   []models.QuizQuestion
	stats      models.PlayerStats
	answered   bool
	selected   string
	lastResult Result
}

// Option configures an Engine
type Option func(*Engine)

// WithCompletionListener registers fn to receive AttemptCompleted events
func WithCompletionListener(fn func(AttemptCompleted)) Option {
	return func(e *Engine) { e.onComplete = fn }
}

// WithIDGenerator overrides the session ID generator
func WithIDGenerator(fn func() string) Option {
	return func(e *Engine) { e.newID = fn }
}

// New creates an idle engine. recorder may be nil, in which case no
// result is ever recorded.
func New(recorder Recorder, opts ...Option) *Engine {
	e := &Engine{
		recorder: recorder,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start begins a fresh session over questions, superseding any previous
// one. The engine is left untouched when there is nothing to play.
func (e *Engine) Start(lessonID string, difficulty models.Difficulty, questions []models.QuizQuestion) error {
	if lessonID == "" || len(questions) == 0 {
		return ErrNoQuestions
	}
	if !difficulty.Valid() {
		return fmt.Errorf("%q: %w", difficulty, ErrBadDifficulty)
	}

	e.begin(lessonID, difficulty, questions, false)
	return nil
}

// StartReview replays exactly the mistakes of the completed session, in
// the order they were made. The mistake list is cleared first.
func (e *Engine) StartReview() error {
	if e.state != Completed || len(e.mistakes) == 0 {
		return ErrNoMistakes
	}

	e.begin(e.lessonID, e.difficulty, e.mistakes, true)
	return nil
}

func (e *Engine) begin(lessonID string, difficulty models.Difficulty, questions []models.QuizQuestion, review bool) {
	played := make([]models.QuizQuestion, len(questions))
	copy(played, questions)

	e.id = e.newID()
	e.lessonID = lessonID
	e.difficulty = difficulty
	e.review = review
	e.questions = played
	e.index = 0
	e.mistakes = nil
	e.stats = models.PlayerStats{}
	e.answered = false
	e.selected = ""
	e.lastResult = Result{}
	e.state = Active
}

// Submit judges raw against the current question and updates the stats.
// Further submissions are rejected until Advance is called.
func (e *Engine) Submit(raw string) (Result, error) {
	if e.state != Active {
		return Result{}, ErrNotActive
	}
	if e.answered {
		return Result{}, ErrAlreadyAnswered
	}

	q := e.questions[e.index]
	correct := scoring.IsCorrect(raw, q.CorrectAnswer)
	delta := scoring.ScoreDelta(e.stats.Streak, correct)

	if !correct {
		e.mistakes = append(e.mistakes, q)
	}

	e.stats.TotalQuestions++
	if correct {
		e.stats.CorrectAnswers++
		e.stats.Score += delta
		e.stats.Streak++
	} else {
		e.stats.Streak = 0
	}

	last := e.index == len(e.questions)-1

	e.answered = true
	e.selected = raw
	e.lastResult = Result{
		Correct:       correct,
		CorrectAnswer: q.CorrectAnswer,
		Explanation:   q.Explanation,
		Delta:         delta,
		Last:          last,
		Perfect:       last && e.stats.CorrectAnswers == len(e.questions),
	}
	return e.lastResult, nil
}

// Advance is the settle step that follows Submit. It moves to the next
// question, or completes the session and returns its AttemptCompleted.
func (e *Engine) Advance(ctx context.Context) (*AttemptCompleted, error) {
	if e.state != Active {
		return nil, ErrNotActive
	}
	if !e.answered {
		return nil, ErrNotAnswered
	}

	if e.index < len(e.questions)-1 {
		e.index++
		e.answered = false
		e.selected = ""
		return nil, nil
	}

	e.state = Completed

	done := AttemptCompleted{
		SessionID:  e.id,
		LessonID:   e.lessonID,
		Difficulty: e.difficulty,
		Stats:      e.stats,
		Length:     len(e.questions),
		Mistakes:   len(e.mistakes),
		Perfect:    e.stats.CorrectAnswers == len(e.questions),
		Review:     e.review,
	}

	if e.recorder != nil && len(e.questions) >= MinRecordedLength {
		done.Recorded = e.recorder.RecordAttempt(ctx, e.lessonID, e.stats.CorrectAnswers, len(e.questions), e.difficulty)
	}

	if e.onComplete != nil {
		e.onComplete(done)
	}
	return &done, nil
}

// Reset drops the current session, e.g. when the learner leaves to a menu
func (e *Engine) Reset() {
	*e = Engine{
		recorder:   e.recorder,
		onComplete: e.onComplete,
		newID:      e.newID,
	}
}

// State returns the lifecycle phase
func (e *Engine) State() State {
	return e.state
}

// SessionID identifies the current session, empty when none was started
func (e *Engine) SessionID() string {
	return e.id
}

// Mistakes returns a copy of the questions missed so far
func (e *Engine) Mistakes() []models.QuizQuestion {
	out := make([]models.QuizQuestion, len(e.mistakes))
	copy(out, e.mistakes)
	return out
}

// Snapshot is a read-only view of the engine for the presentation layer
type Snapshot struct {
	State      State
	SessionID  string
	LessonID   string
	Difficulty models.Difficulty
	Review     bool
	Index      int
	Length     int
	Question   *models.QuizQuestion
	Stats      models.PlayerStats
	Answered   bool
	Selected   string
	LastResult Result
	Mistakes   int
}

// Snapshot returns the current view. Question is set only while Active.
func (e *Engine) Snapshot() Snapshot {
	snap := Snapshot{
		State:      e.state,
		SessionID:  e.id,
		LessonID:   e.lessonID,
		Difficulty: e.difficulty,
		Review:     e.review,
		Index:      e.index,
		Length:     len(e.questions),
		Stats:      e.stats,
		Answered:   e.answered,
		Selected:   e.selected,
		LastResult: e.lastResult,
		Mistakes:   len(e.mistakes),
	}
	if e.state == Active {
		q := e.questions[e.index]
		snap.Question = &q
	}
	return snap
}
