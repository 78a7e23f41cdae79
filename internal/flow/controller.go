// Package flow drives the top-level screens: course and lesson pickers,
// flashcards, quiz play and the result screen.
package flow

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/example/wordquest/internal/session"
	"github.com/example/wordquest/internal/shuffle"
	"github.com/example/wordquest/pkg/models"
)

// DefaultSessionSize is the number of questions drawn for one quiz
const DefaultSessionSize = 10

var (
	ErrIllegalTransition = errors.New("illegal screen transition")
	ErrNoVocabulary      = errors.New("lesson has no vocabulary list")
	ErrUnknownCourse     = errors.New("unknown course")
	ErrUnknownLesson     = errors.New("unknown lesson")
)

// Catalog is the lesson lookup the controller navigates
type Catalog interface {
	Lesson(id string) (models.Lesson, bool)
	Split(course models.CourseLevel) (units, topics []models.Lesson)
}

// QuestionSource draws a session-sized set of questions
type QuestionSource interface {
	Draw(src shuffle.Source, lessonID string, difficulty models.Difficulty, n int) ([]models.QuizQuestion, error)
}

// Progress records finished attempts and serves the stored ratings
type Progress interface {
	session.Recorder
	Lesson(lessonID string) models.LessonProgress
}

// Listener is told about screen changes and finished attempts
type Listener interface {
	ScreenChanged(from, to Screen)
	AttemptCompleted(ev session.AttemptCompleted)
}

// Controller owns the screen state and the session engine.
// It is not safe for concurrent use.
type Controller struct {
	catalog     Catalog
	questions   QuestionSource
	progress    Progress
	engine      *session.Engine
	src         shuffle.Source
	logger      *log.Logger
	listener    Listener
	sessionSize int

	screen     Screen
	course     models.CourseLevel
	lesson     *models.Lesson
	mode       Mode
	difficulty models.Difficulty
	deck       *Deck
	failure    string
}

// Option configures a Controller
type Option func(*Controller)

// WithListener registers l for screen and completion events
func WithListener(l Listener) Option {
	return func(c *Controller) { c.listener = l }
}

// WithSessionSize overrides the number of questions per quiz
func WithSessionSize(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.sessionSize = n
		}
	}
}

// WithSource overrides the randomness used for draws and decks
func WithSource(src shuffle.Source) Option {
	return func(c *Controller) { c.src = src }
}

// WithLogger sets the logger
func WithLogger(logger *log.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// New creates a controller on the CourseSelect screen
func New(catalog Catalog, questions QuestionSource, progress Progress, opts ...Option) *Controller {
	c := &Controller{
		catalog:     catalog,
		questions:   questions,
		progress:    progress,
		src:         shuffle.New(),
		logger:      log.Default(),
		sessionSize: DefaultSessionSize,
		screen:      CourseSelect,
		difficulty:  models.Mixed,
	}
	c.engine = session.New(progress, session.WithCompletionListener(c.completed))
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Screen returns the active screen
func (c *Controller) Screen() Screen {
	return c.screen
}

// SessionID identifies the running session, empty when there is none
func (c *Controller) SessionID() string {
	return c.engine.SessionID()
}

func (c *Controller) move(to Screen) error {
	if !CanTransition(c.screen, to) {
		return fmt.Errorf("%s -> %s: %w", c.screen, to, ErrIllegalTransition)
	}
	c.setScreen(to)
	return nil
}

func (c *Controller) setScreen(to Screen) {
	from := c.screen
	c.screen = to
	if c.listener != nil && from != to {
		c.listener.ScreenChanged(from, to)
	}
}

func (c *Controller) completed(ev session.AttemptCompleted) {
	if c.listener != nil {
		c.listener.AttemptCompleted(ev)
	}
}

// SelectCourse opens the lesson list of a course
func (c *Controller) SelectCourse(course models.CourseLevel) error {
	if !course.Valid() {
		return fmt.Errorf("%q: %w", course, ErrUnknownCourse)
	}
	if err := c.move(LessonSelect); err != nil {
		return err
	}
	c.course = course
	return nil
}

// SelectLesson picks a lesson of the selected course
func (c *Controller) SelectLesson(id string) error {
	lesson, ok := c.catalog.Lesson(id)
	if !ok || lesson.Course != c.course {
		return fmt.Errorf("%s: %w", id, ErrUnknownLesson)
	}
	if err := c.move(ModeSelect); err != nil {
		return err
	}
	c.lesson = &lesson
	return nil
}

// ChooseMode opens the flashcards (Learn) or the difficulty picker (Test).
// Learn needs a lesson with a vocabulary list.
func (c *Controller) ChooseMode(mode Mode) error {
	if c.screen != ModeSelect {
		return fmt.Errorf("choose mode on %s: %w", c.screen, ErrIllegalTransition)
	}

	switch mode {
	case Learn:
		items, ok := c.lesson.Vocabulary()
		if !ok {
			return fmt.Errorf("%s: %w", c.lesson.ID, ErrNoVocabulary)
		}
		c.deck = NewDeck(c.src, items)
		c.mode = mode
		return c.move(Flashcards)
	case Test:
		c.mode = mode
		return c.move(DifficultySelect)
	}
	return fmt.Errorf("unknown mode %q", mode)
}

// NextCard moves the flashcard deck forward, reporting whether it moved
func (c *Controller) NextCard() bool {
	if c.screen != Flashcards || c.deck == nil {
		return false
	}
	return c.deck.Next()
}

// PrevCard moves the flashcard deck back, reporting whether it moved
func (c *Controller) PrevCard() bool {
	if c.screen != Flashcards || c.deck == nil {
		return false
	}
	return c.deck.Prev()
}

// StartQuiz draws questions for the selected lesson and starts a session.
// A missing pool lands on the Error screen and is not returned as an error.
func (c *Controller) StartQuiz(difficulty models.Difficulty) error {
	if !difficulty.Valid() {
		return fmt.Errorf("unknown difficulty %q", difficulty)
	}
	if err := c.move(Loading); err != nil {
		return err
	}
	c.difficulty = difficulty
	c.failure = ""

	questions, err := c.questions.Draw(c.src, c.lesson.ID, difficulty, c.sessionSize)
	if err == nil {
		err = c.engine.Start(c.lesson.ID, difficulty, questions)
	}
	if err != nil {
		c.logger.Printf("Failed to load questions for %s (%s): %v", c.lesson.ID, difficulty, err)
		c.failure = err.Error()
		c.engine.Reset()
		c.setScreen(Error)
		return nil
	}

	c.setScreen(Playing)
	return nil
}

// SubmitAnswer judges raw against the current question
func (c *Controller) SubmitAnswer(raw string) (session.Result, error) {
	if c.screen != Playing {
		return session.Result{}, fmt.Errorf("submit on %s: %w", c.screen, ErrIllegalTransition)
	}
	return c.engine.Submit(raw)
}

// Advance settles the answered question of session sessionID. Calls for a
// session that has since been superseded or abandoned are ignored.
func (c *Controller) Advance(ctx context.Context, sessionID string) error {
	if c.screen != Playing || sessionID == "" || sessionID != c.engine.SessionID() {
		return nil
	}

	done, err := c.engine.Advance(ctx)
	if err != nil {
		return err
	}
	if done != nil {
		return c.move(GameOver)
	}
	return nil
}

// StartReview replays the mistakes of the finished session
func (c *Controller) StartReview() error {
	if c.screen != GameOver {
		return fmt.Errorf("review on %s: %w", c.screen, ErrIllegalTransition)
	}
	if err := c.engine.StartReview(); err != nil {
		return err
	}
	return c.move(Playing)
}

// Back goes up one fixed level. Leaving to LessonSelect drops the
// lesson, session and deck; leaving LessonSelect drops the course.
func (c *Controller) Back() error {
	to, ok := backTarget(c.screen)
	if !ok {
		return fmt.Errorf("back from %s: %w", c.screen, ErrIllegalTransition)
	}

	if to == CourseSelect {
		c.course = ""
	}
	c.lesson = nil
	c.mode = ""
	c.deck = nil
	c.failure = ""
	c.engine.Reset()

	c.setScreen(to)
	return nil
}

// Badge is one difficulty light of a lesson, lit once any star was earned
type Badge struct {
	Difficulty models.Difficulty
	Stars      int
	Lit        bool
}

// LessonEntry is a lesson as listed on LessonSelect
type LessonEntry struct {
	Lesson models.Lesson
	Badges []Badge
}

// Badges returns the lesson's stored ratings in canonical difficulty order
func (c *Controller) Badges(lessonID string) []Badge {
	scores := c.progress.Lesson(lessonID).Scores
	badges := make([]Badge, 0, len(models.Difficulties()))
	for _, d := range models.Difficulties() {
		stars := scores.Get(d)
		badges = append(badges, Badge{Difficulty: d, Stars: stars, Lit: stars > 0})
	}
	return badges
}

// CardView is the flashcard currently shown
type CardView struct {
	Card    models.VocabItem
	Index   int
	Total   int
	HasPrev bool
	HasNext bool
}

// View is everything the presentation layer needs to render a screen
type View struct {
	Screen     Screen
	Course     models.CourseLevel
	Lesson     *models.Lesson
	Mode       Mode
	Difficulty models.Difficulty
	Units      []LessonEntry
	Topics     []LessonEntry
	Card       *CardView
	Session    session.Snapshot
	Failure    string
}

// View returns a snapshot of the current screen
func (c *Controller) View() View {
	v := View{
		Screen:     c.screen,
		Course:     c.course,
		Mode:       c.mode,
		Difficulty: c.difficulty,
		Session:    c.engine.Snapshot(),
		Failure:    c.failure,
	}
	if c.lesson != nil {
		lesson := *c.lesson
		v.Lesson = &lesson
	}

	if c.screen == LessonSelect {
		units, topics := c.catalog.Split(c.course)
		v.Units = c.entries(units)
		v.Topics = c.entries(topics)
	}

	if c.screen == Flashcards && c.deck != nil {
		if card, ok := c.deck.Card(); ok {
			v.Card = &CardView{
				Card:    card,
				Index:   c.deck.Index(),
				Total:   c.deck.Len(),
				HasPrev: c.deck.HasPrev(),
				HasNext: c.deck.HasNext(),
			}
		}
	}
	return v
}

func (c *Controller) entries(lessons []models.Lesson) []LessonEntry {
	out := make([]LessonEntry, 0, len(lessons))
	for _, l := range lessons {
		out = append(out, LessonEntry{Lesson: l, Badges: c.Badges(l.ID)})
	}
	return out
}
