// Package bot is the Telegram front end. It renders the flow controller's
// screens as messages with inline keyboards for a single learner chat.
package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/example/wordquest/internal/database"
	"github.com/example/wordquest/internal/excel"
	"github.com/example/wordquest/internal/flow"
	"github.com/example/wordquest/internal/session"
	"github.com/example/wordquest/internal/shuffle"
	"github.com/example/wordquest/pkg/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// ErrStopped is returned by jobs submitted after the event loop exited
var ErrStopped = errors.New("bot is stopped")

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// sender is the part of *tgbotapi.BotAPI the bot uses
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Catalog lists and looks up lessons
type Catalog interface {
	flow.Catalog
	Lessons() []models.Lesson
}

// Progress is the learner's stored ratings
type Progress interface {
	flow.Progress
	All() map[string]models.LessonProgress
}

// AttemptLog keeps the history of finished attempts
type AttemptLog interface {
	Create(ctx context.Context, a *database.Attempt) error
}

// Deps are the collaborators the bot drives
type Deps struct {
	Catalog     Catalog
	Questions   flow.QuestionSource
	Progress    Progress
	History     AttemptLog
	SessionSize int
	Source      shuffle.Source
	Logger      *log.Logger
}

type task struct {
	fn     func(ctx context.Context) error
	result chan error
}

// Bot represents the Telegram bot application. Everything but the
// exported job methods runs on the goroutine that calls Run.
type Bot struct {
	api        sender
	controller *flow.Controller
	catalog    Catalog
	progress   Progress
	history    AttemptLog
	config     *BotConfig
	logger     *log.Logger

	chatID int64
	ctx    context.Context
	settle chan string
	tasks  chan task
	done   chan struct{}
}

// New creates a new bot instance
func New(api sender, deps Deps, config *BotConfig) *Bot {
	if config == nil {
		config = DefaultConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = log.Default()
	}

	b := &Bot{
		api:      api,
		catalog:  deps.Catalog,
		progress: deps.Progress,
		history:  deps.History,
		config:   config,
		logger:   logger,
		chatID:   config.LearnerChatID,
		ctx:      context.Background(),
		settle:   make(chan string, 1),
		tasks:    make(chan task),
		done:     make(chan struct{}),
	}

	opts := []flow.Option{
		flow.WithListener(b),
		flow.WithLogger(logger),
		flow.WithSessionSize(deps.SessionSize),
	}
	if deps.Source != nil {
		opts = append(opts, flow.WithSource(deps.Source))
	}
	b.controller = flow.New(deps.Catalog, deps.Questions, deps.Progress, opts...)
	return b
}

// Run handles updates, settle timers and scheduled jobs until ctx is
// cancelled or updates is closed
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) error {
	b.ctx = ctx
	defer close(b.done)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			b.handleUpdate(update)
		case sessionID := <-b.settle:
			b.handleSettle(sessionID)
		case t := <-b.tasks:
			t.result <- t.fn(ctx)
		}
	}
}

// scheduleSettle delivers sessionID back into the loop after the delay
func (b *Bot) scheduleSettle(sessionID string) {
	time.AfterFunc(b.config.SettleDelay, func() {
		select {
		case b.settle <- sessionID:
		case <-b.done:
		}
	})
}

// submit runs fn on the event loop and waits for its result
func (b *Bot) submit(fn func(ctx context.Context) error) error {
	t := task{fn: fn, result: make(chan error, 1)}
	select {
	case b.tasks <- t:
	case <-b.done:
		return ErrStopped
	}
	select {
	case err := <-t.result:
		return err
	case <-b.done:
		return ErrStopped
	}
}

// SendReminder implements the scheduler.Notifier interface
func (b *Bot) SendReminder() error {
	return b.submit(b.sendReminder)
}

// ExportReport implements the scheduler.Notifier interface
func (b *Bot) ExportReport() error {
	return b.submit(b.exportReport)
}

func (b *Bot) sendReminder(_ context.Context) error {
	if b.chatID == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(b.chatID, "⏰ Time for a little English practice! Pick a lesson and keep your streak going.")
	msg.ReplyMarkup = createKeyboard([][]MenuButton{
		{{Text: "🚀 Let's go", CallbackData: callbackMenu}},
	})
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}
	b.logger.Printf("Sent practice reminder to chat %d", b.chatID)
	return nil
}

// reportRows lists every catalog lesson with its stored progress
func (b *Bot) reportRows() []excel.ReportRow {
	records := b.progress.All()
	var rows []excel.ReportRow
	for _, l := range b.catalog.Lessons() {
		rows = append(rows, excel.ReportRow{
			LessonID: l.ID,
			Title:    l.Title,
			Course:   l.Course,
			Progress: records[l.ID],
		})
	}
	return rows
}

func (b *Bot) exportReport(_ context.Context) error {
	if err := excel.ExportProgress(b.config.ReportPath, b.reportRows()); err != nil {
		return fmt.Errorf("failed to export progress report: %w", err)
	}
	b.logger.Printf("Progress report written to %s", b.config.ReportPath)

	if b.chatID == 0 {
		return nil
	}
	doc := tgbotapi.NewDocument(b.chatID, tgbotapi.FilePath(b.config.ReportPath))
	doc.Caption = "📊 Your progress report"
	if _, err := b.api.Send(doc); err != nil {
		return fmt.Errorf("failed to send progress report: %w", err)
	}
	return nil
}

// ScreenChanged implements flow.Listener
func (b *Bot) ScreenChanged(from, to flow.Screen) {
	b.logger.Printf("Screen %s -> %s", from, to)
}

// AttemptCompleted implements flow.Listener
func (b *Bot) AttemptCompleted(ev session.AttemptCompleted) {
	b.logger.Printf("Attempt %s finished: lesson %s (%s) %d/%d, score %d, recorded %v",
		ev.SessionID, ev.LessonID, ev.Difficulty, ev.Stats.CorrectAnswers, ev.Length, ev.Stats.Score, ev.Recorded)

	if b.history == nil {
		return
	}

	ctx, cancel := context.WithTimeout(b.ctx, b.config.StorageTimeout)
	defer cancel()

	attempt := &database.Attempt{
		SessionID:      ev.SessionID,
		LessonID:       ev.LessonID,
		Difficulty:     string(ev.Difficulty),
		CorrectAnswers: ev.Stats.CorrectAnswers,
		TotalQuestions: ev.Length,
		Score:          ev.Stats.Score,
		Review:         ev.Review,
	}
	if err := b.history.Create(ctx, attempt); err != nil {
		b.logger.Printf("Failed to save attempt history: %v", err)
	}
}

func (b *Bot) sendMessage(msg tgbotapi.Chattable) error {
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Printf("Error sending message: %v", err)
		return err
	}
	return nil
}
