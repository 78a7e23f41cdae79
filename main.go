package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/wordquest/internal/bank"
	"github.com/example/wordquest/internal/bot"
	"github.com/example/wordquest/internal/catalog"
	"github.com/example/wordquest/internal/config"
	"github.com/example/wordquest/internal/database"
	"github.com/example/wordquest/internal/progress"
	"github.com/example/wordquest/internal/scheduler"
	"github.com/example/wordquest/internal/shuffle"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// attemptHistory exposes the attempt table to the scheduler
type attemptHistory struct {
	repo *database.AttemptRepository
}

func (h attemptHistory) LastPlayedAt(ctx context.Context) (time.Time, error) {
	at, err := h.repo.LastPlayedAt(ctx)
	if errors.Is(err, database.ErrNotFound) {
		return time.Time{}, scheduler.ErrNoHistory
	}
	return at, err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(cfg.DBType, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	lessons, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("Failed to load lessons: %v", err)
	}

	questions, err := bank.Load(cfg.BankPath)
	if err != nil {
		log.Fatalf("Failed to load question bank: %v", err)
	}
	log.Printf("Loaded %d lessons and question pools for %d of them", len(lessons.Lessons()), len(questions.Lessons()))

	store := progress.NewStore(database.NewProgressStorage(database.NewKVRepository(db)), nil)
	store.Load(ctx)

	api, err := tgbotapi.NewBotAPI(cfg.TelegramToken)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	log.Printf("Authorized on account %s", api.Self.UserName)

	attempts := database.NewAttemptRepository(db)

	b := bot.New(api, bot.Deps{
		Catalog:     lessons,
		Questions:   questions,
		Progress:    store,
		History:     attempts,
		SessionSize: cfg.SessionSize,
		Source:      shuffle.New(),
	}, &bot.BotConfig{
		LearnerChatID:  cfg.LearnerChatID,
		SettleDelay:    cfg.SettleDelay,
		ReportPath:     cfg.ReportPath,
		StorageTimeout: 5 * time.Second,
	})

	jobs := scheduler.New(b, attemptHistory{repo: attempts}, scheduler.Config{
		ReminderHour:          cfg.ReminderHour,
		NotificationStartHour: cfg.NotificationStartHour,
		NotificationEndHour:   cfg.NotificationEndHour,
		ReportInterval:        cfg.ReportInterval,
	}, nil)
	if err := jobs.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer jobs.Stop()

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := api.GetUpdatesChan(updateConfig)

	go func() {
		sig := <-sigChan
		log.Printf("Received signal: %v", sig)
		api.StopReceivingUpdates()
		cancel()
	}()

	log.Println("Bot started. Press Ctrl+C to stop.")
	if err := b.Run(ctx, updates); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("Bot error: %v", err)
	}
	log.Println("Bot stopped successfully")
}
