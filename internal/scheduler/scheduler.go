// Package scheduler runs the background jobs: the daily practice reminder
// and the periodic progress report export.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Defaults for the notification window, in UTC hours
const (
	DefaultReminderHour          = 17
	DefaultNotificationStartHour = 8
	DefaultNotificationEndHour   = 20
	DefaultReportInterval        = 24 * time.Hour
)

// ErrNoHistory is returned by a History that has no attempt yet
var ErrNoHistory = errors.New("no attempts played")

// Notifier performs the jobs' side effects
type Notifier interface {
	SendReminder() error
	ExportReport() error
}

// History tells when the learner last finished a quiz
type History interface {
	LastPlayedAt(ctx context.Context) (time.Time, error)
}

// Config holds the job timings
type Config struct {
	ReminderHour          int
	NotificationStartHour int
	NotificationEndHour   int
	ReportInterval        time.Duration
}

// DefaultConfig returns the default job timings
func DefaultConfig() Config {
	return Config{
		ReminderHour:          DefaultReminderHour,
		NotificationStartHour: DefaultNotificationStartHour,
		NotificationEndHour:   DefaultNotificationEndHour,
		ReportInterval:        DefaultReportInterval,
	}
}

// Scheduler manages scheduled tasks for the application
type Scheduler struct {
	scheduler *gocron.Scheduler
	notifier  Notifier
	history   History
	config    Config
	logger    *log.Logger
	now       func() time.Time
}

// New creates a new scheduler instance. history may be nil, in which case
// the reminder is sent every day.
func New(notifier Notifier, history History, config Config, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		notifier:  notifier,
		history:   history,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start registers the jobs and runs them in the background
func (s *Scheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.config.ReminderHour)
	if _, err := s.scheduler.Every(1).Day().At(at).Do(s.checkAndSendReminder); err != nil {
		return fmt.Errorf("failed to schedule reminder: %w", err)
	}

	if s.config.ReportInterval > 0 {
		if _, err := s.scheduler.Every(s.config.ReportInterval).Do(s.exportReport); err != nil {
			return fmt.Errorf("failed to schedule report export: %w", err)
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// InNotificationWindow reports whether hour lies in [start, end]. A window
// with start after end wraps around midnight.
func InNotificationWindow(hour, start, end int) bool {
	if start <= end {
		return hour >= start && hour <= end
	}
	return hour >= start || hour <= end
}

func (s *Scheduler) checkAndSendReminder() {
	if err := s.RunReminderCheck(context.Background()); err != nil {
		s.logger.Printf("Error sending reminder: %v", err)
	}
}

// RunReminderCheck sends the reminder unless it is outside notification
// hours or the learner already practiced in the last 24 hours.
// It reports errors instead of logging them.
func (s *Scheduler) RunReminderCheck(ctx context.Context) error {
	now := s.now().UTC()

	if !InNotificationWindow(now.Hour(), s.config.NotificationStartHour, s.config.NotificationEndHour) {
		s.logger.Printf("Current hour %d is outside notification hours (%d-%d), skipping reminder",
			now.Hour(), s.config.NotificationStartHour, s.config.NotificationEndHour)
		return nil
	}

	if s.history != nil {
		last, err := s.history.LastPlayedAt(ctx)
		switch {
		case errors.Is(err, ErrNoHistory):
		case err != nil:
			return fmt.Errorf("failed to read attempt history: %w", err)
		case now.Sub(last) < 24*time.Hour:
			return nil
		}
	}

	return s.notifier.SendReminder()
}

func (s *Scheduler) exportReport() {
	if err := s.notifier.ExportReport(); err != nil {
		s.logger.Printf("Error exporting progress report: %v", err)
	}
}
