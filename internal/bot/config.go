package bot

import (
	"time"
)

// BotConfig represents the configuration for the bot. A zero
// LearnerChatID binds the bot to the first chat that writes to it.
// SettleDelay is the pause between an answer's feedback and the next
// question.
type BotConfig struct {
	LearnerChatID  int64
	SettleDelay    time.Duration
	ReportPath     string
	StorageTimeout time.Duration
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		SettleDelay:    3500 * time.Millisecond,
		ReportPath:     "data/progress_report.xlsx",
		StorageTimeout: 5 * time.Second,
	}
}
