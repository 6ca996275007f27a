package signalx

import (
	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/cryptoriginal/signalx/pkg/scanner"
)

// Option is a functional option for configuring a Bot instance
type Option func(*Bot)

// WithStorage sets the storage for the bot, by default it uses a local file called signalx.db
func WithStorage(storage core.Storage) Option {
	return func(bot *Bot) {
		bot.storage = storage
	}
}

// WithNotifier registers a notifier to the bot, currently only email and telegram are supported
func WithNotifier(notifier core.Notifier) Option {
	return func(bot *Bot) {
		bot.notifier = notifier
	}
}

// WithAdvisor overrides the advisor built from the settings
func WithAdvisor(advisor scanner.Advisor) Option {
	return func(bot *Bot) {
		bot.advisor = advisor
	}
}

// WithLogger replaces the default logger
func WithLogger(log logger.Logger) Option {
	return func(bot *Bot) {
		bot.log = log
	}
}

// WithProgress registers a per pair progress callback for scans,
// used by the CLI to drive a progress bar
func WithProgress(progress scanner.ProgressFunc) Option {
	return func(bot *Bot) {
		bot.progress = progress
	}
}

// WithLogLevel sets the log level. eg: logger.DebugLevel, logger.InfoLevel, logger.WarnLevel
func WithLogLevel(level logger.Level) Option {
	return func(bot *Bot) {
		bot.log.SetLevel(level)
	}
}
