// Package signalx assembles the market scanner, storage, advisor and
// notification channels into a runnable trade suggestion bot.
package signalx

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/olekukonko/tablewriter"

	"github.com/cryptoriginal/signalx/pkg/advisor"
	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/exchange/binance"
	"github.com/cryptoriginal/signalx/pkg/exchange/mexc"
	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/cryptoriginal/signalx/pkg/metric"
	"github.com/cryptoriginal/signalx/pkg/notification"
	"github.com/cryptoriginal/signalx/pkg/scanner"
	"github.com/cryptoriginal/signalx/pkg/storage"
)

// DefaultLog is the default logger instance
var DefaultLog logger.Logger

const defaultDatabase = "signalx.db"

// Bot represents the trade suggestion bot
type Bot struct {
	settings *core.Settings
	feeder   core.Feeder
	scanner  *scanner.Scanner
	storage  core.Storage
	notifier core.Notifier
	telegram core.NotifierWithStart
	advisor  scanner.Advisor
	progress scanner.ProgressFunc
	log      logger.Logger

	queue *core.PriorityQueue
	wake  chan struct{}

	mu              sync.Mutex
	startedAt       time.Time
	lastStats       scanner.Stats
	lastSuggestions []core.Suggestion
	watches         map[int64]time.Duration
	watchSeq        map[int64]int
	sent            map[int64]map[string]time.Time
}

// NewBot creates a new Bot instance with the provided settings and dependencies
func NewBot(settings *core.Settings, feeder core.Feeder, options ...Option) (*Bot, error) {
	// Initialize bot with required core components
	bot := &Bot{
		settings:  settings,
		feeder:    feeder,
		log:       DefaultLog,
		queue:     core.NewPriorityQueue(nil),
		wake:      make(chan struct{}, 1),
		watches:   make(map[int64]time.Duration),
		watchSeq:  make(map[int64]int),
		sent:      make(map[int64]map[string]time.Time),
		startedAt: time.Now(),
	}

	// Apply custom options
	for _, option := range options {
		option(bot)
	}

	// Initialize storage
	if err := initializeStorage(bot); err != nil {
		return nil, err
	}

	// Initialize the optional commentary advisor
	initializeAdvisor(bot)

	// Initialize the scan engine
	scannerOptions := []scanner.Option{}
	if bot.advisor != nil {
		scannerOptions = append(scannerOptions, scanner.WithAdvisor(bot.advisor))
	}
	if bot.progress != nil {
		scannerOptions = append(scannerOptions, scanner.WithProgress(bot.progress))
	}
	bot.scanner = scanner.New(feeder, settings.Scan, bot.log, scannerOptions...)

	// Initialize notification systems
	if err := initializeNotifications(bot, settings); err != nil {
		return nil, err
	}

	// Restore persisted watch subscriptions
	if err := bot.restoreWatches(); err != nil {
		return nil, err
	}

	return bot, nil
}

// initializeStorage sets up the bot's data storage
func initializeStorage(bot *Bot) error {
	if bot.storage != nil {
		return nil
	}

	path := bot.settings.Storage.Path
	if path == "" {
		path = defaultDatabase
	}

	var err error
	if path == ":memory:" {
		bot.storage, err = storage.FromMemory()
	} else {
		bot.storage, err = storage.FromFile(path)
	}
	return err
}

// initializeAdvisor wires the OpenAI advisor when it is configured
func initializeAdvisor(bot *Bot) {
	if bot.advisor != nil || !bot.settings.Advisor.Enabled {
		return
	}

	if bot.settings.Advisor.APIKey == "" {
		bot.log.Warn("[SETUP] Advisor enabled without an API key, commentary disabled")
		return
	}

	bot.advisor = advisor.NewOpenAI(bot.settings.Advisor.APIKey, advisor.WithModel(bot.settings.Advisor.Model))
	bot.log.Info("[SETUP] Using OpenAI advisor")
}

// initializeNotifications sets up notification systems like Telegram
func initializeNotifications(bot *Bot, settings *core.Settings) error {
	if !settings.Telegram.Enabled {
		return nil
	}

	if settings.Telegram.Token == "" {
		return errors.New(
			"telegram bot token is not set: export TELEGRAM_BOT_TOKEN or set telegram.bot_token in the config file")
	}

	telegram, err := notification.NewTelegram(bot, settings, bot.log)
	if err != nil {
		return err
	}

	bot.telegram = telegram
	// Register telegram as notifier
	WithNotifier(bot.telegram)(bot)
	return nil
}

// restoreWatches reloads persisted subscriptions and schedules an
// immediate run for each, since any of them may be overdue after a restart.
func (b *Bot) restoreWatches() error {
	subscriptions, err := b.storage.Subscriptions()
	if err != nil {
		return fmt.Errorf("failed to restore watches: %w", err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subscription := range subscriptions {
		b.watches[subscription.ChatID] = subscription.Interval
		b.watchSeq[subscription.ChatID]++
		b.queue.Push(watchRun{
			chatID:   subscription.ChatID,
			interval: subscription.Interval,
			at:       time.Now(),
			seq:      b.watchSeq[subscription.ChatID],
		})
	}

	if len(subscriptions) > 0 {
		b.log.Infof("[SETUP] Restored %d watch subscriptions", len(subscriptions))
	}

	return nil
}

// Run starts the Telegram poller and the watch scheduler, blocking
// until the context is canceled.
func (b *Bot) Run(ctx context.Context) error {
	if b.telegram != nil {
		b.telegram.Start()
	}

	b.log.Info("[SETUP] Bot started, waiting for commands")
	b.scheduler(ctx)

	if b.notifier != nil {
		b.notifier.Notify("Bot stopped.")
	}

	return b.storage.Close()
}

// Summary prints the last scan results and the distribution of
// eligible pair volumes to stdout
func (b *Bot) Summary() {
	b.mu.Lock()
	suggestions := b.lastSuggestions
	stats := b.lastStats
	b.mu.Unlock()

	buffer := bytes.NewBuffer(nil)
	table := tablewriter.NewWriter(buffer)
	table.SetHeader([]string{"Pair", "Direction", "Entry", "Stop", "Target", "RR", "24h Volume", "Reason"})
	table.SetFooterAlignment(tablewriter.ALIGN_RIGHT)

	for _, s := range suggestions {
		table.Append([]string{
			s.Pair,
			string(s.Direction),
			core.FormatPrice(s.Entry),
			core.FormatPrice(s.StopLoss),
			core.FormatPrice(s.TakeProfit),
			fmt.Sprintf("%.2f", s.RiskReward),
			core.FormatQuoteVolume(s.QuoteVolume),
			s.Reason,
		})
	}

	table.SetFooter([]string{
		"PAIRS", strconv.Itoa(stats.PairsTotal),
		"SCANNED", strconv.Itoa(stats.PairsScanned),
		"SKIPPED", strconv.Itoa(stats.PairsSkipped),
		"FOUND", strconv.Itoa(stats.Found),
	})
	table.Render()

	fmt.Println(buffer.String())

	if len(stats.Volumes) == 0 {
		return
	}

	fmt.Println("------ 24H VOLUME (MILLION USDT) -------")
	millions := make([]float64, len(stats.Volumes))
	for i, volume := range stats.Volumes {
		millions[i] = volume / 1e6
	}
	hist := histogram.Hist(15, millions)
	histogram.Fprint(os.Stdout, hist, histogram.Linear(10))
	fmt.Println()

	summary := metric.Describe(stats.Volumes)
	fmt.Println("------ ELIGIBLE PAIR VOLUMES (USDT) -------")
	fmt.Printf("PAIRS:  %d\n", summary.Count)
	fmt.Printf("MEAN:   %.2f\n", summary.Mean)
	fmt.Printf("MEDIAN: %.2f\n", summary.Median)
	fmt.Printf("STDDEV: %.2f\n", summary.StdDev)
	fmt.Printf("RANGE:  %.2f ~ %.2f\n", summary.Min, summary.Max)
}

// NewFeeder builds the market data source named in the settings
func NewFeeder(ctx context.Context, settings *core.Settings, log logger.Logger) (core.Feeder, error) {
	switch settings.Exchange.Name {
	case "mexc", "":
		return mexc.New(ctx, log)
	case "binance":
		options := []binance.Option{}
		if settings.Exchange.APIKey != "" {
			options = append(options, binance.WithCredentials(settings.Exchange.APIKey, settings.Exchange.APISecret))
		}
		return binance.New(ctx, log, options...)
	default:
		return nil, fmt.Errorf("unknown exchange: %s", settings.Exchange.Name)
	}
}
