// Package notification provides implementations for various notification services
package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/StudioSol/set"
	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/cryptoriginal/signalx/pkg/exchange"
	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/cryptoriginal/signalx/pkg/storage"
	"github.com/xhit/go-str2duration/v2"
	tb "gopkg.in/tucnak/telebot.v2"
)

const (
	// historyLimit caps how many stored ideas /history replies with.
	historyLimit = 10
	// pairsLimit caps the /pairs listing so the reply stays within the
	// Telegram message size limit.
	pairsLimit = 25
)

// Telegram implements the core.NotifierWithStart interface
type telegram struct {
	settings    *core.Settings
	controller  core.Controller
	users       *set.LinkedHashSetINT64
	log         logger.Logger
	defaultMenu *tb.ReplyMarkup
	client      *tb.Bot
}

// Option is a function that configures a telegram instance
type Option func(telegram *telegram)

// NewTelegram creates and initializes a new Telegram service
func NewTelegram(controller core.Controller, settings *core.Settings, log logger.Logger, options ...Option) (core.NotifierWithStart, error) {
	// Initialize menu and poller
	menu := &tb.ReplyMarkup{ResizeReplyKeyboard: true}
	poller := &tb.LongPoller{Timeout: 10 * time.Second}

	users := set.NewLinkedHashSetINT64()
	for _, user := range settings.Telegram.Users {
		users.Add(int64(user))
	}

	// Create user authorization middleware
	userMiddleware := createAuthMiddleware(poller, users, log)

	// Initialize bot client
	client, err := tb.NewBot(tb.Settings{
		ParseMode: tb.ModeMarkdown,
		Token:     settings.Telegram.Token,
		Poller:    userMiddleware,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}

	// Setup keyboard and commands
	setupKeyboard(menu)
	if err := setupCommands(client); err != nil {
		return nil, fmt.Errorf("failed to set commands: %w", err)
	}

	// Create and configure bot instance
	bot := &telegram{
		controller:  controller,
		client:      client,
		settings:    settings,
		users:       users,
		log:         log,
		defaultMenu: menu,
	}

	// Apply custom options if provided
	for _, option := range options {
		option(bot)
	}

	// Register command handlers
	registerHandlers(client, bot)

	return bot, nil
}

// createAuthMiddleware creates a middleware to validate authorized users.
// An empty user list leaves the bot open to everyone.
func createAuthMiddleware(poller *tb.LongPoller, users *set.LinkedHashSetINT64, log logger.Logger) *tb.MiddlewarePoller {
	return tb.NewMiddlewarePoller(poller, func(u *tb.Update) bool {
		if u.Message == nil || u.Message.Sender == nil {
			log.Error("message or sender is nil ", u)
			return false
		}

		if users.Length() == 0 {
			return true
		}

		if users.InArray(u.Message.Sender.ID) {
			return true
		}

		log.Error("unauthorized user ", u.Message.Sender.ID)
		return false
	})
}

// setupKeyboard configures the reply keyboard layout
func setupKeyboard(menu *tb.ReplyMarkup) {
	// Define keyboard buttons
	var (
		suggestBtn = menu.Text("/suggest")
		pairsBtn   = menu.Text("/pairs")
		historyBtn = menu.Text("/history")
		watchBtn   = menu.Text("/watch")
		unwatchBtn = menu.Text("/unwatch")
		statusBtn  = menu.Text("/status")
	)

	// Arrange keyboard layout
	menu.Reply(
		menu.Row(suggestBtn, pairsBtn, historyBtn),
		menu.Row(watchBtn, unwatchBtn, statusBtn),
	)
}

// setupCommands configures available bot commands
func setupCommands(client *tb.Bot) error {
	return client.SetCommands([]tb.Command{
		{Text: "help", Description: "Display help instructions"},
		{Text: "start", Description: "Show the welcome message"},
		{Text: "suggest", Description: "Scan the market for trade ideas"},
		{Text: "pairs", Description: "List pairs eligible for scanning"},
		{Text: "watch", Description: "Scan periodically and push new ideas"},
		{Text: "unwatch", Description: "Stop periodic scanning"},
		{Text: "history", Description: "Show recent trade ideas"},
		{Text: "status", Description: "Check bot status"},
	})
}

// registerHandlers registers all command handlers
func registerHandlers(client *tb.Bot, bot *telegram) {
	client.Handle("/help", bot.HelpHandle)
	client.Handle("/start", bot.StartHandle)
	client.Handle("/suggest", bot.SuggestHandle)
	client.Handle("/pairs", bot.PairsHandle)
	client.Handle("/watch", bot.WatchHandle)
	client.Handle("/unwatch", bot.UnwatchHandle)
	client.Handle("/history", bot.HistoryHandle)
	client.Handle("/status", bot.StatusHandle)
}

// Start begins the Telegram bot and notifies all authorized users
func (t *telegram) Start() {
	// A leftover webhook blocks long polling
	if err := t.client.RemoveWebhook(); err != nil {
		t.log.WithError(err).Warn("failed to remove telegram webhook")
	}

	go t.client.Start()
	t.sendMessageWithOptions("Bot initialized.", t.defaultMenu)
}

// Notify sends a message to all authorized users
func (t *telegram) Notify(text string) {
	for user := range t.users.Iter() {
		_, err := t.client.Send(&tb.User{ID: user}, text)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification")
		}
	}
}

// NotifyChat sends a message to a single chat
func (t *telegram) NotifyChat(chatID int64, text string) {
	_, err := t.client.Send(&tb.Chat{ID: chatID}, text)
	if err != nil {
		t.log.WithError(err).Error("failed to send chat notification")
	}
}

// sendMessageWithOptions sends a message to all authorized users with additional options
func (t *telegram) sendMessageWithOptions(text string, options ...interface{}) {
	for user := range t.users.Iter() {
		_, err := t.client.Send(&tb.User{ID: user}, text, options...)
		if err != nil {
			t.log.WithError(err).Error("failed to send notification with options")
		}
	}
}

// sendMessage sends a message to a specific user
func (t *telegram) sendMessage(to *tb.User, text string, options ...interface{}) {
	_, err := t.client.Send(to, text, options...)
	if err != nil {
		t.log.WithError(err).Error("failed to send message")
	}
}

// StartHandle greets the user and shows the command keyboard
func (t *telegram) StartHandle(m *tb.Message) {
	text := fmt.Sprintf(
		"🤖 AI Scalper Bot ready. Use /suggest to get scalp trade ideas (%s futures pairs >= %s 24h).",
		strings.ToUpper(t.settings.Exchange.Name),
		compactUSD(t.settings.Scan.MinQuoteVolume),
	)
	t.sendMessage(m.Sender, text, t.defaultMenu)
}

// HelpHandle displays available commands
func (t *telegram) HelpHandle(m *tb.Message) {
	commands, err := t.client.GetCommands()
	if err != nil {
		t.log.WithError(err).Error("failed to get commands")
		t.OnError(err)
		return
	}

	// Build help message
	lines := make([]string, 0, len(commands))
	for _, command := range commands {
		lines = append(lines, fmt.Sprintf("/%s - %s", command.Text, command.Description))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// SuggestHandle runs a market scan and replies with the setups found.
// The scan runs off the handler so polling stays responsive.
func (t *telegram) SuggestHandle(m *tb.Message) {
	t.sendMessage(m.Sender, fmt.Sprintf(
		"🔎 Scanning top %s futures pairs (this may take a few seconds)...",
		strings.ToUpper(t.settings.Exchange.Name),
	))

	go func(sender *tb.User) {
		suggestions, err := t.controller.Suggest(context.Background())
		if err != nil {
			t.sendMessage(sender, fmt.Sprintf("❌ Error generating suggestions: %v", err))
			return
		}

		if len(suggestions) == 0 {
			t.sendMessage(sender, "⚠️ No trade setups found right now.")
			return
		}

		for _, suggestion := range suggestions {
			t.sendMessage(sender, suggestion.Text())
		}
	}(m.Sender)
}

// PairsHandle lists the pairs whose 24h volume clears the scan threshold
func (t *telegram) PairsHandle(m *tb.Message) {
	go func(sender *tb.User) {
		pairs, err := t.controller.Pairs(context.Background())
		if err != nil {
			t.OnError(err)
			return
		}

		if len(pairs) == 0 {
			t.sendMessage(sender, "No pairs above the volume threshold right now.")
			return
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "*TOP PAIRS* (24h volume >= $%s)\n", compactUSD(t.settings.Scan.MinQuoteVolume))
		for i, pair := range pairs {
			if i == pairsLimit {
				fmt.Fprintf(&sb, "... and %d more\n", len(pairs)-pairsLimit)
				break
			}
			fmt.Fprintf(&sb, "%s: `$%s` @ `%s`\n",
				pair.Pair, core.FormatQuoteVolume(pair.QuoteVolume), formatPrice(pair.LastPrice))
		}

		t.sendMessage(sender, sb.String())
	}(m.Sender)
}

// WatchHandle subscribes the chat to periodic scans. The interval is
// optional: `/watch 30m` overrides the configured default.
func (t *telegram) WatchHandle(m *tb.Message) {
	interval := t.settings.Scan.WatchInterval
	if payload := strings.TrimSpace(m.Payload); payload != "" {
		parsed, err := str2duration.ParseDuration(payload)
		if err != nil {
			t.sendMessage(m.Sender, "Invalid interval.\nExamples of usage:\n`/watch 30m`\n\n`/watch 1h`")
			return
		}
		interval = parsed
	}

	if interval < time.Minute {
		t.sendMessage(m.Sender, "Interval must be at least 1m.")
		return
	}

	if err := t.controller.Watch(m.Chat.ID, interval); err != nil {
		t.OnError(err)
		return
	}

	t.sendMessage(m.Sender, fmt.Sprintf(
		"Watching the market every `%s`. Use /unwatch to stop.", str2duration.String(interval)))
}

// UnwatchHandle cancels the periodic scan for the chat
func (t *telegram) UnwatchHandle(m *tb.Message) {
	if err := t.controller.Unwatch(m.Chat.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			t.sendMessage(m.Sender, "No active watch for this chat.")
			return
		}
		t.OnError(err)
		return
	}

	t.sendMessage(m.Sender, "Watch stopped.")
}

// HistoryHandle shows the most recent stored trade ideas, optionally
// filtered by pair: `/history BTCUSDT`
func (t *telegram) HistoryHandle(m *tb.Message) {
	pair := strings.ToUpper(strings.TrimSpace(m.Payload))

	suggestions, err := t.controller.History(pair, historyLimit)
	if err != nil {
		t.OnError(err)
		return
	}

	if len(suggestions) == 0 {
		t.sendMessage(m.Sender, "No trade ideas registered.")
		return
	}

	lines := make([]string, 0, len(suggestions))
	for _, suggestion := range suggestions {
		lines = append(lines, fmt.Sprintf("`%s` %s *%s* @ `%s` RR `%s`",
			suggestion.CreatedAt.Format("01-02 15:04"),
			suggestion.Pair,
			suggestion.Direction,
			core.FormatPrice(suggestion.Entry),
			core.FormatPrice(suggestion.RiskReward),
		))
	}

	t.sendMessage(m.Sender, strings.Join(lines, "\n"))
}

// StatusHandle displays the current bot status
func (t *telegram) StatusHandle(m *tb.Message) {
	status := t.controller.Status()

	var sb strings.Builder
	sb.WriteString("*STATUS*\n")
	fmt.Fprintf(&sb, "Uptime: `%s`\n", str2duration.String(time.Since(status.StartedAt).Round(time.Second)))

	if status.LastScanAt.IsZero() {
		sb.WriteString("Last scan: `never`\n")
	} else {
		fmt.Fprintf(&sb, "Last scan: `%s` took `%s`\n",
			status.LastScanAt.Format("2006-01-02 15:04:05"),
			status.LastScanTook.Round(time.Millisecond),
		)
		fmt.Fprintf(&sb, "Pairs scanned: `%d`\n", status.PairsScanned)
		fmt.Fprintf(&sb, "Setups found: `%d`\n", status.Found)
	}

	fmt.Fprintf(&sb, "Active watches: `%d`\n", status.Watches)
	t.sendMessage(m.Sender, sb.String())
}

// OnSuggestion notifies all authorized users about a new trade idea
func (t *telegram) OnSuggestion(suggestion core.Suggestion) {
	t.Notify(suggestion.Text())
}

// OnError notifies users about errors
func (t *telegram) OnError(err error) {
	var sb strings.Builder
	sb.WriteString("🛑 ERROR\n")

	var apiError *exchange.APIError
	if errors.As(err, &apiError) {
		sb.WriteString("-----\n")
		fmt.Fprintf(&sb, "Endpoint: %s\n", apiError.Endpoint)
		fmt.Fprintf(&sb, "Status: %d\n", apiError.StatusCode)
		sb.WriteString("-----\n")
		sb.WriteString(apiError.Message)

		t.Notify(sb.String())
		return
	}

	sb.WriteString("-----\n")
	sb.WriteString(err.Error())

	t.Notify(sb.String())
}

// formatPrice keeps the natural precision of the quote, so large caps
// read like `50123.5` and micro caps keep their leading zeros.
func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', int(core.NumDecPlaces(v)), 64)
}

// compactUSD renders a volume threshold the way traders quote it,
// e.g. 40000000 becomes 40M.
func compactUSD(v float64) string {
	switch {
	case v >= 1e9:
		return strconv.FormatFloat(v/1e9, 'f', -1, 64) + "B"
	case v >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', -1, 64) + "M"
	case v >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', -1, 64) + "K"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
