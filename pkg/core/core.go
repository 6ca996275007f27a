// Package core holds the domain types shared across signalx: candles,
// series, dataframes, trade suggestions, and the contracts between
// exchange feeds, storage and notifiers.
package core

import (
	"context"
	"time"
)

// Feeder supplies read-only market data from an exchange.
type Feeder interface {
	// HighVolumePairs returns the USDT pairs whose 24h quote volume is at
	// least minQuoteVolume, sorted by volume descending.
	HighVolumePairs(ctx context.Context, minQuoteVolume float64) ([]PairVolume, error)

	// CandlesByLimit returns up to limit complete candles for the pair,
	// ascending by time.
	CandlesByLimit(ctx context.Context, pair, timeframe string, limit int) ([]Candle, error)
}

type Notifier interface {
	Notify(text string)
	OnSuggestion(suggestion Suggestion)
	OnError(err error)
}

type NotifierWithStart interface {
	Notifier
	Start()
}

// ChatNotifier targets a single chat instead of broadcasting. Notifiers
// that support it are used for per-chat watch deliveries.
type ChatNotifier interface {
	NotifyChat(chatID int64, text string)
}

// Controller exposes the bot operations the notification layer drives.
type Controller interface {
	// Suggest scans the market and returns the setups found, already
	// persisted and annotated.
	Suggest(ctx context.Context) ([]Suggestion, error)

	// Pairs returns the pairs currently eligible for scanning.
	Pairs(ctx context.Context) ([]PairVolume, error)

	// History returns the most recent stored suggestions, newest first.
	// An empty pair matches all pairs.
	History(pair string, limit int) ([]Suggestion, error)

	// Watch schedules a periodic scan for the chat, replacing any
	// previous watch. Unwatch cancels it.
	Watch(chatID int64, interval time.Duration) error
	Unwatch(chatID int64) error

	// Status reports a snapshot of the bot runtime state.
	Status() Status
}

// Status is a point-in-time snapshot of the bot runtime.
type Status struct {
	StartedAt    time.Time
	LastScanAt   time.Time
	LastScanTook time.Duration
	PairsScanned int
	Found        int
	Watches      int
}

// PairVolume is one row of a 24h ticker scan.
type PairVolume struct {
	Pair        string  `json:"pair"`
	QuoteVolume float64 `json:"quote_volume"`
	LastPrice   float64 `json:"last_price"`
}
