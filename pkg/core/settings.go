package core

import "time"

// Settings represents the main configuration for the application
type Settings struct {
	Exchange ExchangeSettings // Market data source settings
	Scan     ScanSettings     // Market scan parameters
	Telegram TelegramSettings // Telegram bot settings
	Advisor  AdvisorSettings  // Optional AI commentary settings
	Storage  StorageSettings  // Persistence settings
}

// ExchangeSettings selects and configures the market data source
type ExchangeSettings struct {
	Name      string // Exchange name: "mexc" or "binance"
	APIKey    string // API key, only needed for authenticated endpoints
	APISecret string // API secret
}

// ScanSettings holds the market scan parameters
type ScanSettings struct {
	Timeframe      string        // Candle timeframe, e.g. "1h"
	KlineLimit     int           // Number of candles fetched per pair
	MinQuoteVolume float64       // 24h quote volume floor in USDT
	MaxSuggestions int           // Suggestions returned per scan
	Concurrency    int           // Parallel kline fetches
	Politeness     time.Duration // Delay after each kline fetch
	WatchInterval  time.Duration // Default interval for scheduled scans
}

// TelegramSettings holds configuration for Telegram integration
type TelegramSettings struct {
	Enabled bool   // Whether the Telegram bot is enabled
	Token   string // Telegram bot token
	Users   []int  // List of authorized user IDs, empty allows everyone
}

// AdvisorSettings configures the optional AI commentary layer
type AdvisorSettings struct {
	Enabled bool   // Whether commentary is requested for suggestions
	APIKey  string // OpenAI API key
	Model   string // Model name, e.g. "gpt-4o-mini"
}

// StorageSettings selects the persistence backend
type StorageSettings struct {
	Path string // BuntDB file path, ":memory:" for ephemeral storage
}
