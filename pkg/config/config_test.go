package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "mexc", settings.Exchange.Name)
	assert.Equal(t, "1h", settings.Scan.Timeframe)
	assert.Equal(t, 200, settings.Scan.KlineLimit)
	assert.Equal(t, 40_000_000.0, settings.Scan.MinQuoteVolume)
	assert.Equal(t, 3, settings.Scan.MaxSuggestions)
	assert.Equal(t, 4, settings.Scan.Concurrency)
	assert.Equal(t, 200*time.Millisecond, settings.Scan.Politeness)
	assert.Equal(t, time.Hour, settings.Scan.WatchInterval)
	assert.True(t, settings.Telegram.Enabled)
	assert.False(t, settings.Advisor.Enabled)
	assert.Equal(t, DefaultStoragePath, settings.Storage.Path)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EXCHANGE_NAME", "Binance")
	t.Setenv("SCAN_TIMEFRAME", "15m")
	t.Setenv("SCAN_KLINE_LIMIT", "100")
	t.Setenv("SCAN_MIN_QUOTE_VOLUME", "1000000")
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_USERS", "123, 456")

	settings, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "binance", settings.Exchange.Name)
	assert.Equal(t, "15m", settings.Scan.Timeframe)
	assert.Equal(t, 100, settings.Scan.KlineLimit)
	assert.Equal(t, 1_000_000.0, settings.Scan.MinQuoteVolume)
	assert.Equal(t, "123:abc", settings.Telegram.Token)
	assert.Equal(t, []int{123, 456}, settings.Telegram.Users)
}

func TestLoad_AdvisorKeyAliases(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-fallback")

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-fallback", settings.Advisor.APIKey)

	t.Setenv("ADVISOR_API_KEY", "sk-primary")

	settings, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "sk-primary", settings.Advisor.APIKey)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signalx.yaml")
	content := `exchange:
  name: binance
scan:
  timeframe: 4h
  politeness: 1s
telegram:
  enabled: false
  users:
    - 111
    - 222
storage:
  path: /var/lib/signalx.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	settings, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "binance", settings.Exchange.Name)
	assert.Equal(t, "4h", settings.Scan.Timeframe)
	assert.Equal(t, time.Second, settings.Scan.Politeness)
	assert.False(t, settings.Telegram.Enabled)
	assert.Equal(t, []int{111, 222}, settings.Telegram.Users)
	assert.Equal(t, "/var/lib/signalx.db", settings.Storage.Path)

	// keys absent from the file keep their defaults
	assert.Equal(t, 200, settings.Scan.KlineLimit)
}

func TestLoad_EnvWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "signalx.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  timeframe: 4h\n"), 0o644))

	t.Setenv("SCAN_TIMEFRAME", "5m")

	settings, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "5m", settings.Scan.Timeframe)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestLoad_InvalidPoliteness(t *testing.T) {
	t.Setenv("SCAN_POLITENESS", "bogus")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scan.politeness")
}

func TestLoad_WatchIntervalParsing(t *testing.T) {
	t.Setenv("SCAN_WATCH_INTERVAL", "2h30m")

	settings, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour+30*time.Minute, settings.Scan.WatchInterval)
}
