// Package config handles application configuration management using Viper
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cryptoriginal/signalx/pkg/core"
	"github.com/spf13/viper"
	"github.com/xhit/go-str2duration/v2"
)

// Constants for configuration
const (
	DefaultConfigPath  = "./signalx.yaml"
	DefaultStoragePath = "./signalx.db"
)

// Load builds the application settings from environment variables and an
// optional YAML config file. Environment variables win over file values.
// An empty path falls back to the CONFIG_PATH variable or the default
// location, and a missing file is only an error when the path was given
// explicitly.
func Load(path string) (*core.Settings, error) {
	v := viper.New()

	// Set up Viper for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The OPENAI_API_KEY spelling matches what the OpenAI tooling expects
	if err := v.BindEnv("advisor.api_key", "ADVISOR_API_KEY", "OPENAI_API_KEY"); err != nil {
		return nil, err
	}

	// Set default values
	setDefaults(v)

	// Merge the optional config file under the environment
	explicit := path != ""
	if !explicit {
		path = v.GetString("config_path")
	}
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		missing := errors.As(err, &notFound) || os.IsNotExist(err)
		if explicit || !missing {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	politeness, err := str2duration.ParseDuration(v.GetString("scan.politeness"))
	if err != nil {
		return nil, fmt.Errorf("invalid scan.politeness: %w", err)
	}

	watchInterval, err := str2duration.ParseDuration(v.GetString("scan.watch_interval"))
	if err != nil {
		return nil, fmt.Errorf("invalid scan.watch_interval: %w", err)
	}

	// Create the configuration
	settings := &core.Settings{
		Exchange: core.ExchangeSettings{
			Name:      strings.ToLower(v.GetString("exchange.name")),
			APIKey:    v.GetString("exchange.api_key"),
			APISecret: v.GetString("exchange.api_secret"),
		},
		Scan: core.ScanSettings{
			Timeframe:      v.GetString("scan.timeframe"),
			KlineLimit:     v.GetInt("scan.kline_limit"),
			MinQuoteVolume: v.GetFloat64("scan.min_quote_volume"),
			MaxSuggestions: v.GetInt("scan.max_suggestions"),
			Concurrency:    v.GetInt("scan.concurrency"),
			Politeness:     politeness,
			WatchInterval:  watchInterval,
		},
		Telegram: core.TelegramSettings{
			Enabled: v.GetBool("telegram.enabled"),
			Token:   v.GetString("telegram.bot_token"),
			Users:   users(v),
		},
		Advisor: core.AdvisorSettings{
			Enabled: v.GetBool("advisor.enabled"),
			APIKey:  v.GetString("advisor.api_key"),
			Model:   v.GetString("advisor.model"),
		},
		Storage: core.StorageSettings{
			Path: v.GetString("storage.path"),
		},
	}

	return settings, nil
}

// setDefaults registers the default value for every configuration key
func setDefaults(v *viper.Viper) {
	v.SetDefault("config_path", DefaultConfigPath)
	v.SetDefault("storage.path", DefaultStoragePath)
	v.SetDefault("exchange.name", "mexc")
	v.SetDefault("scan.timeframe", "1h")
	v.SetDefault("scan.kline_limit", 200)
	v.SetDefault("scan.min_quote_volume", 40_000_000)
	v.SetDefault("scan.max_suggestions", 3)
	v.SetDefault("scan.concurrency", 4)
	v.SetDefault("scan.politeness", "200ms")
	v.SetDefault("scan.watch_interval", "1h")
	v.SetDefault("telegram.enabled", true)
	v.SetDefault("advisor.enabled", false)
}

// users reads the authorized id list, accepting both a YAML list and a
// comma-separated string from the environment.
func users(v *viper.Viper) []int {
	if raw := strings.TrimSpace(v.GetString("telegram.users")); raw != "" {
		parts := strings.Split(raw, ",")
		ids := make([]int, 0, len(parts))
		for _, part := range parts {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}
		return ids
	}

	return v.GetIntSlice("telegram.users")
}
