package signalx

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cryptoriginal/signalx/pkg/logger"
	"github.com/cryptoriginal/signalx/pkg/logger/logrus"
	"github.com/cryptoriginal/signalx/pkg/logger/zerolog"
)

const (
	// Default configuration values
	defaultLogBackend    = "zerolog"
	defaultLogLevel      = "debug"
	defaultLogTimeFormat = "2006-01-02 15:04:05"
	defaultLogColored    = "true"
	defaultLogJSON       = "false"
)

// Environment variable names
const (
	envLogBackend    = "SIGNALX_LOG_BACKEND"
	envLogLevel      = "SIGNALX_LOG_LEVEL"
	envLogTimeFormat = "SIGNALX_LOG_TIME_FORMAT"
	envLogColor      = "SIGNALX_LOG_COLOR"
	envLogJSON       = "SIGNALX_LOG_JSON"
)

func init() {
	// Initialize the logger with configuration from environment variables
	log, err := initLogger()
	if err != nil {
		panic(err)
	}

	DefaultLog = log
}

// initLogger creates a new logger instance configured from environment variables
func initLogger() (logger.Logger, error) {
	// Get configuration from environment variables with defaults
	logLevel := getEnvWithDefault(envLogLevel, defaultLogLevel)
	logTimeFormat := getEnvWithDefault(envLogTimeFormat, defaultLogTimeFormat)

	// Parse boolean configurations
	logColored, err := parseBoolEnv(envLogColor, defaultLogColored)
	if err != nil {
		return nil, err
	}

	logJSON, err := parseBoolEnv(envLogJSON, defaultLogJSON)
	if err != nil {
		return nil, err
	}

	// Create and return the logger for the selected backend
	switch backend := getEnvWithDefault(envLogBackend, defaultLogBackend); backend {
	case "zerolog":
		return zerolog.New(logLevel, logTimeFormat, logColored, logJSON)
	case "logrus":
		return logrus.New(logLevel, logTimeFormat, logColored, logJSON)
	default:
		return nil, fmt.Errorf("unknown log backend: %s", backend)
	}
}

// getEnvWithDefault returns the value of the environment variable or the default if not set
func getEnvWithDefault(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// parseBoolEnv gets a boolean environment variable with a default value
func parseBoolEnv(key, defaultValue string) (bool, error) {
	value := getEnvWithDefault(key, defaultValue)
	return strconv.ParseBool(value)
}
