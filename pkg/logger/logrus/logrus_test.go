package logrus

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cryptoriginal/signalx/pkg/logger"
)

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("bogus", "2006-01-02 15:04:05", false, false)
	require.Error(t, err)
}

func TestAdapter_Levels(t *testing.T) {
	log, err := New("debug", "2006-01-02 15:04:05", false, false)
	require.NoError(t, err)

	assert.Equal(t, logger.DebugLevel, log.GetLevel())

	log.SetLevel(logger.ErrorLevel)
	assert.Equal(t, logger.ErrorLevel, log.GetLevel())

	// logrus has no off switch, disabled degrades to panic only
	log.SetLevel(logger.Disabled)
	assert.Equal(t, logger.PanicLevel, log.GetLevel())
}

func TestAdapter_WithFields(t *testing.T) {
	log, err := New("info", "2006-01-02 15:04:05", false, true)
	require.NoError(t, err)

	assert.NotNil(t, log.WithField("pair", "BTCUSDT"))
	assert.NotNil(t, log.WithFields(map[string]any{"pair": "BTCUSDT", "found": 2}))
	assert.NotNil(t, log.WithError(assert.AnError))
}
