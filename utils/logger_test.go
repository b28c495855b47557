package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLoggerAppliesConfiguredLevel(t *testing.T) {
	logger, err := NewLogger(false, "warn")
	require.NoError(t, err)
	defer logger.Sync()

	core := logger.Desugar().Core()
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))
}

func TestNewLoggerDefaultsWhenLevelUnset(t *testing.T) {
	logger, err := NewLogger(true, "")
	require.NoError(t, err)
	defer logger.Sync()

	assert.True(t, logger.Desugar().Core().Enabled(zapcore.DebugLevel))
}

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(false, "verbose")
	assert.Error(t, err)
}
