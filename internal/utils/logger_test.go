package utils

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "info", Format: "json", Output: &buf})

	logger.WithComponent("resolver").WithAsset("content/about.json").Warn().Msg("skipped")

	out := buf.String()
	assert.Contains(t, out, `"component":"resolver"`)
	assert.Contains(t, out, `"path":"content/about.json"`)
	assert.Contains(t, out, `"level":"warn"`)
}

func TestNewLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Level: "warn", Format: "json", Output: &buf})

	logger.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	logger.Error().Msg("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNewLogger_VerboseOverridesLevel(t *testing.T) {
	logger := NewLogger(LoggerOptions{Level: "error", Verbose: true, Output: &bytes.Buffer{}})
	assert.Equal(t, zerolog.DebugLevel, logger.GetLevel())
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("bogus"))
}

func TestWithHandler(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerOptions{Format: "json", Output: &buf})

	logger.WithHandler("gigs").Info().Msg("dispatched")
	assert.Contains(t, buf.String(), `"handler":"gigs"`)
}

func TestNewNopLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		NewNopLogger().Warn().Msg("discarded")
	})
}
