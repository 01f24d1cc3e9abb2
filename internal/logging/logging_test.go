package logging

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestLogFilePath(t *testing.T) {
	start := time.Date(2026, 8, 28, 14, 30, 5, 0, time.UTC)
	got := LogFilePath("./logs", "siegekeeper", start)
	assert.Equal(t, filepath.Join("./logs", "siegekeeper.20260828_143005.log"), got)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected zerolog.Level
	}{
		{"DEBUG", zerolog.DebugLevel},
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"ERROR", zerolog.ErrorLevel},
		{"garbage", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNew_WritesToFile(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info")

	log.Info().Str("campaignID", "7").Msg("Captured campaign snapshot")

	out := buf.String()
	assert.Contains(t, out, "Captured campaign snapshot")
	assert.Contains(t, out, "campaignID")
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "warn")

	log.Info().Msg("should not appear")
	log.Warn().Msg("should appear")

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear")
}

func TestNew_NilFile(t *testing.T) {
	log := New(nil, "info")
	// logs only to console; must not panic
	log.Info().Msg("console only")
}
