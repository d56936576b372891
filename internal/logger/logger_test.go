package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_FormatAutoDetection(t *testing.T) {
	tests := []struct {
		name        string
		environment string
		wantJSON    bool
	}{
		{"production uses json", "production", true},
		{"development uses pretty", "development", false},
		{"staging uses pretty", "staging", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(Config{Level: slog.LevelInfo, Environment: tt.environment, Writer: &buf})
			log.Info("refresh complete")

			if tt.wantJSON {
				assert.Contains(t, buf.String(), `"msg":"refresh complete"`)
			} else {
				assert.Contains(t, buf.String(), "refresh complete")
				assert.NotContains(t, buf.String(), `"msg"`)
			}
		})
	}
}

func TestNew_ExplicitFormatWins(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Environment: "development", Writer: &buf})
	log.Info("test")

	assert.Contains(t, buf.String(), `"msg":"test"`)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestPrettyHandler_Enabled(t *testing.T) {
	handler := NewPrettyHandler(&bytes.Buffer{}, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.False(t, handler.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, handler.Enabled(context.Background(), slog.LevelError))
}

func TestPrettyHandler_Handle(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

	log.Info("analyze fetched", "games", 50, "source", "upstream")

	out := buf.String()
	assert.Contains(t, out, "analyze fetched")
	assert.Contains(t, out, "games=50")
	assert.Contains(t, out, "source=upstream")
	assert.Contains(t, out, "INF")
}

func TestPrettyHandler_NoColor(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "pretty", Writer: &buf, NoColor: true})

	log.Warn("slow upstream")

	assert.NotContains(t, buf.String(), "\033[")
	assert.Contains(t, buf.String(), "WRN slow upstream")
}

func TestPrettyHandler_GroupsQualifyKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	assert.Equal(t, handler, handler.WithGroup(""))

	log := slog.New(handler).With("service", "api").WithGroup("request")
	log.Info("handled", "status", 200, slog.Group("timing", slog.Duration("total", 5*time.Millisecond)))

	out := buf.String()
	assert.Contains(t, out, "service=api")
	assert.Contains(t, out, "request.status=200")
	assert.Contains(t, out, "request.timing.total=5ms")
}

func TestPrettyHandler_WithSource(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(NewPrettyHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo, AddSource: true}))

	log.Info("test message")

	assert.Contains(t, buf.String(), "logger_test.go:")
}

func TestFormatLevel(t *testing.T) {
	tests := []struct {
		level     slog.Level
		wantStr   string
		wantColor string
	}{
		{slog.LevelDebug, "DBG", colorMagenta},
		{slog.LevelInfo, "INF", colorGreen},
		{slog.LevelWarn, "WRN", colorYellow},
		{slog.LevelError, "ERR", colorRed},
	}

	for _, tt := range tests {
		str, color := formatLevel(tt.level)
		assert.Equal(t, tt.wantStr, str)
		assert.Equal(t, tt.wantColor, color)
	}
}

func TestLogger_Helpers(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: slog.LevelInfo, Format: "json", Writer: &buf})

	log.Component("refresher").WithField("game_id", "509658").WithError(errors.New("boom")).Info("card fetch failed")

	out := buf.String()
	assert.Contains(t, out, `"component":"refresher"`)
	assert.Contains(t, out, `"game_id":"509658"`)
	assert.Contains(t, out, `"error":"boom"`)
}

func TestLogger_WithNilErrorIsNoop(t *testing.T) {
	log := Discard()
	assert.Same(t, log, log.WithError(nil))
}
