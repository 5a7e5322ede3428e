package logutil

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/hpungsan/turbobar/internal/config"
)

func TestParseSlogLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"", slog.LevelInfo, false},
		{"INFO", slog.LevelInfo, false},
		{" debug ", slog.LevelDebug, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}
	for _, tt := range tests {
		got, err := parseSlogLevel(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseSlogLevel(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("parseSlogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggerFromConfig_JSON(t *testing.T) {
	var buf bytes.Buffer
	cfg := config.DefaultConfig()
	cfg.LogFormat = "json"
	cfg.LogLevel = "warn"

	logger, err := LoggerFromConfig(cfg, &buf)
	if err != nil {
		t.Fatalf("LoggerFromConfig() error = %v", err)
	}
	logger.Info("dropped")
	logger.Warn("kept", "collection_id", "db-1")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %q", len(lines), buf.String())
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if rec["msg"] != "kept" || rec["collection_id"] != "db-1" {
		t.Errorf("record = %v", rec)
	}
}

func TestLoggerFromConfig_Errors(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFormat = "xml"
	if _, err := LoggerFromConfig(cfg, nil); err == nil {
		t.Error("expected error for unknown format")
	}

	cfg = config.DefaultConfig()
	cfg.LogLevel = "chatty"
	if _, err := LoggerFromConfig(cfg, nil); err == nil {
		t.Error("expected error for unknown level")
	}

	if _, err := LoggerFromConfig(nil, nil); err != nil {
		t.Errorf("nil config: %v", err)
	}
}
