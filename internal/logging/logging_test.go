package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/home265/bob-obras-sanitarias/internal/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level config.LogLevel
		want  logrus.Level
	}{
		{config.LogLevelDebug, logrus.DebugLevel},
		{config.LogLevelInfo, logrus.InfoLevel},
		{config.LogLevelWarn, logrus.WarnLevel},
		{config.LogLevelError, logrus.ErrorLevel},
	}
	for _, tt := range tests {
		t.Run(string(tt.level), func(t *testing.T) {
			log, closer, err := New(config.LoggingConfig{Level: tt.level})
			if err != nil {
				t.Fatalf("New: %v", err)
			}
			defer closer.Close()
			if log.GetLevel() != tt.want {
				t.Errorf("level = %v, want %v", log.GetLevel(), tt.want)
			}
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, _, err := New(config.LoggingConfig{Level: "chatty"}); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calc.log")
	log, closer, err := New(config.LoggingConfig{
		Level:  config.LogLevelInfo,
		Format: config.LogFormatJSON,
		File:   path,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.WithField("kind", "agua").Info("calculation finished")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entry map[string]any
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, data)
	}
	if entry["kind"] != "agua" || entry["msg"] != "calculation finished" {
		t.Errorf("unexpected entry %v", entry)
	}
}
