package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/forest6511/credvault/pkg/config"
)

func TestNewLevels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"warn", zerolog.WarnLevel},
		{"", zerolog.InfoLevel},
		{"loud", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := New(config.Logging{Level: tt.level}, &bytes.Buffer{})
			if logger.GetLevel() != tt.want {
				t.Errorf("expected level %s, got %s", tt.want, logger.GetLevel())
			}
		})
	}
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Logging{Level: "info"}, &buf)

	logger.Info().Str("store", "vault.sqlite3").Msg("opened")
	logger.Debug().Msg("hidden")

	out := buf.String()
	if !strings.Contains(out, `"store":"vault.sqlite3"`) {
		t.Errorf("expected structured field, got %q", out)
	}
	if !strings.Contains(out, `"component":"credvault"`) {
		t.Errorf("expected component field, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Error("debug message should be filtered at info level")
	}
}

func TestNewPretty(t *testing.T) {
	var buf bytes.Buffer
	logger := New(config.Logging{Level: "info", Pretty: true}, &buf)

	logger.Warn().Msg("disk almost full")

	out := buf.String()
	if strings.HasPrefix(out, "{") {
		t.Errorf("expected console output, got JSON %q", out)
	}
	if !strings.Contains(out, "disk almost full") {
		t.Errorf("expected message in output, got %q", out)
	}
}
