package telemetry

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"", zerolog.InfoLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLoggingConfig_Validate(t *testing.T) {
	if err := DefaultLoggingConfig().Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
	if err := (LoggingConfig{Level: "loud"}).Validate(); err == nil {
		t.Error("expected error for unknown level")
	}
	if err := (LoggingConfig{Format: "xml"}).Validate(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestSetLevel(t *testing.T) {
	l := NewDefault()
	l.SetLevel("error")
	if l.zlog.GetLevel() != zerolog.ErrorLevel {
		t.Errorf("expected error level, got %v", l.zlog.GetLevel())
	}
	l.SetLevel("debug")
	if l.zlog.GetLevel() != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", l.zlog.GetLevel())
	}
}
