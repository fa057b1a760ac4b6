package logger

import (
	"testing"
	"time"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		wantNil bool
		want    string
	}{
		{"debug", false, "debug"},
		{"info", false, "info"},
		{"warn", false, "warn"},
		{"error", false, "error"},
		{"WARN", false, "warn"},
		{" fatal ", false, "fatal"},
		{"", true, ""},
		{"verbose", true, ""},
	}

	for _, tt := range tests {
		got := parseLevel(tt.in)
		if tt.wantNil {
			if got != nil {
				t.Errorf("parseLevel(%q) = %v, want nil", tt.in, got)
			}
			continue
		}
		if got == nil || got.String() != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %s", tt.in, got, tt.want)
		}
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("discarded", String("k", "v"), Int64("n", 1), Bool("b", true))
	if err := l.Sync(); err != nil {
		t.Errorf("Sync() error = %v", err)
	}
}

func TestWith(t *testing.T) {
	l := NewNop().With(String("user_id", "alice"))
	l.Debug("child logger", Time("at", time.Unix(0, 0)))
	if l == nil {
		t.Fatal("With() returned nil")
	}
}
