package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(level LogLevel) *Logger {
	l := NewLogger(level)
	l.now = func() time.Time { return time.Date(2024, 6, 30, 9, 5, 0, 0, time.UTC) }
	return l
}

func TestLineFormat(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(DEBUG)
	l.AddOutput(DEBUG, &buf)

	l.Info("%d games in total", 3)
	if got, want := buf.String(), "09:05:00 [INFO] 3 games in total\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}

	buf.Reset()
	l.Debug("%s", "50% loaded")
	if got, want := buf.String(), "09:05:00 [DEBUG] 50% loaded\n"; got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
}

func TestLevelFiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(INFO)
	l.AddOutput(DEBUG, &buf)

	l.Debug("clone %s enriched", "OpenTTD")
	if buf.Len() != 0 {
		t.Errorf("Expected no debug output at INFO, got %q", buf.String())
	}

	l.SetLevel(DEBUG)
	l.Debug("clone %s enriched", "OpenTTD")
	if !strings.Contains(buf.String(), "[DEBUG] clone OpenTTD enriched") {
		t.Errorf("Expected debug output after lowering the level, got %q", buf.String())
	}
}

func TestOutputReceivesLevelAndAbove(t *testing.T) {
	var all, warnings bytes.Buffer
	l := newTestLogger(DEBUG)
	l.AddOutput(DEBUG, &all)
	l.AddOutput(WARN, &warnings)

	l.Info("games loaded")
	l.Warn("pinned original %q not found", "SCUMM")

	if n := strings.Count(all.String(), "\n"); n != 2 {
		t.Errorf("Expected each message once in the debug output, got %d lines: %q", n, all.String())
	}
	if strings.Contains(warnings.String(), "games loaded") {
		t.Error("Expected info message to skip the warning output")
	}
	if !strings.Contains(warnings.String(), `[WARN] pinned original "SCUMM" not found`) {
		t.Errorf("Expected warning in the warning output, got %q", warnings.String())
	}
}

func TestColorLabels(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(INFO)
	l.AddOutput(INFO, &buf)

	l.Info("plain")
	if !strings.Contains(buf.String(), "[INFO] plain") {
		t.Errorf("Expected plain label, got %q", buf.String())
	}

	buf.Reset()
	l.SetColor(true)
	l.Warn("styled")
	if want := levelStyles[WARN].Render("[WARN]") + " styled"; !strings.Contains(buf.String(), want) {
		t.Errorf("Expected %q in %q", want, buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name string
		want LogLevel
	}{
		{"debug", DEBUG},
		{"INFO", INFO},
		{" Warn ", WARN},
		{"error", ERROR},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.name)
		if err != nil || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", tt.name, got, err, tt.want)
		}
	}

	if _, err := ParseLevel("verbose"); err == nil {
		t.Error("Expected error for unknown level")
	}
}

func TestDefaultLoggerWritesInfo(t *testing.T) {
	l := GetLogger()
	if l != GetLogger() {
		t.Fatal("Expected a single default logger")
	}
	if l.level != INFO {
		t.Errorf("Expected INFO as the default level, got %v", l.level)
	}
	if len(l.outputs) != 1 || l.outputs[0].min != DEBUG {
		t.Errorf("Expected one stderr output, got %+v", l.outputs)
	}
}
