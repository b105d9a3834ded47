package logger

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func reset() {
	SetVerbose(false)
	SetTimestamps(true)
	SetOutput(os.Stderr)
}

func TestSetVerbose(t *testing.T) {
	defer reset()

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false initially")
	}

	SetVerbose(true)
	if !IsVerbose() {
		t.Error("expected verbose to be true after SetVerbose(true)")
	}

	SetVerbose(false)
	if IsVerbose() {
		t.Error("expected verbose to be false after SetVerbose(false)")
	}
}

func TestDebug_WhenVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetTimestamps(false)
	SetVerbose(true)

	Debug("test message %s", "arg")

	if got := buf.String(); got != "[DEBUG] test message arg\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(false)

	Debug("test message")
	Section("Nothing")

	if buf.Len() > 0 {
		t.Errorf("expected no output when verbose is disabled, got %q", buf.String())
	}
}

func TestSection(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(true)

	Section("Chat")

	if got := buf.String(); got != "\n=== Chat ===\n" {
		t.Errorf("unexpected output: %q", got)
	}
}

func TestAlwaysOnLevels(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)
	SetTimestamps(false)
	SetVerbose(false)

	Info("listening on %s", ":8080")
	Warn("queue full")
	Error("provider %s failed", "openai")

	want := "[INFO] listening on :8080\n[WARN] queue full\n[ERROR] provider openai failed\n"
	if got := buf.String(); got != want {
		t.Errorf("unexpected output:\n%q\nwant:\n%q", got, want)
	}
}

func TestTimestampPrefix(t *testing.T) {
	defer reset()

	var buf bytes.Buffer
	SetOutput(&buf)

	Info("hello")

	line := buf.String()
	if !strings.Contains(line, "[INFO] hello") {
		t.Errorf("missing level and message: %q", line)
	}
	if !strings.HasSuffix(strings.Fields(line)[0], "Z") {
		t.Errorf("expected UTC timestamp prefix: %q", line)
	}
}
