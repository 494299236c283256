package log

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetWriter(&buf)
	l.SetColorize(false)
	l.SetLevel(WARN)

	l.Debug("debug message")
	l.Info("info message")
	l.Warn("warn message")
	l.Error("error message")

	out := buf.String()
	if strings.Contains(out, "debug message") || strings.Contains(out, "info message") {
		t.Errorf("messages below WARN were emitted:\n%s", out)
	}
	if !strings.Contains(out, "warn message") || !strings.Contains(out, "error message") {
		t.Errorf("WARN/ERROR messages missing:\n%s", out)
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("session")
	l.SetWriter(&buf)
	l.SetColorize(false)

	l.Info("program written: %s", "a.gcode")

	out := buf.String()
	if !strings.Contains(out, "[INFO ]") {
		t.Errorf("missing level tag: %q", out)
	}
	if !strings.Contains(out, "session: program written: a.gcode") {
		t.Errorf("missing prefix/message: %q", out)
	}
}

func TestFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New("test")
	l.SetWriter(&buf)
	l.SetColorize(false)

	l.WithFields(Fields{"b": 2, "a": 1}).Info("msg")

	out := buf.String()
	if !strings.Contains(out, "{a=1, b=2}") {
		t.Errorf("fields not sorted: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New("drill")
	l.SetWriter(&buf)
	l.SetFormat(FormatJSON)

	l.WithField("holes", 3).Info("drilling")

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}
	if entry["level"] != "INFO" || entry["logger"] != "drill" || entry["message"] != "drilling" {
		t.Errorf("unexpected entry: %v", entry)
	}
	fields, ok := entry["fields"].(map[string]interface{})
	if !ok || fields["holes"] != float64(3) {
		t.Errorf("missing fields: %v", entry)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("debug") != DEBUG || ParseLevel("WARNING") != WARN || ParseLevel("bogus") != INFO {
		t.Error("ParseLevel mapping broken")
	}
}

func TestWithPrefixInheritsSettings(t *testing.T) {
	var buf bytes.Buffer
	l := New("root")
	l.SetWriter(&buf)
	l.SetColorize(false)
	l.SetLevel(ERROR)

	child := l.WithPrefix("child")
	child.Info("hidden")
	child.Error("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("child did not inherit level")
	}
	if !strings.Contains(out, "child: shown") {
		t.Errorf("child prefix missing: %q", out)
	}
}
