package motion

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCommandLines(t *testing.T) {
	var buf bytes.Buffer
	mw := NewWriter(&buf)

	mw.ResetPosition(0, 0, 0)
	mw.MoveTo(Move{Z: V(10), F: V(100)})
	mw.MoveTo(Move{X: V(0.8706), Y: V(-4.5)})
	mw.MoveTo(Move{Z: V(0)})
	mw.Dwell(6)
	mw.MoveTo(Move{X: V(1), Y: V(1.7), Z: V(-7.55), F: V(25)})
	mw.SetFeedRate(100)
	mw.HaltForOperator()

	if err := mw.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"RESET X0 Y0 Z0",
		"MOVE Z10 F100",
		"MOVE X0.8706 Y-4.5",
		"MOVE Z0",
		"DWELL P6",
		"MOVE X1 Y1.7 Z-7.55 F25",
		"SETFEED F100",
		"HALT",
	}
	got := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(got) != len(want) {
		t.Fatalf("line count = %d, want %d\n%s", len(got), len(want), buf.String())
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestSignificantFigures(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{7.55, "7.55"},
		{0.87083512, "0.8708"},
		{-3.25, "-3.25"},
		{100, "100"},
		{0.5, "0.5"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := formatValue(c.v); got != c.want {
			t.Errorf("formatValue(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestNegativeZeroNormalized(t *testing.T) {
	var buf bytes.Buffer
	mw := NewWriter(&buf)
	mw.MoveTo(Move{Z: V(-0.0)})
	if got := buf.String(); got != "MOVE Z0\n" {
		t.Errorf("got %q, want MOVE Z0", got)
	}
}

func TestNegativeDwellRejected(t *testing.T) {
	var buf bytes.Buffer
	mw := NewWriter(&buf)
	mw.Dwell(-1)
	if mw.Err() == nil {
		t.Fatal("expected error for negative dwell")
	}
	if buf.Len() != 0 {
		t.Errorf("negative dwell emitted output: %q", buf.String())
	}
}

func TestEmptyMoveRejected(t *testing.T) {
	mw := NewWriter(&bytes.Buffer{})
	mw.MoveTo(Move{})
	if mw.Err() == nil {
		t.Fatal("expected error for empty move")
	}
}

type failingWriter struct {
	n int // writes allowed before failing
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n <= 0 {
		return 0, errors.New("disk full")
	}
	f.n--
	return len(p), nil
}

func TestStickyWriteError(t *testing.T) {
	fw := &failingWriter{n: 2}
	mw := NewWriter(fw)
	mw.ResetPosition(0, 0, 0)
	mw.MoveTo(Move{Z: V(10)})
	mw.MoveTo(Move{Z: V(0)}) // fails
	mw.HaltForOperator()     // suppressed
	if mw.Err() == nil {
		t.Fatal("expected sticky write error")
	}
}

func TestHeader(t *testing.T) {
	var buf bytes.Buffer
	mw := NewWriter(&buf)
	created := time.Date(2026, 8, 29, 10, 30, 0, 0, time.UTC)
	mw.Header(created, []HeaderRow{
		{Label: "site_Right", ML: 1, AP: 1.7, DV: 7.3, Angle: 0},
	})
	if err := mw.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("header line count = %d, want 3", len(lines))
	}
	for i, ln := range lines {
		if !strings.HasPrefix(ln, "; ") {
			t.Errorf("header line %d not a comment: %q", i, ln)
		}
	}
	if lines[0] != "; created 2026-08-29 10:30:00" {
		t.Errorf("date line = %q", lines[0])
	}
	if !strings.Contains(lines[2], "site_Right") || !strings.Contains(lines[2], "7.3") {
		t.Errorf("table row missing fields: %q", lines[2])
	}
}
