// Package motion emits primitive machine commands as a g-code-like text
// program. A Writer is bound to one output stream for the duration of a
// program; commands append one line each, in call order, with fixed
// formatting rules so that a program round-trips every planned coordinate
// to at least 4 significant figures.
package motion

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// commentMarker starts every non-command line of a program.
const commentMarker = ";"

// Writer is a stateful emitter of primitive machine commands. Write
// failures are sticky: the first error suppresses all further output and
// is reported by Err.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter returns a Writer emitting to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first write error encountered, if any.
func (mw *Writer) Err() error {
	return mw.err
}

// ResetPosition declares the robot's current physical location as
// (x, y, z). No motion results; it is used once per program to re-zero
// before any travel.
func (mw *Writer) ResetPosition(x, y, z float64) {
	mw.writeLine(CmdReset.String() + " X" + formatValue(x) + " Y" + formatValue(y) + " Z" + formatValue(z))
}

// MoveTo commands linear motion to the axis targets of m, in fixed
// X, Y, Z, F order. Omitted axes stay put; an omitted feed rate keeps the
// rate already in effect.
func (mw *Writer) MoveTo(m Move) {
	if m.X == nil && m.Y == nil && m.Z == nil && m.F == nil {
		mw.fail(fmt.Errorf("motion: move with no axis or feed targets"))
		return
	}
	line := CmdMove.String()
	if m.X != nil {
		line += " X" + formatValue(*m.X)
	}
	if m.Y != nil {
		line += " Y" + formatValue(*m.Y)
	}
	if m.Z != nil {
		line += " Z" + formatValue(*m.Z)
	}
	if m.F != nil {
		line += " F" + formatValue(*m.F)
	}
	mw.writeLine(line)
}

// SetFeedRate changes the feed rate without motion.
func (mw *Writer) SetFeedRate(f float64) {
	mw.writeLine(CmdSetFeed.String() + " F" + formatValue(f))
}

// Dwell pauses in place for the given number of seconds.
func (mw *Writer) Dwell(seconds float64) {
	if seconds < 0 {
		mw.fail(fmt.Errorf("motion: negative dwell %v", seconds))
		return
	}
	mw.writeLine(CmdDwell.String() + " P" + formatValue(seconds))
}

// HaltForOperator pauses execution until manually resumed.
func (mw *Writer) HaltForOperator() {
	mw.writeLine(CmdHalt.String())
}

// Comment writes a single comment line.
func (mw *Writer) Comment(text string) {
	mw.writeLine(commentMarker + " " + text)
}

// HeaderRow is one target of the header table: the operator-reference
// listing of planned holes.
type HeaderRow struct {
	Label string
	ML    float64
	AP    float64
	DV    float64
	Angle float64
}

// Header writes the leading comment block: creation date plus a
// fixed-width table of the given targets. The table is documentation for
// the operator, not control.
func (mw *Writer) Header(created time.Time, rows []HeaderRow) {
	mw.Comment("created " + created.Format("2006-01-02 15:04:05"))
	mw.Comment(fmt.Sprintf("%-20s %8s %8s %8s %8s", "label", "ML", "AP", "DV", "angle"))
	for _, r := range rows {
		mw.Comment(fmt.Sprintf("%-20s %8s %8s %8s %8s",
			r.Label, formatValue(r.ML), formatValue(r.AP), formatValue(r.DV), formatValue(r.Angle)))
	}
}

func (mw *Writer) writeLine(line string) {
	if mw.err != nil {
		return
	}
	_, mw.err = io.WriteString(mw.w, line+"\n")
}

func (mw *Writer) fail(err error) {
	if mw.err == nil {
		mw.err = err
	}
}

// formatValue renders a numeric field with 4 significant figures.
func formatValue(v float64) string {
	if v == 0 {
		v = 0 // normalize -0
	}
	return strconv.FormatFloat(v, 'g', 4, 64)
}
