// Package sink defines the draw surface the display engine paints into:
// line-level cells (identifier, LEDs, arcs, history, counters, bars) plus
// the button and label bars. Implementations must be idempotent per
// (x, y, content) tuple so repeated deltas cost nothing.
package sink

import "time"

// LED identifies one of the per-site subsystem lights.
type LED int

const (
	LEDAmg LED = iota
	LEDFd
	LEDArchiveWatch
)

// String returns the canonical short label of the LED.
func (l LED) String() string {
	switch l {
	case LEDAmg:
		return "amg"
	case LEDFd:
		return "fd"
	default:
		return "aw"
	}
}

// BarKind identifies one of the per-site bars.
type BarKind int

const (
	BarRate BarKind = iota
	BarActive
	BarError
)

// FieldTag identifies a formatted counter cell within a line.
type FieldTag int

const (
	FieldFiles FieldTag = iota
	FieldBytes
	FieldRate
	FieldConnRate
	FieldErrors
	FieldQueue
	FieldTransfers
	FieldErrorHosts
)

// GlobalArc identifies one of the button-bar log arcs.
type GlobalArc int

const (
	ArcSysLog GlobalArc = iota
	ArcEventLog
)

// Sink is the abstract surface consumed by the diff engine, the layout,
// and the watchdog.
type Sink interface {
	// BlankLine clears the whole line at visible position pos.
	BlankLine(pos int)

	// Identifier paints the fixed-width site name cell.
	Identifier(pos, x, y int, text string, selected bool, status int)

	// PlusMinus paints the group fold gadget.
	PlusMinus(pos, x, y int, open bool)

	// ProcLED paints one subsystem light. state is the raw subsystem value;
	// blinkOff indicates the blink phase currently hides an off light.
	ProcLED(which LED, state int, blinkOff bool, x, y int)

	// Characters paints a formatted counter cell.
	Characters(pos int, tag FieldTag, x, y int, text string)

	// Bar paints a bar of the given length. direction carries the sign of
	// the change so shrinking bars repaint the vacated extent.
	Bar(pos, direction int, which BarKind, x, y, length, green, blue int)

	// RemoteLogArc paints the per-site system log arc at slot.
	RemoteLogArc(pos, slot, x, y int, color byte)

	// RemoteHistoryCell paints one cell of a history strip.
	// typ is the strip row (0..2), cell the column within the strip.
	RemoteHistoryCell(pos, typ, cell, x, y int, color byte)

	// ButtonLine paints the button-bar summary text.
	ButtonLine(text string)

	// MonLED paints the collector liveness light on the button bar.
	MonLED(on, blinkOff bool)

	// LogArc paints a global log arc on the button bar.
	LogArc(which GlobalArc, slot int)

	// Clock paints the wall clock on the button bar.
	Clock(t time.Time)

	// LabelLine paints the column label bar.
	LabelLine(text string)

	// Resize reconfigures the surface dimensions.
	Resize(w, h int)

	// Flush commits everything painted since the previous Flush.
	Flush()

	// Error reports a non-fatal condition to the operator.
	Error(msg string)
}
