package sink

import (
	"fmt"
	"time"
)

// Delta is one recorded draw operation.
type Delta struct {
	Op   string
	Pos  int
	X, Y int
	Info string
}

// Recorder captures draw operations in order for test assertions.
type Recorder struct {
	Deltas  []Delta
	Flushes int
	ErrMsgs []string
	Width   int
	Height  int
}

// NewRecorder creates an empty recording sink.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Reset drops all recorded deltas.
func (r *Recorder) Reset() {
	r.Deltas = r.Deltas[:0]
	r.ErrMsgs = r.ErrMsgs[:0]
	r.Flushes = 0
}

// Count returns how many deltas with the given op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, d := range r.Deltas {
		if d.Op == op {
			n++
		}
	}
	return n
}

// Ops returns the recorded op names in order.
func (r *Recorder) Ops() []string {
	ops := make([]string, len(r.Deltas))
	for i, d := range r.Deltas {
		ops[i] = d.Op
	}
	return ops
}

// ForPos returns the deltas recorded for a visible position.
func (r *Recorder) ForPos(pos int) []Delta {
	var out []Delta
	for _, d := range r.Deltas {
		if d.Pos == pos {
			out = append(out, d)
		}
	}
	return out
}

func (r *Recorder) add(op string, pos, x, y int, info string) {
	r.Deltas = append(r.Deltas, Delta{Op: op, Pos: pos, X: x, Y: y, Info: info})
}

func (r *Recorder) BlankLine(pos int) {
	r.add("blank_line", pos, 0, 0, "")
}

func (r *Recorder) Identifier(pos, x, y int, text string, selected bool, status int) {
	r.add("identifier", pos, x, y, fmt.Sprintf("%s sel=%v status=%d", text, selected, status))
}

func (r *Recorder) PlusMinus(pos, x, y int, open bool) {
	r.add("plus_minus", pos, x, y, fmt.Sprintf("open=%v", open))
}

func (r *Recorder) ProcLED(which LED, state int, blinkOff bool, x, y int) {
	r.add("proc_led", -1, x, y, fmt.Sprintf("%s state=%d blinkOff=%v", which, state, blinkOff))
}

func (r *Recorder) Characters(pos int, tag FieldTag, x, y int, text string) {
	r.add("characters", pos, x, y, fmt.Sprintf("tag=%d %q", tag, text))
}

func (r *Recorder) Bar(pos, direction int, which BarKind, x, y, length, green, blue int) {
	r.add("bar", pos, x, y, fmt.Sprintf("kind=%d dir=%+d len=%d g=%d b=%d", which, direction, length, green, blue))
}

func (r *Recorder) RemoteLogArc(pos, slot, x, y int, color byte) {
	r.add("remote_log_arc", pos, x, y, fmt.Sprintf("slot=%d color=%d", slot, color))
}

func (r *Recorder) RemoteHistoryCell(pos, typ, cell, x, y int, color byte) {
	r.add("remote_history_cell", pos, x, y, fmt.Sprintf("typ=%d cell=%d color=%d", typ, cell, color))
}

func (r *Recorder) ButtonLine(text string) {
	r.add("button_line", -1, 0, 0, text)
}

func (r *Recorder) MonLED(on, blinkOff bool) {
	r.add("mon_led", -1, 0, 0, fmt.Sprintf("on=%v blinkOff=%v", on, blinkOff))
}

func (r *Recorder) LogArc(which GlobalArc, slot int) {
	r.add("log_arc", -1, 0, 0, fmt.Sprintf("which=%d slot=%d", which, slot))
}

func (r *Recorder) Clock(t time.Time) {
	r.add("clock", -1, 0, 0, t.Format("15:04"))
}

func (r *Recorder) LabelLine(text string) {
	r.add("label_line", -1, 0, 0, text)
}

func (r *Recorder) Resize(w, h int) {
	r.Width, r.Height = w, h
	r.add("resize", -1, 0, 0, fmt.Sprintf("%dx%d", w, h))
}

func (r *Recorder) Flush() {
	r.Flushes++
}

func (r *Recorder) Error(msg string) {
	r.ErrMsgs = append(r.ErrMsgs, msg)
}
