package sink

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// Console color palette. Status colors follow the classic traffic-light
// scheme operators expect from the X11 console.
const (
	ColorBg       = lipgloss.Color("#10141A")
	ColorFrame    = lipgloss.Color("#2A3444")
	ColorText     = lipgloss.Color("#D8DEE9")
	ColorMuted    = lipgloss.Color("#5C6773")
	ColorSelected = lipgloss.Color("#3A5FCD")

	ColorNormal       = lipgloss.Color("#3CB371")
	ColorWarn         = lipgloss.Color("#E5C07B")
	ColorError        = lipgloss.Color("#E06C75")
	ColorDisconnected = lipgloss.Color("#C678DD")
	ColorDisabled     = lipgloss.Color("#4B5263")

	ColorLEDOn      = lipgloss.Color("#3CB371")
	ColorLEDStopped = lipgloss.Color("#E5C07B")
	ColorLEDDown    = lipgloss.Color("#E06C75")
	ColorLEDOff     = lipgloss.Color("#23272E")
)

// colorPool maps the history and log-arc color bytes carried in the MSA
// to display colors. Indexed modulo its length.
var colorPool = []lipgloss.Color{
	ColorLEDOff,       // 0: nothing happened
	ColorNormal,       // 1: data transferred
	ColorWarn,         // 2: warnings logged
	ColorError,        // 3: errors logged
	ColorDisconnected, // 4: site unreachable
	ColorDisabled,     // 5: site paused
	lipgloss.Color("#61AFEF"), // 6: info
	lipgloss.Color("#ABB2BF"), // 7: debug
}

type cell struct {
	ch rune
	fg lipgloss.Color
	bg lipgloss.Color
}

// Grid is the production Sink: a character-cell buffer the console
// renders as styled terminal lines. Every write compares against the
// cell already in place and is dropped when nothing changed, so the
// engine can replay deltas without causing redraw work.
type Grid struct {
	width  int
	height int
	cells  [][]cell

	// Site-line placement, owned by the console which knows the layout.
	locate  func(pos int) (x, y int)
	lineLen int
	maxBar  int

	dirty   bool
	flushes int
	errMsg  string
	errAt   time.Time
}

// NewGrid creates a grid for a site area of the given extent. Two chrome
// rows are added: the label line on top, the button bar on the bottom.
func NewGrid(w, h int) *Grid {
	g := &Grid{}
	g.Resize(w, h)
	return g
}

// SetLayout wires the site-line placement the grid cannot derive on its
// own: where a visible position starts, how long a line is, and the bar
// extent. Must be called again after the layout recomputes.
func (g *Grid) SetLayout(locate func(pos int) (x, y int), lineLen, maxBar int) {
	g.locate = locate
	g.lineLen = lineLen
	g.maxBar = maxBar
}

// Dirty reports whether any cell changed since the last Flush.
func (g *Grid) Dirty() bool { return g.dirty }

// Width returns the buffer width in cells.
func (g *Grid) Width() int { return g.width }

// Height returns the buffer height in rows, chrome included.
func (g *Grid) Height() int { return g.height }

// Flushes returns how many frames have been committed.
func (g *Grid) Flushes() int { return g.flushes }

// LastError returns the most recent operator message and when it was
// reported.
func (g *Grid) LastError() (string, time.Time) { return g.errMsg, g.errAt }

// siteOriginY is the row offset of the site-line area inside the grid.
const siteOriginY = 1

func (g *Grid) put(x, y int, ch rune, fg, bg lipgloss.Color) {
	if y < 0 || y >= g.height || x < 0 || x >= g.width {
		return
	}
	c := cell{ch: ch, fg: fg, bg: bg}
	if g.cells[y][x] == c {
		return
	}
	g.cells[y][x] = c
	g.dirty = true
}

func (g *Grid) putText(x, y int, text string, fg, bg lipgloss.Color) {
	for i, ch := range text {
		g.put(x+i, y, ch, fg, bg)
	}
}

func (g *Grid) BlankLine(pos int) {
	if g.locate == nil {
		return
	}
	x, y := g.locate(pos)
	for i := 0; i < g.lineLen; i++ {
		g.put(x+i, y+siteOriginY, ' ', ColorText, ColorBg)
	}
}

func statusColor(status int) lipgloss.Color {
	switch status {
	case 1:
		return ColorWarn
	case 2:
		return ColorError
	case 3:
		return ColorDisconnected
	case 4:
		return ColorDisabled
	default:
		return ColorNormal
	}
}

func (g *Grid) Identifier(pos, x, y int, text string, selected bool, status int) {
	fg := lipgloss.Color("#10141A")
	bg := statusColor(status)
	if selected {
		fg = ColorText
		bg = ColorSelected
	}
	g.putText(x, y+siteOriginY, text, fg, bg)
}

func (g *Grid) PlusMinus(pos, x, y int, open bool) {
	ch := '+'
	if open {
		ch = '-'
	}
	g.put(x, y+siteOriginY, ch, ColorText, ColorFrame)
}

func ledColor(state int, blinkOff bool) lipgloss.Color {
	if blinkOff {
		return ColorLEDOff
	}
	switch state {
	case 1:
		return ColorLEDOn
	case 2:
		return ColorLEDStopped
	case 3:
		return ColorLEDDown
	default:
		return ColorLEDOff
	}
}

func (g *Grid) ProcLED(which LED, state int, blinkOff bool, x, y int) {
	g.put(x, y+siteOriginY, ' ', ColorText, ledColor(state, blinkOff))
}

func (g *Grid) Characters(pos int, tag FieldTag, x, y int, text string) {
	g.putText(x, y+siteOriginY, text, ColorText, ColorBg)
}

func (g *Grid) Bar(pos, direction int, which BarKind, x, y, length, green, blue int) {
	bg := lipgloss.Color(fmt.Sprintf("#00%02x%02x", green, blue))
	if which == BarError {
		bg = ColorError
	}
	row := y + siteOriginY
	for i := 0; i < length; i++ {
		g.put(x+i, row, ' ', ColorText, bg)
	}
	if direction < 0 {
		for i := length; i < g.maxBar; i++ {
			g.put(x+i, row, ' ', ColorText, ColorBg)
		}
	}
}

func poolColor(c byte) lipgloss.Color {
	return colorPool[int(c)%len(colorPool)]
}

func (g *Grid) RemoteLogArc(pos, slot, x, y int, color byte) {
	// Two cells stand in for the pie wedge of the X11 console; the slot
	// alternates which half repaints.
	g.put(x+slot%2, y+siteOriginY, ' ', ColorText, poolColor(color))
}

func (g *Grid) RemoteHistoryCell(pos, typ, cell, x, y int, color byte) {
	g.put(x+cell, y+siteOriginY, ' ', ColorText, poolColor(color))
}

func (g *Grid) ButtonLine(text string) {
	y := g.height - 1
	g.putText(1, y, text, ColorText, ColorFrame)
	for i := 1 + len(text); i < g.width; i++ {
		g.put(i, y, ' ', ColorText, ColorFrame)
	}
}

func (g *Grid) MonLED(on, blinkOff bool) {
	bg := ColorLEDDown
	if on {
		bg = ColorLEDOn
	}
	if blinkOff {
		bg = ColorLEDOff
	}
	g.put(g.width-2, g.height-1, ' ', ColorText, bg)
}

func (g *Grid) LogArc(which GlobalArc, slot int) {
	x := g.width - 8 + int(which)*3
	g.put(x+slot%2, g.height-1, '*', ColorWarn, ColorFrame)
}

func (g *Grid) Clock(t time.Time) {
	g.putText(g.width-16, g.height-1, t.Format("15:04"), ColorText, ColorFrame)
}

func (g *Grid) LabelLine(text string) {
	g.putText(1, 0, text, ColorMuted, ColorBg)
	for i := 1 + len(text); i < g.width; i++ {
		g.put(i, 0, ' ', ColorMuted, ColorBg)
	}
}

// Resize reallocates the buffer for a site area of w by h cells, dropping
// all content so the next frame repaints fully.
func (g *Grid) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	g.width = w
	g.height = h + 2
	g.cells = make([][]cell, g.height)
	for y := range g.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{ch: ' ', fg: ColorText, bg: ColorBg}
		}
		g.cells[y] = row
	}
	g.dirty = true
}

func (g *Grid) Flush() {
	g.flushes++
	g.dirty = false
}

func (g *Grid) Error(msg string) {
	g.errMsg = msg
	g.errAt = time.Now()
}

// Lines renders the buffer into one styled string per row, merging runs
// of equally styled cells to keep the escape-sequence volume down.
func (g *Grid) Lines() []string {
	lines := make([]string, g.height)
	var run strings.Builder
	for y, row := range g.cells {
		var out strings.Builder
		run.Reset()
		cur := row[0]
		for _, c := range row {
			if c.fg != cur.fg || c.bg != cur.bg {
				out.WriteString(styled(run.String(), cur))
				run.Reset()
				cur = c
			}
			run.WriteRune(c.ch)
		}
		out.WriteString(styled(run.String(), cur))
		run.Reset()
		lines[y] = out.String()
	}
	return lines
}

// Render joins the styled rows into the frame the console view shows.
func (g *Grid) Render() string {
	return strings.Join(g.Lines(), "\n")
}

func styled(text string, c cell) string {
	return lipgloss.NewStyle().Foreground(c.fg).Background(c.bg).Render(text)
}
