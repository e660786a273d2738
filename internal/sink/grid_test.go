package sink

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g := NewGrid(80, 10)
	g.SetLayout(func(pos int) (int, int) { return 0, pos }, 60, 42)
	g.Flush()
	return g
}

func TestGridAllocatesTheChromeRows(t *testing.T) {
	g := NewGrid(80, 10)
	require.Len(t, g.cells, g.Height(), "buffer rows must match the reported height")
	require.Len(t, g.cells, 12)

	// The bottom chrome row must be writable straight after construction.
	g.ButtonLine("3 sites")
	assert.Equal(t, '3', g.cells[11][1].ch)
}

func TestGridRepeatedWriteIsDropped(t *testing.T) {
	g := newTestGrid(t)

	g.Identifier(0, 2, 0, "berlin", false, 0)
	require.True(t, g.Dirty())
	g.Flush()

	g.Identifier(0, 2, 0, "berlin", false, 0)
	assert.False(t, g.Dirty(), "identical repaint must not dirty the frame")

	g.Identifier(0, 2, 0, "berlin", true, 0)
	assert.True(t, g.Dirty(), "selection change repaints the cell")
}

func TestGridBlankLineClearsTheExtent(t *testing.T) {
	g := newTestGrid(t)

	g.Identifier(0, 2, 0, "berlin", false, 0)
	g.Characters(0, FieldFiles, 30, 0, " 12k")
	g.Flush()

	g.BlankLine(0)
	assert.True(t, g.Dirty())
	for x := 0; x < 60; x++ {
		c := g.cells[siteOriginY][x]
		assert.Equal(t, ' ', c.ch)
		assert.Equal(t, ColorBg, c.bg)
	}
}

func TestGridOutOfRangeWritesAreIgnored(t *testing.T) {
	g := newTestGrid(t)

	g.Characters(0, FieldFiles, 200, 0, "off")
	g.Characters(0, FieldFiles, 0, 500, "off")
	assert.False(t, g.Dirty())
}

func TestGridShrinkingBarClearsVacatedCells(t *testing.T) {
	g := newTestGrid(t)

	g.Bar(0, 1, BarActive, 10, 0, 20, 128, 127)
	g.Flush()

	g.Bar(0, -1, BarActive, 10, 0, 5, 30, 225)
	assert.True(t, g.Dirty())
	assert.NotEqual(t, ColorBg, g.cells[siteOriginY][14].bg, "cell inside the bar keeps its color")
	assert.Equal(t, ColorBg, g.cells[siteOriginY][15].bg, "vacated cell is cleared")
	assert.Equal(t, ColorBg, g.cells[siteOriginY][29].bg)
}

func TestGridLEDBlinkPhaseHidesTheLight(t *testing.T) {
	g := newTestGrid(t)

	g.ProcLED(LEDAmg, 1, false, 20, 0)
	assert.Equal(t, ColorLEDOn, g.cells[siteOriginY][20].bg)

	g.ProcLED(LEDAmg, 1, true, 20, 0)
	assert.Equal(t, ColorLEDOff, g.cells[siteOriginY][20].bg)
}

func TestGridButtonBarOccupiesTheBottomRow(t *testing.T) {
	g := newTestGrid(t)

	g.ButtonLine("3 sites  0 selected")
	g.MonLED(true, false)
	g.Clock(time.Date(2026, 8, 30, 12, 30, 0, 0, time.UTC))

	bottom := g.cells[11]
	assert.Equal(t, '3', bottom[1].ch)
	assert.Equal(t, ColorLEDOn, bottom[78].bg)
	assert.Equal(t, '1', bottom[80-16].ch)
}

func TestGridResizeForcesFullRepaint(t *testing.T) {
	g := newTestGrid(t)

	g.Resize(100, 20)
	assert.True(t, g.Dirty())
	assert.Len(t, g.cells, 22)
	assert.Len(t, g.cells[0], 100)
}

func TestGridRenderEmitsOneLinePerRow(t *testing.T) {
	g := newTestGrid(t)

	g.LabelLine("alias        amg fd aw")
	lines := g.Lines()
	require.Len(t, lines, 12)
	assert.Contains(t, lines[0], "alias")
	assert.Equal(t, 11, strings.Count(g.Render(), "\n"))
}

func TestGridErrorIsBufferedForTheFooter(t *testing.T) {
	g := newTestGrid(t)

	g.Error("fifo has no reader")
	msg, at := g.LastError()
	assert.Equal(t, "fifo has no reader", msg)
	assert.False(t, at.IsZero())
}
