package display

// LineStyle selects what the right-hand side of each line shows.
type LineStyle int

const (
	StyleBars LineStyle = iota
	StyleChars
	StyleBoth
)

// ParseLineStyle maps the config string to a line style, defaulting to bars.
func ParseLineStyle(s string) LineStyle {
	switch s {
	case "chars", "characters":
		return StyleChars
	case "both", "chars+bars":
		return StyleBoth
	default:
		return StyleBars
	}
}

// Cell block widths, in character cells. The surface is a character grid,
// so the "font metrics" of the original become per-cell extents.
const (
	frameSpace       = 1
	ledBlockWidth    = 4 // three LEDs and a space
	arcWidth         = 2
	historyCellWidth = 1
	charFieldGap     = 1

	// DefaultAliasWidth is the identifier cell width including the toggle
	// suffix when a site switches.
	DefaultAliasWidth = 12

	// DefaultMaxBarLength is the bar extent in cells.
	DefaultMaxBarLength = 42

	// DefaultRowsSet is the operator's target row count.
	DefaultRowsSet = 40
)

// charBlock holds the formatted counter cells: files, bytes, rate,
// conn-rate, errors, queue, transfers, error-hosts with separating gaps.
const charBlockWidth = 4 + 4 + 4 + 4 + 3 + 4 + 2 + 2 + 8*charFieldGap

// CharFieldX is the x-offset of each counter cell relative to XChars, in
// emission order (fc fs tr fr ec jq tn te). The diff engine and the
// label bar must agree on these.
var CharFieldX = [8]int{0, 5, 10, 15, 20, 24, 29, 32}

// Geometry is the layout model: line composition, row/column split, and
// window extent. All in character cells.
type Geometry struct {
	Style         LineStyle
	HistoryLength int // cells per history strip, 0..msa.MaxLogHistory
	AliasWidth    int
	MaxBarLength  int
	StepSize      float64 // MaxIntensity / MaxBarLength
	RowsSet       int     // operator target rows

	LineLength   int
	LineHeight   int
	Columns      int
	Rows         int
	WindowWidth  int
	WindowHeight int

	// Per-cell x-offsets within a line.
	XPlusMinus int
	XAlias     int
	XLEDs      int
	XArc       int
	XHistory   int
	XChars     int
	XBars      int
}

// NewGeometry builds a geometry for the given style, history length, and
// row target, with the line composition computed.
func NewGeometry(style LineStyle, historyLength, rowsSet int) Geometry {
	if rowsSet < 1 {
		rowsSet = DefaultRowsSet
	}
	if historyLength < 0 {
		historyLength = 0
	}
	g := Geometry{
		Style:         style,
		HistoryLength: historyLength,
		AliasWidth:    DefaultAliasWidth,
		MaxBarLength:  DefaultMaxBarLength,
		RowsSet:       rowsSet,
		LineHeight:    1,
	}
	g.StepSize = float64(MaxIntensity) / float64(g.MaxBarLength)
	g.ComputeLine()
	return g
}

// ComputeLine lays out the x-offsets and total line length from the style
// and history length.
func (g *Geometry) ComputeLine() {
	x := frameSpace
	g.XPlusMinus = x
	x += 2
	g.XAlias = x
	x += g.AliasWidth + 1
	g.XLEDs = x
	x += ledBlockWidth
	g.XArc = x
	x += arcWidth
	g.XHistory = x
	x += g.HistoryLength * historyCellWidth
	if g.HistoryLength > 0 {
		x++
	}

	switch g.Style {
	case StyleBars:
		g.XBars = x
		x += g.MaxBarLength
	case StyleChars:
		g.XChars = x
		x += charBlockWidth
	case StyleBoth:
		g.XChars = x
		x += charBlockWidth
		g.XBars = x
		x += g.MaxBarLength
	}

	g.LineLength = x + frameSpace
}

// Compute splits the visible rows over columns for the operator's row
// target and derives the window extent.
func (g *Geometry) Compute(visible int) {
	if visible < 1 {
		g.Columns = 1
		g.Rows = 0
		g.WindowWidth = g.LineLength
		g.WindowHeight = 0
		return
	}

	g.Columns = (visible + g.RowsSet - 1) / g.RowsSet
	if g.Columns < 1 {
		g.Columns = 1
	}
	g.Rows = (visible + g.Columns - 1) / g.Columns
	g.WindowWidth = g.Columns * g.LineLength
	g.WindowHeight = g.Rows * g.LineHeight
}

// LocateXY maps a visible position to its line origin.
func (g *Geometry) LocateXY(pos int) (x, y int) {
	if g.Rows < 1 {
		return 0, pos * g.LineHeight
	}
	col := pos / g.Rows
	row := pos % g.Rows
	return col * g.LineLength, row * g.LineHeight
}

// BarX returns the x-offset of the given bar within a line. The three bars
// stack on separate sub-rows in the original; on a character grid they
// share the bar block, so the x-offset is the block origin.
func (g *Geometry) BarX() int {
	return g.XBars
}

// Rescale changes the bar extent (font resize analog): recompute the color
// step and every row's scales, bar lengths, and offsets.
func (s *Store) Rescale(maxBar int) {
	if maxBar < 1 {
		maxBar = 1
	}
	s.Geo.MaxBarLength = maxBar
	s.Geo.StepSize = float64(MaxIntensity) / float64(maxBar)
	s.Geo.ComputeLine()

	for _, r := range s.Rows {
		r.Scale[0] = ActiveScale(r.MaxConnections, maxBar)
		r.Scale[1] = ErrorScale(r.NoOfHosts, maxBar)
		r.BarLength[1] = ActiveBar(r.NoOfTransfers, r.MaxConnections, maxBar)
		r.BarLength[2] = ErrorBar(r.HostErrorCnt, r.NoOfHosts, maxBar)
		r.BarLength[0] = RateBar(r.AverageTR, r.MaxAverageTR, maxBar)
		r.GreenOffset, r.BlueOffset = ColorOffsets(r.BarLength[1], s.Geo.StepSize)
	}
}
