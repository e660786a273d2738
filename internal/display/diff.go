package display

import (
	"time"

	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/msa"
	"github.com/holger24/AFD-sub001/internal/sink"
)

// Default pacing bounds for the line tick.
const (
	DefaultMinRedrawTime  = 250 * time.Millisecond
	DefaultRedrawStepTime = 250 * time.Millisecond
	DefaultMaxRedrawTime  = 3500 * time.Millisecond
)

// Provider yields the authoritative MSA view the engine diffs against.
// *msa.Reader implements it; tests use msatest.FakeMSA.
type Provider interface {
	NumSites() int
	Site(i int) msa.SiteRecord
}

// ProcessKiller lets the engine terminate tracked children of a site when
// its toggle flips, so stale remote sessions do not outlive a switch.
type ProcessKiller interface {
	KillSite(siteIndex int)
}

// TickResult reports what one engine tick did and when to run the next.
type TickResult struct {
	Deltas       int
	Next         time.Duration
	Restructured bool
}

// Engine is the per-tick diff between the MSA and the mirror. It never
// returns an error: out-of-range inputs are clamped and I/O trouble is
// reported through the sink's error channel.
type Engine struct {
	src   Provider
	store *Store
	out   sink.Sink
	procs ProcessKiller
	log   logger.Logger

	Min  time.Duration
	Step time.Duration
	Max  time.Duration

	// KillOnAutoOnly narrows the switch-kill to auto-switching sites.
	// Default is kill-always; see the operator policy note in DESIGN.md.
	KillOnAutoOnly bool

	period time.Duration
}

// NewEngine creates an engine over the given source, store, and sink.
// procs may be nil when no process table is attached.
func NewEngine(src Provider, store *Store, out sink.Sink, procs ProcessKiller, log logger.Logger) *Engine {
	if log == nil {
		log = logger.Noop()
	}
	return &Engine{
		src:    src,
		store:  store,
		out:    out,
		procs:  procs,
		log:    log,
		Min:    DefaultMinRedrawTime,
		Step:   DefaultRedrawStepTime,
		Max:    DefaultMaxRedrawTime,
		period: DefaultMinRedrawTime,
	}
}

// Period returns the current adaptive tick period.
func (e *Engine) Period() time.Duration {
	return e.period
}

// Bootstrap builds the initial mirror from the MSA and paints every
// visible line. Called once after attach.
func (e *Engine) Bootstrap() {
	n := e.src.NumSites()
	rows := make([]*Row, n)
	for i := 0; i < n; i++ {
		rows[i] = e.store.NewRow(e.src.Site(i))
	}
	e.store.Rows = rows
	e.Redraw()
}

// Redraw recomputes visibility and layout from the current mirror and
// repaints every visible row. Selection and fold state survive, so this
// is the path the console takes after a fold toggle or a window resize.
func (e *Engine) Redraw() {
	e.store.RecomputeVisibility()
	e.store.Geo.Compute(e.store.NoOfVisible)
	e.out.Resize(e.store.Geo.WindowWidth, e.store.Geo.WindowHeight)
	for pos, idx := range e.store.VisiblePositions {
		e.drawRow(idx, pos)
	}
	e.out.Flush()
}

// RepaintIdentifier repaints the name cell of row i after a selection
// change. A no-op for hidden rows.
func (e *Engine) RepaintIdentifier(i int) {
	if i < 0 || i >= len(e.store.Rows) {
		return
	}
	pos := e.store.VisibleIndex(i)
	if pos < 0 {
		return
	}
	r := e.store.Rows[i]
	x, y := e.store.LocateXY(pos)
	e.out.Identifier(pos, x+e.store.Geo.XAlias, y, e.identText(r), r.Selected(), int(r.ConnectStatus))
}

// Tick runs one diff cycle and returns the deltas emitted plus the next
// period per the pacing discipline: any delta snaps back to Min, a quiet
// tick stretches the period by Step up to Max.
func (e *Engine) Tick(now time.Time) TickResult {
	var res TickResult

	n := e.src.NumSites()
	if n != len(e.store.Rows) || e.aliasMismatch(n) {
		res.Deltas = e.restructure(n)
		res.Restructured = true
	} else {
		for i, row := range e.store.Rows {
			res.Deltas += e.diffRow(i, row, e.src.Site(i))
		}
	}

	// Blink repaints are deltas like any other, so a blinking row holds
	// the loop at Min and the oscillator stays an animation.
	res.Deltas += e.advanceBlink()

	if res.Deltas > 0 {
		e.period = e.Min
		e.out.Flush()
	} else {
		e.period += e.Step
		if e.period > e.Max {
			e.period = e.Max
		}
	}
	res.Next = e.period
	return res
}

// aliasMismatch reports whether any aligned alias differs between the
// mirror and the MSA, which forces the restructure path.
func (e *Engine) aliasMismatch(n int) bool {
	for i := 0; i < n && i < len(e.store.Rows); i++ {
		if e.store.Rows[i].Alias != e.src.Site(i).Alias {
			return true
		}
	}
	return false
}

// diffRow compares one mirror row against its MSA record field by field,
// updates the mirror and derived values, and emits deltas for the visible
// row in the fixed order identifier, LEDs, log arc, history, characters,
// bars. Returns the number of deltas emitted.
func (e *Engine) diffRow(i int, r *Row, rec msa.SiteRecord) int {
	clampRecord(&rec)

	pos := e.store.VisibleIndex(i)
	visible := pos >= 0
	x, y := 0, 0
	if visible {
		x, y = e.store.LocateXY(pos)
	}
	g := &e.store.Geo
	deltas := 0

	// Identifier: connect status, toggle, switching mode.
	identChanged := false
	if r.ConnectStatus != rec.ConnectStatus {
		r.ConnectStatus = rec.ConnectStatus
		identChanged = true
	}
	if r.Toggle != rec.Toggle || r.SwitchingMode != rec.SwitchingMode {
		toggleFlipped := r.Toggle != rec.Toggle && rec.SwitchingMode != msa.SwitchNone
		r.Toggle = rec.Toggle
		r.SwitchingMode = rec.SwitchingMode
		r.DisplayString = FormatDisplayString(r.Alias, r.Toggle, r.SwitchingMode.String(), g.AliasWidth)
		identChanged = true

		if toggleFlipped && e.procs != nil {
			if !e.KillOnAutoOnly || r.SwitchingMode == msa.SwitchAuto {
				e.log.Debug("toggle flip on %s: killing tracked children", r.Alias)
				e.procs.KillSite(i)
			}
		}
	}
	if identChanged && visible {
		e.out.Identifier(pos, x+g.XAlias, y, r.DisplayString, r.Selected(), int(r.ConnectStatus))
		deltas++
	}

	// Subsystem LEDs drive the blink flag: a freshly off subsystem starts
	// the oscillator, all-on clears it.
	leds := [3]struct {
		mirror *msa.SubsystemState
		value  msa.SubsystemState
		which  sink.LED
	}{
		{&r.AMG, rec.AMG, sink.LEDAmg},
		{&r.FD, rec.FD, sink.LEDFd},
		{&r.ArchiveWatch, rec.ArchiveWatch, sink.LEDArchiveWatch},
	}
	for li, led := range leds {
		if *led.mirror == led.value {
			continue
		}
		*led.mirror = led.value
		if led.value == msa.SubsystemOff {
			r.BlinkFlag = true
		}
		if visible {
			e.out.ProcLED(led.which, int(led.value), false, x+g.XLEDs+li, y)
			deltas++
		}
	}
	if r.BlinkFlag && r.AMG == msa.SubsystemOn && r.FD == msa.SubsystemOn && r.ArchiveWatch == msa.SubsystemOn {
		r.BlinkFlag = false
		r.BlinkPhase = BlinkOn
	}

	// System log arc.
	if r.SysLogEC != rec.SysLogEC {
		r.SysLogEC = rec.SysLogEC
		r.SysLogFifo = rec.SysLogFifo
		slot := int(rec.SysLogEC % msa.LogFifoSize)
		if visible {
			e.out.RemoteLogArc(pos, slot, x+g.XArc, y, rec.SysLogFifo[slot])
			deltas++
		}
	}

	// History strips.
	if g.HistoryLength > 0 {
		for t := 0; t < 3; t++ {
			if r.LogHistory[t] == rec.LogHistory[t] {
				continue
			}
			r.LogHistory[t] = rec.LogHistory[t]
			if visible {
				for c := 0; c < g.HistoryLength && c < msa.MaxLogHistory; c++ {
					e.out.RemoteHistoryCell(pos, t, c, x+g.XHistory+c, y, rec.LogHistory[t][c])
				}
				deltas++
			}
		}
	} else {
		for t := 0; t < 3; t++ {
			r.LogHistory[t] = rec.LogHistory[t]
		}
	}

	chars := g.Style == StyleChars || g.Style == StyleBoth
	bars := g.Style == StyleBars || g.Style == StyleBoth

	// Formatted counter cells. The cell is repainted only when the fixed
	// width representation actually changed.
	if chars {
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[0], y, sink.FieldFiles, &r.StrFiles, FormatCount(rec.Files))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[1], y, sink.FieldBytes, &r.StrBytes, FormatBytes(rec.Bytes))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[2], y, sink.FieldRate, &r.StrRate, FormatRate(rec.TransferRate))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[3], y, sink.FieldConnRate, &r.StrConnRate, FormatCount(rec.ConnectionRate))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[4], y, sink.FieldErrors, &r.StrErrors, FormatErrorCount(rec.ErrorCount))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[5], y, sink.FieldQueue, &r.StrQueue, FormatQueue(rec.JobsInQueue))
		// The transfer and error-host cells format from the MSA value
		// directly; the numeric mirror write is deferred to the bar
		// branch, which needs the previous value for the delta sign.
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[6], y, sink.FieldTransfers, &r.StrTransfers, FormatTransfers(rec.NoOfTransfers))
		deltas += e.diffChar(pos, visible, x+g.XChars+CharFieldX[7], y, sink.FieldErrorHosts, &r.StrErrorHosts, FormatErrorHosts(rec.HostErrorCnt))
	}

	// Scale inputs re-derive without emitting anything themselves.
	if r.MaxConnections != rec.MaxConnections {
		r.MaxConnections = rec.MaxConnections
		r.Scale[0] = ActiveScale(rec.MaxConnections, g.MaxBarLength)
	}
	if r.NoOfHosts != rec.NoOfHosts {
		r.NoOfHosts = rec.NoOfHosts
		r.Scale[1] = ErrorScale(rec.NoOfHosts, g.MaxBarLength)
	}
	if r.DangerNoOfJobs != rec.DangerNoOfJobs {
		r.DangerNoOfJobs = rec.DangerNoOfJobs
		r.LinkMax = rec.DangerNoOfJobs * 2
	}

	// Bars. One staged commit per tick for the fields both branches read.
	if r.TransferRate != rec.TransferRate || r.AverageTR != rec.TransferRate {
		r.TransferRate = rec.TransferRate
		if changed, old := r.UpdateRate(rec.TransferRate, g.MaxBarLength); changed && bars && visible {
			e.out.Bar(pos, sign(r.BarLength[sink.BarRate]-old), sink.BarRate,
				x+g.XBars, y, r.BarLength[sink.BarRate], r.GreenOffset, r.BlueOffset)
			deltas++
		}
	}

	if r.NoOfTransfers != rec.NoOfTransfers {
		old := r.BarLength[sink.BarActive]
		r.BarLength[sink.BarActive] = ActiveBar(rec.NoOfTransfers, rec.MaxConnections, g.MaxBarLength)
		r.GreenOffset, r.BlueOffset = ColorOffsets(r.BarLength[sink.BarActive], g.StepSize)
		if r.BarLength[sink.BarActive] != old && bars && visible {
			e.out.Bar(pos, sign(r.BarLength[sink.BarActive]-old), sink.BarActive,
				x+g.XBars, y, r.BarLength[sink.BarActive], r.GreenOffset, r.BlueOffset)
			deltas++
		}
		r.NoOfTransfers = rec.NoOfTransfers
	}

	if r.HostErrorCnt != rec.HostErrorCnt {
		old := r.BarLength[sink.BarError]
		r.BarLength[sink.BarError] = ErrorBar(rec.HostErrorCnt, rec.NoOfHosts, g.MaxBarLength)
		if r.BarLength[sink.BarError] != old && bars && visible {
			e.out.Bar(pos, sign(r.BarLength[sink.BarError]-old), sink.BarError,
				x+g.XBars, y, r.BarLength[sink.BarError], r.GreenOffset, r.BlueOffset)
			deltas++
		}
		r.HostErrorCnt = rec.HostErrorCnt
	}

	// Silent mirror carry-over.
	r.Files = rec.Files
	r.Bytes = rec.Bytes
	r.ConnectionRate = rec.ConnectionRate
	r.JobsInQueue = rec.JobsInQueue
	r.ErrorCount = rec.ErrorCount
	r.LastDataTime = rec.LastDataTime
	r.Hostnames = rec.Hostnames

	return deltas
}

// diffChar updates one formatted cell and emits it when its bytes changed.
func (e *Engine) diffChar(pos int, visible bool, x, y int, tag sink.FieldTag, mirror *string, formatted string) int {
	if *mirror == formatted {
		return 0
	}
	*mirror = formatted
	if !visible {
		return 0
	}
	e.out.Characters(pos, tag, x, y, formatted)
	return 1
}

// advanceBlink flips the phase of every blinking row and repaints the LEDs
// whose value is currently off using the new phase. Returns the number of
// repaints emitted.
func (e *Engine) advanceBlink() int {
	g := &e.store.Geo
	deltas := 0
	for i, r := range e.store.Rows {
		if !r.BlinkFlag {
			continue
		}
		if r.BlinkPhase == BlinkOn {
			r.BlinkPhase = BlinkTrBar
		} else {
			r.BlinkPhase = BlinkOn
		}
		pos := e.store.VisibleIndex(i)
		if pos < 0 {
			continue
		}
		x, y := e.store.LocateXY(pos)
		blinkOff := r.BlinkPhase == BlinkTrBar
		states := [3]msa.SubsystemState{r.AMG, r.FD, r.ArchiveWatch}
		for li, st := range states {
			if st == msa.SubsystemOff {
				e.out.ProcLED(sink.LED(li), int(st), blinkOff, x+g.XLEDs+li, y)
				deltas++
			}
		}
	}
	return deltas
}

// restructure rebuilds the mirror after a site add, remove, or rename.
// Carried rows keep their derived state; vanished selected rows release
// their counter exactly once. Returns the number of deltas emitted.
func (e *Engine) restructure(newN int) int {
	old := e.store.Rows
	oldVisible := e.store.NoOfVisible
	oldW, oldH := e.store.Geo.WindowWidth, e.store.Geo.WindowHeight

	// Longest aligned alias prefix carries over untouched.
	k := 0
	for k < newN && k < len(old) && old[k].Alias == e.src.Site(k).Alias {
		k++
	}

	byAlias := make(map[string]int, len(old))
	for p, r := range old {
		byAlias[r.Alias] = p
	}
	consumed := make([]bool, len(old))

	newRows := make([]*Row, newN)
	lastGroupFold := PlusMinusOpen
	for i := 0; i < newN; i++ {
		if i < k {
			newRows[i] = old[i]
			consumed[i] = true
		} else {
			rec := e.src.Site(i)
			if p, ok := byAlias[rec.Alias]; ok && !consumed[p] {
				// Move the mirror record; members inherit the most recent
				// group's fold, headers keep their own.
				row := old[p]
				consumed[p] = true
				if !row.IsGroup() {
					row.PlusMinus = lastGroupFold
					// Landing under a closed fold releases the selection,
					// same as closing the group would.
					if lastGroupFold == PlusMinusClosed && row.Inverse != InverseOff {
						e.store.clearSelection(row)
					}
				}
				newRows[i] = row
			} else {
				row := e.store.NewRow(rec)
				if !row.IsGroup() {
					row.PlusMinus = lastGroupFold
				}
				newRows[i] = row
			}
		}
		if newRows[i].IsGroup() {
			lastGroupFold = newRows[i].PlusMinus
		}
	}

	// Vanished rows release their selection counters.
	for p, r := range old {
		if !consumed[p] && r.Inverse != InverseOff {
			e.store.clearSelection(r)
		}
	}

	e.store.Rows = newRows
	e.store.RecomputeVisibility()
	e.store.Geo.Compute(e.store.NoOfVisible)
	e.log.Debug("restructure: %d sites, %d visible", newN, e.store.NoOfVisible)

	deltas := 0
	if e.store.Geo.WindowWidth != oldW || e.store.Geo.WindowHeight != oldH {
		e.out.Resize(e.store.Geo.WindowWidth, e.store.Geo.WindowHeight)
	}
	for pos, idx := range e.store.VisiblePositions {
		deltas += e.drawRow(idx, pos)
	}
	for pos := e.store.NoOfVisible; pos < oldVisible; pos++ {
		e.out.BlankLine(pos)
		deltas++
	}
	return deltas
}

// drawRow paints a complete line for the row at site index idx, visible
// position pos. Used at bootstrap and after restructure.
func (e *Engine) drawRow(idx, pos int) int {
	r := e.store.Rows[idx]
	g := &e.store.Geo
	x, y := e.store.LocateXY(pos)
	deltas := 0

	if r.IsGroup() {
		e.out.PlusMinus(pos, x+g.XPlusMinus, y, r.PlusMinus == PlusMinusOpen)
		deltas++
	}
	e.out.Identifier(pos, x+g.XAlias, y, e.identText(r), r.Selected(), int(r.ConnectStatus))
	deltas++
	if r.IsGroup() {
		return deltas
	}

	states := [3]msa.SubsystemState{r.AMG, r.FD, r.ArchiveWatch}
	for li, st := range states {
		e.out.ProcLED(sink.LED(li), int(st), false, x+g.XLEDs+li, y)
		deltas++
	}
	slot := int(r.SysLogEC % msa.LogFifoSize)
	e.out.RemoteLogArc(pos, slot, x+g.XArc, y, r.SysLogFifo[slot])
	deltas++
	for t := 0; t < 3 && g.HistoryLength > 0; t++ {
		for c := 0; c < g.HistoryLength && c < msa.MaxLogHistory; c++ {
			e.out.RemoteHistoryCell(pos, t, c, x+g.XHistory+c, y, r.LogHistory[t][c])
		}
		deltas++
	}

	if g.Style == StyleChars || g.Style == StyleBoth {
		cells := []struct {
			tag sink.FieldTag
			off int
			s   string
		}{
			{sink.FieldFiles, 0, r.StrFiles},
			{sink.FieldBytes, 5, r.StrBytes},
			{sink.FieldRate, 10, r.StrRate},
			{sink.FieldConnRate, 15, r.StrConnRate},
			{sink.FieldErrors, 20, r.StrErrors},
			{sink.FieldQueue, 24, r.StrQueue},
			{sink.FieldTransfers, 29, r.StrTransfers},
			{sink.FieldErrorHosts, 32, r.StrErrorHosts},
		}
		for _, c := range cells {
			e.out.Characters(pos, c.tag, x+g.XChars+c.off, y, c.s)
			deltas++
		}
	}
	if g.Style == StyleBars || g.Style == StyleBoth {
		for _, kind := range []sink.BarKind{sink.BarRate, sink.BarActive, sink.BarError} {
			e.out.Bar(pos, 0, kind, x+g.XBars, y, r.BarLength[kind], r.GreenOffset, r.BlueOffset)
			deltas++
		}
	}
	return deltas
}

// identText builds the identifier cell text, computing the display string
// lazily for rows created before the geometry settled.
func (e *Engine) identText(r *Row) string {
	if r.DisplayString == "" {
		r.DisplayString = FormatDisplayString(r.Alias, r.Toggle, r.SwitchingMode.String(), e.store.Geo.AliasWidth)
	}
	return r.DisplayString
}

// clampRecord normalizes MSA fields outside their enumerated ranges.
func clampRecord(rec *msa.SiteRecord) {
	if rec.SwitchingMode > msa.SwitchUser {
		rec.SwitchingMode = msa.SwitchNone
	}
	if rec.AMG > msa.SubsystemShutdown {
		rec.AMG = msa.SubsystemOff
	}
	if rec.FD > msa.SubsystemShutdown {
		rec.FD = msa.SubsystemOff
	}
	if rec.ArchiveWatch > msa.SubsystemShutdown {
		rec.ArchiveWatch = msa.SubsystemOff
	}
	if rec.ConnectStatus > msa.StatusDisabled {
		rec.ConnectStatus = msa.StatusError
	}
}

func sign(d int) int {
	switch {
	case d > 0:
		return 1
	case d < 0:
		return -1
	default:
		return 0
	}
}
