// Package console is the interactive terminal front end: a Bubble Tea
// model that owns the diff engine, the monitor watchdog, and the action
// dispatcher, and renders the cell grid they paint into.
package console

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/holger24/AFD-sub001/internal/config"
	"github.com/holger24/AFD-sub001/internal/dispatch"
	"github.com/holger24/AFD-sub001/internal/display"
	"github.com/holger24/AFD-sub001/internal/logger"
	"github.com/holger24/AFD-sub001/internal/sink"
	"github.com/holger24/AFD-sub001/internal/util"
	"github.com/holger24/AFD-sub001/internal/watchdog"
)

// Refresher remaps the MSA when the collector rewrites it. *msa.Reader
// implements it; tests run without one.
type Refresher interface {
	Refresh() (resized bool, n int, err error)
}

// Model is the Bubble Tea model for the monitoring console.
type Model struct {
	cfg       config.Config
	store     *display.Store
	engine    *display.Engine
	grid      *sink.Grid
	wd        *watchdog.Watchdog
	disp      *dispatch.Dispatcher
	refresher Refresher
	log       logger.Logger

	cursor    int
	width     int
	height    int
	searching bool
	search    textinput.Model
	showHelp  bool
	statusMsg string
	quitting  bool
}

// lineTickMsg drives the diff engine at its adaptive period.
type lineTickMsg time.Time

// monTickMsg drives the watchdog at its own adaptive period.
type monTickMsg time.Time

// pingResultMsg carries one finished ping probe back to the loop. The
// burst blocks for seconds, so it runs as a command, never inline.
type pingResultMsg struct {
	host string
	line string
	err  error
}

// New wires the console from its collaborators. src feeds the engine,
// toggler and oracle feed the dispatcher, refresher may be nil when the
// MSA cannot grow underneath us (tests).
func New(cfg config.Config, src display.Provider, refresher Refresher, toggler dispatch.Toggler, oracle dispatch.Oracle, log logger.Logger) *Model {
	if log == nil {
		log = logger.Noop()
	}
	geo := display.NewGeometry(display.ParseLineStyle(cfg.Style), cfg.HistoryLength, cfg.Rows)
	store := display.NewStore(geo)
	grid := sink.NewGrid(geo.LineLength, cfg.Rows)

	table := dispatch.NewTable(log)
	disp := dispatch.NewDispatcher(store, toggler, table, &dispatch.ExecSpawner{WorkDir: cfg.WorkDir}, oracle, cfg.FifoDir(), log)

	engine := display.NewEngine(src, store, grid, table, log)
	engine.Min = cfg.Pacing.Min
	engine.Step = cfg.Pacing.Step
	engine.Max = cfg.Pacing.Max

	wd := watchdog.New(cfg.StatusPath(), cfg.ActivePath(), grid, log)

	search := textinput.New()
	search.Prompt = "find host: "
	search.Placeholder = "alias or hostname"
	search.CharLimit = 64

	m := &Model{
		cfg:       cfg,
		store:     store,
		engine:    engine,
		grid:      grid,
		wd:        wd,
		disp:      disp,
		refresher: refresher,
		log:       log,
		search:    search,
	}

	engine.Bootstrap()
	m.applySetup()
	m.relayout()
	return m
}

// applySetup folds the groups the operator had closed when the console
// last saved its setup.
func (m *Model) applySetup() {
	setup, err := config.LoadSetup(m.cfg.SetupPath())
	if err != nil {
		m.log.Warn("setup not loaded: %v", err)
		return
	}
	changed := false
	for _, alias := range setup.ClosedGroupList() {
		i := m.store.FindByAlias(alias)
		if i >= 0 && m.store.Rows[i].IsGroup() && m.store.Rows[i].PlusMinus == display.PlusMinusOpen {
			m.store.ToggleGroup(i)
			changed = true
		}
	}
	if changed {
		m.engine.Redraw()
	}
}

// saveSetup persists the fold state for the next session.
func (m *Model) saveSetup() {
	if !m.cfg.AutoSave {
		return
	}
	var closed []string
	for _, r := range m.store.Rows {
		if r.IsGroup() && r.PlusMinus == display.PlusMinusClosed {
			closed = append(closed, r.Alias)
		}
	}
	setup := &config.Setup{
		Style:         m.cfg.Style,
		HistoryLength: m.cfg.HistoryLength,
		Rows:          m.cfg.Rows,
	}
	setup.SetClosedGroups(closed)
	if err := setup.SaveSetup(m.cfg.SetupPath()); err != nil {
		m.log.Warn("setup not saved: %v", err)
	}
}

// relayout rewires the grid placement and repaints the chrome after the
// geometry settled.
func (m *Model) relayout() {
	geo := &m.store.Geo
	m.grid.SetLayout(m.store.LocateXY, geo.LineLength, geo.MaxBarLength)
	m.grid.LabelLine(labelText(geo))
	m.paintButtonLine()
	m.clampCursor()
	m.paintCursor(true)
	m.grid.Flush()
}

// labelText builds the column label bar for the active line style. Every
// header is placed at the x-offset of the cell it names, so the bar
// stays aligned whatever the history length is.
func labelText(geo *display.Geometry) string {
	buf := make([]rune, geo.LineLength)
	for i := range buf {
		buf[i] = ' '
	}
	put := func(x int, s string) {
		for i, r := range s {
			if x+i < len(buf) {
				buf[x+i] = r
			}
		}
	}
	put(geo.XAlias, "alias")
	put(geo.XLEDs, "afw") // one column per subsystem light
	put(geo.XArc, "lg")
	if geo.HistoryLength >= 3 {
		put(geo.XHistory, "his")
	}
	if geo.Style == display.StyleChars || geo.Style == display.StyleBoth {
		for i, h := range charHeaders {
			put(geo.XChars+display.CharFieldX[i], h)
		}
	}
	return strings.TrimRight(string(buf), " ")
}

// charHeaders name the counter cells in the diff engine's emission order.
var charHeaders = [8]string{"fc", "fs", "tr", "fr", "ec", "jq", "tn", "te"}

func (m *Model) paintButtonLine() {
	n := len(m.store.Rows)
	m.grid.ButtonLine(fmt.Sprintf("%d %s  %d selected",
		n, util.Pluralize(n, "site", "sites"), m.store.SelectionCount()))
}

// Init arms both tick loops. The watchdog's marker watch starts here so
// a failed Start only costs the fsnotify shortcut, not the console.
func (m *Model) Init() tea.Cmd {
	m.wd.Start()
	return tea.Batch(
		m.lineTickCmd(m.engine.Period()),
		m.monTickCmd(m.wd.Period()),
	)
}

// Update handles messages and advances the console state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.searching {
			return m, m.handleSearchKey(msg)
		}
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		rows := msg.Height - 3
		if rows < 1 {
			rows = 1
		}
		m.store.Geo.RowsSet = rows
		m.engine.Redraw()
		m.relayout()

	case lineTickMsg:
		if m.quitting {
			return m, nil
		}
		if m.refresher != nil {
			if _, _, err := m.refresher.Refresh(); err != nil {
				m.grid.Error(err.Error())
				m.log.Warn("msa refresh: %v", err)
			}
		}
		res := m.engine.Tick(time.Time(msg))
		if res.Restructured {
			m.relayout()
		} else if res.Deltas > 0 {
			m.paintCursor(true)
		}
		return m, m.lineTickCmd(res.Next)

	case monTickMsg:
		if m.quitting {
			return m, nil
		}
		res := m.wd.Tick(time.Time(msg))
		return m, m.monTickCmd(res.Next)

	case pingResultMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Ping to %s failed: %v", msg.host, msg.err)
		} else {
			m.statusMsg = msg.line
		}
		m.paintButtonLine()
		m.grid.Flush()
	}

	return m, nil
}

// lineTickCmd re-arms the engine tick for the period the last tick chose.
func (m *Model) lineTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return lineTickMsg(t)
	})
}

// monTickCmd re-arms the watchdog tick.
func (m *Model) monTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return monTickMsg(t)
	})
}

// quit tears the console down: sweep spawned viewers, stop the marker
// watch, persist the fold state.
func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.disp.Table().Sweep()
	m.wd.Close()
	m.saveSetup()
	return tea.Quit
}

// cursorRow returns the site index under the cursor, or -1.
func (m *Model) cursorRow() int {
	if m.cursor < 0 || m.cursor >= len(m.store.VisiblePositions) {
		return -1
	}
	return m.store.VisiblePositions[m.cursor]
}

func (m *Model) clampCursor() {
	if m.cursor >= m.store.NoOfVisible {
		m.cursor = m.store.NoOfVisible - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// paintCursor paints or clears the marker in the frame column of the
// cursor's line.
func (m *Model) paintCursor(on bool) {
	if m.store.NoOfVisible == 0 {
		return
	}
	x, y := m.store.LocateXY(m.cursor)
	marker := " "
	if on {
		marker = ">"
	}
	m.grid.Characters(m.cursor, 0, x, y, marker)
}

// moveCursor relocates the marker and keeps it inside the visible range.
func (m *Model) moveCursor(to int) {
	if to < 0 || to >= m.store.NoOfVisible {
		return
	}
	m.paintCursor(false)
	m.cursor = to
	m.paintCursor(true)
	m.grid.Flush()
}

// dispatchAction runs one operator action against the current selection
// and repaints whatever it touched. Ping probes come back as commands;
// everything else finishes inside the call.
func (m *Model) dispatchAction(a dispatch.Action) tea.Cmd {
	res := m.disp.Dispatch(a)
	for _, i := range res.Affected {
		m.engine.RepaintIdentifier(i)
	}
	switch {
	case len(res.Errs) > 0:
		m.statusMsg = fmt.Sprintf("%s: %v", a, res.Errs[0])
	case len(res.Pings) > 0:
		m.statusMsg = fmt.Sprintf("pinging %s ...", res.Pings[0])
	case len(res.Messages) > 0:
		m.statusMsg = res.Messages[0]
	default:
		m.statusMsg = fmt.Sprintf("%s sent", a)
	}
	m.paintButtonLine()
	m.grid.Flush()
	return m.pingCmds(res.Pings)
}

// pingCmds turns the hosts a dispatch selected into background probes.
func (m *Model) pingCmds(hosts []string) tea.Cmd {
	if len(hosts) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, len(hosts))
	for i, host := range hosts {
		host := host
		cmds[i] = func() tea.Msg {
			line, err := m.disp.Ping(host)
			return pingResultMsg{host: host, line: line, err: err}
		}
	}
	return tea.Batch(cmds...)
}

// startSearch opens the hostname search prompt.
func (m *Model) startSearch() {
	m.searching = true
	m.search.Reset()
	m.search.Focus()
}

// handleSearchKey consumes keys while the search prompt is open.
func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEscape:
		m.searching = false
		m.search.Blur()
		return nil
	case tea.KeyEnter:
		m.searching = false
		m.search.Blur()
		m.jumpToHost(m.search.Value())
		return nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	return cmd
}

// jumpToHost finds a site by alias or active hostname, moves the cursor
// there, and selects it transiently.
func (m *Model) jumpToHost(name string) {
	if name == "" {
		return
	}
	i := m.store.FindByAlias(name)
	if i < 0 {
		i = m.store.FindByHostname(name)
	}
	if i < 0 {
		m.statusMsg = fmt.Sprintf("%q not found", name)
		return
	}
	pos := m.store.VisibleIndex(i)
	if pos < 0 {
		m.statusMsg = fmt.Sprintf("%q is folded away", name)
		return
	}
	m.moveCursor(pos)
	if m.store.Rows[i].Inverse == display.InverseOff {
		m.store.ToggleSelect(i, false)
		m.engine.RepaintIdentifier(i)
		m.paintButtonLine()
		m.grid.Flush()
	}
	m.statusMsg = ""
}
