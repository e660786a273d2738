package console

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/holger24/AFD-sub001/internal/dispatch"
)

// Key bindings as constants for consistency.
const (
	KeyQuit        = "q"
	KeyQuitAlt     = "ctrl+c"
	KeySelectPrev  = "up"
	KeySelectPrevK = "k"
	KeySelectNext  = "down"
	KeySelectNextJ = "j"
	KeySelectFirst = "home"
	KeySelectLast  = "end"
	KeyToggle      = " "
	KeyToggleStick = "x"
	KeyRangeSelect = "v"
	KeyDeselect    = "esc"
	KeyFold        = "enter"
	KeyOpenAll     = "O"
	KeyCloseAll    = "C"
	KeySearch      = "/"
	KeyToggleHelp  = "?"

	KeyRetry      = "r"
	KeySwitch     = "s"
	KeyEnable     = "e"
	KeyDisable    = "d"
	KeyInfo       = "i"
	KeyPing       = "p"
	KeyTraceroute = "t"
	KeySysLog     = "l"
	KeyEventLog   = "L"
	KeyControl    = "a"
	KeyQueue      = "Q"
	KeyLoadViews  = "w"
)

// actionKeys maps action keys to dispatched actions. The remaining
// actions ride on the command palette in the cli package.
var actionKeys = map[string]dispatch.Action{
	KeyRetry:      dispatch.ActionRetry,
	KeySwitch:     dispatch.ActionSwitch,
	KeyEnable:     dispatch.ActionEnable,
	KeyDisable:    dispatch.ActionDisable,
	KeyInfo:       dispatch.ActionInfo,
	KeyPing:       dispatch.ActionPing,
	KeyTraceroute: dispatch.ActionTraceroute,
	KeySysLog:     dispatch.ActionSysLog,
	KeyEventLog:   dispatch.ActionEventLog,
	KeyControl:    dispatch.ActionControlPanel,
	KeyQueue:      dispatch.ActionQueue,
	KeyLoadViews:  dispatch.ActionLoadViews,
}

// HandleKeyMsg processes keyboard input. Returns true if the key was
// handled, false otherwise.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	key := msg.String()

	if key == KeyToggleHelp {
		m.showHelp = !m.showHelp
		return true, nil
	}
	if m.showHelp && key == KeyDeselect {
		m.showHelp = false
		return true, nil
	}

	if a, ok := actionKeys[key]; ok {
		return true, m.dispatchAction(a)
	}

	switch key {
	case KeyQuit, KeyQuitAlt:
		return true, m.quit()

	case KeySelectPrev, KeySelectPrevK:
		m.moveCursor(m.cursor - 1)
		return true, nil

	case KeySelectNext, KeySelectNextJ:
		m.moveCursor(m.cursor + 1)
		return true, nil

	case KeySelectFirst:
		m.moveCursor(0)
		return true, nil

	case KeySelectLast:
		m.moveCursor(m.store.NoOfVisible - 1)
		return true, nil

	case KeyToggle:
		m.toggleAtCursor(false)
		return true, nil

	case KeyToggleStick:
		m.toggleAtCursor(true)
		return true, nil

	case KeyRangeSelect:
		if i := m.cursorRow(); i >= 0 {
			m.store.RangeSelect(i)
			m.engine.Redraw()
			m.relayout()
		}
		return true, nil

	case KeyDeselect:
		for _, i := range m.store.ClearTransient() {
			m.engine.RepaintIdentifier(i)
		}
		m.paintButtonLine()
		m.grid.Flush()
		return true, nil

	case KeyFold:
		if i := m.cursorRow(); i >= 0 && m.store.Rows[i].IsGroup() {
			m.store.ToggleGroup(i)
			m.engine.Redraw()
			m.relayout()
		}
		return true, nil

	case KeyOpenAll:
		m.store.OpenAll()
		m.engine.Redraw()
		m.relayout()
		return true, nil

	case KeyCloseAll:
		m.store.CloseAll()
		m.engine.Redraw()
		m.relayout()
		return true, nil

	case KeySearch:
		m.startSearch()
		return true, nil
	}

	return false, nil
}

// toggleAtCursor flips the selection of the row under the cursor, or the
// fold when the cursor sits on a group header.
func (m *Model) toggleAtCursor(static bool) {
	i := m.cursorRow()
	if i < 0 {
		return
	}
	if m.store.Rows[i].IsGroup() {
		m.store.ToggleGroup(i)
		m.engine.Redraw()
		m.relayout()
		return
	}
	m.store.ToggleSelect(i, static)
	m.engine.RepaintIdentifier(i)
	m.paintButtonLine()
	m.grid.Flush()
}
