package console

import (
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/holger24/AFD-sub001/internal/sink"
)

// Footer styles.
var (
	footerStyle = lipgloss.NewStyle().
			Foreground(sink.ColorMuted).
			Padding(0, 1)

	errorStyle = lipgloss.NewStyle().
			Foreground(sink.ColorError).
			Padding(0, 1)

	searchStyle = lipgloss.NewStyle().
			Foreground(sink.ColorText).
			Background(sink.ColorFrame).
			Padding(0, 1)
)

// errorHold is how long an operator message stays in the footer.
const errorHold = 30 * time.Second

// View renders the grid plus one footer line.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}

	var b strings.Builder
	b.WriteString(m.grid.Render())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

// renderFooter shows, in priority order: the search prompt, the latest
// sink error, the last dispatch message, or the key hints.
func (m *Model) renderFooter() string {
	if m.searching {
		return searchStyle.Render(m.search.View())
	}
	if msg, at := m.grid.LastError(); msg != "" && time.Since(at) < errorHold {
		return errorStyle.Render(msg)
	}
	if m.statusMsg != "" {
		return footerStyle.Render(m.statusMsg)
	}
	hints := []string{
		"q quit",
		"space select",
		"r retry",
		"s switch",
		"/ find",
		"? help",
	}
	return footerStyle.Render(strings.Join(hints, " | "))
}
