package console

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/holger24/AFD-sub001/internal/sink"
)

// HelpBinding represents a single keyboard shortcut entry.
type HelpBinding struct {
	Key  string
	Desc string
}

// helpBindings defines the shortcuts shown in the help overlay.
var helpBindings = []HelpBinding{
	{Key: "q / Ctrl+C", Desc: "Quit"},
	{Key: "up/k down/j", Desc: "Move the cursor"},
	{Key: "Space", Desc: "Select site / fold group"},
	{Key: "x", Desc: "Select site (sticky)"},
	{Key: "v", Desc: "Select range up to cursor"},
	{Key: "Esc", Desc: "Drop transient selections"},
	{Key: "Enter", Desc: "Fold / unfold group"},
	{Key: "O / C", Desc: "Open / close all groups"},
	{Key: "r", Desc: "Retry selected sites"},
	{Key: "s", Desc: "Switch host pair"},
	{Key: "e / d", Desc: "Enable / disable monitoring"},
	{Key: "i", Desc: "Site information"},
	{Key: "p / t", Desc: "Ping / traceroute"},
	{Key: "l / L", Desc: "System / event log"},
	{Key: "a", Desc: "Remote control panel"},
	{Key: "/", Desc: "Find site by hostname"},
	{Key: "?", Desc: "Toggle this help"},
}

// Help overlay styles
var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(sink.ColorSelected).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(sink.ColorText).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(sink.ColorText).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(sink.ColorMuted)
)

// renderHelpOverlay renders a centered help box with keyboard shortcuts.
func (m *Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))
	lines = append(lines, "")

	for _, binding := range helpBindings {
		lines = append(lines, helpKeyStyle.Render(binding.Key)+helpDescStyle.Render(binding.Desc))
	}

	lines = append(lines, "")
	lines = append(lines, helpDescStyle.Render("Press ? to close"))

	box := helpBoxStyle.Render(strings.Join(lines, "\n"))

	w, h := m.width, m.height
	if w < 1 {
		w = m.grid.Width()
	}
	if h < 1 {
		h = m.grid.Height()
	}
	return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
}
