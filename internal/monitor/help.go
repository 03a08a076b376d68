package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	helpBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Padding(1, 2)

	helpTitleStyle = lipgloss.NewStyle().
			Foreground(ColorAccent).
			Bold(true).
			MarginBottom(1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true).
			Width(14)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)
)

// renderHelpOverlay renders a centered box listing every key binding and
// what the chart shows.
func (m Model) renderHelpOverlay() string {
	var lines []string
	lines = append(lines, helpTitleStyle.Render("Keyboard Shortcuts"))

	for _, group := range m.keys.FullHelp() {
		for _, b := range group {
			lines = append(lines, helpKeyStyle.Render(b.Help().Key)+helpDescStyle.Render(b.Help().Desc))
		}
	}

	lines = append(lines, "")
	lines = append(lines, helpKeyStyle.Render("✗")+helpDescStyle.Render("lost probe (timeout or error)"))
	lines = append(lines, helpKeyStyle.Render("loss")+helpDescStyle.Render("over the whole run, not just the chart"))
	lines = append(lines, "")
	lines = append(lines, LabelStyle.Render("Press ? to close"))

	return lipgloss.Place(
		m.width,
		m.height,
		lipgloss.Center,
		lipgloss.Center,
		helpBoxStyle.Render(strings.Join(lines, "\n")),
		lipgloss.WithWhitespaceChars(" "),
	)
}
