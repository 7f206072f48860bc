package cli

import "github.com/charmbracelet/lipgloss"

var (
	accent = lipgloss.Color("205")
	green  = lipgloss.Color("78")
	red    = lipgloss.Color("196")
	subtle = lipgloss.Color("241")

	bannerStyle = lipgloss.NewStyle().
			Foreground(accent).
			Bold(true).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 2)

	successStyle = lipgloss.NewStyle().Foreground(green).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(red).Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(subtle)
	headerStyle  = lipgloss.NewStyle().Foreground(accent).Bold(true)
)

const bannerText = `KATANA
Automated PC game benchmarking`

func banner() string {
	return bannerStyle.Render(bannerText)
}
