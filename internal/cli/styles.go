package cli

import "github.com/charmbracelet/lipgloss"

var (
	colorPrimary = lipgloss.Color("#6C63FF")
	colorMuted   = lipgloss.Color("#666666")
	colorSuccess = lipgloss.Color("#2ECC71")
	colorWarning = lipgloss.Color("#F39C12")
	colorError   = lipgloss.Color("#E74C3C")
	colorSubtle  = lipgloss.Color("#414868")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	idStyle = lipgloss.NewStyle().
		Foreground(colorMuted).
		Width(5).
		Align(lipgloss.Right)

	titleStyle = lipgloss.NewStyle().Bold(true)

	doneTitleStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Strikethrough(true)

	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)
	warningStyle = lipgloss.NewStyle().Foreground(colorWarning)
	errorStyle   = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Width(16)
)

// badgeStyle paints a category name with its stored colors.
func badgeStyle(bg, fg string) lipgloss.Style {
	s := lipgloss.NewStyle().Padding(0, 1)
	if bg != "" {
		s = s.Background(lipgloss.Color(bg))
	}
	if fg != "" {
		s = s.Foreground(lipgloss.Color(fg))
	}
	return s
}

// rateStyle colors a completion percentage.
func rateStyle(rate float64) lipgloss.Style {
	switch {
	case rate >= 80:
		return successStyle
	case rate >= 50:
		return warningStyle
	default:
		return errorStyle
	}
}
