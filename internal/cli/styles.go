package cli

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/rollcall/internal/store"
)

// Color palette
var (
	colorPrimary   = lipgloss.Color("#6C63FF")
	colorMuted     = lipgloss.Color("#666666")
	colorSuccess   = lipgloss.Color("#2ECC71")
	colorWarning   = lipgloss.Color("#F39C12")
	colorError     = lipgloss.Color("#E74C3C")
	colorFg        = lipgloss.Color("#C0CAF5")
	colorSubtle    = lipgloss.Color("#414868")
	colorHighlight = lipgloss.Color("#7AA2F7")
)

// Styles
var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorFg)

	headingStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

	successStyle = lipgloss.NewStyle().
			Foreground(colorSuccess)

	warningStyle = lipgloss.NewStyle().
			Foreground(colorWarning)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	highlightStyle = lipgloss.NewStyle().
			Foreground(colorHighlight)
)

// statusStyle colors an attendance status.
func statusStyle(s *store.Status) lipgloss.Style {
	if s == nil {
		return mutedStyle
	}
	switch *s {
	case store.StatusPresent:
		return successStyle
	case store.StatusAbsent:
		return errorStyle
	case store.StatusHoliday:
		return warningStyle
	default:
		return mutedStyle
	}
}

func statusLabel(s *store.Status) string {
	if s == nil {
		return statusStyle(s).Render("unmarked")
	}
	return statusStyle(s).Render(string(*s))
}

func colorDot(color string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// targetStyle is green when at or above target and red below it.
func targetStyle(meets bool) lipgloss.Style {
	if meets {
		return successStyle
	}
	return errorStyle
}
