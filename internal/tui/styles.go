package tui

import "github.com/charmbracelet/lipgloss"

// Lipgloss styles used across views.
var (
	styleError = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleInfo  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")) // blue
	styleDim   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))  // gray
	styleStar  = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow

	styleSelected = lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true) // cyan bold
	styleActive   = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Bold(true)

	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("5"))

	styleTab = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("8"))

	styleTabActive = styleTab.
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("5")).
			Bold(true)

	styleFooter = lipgloss.NewStyle().
			BorderTop(true).
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("8")).
			Foreground(lipgloss.Color("8"))
)
