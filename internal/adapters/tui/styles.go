package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/jjmerchante/cauldron-pool-scheduler/internal/ui/style"
)

var (
	paneIdleStyle = lipgloss.NewStyle().
			Foreground(style.Slate)

	paneActiveStyle = lipgloss.NewStyle().
			Foreground(style.Teal).
			Bold(true)

	selectedStyle = lipgloss.NewStyle().
			Foreground(style.Teal).
			Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(style.Slate).
			Faint(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	okGlyphStyle = lipgloss.NewStyle().
			Foreground(style.Green)

	failGlyphStyle = lipgloss.NewStyle().
			Foreground(style.Red)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Padding(0, 1).
			Background(style.Teal).
			Foreground(style.White)

	listStyle = lipgloss.NewStyle().
			PaddingRight(1)

	logStyle = lipgloss.NewStyle().
			PaddingLeft(1).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(style.Slate)
)
