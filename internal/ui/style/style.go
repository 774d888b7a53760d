// Package style holds the color palette and glyphs shared by the
// poolsched terminal surfaces: the log handler and the pool monitor.
package style

import "github.com/charmbracelet/lipgloss"

// Palette.
var (
	// Teal is the accent for active elements.
	Teal  = lipgloss.Color("#0E9AA7")
	Slate = lipgloss.Color("#667085")
	White = lipgloss.Color("#FFFFFF")

	// Green and Red mark finished runs; Yellow marks warnings and
	// parked tokens.
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Glyphs.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)
