// Package style provides shared UI styling primitives including brand colors
// and icons for consistent visual presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Cross   = "✗"
	Warning = "!"
)

// StatusWidth is the column width of the verb in front of progress lines.
const StatusWidth = 12

// StatusVerb right-aligns verb so that progress lines share one column.
func StatusVerb(verb string) string {
	return lipgloss.PlaceHorizontal(StatusWidth, lipgloss.Right, verb)
}
