/* pkg/popup/styles.go */

package popup

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Common color palette for consistent styling
var (
	ColorPrimary    = lipgloss.Color("#00ffff") // Cyan
	ColorSuccess    = lipgloss.Color("#00ff00") // Green
	ColorError      = lipgloss.Color("#ff0000") // Red
	ColorInfo       = lipgloss.Color("#0099ff") // Blue
	ColorMuted      = lipgloss.Color("#666666") // Gray
	ColorBackground = lipgloss.Color("#1a1a2e") // Dark blue
	ColorBorder     = lipgloss.Color("#3d5a80") // Medium blue
)

// Styles groups every style the popup renders with.
type Styles struct {
	Title    lipgloss.Style
	Password lipgloss.Style
	Panel    lipgloss.Style
	Focused  lipgloss.Style

	Primary lipgloss.Style
	Success lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style

	Selected lipgloss.Style
	Button   lipgloss.Style
	Active   lipgloss.Style
	Footer   lipgloss.Style
}

// NewStyles creates the default popup styles.
func NewStyles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Background(ColorBackground).
			Padding(0, 1).
			MarginBottom(1),

		Password: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			Bold(true),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginTop(1),

		Focused: lipgloss.NewStyle().
			BorderStyle(lipgloss.DoubleBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1).
			MarginTop(1),

		Primary: lipgloss.NewStyle().
			Foreground(ColorPrimary).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(ColorSuccess),

		Error: lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(ColorMuted),

		Selected: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#000000")).
			Bold(true),

		Button: lipgloss.NewStyle().
			Background(ColorBorder).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			MarginRight(1),

		// settings button while the panel is shown
		Active: lipgloss.NewStyle().
			Background(ColorPrimary).
			Foreground(lipgloss.Color("#000000")).
			Padding(0, 2).
			MarginRight(1),

		Footer: lipgloss.NewStyle().
			Foreground(ColorMuted).
			MarginTop(1),
	}
}

// Toggle renders one checkbox line of the settings panel.
func (s Styles) Toggle(label string, on, selected bool) string {
	box := "[ ]"
	if on {
		box = s.Success.Render("[x]")
	}
	line := fmt.Sprintf("%s %s", box, label)
	if selected {
		return s.Selected.Render("> " + line)
	}
	return "  " + line
}

// Buttons renders the generate and settings buttons side by side.
func (s Styles) Buttons(settingsActive bool) string {
	settings := s.Button
	if settingsActive {
		settings = s.Active
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		s.Button.Render("Generate ⏎"),
		settings.Render("Settings (s)"),
	)
}
