package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

// ContentWidth returns the uniform inner width for boxed sections inside
// a frame of the given width.
func ContentWidth(frameWidth, maxWidth int) int {
	// Leave room for frame border (2) + inner padding (4)
	w := frameWidth - 6
	if w > maxWidth {
		w = maxWidth
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Frame wraps content in a double border, centered in the given area.
func Frame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Card wraps content in a rounded-border card at the given content width.
func Card(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw - 2).
		Padding(0, 1).
		Render(content)
}

// Section renders a dim heading over a rule of the given width.
func Section(title string, width int) string {
	rule := lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width, 0)))
	return lipgloss.NewStyle().Foreground(theme.TextDim).Bold(true).Render(title) + "\n" + rule
}
