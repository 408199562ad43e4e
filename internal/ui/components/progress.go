package components

import (
	"fmt"
	"image/color"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

// ProgressBar displays a horizontal bar for a fraction in [0,1].
type ProgressBar struct {
	Label      string
	LabelWidth int
	Fraction   float64
	Suffix     string
	Width      int
	Fill       color.Color
}

// NewProgressBar creates a bar with the default fill color.
func NewProgressBar(label string, fraction float64, width int) ProgressBar {
	return ProgressBar{
		Label:    label,
		Fraction: fraction,
		Width:    width,
		Fill:     theme.Secondary,
	}
}

// Steps returns a bar for done out of total with a "done/total" suffix.
func Steps(label string, done, total, width int) ProgressBar {
	p := NewProgressBar(label, 0, width)
	if total > 0 {
		p.Fraction = float64(done) / float64(total)
	}
	p.Suffix = fmt.Sprintf("%d/%d", done, total)
	return p
}

// View renders the progress bar.
func (p ProgressBar) View() string {
	var result string

	if p.Label != "" {
		label := lipgloss.NewStyle().Foreground(theme.Text)
		if p.LabelWidth > 0 {
			label = label.Width(p.LabelWidth)
		}
		result += label.Render(p.Label) + "  "
	}

	suffix := ""
	if p.Suffix != "" {
		suffix = "  " + p.Suffix
	}

	barWidth := p.Width - lipgloss.Width(result) - lipgloss.Width(suffix)
	if barWidth < 4 {
		barWidth = 4
	}

	filled := int(float64(barWidth) * p.Fraction)
	filled = min(max(filled, 0), barWidth)

	fill := p.Fill
	if fill == nil {
		fill = theme.Secondary
	}
	result += lipgloss.NewStyle().Background(fill).Render(strings.Repeat(" ", filled))
	result += lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", barWidth-filled))

	if suffix != "" {
		result += lipgloss.NewStyle().Foreground(theme.TextDim).Render(suffix)
	}
	return result
}
