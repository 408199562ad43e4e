// Package layout draws the chrome around every screen: a header bar with
// the quiz-taker's running stats, a footer of key hints, and the frame
// that stacks them around the active screen's content.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24

	HeaderHeight = 3
	FooterHeight = 3

	CompactWidthThreshold  = 100
	CompactHeightThreshold = 30
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// HeaderStats is the profile summary shown on the right of the header.
type HeaderStats struct {
	Quizzes int
	Average float64
	// Weakest is the topic with the most weak answers, empty when none.
	Weakest string
}

// IsCompactWidth returns true if the terminal width is in compact range.
func IsCompactWidth(width int) bool {
	return width < CompactWidthThreshold
}

// IsCompactHeight returns true if the terminal height is in compact range.
func IsCompactHeight(height int) bool {
	return height < CompactHeightThreshold
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage asks the user to grow the terminal.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The quiz needs at least %d x %d.\n\nCurrent size: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader renders the application header bar. On narrow terminals the
// weakest topic is dropped first.
func RenderHeader(title string, stats HeaderStats, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Highlight).Bold(true).Render("  cmaster")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	segments := []string{
		lipgloss.NewStyle().Foreground(theme.Secondary).Render(fmt.Sprintf("%d quizzes", stats.Quizzes)),
		lipgloss.NewStyle().Foreground(theme.Accent).Render(averageLabel(stats)),
	}
	if stats.Weakest != "" && !IsCompactWidth(width) {
		segments = append(segments,
			lipgloss.NewStyle().Foreground(theme.Warning).Render("weak: "+stats.Weakest))
	}
	sep := lipgloss.NewStyle().Foreground(theme.TextDim).Render(" · ")
	right := strings.Join(segments, sep) + "  "

	return bar.Width(width).Render(spread(brand, center, right, width-4))
}

func averageLabel(stats HeaderStats) string {
	if stats.Quizzes == 0 {
		return "avg --"
	}
	return fmt.Sprintf("avg %.0f%%", stats.Average)
}

// spread centers mid between left and right within width cells, keeping at
// least one space on either side.
func spread(left, mid, right string, width int) string {
	lw, mw, rw := lipgloss.Width(left), lipgloss.Width(mid), lipgloss.Width(right)
	leftGap := max((width-mw)/2-lw, 1)
	rightGap := max(width-lw-leftGap-mw-rw, 1)
	return left + strings.Repeat(" ", leftGap) + mid + strings.Repeat(" ", rightGap) + right
}

// RenderFooter renders the key hints. Hints that do not fit in width are
// dropped from the end.
func RenderFooter(hints []KeyHint, width int) string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	room := width - 6
	var b strings.Builder
	b.WriteString("  ")
	for i, h := range hints {
		part := keyStyle.Render(h.Key) + " " + descStyle.Render(h.Description)
		if i > 0 {
			part = "   " + part
		}
		if lipgloss.Width(b.String())+lipgloss.Width(part) > room {
			break
		}
		b.WriteString(part)
	}
	return bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving the content
// whatever height the bars leave.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(contentHeight).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
