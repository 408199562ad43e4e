package home

import (
	"fmt"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/screens/welcome"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

const titleCompact = "c · m · a · s · t · e · r"

func centered(s string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(s)
}

// renderTitle returns the banner or the compact fallback.
func renderTitle(width, cw int, compact bool) string {
	if compact {
		return centered(lipgloss.NewStyle().
			Foreground(theme.Highlight).
			Bold(true).
			Render(titleCompact), cw)
	}
	return centered(welcome.RenderBanner(width), cw)
}

// renderStatsBar renders quizzes taken, the average score and the weakest
// topic in a double-bordered box.
func renderStatsBar(p profile.UserProfile, cw int, compact bool) string {
	quizStyle := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
	avgStyle := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	weakStyle := lipgloss.NewStyle().Foreground(theme.Error)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	avg := "--"
	if p.TotalQuizzes > 0 {
		avg = fmt.Sprintf("%.0f%%", p.AverageScore)
	}

	weak := dimStyle.Render("no weak topics")
	if w := profile.WeakTopics(p, 1); len(w) > 0 {
		weak = weakStyle.Render("weakest: " + w[0])
	}

	var stats string
	if compact {
		stats = fmt.Sprintf("%s  %s",
			quizStyle.Render(fmt.Sprintf("%d quizzes", p.TotalQuizzes)),
			avgStyle.Render("avg "+avg))
	} else {
		stats = fmt.Sprintf("%s   %s\n%s",
			quizStyle.Render(fmt.Sprintf("%d QUIZZES", p.TotalQuizzes)),
			avgStyle.Render("AVERAGE "+avg),
			weak)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Secondary).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// renderLLMBanner warns that quizzes cannot start without a provider.
func renderLLMBanner(cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.Accent).
		Width(cw).
		Align(lipgloss.Center).
		Render("⚠ Set an LLM API key to start a quiz (see cmaster --help)")
}

func renderHint(hint string, cw int) string {
	return lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Italic(true).
		Width(cw).
		Align(lipgloss.Center).
		Render(hint)
}
