package summary

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

// RenderResults renders the score header and one card per question with
// the student's answer, score, feedback and model answer.
func RenderResults(r quiz.Results, width int) string {
	cw := components.ContentWidth(width, 96)
	var b strings.Builder

	mean := r.RoundedMean()
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		theme.ScoreStyle(mean).Render(fmt.Sprintf("Score: %d%%", mean))))
	b.WriteString("\n")

	stats := fmt.Sprintf("%d questions   %d correct", len(r.Items), r.CorrectCount())
	if n := r.SkippedCount(); n > 0 {
		stats += fmt.Sprintf("   %d skipped", n)
	}
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(stats)))
	b.WriteString("\n")

	for i, it := range r.Items {
		b.WriteString("\n")
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
			components.Card(renderItem(i, it, cw-4), cw)))
	}
	return b.String()
}

func renderItem(i int, it quiz.Item, w int) string {
	q := it.Question
	dim := lipgloss.NewStyle().Foreground(theme.TextDim)
	label := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)

	score := theme.ScoreStyle(it.Score).Render(fmt.Sprintf("%d/100", it.Score))
	if it.Skipped {
		score = lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("skipped")
	}
	head := label.Render(fmt.Sprintf("Q%d", i+1)) + " " +
		dim.Render(fmt.Sprintf("%s · %s", q.Type.Label(), q.Topic))
	gap := max(w-lipgloss.Width(head)-lipgloss.Width(score), 1)

	parts := []string{
		head + strings.Repeat(" ", gap) + score,
		components.RenderRichText(q.Text, w),
	}

	if q.IsMCQ() {
		o := components.NewOptionList(q.Options)
		if it.Answer != nil && it.Answer.Value.Option != nil {
			o.Choose(*it.Answer.Value.Option)
		}
		o.Revealed = true
		if q.CorrectOptionIndex != nil {
			o.Correct = *q.CorrectOptionIndex
		}
		parts = append(parts, strings.TrimRight(o.View(w), "\n"))
	} else if it.Answer != nil {
		parts = append(parts, label.Render("Your answer"), components.RenderRichText(it.Answer.Value.Text, w))
	}

	if it.Answer != nil && it.Answer.Feedback != "" {
		parts = append(parts, label.Render("Feedback"),
			lipgloss.NewStyle().Foreground(theme.Text).Width(w).Render(it.Answer.Feedback))
	}

	model := q.ModelAnswer
	if it.Answer != nil && it.Answer.ModelAnswer != "" {
		model = it.Answer.ModelAnswer
	}
	if model != "" {
		parts = append(parts, label.Render("Model answer"), components.RenderRichText(model, w))
	}
	return strings.Join(parts, "\n")
}
