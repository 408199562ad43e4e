package session

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/screens/summary"
	sess "github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

func (s *SessionScreen) View(width, height int) string {
	if width != s.width && s.snap.Question != nil && !s.snap.Question.IsMCQ() {
		s.width = width
		s.answer.SetWidth(s.inputWidth())
	}
	s.width = width
	s.height = height

	switch s.snap.Phase {
	case sess.PhaseLoading:
		return s.renderWaiting(width, height, "Generating your quiz...")
	case sess.PhaseQuiz:
		return s.renderQuestionView(width, height)
	case sess.PhaseGrading:
		return s.renderWaiting(width, height, "Grading your answers...")
	case sess.PhaseResults:
		return s.renderResults(width, height)
	default:
		return s.renderConfig(width, height)
	}
}

func (s *SessionScreen) renderConfig(width, height int) string {
	cw := components.ContentWidth(width, 72)
	parts := []string{s.form.view(cw)}
	if msg := s.errorLine(); msg != "" {
		parts = append(parts, msg)
	}
	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, "\n\n"))
	out, _ := components.Viewport(content, max(s.form.row-height/2, 0), height)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
}

// errorLine renders the screen notice, or else the session's last error.
func (s *SessionScreen) errorLine() string {
	msg := s.notice
	if msg == "" {
		msg = s.snap.Error
	}
	if msg == "" {
		return ""
	}
	return lipgloss.NewStyle().Foreground(theme.Error).Render("⚠ " + msg)
}

func (s *SessionScreen) renderWaiting(width, height int, label string) string {
	spin := lipgloss.NewStyle().Foreground(theme.Highlight).
		Render(spinnerFrames[s.frame%len(spinnerFrames)])
	text := lipgloss.NewStyle().Foreground(theme.Text).Render(label)

	detail := ""
	switch s.snap.Phase {
	case sess.PhaseLoading:
		c := s.snap.Config
		detail = fmt.Sprintf("%d MCQ · %d short · %d long · %s", c.MCQCount, c.ShortCount, c.LongCount, c.Difficulty)
	case sess.PhaseGrading:
		detail = fmt.Sprintf("%d answers submitted", s.snap.Answered)
	}
	block := spin + " " + text + "\n\n" +
		lipgloss.NewStyle().Foreground(theme.TextDim).Render(detail)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, block)
}

// renderQuestionView renders the active question display.
func (s *SessionScreen) renderQuestionView(width, height int) string {
	q := s.snap.Question
	if q == nil {
		return ""
	}
	cw := components.ContentWidth(width, 96)

	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("Question %d/%d · %s", s.snap.Index+1, s.snap.Total, q.Type.Label()))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(q.Topic)
	gap := max(cw-lipgloss.Width(infoLeft)-lipgloss.Width(infoRight), 1)
	b.WriteString(infoLeft + strings.Repeat(" ", gap) + infoRight)
	b.WriteString("\n")
	b.WriteString(components.Steps("", s.snap.Answered, s.snap.Total, cw).View())
	b.WriteString("\n\n")

	b.WriteString(components.RenderRichText(q.Text, cw))
	b.WriteString("\n\n")

	if q.IsMCQ() {
		b.WriteString(s.options.View(cw))
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("Select with 1-4 / A-D, or arrows + Enter"))
	} else {
		b.WriteString(s.answer.View())
	}
	b.WriteString("\n\n")

	label := "Next ▸"
	if s.snap.IsLast() {
		label = "Finish ▸"
	}
	b.WriteString(components.InlineButton(label, s.hasInput()))
	if msg := s.errorLine(); msg != "" {
		b.WriteString("\n\n")
		b.WriteString(msg)
	}

	content := lipgloss.NewStyle().Width(cw).Render(b.String())
	out, _ := components.Viewport(content, 0, height)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, out)
}

// hasInput reports whether Next would accept the current input.
func (s *SessionScreen) hasInput() bool {
	q := s.snap.Question
	if q == nil {
		return false
	}
	if q.IsMCQ() {
		return s.options.HasChoice()
	}
	return !s.answer.Blank()
}

func (s *SessionScreen) renderResults(width, height int) string {
	if s.snap.Results == nil {
		return ""
	}
	content := summary.RenderResults(*s.snap.Results, width)
	if msg := s.errorLine(); msg != "" {
		content = lipgloss.PlaceHorizontal(width, lipgloss.Center, msg) + "\n" + content
	}
	out, off := components.Viewport(content, s.offset, height)
	s.offset = off
	return out
}
