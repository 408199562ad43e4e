package summary

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/router"
	"github.com/abhisek/cmaster/internal/screen"
	"github.com/abhisek/cmaster/internal/store"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/layout"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

// SummaryScreen shows the graded results of a recorded quiz.
type SummaryScreen struct {
	record *store.QuizRecord
	offset int
	height int
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a SummaryScreen for rec.
func New(rec *store.QuizRecord) *SummaryScreen {
	return &SummaryScreen{record: rec}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	if s.record == nil {
		return "Quiz"
	}
	return "Quiz of " + s.record.Timestamp.Local().Format("Jan 02 15:04")
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Back"},
		{Key: "h", Description: "Home"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, nil
	}
	key := kmsg.String()
	if key == "h" {
		return s, func() tea.Msg { return router.PopToRootMsg{} }
	}
	if off, ok := components.ScrollKey(key, s.offset, s.height-2); ok {
		s.offset = off
	}
	return s, nil
}

func (s *SummaryScreen) View(width, height int) string {
	if s.record == nil {
		return ""
	}
	s.height = height

	header := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render(fmt.Sprintf("%s difficulty · %d MCQ · %d short · %d long",
			s.record.Config.Difficulty,
			s.record.Config.MCQCount, s.record.Config.ShortCount, s.record.Config.LongCount))

	body, off := components.Viewport(header+"\n"+RenderResults(s.record.Results(), width), s.offset, height)
	s.offset = off
	return body
}
