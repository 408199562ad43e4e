package history

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/router"
	"github.com/abhisek/cmaster/internal/screen"
	"github.com/abhisek/cmaster/internal/screens/summary"
	"github.com/abhisek/cmaster/internal/store"
	"github.com/abhisek/cmaster/internal/ui/layout"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

// listLimit caps how many past quizzes the screen loads.
const listLimit = 50

// Source lists finished quizzes, newest first.
type Source interface {
	List(ctx context.Context, opts store.QueryOpts) ([]store.QuizRecord, error)
}

type historyLoadedMsg struct {
	Records []store.QuizRecord
	Err     error
}

// HistoryScreen lists past quizzes and opens their results.
type HistoryScreen struct {
	source   Source
	records  []store.QuizRecord
	selected int
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*HistoryScreen)(nil)
var _ screen.KeyHintProvider = (*HistoryScreen)(nil)

// New creates a new HistoryScreen.
func New(source Source) *HistoryScreen {
	return &HistoryScreen{source: source}
}

func (s *HistoryScreen) Init() tea.Cmd {
	return func() tea.Msg {
		records, err := s.source.List(context.Background(), store.QueryOpts{Limit: listLimit})
		return historyLoadedMsg{Records: records, Err: err}
	}
}

func (s *HistoryScreen) Title() string {
	return "History"
}

func (s *HistoryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Results"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *HistoryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case historyLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.records = msg.Records
		}
		s.loaded = true
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.records)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.records) {
				rec := s.records[s.selected]
				return s, func() tea.Msg {
					return router.PushScreenMsg{Screen: summary.New(&rec)}
				}
			}
		}
	}
	return s, nil
}

func (s *HistoryScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading history...")
	}
	if len(s.records) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No quizzes yet. Start one from the home screen!")
	}

	// Keep the selection on screen.
	first := 0
	if rows := height - 2; rows > 0 && s.selected >= rows {
		first = s.selected - rows + 1
	}

	var b strings.Builder
	b.WriteString("\n")
	for i := first; i < len(s.records) && i-first < height-1; i++ {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.renderRow(i)))
		b.WriteString("\n")
	}
	return b.String()
}

func (s *HistoryScreen) renderRow(i int) string {
	rec := s.records[i]
	prefix := "  "
	if i == s.selected {
		prefix = "> "
	}

	mean := int(rec.MeanScore + 0.5)
	line := fmt.Sprintf("%s%s  %-6s  %2d MCQ %2d short %2d long  ",
		prefix,
		rec.Timestamp.Local().Format("Jan 02, 2006 15:04"),
		rec.Config.Difficulty,
		rec.Config.MCQCount, rec.Config.ShortCount, rec.Config.LongCount)

	style := lipgloss.NewStyle().Foreground(theme.Text)
	if i == s.selected {
		style = style.Foreground(theme.Primary).Bold(true)
	}
	return style.Render(line) + theme.ScoreStyle(mean).Render(fmt.Sprintf("%3d%%", mean))
}
