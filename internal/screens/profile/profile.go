package profile

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/screen"
	sess "github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/layout"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

type resetDoneMsg struct {
	Err error
}

// ProfileScreen shows the learner profile and offers a reset.
type ProfileScreen struct {
	session    *sess.Session
	profile    profile.UserProfile
	confirming bool
	status     string
	errMsg     string
}

var _ screen.Screen = (*ProfileScreen)(nil)
var _ screen.KeyHintProvider = (*ProfileScreen)(nil)

// New creates a ProfileScreen backed by the session's profile.
func New(session *sess.Session) *ProfileScreen {
	p := &ProfileScreen{session: session, profile: profile.New()}
	if session != nil {
		p.profile = session.Profile()
	}
	return p
}

func (p *ProfileScreen) Init() tea.Cmd {
	return nil
}

func (p *ProfileScreen) Title() string {
	return "Profile"
}

func (p *ProfileScreen) KeyHints() []layout.KeyHint {
	if p.confirming {
		return []layout.KeyHint{
			{Key: "y", Description: "Reset"},
			{Key: "n", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "r", Description: "Reset profile"},
		{Key: "Esc", Description: "Back"},
	}
}

func (p *ProfileScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case resetDoneMsg:
		if msg.Err != nil {
			p.errMsg = msg.Err.Error()
			return p, nil
		}
		p.profile = p.session.Profile()
		p.status = "Profile reset."
		p.errMsg = ""
		return p, func() tea.Msg {
			return screen.StatsMsg{Stats: screen.StatsFor(p.profile)}
		}

	case tea.KeyMsg:
		key := msg.String()
		if p.confirming {
			p.confirming = false
			if key == "y" {
				return p, p.reset()
			}
			return p, nil
		}
		if key == "r" && p.session != nil {
			p.confirming = true
			p.status = ""
		}
	}
	return p, nil
}

func (p *ProfileScreen) reset() tea.Cmd {
	s := p.session
	return func() tea.Msg {
		return resetDoneMsg{Err: s.ResetProfile(context.Background())}
	}
}

func (p *ProfileScreen) View(width, height int) string {
	cw := components.ContentWidth(width, 72)
	var sections []string

	avg := "--"
	if p.profile.TotalQuizzes > 0 {
		avg = fmt.Sprintf("%.1f%%", p.profile.AverageScore)
	}
	summary := fmt.Sprintf("%s   %s",
		lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).
			Render(fmt.Sprintf("%d quizzes taken", p.profile.TotalQuizzes)),
		lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).
			Render("average "+avg))
	sections = append(sections, summary)

	sections = append(sections, components.Section("Weak topics", cw))
	ranked := profile.Ranked(p.profile)
	if len(ranked) == 0 {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("No weak topics recorded yet."))
	} else {
		sections = append(sections, renderRanked(ranked, cw))
	}

	if focus := profile.FocusTopics(p.profile); len(focus) > 0 {
		sections = append(sections, components.Section("Next quiz focuses on", cw),
			lipgloss.NewStyle().Foreground(theme.Text).Render(strings.Join(focus, ", ")))
	}

	switch {
	case p.confirming:
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Warning).Bold(true).
			Render("Reset average, quiz count and weak topics? (y/n)"))
	case p.errMsg != "":
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Error).Render("Error: "+p.errMsg))
	case p.status != "":
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Success).Render(p.status))
	}

	content := lipgloss.NewStyle().Width(cw).Render(strings.Join(sections, "\n\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// renderRanked draws one bar per topic scaled to the largest count.
func renderRanked(ranked []profile.TopicCount, cw int) string {
	top := ranked[0].Count
	labelWidth := 0
	for _, tc := range ranked {
		labelWidth = max(labelWidth, lipgloss.Width(tc.Topic))
	}

	lines := make([]string, 0, len(ranked))
	for _, tc := range ranked {
		bar := components.NewProgressBar(tc.Topic, float64(tc.Count)/float64(top), cw)
		bar.LabelWidth = labelWidth
		bar.Suffix = fmt.Sprintf("%d", tc.Count)
		bar.Fill = theme.Error
		lines = append(lines, bar.View())
	}
	return strings.Join(lines, "\n")
}
