package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/router"
	"github.com/abhisek/cmaster/internal/screen"
	"github.com/abhisek/cmaster/internal/screens/history"
	"github.com/abhisek/cmaster/internal/screens/placeholder"
	profilescreen "github.com/abhisek/cmaster/internal/screens/profile"
	sessionscreen "github.com/abhisek/cmaster/internal/screens/session"
	sess "github.com/abhisek/cmaster/internal/session"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/layout"
)

// Deps wires the home screen to the quiz session and history.
type Deps struct {
	Session *sess.Session

	// History is nil when quizzes are not persisted.
	History history.Source

	// LLMReady is false when no provider is configured; starting a quiz
	// is then disabled.
	LLMReady bool
}

const (
	itemStart = iota
	itemProfile
	itemHistory
	itemQuit
)

// HomeScreen is the main menu.
type HomeScreen struct {
	deps    Deps
	menu    components.Menu
	quiz    *sessionscreen.SessionScreen
	profile profile.UserProfile
}

var _ screen.Screen = (*HomeScreen)(nil)
var _ screen.Resumer = (*HomeScreen)(nil)

// New creates a new HomeScreen.
func New(deps Deps) *HomeScreen {
	h := &HomeScreen{deps: deps}

	items := []components.MenuItem{
		itemStart: {Label: "START QUIZ", Hint: "Pick counts, difficulty and topics", Action: h.openQuiz},
		itemProfile: {Label: "PROFILE", Hint: "Average score and weak topics", Action: func() tea.Cmd {
			return push(profilescreen.New(deps.Session))
		}},
		itemHistory: {Label: "HISTORY", Hint: "Review past quizzes", Action: func() tea.Cmd {
			if deps.History == nil {
				return push(placeholder.New("History", "Quiz history is not stored with the current profile backend."))
			}
			return push(history.New(deps.History))
		}},
		itemQuit: {Label: "QUIT", Action: func() tea.Cmd {
			return tea.Quit
		}},
	}
	h.menu = components.NewMenu(items)
	h.menu.SetDisabled(itemStart, !deps.LLMReady)
	h.refresh()
	return h
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg {
		return router.PushScreenMsg{Screen: s}
	}
}

// openQuiz pushes the single quiz screen so an unfinished quiz resumes
// where it was left.
func (h *HomeScreen) openQuiz() tea.Cmd {
	if h.quiz == nil {
		h.quiz = sessionscreen.New(h.deps.Session)
	}
	return push(h.quiz)
}

func (h *HomeScreen) refresh() {
	if h.deps.Session != nil {
		h.profile = h.deps.Session.Profile()
	}
}

func (h *HomeScreen) stats() tea.Cmd {
	stats := screen.StatsFor(h.profile)
	return func() tea.Msg {
		return screen.StatsMsg{Stats: stats}
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return h.stats()
}

// Resume reloads the profile after a quiz or a reset.
func (h *HomeScreen) Resume() tea.Cmd {
	h.refresh()
	return h.stats()
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	compact := layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) ||
		layout.IsCompactWidth(width)
	cw := components.ContentWidth(width, 64)

	sections := []string{
		renderTitle(width, cw, compact),
		renderStatsBar(h.profile, cw, compact),
	}
	if !h.deps.LLMReady {
		sections = append(sections, renderLLMBanner(cw))
	}
	if compact {
		sections = append(sections, centered(h.menu.ViewCompact(), cw))
	} else {
		sections = append(sections, centered(h.menu.View(), cw))
	}
	sections = append(sections, renderHint(h.menu.SelectedHint(), cw))

	return components.Frame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
