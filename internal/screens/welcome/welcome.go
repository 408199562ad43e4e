package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/router"
	"github.com/abhisek/cmaster/internal/screen"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

const (
	tickInterval = 80 * time.Millisecond
	typeEnd      = 1600 * time.Millisecond
	totalDur     = 2400 * time.Millisecond
)

// command is typed into the prompt one rune per tick.
const command = "gcc -Wall quiz.c -o quiz && ./quiz"

const tagline = "Revise C, one quiz at a time."

type tickMsg time.Time

// WelcomeScreen types a compile command, reveals the banner, then hands
// over to the home screen on any key.
type WelcomeScreen struct {
	homeFactory  func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates a WelcomeScreen that will transition to the screen produced by homeFactory.
func New(homeFactory func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{
		homeFactory: homeFactory,
	}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		if w.elapsed < totalDur {
			w.elapsed += tickInterval
		}
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}

	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	home := w.homeFactory()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: home}
	}
}

// typed returns the prefix of the command visible at the current time.
func (w *WelcomeScreen) typed() string {
	runes := []rune(command)
	n := len(runes)
	if w.elapsed < typeEnd {
		n = int(w.elapsed * time.Duration(len(runes)) / typeEnd)
	}
	return string(runes[:n])
}

func (w *WelcomeScreen) View(width, height int) string {
	prompt := lipgloss.NewStyle().Foreground(theme.Secondary).Render("$ ")
	cmd := lipgloss.NewStyle().Foreground(theme.Text).Render(w.typed())
	cursor := " "
	if w.tickCount%6 < 3 {
		cursor = lipgloss.NewStyle().Background(theme.Highlight).Render(" ")
	}

	terminal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(min(width-4, 48)).
		Padding(0, 1).
		Render(prompt + cmd + cursor)

	sections := []string{terminal}

	if w.elapsed >= typeEnd {
		sections = append(sections, "", RenderBanner(width), "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Text).
			Bold(true).
			Render(tagline))
	}

	if w.elapsed >= totalDur {
		sections = append(sections, "", lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Italic(true).
			Render("press any key to continue"))
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
