package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/cmaster/internal/profile"
	"github.com/abhisek/cmaster/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Resumer is implemented by screens that reload state when they become
// active again after the screen above them is popped.
type Resumer interface {
	Resume() tea.Cmd
}

// StatsMsg carries the profile summary shown in the app header.
type StatsMsg struct {
	Stats layout.HeaderStats
}

// StatsFor builds the header summary for a profile.
func StatsFor(p profile.UserProfile) layout.HeaderStats {
	stats := layout.HeaderStats{Quizzes: p.TotalQuizzes, Average: p.AverageScore}
	if weak := profile.WeakTopics(p, 1); len(weak) > 0 {
		stats.Weakest = weak[0]
	}
	return stats
}
