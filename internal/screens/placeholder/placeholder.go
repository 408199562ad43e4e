package placeholder

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/screen"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

// PlaceholderScreen stands in for a screen whose backing data is not
// available in the current setup.
type PlaceholderScreen struct {
	title   string
	message string
}

var _ screen.Screen = (*PlaceholderScreen)(nil)

// New creates a PlaceholderScreen that shows message under the title.
func New(title, message string) *PlaceholderScreen {
	return &PlaceholderScreen{title: title, message: message}
}

func (p *PlaceholderScreen) Init() tea.Cmd {
	return nil
}

func (p *PlaceholderScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	return p, nil
}

func (p *PlaceholderScreen) View(width, height int) string {
	heading := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render("╌╌ " + p.title + " unavailable ╌╌")
	body := lipgloss.NewStyle().Foreground(theme.Text).Width(min(width-4, 60)).Align(lipgloss.Center).Render(p.message)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, heading+"\n\n"+body)
}

func (p *PlaceholderScreen) Title() string {
	return p.title
}
