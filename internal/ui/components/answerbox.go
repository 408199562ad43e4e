package components

import (
	"strings"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

// AnswerBox wraps bubbles/textarea for short and long free-text answers.
type AnswerBox struct {
	Model textarea.Model
}

// NewAnswerBox creates a focused text area with the given visible height.
func NewAnswerBox(placeholder string, width, height int) AnswerBox {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(width)
	ta.SetHeight(height)
	ta.Focus()
	return AnswerBox{Model: ta}
}

// Init returns the cursor blink command.
func (a AnswerBox) Init() tea.Cmd {
	return textarea.Blink
}

// Update forwards input to the text area.
func (a AnswerBox) Update(msg tea.Msg) (AnswerBox, tea.Cmd) {
	var cmd tea.Cmd
	a.Model, cmd = a.Model.Update(msg)
	return a, cmd
}

// View renders the text area inside a rounded border.
func (a AnswerBox) View() string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Render(a.Model.View())
}

// Value returns the raw input.
func (a AnswerBox) Value() string {
	return a.Model.Value()
}

// SetValue replaces the input.
func (a *AnswerBox) SetValue(s string) {
	a.Model.SetValue(s)
}

// Blank reports whether the input is empty after trimming whitespace.
func (a AnswerBox) Blank() bool {
	return strings.TrimSpace(a.Model.Value()) == ""
}

// SetWidth resizes the text area.
func (a *AnswerBox) SetWidth(w int) {
	a.Model.SetWidth(w)
}
