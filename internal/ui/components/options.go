package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

// OptionLabels are the letters shown before multiple-choice options.
var OptionLabels = []string{"A", "B", "C", "D"}

// OptionList is the selector for a multiple-choice question. Nothing is
// chosen until the user picks an option; Cursor only tracks the
// highlighted row.
type OptionList struct {
	Options []string
	Cursor  int
	Chosen  int

	// Revealed switches the view to marking Correct and Chosen.
	Revealed bool
	Correct  int
}

// NewOptionList creates a selector with no option chosen.
func NewOptionList(options []string) OptionList {
	return OptionList{
		Options: options,
		Chosen:  -1,
		Correct: -1,
	}
}

// Choose marks option i as the answer. Out-of-range values are ignored.
func (o *OptionList) Choose(i int) bool {
	if i < 0 || i >= len(o.Options) {
		return false
	}
	o.Chosen = i
	o.Cursor = i
	return true
}

// HasChoice reports whether an option has been chosen.
func (o OptionList) HasChoice() bool {
	return o.Chosen >= 0
}

// Update handles arrows, Enter/Space on the highlighted row, and the
// direct keys 1-4 and a-d.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	if o.Revealed {
		return o, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Options)-1 {
			o.Cursor++
		}
	case "enter", "space", " ":
		o.Choose(o.Cursor)
	default:
		if i, ok := optionKey(key); ok {
			o.Choose(i)
		}
	}
	return o, nil
}

// optionKey maps 1-4 and a-d (either case) to an option index.
func optionKey(key string) (int, bool) {
	if len(key) != 1 {
		return 0, false
	}
	c := key[0]
	switch {
	case c >= '1' && c <= '4':
		return int(c - '1'), true
	case c >= 'a' && c <= 'd':
		return int(c - 'a'), true
	case c >= 'A' && c <= 'D':
		return int(c - 'A'), true
	}
	return 0, false
}

// View renders the options.
func (o OptionList) View(width int) string {
	var b strings.Builder
	for i, opt := range o.Options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(OptionLabels) {
			label = OptionLabels[i]
		}
		marker := "( )"
		if i == o.Chosen {
			marker = "(•)"
		}
		prefix := "  "
		if i == o.Cursor && !o.Revealed {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%s %s) %s", prefix, marker, label, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
		switch {
		case o.Revealed && i == o.Correct:
			style = style.Foreground(theme.Success).Bold(true)
		case o.Revealed && i == o.Chosen:
			style = style.Foreground(theme.Error).Bold(true)
		case o.Revealed:
			style = style.Foreground(theme.TextDim)
		case i == o.Chosen:
			style = style.Foreground(theme.Highlight).Bold(true)
		case i == o.Cursor:
			style = style.Foreground(theme.Primary)
		}
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}
