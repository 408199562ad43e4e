package session

import (
	"fmt"
	"slices"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/quiz"
	"github.com/abhisek/cmaster/internal/topics"
	"github.com/abhisek/cmaster/internal/ui/components"
	"github.com/abhisek/cmaster/internal/ui/theme"
)

// Rows of the config form before the topic toggles.
const (
	rowMCQ = iota
	rowShort
	rowLong
	rowDifficulty
	rowFirstTopic
)

// configForm edits a quiz.Config. Rows are the three counts, difficulty,
// one toggle per topic, the personalization toggle and the start button.
type configForm struct {
	cfg         quiz.Config
	weak        []string
	personalize bool
	row         int
}

func newConfigForm(cfg quiz.Config) configForm {
	return configForm{
		cfg:         cfg,
		weak:        cfg.FocusTopics,
		personalize: len(cfg.FocusTopics) > 0,
	}
}

func (f configForm) rowPersonalize() int { return rowFirstTopic + len(topics.Names()) }
func (f configForm) rowStart() int       { return f.rowPersonalize() + 1 }

// config returns the quiz config the form describes.
func (f configForm) config() quiz.Config {
	cfg := f.cfg
	cfg.FocusTopics = nil
	if f.personalize {
		cfg.FocusTopics = slices.Clone(f.weak)
	}
	return cfg
}

func (f configForm) canStart() bool {
	return f.cfg.Validate() == nil
}

func (f *configForm) move(delta int) {
	f.row = min(max(f.row+delta, 0), f.rowStart())
}

// adjust changes the value on the current row: counts step by delta,
// difficulty cycles, toggles flip.
func (f *configForm) adjust(delta int) {
	switch f.row {
	case rowMCQ:
		f.cfg.MCQCount = min(max(f.cfg.MCQCount+delta, 0), quiz.MaxMCQ)
	case rowShort:
		f.cfg.ShortCount = min(max(f.cfg.ShortCount+delta, 0), quiz.MaxShort)
	case rowLong:
		f.cfg.LongCount = min(max(f.cfg.LongCount+delta, 0), quiz.MaxLong)
	case rowDifficulty:
		ds := quiz.Difficulties()
		i := slices.Index(ds, f.cfg.Difficulty)
		f.cfg.Difficulty = ds[(i+delta+len(ds))%len(ds)]
	default:
		f.toggle()
	}
}

// toggle flips the topic or personalization toggle on the current row.
func (f *configForm) toggle() {
	names := topics.Names()
	switch {
	case f.row >= rowFirstTopic && f.row < rowFirstTopic+len(names):
		name := names[f.row-rowFirstTopic]
		if i := slices.Index(f.cfg.Topics, name); i >= 0 {
			f.cfg.Topics = slices.Delete(slices.Clone(f.cfg.Topics), i, i+1)
		} else {
			f.cfg.Topics = topics.Filter(append(slices.Clone(f.cfg.Topics), name))
		}
	case f.row == f.rowPersonalize():
		if len(f.weak) > 0 {
			f.personalize = !f.personalize
		}
	}
}

func (f configForm) view(cw int) string {
	var lines []string
	row := func(i int, label, value string) {
		prefix := "  "
		style := lipgloss.NewStyle().Foreground(theme.Text)
		if i == f.row {
			prefix = "▸ "
			style = style.Foreground(theme.Primary).Bold(true)
		}
		lines = append(lines, style.Render(fmt.Sprintf("%s%-34s %s", prefix, label, value)))
	}
	stepper := func(n, maxN int) string {
		return fmt.Sprintf("◂ %2d ▸  (max %d)", n, maxN)
	}

	lines = append(lines, components.Section("Questions", cw))
	row(rowMCQ, "Multiple choice", stepper(f.cfg.MCQCount, quiz.MaxMCQ))
	row(rowShort, "Short answer", stepper(f.cfg.ShortCount, quiz.MaxShort))
	row(rowLong, "Long answer", stepper(f.cfg.LongCount, quiz.MaxLong))
	row(rowDifficulty, "Difficulty", fmt.Sprintf("◂ %s ▸", f.cfg.Difficulty))

	lines = append(lines, "", components.Section("Topics", cw))
	for i, name := range topics.Names() {
		mark := "[ ]"
		if slices.Contains(f.cfg.Topics, name) {
			mark = "[x]"
		}
		row(rowFirstTopic+i, name, mark)
	}
	if len(f.cfg.Topics) == 0 {
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).
			Render("  No topic selected: questions cover every topic."))
	}

	lines = append(lines, "", components.Section("Personalization", cw))
	if len(f.weak) == 0 {
		row(f.rowPersonalize(), "Focus on weak topics", "n/a")
	} else {
		mark := "[ ]"
		if f.personalize {
			mark = "[x]"
		}
		row(f.rowPersonalize(), "Focus on weak topics", mark)
		lines = append(lines, lipgloss.NewStyle().Foreground(theme.TextDim).
			Render("  "+strings.Join(f.weak, ", ")))
	}

	lines = append(lines, "")
	label := fmt.Sprintf("Start quiz (%d questions)", f.cfg.Total())
	switch {
	case !f.canStart():
		lines = append(lines, components.InlineButton("Add at least one question", false))
	default:
		lines = append(lines, components.InlineButton(label, f.row == f.rowStart()))
	}
	return strings.Join(lines, "\n")
}
