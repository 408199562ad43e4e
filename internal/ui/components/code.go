package components

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

// RenderRichText renders question or answer text, drawing fenced ```
// blocks as code panels and wrapping prose to width.
func RenderRichText(text string, width int) string {
	prose := lipgloss.NewStyle().Foreground(theme.Text).Width(width)
	code := theme.Code.Width(width)

	var out []string
	var buf []string
	inCode := false
	flush := func() {
		if len(buf) == 0 {
			return
		}
		joined := strings.Join(buf, "\n")
		if inCode {
			out = append(out, code.Render(joined))
		} else if strings.TrimSpace(joined) != "" {
			out = append(out, prose.Render(strings.Trim(joined, "\n")))
		}
		buf = buf[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			flush()
			inCode = !inCode
			continue
		}
		buf = append(buf, line)
	}
	// An unterminated fence still renders as code.
	flush()
	return strings.Join(out, "\n")
}
