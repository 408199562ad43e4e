package welcome

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/cmaster/internal/ui/theme"
)

const bannerArt = `
  ██████╗███╗   ███╗ █████╗ ███████╗████████╗███████╗██████╗
 ██╔════╝████╗ ████║██╔══██╗██╔════╝╚══██╔══╝██╔════╝██╔══██╗
 ██║     ██╔████╔██║███████║███████╗   ██║   █████╗  ██████╔╝
 ██║     ██║╚██╔╝██║██╔══██║╚════██║   ██║   ██╔══╝  ██╔══██╗
 ╚██████╗██║ ╚═╝ ██║██║  ██║███████║   ██║   ███████╗██║  ██║
  ╚═════╝╚═╝     ╚═╝╚═╝  ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝`

const bannerCompact = "c m a s t e r"

// RenderBanner returns the banner in the highlight color, falling back to
// spaced letters on terminals narrower than the art.
func RenderBanner(width int) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Highlight).
		Bold(true)

	if width < 64 {
		return style.Render(bannerCompact)
	}
	return style.Render(bannerArt)
}
