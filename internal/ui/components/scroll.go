package components

import "strings"

// Viewport returns the height lines of content starting at offset, with
// offset clamped so the last page stays full. The clamped offset is
// returned for the caller to keep.
func Viewport(content string, offset, height int) (string, int) {
	lines := strings.Split(content, "\n")
	if height <= 0 || len(lines) <= height {
		return content, 0
	}
	offset = min(max(offset, 0), len(lines)-height)
	return strings.Join(lines[offset:offset+height], "\n"), offset
}

// ScrollKey applies a navigation key to offset. It reports whether the
// key was a scroll key.
func ScrollKey(key string, offset, page int) (int, bool) {
	switch key {
	case "up", "k":
		return offset - 1, true
	case "down", "j":
		return offset + 1, true
	case "pgup", "b":
		return offset - max(page, 1), true
	case "pgdown", "f", "space":
		return offset + max(page, 1), true
	case "home", "g":
		return 0, true
	}
	return offset, false
}
