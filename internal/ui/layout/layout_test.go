package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestRenderHeader(t *testing.T) {
	wide := RenderHeader("Quiz", HeaderStats{Quizzes: 3, Average: 72.4, Weakest: "Pointers"}, 120)
	for _, want := range []string{"cmaster", "Quiz", "3 quizzes", "avg 72%", "weak: Pointers"} {
		if !strings.Contains(wide, want) {
			t.Errorf("wide header missing %q:\n%s", want, wide)
		}
	}

	narrow := RenderHeader("Quiz", HeaderStats{Quizzes: 3, Average: 72.4, Weakest: "Pointers"}, 80)
	if strings.Contains(narrow, "Pointers") {
		t.Errorf("narrow header should drop the weakest topic:\n%s", narrow)
	}

	fresh := RenderHeader("Home", HeaderStats{}, 100)
	if !strings.Contains(fresh, "avg --") {
		t.Errorf("header without quizzes should show a placeholder average:\n%s", fresh)
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "enter", Description: "select"},
		{Key: "tab", Description: "next question"},
		{Key: "ctrl+x", Description: "finish early and grade everything answered so far"},
	}
	out := RenderFooter(hints, 80)
	if !strings.Contains(out, "select") || !strings.Contains(out, "next question") {
		t.Errorf("footer lost hints that fit:\n%s", out)
	}
	if strings.Contains(out, "finish early") {
		t.Errorf("footer kept a hint wider than the terminal:\n%s", out)
	}
}

func TestRenderFrameHeight(t *testing.T) {
	header := RenderHeader("Home", HeaderStats{}, 100)
	footer := RenderFooter([]KeyHint{{Key: "q", Description: "quit"}}, 100)
	frame := RenderFrame(header, "body", footer, 100, 30)
	if h := lipgloss.Height(frame); h != 30 {
		t.Errorf("frame height = %d, want 30", h)
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(79, 30) || !IsTooSmall(100, 23) {
		t.Error("expected sizes below the minimum to be too small")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("minimum size should be accepted")
	}
}
