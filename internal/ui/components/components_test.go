package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
)

func keyPress(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestOptionList_DirectKeys(t *testing.T) {
	tests := []struct {
		key  rune
		want int
	}{
		{'1', 0}, {'4', 3}, {'a', 0}, {'c', 2}, {'D', 3},
	}
	for _, tt := range tests {
		o := NewOptionList([]string{"w", "x", "y", "z"})
		o, _ = o.Update(keyPress(tt.key))
		if o.Chosen != tt.want {
			t.Errorf("key %q: Chosen = %d, want %d", tt.key, o.Chosen, tt.want)
		}
	}
}

func TestOptionList_OutOfRangeKeyIgnored(t *testing.T) {
	o := NewOptionList([]string{"x", "y"})
	o, _ = o.Update(keyPress('4'))
	if o.HasChoice() {
		t.Errorf("expected no choice, got %d", o.Chosen)
	}
}

func TestOptionList_ArrowsThenEnter(t *testing.T) {
	o := NewOptionList([]string{"w", "x", "y", "z"})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if o.HasChoice() {
		t.Fatal("moving the cursor must not choose")
	}
	o, _ = o.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if o.Chosen != 2 {
		t.Errorf("Chosen = %d, want 2", o.Chosen)
	}
}

func TestOptionList_RevealedIgnoresInput(t *testing.T) {
	o := NewOptionList([]string{"w", "x"})
	o.Choose(0)
	o.Revealed = true
	o, _ = o.Update(keyPress('2'))
	if o.Chosen != 0 {
		t.Errorf("Chosen = %d, want 0", o.Chosen)
	}
}

func TestMenu_SkipsDisabled(t *testing.T) {
	m := NewMenu([]MenuItem{
		{Label: "one", Disabled: true},
		{Label: "two"},
		{Label: "three", Disabled: true},
		{Label: "four"},
	})
	if m.Selected != 1 {
		t.Fatalf("Selected = %d, want 1", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	if m.Selected != 3 {
		t.Errorf("Selected = %d, want 3", m.Selected)
	}
	m, _ = m.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	if m.Selected != 1 {
		t.Errorf("Selected = %d, want 1", m.Selected)
	}
}

func TestMenu_EnterRunsAction(t *testing.T) {
	ran := false
	m := NewMenu([]MenuItem{{Label: "go", Action: func() tea.Cmd {
		ran = true
		return nil
	}}})
	m.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if !ran {
		t.Error("expected action to run")
	}
}

func TestRenderRichText_CodeBlock(t *testing.T) {
	out := RenderRichText("What prints?\n```\nint x = 5 / 2;\n```\nExplain.", 60)
	for _, want := range []string{"What prints?", "int x = 5 / 2;", "Explain."} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "```") {
		t.Error("fences should not be rendered")
	}
}

func TestSteps(t *testing.T) {
	p := Steps("", 3, 4, 30)
	if p.Fraction != 0.75 {
		t.Errorf("Fraction = %v, want 0.75", p.Fraction)
	}
	if !strings.Contains(p.View(), "3/4") {
		t.Error("expected 3/4 suffix")
	}
	if Steps("", 0, 0, 30).Fraction != 0 {
		t.Error("zero total should be empty")
	}
}

func TestViewport(t *testing.T) {
	content := "a\nb\nc\nd\ne"

	out, off := Viewport(content, 1, 2)
	if out != "b\nc" || off != 1 {
		t.Errorf("Viewport(1,2) = %q,%d", out, off)
	}

	out, off = Viewport(content, 99, 2)
	if out != "d\ne" || off != 3 {
		t.Errorf("Viewport past end = %q,%d", out, off)
	}

	out, off = Viewport(content, 3, 10)
	if out != content || off != 0 {
		t.Errorf("short content should not scroll, got %q,%d", out, off)
	}
}

func TestScrollKey(t *testing.T) {
	if off, ok := ScrollKey("down", 2, 10); !ok || off != 3 {
		t.Errorf("down = %d,%v", off, ok)
	}
	if off, ok := ScrollKey("pgup", 12, 10); !ok || off != 2 {
		t.Errorf("pgup = %d,%v", off, ok)
	}
	if _, ok := ScrollKey("x", 0, 10); ok {
		t.Error("x is not a scroll key")
	}
}
