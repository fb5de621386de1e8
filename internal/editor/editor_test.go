package editor

import (
	"strings"
	"testing"
)

func TestSurfaceNotReadyUntilLoad(t *testing.T) {
	s := New()
	if s.Ready() {
		t.Error("Expected new surface not ready")
	}

	s.Load("scripts/boss.lua", "print('hello')")

	if !s.Ready() {
		t.Error("Expected surface ready after load")
	}
	if s.Path() != "scripts/boss.lua" {
		t.Errorf("Expected loaded path, got %q", s.Path())
	}
	if s.Value() != "print('hello')" {
		t.Errorf("Expected buffer contents, got %q", s.Value())
	}
}

func TestRelayoutAfterHiddenResize(t *testing.T) {
	s := New()
	s.Load("a.lua", "x = 1")

	// Sized while hidden, then relayout on show; must not panic and must
	// keep the recorded box.
	s.SetSize(80, 24)
	s.Relayout()
	s.Relayout()
}

func TestHighlightProducesANSIOutput(t *testing.T) {
	out := Highlight("local x = 1 -- comment", "monokai")
	if out == "" {
		t.Fatal("Expected highlighted output")
	}
	if !strings.Contains(out, "\x1b[") {
		t.Error("Expected ANSI escapes in highlighted output")
	}
}

func TestHighlightEmptySource(t *testing.T) {
	// Must not panic and must return something renderable.
	_ = Highlight("", "monokai")
}

func TestSetThemeIgnoresEmpty(t *testing.T) {
	s := New()
	s.SetTheme("")
	s.Load("a.lua", "x = 1")
	if s.HighlightedView() == "" {
		t.Error("Expected highlighted view with default theme")
	}
}
