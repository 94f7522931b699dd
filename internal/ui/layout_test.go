package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestContentHeight(t *testing.T) {
	if got := NewLayout(80, 24).ContentHeight(); got != 22 {
		t.Errorf("ContentHeight() = %d, want 22", got)
	}
	if got := NewLayout(80, 1).ContentHeight(); got != 0 {
		t.Errorf("ContentHeight() on a tiny terminal = %d, want 0", got)
	}
}

func TestSplit(t *testing.T) {
	left, right := NewLayout(100, 30).Split()
	if left+right != 100 {
		t.Fatalf("Split() = %d + %d, want total 100", left, right)
	}
	if right != 40 {
		t.Errorf("right = %d, want 40", right)
	}

	left, right = NewLayout(20, 30).Split()
	if left != 0 || right != 20 {
		t.Errorf("narrow Split() = %d, %d", left, right)
	}
}

func TestRenderHeaderFillsWidth(t *testing.T) {
	l := NewLayout(60, 20)
	header := l.RenderHeader("WhatsBoard", "idle")

	if w := lipgloss.Width(header); w != 60 {
		t.Errorf("header width = %d, want 60", w)
	}
	if !strings.Contains(header, "WhatsBoard") || !strings.Contains(header, "idle") {
		t.Errorf("header = %q", header)
	}
}
