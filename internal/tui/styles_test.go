package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestModalBounds(t *testing.T) {
	content := lipgloss.NewStyle().Width(20).Height(5).Render("x")

	r := ModalBounds(content, 100, 31)
	if r.X1-r.X0 != 20 || r.Y1-r.Y0 != 5 {
		t.Fatalf("bounds = %+v, want 20x5", r)
	}
	if r.X0 != 40 || r.Y0 != 13 {
		t.Errorf("origin = (%d,%d), want (40,13)", r.X0, r.Y0)
	}

	tests := []struct {
		x, y int
		want bool
	}{
		{40, 13, true},
		{59, 17, true},
		{60, 13, false},
		{40, 18, false},
		{0, 0, false},
	}
	for _, tt := range tests {
		if got := r.Contains(tt.x, tt.y); got != tt.want {
			t.Errorf("Contains(%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestModalBounds_MatchesRenderModal(t *testing.T) {
	content := lipgloss.NewStyle().Width(10).Height(3).Render("MODAL")

	screen := strings.Split(RenderModal(content, 40, 11), "\n")
	r := ModalBounds(content, 40, 11)

	if !strings.Contains(screen[r.Y0], "MODAL") {
		t.Errorf("row %d = %q, want modal content", r.Y0, screen[r.Y0])
	}
	if strings.Contains(screen[r.Y0-1], "MODAL") {
		t.Errorf("modal starts above row %d", r.Y0)
	}
}

func TestModalBounds_Oversized(t *testing.T) {
	content := lipgloss.NewStyle().Width(50).Render("x")
	if r := ModalBounds(content, 40, 10); r.X0 != 0 {
		t.Errorf("X0 = %d, want 0", r.X0)
	}
}

func TestSafeModalWidth(t *testing.T) {
	tests := []struct {
		requested, terminal, want int
	}{
		{56, 120, 56},
		{56, 50, 46},
		{56, 30, 40},
	}
	for _, tt := range tests {
		if got := SafeModalWidth(tt.requested, tt.terminal); got != tt.want {
			t.Errorf("SafeModalWidth(%d, %d) = %d, want %d", tt.requested, tt.terminal, got, tt.want)
		}
	}
}
