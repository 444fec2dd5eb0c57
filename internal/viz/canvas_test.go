package viz

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1, 8, 16)
	c.Set(0, 0, 0.5)
	c.Set(1, 3, 0.25)
	if got := c.Grid[0][0]; got != blank|0x1|0x80 {
		t.Errorf("unexpected cell %U", got)
	}
	if c.Level[0][0] != 0.5 {
		t.Errorf("expected brightest level kept, got %v", c.Level[0][0])
	}

	c.Set(-1, 0, 1)
	c.Set(4, 0, 1)
	if c.Lit() != 1 {
		t.Errorf("out of range dots drawn, lit=%d", c.Lit())
	}

	c.Clear()
	if c.Lit() != 0 || c.Level[0][0] != 0 {
		t.Error("clear left dots behind")
	}
}

func TestCanvasDotScales(t *testing.T) {
	c := NewCanvas(10, 5, 8, 16)
	// 4 virtual pixels per dot on both axes
	c.Dot(36, 20, 1, 1)
	if c.Grid[1][4] == blank {
		t.Errorf("dot landed elsewhere:\n%s", c.String())
	}
	if c.Lit() != 1 {
		t.Errorf("small dot spread over %d cells", c.Lit())
	}

	c.Clear()
	c.Dot(40, 40, 12, 1)
	if c.Lit() < 2 {
		t.Error("large dot drew a single cell")
	}
}

func TestCanvasStreakFades(t *testing.T) {
	c := NewCanvas(20, 5, 8, 16)
	c.Streak(150, 10, 10, 10, 0.7)
	head := c.Level[0][150/8]
	tail := c.Level[0][2]
	if head < 0.6 {
		t.Errorf("head too dim: %v", head)
	}
	if tail >= head {
		t.Errorf("tail %v not dimmer than head %v", tail, head)
	}
}

func TestRenderRangeWidth(t *testing.T) {
	c := NewCanvas(30, 3, 8, 16)
	c.Dot(40, 20, 0, 1)
	p := NewPalette(ThemeEmerald)
	spot := Spotlight{Col: 5, Row: 1, RadiusX: 3, RadiusY: 1, On: true}

	row := c.RenderRange(1, 0, 30, &p, spot)
	if w := lipgloss.Width(row); w != 30 {
		t.Errorf("expected width 30, got %d", w)
	}
	if got := c.RenderRange(1, 10, 5, &p, spot); got != "" {
		t.Errorf("empty range rendered %q", got)
	}
	if got := c.RenderRange(9, 0, 30, &p, spot); got != "" {
		t.Error("row outside canvas rendered")
	}
}

func TestSpotlight(t *testing.T) {
	s := Spotlight{Col: 10, Row: 5, RadiusX: 4, RadiusY: 2, On: true}
	if !s.covers(12, 5) || !s.covers(10, 6) {
		t.Error("expected nearby cells covered")
	}
	if s.covers(15, 5) || s.covers(10, 8) {
		t.Error("expected distant cells uncovered")
	}
	s.On = false
	if s.covers(10, 5) {
		t.Error("inactive spotlight covers cells")
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "emerald" {
		t.Error("unknown theme did not fall back to emerald")
	}
	names := ThemeNames()
	seen := map[string]bool{}
	th := GetTheme(names[0])
	for range names {
		seen[th.Name] = true
		th = NextTheme(th.Name)
	}
	if len(seen) != len(names) || th.Name != names[0] {
		t.Errorf("cycling did not visit every theme once: %v", seen)
	}
}

func TestGradientText(t *testing.T) {
	out := GradientText("FORGE", "#64e6be", "#3aa0ff")
	if lipgloss.Width(out) != 5 {
		t.Errorf("unexpected width %d", lipgloss.Width(out))
	}
	if GradientText("", "#000000", "#ffffff") != "" {
		t.Error("empty text produced output")
	}
	if GradientText("x", "bogus", "#ffffff") != "x" {
		t.Error("bad colour did not fall back to plain text")
	}
}

func TestMeterBars(t *testing.T) {
	if got := MeterBars([]float64{0, 1, 2, -1}); got != "▁██▁" {
		t.Errorf("got %q", got)
	}
}
