package viz

import (
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	red  = colorful.Color{R: 1}
	blue = colorful.Color{B: 1}
)

func TestCanvasPlot(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Plot(0, 0, red)
	c.Plot(1, 3, red)
	if got := c.At(0, 0); got != rune(blank|0x1|0x80) {
		t.Errorf("expected dots 1 and 8, got %U", got)
	}
	if c.Colors[0][0] != red {
		t.Errorf("cell should be tinted red, got %v", c.Colors[0][0])
	}
	if c.At(0, 1) != blank {
		t.Errorf("untouched cell should be blank, got %U", c.At(0, 1))
	}
}

func TestCanvasOutOfBounds(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Plot(-1, 0, red)
	c.Plot(0, -1, red)
	c.Plot(4, 0, red)
	c.Plot(0, 8, red)
	c.PlotGlyph(100, 100, 'x', red, 1)
	c.Unset(-3, 2)
	if strings.ContainsRune(c.String(), 'x') {
		t.Error("off-canvas glyph should be dropped")
	}
}

func TestCanvasGlyphDepth(t *testing.T) {
	c := NewCanvas(1, 1)
	c.PlotGlyph(0, 0, 'a', red, 5)
	c.PlotGlyph(0, 0, 'b', blue, 10)
	if c.At(0, 0) != 'a' {
		t.Fatalf("farther glyph should not replace nearer, got %c", c.At(0, 0))
	}
	c.PlotGlyph(0, 0, 'c', blue, 2)
	if c.At(0, 0) != 'c' || c.Colors[0][0] != blue {
		t.Errorf("nearer glyph should win, got %c", c.At(0, 0))
	}

	c.Clear()
	if c.At(0, 0) != blank {
		t.Errorf("clear should drop glyphs, got %c", c.At(0, 0))
	}
}

func TestCanvasUnset(t *testing.T) {
	c := NewCanvas(1, 1)
	c.Set(0, 0)
	c.Set(1, 1)
	c.Unset(0, 0)
	if c.At(0, 0) != rune(blank|0x10) {
		t.Errorf("expected only dot 5, got %U", c.At(0, 0))
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(10, 1)
	c.DrawLine(0, 0, 19, 0, red)
	for col := 0; col < 10; col++ {
		if c.At(0, col)&0x9 != 0x9 {
			t.Errorf("cell %d missing top dots: %U", col, c.At(0, col))
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 4)
	c.Disc(2, 6, 1, red)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(lines))
	}
	for _, l := range lines {
		if n := len([]rune(l)); n != 3 {
			t.Errorf("expected 3 columns, got %d", n)
		}
	}
	if !strings.Contains(c.Render(), "\n") {
		t.Error("render should keep row breaks")
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1}, 2); got != "▁█" {
		t.Errorf("got %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty series should be a rule, got %q", got)
	}
	if got := []rune(Sparkline([]float64{1, 2, 3, 4, 5, 6}, 3)); len(got) != 3 {
		t.Errorf("expected 3 columns, got %d", len(got))
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("ocean").Name != "ocean" {
		t.Error("expected ocean theme")
	}
	if GetTheme("nope").Name != ThemeCyberpunk.Name {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	th := ThemeCyberpunk
	for range Themes {
		th = nextTheme(th)
	}
	if th.Name != ThemeCyberpunk.Name {
		t.Errorf("cycling every theme should wrap around, got %s", th.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}
