package export

import (
	"strings"
	"testing"

	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/viz"
)

var magenta = render.Color{R: 1, B: 1}

func TestFrameToSVG(t *testing.T) {
	points := []render.Point{
		{X: 10, Y: 20, Depth: 30, Color: magenta, Alpha: 1, Size: 2},
		{X: 50, Y: 40, Depth: 10, Color: render.White, Alpha: 0.5, Size: 1, Glyph: "<-#ffffff"},
	}
	bg := render.Background{Type: render.BackgroundSolid, Color1: render.Color{}}
	svg := FrameToSVG(points, bg, 100, 80)

	for _, want := range []string{
		`width="100" height="80"`,
		`fill="#000000"`,
		`<circle cx="10.0" cy="20.0" r="2.00" fill="#ff00ff"`,
		`&lt;</text>`,
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("expected %q in\n%s", want, svg)
		}
	}
	if strings.Index(svg, "<circle") > strings.Index(svg, "<text") {
		t.Error("points should keep their far to near order")
	}
}

func TestFrameToSVGBackgrounds(t *testing.T) {
	tests := []struct {
		typ  render.BackgroundType
		want string
	}{
		{render.BackgroundGradient, "linearGradient"},
		{render.BackgroundNebula, "radialGradient"},
		{render.BackgroundGrid, `fill="#000000"`},
	}
	for _, tt := range tests {
		svg := FrameToSVG(nil, render.Background{Type: tt.typ, Color2: magenta}, 10, 10)
		if !strings.Contains(svg, tt.want) {
			t.Errorf("background %v: expected %q", tt.typ, tt.want)
		}
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should produce nothing")
	}
	c := viz.NewCanvas(2, 1)
	c.Plot(0, 0, magenta)
	c.PlotGlyph(2, 0, '&', render.White, 1)
	svg := CanvasToSVG(c, 2)
	if strings.Count(svg, "<circle") != 1 {
		t.Errorf("expected one dot, got\n%s", svg)
	}
	if !strings.Contains(svg, `fill="#ff00ff"`) || !strings.Contains(svg, "&amp;") {
		t.Errorf("expected colored dot and escaped glyph, got\n%s", svg)
	}
}

func TestSeriesToSVG(t *testing.T) {
	if SeriesToSVG([]float64{1}, 10, 10, "#fff") != "" {
		t.Error("a single value is not a series")
	}
	svg := SeriesToSVG([]float64{1, 2, 3}, 100, 50, "#00ff00")
	if strings.Count(svg, " L") != 2 || !strings.Contains(svg, `stroke="#00ff00"`) {
		t.Errorf("unexpected series svg\n%s", svg)
	}
}
