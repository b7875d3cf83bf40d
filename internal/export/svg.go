// Package export writes still frames and metric series as SVG.
package export

import (
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/viz"
)

const (
	minDot   = 0.75
	maxDot   = 40
	fontSize = 14
)

// FrameToSVG draws projected points over the scene background. Points are
// expected far to near, as render.Project returns them.
func FrameToSVG(points []render.Point, bg render.Background, width, height int) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height)
	writeBackground(&sb, bg)

	for _, p := range points {
		fill := p.Color.Clamped().Hex()
		if p.Glyph != "" {
			fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" fill-opacity="%.2f" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>
`, p.X, p.Y, fill, p.Alpha, math.Max(p.Size*2, fontSize/2), html.EscapeString(glyph.Symbol(p.Glyph)))
			continue
		}
		r := math.Min(math.Max(p.Size, minDot), maxDot)
		fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.2f"/>
`, p.X, p.Y, r, fill, p.Alpha)
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func writeBackground(sb *strings.Builder, bg render.Background) {
	c1, c2 := bg.Color1.Clamped().Hex(), bg.Color2.Clamped().Hex()
	switch bg.Type {
	case render.BackgroundGradient:
		fmt.Fprintf(sb, `<defs><linearGradient id="bg" x1="0" y1="0" x2="0" y2="1"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></linearGradient></defs>
<rect width="100%%" height="100%%" fill="url(#bg)"/>
`, c1, c2)
	case render.BackgroundNebula:
		fmt.Fprintf(sb, `<defs><radialGradient id="bg"><stop offset="0" stop-color="%s"/><stop offset="1" stop-color="%s"/></radialGradient></defs>
<rect width="100%%" height="100%%" fill="url(#bg)"/>
`, c2, c1)
	default:
		fmt.Fprintf(sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, c1)
	}
}

// CanvasToSVG converts a Braille canvas to SVG, keeping cell colors and
// glyphs.
func CanvasToSVG(canvas *viz.Canvas, scale float64) string {
	if canvas == nil {
		return ""
	}

	width := float64(canvas.Width) * scale * 2   // 2 sub-pixels per char
	height := float64(canvas.Height) * scale * 4 // 4 sub-pixels per char

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
`, width, height, width, height)

	pixelMap := [4][2]int{
		{0x01, 0x08},
		{0x02, 0x10},
		{0x04, 0x20},
		{0x40, 0x80},
	}
	dotRadius := scale * 0.4

	for row := 0; row < canvas.Height; row++ {
		for col := 0; col < canvas.Width; col++ {
			fill := canvas.Colors[row][col].Clamped().Hex()
			baseX := float64(col) * scale * 2
			baseY := float64(row) * scale * 4

			if g := canvas.Glyphs[row][col]; g != 0 {
				fmt.Fprintf(&sb, `<text x="%.1f" y="%.1f" fill="%s" font-size="%.1f" text-anchor="middle" dominant-baseline="central">%s</text>
`, baseX+scale, baseY+scale*2, fill, scale*3, html.EscapeString(string(g)))
				continue
			}
			r := canvas.Grid[row][col]
			if r <= 0x2800 {
				continue
			}
			pattern := int(r - 0x2800)
			for dy := 0; dy < 4; dy++ {
				for dx := 0; dx < 2; dx++ {
					if pattern&pixelMap[dy][dx] != 0 {
						cx := baseX + float64(dx)*scale + scale/2
						cy := baseY + float64(dy)*scale + scale/2
						fmt.Fprintf(&sb, `<circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>
`, cx, cy, dotRadius, fill)
					}
				}
			}
		}
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// SeriesToSVG plots values left to right as a polyline, such as the frame
// times of a stored run.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}
	lo -= rng * 0.1
	rng *= 1.2

	var sb strings.Builder
	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<path fill="none" stroke="%s" stroke-width="1.5" d="M`,
		width, height, width, height, strokeColor)

	last := float64(len(values) - 1)
	for i, v := range values {
		x := float64(i) / last * float64(width)
		y := float64(height) - (v-lo)/rng*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}

	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
