package variant

import (
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

type vec3 = render.Vec3

// palette is the parsed configuration palette with modulo indexing.
type palette []render.Color

func paletteOf(cfg *config.Vibe) palette {
	p := palette(cfg.Colors())
	if len(p) == 0 {
		p = palette{render.White}
	}
	return p
}

func (p palette) at(i int) render.Color {
	return p[i%len(p)]
}

func (p palette) random(r *rand.Rand) render.Color {
	return p[r.Intn(len(p))]
}

// spread samples uniformly in [-width/2, width/2).
func spread(r *rand.Rand, width float64) float64 {
	return (r.Float64() - 0.5) * width
}

func between(r *rand.Rand, lo, hi float64) float64 {
	return lo + r.Float64()*(hi-lo)
}

// unitVector samples a direction uniformly on the sphere.
func unitVector(r *rand.Rand) vec3 {
	z := 2*r.Float64() - 1
	phi := 2 * math.Pi * r.Float64()
	s := math.Sqrt(1 - z*z)
	return vec3{s * math.Cos(phi), s * math.Sin(phi), z}
}

func sizeOf(cfg *config.Vibe, r *rand.Rand) float64 {
	return between(r, cfg.Geometry.SizeRange[0], cfg.Geometry.SizeRange[1])
}

func minSize(cfg *config.Vibe) float64 {
	if s := cfg.Geometry.SizeRange[0]; s > 0 {
		return s
	}
	return config.DefaultSizeMin
}

func materialOf(cfg *config.Vibe) render.Material {
	return render.Material(cfg.Geometry.Material)
}

func uniform(s float64) vec3 {
	return vec3{s, s, s}
}

func count(cfg *config.Vibe) int {
	if cfg.Geometry.Count < 0 {
		return 0
	}
	return cfg.Geometry.Count
}

// wrapBelow moves v to top once it drops under floor.
func wrapBelow(v, floor, top float64) float64 {
	if v < floor {
		return top
	}
	return v
}

// wrapAbove moves v to bottom once it rises over ceil.
func wrapAbove(v, ceil, bottom float64) float64 {
	if v > ceil {
		return bottom
	}
	return v
}

func intensity(cfg *config.Vibe) float64 {
	return cfg.Motion.Intensity
}

func fixed(n int) Option {
	return ExpectedCount(func(*config.Vibe) int { return n })
}

func plus(n int) Option {
	return ExpectedCount(func(cfg *config.Vibe) int { return n + count(cfg) })
}

func mustHex(s string) render.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Structural colors that do not come from the palette.
var (
	black      = render.Color{}
	stoneGray  = mustHex("#333333")
	arrowBrown = mustHex("#8b4513")
	cloudGray  = mustHex("#555555")
	burnRed    = mustHex("#ff0000")
)
