package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

func vec(v render.Vec3) rl.Vector3 {
	return rl.NewVector3(float32(v.X()), float32(v.Y()), float32(v.Z()))
}

func rgba(c colorful.Color, alpha float64) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	a := uint8(math.Round(math.Max(0, math.Min(1, alpha)) * 255))
	return rl.NewColor(r, g, b, a)
}

// transformPoint maps a local point through a world matrix.
func transformPoint(m mgl64.Mat4, p render.Vec3) render.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// worldScale is the mean length of the basis vectors of m.
func worldScale(m mgl64.Mat4) float64 {
	return (m.Col(0).Vec3().Len() + m.Col(1).Vec3().Len() + m.Col(2).Vec3().Len()) / 3
}

// shade applies fog for a surface depth units from the camera.
func shade(c colorful.Color, bg render.Background, depth float64) colorful.Color {
	if bg.Fog == nil {
		return c
	}
	return c.BlendRgb(bg.Fog.Color, bg.Fog.Factor(depth))
}

// circle returns n points of a circle of radius r in the local XY plane.
func circle(r float64, n int, arc float64) []render.Vec3 {
	if arc <= 0 || arc > 2*math.Pi {
		arc = 2 * math.Pi
	}
	pts := make([]render.Vec3, n+1)
	for i := range pts {
		a := arc * float64(i) / float64(n)
		pts[i] = render.Vec3{math.Cos(a) * r, math.Sin(a) * r, 0}
	}
	return pts
}

// glowing reports whether material emits light under bloom.
func glowing(m render.Material) bool {
	switch config.Material(m) {
	case config.MaterialNeon, config.MaterialHologram, config.MaterialGlass:
		return true
	}
	return false
}
