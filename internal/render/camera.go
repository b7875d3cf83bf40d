package render

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	DefaultFOV  = 75
	DefaultNear = 0.1
	DefaultFar  = 1000
)

// Camera is a perspective camera aimed at Target. FOV is vertical, in degrees.
type Camera struct {
	Position, Target, Up Vec3
	FOV, Near, Far       float64
}

func NewCamera() *Camera {
	return &Camera{
		Position: Vec3{0, 0, 20},
		Up:       Vec3{0, 1, 0},
		FOV:      DefaultFOV,
		Near:     DefaultNear,
		Far:      DefaultFar,
	}
}

func (c *Camera) LookAt(target Vec3) {
	c.Target = target
}

func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(c.Position, c.Target, c.Up)
}

func (c *Camera) Projection(aspect float64) mgl64.Mat4 {
	return mgl64.Perspective(mgl64.DegToRad(c.FOV), aspect, c.Near, c.Far)
}

// Point is a projected, screen-space sample of the scene. Radius is in
// world units, Size is the same radius in pixels at Depth.
type Point struct {
	X, Y   float64
	Depth  float64
	Color  Color
	Alpha  float64
	Radius float64
	Size   float64
	Glyph  string
}

// ProjectPoint maps a world position to screen coordinates with y growing
// downward. ok is false when p is behind the camera or outside the depth
// range.
func (c *Camera) ProjectPoint(p Vec3, vp mgl64.Mat4, w, h int) (x, y, depth float64, ok bool) {
	clip := vp.Mul4x1(p.Vec4(1))
	if clip.W() <= 1e-9 {
		return 0, 0, 0, false
	}
	ndc := clip.Vec3().Mul(1 / clip.W())
	if ndc.Z() < -1 || ndc.Z() > 1 {
		return 0, 0, 0, false
	}
	x = (ndc.X() + 1) / 2 * float64(w)
	y = (1 - ndc.Y()) / 2 * float64(h)
	return x, y, clip.W(), true
}

// Project flattens every visible entity under root into screen points,
// sorted far to near. Surfaces contribute one point per vertex.
func Project(root *Node, cam *Camera, w, h int) []Point {
	if w <= 0 || h <= 0 {
		return nil
	}
	vp := cam.Projection(float64(w) / float64(h)).Mul4(cam.View())
	focal := float64(h) / 2 / math.Tan(mgl64.DegToRad(cam.FOV)/2)
	var out []Point
	add := func(world mgl64.Mat4, local Vec3, col Color, alpha, radius float64, glyph string) {
		p := world.Mul4x1(local.Vec4(1)).Vec3()
		x, y, d, ok := cam.ProjectPoint(p, vp, w, h)
		if !ok || x < 0 || y < 0 || x >= float64(w) || y >= float64(h) {
			return
		}
		out = append(out, Point{X: x, Y: y, Depth: d, Color: col, Alpha: alpha, Radius: radius, Size: radius * focal / d, Glyph: glyph})
	}

	root.Walk(func(n *Node, world mgl64.Mat4) bool {
		if !n.Visible {
			return false
		}
		switch n.Type {
		case NodeMesh:
			add(world, Vec3{}, n.Color, n.Opacity, n.Size.X()*meanScale(n.Scale), "")
		case NodeBatch:
			for _, inst := range n.Instances {
				if inst.Hidden {
					continue
				}
				m := world.Mul4(inst.Matrix())
				add(m, Vec3{}, inst.Color, n.Opacity, n.Size.X()*meanScale(inst.Scale), "")
			}
		case NodeSurface:
			for _, v := range n.Vertices {
				add(world, v, n.Color, n.Opacity, 0, "")
			}
		case NodeSprite:
			glyph := ""
			if n.Texture != nil {
				glyph = n.Texture.Key
			}
			add(world, Vec3{}, n.Color, n.Opacity, meanScale(n.Scale), glyph)
		}
		return true
	})

	sort.SliceStable(out, func(i, j int) bool { return out[i].Depth > out[j].Depth })
	return out
}

func meanScale(s Vec3) float64 {
	if s == (Vec3{}) {
		return 1
	}
	return (math.Abs(s.X()) + math.Abs(s.Y()) + math.Abs(s.Z())) / 3
}
