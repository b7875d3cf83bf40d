// Package gui renders scenes in a raylib window.
package gui

import (
	"image"
	"image/color"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vibesaver/internal/render"
)

const (
	circleSegments = 32
	cylinderSides  = 10
	glowTexSize    = 64
	grainDots      = 1500
)

type glow struct {
	pos    rl.Vector3
	radius float32
	color  render.Color
}

// Facade is the raylib render backend. It must be created and driven on
// the goroutine that opened the window.
type Facade struct {
	root   *render.Node
	camera *render.Camera
	fx     render.PostFX
	bg     render.Background

	bgImage  image.Image
	bgTex    rl.Texture2D
	glowTex  rl.Texture2D
	textures map[string]rl.Texture2D
	glows    []glow
	rand     *rand.Rand

	// Overlay runs after the scene is drawn and before the frame is
	// presented, for HUD text.
	Overlay func()

	closed bool
}

// NewFacade creates the backend. The window must already be open.
func NewFacade() *Facade {
	img := rl.GenImageGradientRadial(glowTexSize, glowTexSize, 0, rl.White, rl.NewColor(0, 0, 0, 0))
	glowTex := rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	return &Facade{
		root:     render.NewGroup("scene"),
		camera:   render.NewCamera(),
		glowTex:  glowTex,
		textures: make(map[string]rl.Texture2D),
		rand:     rand.New(rand.NewSource(1)),
	}
}

func (f *Facade) Scene() *render.Node { return f.root }
func (f *Facade) Camera() *render.Camera { return f.camera }
func (f *Facade) PostFX() *render.PostFX { return &f.fx }
func (f *Facade) Background() render.Background { return f.bg }

func (f *Facade) SetBackground(bg render.Background) {
	f.bg = bg
}

func (f *Facade) camera3D() rl.Camera3D {
	c := f.camera
	return rl.NewCamera3D(vec(c.Position), vec(c.Target), vec(c.Up), float32(c.FOV), rl.CameraPerspective)
}

// Render draws one frame. Closing the window closes the backend, which
// the scheduler observes as render.ErrClosed.
func (f *Facade) Render() error {
	if f.closed {
		return render.ErrClosed
	}
	if rl.WindowShouldClose() {
		f.Close()
		return render.ErrClosed
	}

	cam := f.camera3D()
	rl.BeginDrawing()
	f.drawBackground()

	rl.BeginMode3D(cam)
	f.glows = f.glows[:0]
	f.root.Walk(func(n *render.Node, world mgl64.Mat4) bool {
		if !n.Visible {
			return false
		}
		f.drawNode(n, world, cam)
		return true
	})
	f.drawGlows(cam)
	rl.EndMode3D()

	f.drawGrain()
	if f.Overlay != nil {
		f.Overlay()
	}
	rl.EndDrawing()
	return nil
}

func (f *Facade) drawBackground() {
	w, h := int32(rl.GetScreenWidth()), int32(rl.GetScreenHeight())
	switch f.bg.Type {
	case render.BackgroundImage:
		rl.ClearBackground(rl.Black)
		if f.bg.Image == nil {
			return
		}
		tex := f.backgroundTexture()
		src := rl.NewRectangle(0, 0, float32(tex.Width), float32(tex.Height))
		dst := rl.NewRectangle(0, 0, float32(w), float32(h))
		rl.DrawTexturePro(tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)
	case render.BackgroundGradient:
		rl.DrawRectangleGradientV(0, 0, w, h, rgba(f.bg.Color1, 1), rgba(f.bg.Color2, 1))
	case render.BackgroundNebula:
		rl.ClearBackground(rgba(f.bg.Color1, 1))
		dst := rl.NewRectangle(0, 0, float32(w), float32(h))
		src := rl.NewRectangle(0, 0, glowTexSize, glowTexSize)
		rl.DrawTexturePro(f.glowTex, src, dst, rl.NewVector2(0, 0), 0, rgba(f.bg.Color2, 0.35))
	default:
		rl.ClearBackground(rgba(f.bg.Color1, 1))
	}
}

func (f *Facade) backgroundTexture() rl.Texture2D {
	if f.bgImage != f.bg.Image {
		if f.bgImage != nil {
			rl.UnloadTexture(f.bgTex)
		}
		f.bgTex = upload(f.bg.Image)
		f.bgImage = f.bg.Image
	}
	return f.bgTex
}

func (f *Facade) texture(t *render.Texture) rl.Texture2D {
	if tex, ok := f.textures[t.Key]; ok {
		return tex
	}
	tex := upload(t.Image)
	f.textures[t.Key] = tex
	return tex
}

func upload(img image.Image) rl.Texture2D {
	im := rl.NewImageFromImage(img)
	tex := rl.LoadTextureFromImage(im)
	rl.UnloadImage(im)
	return tex
}

func (f *Facade) depth(p render.Vec3) float64 {
	return p.Sub(f.camera.Position).Len()
}

func (f *Facade) tint(c render.Color, alpha float64, p render.Vec3) color.RGBA {
	return rgba(shade(c, f.bg, f.depth(p)), alpha)
}

func (f *Facade) drawNode(n *render.Node, world mgl64.Mat4, cam rl.Camera3D) {
	switch n.Type {
	case render.NodeMesh:
		f.drawShape(n, world, n.Color)
	case render.NodeBatch:
		for _, inst := range n.Instances {
			if inst.Hidden {
				continue
			}
			f.drawShape(n, world.Mul4(inst.Matrix()), inst.Color)
		}
	case render.NodeSurface:
		f.drawSurface(n, world)
	case render.NodeSprite:
		if n.Texture == nil || n.Texture.Image == nil {
			return
		}
		pos := transformPoint(world, render.Vec3{})
		size := float32(worldScale(world))
		rl.DrawBillboard(cam, f.texture(n.Texture), vec(pos), size, f.tint(render.White, n.Opacity, pos))
	case render.NodeGrid:
		f.drawGrid(n, world)
	case render.NodeLight:
		if n.Light == render.LightPoint {
			pos := transformPoint(world, render.Vec3{})
			f.glows = append(f.glows, glow{pos: vec(pos), radius: float32(n.Intensity), color: n.Color})
		}
	}
}

func (f *Facade) drawShape(n *render.Node, m mgl64.Mat4, c render.Color) {
	pos := transformPoint(m, render.Vec3{})
	col := f.tint(c, n.Opacity, pos)
	s := worldScale(m)
	size := n.Size.Mul(s)

	switch n.Shape {
	case render.ShapeBox:
		rl.DrawCubeV(vec(pos), vec(size), col)
	case render.ShapeCylinder, render.ShapeCone:
		top := float32(size.X())
		if n.Shape == render.ShapeCone {
			top = 0
		}
		base := transformPoint(m, render.Vec3{0, -n.Size.Y() / 2, 0})
		tip := transformPoint(m, render.Vec3{0, n.Size.Y() / 2, 0})
		rl.DrawCylinderEx(vec(base), vec(tip), float32(size.X()), top, cylinderSides, col)
	case render.ShapeTorus, render.ShapeRing:
		radius, arc := n.Size.X(), n.Size.Z()
		if n.Shape == render.ShapeRing {
			radius, arc = (n.Size.X()+n.Size.Y())/2, 0
		}
		f.drawLoop(m, circle(radius, circleSegments, arc), col)
	case render.ShapePlane:
		hw, hh := n.Size.X()/2, n.Size.Y()/2
		a := vec(transformPoint(m, render.Vec3{-hw, -hh, 0}))
		b := vec(transformPoint(m, render.Vec3{hw, -hh, 0}))
		c := vec(transformPoint(m, render.Vec3{hw, hh, 0}))
		d := vec(transformPoint(m, render.Vec3{-hw, hh, 0}))
		rl.DrawTriangle3D(a, b, c, col)
		rl.DrawTriangle3D(a, c, d, col)
		rl.DrawTriangle3D(a, c, b, col)
		rl.DrawTriangle3D(a, d, c, col)
	case render.ShapePoint:
		rl.DrawPoint3D(vec(pos), col)
	case render.ShapeTetra, render.ShapeOcta:
		rl.DrawSphereEx(vec(pos), float32(size.X()), 2, 4, col)
	default:
		rl.DrawSphereEx(vec(pos), float32(size.X()), 8, 10, col)
	}

	if f.fx.BloomStrength > 0 && glowing(n.Material) {
		f.glows = append(f.glows, glow{pos: vec(pos), radius: float32(size.X() * (1 + f.fx.BloomRadius) * 4), color: c})
	}
}

func (f *Facade) drawLoop(m mgl64.Mat4, pts []render.Vec3, col color.RGBA) {
	for i := 1; i < len(pts); i++ {
		rl.DrawLine3D(vec(transformPoint(m, pts[i-1])), vec(transformPoint(m, pts[i])), col)
	}
}

func (f *Facade) drawSurface(n *render.Node, world mgl64.Mat4) {
	if len(n.Vertices) != n.Cols*n.Rows {
		return
	}
	at := func(r, c int) render.Vec3 { return transformPoint(world, n.Vertices[r*n.Cols+c]) }
	for r := 0; r < n.Rows; r++ {
		for c := 0; c < n.Cols; c++ {
			p := at(r, c)
			col := f.tint(n.Color, n.Opacity, p)
			if c+1 < n.Cols {
				rl.DrawLine3D(vec(p), vec(at(r, c+1)), col)
			}
			if r+1 < n.Rows {
				rl.DrawLine3D(vec(p), vec(at(r+1, c)), col)
			}
		}
	}
}

func (f *Facade) drawGrid(n *render.Node, world mgl64.Mat4) {
	if n.Divisions <= 0 {
		return
	}
	half := n.Extent / 2
	step := n.Extent / float64(n.Divisions)
	for i := 0; i <= n.Divisions; i++ {
		v := -half + float64(i)*step
		c := n.Color2
		if math.Abs(v) < step/2 {
			c = n.Color
		}
		a, b := transformPoint(world, render.Vec3{-half, 0, v}), transformPoint(world, render.Vec3{half, 0, v})
		rl.DrawLine3D(vec(a), vec(b), f.tint(c, n.Opacity, render.Vec3{0, a.Y(), v}))
		a, b = transformPoint(world, render.Vec3{v, 0, -half}), transformPoint(world, render.Vec3{v, 0, half})
		rl.DrawLine3D(vec(a), vec(b), f.tint(c, n.Opacity, render.Vec3{v, a.Y(), 0}))
	}
}

// drawGlows adds a soft halo over every emissive object. Bloom strength
// sets the halo opacity.
func (f *Facade) drawGlows(cam rl.Camera3D) {
	if len(f.glows) == 0 {
		return
	}
	alpha := math.Min(0.15+f.fx.BloomStrength*0.2, 0.6)
	rl.BeginBlendMode(rl.BlendAdditive)
	for _, g := range f.glows {
		rl.DrawBillboard(cam, f.glowTex, g.pos, g.radius, rgba(g.color, alpha))
	}
	rl.EndBlendMode()
}

func (f *Facade) drawGrain() {
	if f.fx.Grain <= 0 {
		return
	}
	w, h := rl.GetScreenWidth(), rl.GetScreenHeight()
	if w <= 0 || h <= 0 {
		return
	}
	n := int(float64(grainDots) * f.fx.Grain)
	for i := 0; i < n; i++ {
		v := uint8(f.rand.Intn(256))
		rl.DrawPixel(int32(f.rand.Intn(w)), int32(f.rand.Intn(h)), rl.NewColor(v, v, v, uint8(40*f.fx.Grain)))
	}
}

// Close unloads every GPU texture. The window itself belongs to the host.
func (f *Facade) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	f.root.RemoveChildren()
	for k, tex := range f.textures {
		rl.UnloadTexture(tex)
		delete(f.textures, k)
	}
	if f.bgImage != nil {
		rl.UnloadTexture(f.bgTex)
		f.bgImage = nil
	}
	rl.UnloadTexture(f.glowTex)
	return nil
}

var _ render.Facade = (*Facade)(nil)
