package viz

import (
	"math"
	"sync"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/render"
)

// Terminal is a render backend drawing onto a Braille canvas. Every Render
// projects the scene from the camera and replaces the last frame.
type Terminal struct {
	mu     sync.Mutex
	root   *render.Node
	camera *render.Camera
	fx     render.PostFX
	bg     render.Background
	canvas *Canvas
	frame  string
	frames int
	points int
	closed bool
}

// NewTerminal creates a backend w columns by h rows.
func NewTerminal(w, h int) *Terminal {
	return &Terminal{
		root:   render.NewGroup("scene"),
		camera: render.NewCamera(),
		canvas: NewCanvas(w, h),
	}
}

func (t *Terminal) Scene() *render.Node { return t.root }
func (t *Terminal) Camera() *render.Camera { return t.camera }
func (t *Terminal) PostFX() *render.PostFX { return &t.fx }
func (t *Terminal) Background() render.Background { return t.bg }

func (t *Terminal) SetBackground(bg render.Background) {
	t.bg = bg
}

func (t *Terminal) Render() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return render.ErrClosed
	}
	c := t.canvas
	c.Clear()
	w, h := c.Width*2, c.Height*4

	t.drawGrids(w, h)
	pts := render.Project(t.root, t.camera, w, h)
	for _, p := range pts {
		col := t.shade(p)
		x, y := int(p.X), int(p.Y)
		if p.Glyph != "" {
			c.PlotGlyph(x, y, glyphRune(p.Glyph), col, p.Depth)
			continue
		}
		if r := int(math.Round(p.Size)); r > 0 {
			c.Disc(x, y, min(r, 6), col)
		} else {
			c.Plot(x, y, col)
		}
	}
	t.points = len(pts)
	t.frame = c.Render()
	t.frames++
	return nil
}

// shade fades a point toward the fog color with distance and brightens it
// with bloom.
func (t *Terminal) shade(p render.Point) colorful.Color {
	col := p.Color
	if t.fx.BloomStrength > 0 {
		col = col.BlendRgb(render.White, math.Min(t.fx.BloomStrength*0.1, 0.3))
	}
	if fog := t.bg.Fog; fog != nil {
		col = col.BlendRgb(fog.Color, fog.Factor(p.Depth))
	}
	if p.Alpha < 1 {
		col = t.bg.Color1.BlendRgb(col, math.Max(p.Alpha, 0))
	}
	return col
}

func (t *Terminal) drawGrids(w, h int) {
	vp := t.camera.Projection(float64(w) / float64(h)).Mul4(t.camera.View())
	for _, n := range t.root.Children() {
		if n.Type != render.NodeGrid || !n.Visible || n.Divisions <= 0 {
			continue
		}
		half := n.Extent / 2
		step := n.Extent / float64(n.Divisions)
		// A terminal cannot resolve every division.
		for step < n.Extent/20 {
			step *= 2
		}
		y := n.Position.Y()
		for v := -half; v <= half; v += step {
			t.line(vp, w, h, render.Vec3{-half, y, v}, render.Vec3{half, y, v}, n.Color2)
			t.line(vp, w, h, render.Vec3{v, y, -half}, render.Vec3{v, y, half}, n.Color2)
		}
	}
}

func (t *Terminal) line(vp mgl64.Mat4, w, h int, a, b render.Vec3, col colorful.Color) {
	x0, y0, _, ok0 := t.camera.ProjectPoint(a, vp, w, h)
	x1, y1, _, ok1 := t.camera.ProjectPoint(b, vp, w, h)
	if !ok0 || !ok1 || !near(x0, y0, w, h) || !near(x1, y1, w, h) {
		return
	}
	t.canvas.DrawLine(int(x0), int(y0), int(x1), int(y1), col)
}

// near reports whether a projected endpoint is close enough to the canvas
// to be worth rasterizing.
func near(x, y float64, w, h int) bool {
	fw, fh := float64(w), float64(h)
	return x > -fw && x < 2*fw && y > -fh && y < 2*fh
}

// glyphRune picks the rune to draw for a glyph texture key.
func glyphRune(key string) rune {
	for _, r := range glyph.Symbol(key) {
		return r
	}
	return '*'
}

// Frame returns the last rendered frame.
func (t *Terminal) Frame() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

// Resize replaces the canvas with one w columns by h rows.
func (t *Terminal) Resize(w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if w <= 0 || h <= 0 || (w == t.canvas.Width && h == t.canvas.Height) {
		return
	}
	t.canvas = NewCanvas(w, h)
}

func (t *Terminal) Canvas() *Canvas {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.canvas
}

func (t *Terminal) Frames() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frames
}

// Points is the number of projected points in the last frame.
func (t *Terminal) Points() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.points
}

func (t *Terminal) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	t.root.RemoveChildren()
	return nil
}

var _ render.Facade = (*Terminal)(nil)
