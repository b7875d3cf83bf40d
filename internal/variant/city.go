package variant

import (
	"math"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	cityDepth = 50.0
	roadGap   = 2.0
)

type tower struct {
	x, z, height, width float64
	speed               float64
}

func (tw tower) transform() render.Transform {
	t := render.At(tw.x, tw.height/2-10, tw.z)
	t.Scale = vec3{tw.width, tw.height, tw.width}
	return t
}

type neonCity struct {
	blocks *render.Node
	towers []tower
}

func buildNeonCity(cfg *config.Vibe, env *Env) ([]*render.Node, *neonCity) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	blocks := render.NewBatch("neonCity", render.ShapeBox, uniform(1), render.Material(config.MaterialNeon), n)
	s := &neonCity{blocks: blocks, towers: make([]tower, n)}
	for i := range s.towers {
		x := spread(r, 40)
		// Keep a road clear down the middle.
		if x > 0 {
			x += roadGap
		} else {
			x -= roadGap
		}
		s.towers[i] = tower{
			x:      x,
			z:      spread(r, 2*cityDepth),
			height: between(r, 1, 9),
			width:  1,
			speed:  1,
		}
		blocks.SetInstance(i, s.towers[i].transform())
		blocks.SetInstanceColor(i, p.random(r))
	}
	return []*render.Node{blocks}, s
}

func stepNeonCity(s *neonCity, _ Tick, cfg *config.Vibe, _ *Env) {
	in := intensity(cfg)
	for i := range s.towers {
		tw := &s.towers[i]
		tw.z = wrapAbove(tw.z+tw.speed*in, cityDepth, -cityDepth)
		s.blocks.SetInstance(i, tw.transform())
	}
}

type window struct {
	base    render.Color
	flicker float64
	phase   float64
}

// cityLights is a night skyline seen from above: a carpet of lit windows
// scrolling past, each pulsing at its own rate.
type cityLights struct {
	points  *render.Node
	windows []window
}

func buildCityLights(cfg *config.Vibe, env *Env) ([]*render.Node, *cityLights) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	points := render.NewPoints("cityLights", 0.12, n)
	s := &cityLights{points: points, windows: make([]window, n)}
	for i := range s.windows {
		s.windows[i] = window{
			base:    p.random(r),
			flicker: between(r, 0.5, 3),
			phase:   r.Float64() * 2 * math.Pi,
		}
		// Quantize to a street grid.
		x := math.Round(spread(r, 60)/1.5) * 1.5
		z := math.Round(spread(r, 2*cityDepth)/1.5) * 1.5
		points.SetInstance(i, render.At(x, -8, z))
		points.SetInstanceColor(i, s.windows[i].base)
	}
	return []*render.Node{points}, s
}

func stepCityLights(s *cityLights, tick Tick, cfg *config.Vibe, _ *Env) {
	dz := 0.2 * intensity(cfg)
	for i, w := range s.windows {
		inst := &s.points.Instances[i]
		inst.Position[2] = wrapAbove(inst.Position.Z()+dz, cityDepth, -cityDepth)
		glow := 0.6 + 0.4*math.Sin(tick.Time*w.flicker+w.phase)
		inst.Color = black.BlendRgb(w.base, glow)
	}
}

const (
	roadLanes   = 4
	slabLength  = 2.0
	roadBreak   = 0.0
	roadNear    = 20.0
	roadLevel   = -5.0
	roadSpeed   = 0.3
	rubbleSpeed = 0.08
)

type slab struct {
	x, z, y float64
	tilt    vec3
	spin    vec3
}

// fractureRoad streams road slabs toward the camera; past the break line
// they crack loose, tumble and fall before being recycled at the far end.
type fractureRoad struct {
	slabs  *render.Node
	pieces []slab
	length float64
}

func buildFractureRoad(cfg *config.Vibe, env *Env) ([]*render.Node, *fractureRoad) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	rows := (n + roadLanes - 1) / roadLanes
	slabs := render.NewBatch("fractureRoad", render.ShapeBox, vec3{1.9, 0.3, slabLength * 0.95}, materialOf(cfg), n)
	s := &fractureRoad{slabs: slabs, pieces: make([]slab, n), length: math.Max(float64(rows)*slabLength, roadNear*2)}
	for i := range s.pieces {
		lane, row := i%roadLanes, i/roadLanes
		s.pieces[i] = slab{
			x:    (float64(lane) - float64(roadLanes-1)/2) * 2,
			z:    roadNear - float64(row)*slabLength,
			y:    roadLevel,
			spin: vec3{spread(r, 0.06), spread(r, 0.06), spread(r, 0.06)},
		}
		slabs.SetInstanceColor(i, p.random(r))
	}
	s.place()
	return []*render.Node{slabs}, s
}

func (s *fractureRoad) place() {
	for i, sl := range s.pieces {
		t := render.At(sl.x, sl.y, sl.z)
		t.Rotation = render.Euler(sl.tilt.Elem())
		s.slabs.SetInstance(i, t)
	}
}

func stepFractureRoad(s *fractureRoad, _ Tick, cfg *config.Vibe, _ *Env) {
	dz := roadSpeed * intensity(cfg)
	for i := range s.pieces {
		sl := &s.pieces[i]
		sl.z += dz
		if sl.z > roadBreak {
			sl.y -= rubbleSpeed
			sl.tilt = sl.tilt.Add(sl.spin)
		}
		if sl.z > roadNear {
			sl.z -= s.length
			sl.y = roadLevel
			sl.tilt = vec3{}
		}
	}
	s.place()
}

const (
	ringGap   = 2.0
	ringTwist = 0.1
	warpSpeed = 0.2
	warpNear  = 5.0
)

type ring struct {
	node *render.Node
	roll float64
}

// warpTunnel flies hexagonal rings past the camera and recycles each one
// to the far end of the tunnel.
type warpTunnel struct {
	rings  []ring
	length float64
}

func buildWarpTunnel(cfg *config.Vibe, _ *Env) ([]*render.Node, *warpTunnel) {
	p := paletteOf(cfg)
	n := count(cfg)
	group := render.NewGroup("warpTunnel")
	s := &warpTunnel{rings: make([]ring, n), length: float64(n) * ringGap}
	for i := range s.rings {
		node := render.NewMesh("ring", render.ShapeRing, vec3{2, 2.2, 6}, render.Material(config.MaterialNeon), p.at(i))
		node.Opacity = 0.8
		node.Position = vec3{0, 0, -float64(i) * ringGap}
		s.rings[i] = ring{node: node, roll: float64(i) * ringTwist}
		node.Rotation = render.Euler(0, 0, s.rings[i].roll)
		group.AddChild(node)
	}
	return []*render.Node{group}, s
}

func stepWarpTunnel(s *warpTunnel, _ Tick, cfg *config.Vibe, _ *Env) {
	dz := warpSpeed * intensity(cfg)
	for i := range s.rings {
		rg := &s.rings[i]
		z := rg.node.Position.Z() + dz
		if z > warpNear {
			z -= s.length
		}
		rg.node.Position[2] = z
		rg.roll += 0.01
		rg.node.Rotation = render.Euler(0, 0, rg.roll)
	}
}
