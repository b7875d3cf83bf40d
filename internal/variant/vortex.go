package variant

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	funnelFloor = -10.0
	funnelCeil  = 10.0
	funnelRise  = 0.02
	funnelSpin  = 0.05
)

type swirl struct {
	angle, y, speed float64
}

// funnelRadius widens the cone toward the top.
func funnelRadius(y float64) float64 {
	return 1 + (y-funnelFloor)*0.3
}

func (w swirl) position() vec3 {
	r := funnelRadius(w.y)
	return vec3{math.Cos(w.angle) * r, w.y, math.Sin(w.angle) * r}
}

type tornado struct {
	points *render.Node
	motes  []swirl
	spin   float64
}

func buildTornado(cfg *config.Vibe, env *Env) ([]*render.Node, *tornado) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	points := render.NewPoints("tornado", 0.2, n)
	s := &tornado{points: points, motes: make([]swirl, n)}
	for i := range s.motes {
		s.motes[i] = swirl{
			angle: r.Float64() * 2 * math.Pi,
			y:     spread(r, funnelCeil-funnelFloor),
			speed: between(r, 0.05, 0.1),
		}
		points.SetInstance(i, render.At(s.motes[i].position().Elem()))
		points.SetInstanceColor(i, p.at(0))
	}
	return []*render.Node{points}, s
}

func stepTornado(s *tornado, _ Tick, cfg *config.Vibe, _ *Env) {
	in := intensity(cfg)
	for i := range s.motes {
		m := &s.motes[i]
		m.angle += m.speed * in
		m.y = wrapAbove(m.y+funnelRise, funnelCeil, funnelFloor)
		s.points.Instances[i].Position = m.position()
	}
	s.spin += funnelSpin
	s.points.Rotation = render.Euler(0, s.spin, 0)
}

type blackHole struct {
	disk *render.Node
	spin float64
}

func buildBlackHole(cfg *config.Vibe, env *Env) ([]*render.Node, *blackHole) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	group := render.NewGroup("blackHole")
	core := render.NewMesh("core", render.ShapeSphere, uniform(2), "", black)
	disk := render.NewPoints("accretion", 0.1, n)
	for i := 0; i < n; i++ {
		angle := r.Float64() * 2 * math.Pi
		radius := between(r, 3, 11)
		disk.SetInstance(i, render.At(math.Cos(angle)*radius, spread(r, 0.2), math.Sin(angle)*radius))
		disk.SetInstanceColor(i, p.at(i))
	}
	group.AddChild(core)
	group.AddChild(disk)
	return []*render.Node{group}, &blackHole{disk: disk}
}

func stepBlackHole(s *blackHole, _ Tick, cfg *config.Vibe, _ *Env) {
	s.spin += 0.02 * intensity(cfg)
	s.disk.Rotation = render.Euler(0, s.spin, 0)
}

const (
	helixRadius = 3.0
	helixHeight = 20.0
	helixTwist  = 0.3
)

type rung struct {
	phase, y float64
}

// helix is a double strand; even slots form one strand, odd slots the other.
type helix struct {
	points *render.Node
	rungs  []rung
}

func buildDNASpiral(cfg *config.Vibe, _ *Env) ([]*render.Node, *helix) {
	p := paletteOf(cfg)
	n := count(cfg)
	points := render.NewPoints("dnaSpiral", 0.15, n)
	s := &helix{points: points, rungs: make([]rung, n)}
	perStrand := math.Max(1, math.Ceil(float64(n)/2))
	for i := range s.rungs {
		k := float64(i / 2)
		s.rungs[i] = rung{
			phase: k*helixTwist + float64(i%2)*math.Pi,
			y:     k/perStrand*helixHeight - helixHeight/2,
		}
		points.SetInstanceColor(i, p.at(i%2))
	}
	stepDNASpiral(s, Tick{}, cfg, nil)
	return []*render.Node{points}, s
}

func stepDNASpiral(s *helix, tick Tick, _ *config.Vibe, _ *Env) {
	for i, r := range s.rungs {
		a := r.phase + tick.Time
		s.points.Instances[i].Position = vec3{math.Cos(a) * helixRadius, r.y, math.Sin(a) * helixRadius}
	}
}

type orbit struct {
	tilt   mgl64.Quat
	radius float64
	speed  float64
	phase  float64
	scale  float64
}

type orbits struct {
	bodies *render.Node
	paths  []orbit
}

func buildOrbits(cfg *config.Vibe, env *Env) ([]*render.Node, *orbits) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	bodies := render.NewBatch("orbits", render.ShapeSphere, uniform(1), materialOf(cfg), n)
	s := &orbits{bodies: bodies, paths: make([]orbit, n)}
	for i := range s.paths {
		radius := between(r, 3, 15)
		s.paths[i] = orbit{
			tilt:   render.Euler(spread(r, 0.6), 0, spread(r, 0.6)),
			radius: radius,
			speed:  between(r, 2, 5) / math.Sqrt(radius),
			phase:  r.Float64() * 2 * math.Pi,
			scale:  sizeOf(cfg, r),
		}
		bodies.SetInstanceColor(i, p.random(r))
	}
	stepOrbits(s, Tick{}, cfg, nil)
	return []*render.Node{bodies}, s
}

func stepOrbits(s *orbits, tick Tick, _ *config.Vibe, _ *Env) {
	for i, o := range s.paths {
		a := o.phase + tick.Time*o.speed
		local := vec3{math.Cos(a) * o.radius, 0, math.Sin(a) * o.radius}
		inst := &s.bodies.Instances[i]
		inst.Position = o.tilt.Rotate(local)
		inst.Scale = uniform(o.scale)
	}
}
