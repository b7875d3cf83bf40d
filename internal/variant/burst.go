package variant

import (
	"math"
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

// burstBound is the distance at which a radial particle restarts at the
// origin.
const burstBound = 20.0

type ejecta struct {
	vel vec3
}

type supernova struct {
	points *render.Node
	shell  []ejecta
}

func buildSupernova(cfg *config.Vibe, env *Env) ([]*render.Node, *supernova) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	group := render.NewGroup("supernova")
	points := render.NewPoints("ejecta", 0.2, n)
	s := &supernova{points: points, shell: make([]ejecta, n)}
	for i := range s.shell {
		s.shell[i].vel = unitVector(r).Mul(between(r, 0.2, 0.5))
		points.SetInstanceColor(i, p.at(i))
	}
	group.AddChild(points)
	return []*render.Node{group}, s
}

func stepSupernova(s *supernova, _ Tick, cfg *config.Vibe, _ *Env) {
	in := intensity(cfg)
	for i, e := range s.shell {
		pos := &s.points.Instances[i].Position
		*pos = pos.Add(e.vel.Mul(in))
		if pos.Len() > burstBound {
			*pos = vec3{}
		}
	}
}

const (
	shellParticles = 100
	shellLife      = 1.5
	sparkGravity   = 0.003
	sparkDrag      = 0.98
)

type spark struct {
	vel   vec3
	shell int
}

type shell struct {
	center vec3
	age    float64
}

// fireworks splits the particles into shells of about a hundred that each
// burst from a random point and relaunch once they burn out.
type fireworks struct {
	points *render.Node
	sparks []spark
	shells []shell
	colors palette
}

func buildFireworks(cfg *config.Vibe, env *Env) ([]*render.Node, *fireworks) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	shells := n / shellParticles
	if shells < 1 {
		shells = 1
	}
	points := render.NewPoints("fireworks", 0.12, n)
	s := &fireworks{points: points, sparks: make([]spark, n), shells: make([]shell, shells), colors: p}
	for i := range s.sparks {
		s.sparks[i].shell = i % shells
	}
	for j := range s.shells {
		s.launch(j, r)
		// Stagger the first bursts.
		s.shells[j].age = r.Float64() * shellLife
	}
	return []*render.Node{points}, s
}

func (s *fireworks) launch(j int, r *rand.Rand) {
	sh := &s.shells[j]
	sh.center = vec3{spread(r, 30), between(r, 5, 15), spread(r, 20)}
	sh.age = 0
	col := s.colors.random(r)
	for i := range s.sparks {
		if s.sparks[i].shell != j {
			continue
		}
		s.sparks[i].vel = unitVector(r).Mul(between(r, 0.1, 0.3))
		s.points.SetInstance(i, render.At(sh.center.Elem()))
		s.points.SetInstanceColor(i, col)
	}
}

func stepFireworks(s *fireworks, tick Tick, cfg *config.Vibe, env *Env) {
	in := intensity(cfg)
	for i := range s.sparks {
		sp := &s.sparks[i]
		sp.vel[1] -= sparkGravity
		sp.vel = sp.vel.Mul(sparkDrag)
		inst := &s.points.Instances[i]
		inst.Position = inst.Position.Add(sp.vel.Mul(in))
	}
	for j := range s.shells {
		s.shells[j].age += 0.01 + tick.Delta
		if s.shells[j].age > shellLife {
			s.launch(j, env.Rand)
		}
	}
}

// motes is the ambient particle cloud every unresolvable configuration
// falls back to.
type motes struct {
	points *render.Node
	drift  []bob
}

type bob struct {
	base  vec3
	phase float64
}

func buildParticles(cfg *config.Vibe, env *Env) ([]*render.Node, *motes) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	points := render.NewBatch("particles", render.ShapeSphere, uniform(0.1), "", n)
	s := &motes{points: points, drift: make([]bob, n)}
	for i := range s.drift {
		s.drift[i] = bob{
			base:  vec3{spread(r, 30), spread(r, 30), spread(r, 30)},
			phase: r.Float64() * 2 * math.Pi,
		}
		points.SetInstance(i, render.At(s.drift[i].base.Elem()))
		points.SetInstanceColor(i, p.random(r))
	}
	return []*render.Node{points}, s
}

func stepParticles(s *motes, tick Tick, _ *config.Vibe, _ *Env) {
	for i, d := range s.drift {
		s.points.Instances[i].Position = d.base.Add(vec3{0, math.Sin(tick.Time+d.phase) * 0.5, 0})
	}
	s.points.Rotation = render.Euler(0, tick.Time*0.05, 0)
}
