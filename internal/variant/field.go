package variant

import (
	"math"
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

type orb struct {
	rest  vec3
	size  float64
	phase float64
}

// spheres is a loose field of palette spheres that breathe and bob.
type spheres struct {
	balls *render.Node
	orbs  []orb
}

func buildSpheres(cfg *config.Vibe, env *Env) ([]*render.Node, *spheres) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	balls := render.NewBatch("spheres", render.ShapeSphere, uniform(1), materialOf(cfg), n)
	s := &spheres{balls: balls, orbs: make([]orb, n)}
	for i := range s.orbs {
		s.orbs[i] = orb{
			rest:  vec3{spread(r, 20), spread(r, 20), spread(r, 20)},
			size:  sizeOf(cfg, r),
			phase: r.Float64() * 2 * math.Pi,
		}
		balls.SetInstanceColor(i, p.random(r))
	}
	stepSpheres(s, Tick{}, cfg, nil)
	return []*render.Node{balls}, s
}

func stepSpheres(s *spheres, tick Tick, _ *config.Vibe, _ *Env) {
	t := tick.Time
	for i, o := range s.orbs {
		inst := &s.balls.Instances[i]
		inst.Position = o.rest.Add(vec3{0, math.Sin(t+o.phase) * 0.5, 0})
		inst.Scale = uniform(o.size * (1 + 0.2*math.Sin(2*t+o.phase)))
	}
}

type dust struct {
	rest  vec3
	phase float64
}

// nebula clusters points into a few lobes, one palette color each, and
// slowly swells each point about its rest position.
type nebula struct {
	points *render.Node
	motes  []dust
}

func buildNebulaCloud(cfg *config.Vibe, env *Env) ([]*render.Node, *nebula) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	lobes := make([]vec3, len(p))
	for i := range lobes {
		lobes[i] = vec3{spread(r, 16), spread(r, 8), spread(r, 10)}
	}
	points := render.NewPoints("nebulaCloud", 0.12, n)
	s := &nebula{points: points, motes: make([]dust, n)}
	for i := range s.motes {
		lobe := i % len(lobes)
		offset := vec3{r.NormFloat64(), r.NormFloat64(), r.NormFloat64()}.Mul(3)
		s.motes[i] = dust{rest: lobes[lobe].Add(offset), phase: r.Float64() * 2 * math.Pi}
		points.SetInstance(i, render.At(s.motes[i].rest.Elem()))
		points.SetInstanceColor(i, p[lobe])
	}
	return []*render.Node{points}, s
}

func stepNebulaCloud(s *nebula, tick Tick, _ *config.Vibe, _ *Env) {
	t := tick.Time
	for i, m := range s.motes {
		s.points.Instances[i].Position = m.rest.Mul(1 + 0.05*math.Sin(t+m.phase))
	}
	s.points.Rotation = render.Euler(0, t*0.02, 0)
}

const crystalHold = 1.5

type crystal struct {
	dir    vec3
	length float64
	width  float64
	growth float64
	rate   float64
}

func (c *crystal) seed(r *rand.Rand, cfg *config.Vibe) {
	c.dir = unitVector(r)
	c.length = between(r, 2, 8)
	c.width = sizeOf(cfg, r)
	c.growth = 0
	c.rate = between(r, 0.002, 0.01)
}

// crystals grow spikes out of the origin; a fully grown spike holds for a
// while, then is replaced by a new seed.
type crystals struct {
	spikes *render.Node
	growth []crystal
}

func buildCrystalGrowth(cfg *config.Vibe, env *Env) ([]*render.Node, *crystals) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	spikes := render.NewBatch("crystalGrowth", render.ShapeOcta, uniform(1), render.Material(config.MaterialGlass), n)
	s := &crystals{spikes: spikes, growth: make([]crystal, n)}
	for i := range s.growth {
		s.growth[i].seed(r, cfg)
		s.growth[i].growth = r.Float64() * crystalHold
		spikes.SetInstanceColor(i, p.random(r))
	}
	s.place()
	return []*render.Node{spikes}, s
}

func (s *crystals) place() {
	for i, c := range s.growth {
		g := math.Min(c.growth, 1)
		inst := &s.spikes.Instances[i]
		inst.Position = c.dir.Mul(g * c.length / 2)
		inst.Rotation = render.FaceDirection(c.dir)
		inst.Scale = vec3{c.width, c.width, math.Max(g*c.length, 1e-3)}
	}
}

func stepCrystalGrowth(s *crystals, _ Tick, cfg *config.Vibe, env *Env) {
	in := math.Max(intensity(cfg), 0.1)
	for i := range s.growth {
		c := &s.growth[i]
		c.growth += c.rate * in
		if c.growth > crystalHold {
			c.seed(env.Rand, cfg)
		}
	}
	s.place()
}

type weed struct {
	rest   vec3
	offset float64
}

type abyss struct {
	stalks *render.Node
	weeds  []weed
}

func buildBioluminescentAbyss(cfg *config.Vibe, env *Env) ([]*render.Node, *abyss) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	stalks := render.NewBatch("abyss", render.ShapeCylinder, vec3{0.05, 5, 0.05}, render.Material(config.MaterialNeon), n)
	s := &abyss{stalks: stalks, weeds: make([]weed, n)}
	for i := range s.weeds {
		s.weeds[i] = weed{rest: vec3{spread(r, 30), -5, spread(r, 30)}, offset: r.Float64() * math.Pi}
		stalks.SetInstance(i, render.At(s.weeds[i].rest.Elem()))
		stalks.SetInstanceColor(i, p.random(r))
	}
	return []*render.Node{stalks}, s
}

// stepBioluminescentAbyss sways each stalk about its root.
func stepBioluminescentAbyss(s *abyss, tick Tick, _ *config.Vibe, _ *Env) {
	for i, w := range s.weeds {
		a := tick.Time + w.offset
		s.stalks.Instances[i].Rotation = render.Euler(math.Sin(a)*0.2, 0, math.Cos(a)*0.2)
	}
}

const (
	flashChance = 0.05
	flashDecay  = 0.8
	cloudDrift  = 0.02
	cloudWidth  = 50.0
)

type storm struct {
	clouds    *render.Node
	lightning *render.Node
}

func buildThunderstorm(cfg *config.Vibe, env *Env) ([]*render.Node, *storm) {
	n := count(cfg)
	r := env.Rand
	clouds := render.NewBatch("clouds", render.ShapeSphere, uniform(1), render.Material(config.MaterialMatte), n)
	clouds.Opacity = 0.6
	for i := 0; i < n; i++ {
		t := render.At(spread(r, cloudWidth), between(r, 10, 15), spread(r, 30))
		t.Scale = vec3{between(r, 2, 5), between(r, 1, 2), between(r, 2, 5)}
		clouds.SetInstance(i, t)
		clouds.SetInstanceColor(i, cloudGray)
	}
	lightning := render.NewLight("lightning", render.LightPoint, render.White, 0)
	lightning.Range = 100
	return []*render.Node{clouds, lightning}, &storm{clouds: clouds, lightning: lightning}
}

// stepThunderstorm flashes the shared light at random and otherwise lets it
// decay geometrically.
func stepThunderstorm(s *storm, _ Tick, cfg *config.Vibe, env *Env) {
	r := env.Rand
	if r.Float64() > 1-flashChance {
		s.lightning.Intensity = between(r, 5, 10)
		s.lightning.Position = vec3{spread(r, 20), 10, spread(r, 20)}
	} else {
		s.lightning.Intensity *= flashDecay
	}

	dx := cloudDrift * intensity(cfg)
	for i := range s.clouds.Instances {
		pos := &s.clouds.Instances[i].Position
		pos[0] = wrapAbove(pos.X()+dx, cloudWidth/2, -cloudWidth/2)
	}
}
