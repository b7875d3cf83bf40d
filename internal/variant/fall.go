package variant

import (
	"math"
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	fallFloor = -20.0
	fallTop   = 20.0
)

type voxel struct {
	speed float64
}

type voxelFall struct {
	cubes  *render.Node
	voxels []voxel
}

func buildVoxelFall(cfg *config.Vibe, env *Env) ([]*render.Node, *voxelFall) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	cubes := render.NewBatch("voxelFall", render.ShapeBox, uniform(minSize(cfg)), materialOf(cfg), n)
	s := &voxelFall{cubes: cubes, voxels: make([]voxel, n)}
	for i := range s.voxels {
		s.voxels[i].speed = between(r, 0.05, 0.15)
		cubes.SetInstance(i, render.At(
			math.Floor(spread(r, 40)),
			math.Floor(spread(r, 40)),
			math.Floor(spread(r, 20)),
		))
		cubes.SetInstanceColor(i, p.random(r))
	}
	return []*render.Node{cubes}, s
}

func stepVoxelFall(s *voxelFall, _ Tick, _ *config.Vibe, _ *Env) {
	for i, v := range s.voxels {
		pos := &s.cubes.Instances[i].Position
		pos[1] = wrapBelow(pos.Y()-v.speed, fallFloor, fallTop)
	}
}

type pane struct {
	speed float64
	spin  vec3
	euler vec3
}

type glassRain struct {
	shards *render.Node
	panes  []pane
}

func buildGlassRain(cfg *config.Vibe, env *Env) ([]*render.Node, *glassRain) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	shards := render.NewBatch("glassRain", render.ShapeTetra, uniform(minSize(cfg)), render.Material(config.MaterialGlass), n)
	s := &glassRain{shards: shards, panes: make([]pane, n)}
	for i := range s.panes {
		s.panes[i] = pane{
			speed: between(r, 0.1, 0.3),
			spin:  vec3{r.Float64() * 0.05, r.Float64() * 0.05, 0},
		}
		shards.SetInstance(i, render.At(spread(r, 30), spread(r, 30), spread(r, 30)))
		shards.SetInstanceColor(i, p.random(r))
	}
	return []*render.Node{shards}, s
}

func stepGlassRain(s *glassRain, _ Tick, _ *config.Vibe, _ *Env) {
	for i := range s.panes {
		pn := &s.panes[i]
		inst := &s.shards.Instances[i]
		inst.Position[1] = wrapBelow(inst.Position.Y()-pn.speed, fallFloor, fallTop)
		pn.euler = pn.euler.Add(pn.spin)
		inst.Rotation = render.Euler(pn.euler.Elem())
	}
}

const (
	emberFloor = -5.0
	emberCeil  = 10.0
	emberWidth = 10.0
)

type ember struct {
	vel vec3
}

type embers struct {
	points *render.Node
	sparks []ember
}

func buildEmbers(cfg *config.Vibe, env *Env) ([]*render.Node, *embers) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	group := render.NewGroup("embers")
	points := render.NewPoints("sparks", 0.15, n)
	s := &embers{points: points, sparks: make([]ember, n)}
	for i := range s.sparks {
		s.sparks[i].vel = vec3{spread(r, 0.05), between(r, 0.05, 0.15), spread(r, 0.05)}
		points.SetInstance(i, emberSpawn(r))
		points.SetInstanceColor(i, p.at(0))
	}
	group.AddChild(points)
	return []*render.Node{group}, s
}

func emberSpawn(r *rand.Rand) render.Transform {
	return render.At(spread(r, emberWidth), emberFloor, spread(r, emberWidth))
}

func stepEmbers(s *embers, _ Tick, _ *config.Vibe, env *Env) {
	for i, e := range s.sparks {
		inst := &s.points.Instances[i]
		inst.Position = inst.Position.Add(e.vel)
		// Respawn across the whole footprint so sideways drift cannot
		// accumulate over cycles.
		if inst.Position.Y() > emberCeil {
			inst.Transform = emberSpawn(env.Rand)
		}
	}
}

const (
	rocketFloor = -15.0
	rocketCeil  = 25.0
	rocketClimb = 0.1
	plumeFade   = 0.02
)

type exhaust struct {
	vel  vec3
	life float64
}

// rocket is a single body climbing through the frame, trailing a plume of
// particles that cool from the first palette color to the second.
type rocket struct {
	body   *render.Node
	plume  *render.Node
	trail  []exhaust
	colors palette
}

func buildRocketLaunch(cfg *config.Vibe, env *Env) ([]*render.Node, *rocket) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	group := render.NewGroup("rocketLaunch")
	body := render.NewMesh("rocket", render.ShapeCylinder, vec3{0.5, 3, 0.5}, render.Material(config.MaterialMetallic), p.at(2))
	body.Position = vec3{0, rocketFloor, 0}
	plume := render.NewPoints("plume", 0.15, n)
	s := &rocket{body: body, plume: plume, trail: make([]exhaust, n), colors: p}
	for i := range s.trail {
		s.ignite(i, r)
		// Start part way through life so the plume is not one puff.
		s.trail[i].life = r.Float64()
		plume.SetInstanceColor(i, p.at(0))
	}
	group.AddChild(body)
	group.AddChild(plume)
	return []*render.Node{group}, s
}

func (s *rocket) ignite(i int, r *rand.Rand) {
	s.trail[i] = exhaust{
		vel:  vec3{spread(r, 0.1), between(r, -0.3, -0.1), spread(r, 0.1)},
		life: 1,
	}
	s.plume.SetInstance(i, render.At(0, s.body.Position.Y()-1.5, 0))
}

func stepRocketLaunch(s *rocket, _ Tick, cfg *config.Vibe, env *Env) {
	y := s.body.Position.Y() + rocketClimb*math.Max(intensity(cfg), 0.1)
	s.body.Position[1] = wrapAbove(y, rocketCeil, rocketFloor)
	for i := range s.trail {
		e := &s.trail[i]
		inst := &s.plume.Instances[i]
		inst.Position = inst.Position.Add(e.vel)
		e.life -= plumeFade
		if e.life <= 0 {
			s.ignite(i, env.Rand)
		}
		inst.Color = s.colors.at(0).BlendRgb(s.colors.at(1), 1-math.Max(e.life, 0))
	}
}
