package variant

import (
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	worldRadius     = 3.0
	worldStart      = 10.0
	worldImpact     = -3.0
	worldApproach   = 0.05
	shardSize       = 0.2
	shardMaxSpeed   = 0.5
	shatterDuration = 3.0
	shatterTick     = 0.01
)

type collisionPhase uint8

const (
	phaseApproach collisionPhase = iota
	phaseShatter
)

func (p collisionPhase) String() string {
	if p == phaseShatter {
		return "shatter"
	}
	return "approach"
}

type shard struct {
	vel vec3
}

// collision is two worlds closing on each other until they meet, then a
// debris cloud flying out for a fixed time before the cycle restarts.
type collision struct {
	left, right *render.Node
	debris      *render.Node
	shards      []shard
	phase       collisionPhase
	timer       float64
}

func buildCollidingWorlds(cfg *config.Vibe, env *Env) ([]*render.Node, *collision) {
	p := paletteOf(cfg)
	n := count(cfg)

	group := render.NewGroup("collidingWorlds")
	left := render.NewMesh("world-left", render.ShapeSphere, uniform(worldRadius), render.Material(config.MaterialPhysical), p.at(0))
	right := render.NewMesh("world-right", render.ShapeSphere, uniform(worldRadius), render.Material(config.MaterialPhysical), p.at(1))
	debris := render.NewBatch("debris", render.ShapeTetra, uniform(shardSize), "", n)
	debris.Visible = false
	for i := 0; i < n; i++ {
		debris.SetInstanceColor(i, p.random(env.Rand))
	}
	group.AddChild(left)
	group.AddChild(right)
	group.AddChild(debris)

	s := &collision{left: left, right: right, debris: debris, shards: make([]shard, n)}
	s.approach()
	s.scatter(env.Rand)
	return []*render.Node{group}, s
}

func (s *collision) approach() {
	s.phase = phaseApproach
	s.timer = 0
	s.left.Position = vec3{-worldStart, 0, 0}
	s.right.Position = vec3{worldStart, 0, 0}
	s.left.Visible = true
	s.right.Visible = true
	s.debris.Visible = false
}

// scatter puts every shard back at the origin with a fresh random
// velocity.
func (s *collision) scatter(r *rand.Rand) {
	for i := range s.shards {
		s.shards[i].vel = unitVector(r).Mul(r.Float64() * shardMaxSpeed)
		s.debris.SetInstance(i, render.Identity())
	}
}

func (s *collision) shatter(r *rand.Rand) {
	s.phase = phaseShatter
	s.timer = 0
	s.left.Visible = false
	s.right.Visible = false
	s.debris.Visible = true
	s.scatter(r)
}

func stepCollidingWorlds(s *collision, tick Tick, cfg *config.Vibe, env *Env) {
	in := intensity(cfg)
	switch s.phase {
	case phaseApproach:
		s.left.Position[0] += worldApproach * in
		s.right.Position[0] -= worldApproach * in
		if s.left.Position[0] >= worldImpact {
			s.shatter(env.Rand)
		}
	case phaseShatter:
		for i := range s.shards {
			inst := &s.debris.Instances[i]
			inst.Position = inst.Position.Add(s.shards[i].vel.Mul(in))
			spin := tick.Time * float64(i)
			inst.Rotation = render.Euler(spin, spin, spin)
		}
		s.timer += shatterTick
		if s.timer > shatterDuration {
			s.approach()
		}
	}
}
