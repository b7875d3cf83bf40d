package variant

import (
	"math"
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	castleBlocks   = 200
	siegeGravity   = 0.01
	siegeGround    = 0.0
	siegeParked    = -100.0
	siegeRespawnY  = -50.0
	siegeFirstWait = 200.0
	siegeNextWait  = 50.0
	rubbleFloor    = -10.0
	rubbleDrift    = 0.1
)

type block struct {
	destroyed bool
}

type arrow struct {
	pos, vel vec3
	delay    float64
	active   bool
}

// siege is a volley of arrows arcing into a block castle. Every arrow that
// comes down may knock one block loose.
type siege struct {
	castle *render.Node
	arrows *render.Node
	blocks []block
	volley []arrow
}

func buildSiegeFire(cfg *config.Vibe, env *Env) ([]*render.Node, *siege) {
	n := count(cfg)
	group := render.NewGroup("siegeFire")

	castle := render.NewBatch("castle", render.ShapeBox, uniform(1), render.Material(config.MaterialMatte), castleBlocks)
	idx := 0
	for x := -5; x <= 5 && idx < castleBlocks; x++ {
		for y := 0; y < 5 && idx < castleBlocks; y++ {
			for z := -2; z <= 2 && idx < castleBlocks; z++ {
				castle.SetInstance(idx, render.At(float64(x), float64(y)-5, float64(z)))
				castle.SetInstanceColor(idx, stoneGray)
				idx++
			}
		}
	}

	arrows := render.NewBatch("arrows", render.ShapeCone, vec3{0.05, 0.5, 0.05}, "", n)
	s := &siege{castle: castle, arrows: arrows, blocks: make([]block, castleBlocks), volley: make([]arrow, n)}
	for i := range s.volley {
		s.volley[i].load(env.Rand, siegeFirstWait)
		arrows.SetInstance(i, render.At(0, siegeParked, 0))
		arrows.SetInstanceColor(i, arrowBrown)
		arrows.SetInstanceHidden(i, true)
	}

	group.AddChild(castle)
	group.AddChild(arrows)
	return []*render.Node{group}, s
}

// load places an arrow in the launch volume and arms it after up to
// maxDelay ticks.
func (a *arrow) load(r *rand.Rand, maxDelay float64) {
	a.pos = vec3{spread(r, 20), -5, 20 + r.Float64()*10}
	a.vel = vec3{spread(r, 0.5), 0.5 + r.Float64()*0.5, -0.5 - r.Float64()*0.3}
	a.delay = r.Float64() * maxDelay
	a.active = false
}

func stepSiegeFire(s *siege, _ Tick, _ *config.Vibe, env *Env) {
	r := env.Rand
	for i := range s.volley {
		a := &s.volley[i]
		inst := &s.arrows.Instances[i]
		if a.delay > 0 {
			a.delay--
			continue
		}

		a.active = true
		a.vel[1] -= siegeGravity
		a.pos = a.pos.Add(a.vel)
		inst.Position = a.pos
		inst.Rotation = render.FaceDirection(a.vel)
		inst.Hidden = false

		// Only a descending arrow can hit; launches start below ground.
		if a.active && a.pos.Y() < siegeGround && a.vel.Y() < 0 {
			a.active = false
			a.pos[1] = siegeParked
			inst.Position = a.pos
			inst.Hidden = true
			s.strike(r.Intn(castleBlocks))
		}
		if a.pos.Y() < siegeRespawnY {
			a.load(r, siegeNextWait)
		}
	}

	for i := range s.blocks {
		if !s.blocks[i].destroyed {
			continue
		}
		if pos := &s.castle.Instances[i].Position; pos.Y() > rubbleFloor {
			pos[1] = math.Max(pos.Y()-rubbleDrift, rubbleFloor)
		}
	}
}

// strike destroys block i unless it is already rubble.
func (s *siege) strike(i int) {
	if s.blocks[i].destroyed {
		return
	}
	s.blocks[i].destroyed = true
	s.castle.SetInstanceColor(i, burnRed)
}

func (s *siege) destroyed() int {
	n := 0
	for _, b := range s.blocks {
		if b.destroyed {
			n++
		}
	}
	return n
}
