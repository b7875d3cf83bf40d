package variant

import (
	"math"
	"math/rand"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/render"
)

// glyphSprites builds n billboards cycling through the runes of textChar
// and the palette, grouped under one parent.
func glyphSprites(name string, cfg *config.Vibe, env *Env, n int) (*render.Node, []*render.Node) {
	p := paletteOf(cfg)
	runes := []rune(cfg.Geometry.TextChar)
	if len(runes) == 0 {
		runes = []rune{'*'}
	}
	cache := env.Glyphs
	if cache == nil {
		cache = glyph.Default()
	}
	group := render.NewGroup(name)
	sprites := make([]*render.Node, n)
	for i := range sprites {
		col := p.at(i)
		sp := render.NewSprite(name, cache.Texture(string(runes[i%len(runes)]), col))
		sp.Color = col
		sp.Scale = uniform(math.Max(sizeOf(cfg, env.Rand), minSize(cfg)) * 2)
		sprites[i] = sp
		group.AddChild(sp)
	}
	return group, sprites
}

const (
	geyserBase    = -5.0
	geyserFloor   = -10.0
	geyserGravity = 0.005
)

type jet struct {
	node *render.Node
	vel  vec3
}

// geyser throws glyphs up out of a vent; they arc over under gravity and
// are re-launched from the vent once they drop past the floor.
type geyser struct {
	jets []jet
}

func buildCharacterGeyser(cfg *config.Vibe, env *Env) ([]*render.Node, *geyser) {
	group, sprites := glyphSprites("characterGeyser", cfg, env, count(cfg))
	s := &geyser{jets: make([]jet, len(sprites))}
	for i, sp := range sprites {
		s.jets[i].node = sp
		s.launch(i, env.Rand)
	}
	return []*render.Node{group}, s
}

func (s *geyser) launch(i int, r *rand.Rand) {
	j := &s.jets[i]
	j.node.Position = vec3{0, geyserBase, 0}
	j.vel = vec3{spread(r, 0.5), between(r, 0.3, 0.6), spread(r, 0.5)}
}

func stepCharacterGeyser(s *geyser, _ Tick, _ *config.Vibe, env *Env) {
	for i := range s.jets {
		j := &s.jets[i]
		j.node.Position = j.node.Position.Add(j.vel)
		j.vel[1] -= geyserGravity
		if j.node.Position.Y() < geyserFloor {
			s.launch(i, env.Rand)
		}
	}
}

const (
	rainFloor   = -10.0
	rainTop     = 20.0
	rainDensity = 5
)

// rainCount is the number of falling columns: one per five configured
// entities.
func rainCount(cfg *config.Vibe) int {
	return (count(cfg) + rainDensity - 1) / rainDensity
}

type drop struct {
	node  *render.Node
	speed float64
}

type matrixRain struct {
	drops []drop
}

func buildMatrixRain(cfg *config.Vibe, env *Env) ([]*render.Node, *matrixRain) {
	r := env.Rand
	group, sprites := glyphSprites("matrixRain", cfg, env, rainCount(cfg))
	s := &matrixRain{drops: make([]drop, len(sprites))}
	for i, sp := range sprites {
		sp.Position = vec3{spread(r, 40), between(r, 10, 30), spread(r, 20)}
		s.drops[i] = drop{node: sp, speed: between(r, 0.1, 0.3)}
	}
	return []*render.Node{group}, s
}

func stepMatrixRain(s *matrixRain, _ Tick, _ *config.Vibe, _ *Env) {
	for _, d := range s.drops {
		d.node.Position[1] = wrapBelow(d.node.Position.Y()-d.speed, rainFloor, rainTop)
	}
}

type shrapnel struct {
	node *render.Node
	vel  vec3
}

// emojiBurst fires glyphs radially from the origin, restarting each one as
// it leaves the burst radius.
type emojiBurst struct {
	pieces []shrapnel
}

func buildEmojiExplosion(cfg *config.Vibe, env *Env) ([]*render.Node, *emojiBurst) {
	group, sprites := glyphSprites("emojiExplosion", cfg, env, count(cfg))
	s := &emojiBurst{pieces: make([]shrapnel, len(sprites))}
	for i, sp := range sprites {
		s.pieces[i] = shrapnel{node: sp, vel: unitVector(env.Rand).Mul(0.2)}
	}
	return []*render.Node{group}, s
}

func stepEmojiExplosion(s *emojiBurst, _ Tick, _ *config.Vibe, _ *Env) {
	for _, sh := range s.pieces {
		pos := sh.node.Position.Add(sh.vel)
		if pos.Len() > burstBound {
			pos = vec3{}
		}
		sh.node.Position = pos
	}
}

const shellRadius = 10.0

// asciiShell lays glyphs evenly over a sphere with the golden-angle spiral
// and turns the whole shell.
type asciiShell struct {
	group *render.Node
}

func buildASCIIShell(cfg *config.Vibe, env *Env) ([]*render.Node, *asciiShell) {
	n := count(cfg)
	group, sprites := glyphSprites("asciiShell", cfg, env, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i, sp := range sprites {
		y := 1.0
		if n > 1 {
			y = 1 - float64(i)/float64(n-1)*2
		}
		radius := math.Sqrt(math.Max(0, 1-y*y))
		theta := golden * float64(i)
		sp.Position = vec3{math.Cos(theta) * radius, y, math.Sin(theta) * radius}.Mul(shellRadius)
	}
	return []*render.Node{group}, &asciiShell{group: group}
}

func stepASCIIShell(s *asciiShell, tick Tick, _ *config.Vibe, _ *Env) {
	s.group.Rotation = render.Euler(tick.Time*0.1, tick.Time*0.2, 0)
}
