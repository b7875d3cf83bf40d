package variant

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const stackCount = 8

// stonesIn is the height of stack s: four to six stones.
func stonesIn(s int) int {
	return 4 + s%3
}

func stoneTotal() int {
	total := 0
	for s := 0; s < stackCount; s++ {
		total += stonesIn(s)
	}
	return total
}

type cairn struct {
	node   *render.Node
	euler  vec3
	spin   vec3
	offset float64
}

type stoneStack struct {
	cairns []cairn
}

func buildStoneStack(cfg *config.Vibe, env *Env) ([]*render.Node, *stoneStack) {
	p := paletteOf(cfg)
	r := env.Rand
	group := render.NewGroup("stoneStack")
	s := &stoneStack{cairns: make([]cairn, stackCount)}
	for st := range s.cairns {
		stack := render.NewGroup("cairn")
		y := 0.0
		for i := 0; i < stonesIn(st); i++ {
			w := 1.5 - float64(i)*0.2
			h := between(r, 0.4, 0.6)
			stone := render.NewMesh("stone", render.ShapeSphere, uniform(w), render.Material(config.MaterialMatte), p.at(i))
			stone.Position = vec3{0, y + h/2, 0}
			stone.Scale = vec3{1, h / w, 1}
			stone.Rotation = render.Euler(spread(r, 0.1), 0, spread(r, 0.1))
			y += h
			stack.AddChild(stone)
		}
		stack.Position = vec3{spread(r, 20), spread(r, 10), spread(r, 10)}
		s.cairns[st] = cairn{
			node:   stack,
			spin:   vec3{spread(r, 0.01), spread(r, 0.01), 0},
			offset: r.Float64() * 2 * math.Pi,
		}
		group.AddChild(stack)
	}
	return []*render.Node{group}, s
}

func stepStoneStack(s *stoneStack, tick Tick, _ *config.Vibe, _ *Env) {
	for i := range s.cairns {
		c := &s.cairns[i]
		c.node.Position[1] += math.Sin(tick.Time+c.offset) * 0.005
		c.euler = c.euler.Add(c.spin)
		c.node.Rotation = render.Euler(c.euler.Elem())
	}
}

const solarLoops = 15

type prominence struct {
	node *render.Node
	base mgl64.Quat
	roll float64
}

// solar is a star wrapped in magnetic loops. The loops ring turns as a
// whole while each loop counter-rotates on its own axis.
type solar struct {
	group    *render.Node
	star     *render.Node
	loops    *render.Node
	arcs     []prominence
	starYaw  float64
	ringRoll float64
}

func buildSolarSphere(cfg *config.Vibe, env *Env) ([]*render.Node, *solar) {
	p := paletteOf(cfg)
	r := env.Rand
	radius := minSize(cfg)
	group := render.NewGroup("solarSphere")
	star := render.NewMesh("star", render.ShapeIcosa, uniform(radius), "", p.at(0))
	loops := render.NewGroup("loops")
	s := &solar{group: group, star: star, loops: loops, arcs: make([]prominence, solarLoops)}
	for i := range s.arcs {
		arc := render.NewMesh("loop", render.ShapeTorus, vec3{radius * 1.2, 0.05, math.Pi}, "", p.at(1))
		arc.Opacity = 0.6
		base := render.Euler(r.Float64()*math.Pi, r.Float64()*math.Pi, r.Float64()*math.Pi)
		arc.Rotation = base
		s.arcs[i] = prominence{node: arc, base: base}
		loops.AddChild(arc)
	}
	group.AddChild(star)
	group.AddChild(loops)
	return []*render.Node{group}, s
}

func stepSolarSphere(s *solar, tick Tick, _ *config.Vibe, _ *Env) {
	s.starYaw += 0.005
	s.star.Rotation = render.Euler(0, s.starYaw, 0)
	s.ringRoll += 0.002
	s.loops.Rotation = render.Euler(0, 0, s.ringRoll)
	for i := range s.arcs {
		a := &s.arcs[i]
		if i%2 == 0 {
			a.roll += 0.01
		} else {
			a.roll -= 0.01
		}
		a.node.Rotation = a.base.Mul(render.Euler(0, 0, a.roll))
	}
	scale := 1 + math.Sin(tick.Time*2)*0.05
	s.group.Scale = uniform(scale)
}

const (
	sortSide = 40
	sortHold = 120
)

type cell struct {
	value float64
	color render.Color
}

// pixelSort repeatedly sorts each column of a color grid by lightness with
// one odd-even transposition pass per tick, then shuffles and starts over.
type pixelSort struct {
	tiles  *render.Node
	cells  []cell
	colors palette
	parity int
	calm   int
}

func buildPixelSort(cfg *config.Vibe, env *Env) ([]*render.Node, *pixelSort) {
	p := paletteOf(cfg)
	tiles := render.NewBatch("pixelSort", render.ShapePlane, vec3{0.4, 0.4, 0}, "", sortSide*sortSide)
	s := &pixelSort{tiles: tiles, cells: make([]cell, sortSide*sortSide), colors: p}
	for x := 0; x < sortSide; x++ {
		for y := 0; y < sortSide; y++ {
			tiles.SetInstance(x*sortSide+y, render.At(float64(x-sortSide/2), float64(y-sortSide/2), 0))
		}
	}
	s.shuffle(env)
	return []*render.Node{tiles}, s
}

func (s *pixelSort) shuffle(env *Env) {
	r := env.Rand
	for i := range s.cells {
		c := s.colors.random(r)
		_, _, l := c.Hcl()
		// Jitter breaks ties so single-color palettes still animate.
		s.cells[i] = cell{value: l + r.Float64()*0.01, color: c}
	}
	s.calm = 0
	s.paint()
}

func (s *pixelSort) paint() {
	for i, c := range s.cells {
		s.tiles.SetInstanceColor(i, c.color)
	}
}

func stepPixelSort(s *pixelSort, _ Tick, _ *config.Vibe, env *Env) {
	if s.calm > sortHold {
		s.shuffle(env)
		return
	}
	swapped := false
	for x := 0; x < sortSide; x++ {
		col := s.cells[x*sortSide : (x+1)*sortSide]
		for y := s.parity; y+1 < sortSide; y += 2 {
			if col[y].value > col[y+1].value {
				col[y], col[y+1] = col[y+1], col[y]
				swapped = true
			}
		}
	}
	s.parity ^= 1
	if swapped {
		s.calm = 0
		s.paint()
	} else {
		s.calm++
	}
}
