package variant

import (
	"math"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

const (
	ribbonWidth  = 30.0
	ribbonHeight = 5.0
	ribbonCols   = 60
	ribbonRows   = 10
	ribbonAmp    = 2.0
	ribbonFreq   = 0.5
)

type ribbon struct {
	strip  *render.Node
	rest   []vec3
	offset float64
}

// ribbonWave keeps each strip's rest vertices and derives the displaced
// surface from them every tick, so the wave never drifts.
type ribbonWave struct {
	ribbons []ribbon
}

func buildRibbonWave(cfg *config.Vibe, _ *Env) ([]*render.Node, *ribbonWave) {
	p := paletteOf(cfg)
	n := count(cfg)
	group := render.NewGroup("ribbonWave")
	s := &ribbonWave{ribbons: make([]ribbon, n)}
	for i := range s.ribbons {
		strip := render.NewSurface("ribbon", ribbonWidth, ribbonHeight, ribbonCols, ribbonRows, render.Material(config.MaterialPhysical), p.at(i))
		strip.Opacity = 0.4
		strip.Position = vec3{0, 0, (float64(i) - float64(n)/2) * 2}
		strip.Rotation = render.Euler(-math.Pi/4, 0, 0)
		s.ribbons[i] = ribbon{
			strip:  strip,
			rest:   append([]vec3(nil), strip.Vertices...),
			offset: float64(i),
		}
		group.AddChild(strip)
	}
	stepRibbonWave(s, Tick{}, cfg, nil)
	return []*render.Node{group}, s
}

func ribbonDisplacement(x, t, offset float64) float64 {
	return math.Sin(x*ribbonFreq+t+offset) * ribbonAmp
}

func stepRibbonWave(s *ribbonWave, tick Tick, _ *config.Vibe, _ *Env) {
	for _, rb := range s.ribbons {
		for i, v := range rb.rest {
			rb.strip.Vertices[i] = vec3{v.X(), v.Y(), ribbonDisplacement(v.X(), tick.Time, rb.offset)}
		}
	}
}

type gridWaves struct {
	points *render.Node
	rest   []vec3
}

func buildGridWaves(cfg *config.Vibe, _ *Env) ([]*render.Node, *gridWaves) {
	p := paletteOf(cfg)
	n := count(cfg)
	side := int(math.Ceil(math.Sqrt(float64(n))))
	spacing := 40.0 / math.Max(float64(side), 1)
	points := render.NewPoints("gridWaves", 0.15, n)
	s := &gridWaves{points: points, rest: make([]vec3, n)}
	for i := range s.rest {
		col, row := i%side, i/side
		s.rest[i] = vec3{
			(float64(col) - float64(side-1)/2) * spacing,
			-5,
			(float64(row) - float64(side-1)/2) * spacing,
		}
		points.SetInstanceColor(i, p.at(row))
	}
	stepGridWaves(s, Tick{}, cfg, nil)
	return []*render.Node{points}, s
}

func stepGridWaves(s *gridWaves, tick Tick, _ *config.Vibe, _ *Env) {
	t := tick.Time
	for i, v := range s.rest {
		h := math.Sin(v.X()*0.3+t) * math.Cos(v.Z()*0.3+t) * 2
		s.points.Instances[i].Position = vec3{v.X(), v.Y() + h, v.Z()}
	}
}

const (
	terrainSize   = 60.0
	terrainScroll = 2.0
)

// landscape is one low-poly terrain sheet whose resolution follows count.
// Heights are a function of the rest coordinates shifted by the clock, so
// the ground appears to scroll toward the viewer.
type landscape struct {
	terrain *render.Node
	rest    []vec3
}

func buildPolyLandscape(cfg *config.Vibe, _ *Env) ([]*render.Node, *landscape) {
	p := paletteOf(cfg)
	seg := int(math.Sqrt(float64(count(cfg))))
	seg = max(8, min(seg, 64))
	terrain := render.NewSurface("terrain", terrainSize, terrainSize, seg, seg, materialOf(cfg), p.at(0))
	terrain.Position = vec3{0, -8, 0}
	terrain.Rotation = render.Euler(-math.Pi/2, 0, 0)
	s := &landscape{terrain: terrain, rest: append([]vec3(nil), terrain.Vertices...)}
	stepPolyLandscape(s, Tick{}, cfg, nil)
	return []*render.Node{terrain}, s
}

func terrainHeight(x, y float64) float64 {
	return math.Sin(x*0.2)*1.5 + math.Cos(y*0.15)*1.5 + math.Sin((x+y)*0.1)*2
}

func stepPolyLandscape(s *landscape, tick Tick, _ *config.Vibe, _ *Env) {
	shift := tick.Time * terrainScroll
	for i, v := range s.rest {
		s.terrain.Vertices[i] = vec3{v.X(), v.Y(), terrainHeight(v.X(), v.Y()+shift)}
	}
}

type droplet struct {
	rest vec3
}

type liquidField struct {
	drops *render.Node
	field []droplet
}

func buildLiquidField(cfg *config.Vibe, env *Env) ([]*render.Node, *liquidField) {
	p := paletteOf(cfg)
	n := count(cfg)
	r := env.Rand
	drops := render.NewBatch("liquidField", render.ShapeSphere, uniform(minSize(cfg)), render.Material(config.MaterialPhysical), n)
	s := &liquidField{drops: drops, field: make([]droplet, n)}
	for i := range s.field {
		s.field[i].rest = vec3{spread(r, 40), spread(r, 40), spread(r, 40)}
		drops.SetInstance(i, render.At(s.field[i].rest.Elem()))
		drops.SetInstanceColor(i, p.at(0))
	}
	return []*render.Node{drops}, s
}

func stepLiquidField(s *liquidField, tick Tick, _ *config.Vibe, _ *Env) {
	t := tick.Time
	for i, d := range s.field {
		o := d.rest
		inst := &s.drops.Instances[i]
		inst.Position = vec3{
			o.X() + math.Sin(t+o.Y()*0.1)*2,
			o.Y() + math.Cos(t+o.Z()*0.1)*2,
			o.Z(),
		}
		inst.Rotation = render.Euler(t, t, 0)
	}
}
