// Package engine turns configurations into live scenes and animates them.
// The Builder owns scene construction and teardown; the Scheduler owns the
// clock and drives one variant step plus one render per display refresh.
package engine

import (
	"fmt"
	"image"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/variant"
)

// ImageSource resolves an asset URL to a decoded image.
type ImageSource interface {
	Image(url string) (image.Image, error)
}

// SceneHandle is one generation of a built scene: the resolved
// configuration plus the entity set and state the scheduler steps.
type SceneHandle struct {
	Config     *config.Vibe
	Tag        config.Geometry
	Set        variant.EntitySet
	State      variant.State
	Stage      *render.Node
	Generation int
}

type BuilderOption func(*Builder)

// WithSeed fixes the random source shared by every build.
func WithSeed(seed int64) BuilderOption {
	return func(b *Builder) { b.env = variant.NewEnv(seed) }
}

func WithGlyphCache(c *glyph.Cache) BuilderOption {
	return func(b *Builder) { b.glyphs = c }
}

type Builder struct {
	facade   render.Facade
	registry *variant.Registry
	images   ImageSource
	env      *variant.Env
	glyphs   *glyph.Cache

	current    *SceneHandle
	generation int
	tornDown   bool
}

// NewBuilder binds a render backend and a variant registry. images may be
// nil, in which case background image overrides are ignored.
func NewBuilder(facade render.Facade, registry *variant.Registry, images ImageSource, opts ...BuilderOption) *Builder {
	b := &Builder{facade: facade, registry: registry, images: images}
	for _, opt := range opts {
		opt(b)
	}
	if b.env == nil {
		b.env = variant.NewEnv(0)
	}
	if b.glyphs != nil {
		b.env.Glyphs = b.glyphs
	}
	return b
}

func (b *Builder) Facade() render.Facade { return b.facade }
func (b *Builder) Registry() *variant.Registry { return b.registry }
func (b *Builder) Current() *SceneHandle { return b.current }

// Rebuild replaces the live scene with one built from cfg. The variant
// builds first; only then is every node of the previous generation
// detached, so two generations are never live together and a failed build
// leaves the previous one in place. cfg is copied and passed through the
// configuration boundary first.
func (b *Builder) Rebuild(cfg *config.Vibe) (*SceneHandle, error) {
	if b.tornDown {
		return nil, ErrTornDown
	}
	if cfg == nil {
		return nil, config.Prepare(nil)
	}
	cfg = cfg.Clone()
	if err := config.Prepare(cfg); err != nil {
		return nil, fmt.Errorf("rebuild: %w", err)
	}

	tag := b.registry.Resolve(cfg)
	set, state, err := b.registry.Build(tag, cfg, b.env)
	if err != nil {
		return nil, fmt.Errorf("rebuild %s: %w", tag, err)
	}
	if tag != cfg.Geometry.Type {
		slogger().Info("geometry variant unavailable, falling back",
			"requested", cfg.Geometry.Type, "variant", tag)
	}

	scene := b.facade.Scene()
	scene.RemoveChildren()
	b.current = nil

	b.background(cfg, scene)

	stage := render.NewGroup("stage")
	for _, n := range set.Nodes {
		stage.AddChild(n)
	}
	scene.AddChild(stage)

	lights(cfg, scene)
	postFX(cfg, b.facade.PostFX())

	b.generation++
	b.current = &SceneHandle{
		Config:     cfg,
		Tag:        tag,
		Set:        set,
		State:      state,
		Stage:      stage,
		Generation: b.generation,
	}
	slogger().Debug("scene rebuilt", "variant", tag, "entities", set.Count(), "generation", b.generation)
	return b.current, nil
}

var black = render.Color{}

func (b *Builder) background(cfg *config.Vibe, scene *render.Node) {
	if img := b.backgroundImage(cfg); img != nil {
		b.facade.SetBackground(render.Background{Type: render.BackgroundImage, Image: img})
		return
	}

	c1 := config.ParseColor(cfg.Background.Color1, black)
	c2 := config.ParseColor(cfg.Background.Color2, black)
	switch cfg.Background.Type {
	case config.BackgroundGrid:
		b.facade.SetBackground(render.Background{
			Type:   render.BackgroundGrid,
			Color1: black,
			Fog:    &render.Fog{Color: c1, Near: 5, Far: 60},
		})
		grid := render.NewGrid("grid", 200, 100, c1, c2)
		grid.Position = render.Vec3{0, -10, 0}
		scene.AddChild(grid)
	case config.BackgroundNebula:
		b.facade.SetBackground(render.Background{
			Type:   render.BackgroundNebula,
			Color1: c1,
			Color2: c2,
			Fog:    &render.Fog{Color: c2, Density: 0.015},
		})
	case config.BackgroundGradient:
		b.facade.SetBackground(render.Background{
			Type:   render.BackgroundGradient,
			Color1: c1,
			Color2: c2,
			Fog:    &render.Fog{Color: c2, Near: 10, Far: 50},
		})
	default:
		b.facade.SetBackground(render.Background{Type: render.BackgroundSolid, Color1: c1})
	}
}

// backgroundImage returns the override image, or nil when none is
// configured or it cannot be loaded.
func (b *Builder) backgroundImage(cfg *config.Vibe) image.Image {
	if b.images == nil || cfg.Assets == nil || cfg.Assets.BackgroundImageURL == "" {
		return nil
	}
	img, err := b.images.Image(cfg.Assets.BackgroundImageURL)
	if err != nil {
		slogger().Debug("background image unavailable", "url", cfg.Assets.BackgroundImageURL, "err", err)
		return nil
	}
	return img
}

func lights(cfg *config.Vibe, scene *render.Node) {
	ambient := render.NewLight("ambient", render.LightAmbient, config.ParseColor("#404040", black), 2)
	sun := render.NewLight("directional", render.LightDirectional, render.White, 1)
	sun.Position = render.Vec3{5, 10, 7}
	tint := render.White
	if len(cfg.Palette) > 0 {
		tint = config.ParseColor(cfg.Palette[0], render.White)
	}
	point := render.NewLight("point", render.LightPoint, tint, 5)
	point.Range = 50
	scene.AddChild(ambient)
	scene.AddChild(sun)
	scene.AddChild(point)
}

func postFX(cfg *config.Vibe, fx *render.PostFX) {
	pp := cfg.PostProcessing
	fx.BloomStrength = pp.Bloom * 2
	fx.BloomRadius = pp.Glow
	fx.Grain = pp.Grain
	fx.Chromatic = pp.ChromaticAberration
}

// Teardown detaches the scene and closes the backend synchronously. It is
// safe to call more than once.
func (b *Builder) Teardown() error {
	if b.tornDown {
		return nil
	}
	b.tornDown = true
	b.current = nil
	b.facade.Scene().RemoveChildren()
	return b.facade.Close()
}

func (b *Builder) TornDown() bool { return b.tornDown }
