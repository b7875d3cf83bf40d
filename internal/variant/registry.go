// Package variant maps geometry tags to procedural scene variants. Each
// variant pairs a builder, which turns a configuration into scene nodes
// plus private state, with a stepper that advances that state every tick.
package variant

import (
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/glyph"
	"github.com/san-kum/vibesaver/internal/render"
)

// DefaultCameraAmplitude is the horizontal camera drift radius.
const DefaultCameraAmplitude = 8.0

// Tick is the scheduler's view of one frame.
type Tick struct {
	// Time is the intensity-scaled scene clock.
	Time float64
	// Delta is how far Time advanced this tick.
	Delta float64
	Frame int
}

// Env carries the collaborators a variant needs while building and stepping.
type Env struct {
	Rand   *rand.Rand
	Glyphs *glyph.Cache
}

// NewEnv seeds a fresh random source. A zero seed uses the wall clock.
func NewEnv(seed int64) *Env {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Env{Rand: rand.New(rand.NewSource(seed)), Glyphs: glyph.Default()}
}

// EntitySet is the group of top-level nodes a builder produced.
type EntitySet struct {
	Nodes []*render.Node
}

// Count is the number of individually animated entities: batch slots,
// meshes, sprites and surfaces, including nested ones.
func (s EntitySet) Count() int {
	total := 0
	for _, n := range s.Nodes {
		switch n.Type {
		case render.NodeBatch:
			total += len(n.Instances)
		case render.NodeMesh, render.NodeSprite, render.NodeSurface:
			total++
		}
		total += n.CountInstances()
	}
	return total
}

func (s EntitySet) Empty() bool {
	return s.Count() == 0
}

// State is the opaque handle to one variant's private state.
type State struct {
	tag config.Geometry
	env *Env
	v   any
}

func (s State) Tag() config.Geometry { return s.tag }

// BuildFunc constructs the nodes and typed state for a configuration.
type BuildFunc[S any] func(cfg *config.Vibe, env *Env) ([]*render.Node, *S)

// StepFunc advances typed state in place by one tick.
type StepFunc[S any] func(s *S, tick Tick, cfg *config.Vibe, env *Env)

type entry struct {
	build     func(cfg *config.Vibe, env *Env) (EntitySet, any)
	step      func(st any, tick Tick, cfg *config.Vibe, env *Env)
	expected  func(cfg *config.Vibe) int
	text      bool
	amplitude float64
}

type Option func(*entry)

// TextDriven marks a variant that only builds when geometry.textChar is set.
func TextDriven() Option {
	return func(e *entry) { e.text = true }
}

// CameraAmplitude overrides the horizontal drift radius for wide scenes.
func CameraAmplitude(a float64) Option {
	return func(e *entry) { e.amplitude = a }
}

// ExpectedCount declares the entity count for variants whose structure does
// not follow geometry.count one to one.
func ExpectedCount(fn func(cfg *config.Vibe) int) Option {
	return func(e *entry) { e.expected = fn }
}

type Registry struct {
	variants map[config.Geometry]*entry
}

func NewEmptyRegistry() *Registry {
	return &Registry{variants: make(map[config.Geometry]*entry)}
}

// NewRegistry returns a registry holding every built-in variant.
func NewRegistry() *Registry {
	r := NewEmptyRegistry()
	registerBuiltins(r)
	return r
}

// Register binds a builder and stepper sharing the state type S to tag,
// replacing any previous binding.
func Register[S any](r *Registry, tag config.Geometry, build BuildFunc[S], step StepFunc[S], opts ...Option) {
	e := &entry{
		build: func(cfg *config.Vibe, env *Env) (EntitySet, any) {
			nodes, st := build(cfg, env)
			return EntitySet{Nodes: nodes}, st
		},
		step: func(st any, tick Tick, cfg *config.Vibe, env *Env) {
			step(st.(*S), tick, cfg, env)
		},
		expected:  func(cfg *config.Vibe) int { return cfg.Geometry.Count },
		amplitude: DefaultCameraAmplitude,
	}
	for _, opt := range opts {
		opt(e)
	}
	r.variants[tag] = e
}

func (r *Registry) lookup(tag config.Geometry, cfg *config.Vibe) (*entry, error) {
	e, ok := r.variants[tag]
	if !ok {
		return nil, &UnknownVariantError{Tag: tag}
	}
	if e.text && cfg.Geometry.TextChar == "" {
		return nil, &UnknownVariantError{Tag: tag, Reason: "textChar is empty"}
	}
	return e, nil
}

// Build runs tag's builder. It fails with *UnknownVariantError when tag is
// not registered or is text-driven and cfg has no textChar; callers are
// expected to fall back with Resolve.
func (r *Registry) Build(tag config.Geometry, cfg *config.Vibe, env *Env) (EntitySet, State, error) {
	e, err := r.lookup(tag, cfg)
	if err != nil {
		return EntitySet{}, State{}, err
	}
	set, st := e.build(cfg, env)
	return set, State{tag: tag, env: env, v: st}, nil
}

// Step advances state by one tick. An empty entity set is a no-op. A
// panicking stepper is recovered into a *StepError so one bad frame cannot
// stop the animation loop.
func (r *Registry) Step(tag config.Geometry, set EntitySet, state State, tick Tick, cfg *config.Vibe) (err error) {
	if set.Empty() {
		return nil
	}
	if state.tag != tag {
		return &StepError{Variant: tag, Frame: tick.Frame, Wrapped: fmt.Errorf("%w: %s", ErrStateMismatch, state.tag)}
	}
	e, ok := r.variants[tag]
	if !ok {
		return &UnknownVariantError{Tag: tag}
	}
	defer func() {
		if p := recover(); p != nil {
			err = &StepError{Variant: tag, Frame: tick.Frame, Wrapped: fmt.Errorf("%w: %v", ErrStepPanicked, p)}
		}
	}()
	e.step(state.v, tick, cfg, state.env)
	return nil
}

// Resolve applies the fallback policy: the configured tag if it can build,
// otherwise emoji explosion sprites when textChar is set, otherwise the
// ambient particle cloud.
func (r *Registry) Resolve(cfg *config.Vibe) config.Geometry {
	if _, err := r.lookup(cfg.Geometry.Type, cfg); err == nil {
		return cfg.Geometry.Type
	}
	if cfg.Geometry.TextChar != "" {
		if _, ok := r.variants[config.GeometryEmojiExplosion]; ok {
			return config.GeometryEmojiExplosion
		}
	}
	return config.GeometryParticles
}

// Expected is the entity count tag builds for cfg.
func (r *Registry) Expected(tag config.Geometry, cfg *config.Vibe) int {
	if e, ok := r.variants[tag]; ok {
		return e.expected(cfg)
	}
	return 0
}

// CameraAmplitude returns the horizontal camera drift radius for tag.
func (r *Registry) CameraAmplitude(tag config.Geometry) float64 {
	if e, ok := r.variants[tag]; ok {
		return e.amplitude
	}
	return DefaultCameraAmplitude
}

func (r *Registry) TextDriven(tag config.Geometry) bool {
	e, ok := r.variants[tag]
	return ok && e.text
}

func (r *Registry) Tags() []config.Geometry {
	tags := make([]config.Geometry, 0, len(r.variants))
	for t := range r.variants {
		tags = append(tags, t)
	}
	sort.Slice(tags, func(i, j int) bool { return tags[i] < tags[j] })
	return tags
}
