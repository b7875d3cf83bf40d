package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/metrics"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/variant"
)

const (
	// ClockStep is how far the scene clock advances per tick at intensity 1.
	ClockStep = 0.01

	driftRate    = 0.1
	driftHeight  = 8.0
	frameStep    = 1.0 / 60
	amplitudeLag = 1.0
)

// Scheduler advances the active scene once per display refresh. Tick and
// Swap are serialized, so a rebuild always completes before the next tick
// observes the new generation.
type Scheduler struct {
	mu sync.Mutex

	builder *Builder
	handle  *SceneHandle

	clock   float64
	frame   int
	playing bool
	stopped bool

	amplitude float64
	ampTween  *gween.Tween

	observers []metrics.Observer
	degraded  int
}

func NewScheduler(builder *Builder) *Scheduler {
	return &Scheduler{
		builder:   builder,
		playing:   true,
		amplitude: variant.DefaultCameraAmplitude,
	}
}

// Swap rebuilds the scene from cfg. The clock keeps running across swaps;
// the camera drift radius eases toward the new variant's amplitude.
func (s *Scheduler) Swap(cfg *config.Vibe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ErrTornDown
	}
	h, err := s.builder.Rebuild(cfg)
	if err != nil {
		return err
	}
	target := s.builder.Registry().CameraAmplitude(h.Tag)
	switch {
	case s.handle == nil:
		s.amplitude = target
		s.ampTween = nil
	case target != s.amplitude:
		s.ampTween = gween.New(float32(s.amplitude), float32(target), amplitudeLag, ease.InOutQuad)
	}
	s.handle = h
	return nil
}

// Tick runs one display refresh and reports whether the loop should be
// re-armed. A paused scheduler re-arms without touching the scene.
func (s *Scheduler) Tick() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	if !s.playing || s.handle == nil {
		return true
	}

	start := time.Now()
	h := s.handle
	cfg := h.Config
	delta := ClockStep * cfg.Motion.Intensity
	s.clock += delta
	s.frame++

	s.drift(cfg)
	scale := envelope(cfg.Motion.Pattern, s.clock)
	h.Stage.Scale = render.Vec3{scale, scale, scale}

	tick := variant.Tick{Time: s.clock, Delta: delta, Frame: s.frame}
	err := s.builder.Registry().Step(h.Tag, h.Set, h.State, tick, cfg)
	if err != nil {
		s.degraded++
		slogger().Warn("variant step failed, frame skipped",
			"variant", h.Tag, "frame", s.frame, "err", err)
	}

	facade := s.builder.Facade()
	if rerr := facade.Render(); rerr != nil {
		if errors.Is(rerr, render.ErrClosed) {
			s.stopped = true
			return false
		}
		slogger().Warn("render failed", "frame", s.frame, "err", rerr)
	}

	sample := metrics.Sample{
		Frame:    s.frame,
		Clock:    s.clock,
		Elapsed:  time.Since(start),
		Entities: h.Set.Count(),
		Nodes:    facade.Scene().CountNodes(),
		Degraded: err != nil,
	}
	for _, o := range s.observers {
		o.Observe(sample)
	}
	return true
}

func (s *Scheduler) drift(cfg *config.Vibe) {
	if s.ampTween != nil {
		v, done := s.ampTween.Update(frameStep)
		s.amplitude = float64(v)
		if done {
			s.ampTween = nil
		}
	}
	if !cfg.Motion.CameraDrift {
		return
	}
	cam := s.builder.Facade().Camera()
	t := s.clock * driftRate
	cam.Position = render.Vec3{math.Sin(t) * s.amplitude, math.Cos(t) * driftHeight, cam.Position.Z()}
	cam.LookAt(render.Vec3{})
}

// RunFrames ticks n times without waiting for a display and returns how
// many ticks ran before the scheduler stopped.
func (s *Scheduler) RunFrames(n int) int {
	for i := 0; i < n; i++ {
		if !s.Tick() {
			return i
		}
	}
	return n
}

// Run ticks every interval until ctx is done or the scheduler stops.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) (err error) {
	if s.Handle() == nil {
		return ErrNoScene
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("engine: scheduler panicked: %v", p)
		}
	}()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if !s.Tick() {
				return nil
			}
		}
	}
}

// Stop ends the loop and releases backend resources synchronously.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped && s.builder.TornDown() {
		return nil
	}
	s.stopped = true
	s.handle = nil
	return s.builder.Teardown()
}

// SetPlaying pauses or resumes motion. The clock holds its value while
// paused.
func (s *Scheduler) SetPlaying(playing bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.playing = playing
}

func (s *Scheduler) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

func (s *Scheduler) Clock() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clock
}

func (s *Scheduler) Frame() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Degraded is the number of ticks whose variant step failed.
func (s *Scheduler) Degraded() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

func (s *Scheduler) Amplitude() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amplitude
}

func (s *Scheduler) Handle() *SceneHandle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

func (s *Scheduler) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

func (s *Scheduler) AddObserver(o metrics.Observer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, o)
}

// Observe runs fn with exclusive access to the live scene, for hosts that
// draw from another goroutine.
func (s *Scheduler) Observe(fn func(h *SceneHandle, f render.Facade)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.handle, s.builder.Facade())
}
