package automation

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/metrics"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/variant"
)

// Sweep parameters.
const (
	SweepCount     = "count"
	SweepIntensity = "intensity"
)

// Sweep plays one vibe headless across a range of a single parameter.
type Sweep struct {
	Base     *config.Vibe
	Param    string
	Min, Max float64
	Steps    int
	Frames   int
	Seed     int64
}

// SweepResult holds the frame metrics of one sweep point.
type SweepResult struct {
	Value       float64
	Entities    int
	MeanFrameMs float64
	PeakNodes   float64
	Degraded    float64
}

// RunSweep builds a fresh scene for every point on the backend newFacade
// returns and ticks it Frames times.
func RunSweep(ctx context.Context, sw *Sweep, registry *variant.Registry, newFacade func() render.Facade) ([]SweepResult, error) {
	if sw.Steps < 1 || sw.Frames < 1 {
		return nil, fmt.Errorf("sweep needs at least one step and one frame")
	}
	if sw.Param != SweepCount && sw.Param != SweepIntensity {
		return nil, fmt.Errorf("unknown sweep parameter: %s", sw.Param)
	}

	paramStep := 0.0
	if sw.Steps > 1 {
		paramStep = (sw.Max - sw.Min) / float64(sw.Steps-1)
	}

	results := make([]SweepResult, 0, sw.Steps)
	for i := 0; i < sw.Steps; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		value := sw.Min + float64(i)*paramStep
		cfg := sw.Base.Clone()
		switch sw.Param {
		case SweepCount:
			cfg.Geometry.Count = int(math.Round(value))
		case SweepIntensity:
			cfg.Motion.Intensity = value
		}

		res, err := runPoint(cfg, sw, registry, newFacade())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		res.Value = value
		results = append(results, res)
	}
	return results, nil
}

func runPoint(cfg *config.Vibe, sw *Sweep, registry *variant.Registry, facade render.Facade) (SweepResult, error) {
	b := engine.NewBuilder(facade, registry, nil, engine.WithSeed(sw.Seed))
	sched := engine.NewScheduler(b)
	defer sched.Stop()

	frameTime, peak, degraded := metrics.NewFrameTime(), metrics.NewPeakNodes(), metrics.NewDegraded()
	for _, o := range []metrics.Observer{frameTime, peak, degraded} {
		sched.AddObserver(o)
	}
	if err := sched.Swap(cfg); err != nil {
		return SweepResult{}, err
	}
	entities := sched.Handle().Set.Count()
	sched.RunFrames(sw.Frames)

	return SweepResult{
		Entities:    entities,
		MeanFrameMs: frameTime.Value(),
		PeakNodes:   peak.Value(),
		Degraded:    degraded.Value(),
	}, nil
}
