package engine_test

import (
	"context"
	"math"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/metrics"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/render/memory"
	"github.com/san-kum/vibesaver/internal/variant"
)

type recorder struct {
	samples []metrics.Sample
}

func (r *recorder) Name() string { return "recorder" }
func (r *recorder) Observe(s metrics.Sample) { r.samples = append(r.samples, s) }
func (r *recorder) Value() float64 { return float64(len(r.samples)) }
func (r *recorder) Reset() { r.samples = nil }

type fuse struct{}

var _ = Describe("Scheduler", func() {
	var (
		facade   *memory.Facade
		registry *variant.Registry
		sched    *engine.Scheduler
		cfg      *config.Vibe
	)

	BeforeEach(func() {
		facade = memory.New()
		registry = variant.NewRegistry()
		sched = engine.NewScheduler(engine.NewBuilder(facade, registry, nil, engine.WithSeed(5)))
		cfg = vibe(config.GeometryTornado, 30)
		cfg.Motion.Intensity = 0.5
		Expect(sched.Swap(cfg)).To(Succeed())
	})

	It("advances the clock by the intensity scaled step and renders once per tick", func() {
		Expect(sched.RunFrames(10)).To(Equal(10))
		Expect(sched.Clock()).To(BeNumerically("~", 10*engine.ClockStep*0.5, 1e-12))
		Expect(sched.Frame()).To(Equal(10))
		Expect(facade.Frames()).To(Equal(10))
	})

	It("drifts the camera around the origin", func() {
		sched.RunFrames(3)
		t := sched.Clock() * 0.1
		pos := facade.Camera().Position
		Expect(pos.X()).To(BeNumerically("~", math.Sin(t)*variant.DefaultCameraAmplitude, 1e-9))
		Expect(pos.Y()).To(BeNumerically("~", math.Cos(t)*8, 1e-9))
		Expect(pos.Z()).To(Equal(20.0))
	})

	It("holds the camera when drift is disabled", func() {
		still := cfg.Clone()
		still.Motion.CameraDrift = false
		Expect(sched.Swap(still)).To(Succeed())
		before := facade.Camera().Position
		sched.RunFrames(5)
		Expect(facade.Camera().Position).To(Equal(before))
	})

	It("pauses without mutating and resumes from the paused clock", func() {
		sched.RunFrames(4)
		clock := sched.Clock()
		frames := facade.Frames()

		sched.SetPlaying(false)
		Expect(sched.Playing()).To(BeFalse())
		Expect(sched.Tick()).To(BeTrue())
		Expect(sched.RunFrames(20)).To(Equal(20))
		Expect(sched.Clock()).To(Equal(clock))
		Expect(facade.Frames()).To(Equal(frames))

		sched.SetPlaying(true)
		sched.Tick()
		Expect(sched.Clock()).To(BeNumerically("~", clock+engine.ClockStep*0.5, 1e-12))
	})

	It("keeps the clock running across swaps", func() {
		sched.RunFrames(5)
		clock := sched.Clock()
		Expect(sched.Swap(vibe(config.GeometrySpheres, 10))).To(Succeed())
		Expect(sched.Clock()).To(Equal(clock))
		Expect(sched.Handle().Tag).To(Equal(config.GeometrySpheres))
	})

	It("eases the drift radius toward a wide variant", func() {
		Expect(sched.Amplitude()).To(Equal(variant.DefaultCameraAmplitude))
		Expect(sched.Swap(vibe(config.GeometryCollidingWorlds, 10))).To(Succeed())
		sched.Tick()
		Expect(sched.Amplitude()).To(BeNumerically(">", variant.DefaultCameraAmplitude))
		Expect(sched.Amplitude()).To(BeNumerically("<", 25))
		sched.RunFrames(90)
		Expect(sched.Amplitude()).To(Equal(25.0))
	})

	It("starts wide variants at their own radius", func() {
		fresh := engine.NewScheduler(engine.NewBuilder(memory.New(), registry, nil))
		Expect(fresh.Swap(vibe(config.GeometryCollidingWorlds, 10))).To(Succeed())
		Expect(fresh.Amplitude()).To(Equal(25.0))
	})

	It("applies the breathing envelope to the stage", func() {
		breathe := cfg.Clone()
		breathe.Motion.Pattern = config.PatternBreathing
		breathe.Motion.Intensity = 1
		Expect(sched.Swap(breathe)).To(Succeed())
		for i := 0; i < 200; i++ {
			sched.Tick()
			s := sched.Handle().Stage.Scale.X()
			Expect(s).To(BeNumerically(">=", 0.92-1e-6))
			Expect(s).To(BeNumerically("<=", 1.08+1e-6))
		}
	})

	It("reports every tick to observers", func() {
		rec := &recorder{}
		sched.AddObserver(rec)
		sched.RunFrames(3)
		Expect(rec.samples).To(HaveLen(3))
		last := rec.samples[2]
		Expect(last.Frame).To(Equal(3))
		Expect(last.Entities).To(Equal(30))
		Expect(last.Nodes).To(Equal(facade.LiveNodes()))
		Expect(last.Degraded).To(BeFalse())
	})

	It("degrades a failing step to a skipped frame", func() {
		variant.Register(registry, "fuse",
			func(*config.Vibe, *variant.Env) ([]*render.Node, *fuse) {
				return []*render.Node{render.NewMesh("fuse", render.ShapeSphere, render.Vec3{1, 1, 1}, "", render.White)}, &fuse{}
			},
			func(*fuse, variant.Tick, *config.Vibe, *variant.Env) { panic("lit") },
		)
		rec := &recorder{}
		sched.AddObserver(rec)
		Expect(sched.Swap(vibe("fuse", 1))).To(Succeed())

		frames := facade.Frames()
		Expect(sched.RunFrames(4)).To(Equal(4))
		Expect(sched.Degraded()).To(Equal(4))
		Expect(facade.Frames()).To(Equal(frames + 4))
		Expect(rec.samples[0].Degraded).To(BeTrue())
	})

	It("stops the loop and releases the backend", func() {
		Expect(sched.Stop()).To(Succeed())
		Expect(sched.Stopped()).To(BeTrue())
		Expect(sched.Tick()).To(BeFalse())
		Expect(facade.Closed()).To(BeTrue())
		Expect(facade.LiveNodes()).To(BeZero())
		Expect(sched.Swap(cfg)).To(MatchError(engine.ErrTornDown))
		Expect(sched.Stop()).To(Succeed())
	})

	It("stops when the backend closes underneath it", func() {
		Expect(facade.Close()).To(Succeed())
		Expect(sched.Tick()).To(BeFalse())
		Expect(sched.Stopped()).To(BeTrue())
	})

	Describe("Run", func() {
		It("requires a scene", func() {
			idle := engine.NewScheduler(engine.NewBuilder(memory.New(), registry, nil))
			Expect(idle.Run(context.Background(), time.Millisecond)).To(MatchError(engine.ErrNoScene))
		})

		It("ticks until the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				defer GinkgoRecover()
				Eventually(sched.Frame).Should(BeNumerically(">=", 3))
				cancel()
			}()
			Expect(sched.Run(ctx, time.Millisecond)).To(MatchError(context.Canceled))
		})

		It("returns when stopped", func() {
			go func() {
				defer GinkgoRecover()
				Eventually(sched.Frame).Should(BeNumerically(">=", 1))
				Expect(sched.Stop()).To(Succeed())
			}()
			Expect(sched.Run(context.Background(), time.Millisecond)).To(Succeed())
		})
	})
})
