package variant

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/render"
)

func vibeFor(tag config.Geometry, n int) *config.Vibe {
	cfg := config.DefaultConfig()
	cfg.Geometry.Type = tag
	cfg.Geometry.Count = n
	cfg.Geometry.TextChar = "ア"
	cfg.Motion.Intensity = 1
	return cfg
}

// run steps a freshly built variant the given number of ticks.
func run(reg *Registry, cfg *config.Vibe, ticks int) (EntitySet, State) {
	set, st, err := reg.Build(cfg.Geometry.Type, cfg, NewEnv(7))
	Expect(err).NotTo(HaveOccurred())
	for i := 1; i <= ticks; i++ {
		tick := Tick{Time: float64(i) * 0.01, Delta: 0.01, Frame: i}
		Expect(reg.Step(cfg.Geometry.Type, set, st, tick, cfg)).To(Succeed())
	}
	return set, st
}

func positions(n *render.Node) []render.Vec3 {
	var out []render.Vec3
	if n.Type == render.NodeBatch {
		for _, inst := range n.Instances {
			out = append(out, inst.Position)
		}
	}
	if n.Type == render.NodeSprite {
		out = append(out, n.Position)
	}
	for _, c := range n.Children() {
		out = append(out, positions(c)...)
	}
	return out
}

var _ = Describe("Registry", func() {
	var reg *Registry

	BeforeEach(func() {
		reg = NewRegistry()
	})

	It("registers every geometry tag", func() {
		Expect(reg.Tags()).To(HaveLen(len(config.Geometries)))
		Expect(reg.Tags()).To(ConsistOf(config.Geometries))
	})

	It("marks the sprite variants as text driven", func() {
		for _, tag := range []config.Geometry{
			config.GeometryASCIIShell, config.GeometryEmojiExplosion,
			config.GeometryCharacterGeyser, config.GeometryMatrixRain,
		} {
			Expect(reg.TextDriven(tag)).To(BeTrue(), string(tag))
		}
		Expect(reg.TextDriven(config.GeometrySpheres)).To(BeFalse())
	})

	It("widens the camera for colliding worlds only", func() {
		Expect(reg.CameraAmplitude(config.GeometryCollidingWorlds)).To(Equal(25.0))
		Expect(reg.CameraAmplitude(config.GeometryTornado)).To(Equal(DefaultCameraAmplitude))
		Expect(reg.CameraAmplitude("nope")).To(Equal(DefaultCameraAmplitude))
	})

	for _, tag := range config.Geometries {
		Context(string(tag), func() {
			It("builds the expected number of entities and keeps it while stepping", func() {
				cfg := vibeFor(tag, 50)
				set, _ := run(reg, cfg, 0)
				Expect(set.Count()).To(Equal(reg.Expected(tag, cfg)))

				set, _ = run(reg, cfg, 30)
				Expect(set.Count()).To(Equal(reg.Expected(tag, cfg)))
			})

			It("tolerates an empty count", func() {
				run(reg, vibeFor(tag, 0), 5)
			})

			It("draws only from the palette and fixed structural colors", func() {
				cfg := vibeFor(tag, 20)
				cfg.Palette = []string{"#ff00ff"}
				set, _, err := reg.Build(tag, cfg, NewEnv(3))
				Expect(err).NotTo(HaveOccurred())

				allowed := map[string]bool{"#ff00ff": true}
				for _, c := range []render.Color{black, stoneGray, arrowBrown, cloudGray, burnRed} {
					allowed[c.Hex()] = true
				}
				for _, root := range set.Nodes {
					root.Walk(func(n *render.Node, _ mgl64.Mat4) bool {
						switch n.Type {
						case render.NodeMesh, render.NodeSprite, render.NodeSurface:
							Expect(allowed).To(HaveKey(n.Color.Hex()), n.Name)
						case render.NodeBatch:
							for _, inst := range n.Instances {
								Expect(allowed).To(HaveKey(inst.Color.Hex()), n.Name)
							}
						}
						return true
					})
				}
			})
		})
	}

	It("is deterministic for a fixed seed", func() {
		cfg := vibeFor(config.GeometryVoxelFall, 30)
		a, _, _ := reg.Build(cfg.Geometry.Type, cfg, NewEnv(11))
		b, _, _ := reg.Build(cfg.Geometry.Type, cfg, NewEnv(11))
		Expect(positions(a.Nodes[0])).To(Equal(positions(b.Nodes[0])))
	})

	Describe("lookup failures", func() {
		It("rejects unknown tags", func() {
			_, _, err := reg.Build("hyperCube", vibeFor("hyperCube", 10), NewEnv(1))
			Expect(err).To(MatchError(ErrUnknownVariant))
			var uerr *UnknownVariantError
			Expect(errors.As(err, &uerr)).To(BeTrue())
			Expect(uerr.Tag).To(Equal(config.Geometry("hyperCube")))
		})

		It("rejects text driven tags without textChar", func() {
			cfg := vibeFor(config.GeometryMatrixRain, 10)
			cfg.Geometry.TextChar = ""
			_, _, err := reg.Build(cfg.Geometry.Type, cfg, NewEnv(1))
			Expect(err).To(MatchError(ErrUnknownVariant))
			Expect(err.Error()).To(ContainSubstring("textChar"))
		})

		DescribeTable("Resolve",
			func(tag config.Geometry, text string, want config.Geometry) {
				cfg := vibeFor(tag, 10)
				cfg.Geometry.TextChar = text
				Expect(reg.Resolve(cfg)).To(Equal(want))
			},
			Entry("known tag", config.GeometryTornado, "", config.GeometryTornado),
			Entry("unknown with text", config.Geometry("hyperCube"), "*", config.GeometryEmojiExplosion),
			Entry("unknown without text", config.Geometry("hyperCube"), "", config.GeometryParticles),
			Entry("text driven without text", config.GeometryMatrixRain, "", config.GeometryParticles),
			Entry("text driven with text", config.GeometryMatrixRain, "#", config.GeometryMatrixRain),
		)
	})

	Describe("Step", func() {
		It("recovers a panicking stepper", func() {
			type bomb struct{}
			r := NewEmptyRegistry()
			Register(r, "bomb",
				func(*config.Vibe, *Env) ([]*render.Node, *bomb) {
					return []*render.Node{render.NewMesh("b", render.ShapeBox, uniform(1), "", render.White)}, &bomb{}
				},
				func(*bomb, Tick, *config.Vibe, *Env) { panic("boom") },
			)
			cfg := vibeFor("bomb", 1)
			set, st, err := r.Build("bomb", cfg, NewEnv(1))
			Expect(err).NotTo(HaveOccurred())

			err = r.Step("bomb", set, st, Tick{Frame: 7}, cfg)
			Expect(err).To(MatchError(ErrStepPanicked))
			var serr *StepError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Frame).To(Equal(7))
			Expect(serr.Variant).To(Equal(config.Geometry("bomb")))
		})

		It("reports a state stepped under another tag", func() {
			cfg := vibeFor(config.GeometryParticles, 10)
			set, st, err := reg.Build(config.GeometryParticles, cfg, NewEnv(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(reg.Step(config.GeometrySpheres, set, st, Tick{}, cfg)).To(MatchError(ErrStateMismatch))
		})

		It("ignores an empty entity set", func() {
			Expect(reg.Step(config.GeometrySpheres, EntitySet{}, State{}, Tick{}, vibeFor(config.GeometrySpheres, 0))).To(Succeed())
		})
	})
})

var _ = Describe("Variant motion", func() {
	var reg *Registry

	BeforeEach(func() {
		reg = NewRegistry()
	})

	It("keeps supernova ejecta inside the burst radius", func() {
		set, _ := run(reg, vibeFor(config.GeometrySupernova, 100), 300)
		for _, p := range positions(set.Nodes[0]) {
			Expect(p.Len()).To(BeNumerically("<=", burstBound))
		}
	})

	It("keeps matrix rain between floor and spawn height", func() {
		set, _ := run(reg, vibeFor(config.GeometryMatrixRain, 100), 400)
		ps := positions(set.Nodes[0])
		Expect(ps).To(HaveLen(20))
		for _, p := range ps {
			Expect(p.Y()).To(BeNumerically(">=", rainFloor))
			Expect(p.Y()).To(BeNumerically("<=", 30))
		}
	})

	It("recycles embers at the ceiling", func() {
		set, _ := run(reg, vibeFor(config.GeometryEmbers, 100), 400)
		for _, p := range positions(set.Nodes[0]) {
			Expect(p.Y()).To(BeNumerically(">=", emberFloor))
			Expect(p.Y()).To(BeNumerically("<=", emberCeil))
		}
	})

	It("wraps falling voxels", func() {
		set, _ := run(reg, vibeFor(config.GeometryVoxelFall, 100), 600)
		for _, p := range positions(set.Nodes[0]) {
			Expect(p.Y()).To(BeNumerically(">=", fallFloor))
			Expect(p.Y()).To(BeNumerically("<=", fallTop))
		}
	})

	It("cycles colliding worlds between approach and shatter", func() {
		cfg := vibeFor(config.GeometryCollidingWorlds, 40)
		set, st := run(reg, cfg, 0)
		s := st.v.(*collision)
		Expect(s.phase).To(Equal(phaseApproach))
		Expect(s.debris.Visible).To(BeFalse())

		advance := func(want collisionPhase) int {
			ticks := 0
			for s.phase != want && ticks < 1000 {
				ticks++
				Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Time: float64(ticks) * 0.01, Frame: ticks}, cfg)).To(Succeed())
			}
			return ticks
		}

		Expect(advance(phaseShatter)).To(BeNumerically("~", 140, 2))
		Expect(s.left.Visible).To(BeFalse())
		Expect(s.right.Visible).To(BeFalse())
		Expect(s.debris.Visible).To(BeTrue())

		Expect(advance(phaseApproach)).To(BeNumerically("~", 301, 3))
		Expect(s.left.Visible).To(BeTrue())
		Expect(s.left.Position.X()).To(Equal(-worldStart))
		Expect(s.debris.Visible).To(BeFalse())
	})

	It("knocks castle blocks loose", func() {
		_, st := run(reg, vibeFor(config.GeometrySiegeFire, 50), 600)
		s := st.v.(*siege)
		Expect(s.destroyed()).To(BeNumerically(">", 0))
		for i, b := range s.blocks {
			if b.destroyed {
				Expect(s.castle.Instances[i].Color).To(Equal(burnRed))
			}
		}
	})

	It("sorts pixel columns by lightness", func() {
		_, st := run(reg, vibeFor(config.GeometryPixelSort, 1), sortSide)
		s := st.v.(*pixelSort)
		for x := 0; x < sortSide; x++ {
			col := s.cells[x*sortSide : (x+1)*sortSide]
			for y := 1; y < sortSide; y++ {
				Expect(col[y-1].value).To(BeNumerically("<=", col[y].value))
			}
		}
	})

	It("derives ribbon vertices from rest positions", func() {
		cfg := vibeFor(config.GeometryRibbonWave, 3)
		set, st := run(reg, cfg, 0)
		tick := Tick{Time: 1.25}
		Expect(reg.Step(cfg.Geometry.Type, set, st, tick, cfg)).To(Succeed())
		first := append([]render.Vec3(nil), st.v.(*ribbonWave).ribbons[0].strip.Vertices...)
		Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Time: 7}, cfg)).To(Succeed())
		Expect(reg.Step(cfg.Geometry.Type, set, st, tick, cfg)).To(Succeed())
		Expect(st.v.(*ribbonWave).ribbons[0].strip.Vertices).To(Equal(first))
	})

	It("stacks a fixed number of stones", func() {
		Expect(stoneTotal()).To(Equal(39))
		set, _ := run(reg, vibeFor(config.GeometryStoneStack, 500), 1)
		Expect(set.Count()).To(Equal(39))
	})

	It("places the ascii shell on a sphere", func() {
		set, _ := run(reg, vibeFor(config.GeometryASCIIShell, 60), 0)
		for _, p := range positions(set.Nodes[0]) {
			Expect(math.Abs(p.Len() - shellRadius)).To(BeNumerically("<", 1e-9))
		}
	})
	It("keeps tornado motes on the funnel between floor and ceiling", func() {
		_, st := run(reg, vibeFor(config.GeometryTornado, 200), 3000)
		s := st.v.(*tornado)
		for i, m := range s.motes {
			Expect(m.y).To(BeNumerically(">=", funnelFloor))
			Expect(m.y).To(BeNumerically("<=", funnelCeil))
			p := s.points.Instances[i].Position
			Expect(p).To(Equal(m.position()))
			Expect(math.Hypot(p.X(), p.Z())).To(BeNumerically("~", 1+(m.y+10)*0.3, 1e-9))
		}
	})

	It("wraps a tornado mote from the ceiling to the floor", func() {
		cfg := vibeFor(config.GeometryTornado, 10)
		set, st := run(reg, cfg, 0)
		s := st.v.(*tornado)
		s.motes[0].y = funnelCeil - funnelRise/2
		Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: 1}, cfg)).To(Succeed())
		Expect(s.motes[0].y).To(Equal(funnelFloor))
		Expect(math.Hypot(s.points.Instances[0].Position.X(), s.points.Instances[0].Position.Z())).To(BeNumerically("~", 1, 1e-9))
	})

	It("flashes the storm light occasionally and decays it otherwise", func() {
		cfg := vibeFor(config.GeometryThunderstorm, 20)
		set, st := run(reg, cfg, 0)
		light := st.v.(*storm).lightning
		Expect(light.Intensity).To(BeZero())

		flashes := 0
		for i := 1; i <= 2000; i++ {
			prev := light.Intensity
			Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: i}, cfg)).To(Succeed())
			if light.Intensity == prev*flashDecay {
				continue
			}
			flashes++
			Expect(light.Intensity).To(BeNumerically(">=", 5))
			Expect(light.Intensity).To(BeNumerically("<", 10))
		}
		Expect(flashes).To(BeNumerically(">", 40))
		Expect(flashes).To(BeNumerically("<", 200))
	})

	It("reloads a spent arrow with a fresh delay", func() {
		cfg := vibeFor(config.GeometrySiegeFire, 5)
		set, st := run(reg, cfg, 0)
		s := st.v.(*siege)
		a := &s.volley[0]
		a.delay = 0
		a.pos = vec3{0, siegeRespawnY + 0.5, 0}
		a.vel = vec3{0, -1, 0}

		Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: 1}, cfg)).To(Succeed())
		Expect(a.active).To(BeFalse())
		Expect(a.pos.Y()).To(Equal(-5.0))
		Expect(a.pos.Z()).To(BeNumerically(">=", 20))
		Expect(a.delay).To(BeNumerically(">=", 0))
		Expect(a.delay).To(BeNumerically("<", siegeNextWait))
		Expect(s.arrows.Instances[0].Hidden).To(BeTrue())
		Expect(s.destroyed()).To(Equal(1))
	})

	It("settles rubble exactly on the floor", func() {
		cfg := vibeFor(config.GeometrySiegeFire, 1)
		set, st := run(reg, cfg, 0)
		s := st.v.(*siege)
		s.volley[0].delay = math.Inf(1)
		start := make([]float64, castleBlocks)
		for i := range s.blocks {
			start[i] = s.castle.Instances[i].Position.Y()
			if i%2 == 0 {
				s.strike(i)
			}
		}
		for i := 1; i <= 150; i++ {
			Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: i}, cfg)).To(Succeed())
		}
		for i := range s.blocks {
			y := s.castle.Instances[i].Position.Y()
			if i%2 == 0 {
				Expect(y).To(Equal(rubbleFloor))
			} else {
				Expect(y).To(Equal(start[i]))
			}
		}
	})

	It("restarts emoji shrapnel past the burst radius", func() {
		cfg := vibeFor(config.GeometryEmojiExplosion, 50)
		set, st := run(reg, cfg, 500)
		for _, p := range positions(set.Nodes[0]) {
			Expect(p.Len()).To(BeNumerically("<=", burstBound))
		}

		sh := st.v.(*emojiBurst).pieces[0]
		sh.node.Position = sh.vel.Normalize().Mul(burstBound - 0.1)
		Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: 501}, cfg)).To(Succeed())
		Expect(sh.node.Position).To(Equal(vec3{}))
	})

	It("relaunches geyser glyphs from the vent", func() {
		cfg := vibeFor(config.GeometryCharacterGeyser, 50)
		set, st := run(reg, cfg, 500)
		for _, p := range positions(set.Nodes[0]) {
			Expect(p.Y()).To(BeNumerically(">=", geyserFloor))
		}

		j := &st.v.(*geyser).jets[0]
		j.node.Position = vec3{3, geyserFloor + 0.5, 3}
		j.vel = vec3{0, -1, 0}
		Expect(reg.Step(cfg.Geometry.Type, set, st, Tick{Frame: 501}, cfg)).To(Succeed())
		Expect(j.node.Position).To(Equal(vec3{0, geyserBase, 0}))
		Expect(j.vel.Y()).To(BeNumerically(">=", 0.3))
		Expect(j.vel.Y()).To(BeNumerically("<", 0.6))
	})
})
