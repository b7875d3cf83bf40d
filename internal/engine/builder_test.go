package engine_test

import (
	"errors"
	"image"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/vibesaver/internal/config"
	"github.com/san-kum/vibesaver/internal/engine"
	"github.com/san-kum/vibesaver/internal/render"
	"github.com/san-kum/vibesaver/internal/render/memory"
	"github.com/san-kum/vibesaver/internal/variant"
)

type images map[string]image.Image

func (m images) Image(url string) (image.Image, error) {
	if img, ok := m[url]; ok {
		return img, nil
	}
	return nil, errors.New("not found")
}

func vibe(tag config.Geometry, n int) *config.Vibe {
	cfg := config.DefaultConfig()
	cfg.Geometry.Type = tag
	cfg.Geometry.Count = n
	return cfg
}

func countType(root *render.Node, t render.NodeType) int {
	n := 0
	root.Walk(func(node *render.Node, _ mgl64.Mat4) bool {
		if node.Type == t {
			n++
		}
		return true
	})
	return n
}

var _ = Describe("Builder", func() {
	var (
		facade  *memory.Facade
		builder *engine.Builder
	)

	BeforeEach(func() {
		facade = memory.New()
		builder = engine.NewBuilder(facade, variant.NewRegistry(), nil, engine.WithSeed(1))
	})

	It("yields the same scene shape when rebuilt with the same configuration", func() {
		cfg := vibe(config.GeometrySiegeFire, 40)
		first, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		nodes := facade.LiveNodes()
		children := facade.Scene().NumChildren()

		second, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Set.Count()).To(Equal(first.Set.Count()))
		Expect(facade.LiveNodes()).To(Equal(nodes))
		Expect(facade.Scene().NumChildren()).To(Equal(children))
		Expect(second.Generation).To(Equal(first.Generation + 1))
	})

	It("never accumulates nodes across rebuilds", func() {
		for _, cfg := range []*config.Vibe{
			vibe(config.GeometryTornado, 50),
			vibe(config.GeometryStoneStack, 10),
			vibe(config.GeometryWarpTunnel, 30),
			config.GetPreset("neon-grid"),
		} {
			_, err := builder.Rebuild(cfg)
			Expect(err).NotTo(HaveOccurred())
		}
		final := vibe(config.GeometryRibbonWave, 6)
		_, err := builder.Rebuild(final)
		Expect(err).NotTo(HaveOccurred())

		fresh := memory.New()
		_, err = engine.NewBuilder(fresh, variant.NewRegistry(), nil).Rebuild(final)
		Expect(err).NotTo(HaveOccurred())
		Expect(facade.LiveNodes()).To(Equal(fresh.LiveNodes()))
	})

	It("does not modify the configuration it was given", func() {
		cfg := vibe(config.GeometrySpheres, 10)
		cfg.Performance.MaxParticles = 5
		h, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(cfg.Geometry.Count).To(Equal(10))
		Expect(h.Config.Geometry.Count).To(Equal(5))
	})

	It("falls back to the particle cloud for unknown geometry", func() {
		h, err := builder.Rebuild(vibe("hyperCube", 25))
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Tag).To(Equal(config.GeometryParticles))
		Expect(h.Set.Count()).To(Equal(25))
	})

	It("falls back when a text variant has no textChar", func() {
		h, err := builder.Rebuild(vibe(config.GeometryMatrixRain, 25))
		Expect(err).NotTo(HaveOccurred())
		Expect(h.Tag).To(Equal(config.GeometryParticles))
	})

	It("rejects invalid configurations and keeps the live scene", func() {
		_, err := builder.Rebuild(vibe(config.GeometrySpheres, 10))
		Expect(err).NotTo(HaveOccurred())
		nodes := facade.LiveNodes()

		bad := vibe(config.GeometrySpheres, 10)
		bad.Palette = nil
		_, err = builder.Rebuild(bad)
		Expect(err).To(MatchError(config.ErrInvalidConfiguration))
		Expect(facade.LiveNodes()).To(Equal(nodes))
		Expect(builder.Current()).NotTo(BeNil())

		_, err = builder.Rebuild(nil)
		Expect(err).To(MatchError(config.ErrInvalidConfiguration))
	})

	It("keeps the live scene when the variant cannot build", func() {
		reg := variant.NewEmptyRegistry()
		variant.Register(reg, config.GeometrySpheres,
			func(cfg *config.Vibe, _ *variant.Env) ([]*render.Node, *struct{}) {
				return []*render.Node{render.NewGroup("only")}, &struct{}{}
			},
			func(*struct{}, variant.Tick, *config.Vibe, *variant.Env) {})
		fc := memory.New()
		sched := engine.NewScheduler(engine.NewBuilder(fc, reg, nil))
		Expect(sched.Swap(vibe(config.GeometrySpheres, 1))).To(Succeed())
		live := sched.Handle()
		nodes := fc.LiveNodes()
		bg := fc.Background()

		err := sched.Swap(vibe(config.GeometryTornado, 10))
		Expect(err).To(MatchError(variant.ErrUnknownVariant))
		Expect(sched.Handle()).To(BeIdenticalTo(live))
		Expect(fc.LiveNodes()).To(Equal(nodes))
		Expect(fc.Background()).To(Equal(bg))
		Expect(fc.Scene().Children()).To(ContainElement(live.Stage))
		Expect(sched.Tick()).To(BeTrue())
	})

	It("attaches the three standard lights tinted by the palette", func() {
		cfg := vibe(config.GeometrySpheres, 5)
		cfg.Palette = []string{"#ff0000", "#00ff00"}
		_, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		Expect(countType(facade.Scene(), render.NodeLight)).To(Equal(3))

		for _, n := range facade.Scene().Children() {
			if n.Type == render.NodeLight && n.Light == render.LightPoint {
				Expect(n.Color.Hex()).To(Equal("#ff0000"))
				Expect(n.Range).To(Equal(50.0))
			}
		}
	})

	It("maps post-processing strengths", func() {
		cfg := vibe(config.GeometrySpheres, 5)
		cfg.PostProcessing = config.PostProcessing{Bloom: 0.5, Glow: 0.3, Grain: 0.2, ChromaticAberration: 0.1}
		_, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		fx := facade.PostFX()
		Expect(fx.BloomStrength).To(Equal(1.0))
		Expect(fx.BloomRadius).To(Equal(0.3))
		Expect(fx.Grain).To(Equal(0.2))
		Expect(fx.Chromatic).To(Equal(0.1))
	})

	DescribeTable("backgrounds",
		func(kind config.BackgroundType, want render.BackgroundType, grids int) {
			cfg := vibe(config.GeometrySpheres, 5)
			cfg.Background = config.Background{Type: kind, Color1: "#112233", Color2: "#445566"}
			_, err := builder.Rebuild(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(facade.Background().Type).To(Equal(want))
			Expect(countType(facade.Scene(), render.NodeGrid)).To(Equal(grids))
		},
		Entry("solid", config.BackgroundSolid, render.BackgroundSolid, 0),
		Entry("gradient", config.BackgroundGradient, render.BackgroundGradient, 0),
		Entry("nebula", config.BackgroundNebula, render.BackgroundNebula, 0),
		Entry("grid", config.BackgroundGrid, render.BackgroundGrid, 1),
	)

	It("uses exponential fog for nebula backgrounds", func() {
		cfg := vibe(config.GeometrySpheres, 5)
		cfg.Background = config.Background{Type: config.BackgroundNebula, Color1: "#000000", Color2: "#220044"}
		_, err := builder.Rebuild(cfg)
		Expect(err).NotTo(HaveOccurred())
		fog := facade.Background().Fog
		Expect(fog).NotTo(BeNil())
		Expect(fog.Density).To(Equal(0.015))
		Expect(fog.Color.Hex()).To(Equal("#220044"))
	})

	Describe("background image override", func() {
		var img image.Image

		BeforeEach(func() {
			img = image.NewRGBA(image.Rect(0, 0, 4, 4))
			builder = engine.NewBuilder(facade, variant.NewRegistry(), images{"bg.png": img})
		})

		It("binds a resolved image", func() {
			cfg := vibe(config.GeometrySpheres, 5)
			cfg.Assets = &config.Assets{BackgroundImageURL: "bg.png"}
			_, err := builder.Rebuild(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(facade.Background().Type).To(Equal(render.BackgroundImage))
			Expect(facade.Background().Image).To(BeIdenticalTo(img))
		})

		It("falls back to the configured background when loading fails", func() {
			cfg := vibe(config.GeometrySpheres, 5)
			cfg.Background.Type = config.BackgroundGrid
			cfg.Assets = &config.Assets{BackgroundImageURL: "missing.png"}
			_, err := builder.Rebuild(cfg)
			Expect(err).NotTo(HaveOccurred())
			Expect(facade.Background().Type).To(Equal(render.BackgroundGrid))
		})
	})

	It("tears down synchronously and refuses further rebuilds", func() {
		_, err := builder.Rebuild(vibe(config.GeometrySpheres, 5))
		Expect(err).NotTo(HaveOccurred())
		Expect(builder.Teardown()).To(Succeed())
		Expect(facade.Closed()).To(BeTrue())
		Expect(facade.LiveNodes()).To(BeZero())
		Expect(builder.Teardown()).To(Succeed())

		_, err = builder.Rebuild(vibe(config.GeometrySpheres, 5))
		Expect(err).To(MatchError(engine.ErrTornDown))
	})
})
