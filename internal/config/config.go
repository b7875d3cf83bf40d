package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCount        = 400
	DefaultSizeMin      = 0.1
	DefaultSizeMax      = 0.5
	DefaultIntensity    = 0.5
	DefaultCameraSpeed  = 0.3
	DefaultTargetFPS    = 60
	DefaultMaxParticles = 5000
)

// Geometry is the tag selecting a procedural scene variant.
type Geometry string

const (
	GeometryParticles           Geometry = "particles"
	GeometrySpheres             Geometry = "spheres"
	GeometryGridWaves           Geometry = "gridWaves"
	GeometryRibbonWave          Geometry = "ribbonWave"
	GeometryOrbits              Geometry = "orbits"
	GeometryFireworks           Geometry = "fireworks"
	GeometryASCIIShell          Geometry = "asciiShell"
	GeometryEmojiExplosion      Geometry = "emojiExplosion"
	GeometryCharacterGeyser     Geometry = "characterGeyser"
	GeometryFractureRoad        Geometry = "fractureRoad"
	GeometryRocketLaunch        Geometry = "rocketLaunch"
	GeometryDNASpiral           Geometry = "dnaSpiral"
	GeometryMatrixRain          Geometry = "matrixRain"
	GeometryPolyLandscape       Geometry = "polyLandscape"
	GeometryCityLights          Geometry = "cityLights"
	GeometrySolarSphere         Geometry = "solarSphere"
	GeometryLiquidField         Geometry = "liquidField"
	GeometryWarpTunnel          Geometry = "warpTunnel"
	GeometryVoxelFall           Geometry = "voxelFall"
	GeometryStoneStack          Geometry = "stoneStack"
	GeometryEmbers              Geometry = "embers"
	GeometryGlassRain           Geometry = "glassRain"
	GeometryNebulaCloud         Geometry = "nebulaCloud"
	GeometryCollidingWorlds     Geometry = "collidingWorlds"
	GeometrySiegeFire           Geometry = "siegeFire"
	GeometryBlackHole           Geometry = "blackHole"
	GeometryNeonCity            Geometry = "neonCity"
	GeometryBioluminescentAbyss Geometry = "bioluminescentAbyss"
	GeometryThunderstorm        Geometry = "thunderstorm"
	GeometryCrystalGrowth       Geometry = "crystalGrowth"
	GeometryTornado             Geometry = "tornado"
	GeometryPixelSort           Geometry = "pixelSort"
	GeometrySupernova           Geometry = "supernova"
)

// Geometries lists every known geometry tag in declaration order.
var Geometries = []Geometry{
	GeometryParticles, GeometrySpheres, GeometryGridWaves, GeometryRibbonWave,
	GeometryOrbits, GeometryFireworks, GeometryASCIIShell, GeometryEmojiExplosion,
	GeometryCharacterGeyser, GeometryFractureRoad, GeometryRocketLaunch, GeometryDNASpiral,
	GeometryMatrixRain, GeometryPolyLandscape, GeometryCityLights, GeometrySolarSphere,
	GeometryLiquidField, GeometryWarpTunnel, GeometryVoxelFall, GeometryStoneStack,
	GeometryEmbers, GeometryGlassRain, GeometryNebulaCloud, GeometryCollidingWorlds,
	GeometrySiegeFire, GeometryBlackHole, GeometryNeonCity, GeometryBioluminescentAbyss,
	GeometryThunderstorm, GeometryCrystalGrowth, GeometryTornado, GeometryPixelSort,
	GeometrySupernova,
}

type BackgroundType string

const (
	BackgroundSolid    BackgroundType = "solid"
	BackgroundGradient BackgroundType = "gradient"
	BackgroundNebula   BackgroundType = "nebula"
	BackgroundGrid     BackgroundType = "grid"
)

type Material string

const (
	MaterialGlass    Material = "glass"
	MaterialNeon     Material = "neon"
	MaterialMetallic Material = "metallic"
	MaterialHologram Material = "hologram"
	MaterialMatte    Material = "matte"
	MaterialPhysical Material = "physical"
)

type MotionPattern string

const (
	PatternBreathing  MotionPattern = "breathing"
	PatternOrbiting   MotionPattern = "orbiting"
	PatternDrifting   MotionPattern = "drifting"
	PatternPulsing    MotionPattern = "pulsing"
	PatternNoiseFlow  MotionPattern = "noiseFlow"
	PatternExplosion  MotionPattern = "explosion"
	PatternLinearFast MotionPattern = "linearFast"
	PatternSpiral     MotionPattern = "spiral"
)

type GlyphStyle string

const (
	GlyphNone       GlyphStyle = "none"
	GlyphZenRunes   GlyphStyle = "zenRunes"
	GlyphMatrixCode GlyphStyle = "matrixCode"
	GlyphCircuits   GlyphStyle = "circuits"
)

type Quality string

const (
	QualityLow    Quality = "low"
	QualityMedium Quality = "medium"
	QualityHigh   Quality = "high"
	QualityAuto   Quality = "auto"
)

// Vibe is the declarative description of one scene. A Vibe is replaced
// wholesale on every edit and is never mutated by the engine.
type Vibe struct {
	ID             string         `yaml:"id" json:"id"`
	Name           string         `yaml:"name" json:"name"`
	Description    string         `yaml:"description" json:"description"`
	Palette        []string       `yaml:"palette" json:"palette"`
	Background     Background     `yaml:"background" json:"background"`
	Geometry       GeometryConfig `yaml:"geometry" json:"geometry"`
	Motion         Motion         `yaml:"motion" json:"motion"`
	Overlay        Overlay        `yaml:"overlay" json:"overlay"`
	PostProcessing PostProcessing `yaml:"postProcessing" json:"postProcessing"`
	Performance    Performance    `yaml:"performance" json:"performance"`
	Assets         *Assets        `yaml:"assets,omitempty" json:"assets,omitempty"`
}

type Background struct {
	Type   BackgroundType `yaml:"type" json:"type"`
	Color1 string         `yaml:"color1,omitempty" json:"color1,omitempty"`
	Color2 string         `yaml:"color2,omitempty" json:"color2,omitempty"`
}

type GeometryConfig struct {
	Type      Geometry   `yaml:"type" json:"type"`
	Count     int        `yaml:"count" json:"count"`
	SizeRange [2]float64 `yaml:"sizeRange" json:"sizeRange"`
	Material  Material   `yaml:"material" json:"material"`
	TextChar  string     `yaml:"textChar,omitempty" json:"textChar,omitempty"`
}

type Motion struct {
	CameraDrift bool          `yaml:"cameraDrift" json:"cameraDrift"`
	CameraSpeed float64       `yaml:"cameraSpeed" json:"cameraSpeed"`
	Pattern     MotionPattern `yaml:"pattern" json:"pattern"`
	Intensity   float64       `yaml:"intensity" json:"intensity"`
}

type Overlay struct {
	GlyphsEnabled bool       `yaml:"glyphsEnabled" json:"glyphsEnabled"`
	GlyphStyle    GlyphStyle `yaml:"glyphStyle" json:"glyphStyle"`
	GlyphOpacity  float64    `yaml:"glyphOpacity" json:"glyphOpacity"`
}

type PostProcessing struct {
	Bloom               float64 `yaml:"bloom" json:"bloom"`
	Glow                float64 `yaml:"glow" json:"glow"`
	Grain               float64 `yaml:"grain" json:"grain"`
	ChromaticAberration float64 `yaml:"chromaticAberration" json:"chromaticAberration"`
}

type Performance struct {
	TargetFPS    int     `yaml:"targetFPS" json:"targetFPS"`
	Quality      Quality `yaml:"quality" json:"quality"`
	MaxParticles int     `yaml:"maxParticles" json:"maxParticles"`
}

// Assets holds externally resolved image locations. Fetching is the
// caller's job; the engine only binds decoded images.
type Assets struct {
	BackgroundImageURL string `yaml:"backgroundImageUrl,omitempty" json:"backgroundImageUrl,omitempty"`
	TextureImageURL    string `yaml:"textureImageUrl,omitempty" json:"textureImageUrl,omitempty"`
}

func DefaultConfig() *Vibe {
	return &Vibe{
		ID:      "default",
		Name:    "Ambient Drift",
		Palette: []string{"#7f5af0", "#2cb67d", "#e4f9f5"},
		Background: Background{
			Type:   BackgroundSolid,
			Color1: "#050505",
		},
		Geometry: GeometryConfig{
			Type:      GeometryParticles,
			Count:     DefaultCount,
			SizeRange: [2]float64{DefaultSizeMin, DefaultSizeMax},
			Material:  MaterialMatte,
		},
		Motion: Motion{
			CameraDrift: true,
			CameraSpeed: DefaultCameraSpeed,
			Pattern:     PatternDrifting,
			Intensity:   DefaultIntensity,
		},
		Overlay: Overlay{GlyphStyle: GlyphNone},
		PostProcessing: PostProcessing{
			Bloom: 0.5,
			Glow:  0.4,
			Grain: 0.1,
		},
		Performance: Performance{
			TargetFPS:    DefaultTargetFPS,
			Quality:      QualityAuto,
			MaxParticles: DefaultMaxParticles,
		},
	}
}

// Load reads a configuration file. Files ending in .json are decoded as
// JSON (the format the generation service emits), everything else as YAML.
// Fields missing from the file keep their DefaultConfig values.
func Load(path string) (*Vibe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if isJSON(path) {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Vibe) error {
	var (
		data []byte
		err  error
	)
	if isJSON(path) {
		data, err = json.MarshalIndent(cfg, "", "  ")
	} else {
		data, err = yaml.Marshal(cfg)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func isJSON(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

// Clone returns a deep copy so callers can derive a new configuration
// without touching one the engine may still be reading.
func (v *Vibe) Clone() *Vibe {
	c := *v
	c.Palette = append([]string(nil), v.Palette...)
	if v.Assets != nil {
		a := *v.Assets
		c.Assets = &a
	}
	return &c
}

// Normalize fills defaults for fields a partial configuration (preset
// edit, generated JSON) may leave empty, and clamps count to
// performance.maxParticles.
func (v *Vibe) Normalize() {
	if v.Background.Type == "" {
		v.Background.Type = BackgroundSolid
	}
	if v.Geometry.Type == "" {
		v.Geometry.Type = GeometryParticles
	}
	if v.Geometry.Material == "" {
		v.Geometry.Material = MaterialMatte
	}
	if v.Geometry.SizeRange == [2]float64{} {
		v.Geometry.SizeRange = [2]float64{DefaultSizeMin, DefaultSizeMax}
	}
	if v.Motion.Pattern == "" {
		v.Motion.Pattern = PatternDrifting
	}
	if v.Overlay.GlyphStyle == "" {
		v.Overlay.GlyphStyle = GlyphNone
	}
	if v.Performance.TargetFPS <= 0 {
		v.Performance.TargetFPS = DefaultTargetFPS
	}
	if v.Performance.Quality == "" {
		v.Performance.Quality = QualityAuto
	}
	if v.Performance.MaxParticles > 0 && v.Geometry.Count > v.Performance.MaxParticles {
		v.Geometry.Count = v.Performance.MaxParticles
	}
}

// Prepare is the configuration boundary: it normalizes and validates a
// configuration before it may reach the engine.
func Prepare(v *Vibe) error {
	if v == nil {
		return &InvalidConfigurationError{Field: "config", Reason: "missing"}
	}
	v.Normalize()
	return v.Validate()
}

// Colors parses the palette. Entries that fail to parse become white;
// Validate rejects such palettes at the boundary.
func (v *Vibe) Colors() []colorful.Color {
	out := make([]colorful.Color, 0, len(v.Palette))
	for _, hex := range v.Palette {
		c, err := colorful.Hex(hex)
		if err != nil {
			c = colorful.Color{R: 1, G: 1, B: 1}
		}
		out = append(out, c)
	}
	return out
}

// ParseColor parses a hex color, returning fallback when s is empty or invalid.
func ParseColor(s string, fallback colorful.Color) colorful.Color {
	if s == "" {
		return fallback
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return fallback
	}
	return c
}
