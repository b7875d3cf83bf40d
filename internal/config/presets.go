package config

import "sort"

func preset(id, name, desc string, palette []string, bg Background, g GeometryConfig, m Motion, pp PostProcessing) *Vibe {
	v := DefaultConfig()
	v.ID, v.Name, v.Description = id, name, desc
	v.Palette = palette
	v.Background = bg
	v.Geometry = g
	v.Motion = m
	v.PostProcessing = pp
	return v
}

var Presets = map[string]*Vibe{
	"ambient-drift": preset("ambient-drift", "Ambient Drift", "A slow cloud of motes.",
		[]string{"#7f5af0", "#2cb67d", "#e4f9f5"},
		Background{Type: BackgroundSolid, Color1: "#050505"},
		GeometryConfig{Type: GeometryParticles, Count: DefaultCount, SizeRange: [2]float64{DefaultSizeMin, DefaultSizeMax}, Material: MaterialMatte},
		Motion{CameraDrift: true, CameraSpeed: DefaultCameraSpeed, Pattern: PatternDrifting, Intensity: DefaultIntensity},
		PostProcessing{Bloom: 0.5, Glow: 0.4, Grain: 0.1},
	),
	"cosmic-collision": preset("cosmic-collision", "Cosmic Collision", "Two worlds meet and shatter.",
		[]string{"#ff6b35", "#f7c59f", "#2ec4b6"},
		Background{Type: BackgroundNebula, Color1: "#02010a", Color2: "#1b0f3b"},
		GeometryConfig{Type: GeometryCollidingWorlds, Count: 300, SizeRange: [2]float64{0.1, 0.4}, Material: MaterialPhysical},
		Motion{CameraDrift: true, CameraSpeed: 0.4, Pattern: PatternExplosion, Intensity: 1},
		PostProcessing{Bloom: 0.8, Glow: 0.5, Grain: 0.1},
	),
	"siege": preset("siege", "Siege at Dusk", "Arrows rain on a crumbling keep.",
		[]string{"#ffb703", "#fb8500", "#8ecae6"},
		Background{Type: BackgroundGradient, Color1: "#14080e", Color2: "#3d1f2b"},
		GeometryConfig{Type: GeometrySiegeFire, Count: 250, SizeRange: [2]float64{0.1, 0.3}, Material: MaterialMetallic},
		Motion{CameraDrift: true, CameraSpeed: 0.2, Pattern: PatternLinearFast, Intensity: 0.8},
		PostProcessing{Bloom: 0.6, Glow: 0.4, Grain: 0.2},
	),
	"event-horizon": preset("event-horizon", "Event Horizon", "An accretion disk circles the dark.",
		[]string{"#f72585", "#7209b7", "#4cc9f0"},
		Background{Type: BackgroundSolid, Color1: "#000000"},
		GeometryConfig{Type: GeometryBlackHole, Count: 2000, SizeRange: [2]float64{0.05, 0.15}, Material: MaterialNeon},
		Motion{CameraDrift: true, CameraSpeed: 0.3, Pattern: PatternSpiral, Intensity: 0.6},
		PostProcessing{Bloom: 1, Glow: 0.8},
	),
	"dust-devil": preset("dust-devil", "Dust Devil", "A cone of grit spinning upward.",
		[]string{"#d4a373", "#faedcd", "#ccd5ae"},
		Background{Type: BackgroundGradient, Color1: "#2b2118", Color2: "#6f4e37"},
		GeometryConfig{Type: GeometryTornado, Count: 1500, SizeRange: [2]float64{0.05, 0.2}, Material: MaterialMatte},
		Motion{CameraDrift: false, CameraSpeed: 0.2, Pattern: PatternSpiral, Intensity: 0.7},
		PostProcessing{Bloom: 0.3, Glow: 0.2, Grain: 0.3},
	),
	"neon-grid": preset("neon-grid", "Neon Grid", "Endless towers streaming past.",
		[]string{"#ff00ff", "#00ffff", "#ffff00"},
		Background{Type: BackgroundGrid, Color1: "#ff00ff", Color2: "#00ffff"},
		GeometryConfig{Type: GeometryNeonCity, Count: 200, SizeRange: [2]float64{0.5, 1}, Material: MaterialNeon},
		Motion{CameraDrift: true, CameraSpeed: 0.5, Pattern: PatternLinearFast, Intensity: 0.9},
		PostProcessing{Bloom: 0.9, Glow: 0.6, ChromaticAberration: 0.3},
	),
	"digital-rain": preset("digital-rain", "Digital Rain", "Falling code.",
		[]string{"#00ff41", "#008f11"},
		Background{Type: BackgroundSolid, Color1: "#000000"},
		GeometryConfig{Type: GeometryMatrixRain, Count: 500, SizeRange: [2]float64{0.3, 0.6}, Material: MaterialNeon, TextChar: "ア"},
		Motion{CameraDrift: false, CameraSpeed: 0.1, Pattern: PatternLinearFast, Intensity: 0.8},
		PostProcessing{Bloom: 0.7, Glow: 0.5, Grain: 0.2},
	),
	"storm-front": preset("storm-front", "Storm Front", "Clouds lit by sudden lightning.",
		[]string{"#caf0f8", "#90e0ef", "#48cae4"},
		Background{Type: BackgroundNebula, Color1: "#0b0c10", Color2: "#1f2833"},
		GeometryConfig{Type: GeometryThunderstorm, Count: 60, SizeRange: [2]float64{1, 3}, Material: MaterialMatte},
		Motion{CameraDrift: true, CameraSpeed: 0.2, Pattern: PatternBreathing, Intensity: 0.5},
		PostProcessing{Bloom: 0.5, Glow: 0.7, Grain: 0.4},
	),
	"star-death": preset("star-death", "Star Death", "A star blows itself apart, again and again.",
		[]string{"#ffbe0b", "#fb5607", "#ff006e", "#8338ec"},
		Background{Type: BackgroundNebula, Color1: "#03001c", Color2: "#301e67"},
		GeometryConfig{Type: GeometrySupernova, Count: 3000, SizeRange: [2]float64{0.05, 0.1}, Material: MaterialNeon},
		Motion{CameraDrift: true, CameraSpeed: 0.3, Pattern: PatternExplosion, Intensity: 1},
		PostProcessing{Bloom: 1, Glow: 0.9},
	),
	"forge": preset("forge", "Forge Embers", "Sparks lifting off a fire.",
		[]string{"#ff4800", "#ff9e00", "#ffd000"},
		Background{Type: BackgroundSolid, Color1: "#0a0302"},
		GeometryConfig{Type: GeometryEmbers, Count: 800, SizeRange: [2]float64{0.03, 0.1}, Material: MaterialNeon},
		Motion{CameraDrift: false, CameraSpeed: 0.1, Pattern: PatternPulsing, Intensity: 0.6},
		PostProcessing{Bloom: 0.9, Glow: 0.6, Grain: 0.2},
	),
	"zen-garden": preset("zen-garden", "Zen Garden", "Cairns breathing in still air.",
		[]string{"#a3b18a", "#588157", "#dad7cd"},
		Background{Type: BackgroundGradient, Color1: "#1b1f1b", Color2: "#344e41"},
		GeometryConfig{Type: GeometryStoneStack, Count: 40, SizeRange: [2]float64{0.4, 0.9}, Material: MaterialMatte},
		Motion{CameraDrift: true, CameraSpeed: 0.1, Pattern: PatternBreathing, Intensity: 0.3},
		PostProcessing{Bloom: 0.2, Glow: 0.2, Grain: 0.3},
	),
	"voxel-snow": preset("voxel-snow", "Voxel Snow", "Cubes drifting down forever.",
		[]string{"#e0fbfc", "#98c1d9", "#3d5a80"},
		Background{Type: BackgroundGradient, Color1: "#0d1b2a", Color2: "#1b263b"},
		GeometryConfig{Type: GeometryVoxelFall, Count: 600, SizeRange: [2]float64{0.2, 0.5}, Material: MaterialGlass},
		Motion{CameraDrift: true, CameraSpeed: 0.2, Pattern: PatternDrifting, Intensity: 0.5},
		PostProcessing{Bloom: 0.4, Glow: 0.3},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(id string) *Vibe {
	p, ok := Presets[id]
	if !ok {
		return nil
	}
	return p.Clone()
}

func ListPresets() []string {
	ids := make([]string, 0, len(Presets))
	for id := range Presets {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
