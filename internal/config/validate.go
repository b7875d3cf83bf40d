package config

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
)

// Validate reports every problem found, joined. Unknown geometry tags are
// accepted here; the registry falls back for them at build time.
func (v *Vibe) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, &InvalidConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)})
	}

	if len(v.Palette) == 0 {
		bad("palette", "must contain at least one color")
	}
	for i, hex := range v.Palette {
		if _, err := colorful.Hex(hex); err != nil {
			bad(fmt.Sprintf("palette[%d]", i), "not a hex color: %q", hex)
		}
	}
	for field, hex := range map[string]string{
		"background.color1": v.Background.Color1,
		"background.color2": v.Background.Color2,
	} {
		if hex == "" {
			continue
		}
		if _, err := colorful.Hex(hex); err != nil {
			bad(field, "not a hex color: %q", hex)
		}
	}

	switch v.Background.Type {
	case BackgroundSolid, BackgroundGradient, BackgroundNebula, BackgroundGrid:
	default:
		bad("background.type", "unknown background %q", v.Background.Type)
	}

	g := v.Geometry
	if g.Count < 0 {
		bad("geometry.count", "must be non-negative, got %d", g.Count)
	}
	if g.SizeRange[0] < 0 || g.SizeRange[1] < 0 {
		bad("geometry.sizeRange", "must be non-negative")
	}
	if g.SizeRange[0] > g.SizeRange[1] {
		bad("geometry.sizeRange", "min %.3f exceeds max %.3f", g.SizeRange[0], g.SizeRange[1])
	}
	if g.TextChar != "" && len([]rune(g.TextChar)) > 8 {
		bad("geometry.textChar", "too long")
	}

	unit := map[string]float64{
		"motion.cameraSpeed":                 v.Motion.CameraSpeed,
		"motion.intensity":                   v.Motion.Intensity,
		"overlay.glyphOpacity":               v.Overlay.GlyphOpacity,
		"postProcessing.bloom":               v.PostProcessing.Bloom,
		"postProcessing.glow":                v.PostProcessing.Glow,
		"postProcessing.grain":               v.PostProcessing.Grain,
		"postProcessing.chromaticAberration": v.PostProcessing.ChromaticAberration,
	}
	for field, val := range unit {
		if val < 0 || val > 1 {
			bad(field, "must be in [0,1], got %g", val)
		}
	}

	if v.Performance.MaxParticles < 0 {
		bad("performance.maxParticles", "must be non-negative")
	}
	if v.Performance.TargetFPS < 0 {
		bad("performance.targetFPS", "must be non-negative")
	}

	return errors.Join(errs...)
}

// Known reports whether tag is one of the declared geometry tags.
func Known(tag Geometry) bool {
	for _, g := range Geometries {
		if g == tag {
			return true
		}
	}
	return false
}
