package engine

import (
	"math"

	"github.com/tanema/gween/ease"

	"github.com/san-kum/vibesaver/internal/config"
)

const (
	breathPeriod = 4.0
	pulsePeriod  = 1.0
	pulseAttack  = 0.2
)

// envelope is the stage scale motion.pattern applies at clock t. Patterns
// that only shape the variant's own motion leave the stage at 1.
func envelope(p config.MotionPattern, t float64) float64 {
	switch p {
	case config.PatternBreathing:
		return pingPong(ease.InOutSine, t, breathPeriod, 0.92, 1.08)
	case config.PatternPulsing:
		ph := float32(math.Mod(t, pulsePeriod))
		if ph < pulseAttack {
			return float64(ease.OutQuad(ph, 1, 0.15, pulseAttack))
		}
		return float64(ease.InQuad(ph-pulseAttack, 1.15, -0.15, pulsePeriod-pulseAttack))
	}
	return 1
}

// pingPong eases from lo to hi over the first half of period and back over
// the second.
func pingPong(fn ease.TweenFunc, t, period, lo, hi float64) float64 {
	half := period / 2
	ph := math.Mod(t, period)
	if ph < half {
		return float64(fn(float32(ph), float32(lo), float32(hi-lo), float32(half)))
	}
	return float64(fn(float32(ph-half), float32(hi), float32(lo-hi), float32(half)))
}
