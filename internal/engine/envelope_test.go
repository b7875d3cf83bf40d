package engine

import (
	"math"
	"testing"

	"github.com/san-kum/vibesaver/internal/config"
)

func TestEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		pattern config.MotionPattern
		t       float64
		want    float64
	}{
		{"drifting is flat", config.PatternDrifting, 1.3, 1},
		{"breathing starts low", config.PatternBreathing, 0, 0.92},
		{"breathing peaks mid period", config.PatternBreathing, breathPeriod / 2, 1.08},
		{"pulsing rests at one", config.PatternPulsing, 0, 1},
		{"pulsing peaks after attack", config.PatternPulsing, pulseAttack, 1.15},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := envelope(tt.pattern, tt.t); math.Abs(got-tt.want) > 1e-5 {
				t.Errorf("envelope(%s, %f) = %f, want %f", tt.pattern, tt.t, got, tt.want)
			}
		})
	}
}

func TestEnvelope_Bounded(t *testing.T) {
	for _, p := range []config.MotionPattern{config.PatternBreathing, config.PatternPulsing} {
		for i := 0; i < 1000; i++ {
			v := envelope(p, float64(i)*0.013)
			if v < 0.92-1e-5 || v > 1.15+1e-5 {
				t.Fatalf("%s out of range at step %d: %f", p, i, v)
			}
		}
	}
}
