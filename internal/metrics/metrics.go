// Package metrics aggregates per-frame samples emitted by the animation
// scheduler.
package metrics

import "time"

// Sample describes one scheduler tick.
type Sample struct {
	Frame    int
	Clock    float64
	Elapsed  time.Duration
	Entities int
	Nodes    int
	// Degraded is set when the variant step failed and was skipped.
	Degraded bool
}

type Observer interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Standard returns the observers the CLI attaches to every run.
func Standard() []Observer {
	return []Observer{NewFrameTime(), NewDegraded(), NewPeakNodes(), NewEntityDrift()}
}
