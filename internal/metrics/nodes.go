package metrics

type PeakNodes struct {
	name string
	peak int
}

func NewPeakNodes() *PeakNodes {
	return &PeakNodes{name: "peak_nodes"}
}

func (p *PeakNodes) Name() string { return p.name }

func (p *PeakNodes) Observe(s Sample) {
	if s.Nodes > p.peak {
		p.peak = s.Nodes
	}
}

func (p *PeakNodes) Value() float64 { return float64(p.peak) }

func (p *PeakNodes) Reset() { p.peak = 0 }

// EntityDrift tracks the largest change in entity count relative to the
// first observed tick. A healthy scene keeps it at zero between rebuilds.
type EntityDrift struct {
	name     string
	initial  int
	maxDrift int
	samples  int
}

func NewEntityDrift() *EntityDrift {
	return &EntityDrift{name: "entity_drift"}
}

func (e *EntityDrift) Name() string { return e.name }

func (e *EntityDrift) Observe(s Sample) {
	if e.samples == 0 {
		e.initial = s.Entities
	}
	e.samples++
	drift := s.Entities - e.initial
	if drift < 0 {
		drift = -drift
	}
	if drift > e.maxDrift {
		e.maxDrift = drift
	}
}

func (e *EntityDrift) Value() float64 { return float64(e.maxDrift) }

func (e *EntityDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}
