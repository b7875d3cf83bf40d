package metrics

// Degraded is the fraction of ticks whose variant step failed.
type Degraded struct {
	name     string
	degraded int
	samples  int
}

func NewDegraded() *Degraded {
	return &Degraded{
		name: "degraded_ratio",
	}
}

func (d *Degraded) Name() string {
	return d.name
}

func (d *Degraded) Observe(s Sample) {
	d.samples++
	if s.Degraded {
		d.degraded++
	}
}

func (d *Degraded) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.degraded) / float64(d.samples)
}

func (d *Degraded) Count() int { return d.degraded }

func (d *Degraded) Reset() {
	d.degraded = 0
	d.samples = 0
}
