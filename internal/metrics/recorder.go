package metrics

// Recorder keeps the samples it observes. With a positive limit only the
// most recent limit samples are retained.
type Recorder struct {
	limit   int
	samples []Sample
}

func NewRecorder(limit int) *Recorder {
	return &Recorder{limit: limit}
}

func (r *Recorder) Name() string {
	return "frames"
}

func (r *Recorder) Observe(s Sample) {
	r.samples = append(r.samples, s)
	if r.limit > 0 && len(r.samples) > r.limit {
		r.samples = append(r.samples[:0], r.samples[len(r.samples)-r.limit:]...)
	}
}

// Value is the number of retained samples.
func (r *Recorder) Value() float64 {
	return float64(len(r.samples))
}

func (r *Recorder) Reset() {
	r.samples = r.samples[:0]
}

// Samples returns a copy of the retained samples, oldest first.
func (r *Recorder) Samples() []Sample {
	out := make([]Sample, len(r.samples))
	copy(out, r.samples)
	return out
}

// FrameTimes returns the retained tick durations in milliseconds.
func (r *Recorder) FrameTimes() []float64 {
	out := make([]float64, len(r.samples))
	for i, s := range r.samples {
		out[i] = float64(s.Elapsed.Microseconds()) / 1000
	}
	return out
}
