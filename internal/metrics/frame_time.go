package metrics

// FrameTime is the mean tick duration in milliseconds.
type FrameTime struct {
	name    string
	sum     float64
	samples int
}

func NewFrameTime() *FrameTime {
	return &FrameTime{
		name: "frame_time_ms",
	}
}

func (f *FrameTime) Name() string {
	return f.name
}

func (f *FrameTime) Observe(s Sample) {
	f.sum += float64(s.Elapsed.Microseconds()) / 1000
	f.samples++
}

func (f *FrameTime) Value() float64 {
	if f.samples == 0 {
		return 0
	}
	return f.sum / float64(f.samples)
}

func (f *FrameTime) Reset() {
	f.sum = 0
	f.samples = 0
}
