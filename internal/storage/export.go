package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/vibesaver/internal/metrics"
)

type ExportData struct {
	RunMetadata
	FrameTimes []float64 `json:"frameTimes"`
	Entities   []int     `json:"entities"`
	Nodes      []int     `json:"nodes"`
	Degraded   []int     `json:"degradedFrames"`
}

// ExportJSON writes a run and its per-frame series as one JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, samples []metrics.Sample) error {
	data := ExportData{
		RunMetadata: meta,
		FrameTimes:  make([]float64, len(samples)),
		Entities:    make([]int, len(samples)),
		Nodes:       make([]int, len(samples)),
		Degraded:    []int{},
	}
	for i, s := range samples {
		data.FrameTimes[i] = float64(s.Elapsed.Microseconds()) / 1000
		data.Entities[i] = s.Entities
		data.Nodes[i] = s.Nodes
		if s.Degraded {
			data.Degraded = append(data.Degraded, s.Frame)
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
