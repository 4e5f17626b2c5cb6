// Package analytics aggregates step timings of an execution.
package analytics

import (
	"encoding/json"

	"github.com/rs/zerolog"
	contractx "github.com/tanpawarit/agentic-automator/agent/contract"
)

// Stats summarizes step durations in seconds. Mean, Min and Max are only
// meaningful when Count > 0.
type Stats struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64
}

func Compute(durations []float64) Stats {
	if len(durations) == 0 {
		return Stats{}
	}

	s := Stats{Count: len(durations), Min: durations[0], Max: durations[0]}
	var sum float64
	for _, d := range durations {
		sum += d
		if d < s.Min {
			s.Min = d
		}
		if d > s.Max {
			s.Max = d
		}
	}
	s.Mean = sum / float64(len(durations))
	return s
}

func FromTimeline(entries []contractx.TimelineEntry) Stats {
	durations := make([]float64, len(entries))
	for i, e := range entries {
		durations[i] = e.Duration
	}
	return Compute(durations)
}

// MarshalJSON renders {"count":0} for an empty sample.
func (s Stats) MarshalJSON() ([]byte, error) {
	if s.Count == 0 {
		return []byte(`{"count":0}`), nil
	}
	return json.Marshal(struct {
		Count int     `json:"count"`
		Mean  float64 `json:"mean"`
		Max   float64 `json:"max"`
		Min   float64 `json:"min"`
	}{s.Count, s.Mean, s.Max, s.Min})
}

func (s Stats) MarshalZerologObject(e *zerolog.Event) {
	e.Int("count", s.Count)
	if s.Count == 0 {
		return
	}
	e.Float64("mean", s.Mean).Float64("min", s.Min).Float64("max", s.Max)
}
