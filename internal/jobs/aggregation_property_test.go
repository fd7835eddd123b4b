package jobs

import (
	"context"
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestWeightedAggregation_PropertyBased verifies the weighted aggregation
// invariants for arbitrary positive weight vectors:
//
//	overall = sum(weight_j * progress_j) / totalWeight
//
// In particular, after every job reports 1.0 the final aggregate is 1.0,
// and after job i completes the aggregate equals the cumulative weight of
// jobs 0..i divided by the total weight.
func TestWeightedAggregation_PropertyBased(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	weightVectors := gen.SliceOfN(6, gen.IntRange(1, 100)).SuchThat(func(ws []int) bool {
		return len(ws) > 0
	})

	properties.Property("final aggregate is 1.0 when all jobs finish", prop.ForAll(
		func(weights []int) bool {
			sink := &captureSink{}
			m := NewManager(false, WithSink(sink))
			for _, w := range weights {
				if err := m.Add(reportingJob(0.5, 1.0), w); err != nil {
					return false
				}
			}
			if err := m.RunSequential(context.Background()); err != nil {
				return false
			}
			last, ok := sink.last()
			return ok && math.Abs(last-1.0) < 1e-9
		},
		weightVectors,
	))

	properties.Property("aggregate after job i equals cumulative weight share", prop.ForAll(
		func(weights []int) bool {
			sink := &captureSink{}
			m := NewManager(false, WithSink(sink))
			total := 0
			for _, w := range weights {
				total += w
				if err := m.Add(reportingJob(1.0), w); err != nil {
					return false
				}
			}
			if err := m.RunSequential(context.Background()); err != nil {
				return false
			}

			// One report per job; report i must equal cum_i / total.
			values := sink.all()
			if len(values) != len(weights) {
				return false
			}
			cum := 0
			for i, w := range weights {
				cum += w
				want := float64(cum) / float64(total)
				if math.Abs(values[i]-want) > 1e-9 {
					return false
				}
			}
			return true
		},
		weightVectors,
	))

	properties.Property("aggregate never exceeds 1.0 for in-range reports", prop.ForAll(
		func(weights []int, steps []float64) bool {
			sink := &captureSink{}
			m := NewManager(false, WithSink(sink))
			for _, w := range weights {
				if err := m.Add(reportingJob(steps...), w); err != nil {
					return false
				}
			}
			if err := m.RunSequential(context.Background()); err != nil {
				return false
			}
			for _, v := range sink.all() {
				if v < 0 || v > 1+1e-9 {
					return false
				}
			}
			return true
		},
		weightVectors,
		gen.SliceOfN(4, gen.Float64Range(0, 1)),
	))

	properties.TestingRun(t)
}
