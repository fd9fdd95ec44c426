package simulation

import (
	"fmt"
	"slices"
	"strings"

	"github.com/df07/go-photon-transport/pkg/photon"
	"github.com/df07/go-photon-transport/pkg/scene"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the outcomes and log of a run
type Summary struct {
	Photons          int
	MeanSteps        float64
	StdDevSteps      float64
	MeanScatterings  float64
	Deposited        float64         // Weight absorbed inside solids
	Escaped          float64         // Weight carried out of the scene
	Discarded        float64         // Weight dropped by log exhaustion or stuck photons
	Logged           int             // Data points written
	DepositedBySolid map[int]float64 // Absorbed weight per solid ID
	Terminations     map[photon.Termination]int
}

// Summary computes run statistics from the outcomes and the log
func (r *Result) Summary() Summary {
	summary := Summary{
		Photons:          len(r.Outcomes),
		DepositedBySolid: make(map[int]float64),
		Terminations:     r.Terminations,
	}
	if len(r.Outcomes) == 0 {
		return summary
	}

	steps := make([]float64, len(r.Outcomes))
	scatterings := make([]float64, len(r.Outcomes))
	escaped := make([]float64, len(r.Outcomes))
	discarded := make([]float64, len(r.Outcomes))
	for i, outcome := range r.Outcomes {
		steps[i] = float64(outcome.Steps)
		scatterings[i] = float64(outcome.Scatterings)
		escaped[i] = outcome.EscapedWeight
		discarded[i] = outcome.DiscardedWeight
		summary.Logged += outcome.Logged
	}

	summary.MeanSteps, summary.StdDevSteps = stat.MeanStdDev(steps, nil)
	summary.MeanScatterings = stat.Mean(scatterings, nil)
	summary.Escaped = floats.Sum(escaped)
	summary.Discarded = floats.Sum(discarded)

	for _, point := range r.Log.Points() {
		if point.IsEmpty() || point.SurfaceID != scene.NoSurfaceID {
			continue
		}
		summary.DepositedBySolid[point.SolidID] += point.DeltaWeight
	}
	for _, deposit := range summary.DepositedBySolid {
		summary.Deposited += deposit
	}

	return summary
}

// Accounted returns the fraction of the launched weight that was deposited,
// escaped or discarded. Russian roulette only preserves it on average.
func (s Summary) Accounted() float64 {
	if s.Photons == 0 {
		return 0
	}
	return (s.Deposited + s.Escaped + s.Discarded) / float64(s.Photons)
}

func (s Summary) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Photons: %d\n", s.Photons)
	fmt.Fprintf(&b, "Steps per photon: %.2f (stddev %.2f)\n", s.MeanSteps, s.StdDevSteps)
	fmt.Fprintf(&b, "Scatterings per photon: %.2f\n", s.MeanScatterings)
	fmt.Fprintf(&b, "Deposited: %.6f  Escaped: %.6f  Discarded: %.6f  (accounted %.4f)\n",
		s.Deposited, s.Escaped, s.Discarded, s.Accounted())
	fmt.Fprintf(&b, "Data points logged: %d\n", s.Logged)

	solids := make([]int, 0, len(s.DepositedBySolid))
	for id := range s.DepositedBySolid {
		solids = append(solids, id)
	}
	slices.Sort(solids)
	for _, id := range solids {
		fmt.Fprintf(&b, "  solid %d: %.6f\n", id, s.DepositedBySolid[id])
	}

	for _, termination := range photon.Terminations {
		if count := s.Terminations[termination]; count > 0 {
			fmt.Fprintf(&b, "  %s: %d\n", termination, count)
		}
	}
	return b.String()
}
