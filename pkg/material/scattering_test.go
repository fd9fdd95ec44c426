package material

import (
	"math"
	"testing"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// sequenceSampler replays fixed values
type sequenceSampler struct {
	values []float64
	next   int
}

func (s *sequenceSampler) Get1D() float64 {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v
}

func TestFreePathLength(t *testing.T) {
	assert.Equal(t, 0.0, FreePathLength(1, 1))
	assert.InDelta(t, 1.0, FreePathLength(1, math.Exp(-1)), 1e-12)
	assert.InDelta(t, 0.5, FreePathLength(2, math.Exp(-1)), 1e-12)
	assert.True(t, math.IsInf(FreePathLength(0, 0.5), 1), "mu_t = 0 should give an infinite path")
}

func TestFreePathLength_ExponentialDistribution(t *testing.T) {
	const (
		draws = 1000000
		bins  = 50
	)
	random := core.NewRandom(99)
	reference := distuv.Exponential{Rate: 1}

	samples := make([]float64, draws)
	for i := range samples {
		samples[i] = FreePathLength(1, random.Float64())
	}
	assert.InDelta(t, 1.0, stat.Mean(samples, nil), 0.01)

	// Bin edges at equal-probability quantiles of the reference distribution
	edges := make([]float64, bins-1)
	for i := range edges {
		edges[i] = reference.Quantile(float64(i+1) / bins)
	}
	observed := make([]float64, bins)
	for _, x := range samples {
		bin := 0
		for bin < len(edges) && x > edges[bin] {
			bin++
		}
		observed[bin]++
	}
	expected := make([]float64, bins)
	for i := range expected {
		expected[i] = float64(draws) / bins
	}

	chi2 := stat.ChiSquare(observed, expected)
	critical := distuv.ChiSquared{K: bins - 1}.Quantile(0.999)
	assert.Less(t, chi2, critical)
}

func TestAzimuth(t *testing.T) {
	assert.Equal(t, 0.0, Azimuth(0))
	assert.InDelta(t, math.Pi, Azimuth(0.5), 1e-12)
	assert.InDelta(t, 2*math.Pi, Azimuth(1), 1e-12)
}

func TestPolarAngle(t *testing.T) {
	tests := []struct {
		name     string
		g, u     float64
		expected float64
	}{
		{"isotropic backward", 0, 0, math.Pi},
		{"isotropic side", 0, 0.5, math.Pi / 2},
		{"isotropic forward", 0, 1, 0},
		{"anisotropic u=1 is forward", 0.8, 1, 0},
		{"anisotropic u=0 is backward", 0.8, 0, math.Pi},
		{"negative g u=1 forward", -0.5, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, PolarAngle(tt.g, tt.u), 1e-6)
		})
	}
}

func TestPolarAngle_MeanCosineIsAnisotropy(t *testing.T) {
	for _, g := range []float64{0, 0.3, 0.9, -0.5} {
		random := core.NewRandom(uint32(1000 * (g + 1)))
		sum := 0.0
		const draws = 200000
		for i := 0; i < draws; i++ {
			sum += math.Cos(PolarAngle(g, random.Float64()))
		}
		assert.InDelta(t, g, sum/draws, 0.01, "g=%v", g)
	}
}

func TestSampleScatteringAngles_UsesIndependentDraws(t *testing.T) {
	m := New(10, 1, 0, 1.4)
	sampler := &sequenceSampler{values: []float64{0.25, 0.5}}

	angles := m.SampleScatteringAngles(sampler)
	assert.InDelta(t, math.Pi/2, angles.Phi, 1e-12)
	assert.InDelta(t, math.Pi/2, angles.Theta, 1e-12)
	assert.Equal(t, 2, sampler.next)
}

func TestMaterial_New(t *testing.T) {
	m := New(3, 1, 0.8, 1.4)
	assert.Equal(t, 4.0, m.MuT)
	assert.Equal(t, 0.75, m.Albedo)
	assert.Equal(t, 0.25, m.AbsorbedFraction())
	require.NoError(t, m.Validate())

	absorbing := New(0, 2, 0, 1.4)
	assert.Equal(t, 0.0, absorbing.Albedo)
	assert.Equal(t, 1.0, absorbing.AbsorbedFraction())

	vacuum := NewVacuum(1)
	assert.True(t, vacuum.IsVacuum())
	assert.Equal(t, 0.0, vacuum.Albedo)
	assert.True(t, math.IsInf(vacuum.SampleFreePath(&sequenceSampler{values: []float64{0.3}}), 1))
}

func TestMaterial_Validate(t *testing.T) {
	assert.Error(t, New(-1, 0, 0, 1).Validate())
	assert.Error(t, New(1, 0, 1, 1).Validate())
	assert.Error(t, New(1, 0, 0, 0).WithLabel("bad").Validate())
	assert.NoError(t, NewVacuum(1).Validate())
}
