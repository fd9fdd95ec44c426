package photon

import (
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/material"
	"github.com/df07/go-photon-transport/pkg/scene"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sequenceSampler replays fixed samples before falling back to a random stream
type sequenceSampler struct {
	values   []float64
	fallback core.Sampler
}

func (s *sequenceSampler) Get1D() float64 {
	if len(s.values) > 0 {
		u := s.values[0]
		s.values = s.values[1:]
		return u
	}
	return s.fallback.Get1D()
}

type recordingLogger struct {
	messages []string
}

func (l *recordingLogger) Printf(format string, args ...interface{}) {
	l.messages = append(l.messages, fmt.Sprintf(format, args...))
}

func layeredCubes(t *testing.T) (*scene.Scene, int, int) {
	t.Helper()
	b := scene.NewBuilder(material.NewVacuum(1))
	top := b.AddMaterial(material.New(1.5, 0.5, 0, 1.4))
	bottom := b.AddMaterial(material.New(0.5, 0.5, 0, 1.4))
	a := b.AddSolid("top", scene.NewCuboidMesh(core.NewVec3(0, 0, 0.5), core.NewVec3(1, 1, 1)), top, false)
	c := b.AddSolid("bottom", scene.NewCuboidMesh(core.NewVec3(0, 0, -0.5), core.NewVec3(1, 1, 1)), bottom, false)
	require.NoError(t, b.Connect(a, scene.CuboidBack, c, scene.CuboidFront))
	s, err := b.Build()
	require.NoError(t, err)
	return s, a, c
}

func absorbingSphere(t *testing.T, m material.Material) *scene.Scene {
	t.Helper()
	b := scene.NewBuilder(material.NewVacuum(1))
	id := b.AddMaterial(m)
	b.AddSolid("sphere", scene.NewIcoSphereMesh(core.NewVec3(0, 0, 0), 1, 2), id, true)
	s, err := b.Build()
	require.NoError(t, err)
	return s
}

// accountedWeight adds every way weight can leave a photon
func accountedWeight(points []DataPoint, outcome Outcome) float64 {
	total := outcome.EscapedWeight + outcome.DiscardedWeight
	for _, point := range points {
		if point.SurfaceID == scene.NoSurfaceID {
			total += point.DeltaWeight
		}
	}
	return total
}

func TestConfig_Validate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"threshold", func(c *Config) { c.WeightThreshold = 0 }},
		{"chance", func(c *Config) { c.RouletteChance = 1.5 }},
		{"stuck steps", func(c *Config) { c.MaxStuckSteps = 0 }},
		{"negative catch", func(c *Config) { c.Intersection.Catch = -1 }},
		{"negative epsilon", func(c *Config) { c.EpsParallel = -1 }},
		{"move away inside catch", func(c *Config) { c.EpsMoveAway = c.Intersection.Catch }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}

func TestPropagate_CrossingRescalesFreePath(t *testing.T) {
	s, top, bottom := layeredCubes(t)

	// 0.8 in the top block: 0.5 to the interface, 0.3 left at muT=2 becomes 0.6 at muT=1
	sampler := &sequenceSampler{
		values:   []float64{math.Exp(-1.6), 0.5},
		fallback: core.NewRandom(7),
	}
	p := NewPropagator(s, sampler, DefaultConfig(), nil)

	var events []TraceEvent
	p.SetTraceSink(TraceFunc(func(event TraceEvent) { events = append(events, event) }))

	photon := NewPhoton(core.NewVec3(0.3, 0.1, 0.5), core.NewVec3(0, 0, -1), s.SolidMaterialID(top), top)
	window := NewLogWindow(10000)
	outcome := p.Propagate(0, &photon, window)

	points := window.Points()
	require.GreaterOrEqual(t, len(points), 3)
	expected := []DataPoint{
		{Position: core.NewVec3(0.3, 0.1, 0), DeltaWeight: 1, SolidID: top},
		{Position: core.NewVec3(0.3, 0.1, 0), DeltaWeight: -1, SolidID: bottom},
		{Position: core.NewVec3(0.3, 0.1, -0.6), DeltaWeight: 0.5, SolidID: bottom, SurfaceID: scene.NoSurfaceID},
	}
	diff := cmp.Diff(expected, points[:3],
		cmpopts.EquateApprox(0, 1e-9),
		cmpopts.IgnoreFields(DataPoint{}, "SurfaceID"))
	assert.Empty(t, diff)

	// Either copy of the shared face may be hit first
	require.Equal(t, points[0].SurfaceID, points[1].SurfaceID)
	label := s.Surfaces[points[0].SurfaceID].Label
	assert.Contains(t, []string{scene.CuboidBack, scene.CuboidFront}, label)
	assert.Equal(t, scene.NoSurfaceID, points[2].SurfaceID)

	var afterCrossing *TraceEvent
	for i := 1; i < len(events); i++ {
		if events[i-1].State == StateCrossing && events[i].State == StateStepping {
			afterCrossing = &events[i]
			break
		}
	}
	require.NotNil(t, afterCrossing)
	assert.InDelta(t, 0.6, afterCrossing.Distance, 1e-9)
	assert.Equal(t, bottom, afterCrossing.SolidID)

	assert.GreaterOrEqual(t, outcome.Refractions, 1)
	assert.NotEqual(t, TerminationNone, outcome.Termination)
	assert.Equal(t, 0.0, photon.Weight)
	assert.Equal(t, len(points), outcome.Logged)
}

func TestPropagate_EnergyConservation(t *testing.T) {
	t.Run("pure absorber", func(t *testing.T) {
		s := absorbingSphere(t, material.New(0, 5, 0.9, 1.4))
		random := core.NewRandom(21)
		p := NewPropagator(s, random, DefaultConfig(), nil)

		photons := NewIsotropicSource(core.NewVec3(0, 0, 0), 200, s.SolidMaterialID(1), 1, random)
		for i := range photons {
			window := NewLogWindow(64)
			outcome := p.Propagate(i, &photons[i], window)

			require.InDelta(t, 1, accountedWeight(window.Points(), outcome), 1e-12, "photon %d", i)
			require.Contains(t, []Termination{TerminationAbsorbed, TerminationEscaped}, outcome.Termination)
		}
	})

	t.Run("scattering medium", func(t *testing.T) {
		s := absorbingSphere(t, material.New(9, 1, 0.9, 1.4))
		random := core.NewRandom(22)
		p := NewPropagator(s, random, DefaultConfig(), nil)

		photons := NewIsotropicSource(core.NewVec3(0, 0, 0), 500, s.SolidMaterialID(1), 1, random)
		total := 0.0
		for i := range photons {
			window := NewLogWindow(4096)
			outcome := p.Propagate(i, &photons[i], window)
			total += accountedWeight(window.Points(), outcome)
		}
		assert.InDelta(t, 1, total/float64(len(photons)), 0.01)
	})
}

func TestPropagate_Escape(t *testing.T) {
	s := glassCube(t)
	p := NewPropagator(s, core.NewRandom(1), DefaultConfig(), nil)

	var states []State
	p.SetTraceSink(TraceFunc(func(event TraceEvent) { states = append(states, event.State) }))

	photon := NewPhoton(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, 1), s.WorldMaterialID, scene.NoSolidID)
	window := NewLogWindow(8)
	outcome := p.Propagate(3, &photon, window)

	assert.Equal(t, TerminationEscaped, outcome.Termination)
	assert.Equal(t, 1, outcome.Steps)
	assert.Equal(t, 1.0, outcome.EscapedWeight)
	assert.Equal(t, 0, window.Len())
	assert.Equal(t, 0.0, photon.Weight)
	assert.Equal(t, []State{StateSampling, StateStepping, StateTerminated}, states)
}

func TestPropagate_DeadPhoton(t *testing.T) {
	s := glassCube(t)
	p := NewPropagator(s, core.NewRandom(1), DefaultConfig(), nil)

	photon := NewPhoton(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1, 1)
	photon.Weight = 0
	outcome := p.Propagate(0, &photon, NewLogWindow(4))

	assert.Equal(t, Outcome{}, outcome)
}

func TestPropagate_LogExhausted(t *testing.T) {
	b := scene.NewBuilder(material.NewVacuum(1))
	id := b.AddMaterial(material.New(10, 1, 0, 1))
	b.AddSolid("slab", scene.NewCuboidMesh(core.NewVec3(0, 0, 0), core.NewVec3(1000, 1000, 1000)), id, false)
	s, err := b.Build()
	require.NoError(t, err)

	logger := &recordingLogger{}
	p := NewPropagator(s, core.NewRandom(5), DefaultConfig(), logger)

	photon := NewPhoton(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), id, 1)
	window := NewLogWindow(2)
	outcome := p.Propagate(9, &photon, window)

	albedo := 10.0 / 11.0
	assert.Equal(t, TerminationLogExhausted, outcome.Termination)
	assert.Equal(t, 2, outcome.Logged)
	assert.Equal(t, 3, outcome.Scatterings)
	assert.InDelta(t, albedo*albedo, outcome.DiscardedWeight, 1e-12)
	assert.InDelta(t, 1-albedo, window.Points()[0].DeltaWeight, 1e-12)
	assert.InDelta(t, albedo*(1-albedo), window.Points()[1].DeltaWeight, 1e-12)
	assert.Equal(t, 0.0, photon.Weight)

	require.Len(t, logger.messages, 1)
	assert.True(t, strings.HasPrefix(logger.messages[0], "photon 9: log window full"), logger.messages[0])
}

func TestPropagate_CrossingNeedsRoomForBothEntries(t *testing.T) {
	s, top, _ := layeredCubes(t)
	sampler := &sequenceSampler{values: []float64{math.Exp(-1.6), 0.5}, fallback: core.NewRandom(7)}
	p := NewPropagator(s, sampler, DefaultConfig(), nil)

	photon := NewPhoton(core.NewVec3(0.3, 0.1, 0.5), core.NewVec3(0, 0, -1), s.SolidMaterialID(top), top)
	window := NewLogWindow(1)
	outcome := p.Propagate(0, &photon, window)

	assert.Equal(t, TerminationLogExhausted, outcome.Termination)
	assert.Equal(t, 0, window.Len())
	assert.Equal(t, 1.0, outcome.DiscardedWeight)
	assert.Equal(t, 0, outcome.Refractions)
}

func TestPropagate_Stuck(t *testing.T) {
	s := glassCube(t)
	config := DefaultConfig()
	config.MaxStuckSteps = 50
	logger := &recordingLogger{}
	p := NewPropagator(s, core.NewRandom(13), config, logger)

	// Every face is met at 54.7 degrees, beyond the critical angle of glass
	direction := core.NewVec3(1, 1, 1).Normalize()
	photon := NewPhoton(core.NewVec3(0.1, -0.3, 0.2), direction, s.SolidMaterialID(1), 1)
	window := NewLogWindow(8)
	outcome := p.Propagate(4, &photon, window)

	assert.Equal(t, TerminationStuck, outcome.Termination)
	assert.Equal(t, 50, outcome.Steps)
	assert.Equal(t, 50, outcome.Reflections)
	assert.Equal(t, 0, outcome.Refractions)
	assert.Equal(t, 1.0, outcome.DiscardedWeight)
	assert.Equal(t, 0, window.Len())
	require.Len(t, logger.messages, 1)
	assert.Contains(t, logger.messages[0], "stuck")

	for _, c := range []float64{photon.Position.X, photon.Position.Y, photon.Position.Z} {
		assert.LessOrEqual(t, math.Abs(c), 1+1e-9, "photon left the glass")
	}
}

func TestRoulette(t *testing.T) {
	s := glassCube(t)
	config := DefaultConfig()
	p := NewPropagator(s, core.NewRandom(99), config, nil)

	t.Run("above threshold is untouched", func(t *testing.T) {
		photon := NewPhoton(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1, 1)
		photon.Weight = 2 * config.WeightThreshold
		var outcome Outcome
		p.roulette(&photon, &outcome)
		assert.Equal(t, 2*config.WeightThreshold, photon.Weight)
		assert.Equal(t, TerminationNone, outcome.Termination)
	})

	t.Run("unbiased", func(t *testing.T) {
		const trials = 100000
		initial := 0.5 * config.WeightThreshold
		sum := 0.0
		survivors := 0
		for i := 0; i < trials; i++ {
			photon := NewPhoton(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 1), 1, 1)
			photon.Weight = initial
			var outcome Outcome
			p.roulette(&photon, &outcome)
			sum += photon.Weight
			if photon.IsAlive() {
				survivors++
				assert.InDelta(t, initial/config.RouletteChance, photon.Weight, 1e-15)
			} else {
				assert.Equal(t, TerminationRoulette, outcome.Termination)
			}
		}
		assert.InEpsilon(t, initial, sum/trials, 0.05)
		assert.InEpsilon(t, config.RouletteChance, float64(survivors)/trials, 0.05)
	})
}
