package photon

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// Config holds the propagation constants
type Config struct {
	WeightThreshold float64             `yaml:"weightThreshold"` // Russian roulette below this weight
	RouletteChance  float64             `yaml:"rouletteChance"`  // Survival probability at roulette
	MaxStuckSteps   int                 `yaml:"maxStuckSteps"`   // Consecutive steps without a weight change
	Intersection    geometry.Tolerances `yaml:"intersection"`
	EpsParallel     float64             `yaml:"epsParallel"`    // Direction and normal considered parallel
	EpsSmoothClamp  float64             `yaml:"epsSmoothClamp"` // Angular margin kept from a raw facet
	EpsMoveAway     float64             `yaml:"epsMoveAway"`    // Nudge after a grazing crossing
}

// DefaultConfig returns the default propagation constants
func DefaultConfig() Config {
	return Config{
		WeightThreshold: 1e-4,
		RouletteChance:  0.1,
		MaxStuckSteps:   100000,
		Intersection:    geometry.DefaultTolerances(),
		EpsParallel:     1e-7,
		EpsSmoothClamp:  1e-5,
		EpsMoveAway:     1e-6,
	}
}

// Validate checks the constants are usable
func (c Config) Validate() error {
	switch {
	case c.WeightThreshold <= 0 || c.WeightThreshold >= 1:
		return fmt.Errorf("weight threshold must be in (0, 1), got %v", c.WeightThreshold)
	case c.RouletteChance <= 0 || c.RouletteChance > 1:
		return fmt.Errorf("roulette chance must be in (0, 1], got %v", c.RouletteChance)
	case c.MaxStuckSteps <= 0:
		return fmt.Errorf("max stuck steps must be positive, got %d", c.MaxStuckSteps)
	case c.Intersection.Catch < 0 || c.Intersection.Vertex < 0:
		return errors.New("intersection tolerances must not be negative")
	case c.EpsParallel < 0 || c.EpsSmoothClamp < 0 || c.EpsMoveAway < 0:
		return errors.New("epsilons must not be negative")
	case c.EpsMoveAway <= c.Intersection.Catch:
		return fmt.Errorf("move-away distance %v must exceed the catch tolerance %v", c.EpsMoveAway, c.Intersection.Catch)
	}
	return nil
}

// Propagator steps photons through a scene until their weight is 0.
// It owns intersection scratch space and a sampler, so it must not be
// shared between goroutines.
type Propagator struct {
	scene   *scene.Scene
	finder  *geometry.IntersectionFinder
	sampler core.Sampler
	config  Config
	logger  core.Logger
	trace   TraceSink
}

// NewPropagator creates a propagator over an immutable scene
func NewPropagator(s *scene.Scene, sampler core.Sampler, config Config, logger core.Logger) *Propagator {
	if logger == nil {
		logger = core.NopLogger{}
	}
	return &Propagator{
		scene:   s,
		finder:  geometry.NewIntersectionFinder(s, config.Intersection),
		sampler: sampler,
		config:  config,
		logger:  logger,
	}
}

// SetTraceSink installs a sink receiving every state transition; nil disables tracing
func (p *Propagator) SetTraceSink(sink TraceSink) {
	p.trace = sink
}

// Propagate runs photon id to completion, recording events into window.
// On return the photon's weight is 0.
func (p *Propagator) Propagate(id int, photon *Photon, window *LogWindow) Outcome {
	var outcome Outcome
	var hit geometry.Intersection

	distance := 0.0 // Pending free path; 0 means none
	stuckSteps := 0
	state := StateSampling
	if !photon.IsAlive() {
		state = StateTerminated
	}
	photon.setDirection(photon.Direction)

	for state != StateTerminated {
		p.emit(id, state, photon, distance)

		switch state {
		case StateSampling:
			distance = p.scene.Material(photon.MaterialID).SampleFreePath(p.sampler)
			state = StateStepping

		case StateStepping:
			if stuckSteps >= p.config.MaxStuckSteps {
				p.logger.Printf("photon %d: stuck at %v after %d steps without a weight change, discarding weight %g\n",
					id, photon.Position, stuckSteps, photon.Weight)
				p.terminate(photon, &outcome, TerminationStuck)
				state = StateTerminated
				break
			}
			outcome.Steps++
			stuckSteps++

			hit = p.finder.Find(core.NewRay(photon.Position, photon.Direction, distance), photon.SolidID)
			switch {
			case hit.Exists:
				state = StateCrossing
			case math.IsInf(distance, 1):
				// Nothing left to hit along a path that never ends
				outcome.EscapedWeight = photon.Weight
				photon.Weight = 0
				outcome.Termination = TerminationEscaped
				state = StateTerminated
			default:
				state = StateScattering
			}

		case StateScattering:
			photon.moveBy(distance)
			distance = 0
			outcome.Scatterings++

			weight := photon.Weight
			if !p.scatter(id, photon, window, &outcome) {
				state = StateTerminated
				break
			}
			p.roulette(photon, &outcome)
			if photon.Weight != weight {
				stuckSteps = 0
			}

			state = StateSampling
			if !photon.IsAlive() {
				state = StateTerminated
			}

		case StateCrossing:
			var ok bool
			distance, ok = p.cross(id, photon, hit, window, &outcome)
			if !ok {
				state = StateTerminated
				break
			}

			state = StateStepping
			if distance == 0 {
				state = StateSampling
			}
		}
	}

	p.emit(id, StateTerminated, photon, distance)
	outcome.Logged = window.Len()
	return outcome
}

// scatter changes the photon's direction and deposits the absorbed part of
// its weight. It returns false when the deposit could not be logged.
func (p *Propagator) scatter(id int, photon *Photon, window *LogWindow, outcome *Outcome) bool {
	m := p.scene.Material(photon.MaterialID)
	angles := m.SampleScatteringAngles(p.sampler)
	photon.scatterBy(angles.Phi, angles.Theta)

	delta := photon.Weight * m.AbsorbedFraction()
	if delta == 0 {
		return true
	}
	if !window.Append(DataPoint{
		Position:    photon.Position,
		DeltaWeight: delta,
		SolidID:     photon.SolidID,
		SurfaceID:   scene.NoSurfaceID,
	}) {
		p.logExhausted(id, photon, outcome)
		return false
	}

	photon.Weight -= delta
	if photon.Weight <= 0 {
		photon.Weight = 0
		outcome.Termination = TerminationAbsorbed
	}
	return true
}

// roulette gives a low-weight photon a RouletteChance of surviving with its
// weight boosted by 1/RouletteChance
func (p *Propagator) roulette(photon *Photon, outcome *Outcome) {
	if photon.Weight <= 0 || photon.Weight >= p.config.WeightThreshold {
		return
	}
	if p.sampler.Get1D() < p.config.RouletteChance {
		photon.Weight /= p.config.RouletteChance
		return
	}
	photon.Weight = 0
	outcome.Termination = TerminationRoulette
}

// cross moves the photon onto the boundary and reflects or refracts it. It
// returns the free path left for the next step and false when the crossing
// could not be logged.
func (p *Propagator) cross(id int, photon *Photon, hit geometry.Intersection, window *LogWindow, outcome *Outcome) (float64, bool) {
	photon.Position = hit.Position
	fresnel := ComputeFresnelIntersection(p.scene, photon.Direction, hit, p.sampler.Get1D(), p.config)

	distance := hit.DistanceLeft
	if fresnel.IsReflected {
		outcome.Reflections++
	} else {
		if !p.logCrossing(photon, hit, fresnel.NextSolidID, window) {
			p.logExhausted(id, photon, outcome)
			return 0, false
		}
		outcome.Refractions++

		muTOld := p.scene.Material(photon.MaterialID).MuT
		muTNew := p.scene.Material(fresnel.NextMaterialID).MuT
		distance = RescaleDistance(distance, muTOld, muTNew)
		photon.MaterialID = fresnel.NextMaterialID
		photon.SolidID = fresnel.NextSolidID
	}

	photon.setDirection(photon.Direction.RotateAround(fresnel.IncidencePlane, fresnel.AngleDeflection))

	if hit.IsTooClose {
		photon.moveBy(p.config.EpsMoveAway)
	}
	return distance, true
}

// logCrossing records the weight leaving one solid and entering the next.
// The world side is not recorded. Nothing is written unless every entry fits.
func (p *Propagator) logCrossing(photon *Photon, hit geometry.Intersection, nextSolidID int, window *LogWindow) bool {
	needed := 0
	if photon.SolidID != scene.NoSolidID {
		needed++
	}
	if nextSolidID != scene.NoSolidID {
		needed++
	}
	if window.Remaining() < needed {
		return false
	}

	if photon.SolidID != scene.NoSolidID {
		window.Append(DataPoint{
			Position:    hit.Position,
			DeltaWeight: photon.Weight,
			SolidID:     photon.SolidID,
			SurfaceID:   hit.SurfaceID,
		})
	}
	if nextSolidID != scene.NoSolidID {
		window.Append(DataPoint{
			Position:    hit.Position,
			DeltaWeight: -photon.Weight,
			SolidID:     nextSolidID,
			SurfaceID:   hit.SurfaceID,
		})
	}
	return true
}

func (p *Propagator) logExhausted(id int, photon *Photon, outcome *Outcome) {
	p.logger.Printf("photon %d: log window full after %d steps, discarding weight %g\n", id, outcome.Steps, photon.Weight)
	p.terminate(photon, outcome, TerminationLogExhausted)
}

// terminate drops the photon's remaining weight without logging it
func (p *Propagator) terminate(photon *Photon, outcome *Outcome, reason Termination) {
	outcome.DiscardedWeight += photon.Weight
	outcome.Termination = reason
	photon.Weight = 0
}

func (p *Propagator) emit(id int, state State, photon *Photon, distance float64) {
	if p.trace == nil {
		return
	}
	p.trace.Trace(TraceEvent{
		PhotonID:  id,
		State:     state,
		Position:  photon.Position,
		Direction: photon.Direction,
		Weight:    photon.Weight,
		Distance:  distance,
		SolidID:   photon.SolidID,
	})
}
