package photon

import "github.com/df07/go-photon-transport/pkg/core"

// State is a step of the propagation loop
type State int

const (
	StateSampling   State = iota // No pending free path: draw one
	StateStepping                // Free path known: look for an obstruction
	StateScattering              // Path unobstructed: move, scatter and deposit
	StateCrossing                // Boundary hit: move to it and resolve Fresnel
	StateTerminated              // Weight is 0
)

func (s State) String() string {
	switch s {
	case StateSampling:
		return "sampling"
	case StateStepping:
		return "stepping"
	case StateScattering:
		return "scattering"
	case StateCrossing:
		return "crossing"
	case StateTerminated:
		return "terminated"
	}
	return "unknown"
}

// Termination is the reason a photon stopped
type Termination int

const (
	TerminationNone         Termination = iota
	TerminationAbsorbed                 // Weight fully deposited
	TerminationRoulette                 // Lost at Russian roulette
	TerminationEscaped                  // Left the scene along an unobstructed infinite path
	TerminationLogExhausted             // Log window full, remaining weight discarded
	TerminationStuck                    // Weight unchanged for too many steps
)

// Terminations lists every reason a photon can stop
var Terminations = []Termination{
	TerminationAbsorbed,
	TerminationRoulette,
	TerminationEscaped,
	TerminationLogExhausted,
	TerminationStuck,
}

func (t Termination) String() string {
	switch t {
	case TerminationNone:
		return "none"
	case TerminationAbsorbed:
		return "absorbed"
	case TerminationRoulette:
		return "roulette"
	case TerminationEscaped:
		return "escaped"
	case TerminationLogExhausted:
		return "log-exhausted"
	case TerminationStuck:
		return "stuck"
	}
	return "unknown"
}

// Outcome summarizes the propagation of one photon
type Outcome struct {
	Termination     Termination
	Steps           int     // Intersection queries
	Scatterings     int     // Scattering events
	Reflections     int     // Fresnel reflections
	Refractions     int     // Boundary crossings
	Logged          int     // Data points written
	EscapedWeight   float64 // Weight carried away by an escaping photon
	DiscardedWeight float64 // Weight dropped without being logged (log exhaustion, stuck)
}

// TraceEvent is a snapshot of a photon at a state transition
type TraceEvent struct {
	PhotonID  int
	State     State
	Position  core.Vec3
	Direction core.Vec3
	Weight    float64
	Distance  float64 // Pending free path
	SolidID   int
}

// TraceSink receives trace events. Propagators have no sink by default.
type TraceSink interface {
	Trace(event TraceEvent)
}

// TraceFunc adapts a function to a TraceSink
type TraceFunc func(event TraceEvent)

// Trace implements TraceSink
func (f TraceFunc) Trace(event TraceEvent) {
	f(event)
}
