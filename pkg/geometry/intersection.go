package geometry

import "github.com/df07/go-photon-transport/pkg/core"

// Default tolerances for the intersection engine
const (
	DefaultEpsCatch  = 1e-7 // Grazing tolerance around the ray's extent
	DefaultEpsVertex = 1e-7 // Distance under which a hit snaps to a vertex normal
)

// parallelEpsilon is the Moller-Trumbore determinant below which a ray is
// considered parallel to a triangle
const parallelEpsilon = 1e-12

// Tolerances configures the numerical slack of the intersection engine
type Tolerances struct {
	Catch  float64 `yaml:"catch"`
	Vertex float64 `yaml:"vertex"`
}

// DefaultTolerances returns the default engine tolerances
func DefaultTolerances() Tolerances {
	return Tolerances{Catch: DefaultEpsCatch, Vertex: DefaultEpsVertex}
}

// SolidCandidate is a broad-phase result for one solid. Distance is -1 when
// the ray misses the solid's box, 0 when the ray starts inside it (or the
// photon already belongs to the solid) and the box entry distance otherwise.
type SolidCandidate struct {
	SolidID  int
	Distance float64
}

// Intersection is the closest valid obstruction found along a ray
type Intersection struct {
	Exists       bool
	Distance     float64   // Along the ray, clamped into [0, ray.Length]
	Position     core.Vec3 // Hit point
	Normal       core.Vec3 // Effective normal, smoothed when IsSmooth
	RawNormal    core.Vec3 // Face normal of the hit triangle
	SurfaceID    int
	TriangleID   int
	DistanceLeft float64 // ray.Length - Distance; +Inf for infinite rays
	IsSmooth     bool
	IsTooClose   bool // Caught within the grazing tolerance
}
