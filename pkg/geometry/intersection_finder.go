package geometry

import (
	"cmp"
	"slices"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// IntersectionFinder finds the closest boundary along a photon step.
// It keeps broad-phase scratch space, so each work item needs its own
// finder; the scene itself is only read.
type IntersectionFinder struct {
	scene      *scene.Scene
	tolerances Tolerances
	candidates []SolidCandidate
}

// NewIntersectionFinder creates a finder over an immutable scene
func NewIntersectionFinder(s *scene.Scene, tolerances Tolerances) *IntersectionFinder {
	return &IntersectionFinder{
		scene:      s,
		tolerances: tolerances,
		candidates: make([]SolidCandidate, len(s.Solids)),
	}
}

// Candidates returns the sorted broad-phase results of the last Find.
// The slice is overwritten by the next call.
func (f *IntersectionFinder) Candidates() []SolidCandidate {
	return f.candidates
}

// Find returns the closest surface crossed by ray, ignoring transitions that
// would lead back into currentSolidID. ray.Length may be +Inf.
func (f *IntersectionFinder) Find(ray core.Ray, currentSolidID int) Intersection {
	f.findCandidates(ray, currentSolidID)

	s := f.scene
	maxT := ray.Length + f.tolerances.Catch

	found := false
	bestT := 0.0
	var best hit

	for _, candidate := range f.candidates {
		if candidate.Distance < 0 {
			break // misses are sorted last
		}
		if found && candidate.Distance > bestT {
			break
		}

		solid := s.Solid(candidate.SolidID)
		for surfaceID := solid.FirstSurfaceID; surfaceID <= solid.LastSurfaceID; surfaceID++ {
			surface := &s.Surfaces[surfaceID]
			for triangleID := surface.FirstTriangleID; triangleID <= surface.LastTriangleID; triangleID++ {
				p0, p1, p2 := s.TriangleVertices(triangleID)
				t, u, v, ok := hitTriangle(ray, p0, p1, p2, -f.tolerances.Catch, maxT)
				if !ok || (found && t >= bestT) {
					continue
				}

				entering := ray.Direction.Dot(s.Triangles[triangleID].Normal) < 0
				nextSolidID := surface.OutsideSolidID
				if entering {
					nextSolidID = surface.InsideSolidID
				}
				if nextSolidID == currentSolidID {
					continue
				}

				found = true
				bestT = t
				best = hit{surfaceID: surfaceID, triangleID: triangleID, u: u, v: v}
			}
		}
	}

	if !found {
		return Intersection{DistanceLeft: ray.Length}
	}
	return f.composeIntersection(ray, bestT, best)
}

// hit is the raw narrow-phase result kept while searching for the closest triangle
type hit struct {
	surfaceID  int
	triangleID int
	u, v       float64
}

func (f *IntersectionFinder) composeIntersection(ray core.Ray, t float64, h hit) Intersection {
	tooClose := false
	switch {
	case t < 0:
		t, tooClose = 0, true
	case t > ray.Length:
		t, tooClose = ray.Length, true
	}

	rawNormal := f.scene.Triangles[h.triangleID].Normal
	intersection := Intersection{
		Exists:       true,
		Distance:     t,
		Position:     ray.At(t),
		Normal:       rawNormal,
		RawNormal:    rawNormal,
		SurfaceID:    h.surfaceID,
		TriangleID:   h.triangleID,
		DistanceLeft: ray.Length - t,
		IsTooClose:   tooClose,
	}

	if f.scene.Surfaces[h.surfaceID].Smooth {
		smooth := f.smoothNormal(h.triangleID, intersection.Position, h.u, h.v)
		// Keep the raw normal when smoothing would flip entering/leaving
		if (smooth.Dot(ray.Direction) < 0) == (rawNormal.Dot(ray.Direction) < 0) {
			intersection.Normal = smooth
			intersection.IsSmooth = true
		}
	}

	return intersection
}

// findCandidates runs the slab test of every solid and sorts the results
// by entry distance with misses last
func (f *IntersectionFinder) findCandidates(ray core.Ray, currentSolidID int) {
	maxDistance := ray.Length + f.tolerances.Catch
	for i := range f.scene.Solids {
		solid := &f.scene.Solids[i]
		distance := 0.0
		if solid.ID != currentSolidID {
			distance = solid.BBox.RayDistance(ray, maxDistance)
		}
		f.candidates[i] = SolidCandidate{SolidID: solid.ID, Distance: distance}
	}

	slices.SortStableFunc(f.candidates, compareCandidates)
}

func compareCandidates(a, b SolidCandidate) int {
	aMiss, bMiss := a.Distance < 0, b.Distance < 0
	switch {
	case aMiss && bMiss:
		return 0
	case aMiss:
		return 1
	case bMiss:
		return -1
	}
	return cmp.Compare(a.Distance, b.Distance)
}

// hitTriangle is the Moller-Trumbore test. It returns the ray parameter and
// the barycentric coordinates (u, v) of the hit relative to p1 and p2.
func hitTriangle(ray core.Ray, p0, p1, p2 core.Vec3, minT, maxT float64) (t, u, v float64, ok bool) {
	edge1 := p1.Subtract(p0)
	edge2 := p2.Subtract(p0)

	h := ray.Direction.Cross(edge2)
	a := edge1.Dot(h)

	// Ray lies in the plane of the triangle
	if a > -parallelEpsilon && a < parallelEpsilon {
		return 0, 0, 0, false
	}

	inv := 1.0 / a
	s := ray.Origin.Subtract(p0)
	u = inv * s.Dot(h)
	if u < 0.0 || u > 1.0 {
		return 0, 0, 0, false
	}

	q := s.Cross(edge1)
	v = inv * ray.Direction.Dot(q)
	if v < 0.0 || u+v > 1.0 {
		return 0, 0, 0, false
	}

	t = inv * edge2.Dot(q)
	if t < minT || t > maxT {
		return 0, 0, 0, false
	}
	return t, u, v, true
}
