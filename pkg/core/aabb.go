package core

import "math"

// AABB represents an axis-aligned bounding box
type AABB struct {
	Min Vec3 // Minimum corner
	Max Vec3 // Maximum corner
}

// NewAABB creates a new AABB from min and max points
func NewAABB(min, max Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return AABB{}
	}

	min := points[0]
	max := points[0]

	for _, point := range points[1:] {
		min.X = math.Min(min.X, point.X)
		min.Y = math.Min(min.Y, point.Y)
		min.Z = math.Min(min.Z, point.Z)

		max.X = math.Max(max.X, point.X)
		max.Y = math.Max(max.Y, point.Y)
		max.Z = math.Max(max.Z, point.Z)
	}

	return AABB{Min: min, Max: max}
}

// Contains reports whether the point lies inside or on the box
func (aabb AABB) Contains(p Vec3) bool {
	return p.X >= aabb.Min.X && p.X <= aabb.Max.X &&
		p.Y >= aabb.Min.Y && p.Y <= aabb.Max.Y &&
		p.Z >= aabb.Min.Z && p.Z <= aabb.Max.Z
}

// RayDistance runs the slab test (Kay-Kajiya) for a ray truncated at maxDistance.
// It returns 0 when the origin is already inside the box, the entry distance
// when the box is hit within maxDistance, and -1 otherwise.
func (aabb AABB) RayDistance(ray Ray, maxDistance float64) float64 {
	if aabb.Contains(ray.Origin) {
		return 0
	}

	tNear := math.Inf(-1)
	tFar := math.Inf(1)

	origin := [3]float64{ray.Origin.X, ray.Origin.Y, ray.Origin.Z}
	direction := [3]float64{ray.Direction.X, ray.Direction.Y, ray.Direction.Z}
	lo := [3]float64{aabb.Min.X, aabb.Min.Y, aabb.Min.Z}
	hi := [3]float64{aabb.Max.X, aabb.Max.Y, aabb.Max.Z}

	for axis := 0; axis < 3; axis++ {
		// Parallel to this slab: only a miss if the origin is outside it
		if direction[axis] == 0 {
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return -1
			}
			continue
		}

		inv := 1.0 / direction[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}

		tNear = math.Max(tNear, t1)
		tFar = math.Min(tFar, t2)
		if tNear > tFar {
			return -1
		}
	}

	if tFar < 0 || tNear > maxDistance {
		return -1
	}
	return tNear
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		Min: Vec3{
			X: math.Min(aabb.Min.X, other.Min.X),
			Y: math.Min(aabb.Min.Y, other.Min.Y),
			Z: math.Min(aabb.Min.Z, other.Min.Z),
		},
		Max: Vec3{
			X: math.Max(aabb.Max.X, other.Max.X),
			Y: math.Max(aabb.Max.Y, other.Max.Y),
			Z: math.Max(aabb.Max.Z, other.Max.Z),
		},
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min.Add(aabb.Max).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return aabb.Max.Subtract(aabb.Min)
}

// Expand returns an AABB expanded by the given amount in all directions
func (aabb AABB) Expand(amount float64) AABB {
	expansion := NewVec3(amount, amount, amount)
	return AABB{
		Min: aabb.Min.Subtract(expansion),
		Max: aabb.Max.Add(expansion),
	}
}
