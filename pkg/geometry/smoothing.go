package geometry

import (
	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// smoothNormal interpolates the vertex normals of a triangle at position
// using cotangent (Wachspress) weights:
//
//	w_i = (cot(p, v_i, v_prev) + cot(p, v_i, v_next)) / |p - v_i|^2
//
// A position on a vertex returns that vertex's normal. A position on an edge
// makes a cotangent undefined and falls back to the barycentric weights
// (1-u-v, u, v) of the hit.
func (f *IntersectionFinder) smoothNormal(triangleID int, position core.Vec3, u, v float64) core.Vec3 {
	ids := f.scene.Triangles[triangleID].VertexIDs
	vertices := [3]*scene.Vertex{
		&f.scene.Vertices[ids[0]],
		&f.scene.Vertices[ids[1]],
		&f.scene.Vertices[ids[2]],
	}

	for _, vertex := range vertices {
		if position.Subtract(vertex.Position).Length() < f.tolerances.Vertex {
			return vertex.Normal
		}
	}

	var weights [3]float64
	degenerate := false
	for i, vertex := range vertices {
		prev := vertices[(i+2)%3].Position
		next := vertices[(i+1)%3].Position
		cotPrev, okPrev := cotangent(position, vertex.Position, prev)
		cotNext, okNext := cotangent(position, vertex.Position, next)
		if !okPrev || !okNext {
			degenerate = true
			break
		}
		weights[i] = (cotPrev + cotNext) / position.Subtract(vertex.Position).LengthSquared()
	}
	if degenerate {
		weights = [3]float64{1 - u - v, u, v}
	}

	var normal core.Vec3
	for i, vertex := range vertices {
		normal = normal.Add(vertex.Normal.Multiply(weights[i]))
	}
	return normal.Normalize()
}

// cotangent returns the cotangent of triangle abc at vertex b. It reports
// false when the triangle is flat.
func cotangent(a, b, c core.Vec3) (float64, bool) {
	ba := a.Subtract(b)
	bc := c.Subtract(b)
	sine := bc.Cross(ba).Length()
	if sine < parallelEpsilon {
		return 0, false
	}
	return bc.Dot(ba) / sine, true
}
