package scene

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
)

// Mesh is a closed triangle mesh split into labelled surface groups
type Mesh struct {
	Vertices []core.Vec3
	Normals  []core.Vec3 // Optional, one per vertex; area-weighted face normals otherwise
	Surfaces []MeshSurface
}

// MeshSurface is a labelled group of faces indexing into Mesh.Vertices
type MeshSurface struct {
	Label string
	Faces [][3]int
}

func (m Mesh) hasSurface(label string) bool {
	for _, s := range m.Surfaces {
		if s.Label == label {
			return true
		}
	}
	return false
}

func (m Mesh) validate() error {
	if len(m.Surfaces) == 0 {
		return errors.New("mesh has no surfaces")
	}
	if len(m.Normals) != 0 && len(m.Normals) != len(m.Vertices) {
		return fmt.Errorf("mesh has %d normals for %d vertices", len(m.Normals), len(m.Vertices))
	}
	for _, s := range m.Surfaces {
		if len(s.Faces) == 0 {
			return fmt.Errorf("surface %q has no faces", s.Label)
		}
		for _, face := range s.Faces {
			for _, id := range face {
				if id < 0 || id >= len(m.Vertices) {
					return fmt.Errorf("surface %q: face index %d out of bounds", s.Label, id)
				}
			}
		}
	}
	return nil
}

// vertexNormals returns the supplied normals, or the area-weighted average
// of the adjacent face normals
func (m Mesh) vertexNormals() []core.Vec3 {
	normals := make([]core.Vec3, len(m.Vertices))
	if len(m.Normals) == len(m.Vertices) && len(m.Normals) > 0 {
		for i, n := range m.Normals {
			normals[i] = n.Normalize()
		}
		return normals
	}

	for _, s := range m.Surfaces {
		for _, face := range s.Faces {
			p0, p1, p2 := m.Vertices[face[0]], m.Vertices[face[1]], m.Vertices[face[2]]
			// Unnormalized cross product has length 2*area
			weighted := p1.Subtract(p0).Cross(p2.Subtract(p0))
			for _, id := range face {
				normals[id] = normals[id].Add(weighted)
			}
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}

// Cuboid surface labels
const (
	CuboidLeft   = "left"   // -X
	CuboidRight  = "right"  // +X
	CuboidBottom = "bottom" // -Y
	CuboidTop    = "top"    // +Y
	CuboidBack   = "back"   // -Z
	CuboidFront  = "front"  // +Z
)

// NewCuboidMesh creates an axis-aligned box with one labelled surface per face
func NewCuboidMesh(center, size core.Vec3) Mesh {
	half := size.Multiply(0.5)
	vertices := make([]core.Vec3, 8)
	// Corner k has x, y, z taken from bits 0, 1, 2
	for k := range vertices {
		corner := core.NewVec3(
			float64(k&1)*2-1,
			float64((k>>1)&1)*2-1,
			float64((k>>2)&1)*2-1,
		)
		vertices[k] = center.Add(core.NewVec3(corner.X*half.X, corner.Y*half.Y, corner.Z*half.Z))
	}

	return Mesh{
		Vertices: vertices,
		Surfaces: []MeshSurface{
			{Label: CuboidLeft, Faces: [][3]int{{0, 4, 6}, {0, 6, 2}}},
			{Label: CuboidRight, Faces: [][3]int{{1, 3, 7}, {1, 7, 5}}},
			{Label: CuboidBottom, Faces: [][3]int{{0, 1, 5}, {0, 5, 4}}},
			{Label: CuboidTop, Faces: [][3]int{{2, 6, 7}, {2, 7, 3}}},
			{Label: CuboidBack, Faces: [][3]int{{0, 2, 3}, {0, 3, 1}}},
			{Label: CuboidFront, Faces: [][3]int{{4, 5, 7}, {4, 7, 6}}},
		},
	}
}

// IcoSphereSurface is the label of the single surface of an icosphere
const IcoSphereSurface = "sphere"

// NewIcoSphereMesh creates a sphere by subdividing an icosahedron order times.
// Vertex normals are radial so smoothing recovers the true sphere normal.
func NewIcoSphereMesh(center core.Vec3, radius float64, order int) Mesh {
	if order < 0 {
		panic("icosphere order must be non-negative")
	}

	t := (1 + math.Sqrt(5)) / 2
	directions := []core.Vec3{
		{X: -1, Y: t}, {X: 1, Y: t}, {X: -1, Y: -t}, {X: 1, Y: -t},
		{Y: -1, Z: t}, {Y: 1, Z: t}, {Y: -1, Z: -t}, {Y: 1, Z: -t},
		{X: t, Z: -1}, {X: t, Z: 1}, {X: -t, Z: -1}, {X: -t, Z: 1},
	}
	for i := range directions {
		directions[i] = directions[i].Normalize()
	}

	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for i := 0; i < order; i++ {
		midpoints := make(map[[2]int]int)
		midpoint := func(a, b int) int {
			key := [2]int{min(a, b), max(a, b)}
			if id, ok := midpoints[key]; ok {
				return id
			}
			directions = append(directions, directions[a].Add(directions[b]).Normalize())
			id := len(directions) - 1
			midpoints[key] = id
			return id
		}

		subdivided := make([][3]int, 0, len(faces)*4)
		for _, f := range faces {
			a, b, c := f[0], f[1], f[2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			subdivided = append(subdivided,
				[3]int{a, ab, ca},
				[3]int{b, bc, ab},
				[3]int{c, ca, bc},
				[3]int{ab, bc, ca},
			)
		}
		faces = subdivided
	}

	vertices := make([]core.Vec3, len(directions))
	for i, d := range directions {
		vertices[i] = center.Add(d.Multiply(radius))
	}

	return Mesh{
		Vertices: vertices,
		Normals:  directions,
		Surfaces: []MeshSurface{{Label: IcoSphereSurface, Faces: faces}},
	}
}
