package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/material"
)

const (
	// NoSolidID marks the region outside every solid (the world)
	NoSolidID = -1
	// NoSurfaceID marks events that did not happen on a surface
	NoSurfaceID = -1
	// FirstSolidID is the ID of Solids[0]; solid IDs are 1-based
	FirstSolidID = 1
)

// ErrInvalidScene is wrapped by every scene validation error
var ErrInvalidScene = errors.New("invalid scene")

// Scene is the flat, immutable description of the geometry photons travel
// through. Solids own contiguous ranges of Surfaces, Surfaces own contiguous
// ranges of Triangles, Triangles index into Vertices. A Scene must not be
// modified once photons are propagating through it.
type Scene struct {
	Materials       []material.Material
	Solids          []Solid
	Surfaces        []Surface
	Triangles       []Triangle
	Vertices        []Vertex
	WorldMaterialID int // Material of the region outside every solid
}

// Solid is a closed volume made of one or more surfaces
type Solid struct {
	ID             int
	Label          string
	MaterialID     int       // Material filling the solid
	BBox           core.AABB // World-space bounds of every owned triangle
	FirstSurfaceID int       // Inclusive
	LastSurfaceID  int       // Inclusive
}

// Surface is a group of triangles separating exactly two regions
type Surface struct {
	Label             string
	FirstTriangleID   int // Inclusive
	LastTriangleID    int // Inclusive
	InsideMaterialID  int
	OutsideMaterialID int
	InsideSolidID     int
	OutsideSolidID    int  // NoSolidID when the surface borders the world
	Smooth            bool // Interpolate vertex normals on hits
}

// Triangle references three vertices; Normal points to the outside of the
// owning surface
type Triangle struct {
	VertexIDs [3]int
	Normal    core.Vec3
}

// Vertex is a mesh vertex. Normal is only used for smoothing.
type Vertex struct {
	Position core.Vec3
	Normal   core.Vec3
}

// Solid returns the solid with the given 1-based ID
func (s *Scene) Solid(id int) *Solid {
	return &s.Solids[id-FirstSolidID]
}

// Material returns the material with the given ID
func (s *Scene) Material(id int) *material.Material {
	return &s.Materials[id]
}

// HasSolid reports whether id names a solid of this scene
func (s *Scene) HasSolid(id int) bool {
	return id >= FirstSolidID && id < FirstSolidID+len(s.Solids)
}

// TriangleVertices returns the three corner positions of a triangle
func (s *Scene) TriangleVertices(triangleID int) (core.Vec3, core.Vec3, core.Vec3) {
	ids := s.Triangles[triangleID].VertexIDs
	return s.Vertices[ids[0]].Position, s.Vertices[ids[1]].Position, s.Vertices[ids[2]].Position
}

// SolidMaterialID returns the material of a region, the world included
func (s *Scene) SolidMaterialID(solidID int) int {
	if solidID == NoSolidID {
		return s.WorldMaterialID
	}
	return s.Solid(solidID).MaterialID
}

// Bounds returns the box enclosing every solid
func (s *Scene) Bounds() core.AABB {
	if len(s.Solids) == 0 {
		return core.AABB{}
	}
	bounds := s.Solids[0].BBox
	for _, solid := range s.Solids[1:] {
		bounds = bounds.Union(solid.BBox)
	}
	return bounds
}

// Validate checks that every ID and range in the scene points at existing
// data. The intersection engine trusts these ranges without further checks.
func (s *Scene) Validate() error {
	if len(s.Materials) == 0 {
		return fmt.Errorf("%w: no materials", ErrInvalidScene)
	}
	for i, m := range s.Materials {
		if err := m.Validate(); err != nil {
			return fmt.Errorf("%w: material %d: %v", ErrInvalidScene, i, err)
		}
	}
	if !s.validMaterial(s.WorldMaterialID) {
		return fmt.Errorf("%w: world material %d does not exist", ErrInvalidScene, s.WorldMaterialID)
	}

	for i, solid := range s.Solids {
		if solid.ID != i+FirstSolidID {
			return fmt.Errorf("%w: solid at index %d has ID %d", ErrInvalidScene, i, solid.ID)
		}
		if !s.validMaterial(solid.MaterialID) {
			return fmt.Errorf("%w: solid %d: material %d does not exist", ErrInvalidScene, solid.ID, solid.MaterialID)
		}
		if !validRange(solid.FirstSurfaceID, solid.LastSurfaceID, len(s.Surfaces)) {
			return fmt.Errorf("%w: solid %d: surface range [%d, %d] out of bounds", ErrInvalidScene,
				solid.ID, solid.FirstSurfaceID, solid.LastSurfaceID)
		}
	}

	for i, surface := range s.Surfaces {
		if !validRange(surface.FirstTriangleID, surface.LastTriangleID, len(s.Triangles)) {
			return fmt.Errorf("%w: surface %d: triangle range [%d, %d] out of bounds", ErrInvalidScene,
				i, surface.FirstTriangleID, surface.LastTriangleID)
		}
		if !s.validMaterial(surface.InsideMaterialID) || !s.validMaterial(surface.OutsideMaterialID) {
			return fmt.Errorf("%w: surface %d: unknown material", ErrInvalidScene, i)
		}
		if !s.HasSolid(surface.InsideSolidID) {
			return fmt.Errorf("%w: surface %d: inside solid %d does not exist", ErrInvalidScene, i, surface.InsideSolidID)
		}
		if surface.OutsideSolidID != NoSolidID && !s.HasSolid(surface.OutsideSolidID) {
			return fmt.Errorf("%w: surface %d: outside solid %d does not exist", ErrInvalidScene, i, surface.OutsideSolidID)
		}
		if surface.InsideSolidID == surface.OutsideSolidID {
			return fmt.Errorf("%w: surface %d separates solid %d from itself", ErrInvalidScene, i, surface.InsideSolidID)
		}
	}

	for i, triangle := range s.Triangles {
		for _, id := range triangle.VertexIDs {
			if id < 0 || id >= len(s.Vertices) {
				return fmt.Errorf("%w: triangle %d: vertex %d out of bounds", ErrInvalidScene, i, id)
			}
		}
	}

	return nil
}

func (s *Scene) validMaterial(id int) bool {
	return id >= 0 && id < len(s.Materials)
}

func validRange(first, last, n int) bool {
	return first >= 0 && first <= last && last < n
}
