package scene

import (
	"fmt"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/material"
)

// boundsPadding grows every solid's box so grazing hits just outside the
// tight bounds still reach the narrow phase
const boundsPadding = 1e-6

// Builder assembles a Scene from meshes. Material 0 is always the world.
type Builder struct {
	materials []material.Material
	solids    []solidSpec
	links     []link
}

type solidSpec struct {
	label      string
	mesh       Mesh
	materialID int
	smooth     bool
	parentID   int
}

type link struct {
	solidA, solidB     int
	surfaceA, surfaceB string
}

// NewBuilder creates a builder whose world region is filled with the given material
func NewBuilder(world material.Material) *Builder {
	return &Builder{materials: []material.Material{world}}
}

// AddMaterial registers a material and returns its ID
func (b *Builder) AddMaterial(m material.Material) int {
	b.materials = append(b.materials, m)
	return len(b.materials) - 1
}

// AddSolid registers a closed mesh filled with materialID and returns its
// solid ID. Faces must be wound counter-clockwise seen from outside.
func (b *Builder) AddSolid(label string, mesh Mesh, materialID int, smooth bool) int {
	b.solids = append(b.solids, solidSpec{
		label:      label,
		mesh:       mesh,
		materialID: materialID,
		smooth:     smooth,
		parentID:   NoSolidID,
	})
	return len(b.solids) - 1 + FirstSolidID
}

// PlaceInside declares that inner is embedded in outer: photons leaving
// inner enter outer instead of the world
func (b *Builder) PlaceInside(inner, outer int) error {
	if !b.hasSolid(inner) || !b.hasSolid(outer) {
		return fmt.Errorf("%w: cannot place solid %d inside %d: unknown solid", ErrInvalidScene, inner, outer)
	}
	if inner == outer {
		return fmt.Errorf("%w: solid %d cannot contain itself", ErrInvalidScene, inner)
	}
	b.solids[inner-FirstSolidID].parentID = outer
	return nil
}

// Connect joins two solids through coincident surfaces, such as the shared
// face of two stacked layers. Both copies of the interface stay in the scene,
// each pointing at the other solid as its outside.
func (b *Builder) Connect(solidA int, surfaceA string, solidB int, surfaceB string) error {
	if !b.hasSolid(solidA) || !b.hasSolid(solidB) {
		return fmt.Errorf("%w: cannot connect solids %d and %d: unknown solid", ErrInvalidScene, solidA, solidB)
	}
	if solidA == solidB {
		return fmt.Errorf("%w: cannot connect solid %d to itself", ErrInvalidScene, solidA)
	}
	if !b.solids[solidA-FirstSolidID].mesh.hasSurface(surfaceA) {
		return fmt.Errorf("%w: solid %d has no surface %q", ErrInvalidScene, solidA, surfaceA)
	}
	if !b.solids[solidB-FirstSolidID].mesh.hasSurface(surfaceB) {
		return fmt.Errorf("%w: solid %d has no surface %q", ErrInvalidScene, solidB, surfaceB)
	}
	b.links = append(b.links, link{solidA: solidA, surfaceA: surfaceA, solidB: solidB, surfaceB: surfaceB})
	return nil
}

// Build flattens every registered solid into an immutable Scene and validates it
func (b *Builder) Build() (*Scene, error) {
	s := &Scene{
		Materials:       append([]material.Material(nil), b.materials...),
		WorldMaterialID: 0,
	}

	for i, spec := range b.solids {
		id := i + FirstSolidID
		if err := spec.mesh.validate(); err != nil {
			return nil, fmt.Errorf("%w: solid %d (%s): %v", ErrInvalidScene, id, spec.label, err)
		}
		if spec.materialID < 0 || spec.materialID >= len(s.Materials) {
			return nil, fmt.Errorf("%w: solid %d (%s): material %d does not exist", ErrInvalidScene, id, spec.label, spec.materialID)
		}

		vertexOffset := len(s.Vertices)
		normals := spec.mesh.vertexNormals()
		for j, position := range spec.mesh.Vertices {
			s.Vertices = append(s.Vertices, Vertex{Position: position, Normal: normals[j]})
		}

		outsideMaterialID := s.WorldMaterialID
		if spec.parentID != NoSolidID {
			outsideMaterialID = b.solids[spec.parentID-FirstSolidID].materialID
		}

		solid := Solid{
			ID:             id,
			Label:          spec.label,
			MaterialID:     spec.materialID,
			BBox:           core.NewAABBFromPoints(spec.mesh.Vertices...).Expand(boundsPadding),
			FirstSurfaceID: len(s.Surfaces),
		}

		for _, group := range spec.mesh.Surfaces {
			surface := Surface{
				Label:             group.Label,
				FirstTriangleID:   len(s.Triangles),
				InsideMaterialID:  spec.materialID,
				OutsideMaterialID: outsideMaterialID,
				InsideSolidID:     id,
				OutsideSolidID:    spec.parentID,
				Smooth:            spec.smooth,
			}
			for _, face := range group.Faces {
				p0 := spec.mesh.Vertices[face[0]]
				p1 := spec.mesh.Vertices[face[1]]
				p2 := spec.mesh.Vertices[face[2]]
				normal := p1.Subtract(p0).Cross(p2.Subtract(p0))
				if normal.IsZero() {
					return nil, fmt.Errorf("%w: solid %d (%s): degenerate face %v", ErrInvalidScene, id, spec.label, face)
				}
				s.Triangles = append(s.Triangles, Triangle{
					VertexIDs: [3]int{face[0] + vertexOffset, face[1] + vertexOffset, face[2] + vertexOffset},
					Normal:    normal.Normalize(),
				})
			}
			surface.LastTriangleID = len(s.Triangles) - 1
			s.Surfaces = append(s.Surfaces, surface)
		}
		solid.LastSurfaceID = len(s.Surfaces) - 1
		s.Solids = append(s.Solids, solid)
	}

	for _, l := range b.links {
		s.linkSurfaces(l.solidA, l.surfaceA, l.solidB)
		s.linkSurfaces(l.solidB, l.surfaceB, l.solidA)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// linkSurfaces points every surface of solidID carrying label at neighborID
func (s *Scene) linkSurfaces(solidID int, label string, neighborID int) {
	solid := s.Solid(solidID)
	for i := solid.FirstSurfaceID; i <= solid.LastSurfaceID; i++ {
		if s.Surfaces[i].Label == label {
			s.Surfaces[i].OutsideSolidID = neighborID
			s.Surfaces[i].OutsideMaterialID = s.Solid(neighborID).MaterialID
		}
	}
}

func (b *Builder) hasSolid(id int) bool {
	return id >= FirstSolidID && id < FirstSolidID+len(b.solids)
}
