package geometry

import (
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// locateDirection is skewed so probe rays avoid mesh edges and axis-aligned faces
var locateDirection = core.NewVec3(0.5773, 0.5871, 0.5675).Normalize()

// Locate returns the innermost solid containing point, or scene.NoSolidID.
// A solid contains the point when a probe ray crosses its triangles an odd
// number of times; the smallest containing box wins for nested solids.
func Locate(s *scene.Scene, point core.Vec3) int {
	probe := core.NewRay(point, locateDirection, math.Inf(1))

	located := scene.NoSolidID
	smallest := math.Inf(1)
	for i := range s.Solids {
		solid := &s.Solids[i]
		if !solid.BBox.Contains(point) {
			continue
		}

		crossings := 0
		for surfaceID := solid.FirstSurfaceID; surfaceID <= solid.LastSurfaceID; surfaceID++ {
			surface := &s.Surfaces[surfaceID]
			for triangleID := surface.FirstTriangleID; triangleID <= surface.LastTriangleID; triangleID++ {
				p0, p1, p2 := s.TriangleVertices(triangleID)
				if _, _, _, ok := hitTriangle(probe, p0, p1, p2, 0, probe.Length); ok {
					crossings++
				}
			}
		}
		if crossings%2 == 0 {
			continue
		}

		size := solid.BBox.Size()
		if volume := size.X * size.Y * size.Z; volume < smallest {
			smallest = volume
			located = solid.ID
		}
	}
	return located
}
