package photon

import (
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
	"github.com/df07/go-photon-transport/pkg/geometry"
	"github.com/df07/go-photon-transport/pkg/material"
	"github.com/df07/go-photon-transport/pkg/scene"
)

// FresnelIntersection is the resolved outcome of a photon hitting a boundary.
// Rotating the direction about IncidencePlane by AngleDeflection gives the
// reflected or refracted direction.
type FresnelIntersection struct {
	IsReflected     bool
	AngleDeflection float64
	IncidencePlane  core.Vec3 // Unit rotation axis
	NextMaterialID  int       // Material after a refraction
	NextSolidID     int       // Solid after a refraction
}

// ComputeFresnelIntersection decides between reflection and refraction for a
// photon travelling along direction into hit, using the uniform sample u.
func ComputeFresnelIntersection(s *scene.Scene, direction core.Vec3, hit geometry.Intersection, u float64, config Config) FresnelIntersection {
	var fresnel FresnelIntersection
	surface := &s.Surfaces[hit.SurfaceID]
	normal := hit.Normal

	var nIn, nOut float64
	if direction.Dot(normal) < 0 {
		// Entering: orient the normal along the ray
		normal = normal.Negate()
		nIn = s.Material(surface.OutsideMaterialID).N
		nOut = s.Material(surface.InsideMaterialID).N
		fresnel.NextMaterialID = surface.InsideMaterialID
		fresnel.NextSolidID = surface.InsideSolidID
	} else {
		nIn = s.Material(surface.InsideMaterialID).N
		nOut = s.Material(surface.OutsideMaterialID).N
		fresnel.NextMaterialID = surface.OutsideMaterialID
		fresnel.NextSolidID = surface.OutsideSolidID
	}

	plane := direction.Cross(normal)
	if plane.Length() < config.EpsParallel {
		plane = direction.AnyOrthogonal()
	}
	fresnel.IncidencePlane = plane.Normalize()

	thetaIn := math.Acos(math.Max(-1, math.Min(1, normal.Dot(direction))))

	fresnel.IsReflected = material.Reflectance(nIn, nOut, thetaIn) > u
	if fresnel.IsReflected {
		fresnel.AngleDeflection = material.ReflectionDeflection(thetaIn)
	} else {
		fresnel.AngleDeflection = material.RefractionDeflection(nIn, nOut, thetaIn)
	}

	if hit.IsSmooth {
		fresnel.AngleDeflection = clampSmoothDeflection(direction, fresnel.IncidencePlane, hit.RawNormal,
			fresnel.AngleDeflection, fresnel.IsReflected, config.EpsSmoothClamp)
	}

	return fresnel
}

// clampSmoothDeflection keeps a deflection computed from a smoothed normal
// consistent with the raw facet: a reflection must end on the incident side
// of the facet and a refraction on the far side.
//
// Rotating direction d by delta about the unit axis a gives
// d cos(delta) + (a x d) sin(delta), so with the raw normal r oriented along
// the ray, dot(d(delta), r) = |(p, q)| cos(delta - phi) where p = d.r,
// q = (a x d).r and phi = atan2(q, p).
func clampSmoothDeflection(direction, axis, rawNormal core.Vec3, deflection float64, reflected bool, margin float64) float64 {
	if direction.Dot(rawNormal) < 0 {
		rawNormal = rawNormal.Negate()
	}
	p := direction.Dot(rawNormal)
	q := axis.Cross(direction).Dot(rawNormal)
	phi := math.Atan2(q, p)

	if reflected {
		return math.Min(deflection, phi-math.Pi/2-margin)
	}
	return math.Max(phi-math.Pi/2+margin, math.Min(deflection, phi+math.Pi/2-margin))
}

// RescaleDistance converts a free path left over in a medium of attenuation
// muTOld into the equivalent path in a medium of attenuation muTNew. It
// returns +Inf when the new medium does not attenuate and 0 (draw a fresh
// path) when the old one did not.
func RescaleDistance(distanceLeft, muTOld, muTNew float64) float64 {
	switch {
	case muTNew == 0:
		return math.Inf(1)
	case muTOld == 0:
		return 0
	}
	return distanceLeft * muTOld / muTNew
}
