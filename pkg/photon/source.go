package photon

import (
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
)

// NewPencilSource launches n photons from one point along one direction
func NewPencilSource(position, direction core.Vec3, n, materialID, solidID int) []Photon {
	photons := make([]Photon, n)
	for i := range photons {
		photons[i] = NewPhoton(position, direction, materialID, solidID)
	}
	return photons
}

// NewIsotropicSource launches n photons from one point in uniformly
// distributed directions
func NewIsotropicSource(position core.Vec3, n, materialID, solidID int, sampler core.Sampler) []Photon {
	photons := make([]Photon, n)
	for i := range photons {
		cosTheta := 2*sampler.Get1D() - 1
		sinTheta := math.Sqrt(math.Max(0, 1-cosTheta*cosTheta))
		phi := 2 * math.Pi * sampler.Get1D()
		direction := core.NewVec3(sinTheta*math.Cos(phi), sinTheta*math.Sin(phi), cosTheta)
		photons[i] = NewPhoton(position, direction, materialID, solidID)
	}
	return photons
}
