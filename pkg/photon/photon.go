package photon

import "github.com/df07/go-photon-transport/pkg/core"

// Photon is a packet of light energy. Weight is the fraction of the launched
// energy it still carries; the photon is dead once Weight is exactly 0.
type Photon struct {
	Position   core.Vec3
	Direction  core.Vec3 // Unit
	Er         core.Vec3 // Unit, orthogonal to Direction; local frame for scattering
	Weight     float64
	MaterialID int
	SolidID    int // scene.NoSolidID in the world
}

// NewPhoton creates a photon of weight 1 in the given material and solid
func NewPhoton(position, direction core.Vec3, materialID, solidID int) Photon {
	direction = direction.Normalize()
	return Photon{
		Position:   position,
		Direction:  direction,
		Er:         direction.AnyOrthogonal().Normalize(),
		Weight:     1,
		MaterialID: materialID,
		SolidID:    solidID,
	}
}

// IsAlive reports whether the photon still carries energy
func (p *Photon) IsAlive() bool {
	return p.Weight > 0
}

func (p *Photon) moveBy(distance float64) {
	p.Position = p.Position.Add(p.Direction.Multiply(distance))
}

// scatterBy rotates the local frame by the azimuth, then the direction by
// the polar angle about the new frame vector
func (p *Photon) scatterBy(phi, theta float64) {
	p.Er = p.Er.RotateAround(p.Direction, phi)
	p.setDirection(p.Direction.RotateAround(p.Er, theta))
}

// setDirection changes the direction and re-derives Er
func (p *Photon) setDirection(direction core.Vec3) {
	p.Direction = direction.Normalize()
	p.Er = p.Direction.AnyOrthogonal().Normalize()
}
