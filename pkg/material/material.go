package material

import "fmt"

// Material holds the optical properties of a homogeneous medium.
// Materials are immutable once built into a scene.
type Material struct {
	Label  string  // Optional name used in diagnostics
	MuS    float64 // Scattering coefficient
	MuA    float64 // Absorption coefficient
	MuT    float64 // Total attenuation coefficient (MuS + MuA)
	G      float64 // Henyey-Greenstein anisotropy factor
	N      float64 // Refractive index
	Albedo float64 // Fraction of interacting weight that is scattered (MuS / MuT)
}

// New creates a scattering material
func New(muS, muA, g, n float64) Material {
	m := Material{
		MuS: muS,
		MuA: muA,
		MuT: muS + muA,
		G:   g,
		N:   n,
	}
	if m.MuT > 0 {
		m.Albedo = muS / m.MuT
	}
	return m
}

// NewVacuum creates a non-attenuating medium with refractive index n
func NewVacuum(n float64) Material {
	return New(0, 0, 0, n)
}

// WithLabel returns a copy of the material carrying a label
func (m Material) WithLabel(label string) Material {
	m.Label = label
	return m
}

// IsVacuum reports whether the medium does not attenuate
func (m Material) IsVacuum() bool {
	return m.MuT == 0
}

// AbsorbedFraction is the part of the weight deposited at each interaction
func (m Material) AbsorbedFraction() float64 {
	return 1 - m.Albedo
}

// Validate checks the physical ranges of the parameters
func (m Material) Validate() error {
	switch {
	case m.MuS < 0 || m.MuA < 0:
		return fmt.Errorf("material %q: negative coefficients (mu_s=%v, mu_a=%v)", m.Label, m.MuS, m.MuA)
	case m.G <= -1 || m.G >= 1:
		return fmt.Errorf("material %q: anisotropy g=%v outside (-1, 1)", m.Label, m.G)
	case m.N <= 0:
		return fmt.Errorf("material %q: refractive index must be positive, got %v", m.Label, m.N)
	}
	return nil
}

func (m Material) String() string {
	return fmt.Sprintf("Material{%s mu_s=%g mu_a=%g g=%g n=%g}", m.Label, m.MuS, m.MuA, m.G, m.N)
}
