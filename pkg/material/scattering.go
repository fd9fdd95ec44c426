package material

import (
	"math"

	"github.com/df07/go-photon-transport/pkg/core"
)

// FreePathLength samples an exponential free-flight distance.
// A non-attenuating medium (muT == 0) yields +Inf.
func FreePathLength(muT, u float64) float64 {
	if muT == 0 {
		return math.Inf(1)
	}
	return -math.Log(u) / muT
}

// Azimuth maps a uniform sample to an angle in [0, 2pi]
func Azimuth(u float64) float64 {
	return 2 * math.Pi * u
}

// PolarAngle samples the Henyey-Greenstein phase function by inverting its CDF.
// g == 0 is isotropic scattering.
func PolarAngle(g, u float64) float64 {
	if g == 0 {
		return math.Acos(clamp(2*u-1, -1, 1))
	}
	temp := (1 - g*g) / (1 - g + 2*g*u)
	return math.Acos(clamp((1+g*g-temp*temp)/(2*g), -1, 1))
}

// ScatteringAngles is an azimuth/polar pair
type ScatteringAngles struct {
	Phi, Theta float64
}

// SampleFreePath draws a free-flight distance in this material
func (m Material) SampleFreePath(sampler core.Sampler) float64 {
	return FreePathLength(m.MuT, sampler.Get1D())
}

// SampleScatteringAngles draws phi then theta from two independent samples
func (m Material) SampleScatteringAngles(sampler core.Sampler) ScatteringAngles {
	phi := Azimuth(sampler.Get1D())
	theta := PolarAngle(m.G, sampler.Get1D())
	return ScatteringAngles{Phi: phi, Theta: theta}
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
