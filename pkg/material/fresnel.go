package material

import "math"

// Reflectance returns the unpolarized Fresnel reflection coefficient for light
// going from index n1 to index n2 at incidence angle thetaIn (radians, measured
// from the normal). Total internal reflection returns exactly 1.
//
// Follows the MCML formulation (Wang, Jacques, Zheng 1995).
func Reflectance(n1, n2, thetaIn float64) float64 {
	if n1 == n2 {
		return 0
	}

	if thetaIn == 0 {
		r := (n2 - n1) / (n2 + n1)
		return r * r
	}

	sa1 := math.Sin(thetaIn)
	sa2 := sa1 * n1 / n2
	if sa2 > 1 {
		return 1
	}

	ca1 := math.Sqrt(1 - sa1*sa1)
	ca2 := math.Sqrt(1 - sa2*sa2)

	cPlus := ca1*ca2 - sa1*sa2  // c+ = cc - ss
	cMinus := ca1*ca2 + sa1*sa2 // c- = cc + ss
	sPlus := sa1*ca2 + ca1*sa2  // s+ = sc + cs
	sMinus := sa1*ca2 - ca1*sa2 // s- = sc - cs

	return 0.5 * sMinus * sMinus * (cMinus*cMinus + cPlus*cPlus) / (sPlus * sPlus * cMinus * cMinus)
}

// CriticalAngle returns the total internal reflection angle, or NaN when n1 <= n2
func CriticalAngle(n1, n2 float64) float64 {
	if n1 <= n2 {
		return math.NaN()
	}
	return math.Asin(n2 / n1)
}

// ReflectionDeflection is the rotation that turns the incident direction into
// its mirror image about the surface
func ReflectionDeflection(thetaIn float64) float64 {
	return 2*thetaIn - math.Pi
}

// RefractionDeflection is the rotation from the incident direction to the
// transmitted direction given by Snell's law
func RefractionDeflection(n1, n2, thetaIn float64) float64 {
	sinThetaOut := n1 / n2 * math.Sin(thetaIn)
	thetaOut := math.Asin(clamp(sinThetaOut, -1, 1))
	return thetaIn - thetaOut
}
