package core

import "math"

// Vec3 represents a 3D vector or point
type Vec3 struct {
	X, Y, Z float64
}

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Subtract returns the difference of two vectors
func (v Vec3) Subtract(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Multiply returns the vector scaled by a scalar
func (v Vec3) Multiply(scalar float64) Vec3 {
	return Vec3{v.X * scalar, v.Y * scalar, v.Z * scalar}
}

// Length returns the magnitude of the vector
func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// LengthSquared returns the squared magnitude of the vector
func (v Vec3) LengthSquared() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Dot returns the dot product of two vectors
func (v Vec3) Dot(other Vec3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product of two vectors
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// Negate returns the negative of the vector
func (v Vec3) Negate() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Normalize returns a unit vector in the same direction.
// The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	length := v.Length()
	if length == 0 {
		return v
	}
	return Vec3{v.X / length, v.Y / length, v.Z / length}
}

// IsZero reports whether every component is exactly zero
func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// AnyOrthogonal returns a vector orthogonal to v. The result is not normalized.
// The component pair is chosen by comparing |z| to |x| so the result never
// collapses for axis-aligned inputs.
func (v Vec3) AnyOrthogonal() Vec3 {
	if math.Abs(v.Z) < math.Abs(v.X) {
		return Vec3{v.Y, -v.X, 0}
	}
	return Vec3{0, -v.Z, v.Y}
}

// RotateAround rotates v about axis by theta radians (Rodrigues' rotation formula).
// The axis is normalized internally.
func (v Vec3) RotateAround(axis Vec3, theta float64) Vec3 {
	u := axis.Normalize()
	sint, cost := math.Sincos(theta)
	oneCost := 1.0 - cost

	x := (cost+u.X*u.X*oneCost)*v.X +
		(u.X*u.Y*oneCost-u.Z*sint)*v.Y +
		(u.X*u.Z*oneCost+u.Y*sint)*v.Z
	y := (u.Y*u.X*oneCost+u.Z*sint)*v.X +
		(cost+u.Y*u.Y*oneCost)*v.Y +
		(u.Y*u.Z*oneCost-u.X*sint)*v.Z
	z := (u.Z*u.X*oneCost-u.Y*sint)*v.X +
		(u.Z*u.Y*oneCost+u.X*sint)*v.Y +
		(cost+u.Z*u.Z*oneCost)*v.Z

	return Vec3{x, y, z}
}

// ApproxEqual reports whether two vectors are within tolerance of each other
func (v Vec3) ApproxEqual(other Vec3, tolerance float64) bool {
	return v.Subtract(other).Length() <= tolerance
}

// Ray is a half-line segment: it starts at Origin, follows the unit Direction
// and is only considered up to Length (which may be +Inf).
type Ray struct {
	Origin    Vec3
	Direction Vec3
	Length    float64
}

// NewRay creates a new ray of the given length
func NewRay(origin, direction Vec3, length float64) Ray {
	return Ray{Origin: origin, Direction: direction, Length: length}
}

// At returns the point at parameter t along the ray
func (r Ray) At(t float64) Vec3 {
	return r.Origin.Add(r.Direction.Multiply(t))
}
