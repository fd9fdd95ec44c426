package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3_Normalize(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		expected Vec3
	}{
		{"unit x stays", NewVec3(1, 0, 0), NewVec3(1, 0, 0)},
		{"scaled", NewVec3(3, 4, 0), NewVec3(0.6, 0.8, 0)},
		{"negative", NewVec3(0, 0, -5), NewVec3(0, 0, -1)},
		{"zero vector is left alone", NewVec3(0, 0, 0), NewVec3(0, 0, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.Normalize()
			assert.True(t, result.ApproxEqual(tt.expected, 1e-12), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestVec3_AnyOrthogonal(t *testing.T) {
	vectors := []Vec3{
		NewVec3(1, 0, 0),
		NewVec3(0, 1, 0),
		NewVec3(0, 0, 1),
		NewVec3(0, 0, -1),
		NewVec3(-1, 0, 0),
		NewVec3(1, 1, 1),
		NewVec3(0.3, -2, 7),
		NewVec3(1e-9, 0, 1),
		NewVec3(5, 5, 0),
	}

	for _, v := range vectors {
		orthogonal := v.AnyOrthogonal()
		assert.InDelta(t, 0, orthogonal.Dot(v), 1e-12, "not orthogonal for %v", v)
		assert.False(t, orthogonal.IsZero(), "degenerate orthogonal for %v", v)
	}
}

func TestVec3_AnyOrthogonalComponentChoice(t *testing.T) {
	// |z| < |x| picks (y, -x, 0)
	assert.Equal(t, NewVec3(2, -3, 0), NewVec3(3, 2, 1).AnyOrthogonal())
	// otherwise (0, -z, y)
	assert.Equal(t, NewVec3(0, -3, 2), NewVec3(1, 2, 3).AnyOrthogonal())
}

func TestVec3_RotateAround(t *testing.T) {
	tests := []struct {
		name     string
		vector   Vec3
		axis     Vec3
		theta    float64
		expected Vec3
	}{
		{"no rotation", NewVec3(1, 0, 0), NewVec3(0, 0, 1), 0, NewVec3(1, 0, 0)},
		{"quarter turn about z", NewVec3(1, 0, 0), NewVec3(0, 0, 1), math.Pi / 2, NewVec3(0, 1, 0)},
		{"quarter turn about y", NewVec3(1, 0, 0), NewVec3(0, 1, 0), math.Pi / 2, NewVec3(0, 0, -1)},
		{"quarter turn about x", NewVec3(0, 1, 0), NewVec3(1, 0, 0), math.Pi / 2, NewVec3(0, 0, 1)},
		{"half turn", NewVec3(1, 0, 0), NewVec3(0, 1, 0), math.Pi, NewVec3(-1, 0, 0)},
		{"axis is normalized internally", NewVec3(1, 0, 0), NewVec3(0, 0, 10), math.Pi / 2, NewVec3(0, 1, 0)},
		{"vector along axis is unchanged", NewVec3(0, 0, 2), NewVec3(0, 0, 1), 1.234, NewVec3(0, 0, 2)},
		{"reflection style deflection", NewVec3(1, -1, 0).Normalize(), NewVec3(0, 0, 1), math.Pi / 2, NewVec3(1, 1, 0).Normalize()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.vector.RotateAround(tt.axis, tt.theta)
			assert.True(t, result.ApproxEqual(tt.expected, 1e-9), "expected %v, got %v", tt.expected, result)
		})
	}
}

func TestVec3_RotateAroundPreservesLengthAndInverts(t *testing.T) {
	random := NewRandom(7)
	for i := 0; i < 1000; i++ {
		v := NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2)
		axis := NewVec3(random.Float64()-0.5, random.Float64()-0.5, random.Float64()-0.5)
		theta := (random.Float64() - 0.5) * 4 * math.Pi

		rotated := v.RotateAround(axis, theta)
		assert.InDelta(t, v.Length(), rotated.Length(), 1e-9)

		back := rotated.RotateAround(axis, -theta)
		assert.True(t, back.ApproxEqual(v, 1e-9), "round trip %v -> %v", v, back)
	}
}

func TestVec3_Cross(t *testing.T) {
	x := NewVec3(1, 0, 0)
	y := NewVec3(0, 1, 0)
	assert.Equal(t, NewVec3(0, 0, 1), x.Cross(y))
	assert.Equal(t, NewVec3(0, 0, -1), y.Cross(x))
}

func TestRay_At(t *testing.T) {
	ray := NewRay(NewVec3(2, 2, 0), NewVec3(0, 0, -1), 10)
	assert.Equal(t, NewVec3(2, 2, -10), ray.At(10))
}
