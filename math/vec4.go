package math

import (
	"fmt"
	"math"
)

type Vec4 struct {
	X, Y, Z, W float64
}

func NewVec4(x, y, z, w float64) Vec4 {
	return Vec4{X: x, Y: y, Z: z, W: w}
}

func (v Vec4) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	case 3:
		return v.W
	}
	panic(fmt.Sprintf("math: Vec4 index %d out of range", i))
}

func (v Vec4) With(i int, value float64) Vec4 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	case 3:
		v.W = value
	default:
		panic(fmt.Sprintf("math: Vec4 index %d out of range", i))
	}
	return v
}

func (v Vec4) Add(other Vec4) Vec4 {
	return Vec4{X: v.X + other.X, Y: v.Y + other.Y, Z: v.Z + other.Z, W: v.W + other.W}
}

func (v Vec4) Sub(other Vec4) Vec4 {
	return Vec4{X: v.X - other.X, Y: v.Y - other.Y, Z: v.Z - other.Z, W: v.W - other.W}
}

func (v Vec4) Mul(scalar float64) Vec4 {
	return Vec4{X: v.X * scalar, Y: v.Y * scalar, Z: v.Z * scalar, W: v.W * scalar}
}

func (v Vec4) Div(scalar float64) Vec4 {
	checkDivisor(scalar)
	return Vec4{X: v.X / scalar, Y: v.Y / scalar, Z: v.Z / scalar, W: v.W / scalar}
}

func (v Vec4) Dot(other Vec4) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z + v.W*other.W
}

func (v Vec4) Length() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vec4) Normalize() Vec4 {
	length := v.Length()
	if length < Epsilon {
		return v
	}
	return v.Mul(1 / length)
}

func (v Vec4) ToVec3() Vec3 {
	return Vec3{X: v.X, Y: v.Y, Z: v.Z}
}

// PerspectiveDivide returns v / v.W. A w of (near) zero is a contract
// violation and panics.
func (v Vec4) PerspectiveDivide() Vec4 {
	return v.Div(v.W)
}
