package math

import (
	"fmt"
	"math"
)

type Vec2 struct {
	X, Y float64
}

func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// At returns component i; it panics if i is not 0 or 1.
func (v Vec2) At(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	}
	panic(fmt.Sprintf("math: Vec2 index %d out of range", i))
}

// With returns a copy of v with component i replaced.
func (v Vec2) With(i int, value float64) Vec2 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	default:
		panic(fmt.Sprintf("math: Vec2 index %d out of range", i))
	}
	return v
}

func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{X: v.X + other.X, Y: v.Y + other.Y}
}

func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{X: v.X - other.X, Y: v.Y - other.Y}
}

func (v Vec2) Mul(scalar float64) Vec2 {
	return Vec2{X: v.X * scalar, Y: v.Y * scalar}
}

func (v Vec2) Div(scalar float64) Vec2 {
	checkDivisor(scalar)
	return Vec2{X: v.X / scalar, Y: v.Y / scalar}
}

func (v Vec2) Dot(other Vec2) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Cross promotes both operands to z=0 and returns the 3D cross product,
// which only has a z component.
func (v Vec2) Cross(other Vec2) Vec3 {
	return Vec3{Z: v.X*other.Y - v.Y*other.X}
}

func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec2) Normalize() Vec2 {
	length := v.Length()
	if length < Epsilon {
		return v
	}
	return Vec2{X: v.X / length, Y: v.Y / length}
}

func (v Vec2) Lerp(other Vec2, t float64) Vec2 {
	return v.Add(other.Sub(v).Mul(t))
}
