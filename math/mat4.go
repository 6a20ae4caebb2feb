package math

import (
	"fmt"
	"math"
)

// Mat4 is a 4x4 matrix stored row-major, m[row][col]. Vectors are columns:
// a transform is applied as m.MulVec(v), and A.Mul(B) applies B first.
type Mat4 [4][4]float64

func Mat4Identity() Mat4 {
	return Mat4{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4Zero() Mat4 {
	return Mat4{}
}

// At returns m[row][col]; it panics on an out-of-range index.
func (m Mat4) At(row, col int) float64 {
	if row < 0 || row > 3 || col < 0 || col > 3 {
		panic(fmt.Sprintf("math: Mat4 index (%d,%d) out of range", row, col))
	}
	return m[row][col]
}

func (m Mat4) Row(i int) Vec4 {
	if i < 0 || i > 3 {
		panic(fmt.Sprintf("math: Mat4 row %d out of range", i))
	}
	return Vec4{m[i][0], m[i][1], m[i][2], m[i][3]}
}

func (m Mat4) Col(j int) Vec4 {
	if j < 0 || j > 3 {
		panic(fmt.Sprintf("math: Mat4 column %d out of range", j))
	}
	return Vec4{m[0][j], m[1][j], m[2][j], m[3][j]}
}

func (m Mat4) Mul(other Mat4) Mat4 {
	result := Mat4Zero()
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			for k := 0; k < 4; k++ {
				result[i][j] += m[i][k] * other[k][j]
			}
		}
	}
	return result
}

func (m Mat4) MulVec(v Vec4) Vec4 {
	return Vec4{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z + m[0][3]*v.W,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z + m[1][3]*v.W,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z + m[2][3]*v.W,
		W: m[3][0]*v.X + m[3][1]*v.Y + m[3][2]*v.Z + m[3][3]*v.W,
	}
}

// MulPoint transforms p as a point (w=1) and divides by the resulting w.
func (m Mat4) MulPoint(p Vec3) Vec3 {
	return m.MulVec(p.ToVec4(1)).PerspectiveDivide().ToVec3()
}

// MulDir transforms d as a direction (w=0).
func (m Mat4) MulDir(d Vec3) Vec3 {
	return m.MulVec(d.ToVec4(0)).ToVec3()
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		{m[0][0], m[1][0], m[2][0], m[3][0]},
		{m[0][1], m[1][1], m[2][1], m[3][1]},
		{m[0][2], m[1][2], m[2][2], m[3][2]},
		{m[0][3], m[1][3], m[2][3], m[3][3]},
	}
}

// Inverse returns the inverse of m and false if m is singular.
func (m Mat4) Inverse() (Mat4, bool) {
	inv, ok := m.Matrix().Inverse()
	if !ok {
		return Mat4Identity(), false
	}
	return inv.Mat4(), true
}

// Matrix returns m as a general 4x4 Matrix.
func (m Mat4) Matrix() Matrix {
	out := NewMatrix(4, 4)
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			out.Set(i, j, m[i][j])
		}
	}
	return out
}

func Mat4Translation(translation Vec3) Mat4 {
	m := Mat4Identity()
	m[0][3] = translation.X
	m[1][3] = translation.Y
	m[2][3] = translation.Z
	return m
}

func Mat4Scale(scale Vec3) Mat4 {
	m := Mat4Identity()
	m[0][0] = scale.X
	m[1][1] = scale.Y
	m[2][2] = scale.Z
	return m
}

func Mat4RotationX(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{1, 0, 0, 0},
		{0, c, -s, 0},
		{0, s, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationY(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, 0, s, 0},
		{0, 1, 0, 0},
		{-s, 0, c, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationZ(angle float64) Mat4 {
	c, s := math.Cos(angle), math.Sin(angle)
	return Mat4{
		{c, -s, 0, 0},
		{s, c, 0, 0},
		{0, 0, 1, 0},
		{0, 0, 0, 1},
	}
}

func Mat4RotationAxis(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	c, s := math.Cos(angle), math.Sin(angle)
	t := 1 - c

	x, y, z := axis.X, axis.Y, axis.Z

	return Mat4{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y, 0},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x, 0},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c, 0},
		{0, 0, 0, 1},
	}
}

// Mat4Rotation builds a rotation from Euler angles in radians, applied
// Z first, then X, then Y.
func Mat4Rotation(euler Vec3) Mat4 {
	return Mat4RotationY(euler.Y).Mul(Mat4RotationX(euler.X)).Mul(Mat4RotationZ(euler.Z))
}

func Mat4TRS(translation, rotation, scale Vec3) Mat4 {
	return Mat4Translation(translation).Mul(Mat4Rotation(rotation)).Mul(Mat4Scale(scale))
}
