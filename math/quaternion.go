package math

import "math"

type Quaternion struct {
	X, Y, Z, W float64
}

func QuaternionIdentity() Quaternion {
	return Quaternion{X: 0, Y: 0, Z: 0, W: 1}
}

func NewQuaternion(x, y, z, w float64) Quaternion {
	return Quaternion{X: x, Y: y, Z: z, W: w}
}

func QuaternionFromAxisAngle(axis Vec3, angle float64) Quaternion {
	halfAngle := angle / 2
	s := math.Sin(halfAngle)
	c := math.Cos(halfAngle)

	axis = axis.Normalize()
	return Quaternion{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuaternionFromEuler matches Mat4Rotation: Z first, then X, then Y.
func QuaternionFromEuler(euler Vec3) Quaternion {
	qy := QuaternionFromAxisAngle(Vec3Up, euler.Y)
	qx := QuaternionFromAxisAngle(Vec3Right, euler.X)
	qz := QuaternionFromAxisAngle(Vec3Front, euler.Z)
	return qy.Mul(qx).Mul(qz)
}

func (q Quaternion) Mul(other Quaternion) Quaternion {
	return Quaternion{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

func (q Quaternion) Normalize() Quaternion {
	length := math.Sqrt(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)
	if length < Epsilon {
		return q
	}
	invLength := 1 / length
	return Quaternion{
		X: q.X * invLength,
		Y: q.Y * invLength,
		Z: q.Z * invLength,
		W: q.W * invLength,
	}
}

func (q Quaternion) Conjugate() Quaternion {
	return Quaternion{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W}
}

func (q Quaternion) RotateVector(v Vec3) Vec3 {
	qVec := Vec3{X: q.X, Y: q.Y, Z: q.Z}
	t := qVec.Cross(v).Mul(2)
	return v.Add(t.Mul(q.W)).Add(qVec.Cross(t))
}

func (q Quaternion) ToMat4() Mat4 {
	xx := q.X * q.X
	yy := q.Y * q.Y
	zz := q.Z * q.Z
	xy := q.X * q.Y
	xz := q.X * q.Z
	yz := q.Y * q.Z
	wx := q.W * q.X
	wy := q.W * q.Y
	wz := q.W * q.Z

	return Mat4{
		{1 - 2*(yy+zz), 2 * (xy - wz), 2 * (xz + wy), 0},
		{2 * (xy + wz), 1 - 2*(xx+zz), 2 * (yz - wx), 0},
		{2 * (xz - wy), 2 * (yz + wx), 1 - 2*(xx+yy), 0},
		{0, 0, 0, 1},
	}
}
