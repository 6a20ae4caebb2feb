package scene

import (
	stdmath "math"

	reMath "soft-render/math"
)

// Camera is a position/gaze/up camera with a symmetric view volume.
// Near and Far are positive distances along the gaze.
type Camera struct {
	Position reMath.Vec3
	Gaze     reMath.Vec3
	Up       reMath.Vec3

	FOV       float64 // vertical field of view in radians (perspective)
	NearPlane float64
	FarPlane  float64

	// Orthographic switches to a parallel projection whose view box is
	// OrthoHeight units tall.
	Orthographic bool
	OrthoHeight  float64
}

func NewCamera(fov, nearPlane, farPlane float64) *Camera {
	return &Camera{
		Position:  reMath.Vec3{X: 0, Y: 0, Z: 3},
		Gaze:      reMath.Vec3Back,
		Up:        reMath.Vec3Up,
		FOV:       fov,
		NearPlane: nearPlane,
		FarPlane:  farPlane,
	}
}

// LookAt points the gaze at target.
func (c *Camera) LookAt(target reMath.Vec3) {
	c.Gaze = target.Sub(c.Position)
}

func (c *Camera) GetViewMatrix() reMath.Mat4 {
	return reMath.Mat4View(c.Position, c.Gaze, c.Up)
}

// Volume returns the view box arguments for Mat4Projection at the given
// aspect ratio (width / height). near and far are camera-space z values,
// both negative.
func (c *Camera) Volume(aspect float64) (left, right, bottom, top, near, far float64) {
	near, far = -c.NearPlane, -c.FarPlane
	if c.Orthographic {
		top = c.OrthoHeight / 2
		right = top * aspect
		return -right, right, -top, top, near, far
	}
	left, right, bottom, top = reMath.FrustumExtents(c.FOV, aspect, c.NearPlane)
	return left, right, bottom, top, near, far
}

func (c *Camera) GetProjectionMatrix(aspect float64) reMath.Mat4 {
	l, r, b, t, n, f := c.Volume(aspect)
	return reMath.Mat4Projection(l, r, b, t, n, f, !c.Orthographic)
}

func (c *Camera) GetForward() reMath.Vec3 {
	return c.Gaze.Normalize()
}

func (c *Camera) GetRight() reMath.Vec3 {
	u, _, _ := reMath.CameraBasis(c.Gaze, c.Up)
	return u
}

// OrbitCamera is a specialized camera for orbiting around a target
type OrbitCamera struct {
	Camera
	Target   reMath.Vec3
	Distance float64
	Yaw      float64
	Pitch    float64
}

func NewOrbitCamera(target reMath.Vec3, distance, fov float64) *OrbitCamera {
	c := &OrbitCamera{
		Target:   target,
		Distance: distance,
		Yaw:      0,
		Pitch:    0.3,
	}
	c.Camera = *NewCamera(fov, 0.1, 1000.0)
	c.UpdatePosition()
	return c
}

func (c *OrbitCamera) UpdatePosition() {
	// Stay short of the poles where up and gaze become parallel.
	c.Pitch = min(max(c.Pitch, -1.5), 1.5)

	cosPitch, sinPitch := stdmath.Cos(c.Pitch), stdmath.Sin(c.Pitch)
	cosYaw, sinYaw := stdmath.Cos(c.Yaw), stdmath.Sin(c.Yaw)

	offset := reMath.Vec3{
		X: c.Distance * cosPitch * sinYaw,
		Y: c.Distance * sinPitch,
		Z: c.Distance * cosPitch * cosYaw,
	}

	c.Position = c.Target.Add(offset)
	c.Up = reMath.Vec3Up
	c.LookAt(c.Target)
}

func (c *OrbitCamera) Orbit(deltaYaw, deltaPitch float64) {
	c.Yaw += deltaYaw
	c.Pitch += deltaPitch
	c.UpdatePosition()
}

func (c *OrbitCamera) Zoom(delta float64) {
	c.Distance = max(c.Distance+delta, 0.1)
	c.UpdatePosition()
}

// Frame centres the orbit on the box lo..hi and backs off until the
// bounding sphere fits the vertical field of view. Near and far planes
// follow the sphere.
func (c *OrbitCamera) Frame(lo, hi reMath.Vec3) {
	c.Target = lo.Add(hi).Mul(0.5)
	radius := max(hi.Sub(lo).Length()/2, 1e-3)
	c.Distance = radius / stdmath.Sin(c.FOV/2)
	c.NearPlane = max(c.Distance-radius*1.5, c.Distance*0.01)
	c.FarPlane = c.Distance + radius*1.5
	c.OrthoHeight = radius * 2
	c.UpdatePosition()
}
