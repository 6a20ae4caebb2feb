package math

import (
	"fmt"
	"math"
)

// Mat4View builds the world-to-camera matrix for a camera at pos looking
// along gaze. The camera basis is right-handed and the camera looks down
// its local -z axis:
//
//	w = normalize(-gaze)
//	u = normalize(up x w)
//	v = w x u
//
// It panics when up is parallel to gaze or either is zero.
func Mat4View(pos, gaze, up Vec3) Mat4 {
	u, v, w := CameraBasis(gaze, up)
	rotation := Mat4{
		{u.X, u.Y, u.Z, 0},
		{v.X, v.Y, v.Z, 0},
		{w.X, w.Y, w.Z, 0},
		{0, 0, 0, 1},
	}
	return rotation.Mul(Mat4Translation(pos.Negate()))
}

// CameraBasis returns the (u, v, w) axes used by Mat4View.
func CameraBasis(gaze, up Vec3) (u, v, w Vec3) {
	w = gaze.Negate().Normalize()
	side := up.Cross(w)
	if side.Length() < Epsilon {
		panic(fmt.Sprintf("math: degenerate camera basis gaze=%v up=%v", gaze, up))
	}
	u = side.Normalize()
	v = w.Cross(u)
	return u, v, w
}

// Mat4Projection maps the view box [left,right]x[bottom,top]x[far,near] to
// the canonical cube [-1,1]^3. near and far are z coordinates in camera
// space, both negative with near closer to zero; near maps to z=+1 and far
// to z=-1, so larger depth means closer to the camera.
//
// With perspective set, the box is first squeezed by the
// perspective-to-orthographic matrix and the result must be divided by w.
func Mat4Projection(left, right, bottom, top, near, far float64, perspective bool) Mat4 {
	if math.Abs(right-left) < Epsilon || math.Abs(top-bottom) < Epsilon || math.Abs(near-far) < Epsilon {
		panic(fmt.Sprintf("math: degenerate projection volume l=%g r=%g b=%g t=%g n=%g f=%g",
			left, right, bottom, top, near, far))
	}

	ortho := Mat4Identity()
	ortho[0][0] = 2 / (right - left)
	ortho[0][3] = -(right + left) / (right - left)
	ortho[1][1] = 2 / (top - bottom)
	ortho[1][3] = -(top + bottom) / (top - bottom)
	ortho[2][2] = 2 / (near - far)
	ortho[2][3] = -(near + far) / (near - far)
	if !perspective {
		return ortho
	}

	persp := Mat4{
		{near, 0, 0, 0},
		{0, near, 0, 0},
		{0, 0, near + far, -near * far},
		{0, 0, 1, 0},
	}
	return ortho.Mul(persp)
}

// Mat4Viewport maps x,y in [-1,1] to pixel space with pixel centers on
// integer coordinates: x' = x*w/2 + w/2 - 0.5. z and w pass through.
func Mat4Viewport(width, height int) Mat4 {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("math: invalid viewport %dx%d", width, height))
	}
	w, h := float64(width), float64(height)
	m := Mat4Identity()
	m[0][0] = w * 0.5
	m[0][3] = w*0.5 - 0.5
	m[1][1] = h * 0.5
	m[1][3] = h*0.5 - 0.5
	return m
}

// FrustumExtents returns the near-plane extents of a symmetric frustum
// with vertical field of view fovY (radians) at distance |near|.
func FrustumExtents(fovY, aspect, near float64) (left, right, bottom, top float64) {
	top = math.Abs(near) * math.Tan(fovY/2)
	right = top * aspect
	return -right, right, -top, top
}
