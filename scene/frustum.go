package scene

import "soft-render/math"

// Plane represents a half-space: Normal·p + D >= 0 is inside.
type Plane struct {
	Normal math.Vec3
	D      float64
}

// planeAt builds the plane through point with the given normal.
func planeAt(point, normal math.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// DistanceTo returns the signed distance from a point to the plane.
// Positive means on the "inside" (same side as Normal).
func (p Plane) DistanceTo(pt math.Vec3) float64 {
	return p.Normal.Dot(pt) + p.D
}

// Frustum holds the six bounding planes of a view volume in world space.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far
}

// Frustum returns the world-space view volume of the camera at the given
// aspect ratio.
func (c *Camera) Frustum(aspect float64) Frustum {
	u, v, w := math.CameraBasis(c.Gaze, c.Up)
	forward := w.Negate()
	l, r, b, t, _, _ := c.Volume(aspect)
	near, far := c.NearPlane, c.FarPlane

	var f Frustum
	f.Planes[4] = planeAt(c.Position.Add(forward.Mul(near)), forward)
	f.Planes[5] = planeAt(c.Position.Add(forward.Mul(far)), forward.Negate())

	if c.Orthographic {
		f.Planes[0] = planeAt(c.Position.Add(u.Mul(l)), u)
		f.Planes[1] = planeAt(c.Position.Add(u.Mul(r)), u.Negate())
		f.Planes[2] = planeAt(c.Position.Add(v.Mul(b)), v)
		f.Planes[3] = planeAt(c.Position.Add(v.Mul(t)), v.Negate())
		return f
	}

	// Each side plane passes through the eye and one edge of the near
	// rectangle; the normal is flipped to face the view axis.
	inside := c.Position.Add(forward.Mul((near + far) / 2))
	side := func(edge, along math.Vec3) Plane {
		p := planeAt(c.Position, edge.Cross(along))
		if p.DistanceTo(inside) < 0 {
			p = Plane{Normal: p.Normal.Negate(), D: -p.D}
		}
		return p
	}
	center := forward.Mul(near)
	f.Planes[0] = side(center.Add(u.Mul(l)), v)
	f.Planes[1] = side(center.Add(u.Mul(r)), v)
	f.Planes[2] = side(center.Add(v.Mul(b)), u)
	f.Planes[3] = side(center.Add(v.Mul(t)), u)
	return f
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max math.Vec3
}

// IntersectsFrustum returns false if the AABB is completely outside the frustum.
// Uses the "n-vertex" test: for each plane, check if the "positive vertex"
// (the corner most aligned with the plane normal) is on the outside.
func (box AABB) IntersectsFrustum(f *Frustum) bool {
	for i := 0; i < 6; i++ {
		p := f.Planes[i]
		px := box.Max.X
		if p.Normal.X < 0 {
			px = box.Min.X
		}
		py := box.Max.Y
		if p.Normal.Y < 0 {
			py = box.Min.Y
		}
		pz := box.Max.Z
		if p.Normal.Z < 0 {
			pz = box.Min.Z
		}
		if p.DistanceTo(math.Vec3{X: px, Y: py, Z: pz}) < 0 {
			return false
		}
	}
	return true
}

// ComputeAABB computes the world-space AABB for a mesh transformed by worldMatrix.
func ComputeAABB(mesh *Mesh, worldMatrix math.Mat4) AABB {
	lo, hi, ok := mesh.Bounds()
	if !ok {
		return AABB{}
	}
	return TransformAABB(AABB{Min: lo, Max: hi}, worldMatrix)
}

// TransformAABB transforms a box by a matrix by testing all 8 corners.
func TransformAABB(local AABB, m math.Mat4) AABB {
	mn, mx := local.Min, local.Max
	corners := [8]math.Vec3{
		{X: mn.X, Y: mn.Y, Z: mn.Z},
		{X: mx.X, Y: mn.Y, Z: mn.Z},
		{X: mn.X, Y: mx.Y, Z: mn.Z},
		{X: mx.X, Y: mx.Y, Z: mn.Z},
		{X: mn.X, Y: mn.Y, Z: mx.Z},
		{X: mx.X, Y: mn.Y, Z: mx.Z},
		{X: mn.X, Y: mx.Y, Z: mx.Z},
		{X: mx.X, Y: mx.Y, Z: mx.Z},
	}
	first := m.MulPoint(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		wp := m.MulPoint(c)
		out.Min = math.Vec3{X: min(out.Min.X, wp.X), Y: min(out.Min.Y, wp.Y), Z: min(out.Min.Z, wp.Z)}
		out.Max = math.Vec3{X: max(out.Max.X, wp.X), Y: max(out.Max.Y, wp.Y), Z: max(out.Max.Z, wp.Z)}
	}
	return out
}
