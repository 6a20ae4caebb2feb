package raster

import (
	"math"

	remath "soft-render/math"
)

// AreaEpsilon is the smallest doubled signed area a triangle may have
// before it is treated as degenerate.
const AreaEpsilon = 1e-9

// Triangle holds three vertices after the perspective divide: x and y are
// pixel coordinates, z is depth (larger is nearer), w is the clip-space w.
type Triangle [3]remath.Vec4

// Fragment is one covered pixel of a triangle.
type Fragment struct {
	X, Y  int
	Depth float64
	// Bary holds the weights of the three vertices, in order. They sum to 1.
	Bary remath.Vec3
}

// Area2 returns twice the signed area of the triangle projected on the
// screen. It is positive for counter-clockwise vertex order.
func (t Triangle) Area2() float64 {
	return edge(t[0].X, t[0].Y, t[1].X, t[1].Y, t[2].X, t[2].Y)
}

// Bounds returns the integer bounding box floor(min)..ceil(max) of the
// triangle, without clamping.
func (t Triangle) Bounds() (minX, minY, maxX, maxY int) {
	minX = int(math.Floor(min(t[0].X, t[1].X, t[2].X)))
	minY = int(math.Floor(min(t[0].Y, t[1].Y, t[2].Y)))
	maxX = int(math.Ceil(max(t[0].X, t[1].X, t[2].X)))
	maxY = int(math.Ceil(max(t[0].Y, t[1].Y, t[2].Y)))
	return
}

// edge is the 2D cross product (b-a) x (p-a).
func edge(ax, ay, bx, by, px, py float64) float64 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

// Barycentric returns the weights of point (x, y) with respect to the
// triangle p0, p1, p2 and whether the point is covered. Degenerate
// triangles report (zero, false).
func Barycentric(p0, p1, p2 remath.Vec2, x, y float64) (remath.Vec3, bool) {
	area := edge(p0.X, p0.Y, p1.X, p1.Y, p2.X, p2.Y)
	if math.Abs(area) < AreaEpsilon {
		return remath.Vec3{}, false
	}
	w := weights(p0, p1, p2, area, x, y)
	return w, inside(w)
}

func weights(p0, p1, p2 remath.Vec2, area, x, y float64) remath.Vec3 {
	return remath.Vec3{
		X: edge(p1.X, p1.Y, p2.X, p2.Y, x, y) / area,
		Y: edge(p2.X, p2.Y, p0.X, p0.Y, x, y) / area,
		Z: edge(p0.X, p0.Y, p1.X, p1.Y, x, y) / area,
	}
}

func inside(w remath.Vec3) bool {
	return w.X >= 0 && w.Y >= 0 && w.Z >= 0
}
