package raster

import (
	"fmt"
	"math"

	remath "soft-render/math"
)

// Result tells what Rasterize did with a triangle.
type Result int

const (
	Drawn Result = iota
	Degenerate
	Culled
)

func (r Result) String() string {
	switch r {
	case Drawn:
		return "drawn"
	case Degenerate:
		return "degenerate"
	case Culled:
		return "culled"
	}
	return fmt.Sprintf("Result(%d)", int(r))
}

// Rasterizer scan-converts triangles into a width x height target.
type Rasterizer struct {
	width, height int
}

func NewRasterizer(width, height int) *Rasterizer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid target size %dx%d", width, height))
	}
	return &Rasterizer{width: width, height: height}
}

func (r *Rasterizer) Width() int  { return r.width }
func (r *Rasterizer) Height() int { return r.height }

// Rasterize calls emit for every covered pixel of tri inside the target.
// Fragments are visited row by row. Degenerate and clockwise triangles
// emit nothing.
func (r *Rasterizer) Rasterize(tri Triangle, emit func(Fragment)) Result {
	area := tri.Area2()
	if math.Abs(area) < AreaEpsilon {
		return Degenerate
	}
	if area < 0 {
		return Culled
	}

	minX, minY, maxX, maxY := tri.Bounds()
	minX = max(minX, 0)
	minY = max(minY, 0)
	maxX = min(maxX, r.width-1)
	maxY = min(maxY, r.height-1)

	p0 := remath.Vec2{X: tri[0].X, Y: tri[0].Y}
	p1 := remath.Vec2{X: tri[1].X, Y: tri[1].Y}
	p2 := remath.Vec2{X: tri[2].X, Y: tri[2].Y}

	for y := minY; y <= maxY; y++ {
		for x := minX; x <= maxX; x++ {
			w := weights(p0, p1, p2, area, float64(x), float64(y))
			if !inside(w) {
				continue
			}
			emit(Fragment{
				X:     x,
				Y:     y,
				Depth: w.X*tri[0].Z + w.Y*tri[1].Z + w.Z*tri[2].Z,
				Bary:  w,
			})
		}
	}
	return Drawn
}
