package raster

import "math"

// DrawLine plots the pixels of the segment (x0,y0)-(x1,y1) with
// Bresenham's algorithm. Both end points are plotted. Callers clip long
// segments with ClipLine first; DrawLine steps over every pixel.
func DrawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	steep := abs(y1-y0) > abs(x1-x0)
	if steep {
		x0, y0 = y0, x0
		x1, y1 = y1, x1
	}
	if x0 > x1 {
		x0, x1 = x1, x0
		y0, y1 = y1, y0
	}

	dx := x1 - x0
	dy := abs(y1 - y0)
	step := 1
	if y1 < y0 {
		step = -1
	}

	err := 0
	y := y0
	for x := x0; x <= x1; x++ {
		if steep {
			plot(y, x)
		} else {
			plot(x, y)
		}
		err += 2 * dy
		if err > dx {
			y += step
			err -= 2 * dx
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ClipLine clips the segment (x0,y0)-(x1,y1) to the rectangle
// [minX,maxX]x[minY,maxY] with the Liang-Barsky algorithm. ok is false
// when no part of the segment lies inside or a coordinate is not finite.
func ClipLine(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (cx0, cy0, cx1, cy1 float64, ok bool) {
	for _, c := range [4]float64{x0, y0, x1, y1} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return 0, 0, 0, 0, false
		}
	}

	dx, dy := x1-x0, y1-y0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - minX, maxX - x0, y0 - minY, maxY - y0}
	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, r)
		} else {
			if r < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, r)
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, true
}
