package raster

import (
	"fmt"
	"math"
)

// DepthBuffer keeps the nearest depth seen per pixel. Larger values are
// nearer to the camera.
type DepthBuffer struct {
	width, height int
	data          []float64
}

func NewDepthBuffer(width, height int) *DepthBuffer {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("raster: invalid depth buffer size %dx%d", width, height))
	}
	d := &DepthBuffer{
		width:  width,
		height: height,
		data:   make([]float64, width*height),
	}
	d.Reset()
	return d
}

func (d *DepthBuffer) Width() int  { return d.width }
func (d *DepthBuffer) Height() int { return d.height }

// Reset marks every pixel as empty.
func (d *DepthBuffer) Reset() {
	for i := range d.data {
		d.data[i] = math.Inf(-1)
	}
}

// Test stores z at (x, y) and reports true if z is strictly nearer than
// the stored value. Equal depths are rejected.
func (d *DepthBuffer) Test(x, y int, z float64) bool {
	i := d.index(x, y)
	if z > d.data[i] {
		d.data[i] = z
		return true
	}
	return false
}

// At returns the stored depth, -Inf for an untouched pixel.
func (d *DepthBuffer) At(x, y int) float64 {
	return d.data[d.index(x, y)]
}

func (d *DepthBuffer) index(x, y int) int {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		panic(fmt.Sprintf("raster: depth index (%d,%d) out of range %dx%d", x, y, d.width, d.height))
	}
	return y*d.width + x
}

// Range returns the smallest and largest finite depth stored. ok is false
// when nothing was written since the last Reset.
func (d *DepthBuffer) Range() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, z := range d.data {
		if math.IsInf(z, -1) {
			continue
		}
		lo = min(lo, z)
		hi = max(hi, z)
		ok = true
	}
	return lo, hi, ok
}
