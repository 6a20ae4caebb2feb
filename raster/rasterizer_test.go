package raster

import (
	"math"
	"testing"

	remath "soft-render/math"
)

func screenTri(x0, y0, x1, y1, x2, y2 float64) Triangle {
	return Triangle{
		{X: x0, Y: y0, Z: 0, W: 1},
		{X: x1, Y: y1, Z: 0, W: 1},
		{X: x2, Y: y2, Z: 0, W: 1},
	}
}

func collect(r *Rasterizer, tri Triangle) (map[[2]int]Fragment, Result) {
	frags := make(map[[2]int]Fragment)
	res := r.Rasterize(tri, func(f Fragment) {
		frags[[2]int{f.X, f.Y}] = f
	})
	return frags, res
}

func TestBarycentricInside(t *testing.T) {
	p0 := remath.NewVec2(0, 0)
	p1 := remath.NewVec2(10, 0)
	p2 := remath.NewVec2(0, 10)

	tests := []struct {
		name   string
		x, y   float64
		inside bool
	}{
		{"interior", 1, 1, true},
		{"outside hypotenuse", 9, 9, false},
		{"vertex", 0, 0, true},
		{"on edge", 5, 0, true},
		{"on hypotenuse", 5, 5, true},
		{"left of triangle", -1, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, ok := Barycentric(p0, p1, p2, tt.x, tt.y)
			if ok != tt.inside {
				t.Errorf("Barycentric(%v,%v) inside = %v, want %v (weights %v)", tt.x, tt.y, ok, tt.inside, w)
			}
			if sum := w.X + w.Y + w.Z; math.Abs(sum-1) > 1e-12 {
				t.Errorf("weights should sum to 1, got %v", sum)
			}
		})
	}
}

func TestBarycentricWeights(t *testing.T) {
	p0 := remath.NewVec2(0, 0)
	p1 := remath.NewVec2(10, 0)
	p2 := remath.NewVec2(0, 10)

	w, _ := Barycentric(p0, p1, p2, 10, 0)
	if w != (remath.Vec3{X: 0, Y: 1, Z: 0}) {
		t.Errorf("weights at p1: got %v", w)
	}
	w, _ = Barycentric(p0, p1, p2, 2, 3)
	if math.Abs(w.X-0.5) > 1e-12 || math.Abs(w.Y-0.2) > 1e-12 || math.Abs(w.Z-0.3) > 1e-12 {
		t.Errorf("weights at (2,3): got %v", w)
	}
}

func TestBarycentricDegenerate(t *testing.T) {
	w, ok := Barycentric(remath.NewVec2(0, 0), remath.NewVec2(5, 0), remath.NewVec2(10, 0), 5, 0)
	if ok || w != (remath.Vec3{}) {
		t.Errorf("collinear triangle: got %v, %v", w, ok)
	}
}

func TestRasterizeCoverage(t *testing.T) {
	r := NewRasterizer(20, 20)
	frags, res := collect(r, screenTri(0, 0, 10, 0, 0, 10))
	if res != Drawn {
		t.Fatalf("result: got %v", res)
	}
	if _, ok := frags[[2]int{1, 1}]; !ok {
		t.Error("pixel (1,1) should be covered")
	}
	if _, ok := frags[[2]int{9, 9}]; ok {
		t.Error("pixel (9,9) should not be covered")
	}
	// x+y <= 10 on the 11x11 grid.
	if len(frags) != 66 {
		t.Errorf("fragment count: got %d, want 66", len(frags))
	}
	for _, f := range frags {
		if sum := f.Bary.X + f.Bary.Y + f.Bary.Z; math.Abs(sum-1) > 1e-12 {
			t.Fatalf("fragment %v weights sum %v", f, sum)
		}
	}
}

func TestRasterizeDegenerate(t *testing.T) {
	r := NewRasterizer(20, 20)
	frags, res := collect(r, screenTri(0, 0, 5, 0, 10, 0))
	if res != Degenerate {
		t.Errorf("result: got %v, want degenerate", res)
	}
	if len(frags) != 0 {
		t.Errorf("collinear triangle wrote %d fragments", len(frags))
	}

	frags, res = collect(r, screenTri(3, 3, 3, 3, 3, 3))
	if res != Degenerate || len(frags) != 0 {
		t.Errorf("point triangle: %v, %d fragments", res, len(frags))
	}
}

func TestRasterizeCullsClockwise(t *testing.T) {
	r := NewRasterizer(20, 20)
	frags, res := collect(r, screenTri(0, 0, 0, 10, 10, 0))
	if res != Culled {
		t.Errorf("result: got %v, want culled", res)
	}
	if len(frags) != 0 {
		t.Errorf("clockwise triangle wrote %d fragments", len(frags))
	}
}

func TestRasterizeClampsToTarget(t *testing.T) {
	r := NewRasterizer(8, 4)
	frags, _ := collect(r, screenTri(-50, -50, 100, -50, -50, 100))
	if len(frags) != 32 {
		t.Errorf("covering triangle: got %d fragments, want 32", len(frags))
	}
	for key := range frags {
		if key[0] < 0 || key[0] >= 8 || key[1] < 0 || key[1] >= 4 {
			t.Fatalf("fragment outside target: %v", key)
		}
	}
}

func TestRasterizeInterpolatesDepth(t *testing.T) {
	r := NewRasterizer(20, 20)
	tri := Triangle{
		{X: 0, Y: 0, Z: 1, W: 1},
		{X: 10, Y: 0, Z: 0, W: 1},
		{X: 0, Y: 10, Z: 0, W: 1},
	}
	frags, _ := collect(r, tri)
	if f := frags[[2]int{0, 0}]; f.Depth != 1 {
		t.Errorf("depth at p0: got %v", f.Depth)
	}
	if f := frags[[2]int{5, 0}]; math.Abs(f.Depth-0.5) > 1e-12 {
		t.Errorf("depth at (5,0): got %v", f.Depth)
	}
}

func TestSharedEdgeCoveredByBoth(t *testing.T) {
	r := NewRasterizer(20, 20)
	a, _ := collect(r, screenTri(0, 0, 10, 0, 0, 10))
	b, _ := collect(r, screenTri(10, 0, 10, 10, 0, 10))
	if _, ok := a[[2]int{5, 5}]; !ok {
		t.Error("first triangle should cover its edge pixel (5,5)")
	}
	if _, ok := b[[2]int{5, 5}]; !ok {
		t.Error("second triangle should cover its edge pixel (5,5)")
	}
}

func TestNewRasterizerPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for zero width")
		}
	}()
	NewRasterizer(0, 10)
}

func BenchmarkRasterize(b *testing.B) {
	r := NewRasterizer(512, 512)
	tri := screenTri(10, 10, 500, 30, 40, 480)
	n := 0
	for i := 0; i < b.N; i++ {
		r.Rasterize(tri, func(Fragment) { n++ })
	}
}
