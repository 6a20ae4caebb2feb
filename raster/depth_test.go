package raster

import (
	"math"
	"testing"
)

func TestDepthBufferStartsEmpty(t *testing.T) {
	d := NewDepthBuffer(4, 3)
	for y := 0; y < 3; y++ {
		for x := 0; x < 4; x++ {
			if !math.IsInf(d.At(x, y), -1) {
				t.Fatalf("At(%d,%d) = %v, want -Inf", x, y, d.At(x, y))
			}
		}
	}
	if _, _, ok := d.Range(); ok {
		t.Error("empty buffer should have no range")
	}
}

func TestDepthBufferNearerWins(t *testing.T) {
	tests := []struct {
		name  string
		order []float64
	}{
		{"near first", []float64{0.5, 0.1}},
		{"far first", []float64{0.1, 0.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDepthBuffer(2, 2)
			for _, z := range tt.order {
				d.Test(1, 1, z)
			}
			if got := d.At(1, 1); got != 0.5 {
				t.Errorf("stored depth: got %v, want 0.5", got)
			}
		})
	}
}

func TestDepthBufferTiesReject(t *testing.T) {
	d := NewDepthBuffer(2, 2)
	if !d.Test(0, 0, 0.3) {
		t.Fatal("first write should pass")
	}
	if d.Test(0, 0, 0.3) {
		t.Error("equal depth should be rejected")
	}
	if d.Test(0, 0, 0.2) {
		t.Error("farther depth should be rejected")
	}
}

func TestDepthBufferReset(t *testing.T) {
	d := NewDepthBuffer(2, 2)
	d.Test(0, 1, 0.7)
	d.Test(1, 0, -0.2)
	lo, hi, ok := d.Range()
	if !ok || lo != -0.2 || hi != 0.7 {
		t.Errorf("Range: got %v %v %v", lo, hi, ok)
	}
	d.Reset()
	if !d.Test(0, 1, -0.9) {
		t.Error("after Reset any depth should pass")
	}
}

func TestDepthBufferOutOfRangePanics(t *testing.T) {
	d := NewDepthBuffer(3, 3)
	for _, p := range [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 3}} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("Test(%d,%d) should panic", p[0], p[1])
				}
			}()
			d.Test(p[0], p[1], 0)
		}()
	}
}
