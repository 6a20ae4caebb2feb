package pipeline

import (
	"math"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
	"soft-render/scene"
)

// DrawWireframe draws the edges of every triangle of mesh in color c. It
// neither reads nor writes the depth buffer and leaves the triangle
// counters of Stats alone; edges that reach the target are counted in
// Stats.Lines. Edges are clipped to the target before stepping. Triangles
// with a corner at w = 0 are skipped.
func (p *Pipeline) DrawWireframe(mesh scene.MeshProvider, c core.Color, sink core.PixelSink) {
	t := p.transforms
	mvp := t.Viewport.Mul(t.Projection).Mul(t.View).Mul(t.Model)
	plot := func(x, y int) { sink.Set(x, y, c) }
	maxX, maxY := float64(p.width-1), float64(p.height-1)

	for i := 0; i < mesh.TriangleCount(); i++ {
		face := mesh.Face(i)
		var pts [3][2]float64
		ok := true
		for k, corner := range face {
			v := mvp.MulVec(mesh.Position(corner.V).ToVec4(1))
			if math.Abs(v.W) < remath.Epsilon {
				ok = false
				break
			}
			pts[k] = [2]float64{v.X / v.W, v.Y / v.W}
		}
		if !ok {
			continue
		}
		for k := 0; k < 3; k++ {
			a, b := pts[k], pts[(k+1)%3]
			x0, y0, x1, y1, in := raster.ClipLine(a[0], a[1], b[0], b[1], 0, 0, maxX, maxY)
			if !in {
				continue
			}
			raster.DrawLine(round(x0), round(y0), round(x1), round(y1), plot)
			p.stats.Lines++
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }
