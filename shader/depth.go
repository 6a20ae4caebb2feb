package shader

import (
	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
)

// DepthShader writes the fragment depth as a gray level: the far plane
// (-1) is black and the near plane (+1) white.
type DepthShader struct {
	Base
}

func NewDepthShader() *DepthShader {
	return &DepthShader{}
}

func (s *DepthShader) Vertex(in VertexInput, nth int) remath.Vec4 {
	checkCorner(nth)
	return s.Project(in.Position)
}

func (s *DepthShader) Fragment(frag raster.Fragment) {
	g := uint8(min(max((frag.Depth+1)/2, 0), 1)*255 + 0.5)
	s.Put(frag.X, frag.Y, core.NewColor(g, g, g, 255))
}
