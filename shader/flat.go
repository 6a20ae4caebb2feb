package shader

import (
	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
)

// FlatShader fills every fragment with one color.
type FlatShader struct {
	Base
	Color core.Color
}

func NewFlatShader(c core.Color) *FlatShader {
	return &FlatShader{Color: c}
}

func (s *FlatShader) Vertex(in VertexInput, nth int) remath.Vec4 {
	checkCorner(nth)
	return s.Project(in.Position)
}

func (s *FlatShader) Fragment(frag raster.Fragment) {
	s.Put(frag.X, frag.Y, s.Color)
}
