package shader

import (
	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
	"soft-render/textures"
)

// TextureShader samples a texture at the interpolated texture coordinate
// and multiplies the texel by Tint.
type TextureShader struct {
	Base
	Texture *textures.Texture
	Tint    core.Color

	uvs [3]remath.Vec2
}

func NewTextureShader(tex *textures.Texture) *TextureShader {
	if tex == nil {
		panic("shader: NewTextureShader with nil texture")
	}
	return &TextureShader{Texture: tex, Tint: core.ColorWhite}
}

func (s *TextureShader) Vertex(in VertexInput, nth int) remath.Vec4 {
	checkCorner(nth)
	s.uvs[nth] = in.UV
	return s.Project(in.Position)
}

func (s *TextureShader) Fragment(frag raster.Fragment) {
	uv := blend2(frag.Bary, s.uvs)
	s.Put(frag.X, frag.Y, s.Texture.Sample(uv).Modulate(s.Tint))
}
