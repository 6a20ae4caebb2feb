package shader

import (
	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
	"soft-render/textures"
)

// GouraudShader lights each corner with a point light and interpolates
// the resulting intensity across the triangle. The lit surface color is
// Color, multiplied by the texture when one is set.
type GouraudShader struct {
	Base
	LightPosition  remath.Vec3 // world space
	LightIntensity float64
	Ambient        float64
	Color          core.Color
	Texture        *textures.Texture // optional

	normalMatrix remath.Mat4
	intensity    [3]float64
	uvs          [3]remath.Vec2
}

func NewGouraudShader(lightPos remath.Vec3, intensity, ambient float64) *GouraudShader {
	return &GouraudShader{
		LightPosition:  lightPos,
		LightIntensity: intensity,
		Ambient:        ambient,
		Color:          core.ColorWhite,
		normalMatrix:   remath.Mat4Identity(),
	}
}

// Bind also derives the normal matrix, the inverse transpose of Model.
func (s *GouraudShader) Bind(u Uniforms) {
	s.Base.Bind(u)
	inv, ok := u.Model.Inverse()
	if !ok {
		inv = remath.Mat4Identity()
	}
	s.normalMatrix = inv.Transpose()
}

func (s *GouraudShader) Vertex(in VertexInput, nth int) remath.Vec4 {
	checkCorner(nth)
	world := s.Uniforms().Model.MulPoint(in.Position)
	n := s.normalMatrix.MulDir(in.Normal).Normalize()
	l := s.LightPosition.Sub(world).Normalize()
	s.intensity[nth] = s.Ambient + s.LightIntensity*max(n.Dot(l), 0)
	s.uvs[nth] = in.UV
	return s.Project(in.Position)
}

func (s *GouraudShader) Fragment(frag raster.Fragment) {
	c := s.Color
	if s.Texture != nil {
		c = s.Texture.Sample(blend2(frag.Bary, s.uvs)).Modulate(c)
	}
	i := min(max(blend1(frag.Bary, s.intensity), 0), 1)
	s.Put(frag.X, frag.Y, c.Scale(i))
}
