// Package shader defines the programmable stages of the software pipeline.
//
// A Shader transforms the three corners of a triangle in Vertex, keeping
// whatever per-triangle state it needs, and then colors each covered pixel
// in Fragment by blending that state with the fragment's barycentric
// weights. Fragment writes into the PixelSink registered for the current
// draw call.
package shader

import (
	"fmt"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
)

// Shader is the capability the pipeline drives for every triangle.
type Shader interface {
	// Bind sets the matrices for the next draw call.
	Bind(u Uniforms)
	// Vertex returns the screen-space position of corner nth (0, 1 or 2)
	// after the perspective divide. W keeps the clip-space w.
	Vertex(in VertexInput, nth int) remath.Vec4
	// Fragment colors one covered pixel of the current triangle.
	Fragment(frag raster.Fragment)
	Register(sink core.PixelSink)
	Unregister()
}

// Uniforms are the per-draw matrices.
type Uniforms struct {
	Model      remath.Mat4
	View       remath.Mat4
	Projection remath.Mat4
	Viewport   remath.Mat4
}

// DefaultUniforms returns identity matrices.
func DefaultUniforms() Uniforms {
	id := remath.Mat4Identity()
	return Uniforms{Model: id, View: id, Projection: id, Viewport: id}
}

// VertexInput is one triangle corner resolved from the mesh pools.
type VertexInput struct {
	Position remath.Vec3
	UV       remath.Vec2
	Normal   remath.Vec3
}

// Base carries the composed transform and the registered sink. Concrete
// shaders embed it.
type Base struct {
	uniforms Uniforms
	mvp      remath.Mat4
	sink     core.PixelSink
}

func (b *Base) Bind(u Uniforms) {
	b.uniforms = u
	b.mvp = u.Viewport.Mul(u.Projection).Mul(u.View).Mul(u.Model)
}

// Uniforms returns the matrices of the current draw call.
func (b *Base) Uniforms() Uniforms { return b.uniforms }

// Register binds the sink Fragment writes into. The shader does not own it.
func (b *Base) Register(sink core.PixelSink) { b.sink = sink }

func (b *Base) Unregister() { b.sink = nil }

// Sink returns the registered sink, or nil.
func (b *Base) Sink() core.PixelSink { return b.sink }

// Project applies Viewport·Projection·View·Model to p and divides x, y and
// z by w.
func (b *Base) Project(p remath.Vec3) remath.Vec4 {
	v := b.mvp.MulVec(p.ToVec4(1))
	if v.W < remath.Epsilon && v.W > -remath.Epsilon {
		panic(fmt.Sprintf("shader: vertex %v projects to w=%g", p, v.W))
	}
	return remath.Vec4{X: v.X / v.W, Y: v.Y / v.W, Z: v.Z / v.W, W: v.W}
}

// Put writes c at (x, y) into the registered sink.
func (b *Base) Put(x, y int, c core.Color) {
	if b.sink == nil {
		panic("shader: fragment written with no registered sink")
	}
	b.sink.Set(x, y, c)
}

func checkCorner(nth int) {
	if nth < 0 || nth > 2 {
		panic(fmt.Sprintf("shader: corner index %d out of range [0,2]", nth))
	}
}

func blend2(w remath.Vec3, a [3]remath.Vec2) remath.Vec2 {
	return a[0].Mul(w.X).Add(a[1].Mul(w.Y)).Add(a[2].Mul(w.Z))
}

func blend1(w remath.Vec3, a [3]float64) float64 {
	return a[0]*w.X + a[1]*w.Y + a[2]*w.Z
}
