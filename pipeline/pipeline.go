// Package pipeline drives meshes through the transform stage, the
// rasterizer, the depth test and a shader into a pixel sink.
package pipeline

import (
	"fmt"
	"log/slog"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/raster"
	"soft-render/scene"
	"soft-render/shader"
)

// Transforms is the matrix set applied to every vertex:
// Viewport · Projection · View · Model.
type Transforms struct {
	Model      remath.Mat4
	View       remath.Mat4
	Projection remath.Mat4
	Viewport   remath.Mat4
}

// Stats counts the work done since the last Begin.
type Stats struct {
	Submitted        int // triangles handed to the rasterizer
	Drawn            int
	Degenerate       int
	Culled           int // clockwise on screen
	FragmentsTested  int
	FragmentsWritten int
	Lines            int // wireframe edges drawn
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger for frame statistics. The default is
// core.Logger().
func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

// WithDepthTest turns the depth test on or off. It is on by default.
func WithDepthTest(enabled bool) Option {
	return func(p *Pipeline) { p.depthTest = enabled }
}

// WithProgress registers a callback invoked after every triangle of a
// Draw call with the number of triangles done and the mesh total.
func WithProgress(fn func(done, total int)) Option {
	return func(p *Pipeline) { p.progress = fn }
}

// Pipeline renders into a fixed-size target. It owns the depth buffer and
// is not safe for concurrent use.
type Pipeline struct {
	width, height int
	transforms    Transforms
	rasterizer    *raster.Rasterizer
	depth         *raster.DepthBuffer
	depthTest     bool
	stats         Stats
	progress      func(done, total int)
	log           *slog.Logger
}

// New creates a pipeline for a width x height target. The model, view and
// projection matrices start as identity and the viewport covers the target.
func New(width, height int, opts ...Option) *Pipeline {
	if width <= 0 || height <= 0 {
		panic(fmt.Sprintf("pipeline: invalid target size %dx%d", width, height))
	}
	p := &Pipeline{
		width:      width,
		height:     height,
		rasterizer: raster.NewRasterizer(width, height),
		depth:      raster.NewDepthBuffer(width, height),
		depthTest:  true,
		transforms: Transforms{
			Model:      remath.Mat4Identity(),
			View:       remath.Mat4Identity(),
			Projection: remath.Mat4Identity(),
			Viewport:   remath.Mat4Viewport(width, height),
		},
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = core.Logger()
	}
	return p
}

func (p *Pipeline) Width() int  { return p.width }
func (p *Pipeline) Height() int { return p.height }

// Depth returns the depth buffer of the current frame.
func (p *Pipeline) Depth() *raster.DepthBuffer { return p.depth }

func (p *Pipeline) Transforms() Transforms { return p.transforms }

// Stats returns the counters accumulated since the last Begin.
func (p *Pipeline) Stats() Stats { return p.stats }

func (p *Pipeline) SetTransforms(t Transforms) { p.transforms = t }

func (p *Pipeline) SetModel(m remath.Mat4) { p.transforms.Model = m }

// SetCamera places the camera at pos looking along gaze.
func (p *Pipeline) SetCamera(pos, gaze, up remath.Vec3) {
	p.transforms.View = remath.Mat4View(pos, gaze, up)
}

// SetProjection sets the view volume. near and far are negative camera
// space z values; see remath.Mat4Projection.
func (p *Pipeline) SetProjection(left, right, bottom, top, near, far float64, perspective bool) {
	p.transforms.Projection = remath.Mat4Projection(left, right, bottom, top, near, far, perspective)
}

func (p *Pipeline) SetViewport(width, height int) {
	p.transforms.Viewport = remath.Mat4Viewport(width, height)
}

// Begin starts a frame: the depth buffer is cleared and Stats reset.
func (p *Pipeline) Begin() {
	p.depth.Reset()
	p.stats = Stats{}
	p.log.Debug("frame begin", "width", p.width, "height", p.height)
}

// End finishes a frame and returns its statistics.
func (p *Pipeline) End() Stats {
	s := p.stats
	p.log.Debug("frame end",
		"submitted", s.Submitted,
		"drawn", s.Drawn,
		"degenerate", s.Degenerate,
		"culled", s.Culled,
		"fragments_tested", s.FragmentsTested,
		"fragments_written", s.FragmentsWritten,
		"lines", s.Lines,
	)
	return s
}

func (p *Pipeline) uniforms() shader.Uniforms {
	t := p.transforms
	return shader.Uniforms{Model: t.Model, View: t.View, Projection: t.Projection, Viewport: t.Viewport}
}

// Draw renders every triangle of mesh with s into sink. The sink is
// registered with the shader for the duration of the call only.
func (p *Pipeline) Draw(mesh scene.MeshProvider, s shader.Shader, sink core.PixelSink) {
	s.Bind(p.uniforms())
	s.Register(sink)
	defer s.Unregister()

	emit := func(f raster.Fragment) {
		p.stats.FragmentsTested++
		if p.depthTest && !p.depth.Test(f.X, f.Y, f.Depth) {
			return
		}
		s.Fragment(f)
		p.stats.FragmentsWritten++
	}

	total := mesh.TriangleCount()
	for i := 0; i < total; i++ {
		face := mesh.Face(i)
		var tri raster.Triangle
		for k, c := range face {
			tri[k] = s.Vertex(shader.VertexInput{
				Position: mesh.Position(c.V),
				UV:       mesh.UV(c.VT),
				Normal:   mesh.Normal(c.VN),
			}, k)
		}

		p.stats.Submitted++
		switch p.rasterizer.Rasterize(tri, emit) {
		case raster.Drawn:
			p.stats.Drawn++
		case raster.Degenerate:
			p.stats.Degenerate++
		case raster.Culled:
			p.stats.Culled++
		}
		if p.progress != nil {
			p.progress(i+1, total)
		}
	}
}
