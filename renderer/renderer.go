// Package renderer renders scenes and render jobs with the software
// pipeline.
package renderer

import (
	"errors"
	"fmt"

	"soft-render/core"
	"soft-render/pipeline"
	"soft-render/scene"
	"soft-render/shader"
	"soft-render/tga"
)

// RenderEngine draws a scene graph into an in-memory image.
type RenderEngine struct {
	Scene          *scene.Scene
	FrustumCulling bool // skip nodes whose bounds are outside the camera volume
	Wireframe      bool // overlay triangle edges
	WireframeColor core.Color
	Background     core.Color

	pipe     *pipeline.Pipeline
	pipeOpts []pipeline.Option
	target   *tga.Image
	shaders  map[*scene.Node]shader.Shader

	// Per-frame stats (populated during Render)
	lastObjects int
	lastCulled  int
	lastStats   pipeline.Stats
}

// NewRenderEngine creates an engine with a width x height target in the
// given TGA format. opts configure the underlying pipeline.
func NewRenderEngine(width, height int, format tga.Format, opts ...pipeline.Option) *RenderEngine {
	return &RenderEngine{
		FrustumCulling: true,
		WireframeColor: core.ColorWhite,
		Background:     core.ColorBlack,
		pipe:           pipeline.New(width, height, opts...),
		pipeOpts:       opts,
		target:         tga.New(width, height, format),
		shaders:        make(map[*scene.Node]shader.Shader),
	}
}

func (re *RenderEngine) SetScene(s *scene.Scene) {
	re.Scene = s
}

// Target returns the image the engine renders into.
func (re *RenderEngine) Target() *tga.Image { return re.target }

// Pipeline returns the underlying pipeline.
func (re *RenderEngine) Pipeline() *pipeline.Pipeline { return re.pipe }

// SetShader assigns the shader used for node. Nodes without one get a
// Gouraud shader built from their material and the scene light.
func (re *RenderEngine) SetShader(node *scene.Node, s shader.Shader) {
	re.shaders[node] = s
}

// ShaderFor returns the shader node is drawn with.
func (re *RenderEngine) ShaderFor(node *scene.Node) shader.Shader {
	if s, ok := re.shaders[node]; ok {
		return s
	}
	mat := node.Mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	light := re.Scene.Light
	g := shader.NewGouraudShader(light.Position, light.Intensity, light.Ambient)
	g.Color = mat.Diffuse
	g.Texture = mat.DiffuseTexture
	return g
}

// Render clears the target and draws every visible mesh node.
func (re *RenderEngine) Render() error {
	if re.Scene == nil || re.Scene.Camera == nil {
		return errors.New("no scene or camera")
	}

	re.target.Clear(re.Background)
	re.pipe.Begin()

	cam := &re.Scene.Camera.Camera
	aspect := float64(re.pipe.Width()) / float64(re.pipe.Height())
	tr := re.pipe.Transforms()
	tr.View = cam.GetViewMatrix()
	tr.Projection = cam.GetProjectionMatrix(aspect)
	re.pipe.SetTransforms(tr)

	all := re.Scene.MeshNodes()
	nodes := all
	if re.FrustumCulling {
		nodes = re.Scene.GetVisibleNodes(aspect)
	}

	for _, node := range nodes {
		re.pipe.SetModel(node.WorldMatrix())
		re.pipe.Draw(node.Mesh, re.ShaderFor(node), re.target)
	}
	if re.Wireframe {
		for _, node := range nodes {
			re.pipe.SetModel(node.WorldMatrix())
			re.pipe.DrawWireframe(node.Mesh, re.WireframeColor, re.target)
		}
	}

	re.lastStats = re.pipe.End()
	re.lastObjects = len(nodes)
	re.lastCulled = len(all) - len(nodes)
	core.Logger().Info("frame rendered",
		"objects", re.lastObjects,
		"culled_objects", re.lastCulled,
		"triangles", re.lastStats.Drawn,
		"fragments", re.lastStats.FragmentsWritten,
	)
	return nil
}

// DrawStats returns stats from the most recent Render call.
func (re *RenderEngine) DrawStats() (objects, culled int, stats pipeline.Stats) {
	return re.lastObjects, re.lastCulled, re.lastStats
}

// Resize replaces the target and pipeline with ones of the new size,
// keeping the pipeline options the engine was created with. It reports
// whether anything changed; non-positive sizes are ignored.
func (re *RenderEngine) Resize(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	if width == re.target.Width() && height == re.target.Height() {
		return false
	}
	re.pipe = pipeline.New(width, height, re.pipeOpts...)
	re.target = tga.New(width, height, re.target.Format())
	core.Logger().Debug("render target resized", "width", width, "height", height)
	return true
}

// TriangleCount is the number of triangles Render will submit with the
// current scene, before culling.
func (re *RenderEngine) TriangleCount() int {
	if re.Scene == nil {
		return 0
	}
	n := 0
	for _, node := range re.Scene.MeshNodes() {
		n += node.Mesh.TriangleCount()
	}
	return n
}

func (re *RenderEngine) String() string {
	return fmt.Sprintf("RenderEngine(%dx%d %s)", re.target.Width(), re.target.Height(), re.target.Format())
}
