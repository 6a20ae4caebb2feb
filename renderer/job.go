package renderer

import (
	"errors"
	"fmt"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"soft-render/core"
	rio "soft-render/io"
	"soft-render/math"
	"soft-render/pipeline"
	"soft-render/scene"
	"soft-render/shader"
	"soft-render/textures"
	"soft-render/tga"
)

// ErrUnknownOutputFormat is returned when the output extension names no
// supported image format.
var ErrUnknownOutputFormat = errors.New("unknown output format")

// LoadMesh resolves a job mesh reference: a primitive name or a .obj,
// .gltf or .glb path relative to dir.
func LoadMesh(ref, dir string) (*scene.Mesh, error) {
	switch strings.ToLower(ref) {
	case "triangle":
		return scene.CreateTriangle(), nil
	case "quad":
		return scene.CreateQuad(), nil
	case "cube":
		return scene.CreateCube(1), nil
	case "sphere":
		return scene.CreateSphere(0.5, 32, 16), nil
	case "plane":
		return scene.CreatePlane(4, 4, 4), nil
	}

	path := resolve(ref, dir)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return scene.LoadOBJ(path)
	case ".gltf", ".glb":
		return scene.LoadGLTF(path)
	}
	return nil, fmt.Errorf("mesh %q: unsupported format", ref)
}

func resolve(path, dir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// BuildScene loads every object of job into a new scene and assigns each
// node its shader on re. Relative paths are resolved against dir.
func (re *RenderEngine) BuildScene(job *rio.Job, dir string) error {
	s := scene.NewScene()
	s.Light = scene.Light{
		Position:  rio.ArrayToVec3(job.Light.Position),
		Intensity: job.Light.Intensity,
		Ambient:   job.Light.Ambient,
	}
	mgr := textures.NewManager(textures.WrapRepeat)

	for i, obj := range job.Objects {
		mesh, err := LoadMesh(obj.Mesh, dir)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		node := scene.NewNode(obj.Name)
		node.Mesh = mesh
		node.SetTransform(obj.Transform())
		s.AddNode(node)

		sh, err := objectShader(obj, mesh, s.Light, mgr, dir)
		if err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
		re.SetShader(node, sh)
	}

	setupCamera(s, job)
	re.SetScene(s)

	var err error
	if re.Background, err = job.Background.Color(core.ColorBlack); err != nil {
		return err
	}
	if re.WireframeColor, err = job.WireframeColor.Color(core.ColorWhite); err != nil {
		return err
	}
	re.Wireframe = job.Wireframe
	return nil
}

func objectShader(obj rio.ObjectData, mesh *scene.Mesh, light scene.Light, mgr *textures.Manager, dir string) (shader.Shader, error) {
	mat := mesh.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	color, err := obj.Color.Color(mat.Diffuse)
	if err != nil {
		return nil, err
	}

	tex := mat.DiffuseTexture
	if obj.Texture != "" {
		if tex, err = mgr.Load(resolve(obj.Texture, dir)); err != nil {
			return nil, err
		}
	}
	if tex != nil && obj.Wrap != "" {
		wrap, err := textures.ParseWrapMode(obj.Wrap)
		if err != nil {
			return nil, err
		}
		// Textures are shared through the cache; the wrap mode is per object.
		copied := *tex
		copied.Wrap = wrap
		tex = &copied
	}

	switch obj.Shader {
	case rio.ShaderFlat:
		return shader.NewFlatShader(color), nil
	case rio.ShaderDepth:
		return shader.NewDepthShader(), nil
	case rio.ShaderTexture:
		if tex == nil {
			tex = mgr.GetOrDefault("")
		}
		s := shader.NewTextureShader(tex)
		s.Tint = color
		return s, nil
	case "", rio.ShaderGouraud:
		s := shader.NewGouraudShader(light.Position, light.Intensity, light.Ambient)
		s.Color = color
		s.Texture = tex
		return s, nil
	}
	return nil, fmt.Errorf("unknown shader %q", obj.Shader)
}

func setupCamera(s *scene.Scene, job *rio.Job) {
	c := job.Camera
	cam := s.Camera
	cam.FOV = rio.Radians(c.FOV)
	cam.NearPlane, cam.FarPlane = c.Near, c.Far
	cam.Orthographic = c.Orthographic
	cam.OrthoHeight = c.OrthoHeight
	if cam.OrthoHeight == 0 {
		cam.OrthoHeight = 2
	}

	if c.AutoFrame {
		if box, ok := s.Bounds(); ok {
			cam.Yaw, cam.Pitch = rio.Radians(c.Yaw), rio.Radians(c.Pitch)
			cam.Frame(box.Min, box.Max)
			return
		}
	}

	cam.Position = rio.ArrayToVec3(c.Position)
	cam.Target = rio.ArrayToVec3(c.Target)
	cam.Up = rio.ArrayToVec3(c.Up)
	if cam.Up == (math.Vec3{}) {
		cam.Up = math.Vec3Up
	}
	cam.LookAt(cam.Target)
}

// SaveImage writes img to path, choosing the encoder from the extension:
// .tga (with opts), .png, .bmp or .tif/.tiff.
func SaveImage(path string, img *tga.Image, opts *tga.Options) error {
	var encode func(w io.Writer) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".tga":
		return tga.Save(path, img, opts)
	case ".png":
		encode = func(w io.Writer) error { return png.Encode(w, img) }
	case ".bmp":
		encode = func(w io.Writer) error { return bmp.Encode(w, img) }
	case ".tif", ".tiff":
		encode = func(w io.Writer) error {
			return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownOutputFormat, ext)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("encode %q: %w", path, err)
	}
	return f.Close()
}

// Format maps a job's channel name to a TGA format.
func Format(channels string) tga.Format {
	switch channels {
	case "gray":
		return tga.Grayscale
	case "rgba":
		return tga.RGBA
	}
	return tga.RGB
}

// RunJob renders job and writes the image to job.Output. Relative paths
// in the job are resolved against dir.
func RunJob(job *rio.Job, dir string, opts ...pipeline.Option) (pipeline.Stats, error) {
	if err := job.Validate(); err != nil {
		return pipeline.Stats{}, fmt.Errorf("invalid job: %w", err)
	}
	re := NewRenderEngine(job.Width, job.Height, Format(job.Channels), opts...)
	if err := re.BuildScene(job, dir); err != nil {
		return pipeline.Stats{}, err
	}
	if err := re.Render(); err != nil {
		return pipeline.Stats{}, err
	}
	out := resolve(job.Output, dir)
	if err := SaveImage(out, re.Target(), &tga.Options{RLE: job.RLE, TopDown: job.TopDown}); err != nil {
		return pipeline.Stats{}, err
	}
	_, _, stats := re.DrawStats()
	core.Logger().Info("job written", "name", job.Name, "output", out)
	return stats, nil
}
