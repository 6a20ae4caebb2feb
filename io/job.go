package io

import (
	"encoding/json"
	"errors"
	"fmt"
	stdmath "math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"soft-render/core"
	"soft-render/math"
	"soft-render/textures"
)

// ErrUnknownJobFormat is returned for job files that are neither JSON nor YAML.
var ErrUnknownJobFormat = errors.New("unknown job format")

// JobVersion is written into new job files.
const JobVersion = "1.0"

// Shader kinds accepted in ObjectData.Shader.
const (
	ShaderFlat    = "flat"
	ShaderTexture = "texture"
	ShaderGouraud = "gouraud"
	ShaderDepth   = "depth"
)

// Job describes one offline render: what to draw, from where, and where
// to write the image.
type Job struct {
	Version string `json:"version" yaml:"version"`
	Name    string `json:"name" yaml:"name"`

	Width  int    `json:"width" yaml:"width"`
	Height int    `json:"height" yaml:"height"`
	Output string `json:"output" yaml:"output"`
	// Channels is "gray", "rgb" or "rgba" for TGA output.
	Channels   string   `json:"channels,omitempty" yaml:"channels,omitempty"`
	RLE        bool     `json:"rle,omitempty" yaml:"rle,omitempty"`
	TopDown    bool     `json:"top_down,omitempty" yaml:"top_down,omitempty"`
	Background HexColor `json:"background,omitempty" yaml:"background,omitempty"`

	Wireframe      bool     `json:"wireframe,omitempty" yaml:"wireframe,omitempty"`
	WireframeColor HexColor `json:"wireframe_color,omitempty" yaml:"wireframe_color,omitempty"`

	Camera  CameraData   `json:"camera" yaml:"camera"`
	Light   LightData    `json:"light" yaml:"light"`
	Objects []ObjectData `json:"objects" yaml:"objects"`
}

// CameraData stores camera state. With AutoFrame set, Position and Target
// are replaced by an orbit around the bounds of the scene.
type CameraData struct {
	Position     [3]float64 `json:"position" yaml:"position"`
	Target       [3]float64 `json:"target" yaml:"target"`
	Up           [3]float64 `json:"up" yaml:"up"`
	FOV          float64    `json:"fov" yaml:"fov"` // degrees
	Near         float64    `json:"near" yaml:"near"`
	Far          float64    `json:"far" yaml:"far"`
	Orthographic bool       `json:"orthographic,omitempty" yaml:"orthographic,omitempty"`
	OrthoHeight  float64    `json:"ortho_height,omitempty" yaml:"ortho_height,omitempty"`
	AutoFrame    bool       `json:"auto_frame,omitempty" yaml:"auto_frame,omitempty"`
	Yaw          float64    `json:"yaw,omitempty" yaml:"yaw,omitempty"`     // degrees, auto frame only
	Pitch        float64    `json:"pitch,omitempty" yaml:"pitch,omitempty"` // degrees, auto frame only
}

// LightData stores the point light used by the gouraud shader.
type LightData struct {
	Position  [3]float64 `json:"position" yaml:"position"`
	Intensity float64    `json:"intensity" yaml:"intensity"`
	Ambient   float64    `json:"ambient" yaml:"ambient"`
}

// ObjectData stores one mesh instance.
type ObjectData struct {
	Name string `json:"name" yaml:"name"`
	// Mesh is a .obj/.gltf/.glb path or a primitive: triangle, quad, cube,
	// sphere or plane.
	Mesh string `json:"mesh" yaml:"mesh"`
	// Texture overrides the material texture. Without either, the texture
	// shader samples plain white.
	Texture  string     `json:"texture,omitempty" yaml:"texture,omitempty"`
	Wrap     string     `json:"wrap,omitempty" yaml:"wrap,omitempty"`
	Shader   string     `json:"shader" yaml:"shader"` // empty means gouraud
	Color    HexColor   `json:"color,omitempty" yaml:"color,omitempty"`
	Position [3]float64 `json:"position" yaml:"position"`
	Rotation [3]float64 `json:"rotation" yaml:"rotation"` // euler degrees
	Scale    [3]float64 `json:"scale" yaml:"scale"`
}

// HexColor is an "#rrggbb" or "#rrggbbaa" string.
type HexColor string

// Color parses the string. An empty string yields def.
func (h HexColor) Color(def core.Color) (core.Color, error) {
	s := strings.TrimPrefix(string(h), "#")
	if s == "" {
		return def, nil
	}
	if len(s) != 6 && len(s) != 8 {
		return core.Color{}, fmt.Errorf("invalid color %q", string(h))
	}
	if len(s) == 6 {
		s += "ff"
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return core.Color{}, fmt.Errorf("invalid color %q: %w", string(h), err)
	}
	return core.NewColor(uint8(v>>24), uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

// ToHex formats a color as "#rrggbbaa".
func ToHex(c core.Color) HexColor {
	return HexColor(fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A))
}

// DefaultJob returns a job that renders a lit cube into out.tga.
func DefaultJob() *Job {
	return &Job{
		Version:    JobVersion,
		Name:       "default",
		Width:      512,
		Height:     512,
		Output:     "out.tga",
		Channels:   "rgb",
		Background: "#000000",
		Camera: CameraData{
			Position:  [3]float64{0, 0, 3},
			Target:    [3]float64{0, 0, 0},
			Up:        [3]float64{0, 1, 0},
			FOV:       60,
			Near:      0.1,
			Far:       100,
			AutoFrame: true,
			Yaw:       30,
			Pitch:     20,
		},
		Light: LightData{
			Position:  [3]float64{2, 3, 4},
			Intensity: 1,
			Ambient:   0.1,
		},
		Objects: []ObjectData{DefaultObject("cube")},
	}
}

// DefaultObject returns a white gouraud-shaded instance of mesh at the origin.
func DefaultObject(mesh string) ObjectData {
	return ObjectData{
		Name:   strings.TrimSuffix(filepath.Base(mesh), filepath.Ext(mesh)),
		Mesh:   mesh,
		Shader: ShaderGouraud,
		Color:  "#ffffff",
		Scale:  [3]float64{1, 1, 1},
	}
}

// Validate reports the first problem with the job.
func (j *Job) Validate() error {
	if j.Width <= 0 || j.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", j.Width, j.Height)
	}
	if j.Output == "" {
		return errors.New("no output path")
	}
	switch j.Channels {
	case "", "gray", "rgb", "rgba":
	default:
		return fmt.Errorf("invalid channels %q", j.Channels)
	}
	if _, err := j.Background.Color(core.ColorBlack); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if _, err := j.WireframeColor.Color(core.ColorWhite); err != nil {
		return fmt.Errorf("wireframe_color: %w", err)
	}
	if j.Camera.Near <= 0 || j.Camera.Far <= j.Camera.Near {
		return fmt.Errorf("camera: invalid near/far %g/%g", j.Camera.Near, j.Camera.Far)
	}
	if !j.Camera.Orthographic && (j.Camera.FOV <= 0 || j.Camera.FOV >= 180) {
		return fmt.Errorf("camera: invalid fov %g", j.Camera.FOV)
	}
	if len(j.Objects) == 0 {
		return errors.New("no objects")
	}
	for i, o := range j.Objects {
		if err := o.validate(); err != nil {
			return fmt.Errorf("object %d (%s): %w", i, o.Name, err)
		}
	}
	return nil
}

func (o ObjectData) validate() error {
	if o.Mesh == "" {
		return errors.New("no mesh")
	}
	switch o.Shader {
	case "", ShaderFlat, ShaderGouraud, ShaderDepth, ShaderTexture:
	default:
		return fmt.Errorf("unknown shader %q", o.Shader)
	}
	if o.Wrap != "" {
		if _, err := textures.ParseWrapMode(o.Wrap); err != nil {
			return err
		}
	}
	if _, err := o.Color.Color(core.ColorWhite); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	return nil
}

// Transform returns the model transform of the object. A zero scale
// vector means unit scale.
func (o ObjectData) Transform() core.Transform {
	t := core.NewTransform()
	t.Position = ArrayToVec3(o.Position)
	rad := ArrayToVec3(o.Rotation).Mul(degToRad)
	t.Rotation = math.QuaternionFromEuler(rad)
	if o.Scale != ([3]float64{}) {
		t.Scale = ArrayToVec3(o.Scale)
	}
	return t
}

const degToRad = stdmath.Pi / 180

// Radians converts degrees.
func Radians(deg float64) float64 { return deg * degToRad }

// LoadJob reads a job from a .json, .yaml or .yml file and validates it.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}
	job, err := ParseJob(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("job %q: %w", path, err)
	}
	return job, nil
}

// ParseJob decodes a job. Fields missing from data keep their DefaultJob
// value. ext selects the decoder: ".json", ".yaml" or ".yml".
func ParseJob(data []byte, ext string) (*Job, error) {
	job := DefaultJob()
	job.Objects = nil
	switch strings.ToLower(ext) {
	case ".json":
		if err := json.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("parse json: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, job); err != nil {
			return nil, fmt.Errorf("parse yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobFormat, ext)
	}
	if err := job.Validate(); err != nil {
		return nil, fmt.Errorf("invalid job: %w", err)
	}
	return job, nil
}

// SaveJob writes a job as JSON or YAML depending on the file extension.
func SaveJob(path string, job *Job) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(job, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(job)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownJobFormat, filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write job: %w", err)
	}
	return nil
}

// --- Helper conversions ---

// Vec3ToArray converts a Vec3 to a [3]float64
func Vec3ToArray(v math.Vec3) [3]float64 {
	return [3]float64{v.X, v.Y, v.Z}
}

// ArrayToVec3 converts a [3]float64 to Vec3
func ArrayToVec3(a [3]float64) math.Vec3 {
	return math.Vec3{X: a[0], Y: a[1], Z: a[2]}
}
