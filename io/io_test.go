package io

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soft-render/core"
	"soft-render/math"
	"soft-render/scene"
)

func TestDefaultJobIsValid(t *testing.T) {
	if err := DefaultJob().Validate(); err != nil {
		t.Fatalf("DefaultJob: %v", err)
	}
}

func TestJobValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Job)
	}{
		{"zero width", func(j *Job) { j.Width = 0 }},
		{"no output", func(j *Job) { j.Output = "" }},
		{"bad channels", func(j *Job) { j.Channels = "cmyk" }},
		{"bad background", func(j *Job) { j.Background = "#12" }},
		{"far before near", func(j *Job) { j.Camera.Far = 0.05 }},
		{"bad fov", func(j *Job) { j.Camera.FOV = 180 }},
		{"no objects", func(j *Job) { j.Objects = nil }},
		{"no mesh", func(j *Job) { j.Objects[0].Mesh = "" }},
		{"unknown shader", func(j *Job) { j.Objects[0].Shader = "phong" }},
		{"bad wrap", func(j *Job) { j.Objects[0].Wrap = "mirror" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := DefaultJob()
			tt.modify(j)
			if err := j.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestHexColor(t *testing.T) {
	tests := []struct {
		in   HexColor
		want core.Color
	}{
		{"", core.ColorBlue},
		{"#ff0000", core.ColorRed},
		{"00ff00", core.ColorGreen},
		{"#ffffff80", core.NewColor(255, 255, 255, 128)},
	}
	for _, tt := range tests {
		got, err := tt.in.Color(core.ColorBlue)
		if err != nil || got != tt.want {
			t.Errorf("%q: got %v, %v", tt.in, got, err)
		}
	}
	if _, err := HexColor("#zzzzzz").Color(core.ColorBlack); err == nil {
		t.Error("expected error for non-hex digits")
	}
	if got := ToHex(core.NewColor(1, 2, 3, 4)); got != "#01020304" {
		t.Errorf("ToHex: got %q", got)
	}
}

func TestParseJobYAML(t *testing.T) {
	src := `
width: 64
height: 32
output: frame.tga
camera:
  fov: 45
  near: 1
  far: 10
objects:
  - name: floor
    mesh: plane
    shader: flat
    color: "#808080"
    position: [0, -1, 0]
    rotation: [0, 90, 0]
  - mesh: teapot.obj
`
	job, err := ParseJob([]byte(src), ".yml")
	if err != nil {
		t.Fatalf("ParseJob: %v", err)
	}
	if job.Width != 64 || job.Height != 32 || job.Output != "frame.tga" {
		t.Errorf("size/output: %+v", job)
	}
	if job.Camera.FOV != 45 || job.Camera.Near != 1 {
		t.Errorf("camera: %+v", job.Camera)
	}
	// Fields absent from the file keep their defaults.
	if job.Light.Intensity != 1 || job.Channels != "rgb" {
		t.Errorf("defaults lost: light=%+v channels=%q", job.Light, job.Channels)
	}
	if len(job.Objects) != 2 {
		t.Fatalf("objects: got %d", len(job.Objects))
	}

	tr := job.Objects[0].Transform()
	if tr.Position != (math.Vec3{Y: -1}) || tr.Scale != math.Vec3One {
		t.Errorf("transform: %+v", tr)
	}
	if got := tr.GetMatrix().MulDir(math.Vec3Front); got.Distance(math.Vec3Right) > 1e-9 {
		t.Errorf("rotation by 90 degrees about y: got %v", got)
	}
}

func TestParseJobErrors(t *testing.T) {
	if _, err := ParseJob([]byte("{}"), ".toml"); !errors.Is(err, ErrUnknownJobFormat) {
		t.Errorf("unknown extension: got %v", err)
	}
	if _, err := ParseJob([]byte("{"), ".json"); err == nil {
		t.Error("expected json syntax error")
	}
	if _, err := ParseJob([]byte(`{"width": 10, "height": 10, "output": "a.tga"}`), ".json"); err == nil {
		t.Error("expected error for job without objects")
	}
}

func TestSaveLoadJob(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"job.json", "job.yaml"} {
		t.Run(name, func(t *testing.T) {
			want := DefaultJob()
			want.Objects = append(want.Objects, DefaultObject("models/head.obj"))
			want.Objects[1].Texture = "head.tga"
			want.Objects[1].Shader = ShaderTexture
			path := filepath.Join(dir, name)
			if err := SaveJob(path, want); err != nil {
				t.Fatalf("SaveJob: %v", err)
			}
			got, err := LoadJob(path)
			if err != nil {
				t.Fatalf("LoadJob: %v", err)
			}
			if len(got.Objects) != 2 || got.Objects[1].Name != "head" || got.Objects[1].Texture != "head.tga" {
				t.Errorf("objects: %+v", got.Objects)
			}
			if got.Camera != want.Camera || got.Light != want.Light {
				t.Errorf("camera/light differ: %+v %+v", got.Camera, got.Light)
			}
		})
	}
	if err := SaveJob(filepath.Join(dir, "job.txt"), DefaultJob()); !errors.Is(err, ErrUnknownJobFormat) {
		t.Errorf("SaveJob .txt: got %v", err)
	}
	if _, err := LoadJob(filepath.Join(dir, "missing.json")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("LoadJob missing: got %v", err)
	}
}

func TestExportOBJRoundTrip(t *testing.T) {
	cube := scene.CreateCube(2)
	var buf bytes.Buffer
	if err := ExportOBJ(&buf, cube); err != nil {
		t.Fatalf("ExportOBJ: %v", err)
	}
	if !strings.Contains(buf.String(), "f 1/1/1 ") {
		t.Errorf("unexpected face line:\n%s", buf.String())
	}

	back, err := scene.ParseOBJ(&buf, t.TempDir())
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if back.TriangleCount() != cube.TriangleCount() || back.VertexCount() != cube.VertexCount() {
		t.Fatalf("counts: %d/%d vs %d/%d", back.TriangleCount(), back.VertexCount(),
			cube.TriangleCount(), cube.VertexCount())
	}
	for i := range cube.Faces {
		if back.Faces[i] != cube.Faces[i] {
			t.Fatalf("face %d: got %v, want %v", i, back.Faces[i], cube.Faces[i])
		}
	}
	for i := range cube.Positions {
		if back.Positions[i] != cube.Positions[i] || back.Normals[i] != cube.Normals[i] || back.UVs[i] != cube.UVs[i] {
			t.Fatalf("vertex %d differs", i)
		}
	}
}

func TestSaveOBJRejectsInvalidMesh(t *testing.T) {
	m := scene.NewMesh("broken")
	m.Faces = append(m.Faces, [3]scene.Corner{{V: 0}, {V: 1}, {V: 2}})
	if err := SaveOBJ(filepath.Join(t.TempDir(), "x.obj"), m); err == nil {
		t.Error("expected validation error")
	}
}
