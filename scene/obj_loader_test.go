package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"soft-render/core"
	"soft-render/math"
	"soft-render/tga"
)

func parse(t *testing.T, src string) *Mesh {
	t.Helper()
	m, err := ParseOBJ(strings.NewReader(src), t.TempDir())
	if err != nil {
		t.Fatalf("ParseOBJ: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return m
}

func TestParseOBJFullCorners(t *testing.T) {
	m := parse(t, `
# a triangle
v 0 0 0
v 1 0 0
v 0 1 0
vt 0 0
vt 1 0
vt 0 1 0
vn 0 0 1
f 1/1/1 2/2/1 3/3/1
`)
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}
	want := [3]Corner{{0, 0, 0}, {1, 1, 0}, {2, 2, 0}}
	if m.Face(0) != want {
		t.Errorf("face: got %v, want %v", m.Face(0), want)
	}
	if m.UV(2) != (math.Vec2{X: 0, Y: 1}) {
		t.Errorf("uv 2: got %v", m.UV(2))
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	m := parse(t, `
v 0 0 0
v 1 0 0
v 0 1 0
vn 0 0 1
f -3//-1 -2//-1 -1//-1
`)
	if got := m.Face(0); got[0].V != 0 || got[1].V != 1 || got[2].V != 2 || got[0].VN != 0 {
		t.Errorf("face: got %v", got)
	}
}

func TestParseOBJFanTriangulation(t *testing.T) {
	m := parse(t, `
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v -1 0.5 0
f 1 2 3 4 5
`)
	if m.TriangleCount() != 3 {
		t.Fatalf("pentagon: got %d triangles", m.TriangleCount())
	}
	for i, want := range [][3]int{{0, 1, 2}, {0, 2, 3}, {0, 3, 4}} {
		f := m.Face(i)
		if f[0].V != want[0] || f[1].V != want[1] || f[2].V != want[2] {
			t.Errorf("triangle %d: got %v, want %v", i, f, want)
		}
	}
}

func TestParseOBJFillsMissingAttributes(t *testing.T) {
	// No vt and no vn anywhere: default uv and smooth normals.
	m := parse(t, "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	if len(m.UVs) != 1 || m.UV(m.Face(0)[0].VT) != (math.Vec2{}) {
		t.Errorf("default uv: %v", m.UVs)
	}
	if n := m.Normal(m.Face(0)[2].VN); n.Distance(math.Vec3Front) > 1e-12 {
		t.Errorf("generated normal: %v", n)
	}

	// Normals present for one face only: the other gets its face normal.
	m = parse(t, `
v 0 0 0
v 1 0 0
v 0 1 0
v 0 0 1
vn 0 0 1
f 1//1 2//1 3//1
f 1 4 2
`)
	n := m.Normal(m.Face(1)[0].VN)
	if n.Distance(math.Vec3Up) > 1e-12 {
		t.Errorf("face normal for second face: got %v", n)
	}
}

func TestParseOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"empty", "# nothing\n", "no geometry"},
		{"zero index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 0 1 2\n", "index 0"},
		{"out of range", "v 0 0 0\nv 1 0 0\nf 1 2 3\n", "out of range"},
		{"too few vertices", "v 0 0 0\nv 1 0 0\nf 1 2\n", "at least 3"},
		{"bad float", "v 0 x 0\n", "line 1"},
		{"short vertex", "v 0 0\n", "need 3 values"},
		{"bad uv index", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1/5 2/5 3/5\n", "uv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseOBJ(strings.NewReader(tt.src), ".")
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("got %v, want error containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadOBJWithMaterial(t *testing.T) {
	dir := t.TempDir()
	tex := tga.New(2, 2, tga.RGB)
	tex.Clear(core.ColorGreen)
	if err := tga.Save(filepath.Join(dir, "diffuse.tga"), tex, nil); err != nil {
		t.Fatal(err)
	}
	mtl := "newmtl skin\nKd 1 0.5 0\nmap_Kd diffuse.tga\n"
	if err := os.WriteFile(filepath.Join(dir, "model.mtl"), []byte(mtl), 0o644); err != nil {
		t.Fatal(err)
	}
	obj := "mtllib model.mtl missing.mtl\nusemtl skin\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"
	path := filepath.Join(dir, "model.obj")
	if err := os.WriteFile(path, []byte(obj), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := LoadOBJ(path)
	if err != nil {
		t.Fatalf("LoadOBJ: %v", err)
	}
	if m.Name != "model" {
		t.Errorf("name: got %q", m.Name)
	}
	mat := m.Material
	if mat == nil || mat.Name != "skin" {
		t.Fatalf("material: got %+v", mat)
	}
	if mat.Diffuse != core.NewColor(255, 128, 0, 255) {
		t.Errorf("Kd: got %+v", mat.Diffuse)
	}
	if mat.DiffuseTexture == nil || mat.DiffuseTexture.Sample(math.Vec2{X: 0.5, Y: 0.5}) != core.ColorGreen {
		t.Error("map_Kd texture not loaded")
	}
}

func TestLoadOBJMissingFile(t *testing.T) {
	if _, err := LoadOBJ(filepath.Join(t.TempDir(), "none.obj")); err == nil {
		t.Error("expected error")
	}
}
