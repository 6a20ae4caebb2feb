package scene

import (
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"soft-render/core"
	"soft-render/math"
)

func writeTriangleGLB(t *testing.T) string {
	t.Helper()
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}})
	uv := modeler.WriteTextureCoord(doc, [][2]float32{{0, 0}, {1, 0}, {0, 1}})
	idx := modeler.WriteIndices(doc, []uint16{0, 1, 2})
	doc.Materials = []*gltf.Material{{
		Name: "red",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &[4]float64{1, 0, 0, 1},
		},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
			Attributes: map[string]int{"POSITION": pos, "TEXCOORD_0": uv},
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{Name: "parent", Translation: [3]float64{0, 0, -2}, Children: []int{1}},
		{Name: "child", Mesh: gltf.Index(0), Scale: [3]float64{2, 2, 2}},
	}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "tri.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLTF(t *testing.T) {
	m, err := LoadGLTF(writeTriangleGLB(t))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.VertexCount() != 3 || m.TriangleCount() != 1 {
		t.Fatalf("got %d vertices, %d triangles", m.VertexCount(), m.TriangleCount())
	}

	// Child scale then parent translation.
	if p := m.Position(1); p.Distance(math.Vec3{X: 2, Y: 0, Z: -2}) > 1e-6 {
		t.Errorf("position 1: got %v", p)
	}
	// v is flipped to a bottom-left origin.
	if uv := m.UV(2); uv.Sub(math.Vec2{X: 0, Y: 0}).Length() > 1e-6 {
		t.Errorf("uv 2: got %v", uv)
	}
	// No NORMAL attribute: generated from the winding.
	if n := m.Normal(m.Face(0)[0].VN); n.Distance(math.Vec3Front) > 1e-6 {
		t.Errorf("normal: got %v", n)
	}
	if m.Material == nil || m.Material.Diffuse != core.ColorRed {
		t.Errorf("material: got %+v", m.Material)
	}
}

func TestLoadGLTFMissingFile(t *testing.T) {
	if _, err := LoadGLTF(filepath.Join(t.TempDir(), "none.glb")); err == nil {
		t.Error("expected error")
	}
}
