package scene

import (
	"fmt"

	remath "soft-render/math"
)

// Corner references the position, texture coordinate and normal of one
// triangle corner. Indices are 0-based into the mesh pools.
type Corner struct {
	V, VT, VN int
}

// MeshProvider is the read-only view of a triangle mesh consumed by the
// pipeline.
type MeshProvider interface {
	VertexCount() int
	TriangleCount() int
	Position(i int) remath.Vec3
	UV(i int) remath.Vec2
	Normal(i int) remath.Vec3
	Face(i int) [3]Corner
}

// Mesh is an indexed triangle mesh with separate position, texture
// coordinate and normal pools, as in Wavefront OBJ.
type Mesh struct {
	Name      string
	Positions []remath.Vec3
	UVs       []remath.Vec2
	Normals   []remath.Vec3
	Faces     [][3]Corner

	// Material holds surface appearance. If nil, DefaultMaterial() is used.
	Material *Material
}

func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

func (m *Mesh) VertexCount() int           { return len(m.Positions) }
func (m *Mesh) TriangleCount() int         { return len(m.Faces) }
func (m *Mesh) Position(i int) remath.Vec3 { return m.Positions[i] }
func (m *Mesh) UV(i int) remath.Vec2       { return m.UVs[i] }
func (m *Mesh) Normal(i int) remath.Vec3   { return m.Normals[i] }
func (m *Mesh) Face(i int) [3]Corner       { return m.Faces[i] }

// AddVertex appends a position, uv and normal and returns the index
// shared by all three pools. It is meant for meshes built with aligned
// pools, such as the primitives.
func (m *Mesh) AddVertex(pos remath.Vec3, uv remath.Vec2, normal remath.Vec3) int {
	if len(m.Positions) != len(m.UVs) || len(m.Positions) != len(m.Normals) {
		panic("scene: AddVertex on a mesh with unaligned pools")
	}
	m.Positions = append(m.Positions, pos)
	m.UVs = append(m.UVs, uv)
	m.Normals = append(m.Normals, normal)
	return len(m.Positions) - 1
}

// AddTriangle appends a face over aligned vertices a, b, c.
func (m *Mesh) AddTriangle(a, b, c int) {
	m.Faces = append(m.Faces, [3]Corner{{a, a, a}, {b, b, b}, {c, c, c}})
}

// Validate checks that every face index is inside its pool.
func (m *Mesh) Validate() error {
	for i, face := range m.Faces {
		for k, c := range face {
			if c.V < 0 || c.V >= len(m.Positions) {
				return fmt.Errorf("mesh %q: face %d corner %d: position index %d out of range [0,%d)", m.Name, i, k, c.V, len(m.Positions))
			}
			if c.VT < 0 || c.VT >= len(m.UVs) {
				return fmt.Errorf("mesh %q: face %d corner %d: uv index %d out of range [0,%d)", m.Name, i, k, c.VT, len(m.UVs))
			}
			if c.VN < 0 || c.VN >= len(m.Normals) {
				return fmt.Errorf("mesh %q: face %d corner %d: normal index %d out of range [0,%d)", m.Name, i, k, c.VN, len(m.Normals))
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned box around all positions. ok is false
// for an empty mesh.
func (m *Mesh) Bounds() (lo, hi remath.Vec3, ok bool) {
	if len(m.Positions) == 0 {
		return lo, hi, false
	}
	lo, hi = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		lo = remath.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = remath.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo, hi, true
}

// Append copies other into m, offsetting its indices. Materials are not
// merged; m keeps its own.
func (m *Mesh) Append(other *Mesh) {
	pv, pt, pn := len(m.Positions), len(m.UVs), len(m.Normals)
	m.Positions = append(m.Positions, other.Positions...)
	m.UVs = append(m.UVs, other.UVs...)
	m.Normals = append(m.Normals, other.Normals...)
	for _, f := range other.Faces {
		for k := range f {
			f[k].V += pv
			f[k].VT += pt
			f[k].VN += pn
		}
		m.Faces = append(m.Faces, f)
	}
}

// FaceNormal returns the unit normal of face i from its winding.
func (m *Mesh) FaceNormal(i int) remath.Vec3 {
	f := m.Faces[i]
	p0, p1, p2 := m.Positions[f[0].V], m.Positions[f[1].V], m.Positions[f[2].V]
	return p1.Sub(p0).Cross(p2.Sub(p0)).Normalize()
}

// GenerateNormals replaces the normal pool with area-weighted smooth
// normals per position and points every corner at them.
func (m *Mesh) GenerateNormals() {
	accum := make([]remath.Vec3, len(m.Positions))
	for _, f := range m.Faces {
		p0, p1, p2 := m.Positions[f[0].V], m.Positions[f[1].V], m.Positions[f[2].V]
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		for _, c := range f {
			accum[c.V] = accum[c.V].Add(n)
		}
	}
	for i := range accum {
		accum[i] = accum[i].Normalize()
	}
	m.Normals = accum
	for i := range m.Faces {
		for k := range m.Faces[i] {
			m.Faces[i][k].VN = m.Faces[i][k].V
		}
	}
}
