package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"soft-render/core"
	"soft-render/math"
	"soft-render/textures"
)

// LoadGLTF opens a .glb or .gltf file and flattens every triangle
// primitive reachable from the default scene into one Mesh, with node
// transforms applied. The material of the first primitive that has one
// becomes the mesh material; its base color texture is decoded from the
// buffer, a data URI or a file next to the model.
func LoadGLTF(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	l := &gltfLoader{
		doc:  doc,
		dir:  filepath.Dir(path),
		mesh: NewMesh(filepath.Base(path)),
		texs: map[int]*textures.Texture{},
	}
	for _, root := range l.roots() {
		l.visit(root, math.Mat4Identity())
	}
	if len(l.mesh.Faces) == 0 {
		return nil, fmt.Errorf("gltf %q: no triangle geometry", path)
	}
	if l.mesh.Material == nil {
		l.mesh.Material = DefaultMaterial()
	}
	core.Logger().Info("gltf loaded", "path", path,
		"vertices", l.mesh.VertexCount(), "triangles", l.mesh.TriangleCount())
	return l.mesh, nil
}

type gltfLoader struct {
	doc  *gltf.Document
	dir  string
	mesh *Mesh
	texs map[int]*textures.Texture
}

// roots returns the nodes of the default scene, or every parentless node
// when the file has no default scene.
func (l *gltfLoader) roots() []int {
	doc := l.doc
	if doc.Scene != nil && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	hasParent := make([]bool, len(doc.Nodes))
	for _, gn := range doc.Nodes {
		for _, c := range gn.Children {
			if c < len(hasParent) {
				hasParent[c] = true
			}
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !hasParent[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

func (l *gltfLoader) visit(idx int, parent math.Mat4) {
	if idx < 0 || idx >= len(l.doc.Nodes) {
		return
	}
	gn := l.doc.Nodes[idx]

	t := gn.TranslationOrDefault()
	r := gn.RotationOrDefault() // [x, y, z, w]
	s := gn.ScaleOrDefault()
	local := math.Mat4Translation(math.Vec3{X: t[0], Y: t[1], Z: t[2]}).
		Mul(math.NewQuaternion(r[0], r[1], r[2], r[3]).ToMat4()).
		Mul(math.Mat4Scale(math.Vec3{X: s[0], Y: s[1], Z: s[2]}))
	world := parent.Mul(local)

	if gn.Mesh != nil && *gn.Mesh < len(l.doc.Meshes) {
		gm := l.doc.Meshes[*gn.Mesh]
		for pi, prim := range gm.Primitives {
			if err := l.addPrimitive(prim, world); err != nil {
				core.Logger().Warn("gltf primitive skipped", "mesh", gm.Name, "primitive", pi, "err", err)
			}
		}
	}
	for _, c := range gn.Children {
		l.visit(c, world)
	}
}

// addPrimitive appends one triangle primitive, transformed to world space.
func (l *gltfLoader) addPrimitive(prim *gltf.Primitive, world math.Mat4) error {
	doc := l.doc
	if prim.Mode != gltf.PrimitiveTriangles {
		return fmt.Errorf("primitive mode %v is not triangles", prim.Mode)
	}
	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	var uvs [][2]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, _ = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
	}
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, _ = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return fmt.Errorf("indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, i := range indices {
		if int(i) >= len(positions) {
			return fmt.Errorf("index %d out of range (%d positions)", i, len(positions))
		}
	}

	normalMatrix := world
	if inv, ok := world.Inverse(); ok {
		normalMatrix = inv.Transpose()
	}

	part := NewMesh("")
	for i, p := range positions {
		pos := world.MulPoint(math.Vec3{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])})
		n := math.Vec3Up
		if i < len(normals) {
			n = normalMatrix.MulDir(math.Vec3{X: float64(normals[i][0]), Y: float64(normals[i][1]), Z: float64(normals[i][2])}).Normalize()
		}
		var uv math.Vec2
		if i < len(uvs) {
			// glTF puts v=0 at the top of the image.
			uv = math.Vec2{X: float64(uvs[i][0]), Y: 1 - float64(uvs[i][1])}
		}
		part.AddVertex(pos, uv, n)
	}
	for i := 0; i+2 < len(indices); i += 3 {
		part.AddTriangle(int(indices[i]), int(indices[i+1]), int(indices[i+2]))
	}
	if len(normals) == 0 {
		part.GenerateNormals()
	}
	l.mesh.Append(part)

	if l.mesh.Material == nil && prim.Material != nil && *prim.Material < len(doc.Materials) {
		l.mesh.Material = l.material(*prim.Material)
	}
	return nil
}

func (l *gltfLoader) material(idx int) *Material {
	gm := l.doc.Materials[idx]
	mat := DefaultMaterial()
	mat.Name = gm.Name

	pbr := gm.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	cf := pbr.BaseColorFactorOrDefault()
	mat.Diffuse = core.NewColor(unitToByte(cf[0]), unitToByte(cf[1]), unitToByte(cf[2]), unitToByte(cf[3]))
	if pbr.BaseColorTexture != nil {
		tex, err := l.texture(pbr.BaseColorTexture.Index)
		if err != nil {
			core.Logger().Warn("gltf base color texture skipped", "material", gm.Name, "err", err)
		} else {
			mat.DiffuseTexture = tex
		}
	}
	return mat
}

func (l *gltfLoader) texture(idx int) (*textures.Texture, error) {
	if tex, ok := l.texs[idx]; ok {
		return tex, nil
	}
	doc := l.doc
	if idx < 0 || idx >= len(doc.Textures) || doc.Textures[idx].Source == nil {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	src := *doc.Textures[idx].Source
	img := doc.Images[src]

	var tex *textures.Texture
	var err error
	switch {
	case img.BufferView != nil:
		// Binary GLB: image data lives in a buffer view
		raw, rerr := modeler.ReadBufferView(doc, doc.BufferViews[*img.BufferView])
		if rerr != nil {
			return nil, fmt.Errorf("image %d bufferview: %w", src, rerr)
		}
		tex, err = textures.DecodeBytes(raw, img.MimeType)
	case img.IsEmbeddedResource():
		raw, rerr := img.MarshalData()
		if rerr != nil {
			return nil, fmt.Errorf("image %d data uri: %w", src, rerr)
		}
		mime := img.MimeType
		if mime == "" {
			// data:image/png;base64,...
			mime, _, _ = strings.Cut(strings.TrimPrefix(img.URI, "data:"), ";")
		}
		tex, err = textures.DecodeBytes(raw, mime)
	case img.URI != "":
		tex, err = textures.Load(filepath.Join(l.dir, img.URI))
	default:
		return nil, fmt.Errorf("image %d has no data", src)
	}
	if err != nil {
		return nil, fmt.Errorf("image %d: %w", src, err)
	}
	if tex.Name == "" {
		tex.Name = img.Name
	}
	l.texs[idx] = tex
	return tex, nil
}
