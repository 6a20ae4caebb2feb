package scene

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"soft-render/core"
	remath "soft-render/math"
	"soft-render/textures"
)

// LoadOBJ parses a Wavefront .obj file into a single Mesh. All objects and
// groups are merged. A companion .mtl file is loaded if referenced via
// "mtllib"; the first material named by "usemtl" becomes the mesh material.
func LoadOBJ(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj %q: %w", path, err)
	}
	defer f.Close()

	mesh, err := ParseOBJ(f, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("parse obj %q: %w", path, err)
	}
	mesh.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	core.Logger().Info("obj loaded", "path", path,
		"vertices", mesh.VertexCount(), "triangles", mesh.TriangleCount())
	return mesh, nil
}

// objParser accumulates the pools while reading.
type objParser struct {
	dir       string
	mesh      *Mesh
	materials map[string]*Material
	matName   string

	defaultUV int // index of the (0,0) fallback uv, -1 until needed
	hasVN     bool
}

// ParseOBJ reads OBJ text. dir resolves mtllib and texture paths. Face
// indices may be 1-based or negative (relative to the end of the pool);
// polygons are fan-triangulated. Corners without a texture coordinate get
// (0,0). Corners without a normal get the face normal, and a file with no
// normals at all gets smooth normals.
func ParseOBJ(r io.Reader, dir string) (*Mesh, error) {
	p := &objParser{
		dir:       dir,
		mesh:      NewMesh("obj"),
		materials: map[string]*Material{},
		defaultUV: -1,
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := p.parseLine(strings.Fields(line)); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan obj: %w", err)
	}
	if len(p.mesh.Faces) == 0 {
		return nil, fmt.Errorf("no geometry found")
	}

	if p.hasVN {
		p.fillFaceNormals()
	} else {
		p.mesh.GenerateNormals()
	}
	if mat, ok := p.materials[p.matName]; ok {
		p.mesh.Material = mat
	} else {
		p.mesh.Material = DefaultMaterial()
	}
	return p.mesh, nil
}

func (p *objParser) parseLine(fields []string) error {
	m := p.mesh
	switch fields[0] {
	case "v":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("v: %w", err)
		}
		m.Positions = append(m.Positions, remath.Vec3{X: v[0], Y: v[1], Z: v[2]})

	case "vn":
		v, err := parseFloats(fields[1:], 3)
		if err != nil {
			return fmt.Errorf("vn: %w", err)
		}
		m.Normals = append(m.Normals, remath.Vec3{X: v[0], Y: v[1], Z: v[2]})
		p.hasVN = true

	case "vt":
		v, err := parseFloats(fields[1:], 2)
		if err != nil {
			return fmt.Errorf("vt: %w", err)
		}
		m.UVs = append(m.UVs, remath.Vec2{X: v[0], Y: v[1]})

	case "usemtl":
		if len(fields) > 1 && p.matName == "" {
			p.matName = fields[1]
		}

	case "mtllib":
		for _, name := range fields[1:] {
			mtlPath := filepath.Join(p.dir, name)
			loaded, err := loadMTL(mtlPath, p.dir)
			if err != nil {
				core.Logger().Warn("mtl skipped", "path", mtlPath, "err", err)
				continue
			}
			for k, v := range loaded {
				p.materials[k] = v
			}
		}

	case "f":
		if len(fields) < 4 {
			return fmt.Errorf("f: need at least 3 vertices, got %d", len(fields)-1)
		}
		corners := make([]Corner, 0, len(fields)-1)
		for _, tok := range fields[1:] {
			c, err := p.parseCorner(tok)
			if err != nil {
				return fmt.Errorf("f %q: %w", tok, err)
			}
			corners = append(corners, c)
		}
		// Fan triangulation: 0-1-2, 0-2-3, 0-3-4, ...
		for i := 1; i+1 < len(corners); i++ {
			m.Faces = append(m.Faces, [3]Corner{corners[0], corners[i], corners[i+1]})
		}

	default:
		// o, g, s, l and anything else carry nothing the pipeline uses.
	}
	return nil
}

// parseCorner parses "v", "v/vt", "v//vn" or "v/vt/vn". A missing normal is
// reported as VN = -1.
func (p *objParser) parseCorner(tok string) (Corner, error) {
	m := p.mesh
	parts := strings.Split(tok, "/")
	if len(parts) > 3 {
		return Corner{}, fmt.Errorf("too many components")
	}
	c := Corner{VT: -1, VN: -1}

	var err error
	if c.V, err = resolveIndex(parts[0], len(m.Positions)); err != nil {
		return c, fmt.Errorf("position: %w", err)
	}
	if len(parts) > 1 && parts[1] != "" {
		if c.VT, err = resolveIndex(parts[1], len(m.UVs)); err != nil {
			return c, fmt.Errorf("uv: %w", err)
		}
	}
	if len(parts) > 2 && parts[2] != "" {
		if c.VN, err = resolveIndex(parts[2], len(m.Normals)); err != nil {
			return c, fmt.Errorf("normal: %w", err)
		}
	}

	if c.VT < 0 {
		if p.defaultUV < 0 {
			m.UVs = append(m.UVs, remath.Vec2{})
			p.defaultUV = len(m.UVs) - 1
		}
		c.VT = p.defaultUV
	}
	return c, nil
}

// fillFaceNormals points corners lacking a normal at their flat face normal.
func (p *objParser) fillFaceNormals() {
	m := p.mesh
	for i := range m.Faces {
		face := &m.Faces[i]
		if face[0].VN >= 0 && face[1].VN >= 0 && face[2].VN >= 0 {
			continue
		}
		m.Normals = append(m.Normals, m.FaceNormal(i))
		for k := range face {
			if face[k].VN < 0 {
				face[k].VN = len(m.Normals) - 1
			}
		}
	}
}

// resolveIndex converts a 1-based or negative OBJ index into a 0-based
// index into a pool of size n.
func resolveIndex(s string, n int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad index %q", s)
	}
	switch {
	case i > 0:
		i--
	case i < 0:
		i += n
	default:
		return 0, fmt.Errorf("index 0 is not valid")
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %s out of range (%d defined)", s, n)
	}
	return i, nil
}

func parseFloats(fields []string, n int) ([]float64, error) {
	if len(fields) < n {
		return nil, fmt.Errorf("need %d values, got %d", n, len(fields))
	}
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		v, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// ── MTL loader ───────────────────────────────────────────────────────────────

func loadMTL(path, dir string) (map[string]*Material, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	mats := map[string]*Material{}
	var cur *Material

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "newmtl":
			if len(fields) > 1 {
				m := DefaultMaterial()
				m.Name = fields[1]
				mats[fields[1]] = m
				cur = m
			}
		case "Kd":
			if cur == nil {
				continue
			}
			kd, err := parseFloats(fields[1:], 3)
			if err != nil {
				core.Logger().Warn("mtl: bad Kd", "path", path, "err", err)
				continue
			}
			cur.Diffuse = core.NewColor(unitToByte(kd[0]), unitToByte(kd[1]), unitToByte(kd[2]), 255)
		case "map_Kd":
			if cur == nil || len(fields) < 2 {
				continue
			}
			// Options such as -s precede the file name, which comes last.
			texPath := filepath.Join(dir, fields[len(fields)-1])
			tex, err := textures.Load(texPath)
			if err != nil {
				core.Logger().Warn("mtl: diffuse texture skipped", "path", texPath, "err", err)
				continue
			}
			cur.DiffuseTexture = tex
			cur.TexturePath = texPath
		}
	}
	return mats, scanner.Err()
}

func unitToByte(v float64) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
