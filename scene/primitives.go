package scene

import (
	stdmath "math"

	"soft-render/math"
)

// All primitives wind their faces counter-clockwise seen from outside.

func CreateTriangle() *Mesh {
	m := NewMesh("Triangle")
	n := math.Vec3Front
	a := m.AddVertex(math.Vec3{X: -0.5, Y: -0.5}, math.Vec2{X: 0, Y: 0}, n)
	b := m.AddVertex(math.Vec3{X: 0.5, Y: -0.5}, math.Vec2{X: 1, Y: 0}, n)
	c := m.AddVertex(math.Vec3{X: 0, Y: 0.5}, math.Vec2{X: 0.5, Y: 1}, n)
	m.AddTriangle(a, b, c)
	return m
}

func CreateQuad() *Mesh {
	m := NewMesh("Quad")
	n := math.Vec3Front
	a := m.AddVertex(math.Vec3{X: -0.5, Y: -0.5}, math.Vec2{X: 0, Y: 0}, n)
	b := m.AddVertex(math.Vec3{X: 0.5, Y: -0.5}, math.Vec2{X: 1, Y: 0}, n)
	c := m.AddVertex(math.Vec3{X: 0.5, Y: 0.5}, math.Vec2{X: 1, Y: 1}, n)
	d := m.AddVertex(math.Vec3{X: -0.5, Y: 0.5}, math.Vec2{X: 0, Y: 1}, n)
	m.AddTriangle(a, b, c)
	m.AddTriangle(c, d, a)
	return m
}

// CreateCube builds an axis-aligned cube centred on the origin with one
// quad (four vertices) per side.
func CreateCube(size float64) *Mesh {
	m := NewMesh("Cube")
	s := size / 2

	// normal, right and up span each side; corners go counter-clockwise.
	sides := []struct{ normal, right, up math.Vec3 }{
		{math.Vec3Front, math.Vec3Right, math.Vec3Up},
		{math.Vec3Back, math.Vec3Left, math.Vec3Up},
		{math.Vec3Right, math.Vec3Back, math.Vec3Up},
		{math.Vec3Left, math.Vec3Front, math.Vec3Up},
		{math.Vec3Up, math.Vec3Right, math.Vec3Back},
		{math.Vec3Down, math.Vec3Right, math.Vec3Front},
	}
	for _, side := range sides {
		center := side.normal.Mul(s)
		corner := func(x, y float64) math.Vec3 {
			return center.Add(side.right.Mul(x * s)).Add(side.up.Mul(y * s))
		}
		a := m.AddVertex(corner(-1, -1), math.Vec2{X: 0, Y: 0}, side.normal)
		b := m.AddVertex(corner(1, -1), math.Vec2{X: 1, Y: 0}, side.normal)
		c := m.AddVertex(corner(1, 1), math.Vec2{X: 1, Y: 1}, side.normal)
		d := m.AddVertex(corner(-1, 1), math.Vec2{X: 0, Y: 1}, side.normal)
		m.AddTriangle(a, b, c)
		m.AddTriangle(c, d, a)
	}
	return m
}

// CreateSphere generates a UV-sphere mesh
func CreateSphere(radius float64, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	m := NewMesh("Sphere")
	for ring := 0; ring <= rings; ring++ {
		phi := float64(ring) * stdmath.Pi / float64(rings)
		sinPhi, cosPhi := stdmath.Sin(phi), stdmath.Cos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float64(seg) * 2.0 * stdmath.Pi / float64(segments)
			normal := math.Vec3{X: sinPhi * stdmath.Cos(theta), Y: cosPhi, Z: sinPhi * stdmath.Sin(theta)}
			uv := math.Vec2{X: float64(seg) / float64(segments), Y: 1 - float64(ring)/float64(rings)}
			m.AddVertex(normal.Mul(radius), uv, normal)
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := ring*(segments+1) + seg
			next := current + segments + 1
			// The pole rows collapse to a point; skip the zero-area half.
			if ring != 0 {
				m.AddTriangle(current, current+1, next)
			}
			if ring != rings-1 {
				m.AddTriangle(current+1, next+1, next)
			}
		}
	}
	return m
}

// CreatePlane generates a flat plane facing +Y
func CreatePlane(width, depth float64, subdivisions int) *Mesh {
	if subdivisions < 1 {
		subdivisions = 1
	}

	m := NewMesh("Plane")
	halfW := width / 2.0
	halfD := depth / 2.0

	for z := 0; z <= subdivisions; z++ {
		for x := 0; x <= subdivisions; x++ {
			u := float64(x) / float64(subdivisions)
			v := float64(z) / float64(subdivisions)
			pos := math.Vec3{X: -halfW + u*width, Y: 0, Z: -halfD + v*depth}
			m.AddVertex(pos, math.Vec2{X: u, Y: 1 - v}, math.Vec3Up)
		}
	}

	for z := 0; z < subdivisions; z++ {
		for x := 0; x < subdivisions; x++ {
			topLeft := z*(subdivisions+1) + x
			topRight := topLeft + 1
			bottomLeft := topLeft + subdivisions + 1
			bottomRight := bottomLeft + 1

			m.AddTriangle(topLeft, bottomLeft, topRight)
			m.AddTriangle(topRight, bottomLeft, bottomRight)
		}
	}
	return m
}
