package scene

import (
	"soft-render/math"
)

// Light is a point light used by Gouraud shading.
type Light struct {
	Position  math.Vec3
	Intensity float64
	Ambient   float64 // added to every vertex intensity
}

func DefaultLight() Light {
	return Light{
		Position:  math.Vec3{X: 2, Y: 3, Z: 4},
		Intensity: 1,
		Ambient:   0.1,
	}
}

// Scene is a node graph seen through one camera.
type Scene struct {
	Root   *Node
	Camera *OrbitCamera
	Light  Light
}

func NewScene() *Scene {
	return &Scene{
		Root:   NewNode("Root"),
		Camera: NewOrbitCamera(math.Vec3Zero, 3, 1.0472), // 60 degrees FOV
		Light:  DefaultLight(),
	}
}

func (s *Scene) AddNode(node *Node) {
	s.Root.AddChild(node)
}

func (s *Scene) RemoveNode(node *Node) {
	s.Root.RemoveChild(node)
}

// MeshNodes returns every node that carries a mesh and is not hidden by
// itself or an ancestor.
func (s *Scene) MeshNodes() []*Node {
	var nodes []*Node
	s.Root.Walk(func(node *Node) bool {
		if !node.Visible {
			return false
		}
		if node.Mesh != nil {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// GetVisibleNodes returns the mesh nodes whose world bounds intersect the
// camera frustum at the given aspect ratio.
func (s *Scene) GetVisibleNodes(aspect float64) []*Node {
	f := s.Camera.Frustum(aspect)
	var visible []*Node
	for _, node := range s.MeshNodes() {
		if ComputeAABB(node.Mesh, node.WorldMatrix()).IntersectsFrustum(&f) {
			visible = append(visible, node)
		}
	}
	return visible
}

// Bounds returns the world-space box around every mesh node.
func (s *Scene) Bounds() (AABB, bool) {
	var box AABB
	found := false
	for _, node := range s.MeshNodes() {
		if len(node.Mesh.Positions) == 0 {
			continue
		}
		b := ComputeAABB(node.Mesh, node.WorldMatrix())
		if !found {
			box, found = b, true
			continue
		}
		box.Min = math.Vec3{X: min(box.Min.X, b.Min.X), Y: min(box.Min.Y, b.Min.Y), Z: min(box.Min.Z, b.Min.Z)}
		box.Max = math.Vec3{X: max(box.Max.X, b.Max.X), Y: max(box.Max.Y, b.Max.Y), Z: max(box.Max.Z, b.Max.Z)}
	}
	return box, found
}
