package scene

import (
	"soft-render/core"
	"soft-render/math"
)

// Node places a mesh in the scene graph. Its world matrix is the parent's
// world matrix times its own transform, cached until the node or one of
// its ancestors changes.
type Node struct {
	Name string
	Mesh *Mesh
	// Visible false hides the node and everything below it.
	Visible bool

	local    core.Transform
	parent   *Node
	children []*Node

	world      math.Mat4
	worldValid bool
}

func NewNode(name string) *Node {
	return &Node{Name: name, local: core.NewTransform(), Visible: true}
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// Transform returns the node's transform relative to its parent.
func (n *Node) Transform() core.Transform { return n.local }

// AddChild attaches child to n, detaching it from its previous parent.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	child.invalidate()
}

// RemoveChild detaches child. It is a no-op when child is not a direct
// child of n.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c != child {
			continue
		}
		n.children = append(n.children[:i], n.children[i+1:]...)
		child.parent = nil
		child.invalidate()
		return
	}
}

// WorldMatrix maps the node's local space to world space.
func (n *Node) WorldMatrix() math.Mat4 {
	if !n.worldValid {
		n.world = n.local.GetMatrix()
		if n.parent != nil {
			n.world = n.parent.WorldMatrix().Mul(n.world)
		}
		n.worldValid = true
	}
	return n.world
}

func (n *Node) invalidate() {
	n.worldValid = false
	for _, c := range n.children {
		c.invalidate()
	}
}

func (n *Node) SetTransform(t core.Transform) {
	n.local = t
	n.invalidate()
}

func (n *Node) SetPosition(pos math.Vec3) {
	n.local.Position = pos
	n.invalidate()
}

func (n *Node) SetScale(scale math.Vec3) {
	n.local.Scale = scale
	n.invalidate()
}

// Walk visits n and its descendants depth first. Returning false from fn
// skips the node's children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.children {
		c.Walk(fn)
	}
}

// Find returns the first node named name in depth-first order, or nil.
func (n *Node) Find(name string) *Node {
	var found *Node
	n.Walk(func(node *Node) bool {
		if found == nil && node.Name == name {
			found = node
		}
		return found == nil
	})
	return found
}
