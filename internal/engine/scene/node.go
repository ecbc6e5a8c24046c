package scene

import "github.com/Faultbox/arportal/pkg/math"

// Node is a scene graph node with a local TRS transform.
// World matrices are cached and recomputed lazily after a transform
// change, which dirties the node and its whole subtree.
type Node struct {
	Name    string
	Visible bool
	Mesh    *Mesh

	position math.Vec3
	rotation math.Quat
	scale    float32

	parent   *Node
	children []*Node

	world      math.Mat4
	worldDirty bool
}

// NewNode creates a visible node with an identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:       name,
		Visible:    true,
		rotation:   math.QuatIdentity(),
		scale:      1,
		world:      math.Identity(),
		worldDirty: true,
	}
}

// AddChild attaches a child node. A node already parented elsewhere is
// reparented.
func (n *Node) AddChild(child *Node) {
	if child.parent != nil {
		child.parent.RemoveChild(child)
	}
	child.parent = n
	n.children = append(n.children, child)
	child.markDirty()
}

// RemoveChild detaches a child node.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			child.parent = nil
			child.markDirty()
			return
		}
	}
}

// Parent returns the parent node, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Children returns the child slice. Callers must not mutate it.
func (n *Node) Children() []*Node {
	return n.children
}

// Position returns the local position.
func (n *Node) Position() math.Vec3 {
	return n.position
}

// Rotation returns the local rotation.
func (n *Node) Rotation() math.Quat {
	return n.rotation
}

// Scale returns the local uniform scale.
func (n *Node) Scale() float32 {
	return n.scale
}

// SetPosition sets the local position.
func (n *Node) SetPosition(p math.Vec3) {
	n.position = p
	n.markDirty()
}

// SetRotation sets the local rotation.
func (n *Node) SetRotation(q math.Quat) {
	n.rotation = q
	n.markDirty()
}

// SetScale sets the local uniform scale.
func (n *Node) SetScale(s float32) {
	n.scale = s
	n.markDirty()
}

func (n *Node) markDirty() {
	n.worldDirty = true
	for _, c := range n.children {
		c.markDirty()
	}
}

// WorldMatrix returns the node's local-to-world matrix, recomputing the
// cached value if the node was dirtied.
func (n *Node) WorldMatrix() math.Mat4 {
	if n.worldDirty {
		local := math.TRS(n.position, n.rotation, n.scale)
		if n.parent != nil {
			n.world = n.parent.WorldMatrix().Mul(local)
		} else {
			n.world = local
		}
		n.worldDirty = false
	}
	return n.world
}

// WorldToLocal transforms a world-space point into this node's local space.
func (n *Node) WorldToLocal(p math.Vec3) math.Vec3 {
	return n.WorldMatrix().Inverse().TransformVec3(p)
}

// Traverse visits this node and every descendant, depth first.
// Invisible subtrees are still visited; filtering is the caller's job.
func (n *Node) Traverse(fn func(*Node)) {
	fn(n)
	for _, c := range n.children {
		c.Traverse(fn)
	}
}

// ApplyAttrs sets one render profile uniformly on every mesh in the
// subtree. This is the only sanctioned way to change render state, so
// a subtree is always in exactly one profile.
func (n *Node) ApplyAttrs(attrs RenderAttrs) {
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			node.Mesh.Attrs = attrs
		}
	})
}

// SubtreeBounds returns the union of all mesh bounds in the subtree,
// expressed in the local space of the given ancestor node. Passing the
// node itself yields bounds in its own local space. Returns an invalid
// box when the subtree has no mesh geometry.
func (n *Node) SubtreeBounds(space *Node) math.Box3 {
	toSpace := space.WorldMatrix().Inverse()
	out := math.EmptyBox3()
	n.Traverse(func(node *Node) {
		if node.Mesh == nil || !node.Mesh.Bounds.IsValid() {
			return
		}
		m := toSpace.Mul(node.WorldMatrix())
		out = out.Union(node.Mesh.Bounds.Transform(m))
	})
	return out
}
