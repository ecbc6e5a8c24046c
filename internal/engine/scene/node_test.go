package scene

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/arportal/pkg/math"
)

func TestWorldMatrixChain(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)

	root.SetPosition(math.Vec3{X: 10, Y: 0, Z: 0})
	child.SetPosition(math.Vec3{X: 0, Y: 5, Z: 0})

	got := child.WorldMatrix().TransformVec3(math.Vec3{})
	want := math.Vec3{X: 10, Y: 5, Z: 0}
	if got.Distance(want) > 1e-5 {
		t.Errorf("child world origin = %v, want %v", got, want)
	}
}

func TestWorldMatrixDirtyPropagation(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)

	// Force both caches to compute.
	_ = child.WorldMatrix()

	// Moving the root must be visible through the child's cached matrix.
	root.SetPosition(math.Vec3{X: 3, Y: 0, Z: 0})
	got := child.WorldMatrix().TransformVec3(math.Vec3{})
	if got != (math.Vec3{X: 3, Y: 0, Z: 0}) {
		t.Errorf("stale child world matrix after parent move: %v", got)
	}
}

func TestWorldToLocal(t *testing.T) {
	n := NewNode("assembly")
	n.SetPosition(math.Vec3{X: 0, Y: 0, Z: -2})
	n.SetRotation(math.QuatFromYaw(float32(gomath.Pi)))

	// A point 1m in front of the node along its +Z should have localZ=1.
	world := n.WorldMatrix().TransformVec3(math.Vec3{Z: 1})
	local := n.WorldToLocal(world)
	if local.Distance(math.Vec3{Z: 1}) > 1e-5 {
		t.Errorf("WorldToLocal = %v, want {0 0 1}", local)
	}
}

func TestRemoveChild(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	root.AddChild(b)

	root.RemoveChild(a)
	if len(root.Children()) != 1 || root.Children()[0] != b {
		t.Errorf("children after remove = %v", root.Children())
	}
	if a.Parent() != nil {
		t.Error("removed child still has parent")
	}
}

func TestReparentMovesNode(t *testing.T) {
	p1 := NewNode("p1")
	p2 := NewNode("p2")
	c := NewNode("c")
	p1.AddChild(c)
	p2.AddChild(c)

	if len(p1.Children()) != 0 {
		t.Error("old parent still holds reparented child")
	}
	if c.Parent() != p2 {
		t.Error("child not attached to new parent")
	}
}

func TestApplyAttrsSubtree(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	root.AddChild(a)
	a.AddChild(b)

	a.Mesh = NewMesh(Triangles, nil)
	b.Mesh = NewMesh(Points, nil)

	attrs := DefaultAttrs()
	attrs.RenderOrder = 1
	attrs.StencilEnabled = true
	attrs.StencilFunc = StencilEqual
	attrs.StencilRef = 1
	root.ApplyAttrs(attrs)

	if a.Mesh.Attrs != attrs || b.Mesh.Attrs != attrs {
		t.Error("ApplyAttrs did not reach every mesh in the subtree")
	}
}

func TestSubtreeBounds(t *testing.T) {
	root := NewNode("root")
	child := NewNode("child")
	root.AddChild(child)

	// Unit quad at origin in child space.
	child.Mesh = NewMesh(Triangles, []float32{
		0, 0, 0, 1, 1, 1,
		1, 1, 0, 1, 1, 1,
	})
	child.SetPosition(math.Vec3{X: 2, Y: 0, Z: 0})
	child.SetScale(3)

	b := root.SubtreeBounds(root)
	if !b.IsValid() {
		t.Fatal("expected valid bounds")
	}
	if b.Min.Distance(math.Vec3{X: 2, Y: 0, Z: 0}) > 1e-5 {
		t.Errorf("bounds min = %v", b.Min)
	}
	if b.Max.Distance(math.Vec3{X: 5, Y: 3, Z: 0}) > 1e-5 {
		t.Errorf("bounds max = %v", b.Max)
	}
}

func TestSubtreeBoundsEmpty(t *testing.T) {
	if NewNode("empty").SubtreeBounds(NewNode("empty")).IsValid() {
		t.Error("meshless subtree should yield invalid bounds")
	}
}

func TestMeshBoundsFromVertices(t *testing.T) {
	m := NewMesh(Points, []float32{
		-1, -2, -3, 0, 0, 0,
		4, 5, 6, 0, 0, 0,
	})
	if m.Bounds.Min != (math.Vec3{X: -1, Y: -2, Z: -3}) {
		t.Errorf("Min = %v", m.Bounds.Min)
	}
	if m.Bounds.Max != (math.Vec3{X: 4, Y: 5, Z: 6}) {
		t.Errorf("Max = %v", m.Bounds.Max)
	}
	if m.VertexCount() != 2 {
		t.Errorf("VertexCount = %d, want 2", m.VertexCount())
	}
}
