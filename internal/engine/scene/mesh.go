package scene

import "github.com/Faultbox/arportal/pkg/math"

// Primitive is the draw primitive type of a mesh.
type Primitive uint8

// Primitive types.
const (
	Triangles Primitive = iota
	Points
)

// Mesh is a drawable attached to a scene node.
//
// Vertices are interleaved as x, y, z, r, g, b (6 floats per vertex).
// Bounds are in the mesh's local space and must be kept in sync with
// Vertices by whoever builds the mesh.
type Mesh struct {
	Primitive Primitive
	Vertices  []float32
	Bounds    math.Box3
	Attrs     RenderAttrs

	// GPU is renderer-owned upload state. Zero until first draw.
	GPU GPUState
}

// GPUState holds the renderer's buffer handles for a mesh.
type GPUState struct {
	VAO, VBO uint32
	Count    int32
	Uploaded bool
}

// VertexStride is the number of floats per vertex.
const VertexStride = 6

// NewMesh creates a mesh from interleaved vertex data, computing bounds
// from the position components.
func NewMesh(prim Primitive, vertices []float32) *Mesh {
	m := &Mesh{
		Primitive: prim,
		Vertices:  vertices,
		Bounds:    math.EmptyBox3(),
		Attrs:     DefaultAttrs(),
	}
	for i := 0; i+2 < len(vertices); i += VertexStride {
		m.Bounds = m.Bounds.ExpandByPoint(math.Vec3{
			X: vertices[i],
			Y: vertices[i+1],
			Z: vertices[i+2],
		})
	}
	return m
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / VertexStride
}
