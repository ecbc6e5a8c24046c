// Package renderer provides OpenGL rendering for the portal scene graph.
//
// Everything draws into one framebuffer with one shared depth/stencil
// buffer. The renderer itself has no notion of "portal content" versus
// "mask": it sorts meshes by render order and applies each mesh's render
// attributes verbatim. Which attributes achieve the portal illusion is
// decided elsewhere.
package renderer

import (
	"fmt"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/arportal/internal/engine/camera"
	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/internal/engine/shader"
	"github.com/Faultbox/arportal/internal/logger"
	"github.com/Faultbox/arportal/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// ClearColor is the background color (stand-in for the camera feed).
	ClearColor [3]float32
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config

	program uint32
	locMVP  int32

	stencilBits int32

	// meshes tracks every uploaded mesh for cleanup.
	meshes []*scene.Mesh
}

const vertexShaderSource = `#version 410 core
layout(location = 0) in vec3 aPos;
layout(location = 1) in vec3 aColor;
uniform mat4 uMVP;
out vec3 vColor;
void main() {
	gl_Position = uMVP * vec4(aPos, 1.0);
	gl_PointSize = 3.0;
	vColor = aColor;
}
`

const fragmentShaderSource = `#version 410 core
in vec3 vColor;
out vec4 fragColor;
void main() {
	fragColor = vec4(vColor, 1.0);
}
`

// New creates a new renderer.
// Must be called AFTER the OpenGL context is created.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		config: cfg,
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))

	// Capability query up front: the compositing strategy is chosen from
	// this, never discovered mid-frame.
	gl.GetIntegerv(gl.STENCIL_BITS, &r.stencilBits)

	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
		zap.Int32("stencil_bits", r.stencilBits),
	)

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.ClearColor(cfg.ClearColor[0], cfg.ClearColor[1], cfg.ClearColor[2], 1.0)

	var err error
	r.program, err = shader.CompileProgram(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		return nil, fmt.Errorf("failed to create shader program: %w", err)
	}
	r.locMVP = shader.MustUniform(r.program, "uMVP")

	return r, nil
}

// HasStencil reports whether the framebuffer carries a stencil plane.
func (r *Renderer) HasStencil() bool {
	return r.stencilBits > 0
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer")
	for _, m := range r.meshes {
		if m.GPU.Uploaded {
			gl.DeleteVertexArrays(1, &m.GPU.VAO)
			gl.DeleteBuffers(1, &m.GPU.VBO)
			m.GPU = scene.GPUState{}
		}
	}
	r.meshes = nil
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
}

type drawItem struct {
	mesh  *scene.Mesh
	world math.Mat4
	order int
}

// RenderFrame clears the framebuffer and draws the visible scene graph
// in ascending render order.
func (r *Renderer) RenderFrame(root *scene.Node, cam *camera.Camera) {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT | gl.STENCIL_BUFFER_BIT)

	items := make([]drawItem, 0, 16)
	collectVisible(root, &items)

	// Stable order: equal render orders keep tree order.
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].order < items[j].order
	})

	viewProj := cam.ProjectionMatrix().Mul(cam.ViewMatrix())

	gl.UseProgram(r.program)
	for _, item := range items {
		r.applyAttrs(item.mesh.Attrs)

		mvp := viewProj.Mul(item.world)
		gl.UniformMatrix4fv(r.locMVP, 1, false, mvp.Ptr())

		r.drawMesh(item.mesh)
	}

	// Leave well-known state for the next frame's clear.
	gl.ColorMask(true, true, true, true)
	gl.DepthMask(true)
	gl.Disable(gl.STENCIL_TEST)
}

func collectVisible(n *scene.Node, items *[]drawItem) {
	if !n.Visible {
		return
	}
	if n.Mesh != nil && len(n.Mesh.Vertices) > 0 {
		*items = append(*items, drawItem{
			mesh:  n.Mesh,
			world: n.WorldMatrix(),
			order: n.Mesh.Attrs.RenderOrder,
		})
	}
	for _, c := range n.Children() {
		collectVisible(c, items)
	}
}

// applyAttrs translates a render profile into GL state.
func (r *Renderer) applyAttrs(a scene.RenderAttrs) {
	gl.ColorMask(a.ColorWrite, a.ColorWrite, a.ColorWrite, a.ColorWrite)

	if a.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	gl.DepthMask(a.DepthWrite)

	if a.StencilEnabled {
		gl.Enable(gl.STENCIL_TEST)
		switch a.StencilFunc {
		case scene.StencilEqual:
			gl.StencilFunc(gl.EQUAL, int32(a.StencilRef), 0xFF)
		default:
			gl.StencilFunc(gl.ALWAYS, int32(a.StencilRef), 0xFF)
		}
		switch a.StencilPass {
		case scene.StencilReplace:
			gl.StencilOp(gl.KEEP, gl.KEEP, gl.REPLACE)
		default:
			gl.StencilOp(gl.KEEP, gl.KEEP, gl.KEEP)
		}
		gl.StencilMask(0xFF)
	} else {
		gl.Disable(gl.STENCIL_TEST)
	}
}

func (r *Renderer) drawMesh(m *scene.Mesh) {
	if !m.GPU.Uploaded {
		r.uploadMesh(m)
	}

	gl.BindVertexArray(m.GPU.VAO)
	switch m.Primitive {
	case scene.Points:
		gl.DrawArrays(gl.POINTS, 0, m.GPU.Count)
	default:
		gl.DrawArrays(gl.TRIANGLES, 0, m.GPU.Count)
	}
	gl.BindVertexArray(0)
}

func (r *Renderer) uploadMesh(m *scene.Mesh) {
	gl.GenVertexArrays(1, &m.GPU.VAO)
	gl.GenBuffers(1, &m.GPU.VBO)

	gl.BindVertexArray(m.GPU.VAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.GPU.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(m.Vertices)*4, gl.Ptr(m.Vertices), gl.STATIC_DRAW)

	stride := int32(scene.VertexStride * 4)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, uintptr(3*4))

	gl.BindVertexArray(0)

	m.GPU.Count = int32(m.VertexCount())
	m.GPU.Uploaded = true
	r.meshes = append(r.meshes, m)
}

// ReleaseMesh frees a mesh's GPU buffers, e.g. when content is swapped out.
func (r *Renderer) ReleaseMesh(m *scene.Mesh) {
	if !m.GPU.Uploaded {
		return
	}
	gl.DeleteVertexArrays(1, &m.GPU.VAO)
	gl.DeleteBuffers(1, &m.GPU.VBO)
	m.GPU = scene.GPUState{}
	for i, tracked := range r.meshes {
		if tracked == m {
			r.meshes = append(r.meshes[:i], r.meshes[i+1:]...)
			break
		}
	}
}
