package portal

import (
	"github.com/Faultbox/arportal/internal/engine/scene"
	"github.com/Faultbox/arportal/pkg/formats"
)

// hiderExtent is how far the hider cage planes extend beyond the opening
// on each side, in meters. Large enough to cover the field of view at
// any reasonable viewing angle.
const hiderExtent = 12.0

// quad appends two triangles spanning [x0,x1]x[y0,y1] at depth z.
func quad(verts []float32, x0, y0, x1, y1, z float32, color [3]float32) []float32 {
	r, g, b := color[0], color[1], color[2]
	return append(verts,
		x0, y0, z, r, g, b,
		x1, y0, z, r, g, b,
		x1, y1, z, r, g, b,
		x0, y0, z, r, g, b,
		x1, y1, z, r, g, b,
		x0, y1, z, r, g, b,
	)
}

// buildMaskMesh creates the opening-sized stencil mask quad. Base at
// local Y=0, centered (plus offset) on X, lying in the Z=0 plane. It
// never writes color, so its vertex color does not matter.
func buildMaskMesh(o Opening) *scene.Mesh {
	x0 := o.OffsetX - o.Width/2
	x1 := o.OffsetX + o.Width/2
	return scene.NewMesh(scene.Triangles, quad(nil, x0, 0, x1, o.Height, 0, [3]float32{0, 0, 0}))
}

// buildHiderMesh creates the four-plane occluder cage around the
// opening: left, right, top and bottom walls in the opening plane,
// reaching hiderExtent beyond the opening in every direction. The cage
// only depth-writes; like the mask, its color never reaches the screen.
func buildHiderMesh(o Opening) *scene.Mesh {
	x0 := o.OffsetX - o.Width/2
	x1 := o.OffsetX + o.Width/2
	black := [3]float32{0, 0, 0}

	var v []float32
	// Left and right walls span the full cage height.
	v = quad(v, x0-hiderExtent, -hiderExtent, x0, o.Height+hiderExtent, 0, black)
	v = quad(v, x1, -hiderExtent, x1+hiderExtent, o.Height+hiderExtent, 0, black)
	// Top and bottom walls fill the remaining strips above and below.
	v = quad(v, x0, o.Height, x1, o.Height+hiderExtent, 0, black)
	v = quad(v, x0, -hiderExtent, x1, 0, 0, black)

	return scene.NewMesh(scene.Triangles, v)
}

// buildFrameMesh creates the door frame border: two jambs and a lintel
// hugging the opening. Used for both loaded door assets and the
// placeholder when the asset fails to load.
func buildFrameMesh(o Opening, thickness float32, color [3]float32) *scene.Mesh {
	x0 := o.OffsetX - o.Width/2
	x1 := o.OffsetX + o.Width/2
	t := thickness

	var v []float32
	v = quad(v, x0-t, 0, x0, o.Height+t, 0, color) // left jamb
	v = quad(v, x1, 0, x1+t, o.Height+t, 0, color) // right jamb
	v = quad(v, x0, o.Height, x1, o.Height+t, 0, color)  // lintel
	return scene.NewMesh(scene.Triangles, v)
}

// buildPanelMesh creates the swinging door panel with its hinge edge at
// local X=0, so rotating the panel node around Y swings it open.
func buildPanelMesh(width, height float32, color [3]float32) *scene.Mesh {
	return scene.NewMesh(scene.Triangles, quad(nil, 0, 0, width, height, 0, color))
}

// buildContentMesh converts a decoded splat cloud into a renderable
// point mesh. The mesh bounds come from the cloud's position bounds, not
// from re-scanning vertices, so non-finite positions already filtered by
// the decoder cannot poison the fit.
func buildContentMesh(cloud *formats.SplatCloud) *scene.Mesh {
	verts := make([]float32, 0, len(cloud.Splats)*scene.VertexStride)
	for _, s := range cloud.Splats {
		verts = append(verts,
			s.Position.X, s.Position.Y, s.Position.Z,
			float32(s.Color[0])/255, float32(s.Color[1])/255, float32(s.Color[2])/255,
		)
	}
	m := scene.NewMesh(scene.Points, verts)
	m.Bounds = cloud.Bounds
	return m
}
