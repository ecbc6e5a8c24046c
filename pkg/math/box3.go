package math

// Box3 is an axis-aligned bounding box.
type Box3 struct {
	Min, Max Vec3
}

// EmptyBox3 returns an inverted box that any ExpandByPoint call will fix up.
func EmptyBox3() Box3 {
	const big = float32(3.4e38)
	return Box3{
		Min: Vec3{big, big, big},
		Max: Vec3{-big, -big, -big},
	}
}

// ExpandByPoint grows the box to contain the point.
func (b Box3) ExpandByPoint(p Vec3) Box3 {
	return Box3{
		Min: b.Min.Min(p),
		Max: b.Max.Max(p),
	}
}

// Union returns the smallest box containing both boxes.
func (b Box3) Union(other Box3) Box3 {
	return Box3{
		Min: b.Min.Min(other.Min),
		Max: b.Max.Max(other.Max),
	}
}

// Size returns the extents along each axis.
func (b Box3) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b Box3) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IsValid reports whether the box is finite and not inverted.
func (b Box3) IsValid() bool {
	if !b.Min.IsFinite() || !b.Max.IsFinite() {
		return false
	}
	return b.Min.X <= b.Max.X && b.Min.Y <= b.Max.Y && b.Min.Z <= b.Max.Z
}

// Transform returns the axis-aligned box containing this box after the
// given transform (all eight corners transformed, then re-bounded).
func (b Box3) Transform(m Mat4) Box3 {
	out := EmptyBox3()
	for _, x := range [2]float32{b.Min.X, b.Max.X} {
		for _, y := range [2]float32{b.Min.Y, b.Max.Y} {
			for _, z := range [2]float32{b.Min.Z, b.Max.Z} {
				out = out.ExpandByPoint(m.TransformVec3(Vec3{x, y, z}))
			}
		}
	}
	return out
}
