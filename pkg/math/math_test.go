package math

import (
	gomath "math"
	"testing"
)

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	got := x.Cross(y)
	want := Vec3{0, 0, 1}
	if got != want {
		t.Errorf("Vec3.Cross() = %v, want %v", got, want)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	l := v.Normalize().Length()
	if l < 0.999 || l > 1.001 {
		t.Errorf("Vec3.Normalize().Length() = %v, want ~1", l)
	}
}

func TestVec3NormalizeZero(t *testing.T) {
	got := Vec3{}.Normalize()
	if got != (Vec3{}) {
		t.Errorf("zero vector Normalize() = %v, want zero", got)
	}
}

func TestVec3MinMax(t *testing.T) {
	a := Vec3{1, 5, -2}
	b := Vec3{3, 2, -4}
	if got := a.Min(b); got != (Vec3{1, 2, -4}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{3, 5, -2}) {
		t.Errorf("Max = %v", got)
	}
}

func TestVec3IsFinite(t *testing.T) {
	nan := float32(gomath.NaN())
	inf := float32(gomath.Inf(1))
	tests := []struct {
		v    Vec3
		want bool
	}{
		{Vec3{1, 2, 3}, true},
		{Vec3{nan, 0, 0}, false},
		{Vec3{0, inf, 0}, false},
		{Vec3{}, true},
	}
	for _, tt := range tests {
		if got := tt.v.IsFinite(); got != tt.want {
			t.Errorf("IsFinite(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	result := m.Mul(Identity())
	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTransformVec3Translate(t *testing.T) {
	m := Translate(10, 20, 30)
	got := m.TransformVec3(Vec3{1, 2, 3})
	want := Vec3{11, 22, 33}
	if got != want {
		t.Errorf("TransformVec3: got %v, want %v", got, want)
	}
}

func TestInverseRoundTrip(t *testing.T) {
	m := TRS(Vec3{1, 2, 3}, QuatFromYaw(0.7), 2.5)
	p := Vec3{-4, 5, 6}
	back := m.Inverse().TransformVec3(m.TransformVec3(p))
	if p.Distance(back) > 1e-4 {
		t.Errorf("Inverse round trip: got %v, want %v", back, p)
	}
}

func TestTRSOrder(t *testing.T) {
	// Scale applies first, then rotation, then translation.
	m := TRS(Vec3{10, 0, 0}, QuatFromYaw(float32(gomath.Pi/2)), 2)
	got := m.TransformVec3(Vec3{1, 0, 0})
	// (1,0,0) scaled to (2,0,0), yawed +90deg to (0,0,-2), moved to (10,0,-2).
	want := Vec3{10, 0, -2}
	if got.Distance(want) > 1e-5 {
		t.Errorf("TRS transform: got %v, want %v", got, want)
	}
}

func TestQuatFromYawRotates(t *testing.T) {
	q := QuatFromYaw(float32(gomath.Pi / 2))
	got := q.RotateVec3(Vec3{0, 0, 1})
	want := Vec3{1, 0, 0}
	if got.Distance(want) > 1e-5 {
		t.Errorf("QuatFromYaw rotate: got %v, want %v", got, want)
	}
}

func TestQuatYawPreservesUp(t *testing.T) {
	q := QuatFromYaw(1.234)
	up := Vec3{0, 1, 0}
	got := q.RotateVec3(up)
	if got.Distance(up) > 1e-5 {
		t.Errorf("yaw rotation moved up axis: got %v", got)
	}
}

func TestQuatSlerpEndpoints(t *testing.T) {
	a := QuatFromYaw(0)
	b := QuatFromYaw(1.5)
	if got := a.Slerp(b, 0); got.Dot(a) < 0.9999 {
		t.Errorf("Slerp(0) = %v, want %v", got, a)
	}
	if got := a.Slerp(b, 1); got.Dot(b) < 0.9999 {
		t.Errorf("Slerp(1) = %v, want %v", got, b)
	}
}

func TestBox3ExpandAndSize(t *testing.T) {
	b := EmptyBox3().
		ExpandByPoint(Vec3{-1, 0, 2}).
		ExpandByPoint(Vec3{3, 5, -2})
	if got := b.Size(); got != (Vec3{4, 5, 4}) {
		t.Errorf("Size = %v, want {4 5 4}", got)
	}
	if got := b.Center(); got != (Vec3{1, 2.5, 0}) {
		t.Errorf("Center = %v, want {1 2.5 0}", got)
	}
}

func TestBox3Valid(t *testing.T) {
	if EmptyBox3().IsValid() {
		t.Error("empty box should be invalid")
	}
	b := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	if !b.IsValid() {
		t.Error("unit box should be valid")
	}
	b.Min.X = float32(gomath.NaN())
	if b.IsValid() {
		t.Error("NaN box should be invalid")
	}
}

func TestBox3Transform(t *testing.T) {
	b := Box3{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}
	got := b.Transform(Translate(5, 0, 0))
	if got.Min != (Vec3{5, 0, 0}) || got.Max != (Vec3{6, 1, 1}) {
		t.Errorf("translated box = %+v", got)
	}
}
