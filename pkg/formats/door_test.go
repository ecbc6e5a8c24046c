package formats

import (
	"errors"
	"testing"
)

func TestParseDoorValid(t *testing.T) {
	data := []byte(`
width: 0.78
height: 1.85
thickness: 0.06
color: [0.55, 0.4, 0.25]
hinge_offset: 0.02
open:
  keys:
    - {time: 0.0, yaw: 0.0}
    - {time: 0.8, yaw: 1.2}
    - {time: 1.4, yaw: 1.9}
`)

	d, err := ParseDoor(data)
	if err != nil {
		t.Fatalf("ParseDoor failed: %v", err)
	}
	if d.Width != 0.78 || d.Height != 1.85 {
		t.Errorf("dimensions = %v x %v", d.Width, d.Height)
	}
	if d.Open == nil {
		t.Fatal("expected open animation")
	}
	if got := d.Open.Duration(); got != 1.4 {
		t.Errorf("Duration() = %v, want 1.4", got)
	}
}

func TestParseDoorNoAnimation(t *testing.T) {
	d, err := ParseDoor([]byte("width: 1\nheight: 2\n"))
	if err != nil {
		t.Fatalf("ParseDoor failed: %v", err)
	}
	if d.Open != nil {
		t.Error("expected nil animation")
	}
	if d.Thickness != 0.05 {
		t.Errorf("default thickness = %v, want 0.05", d.Thickness)
	}
}

func TestParseDoorInvalid(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want error
	}{
		{
			name: "zero width",
			yaml: "width: 0\nheight: 2\n",
			want: ErrInvalidDoorSize,
		},
		{
			name: "negative height",
			yaml: "width: 1\nheight: -2\n",
			want: ErrInvalidDoorSize,
		},
		{
			name: "unsorted keys",
			yaml: "width: 1\nheight: 2\nopen:\n  keys:\n    - {time: 1.0, yaw: 0}\n    - {time: 0.5, yaw: 1}\n",
			want: ErrUnsortedDoorKeys,
		},
		{
			name: "empty animation",
			yaml: "width: 1\nheight: 2\nopen:\n  keys: []\n",
			want: ErrEmptyDoorAnimation,
		},
		{
			name: "negative key time",
			yaml: "width: 1\nheight: 2\nopen:\n  keys:\n    - {time: -0.5, yaw: 0}\n",
			want: ErrBadDoorKeyTime,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseDoor([]byte(tt.yaml)); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestParseDoorBadYAML(t *testing.T) {
	if _, err := ParseDoor([]byte("width: [not a number")); err == nil {
		t.Error("expected error for malformed YAML")
	}
}
