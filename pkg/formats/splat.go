// Package formats provides parsers for portal asset file formats.
package formats

import (
	"encoding/binary"
	"errors"
	gomath "math"

	"github.com/Faultbox/arportal/pkg/math"
)

// Splat format errors.
var (
	ErrEmptySplatData     = errors.New("empty splat data")
	ErrTruncatedSplatData = errors.New("truncated splat data: not a multiple of record size")
)

// SplatRecordSize is the on-disk size of one splat record in bytes.
//
// Record layout (little endian):
//
//	position  3 x float32
//	scale     3 x float32
//	color     4 x uint8 (RGBA)
//	rotation  4 x uint8 (quaternion components, 128-biased)
const SplatRecordSize = 32

// Splat is a single decoded Gaussian splat.
type Splat struct {
	Position math.Vec3
	Scale    math.Vec3
	Color    [4]uint8
	Rotation math.Quat
}

// SplatCloud is a decoded .splat file.
type SplatCloud struct {
	Splats []Splat

	// Bounds is the axis-aligned box over all splat positions.
	Bounds math.Box3
}

// Count returns the number of splats.
func (c *SplatCloud) Count() int {
	return len(c.Splats)
}

// ParseSplat decodes a .splat byte stream.
func ParseSplat(data []byte) (*SplatCloud, error) {
	if len(data) == 0 {
		return nil, ErrEmptySplatData
	}
	if len(data)%SplatRecordSize != 0 {
		return nil, ErrTruncatedSplatData
	}

	count := len(data) / SplatRecordSize
	cloud := &SplatCloud{
		Splats: make([]Splat, 0, count),
		Bounds: math.EmptyBox3(),
	}

	for i := 0; i < count; i++ {
		rec := data[i*SplatRecordSize : (i+1)*SplatRecordSize]

		s := Splat{
			Position: math.Vec3{
				X: f32(rec[0:4]),
				Y: f32(rec[4:8]),
				Z: f32(rec[8:12]),
			},
			Scale: math.Vec3{
				X: f32(rec[12:16]),
				Y: f32(rec[16:20]),
				Z: f32(rec[20:24]),
			},
			Color: [4]uint8{rec[24], rec[25], rec[26], rec[27]},
			Rotation: math.Quat{
				W: unbias(rec[28]),
				X: unbias(rec[29]),
				Y: unbias(rec[30]),
				Z: unbias(rec[31]),
			}.Normalize(),
		}

		cloud.Splats = append(cloud.Splats, s)
		if s.Position.IsFinite() {
			cloud.Bounds = cloud.Bounds.ExpandByPoint(s.Position)
		}
	}

	return cloud, nil
}

func f32(b []byte) float32 {
	return gomath.Float32frombits(binary.LittleEndian.Uint32(b))
}

// unbias maps the 128-biased byte encoding back to [-1, 1].
func unbias(b uint8) float32 {
	return (float32(b) - 128) / 128
}
