package chain

import (
	"math"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/planarik/utils"
)

// Joint is a rotational pivot at the base of one rigid link.
//   - the position is a cached world-space location, rewritten by forward
//     kinematics and by solver rotations.
//   - the angle is in degrees in (-180, 180], relative to the parent link's
//     direction; the root joint is relative to the world +X axis.
//   - the length of the link starting at this joint never changes.
type Joint struct {
	position r2.Point
	angle    float64
	length   float64
}

// NewJoint returns a joint with a normalized angle. The length must be finite and non-negative.
func NewJoint(position r2.Point, angleDeg, length float64) (Joint, error) {
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return Joint{}, errors.Wrapf(ErrInvalidLength, "%v", length)
	}
	return Joint{
		position: position,
		angle:    utils.NormalizeDegrees(angleDeg),
		length:   length,
	}, nil
}

// Position returns the world-space pivot of the joint.
func (j Joint) Position() r2.Point {
	return j.position
}

// Angle returns the joint angle in degrees.
func (j Joint) Angle() float64 {
	return j.angle
}

// Length returns the length of the link that starts at this joint.
func (j Joint) Length() float64 {
	return j.length
}

func rotateAbout(p, pivot r2.Point, cos, sin float64) r2.Point {
	d := p.Sub(pivot)
	return r2.Point{
		X: pivot.X + d.X*cos - d.Y*sin,
		Y: pivot.Y + d.X*sin + d.Y*cos,
	}
}

func heading(v r2.Point) float64 {
	return math.Atan2(v.Y, v.X)
}
