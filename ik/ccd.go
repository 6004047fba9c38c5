package ik

import (
	"math"

	"github.com/golang/geo/r2"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/logging"
)

// CCD is a Cyclic Coordinate Descent solver. One step visits every joint from
// the tip to the root and turns each so that the end effector lies on the ray
// from that joint toward the target.
type CCD struct {
	epsilon float64
	logger  logging.Logger
}

// NewCCD returns a CCD solver that reports convergence once the end effector
// is within opts.Epsilon of the target.
func NewCCD(opts Options, logger logging.Logger) *CCD {
	opts = opts.withDefaults(DefaultCCDOptions())
	return &CCD{epsilon: opts.Epsilon, logger: logger}
}

// Name returns "ccd".
func (s *CCD) Name() string {
	return "ccd"
}

// Step runs one tip-to-root pass over the chain.
func (s *CCD) Step(c *chain.Chain, target r2.Point) error {
	if err := checkSolvable(c); err != nil {
		return err
	}
	for k := c.Len() - 1; k >= 0; k-- {
		j, err := c.Joint(k)
		if err != nil {
			return err
		}
		toEnd := c.EndEffector().Sub(j.Position())
		toTarget := target.Sub(j.Position())
		delta := math.Atan2(toTarget.Y, toTarget.X) - math.Atan2(toEnd.Y, toEnd.X)
		if err := c.RotateJoint(k, delta); err != nil {
			return err
		}
	}
	s.logger.Debugw("ccd step", "distance", c.DistanceTo(target))
	return nil
}

// Converged is true once the end effector is within epsilon of the target.
func (s *CCD) Converged(_, after, target r2.Point) bool {
	return after.Sub(target).Norm() < s.epsilon
}
