package ik

import (
	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/logging"
	"go.viam.com/planarik/utils/matrix"
)

// Jacobian is a gradient style solver built on the 2xN positional Jacobian of
// the chain. Each step moves every joint by a small multiple of its entry in
// the joint-space direction selected by the method.
type Jacobian struct {
	method       Method
	learningRate float64
	tolerance    float64
	epsilon      float64
	logger       logging.Logger
}

// NewJacobian returns a Jacobian solver. Zero valued options fall back to DefaultJacobianOptions.
func NewJacobian(opts Options, logger logging.Logger) (*Jacobian, error) {
	opts = opts.withDefaults(DefaultJacobianOptions(opts.Method))
	if opts.Method != Transpose && opts.Method != PseudoInverse {
		return nil, errors.Wrapf(ErrUnknownMethod, "%d", int(opts.Method))
	}
	return &Jacobian{
		method:       opts.Method,
		learningRate: opts.LearningRate,
		tolerance:    opts.Tolerance,
		epsilon:      opts.Epsilon,
		logger:       logger,
	}, nil
}

// Method returns the method used to compute joint deltas.
func (s *Jacobian) Method() Method {
	return s.method
}

// Name returns "jacobian-" followed by the method.
func (s *Jacobian) Name() string {
	return "jacobian-" + s.method.String()
}

// Step computes joint deltas for the current error and applies them tip to root.
func (s *Jacobian) Step(c *chain.Chain, target r2.Point) error {
	if err := checkSolvable(c); err != nil {
		return err
	}
	dTheta, err := s.deltas(c, target)
	if err != nil {
		return err
	}
	for k := c.Len() - 1; k >= 0; k-- {
		if err := c.RotateJoint(k, s.learningRate*dTheta[k]); err != nil {
			return err
		}
	}
	s.logger.Debugw("jacobian step", "method", s.method, "distance", c.DistanceTo(target))
	return nil
}

// Converged is true once a step moved the end effector less than epsilon.
func (s *Jacobian) Converged(before, after, _ r2.Point) bool {
	return after.Sub(before).Norm() < s.epsilon
}

// deltas returns one unscaled angle delta in radians per joint, root first.
func (s *Jacobian) deltas(c *chain.Chain, target r2.Point) ([]float64, error) {
	end := c.EndEffector()
	errVec := target.Sub(end)
	v, err := matrix.NewColumn(errVec.X, errVec.Y)
	if err != nil {
		return nil, err
	}

	jac, err := jacobian(c)
	if err != nil {
		return nil, err
	}
	jt := jac.T()

	var step *matrix.Matrix
	switch s.method {
	case Transpose:
		step, err = jt.Mul(v)
	case PseudoInverse:
		// J^T (J J^T)^+ keeps the inverted matrix 2x2 regardless of joint count.
		var jjt, pinv, inner *matrix.Matrix
		if jjt, err = jac.Mul(jt); err != nil {
			return nil, err
		}
		if pinv, err = jjt.PseudoInverse(s.tolerance); err != nil {
			return nil, err
		}
		if inner, err = pinv.Mul(v); err != nil {
			return nil, err
		}
		step, err = jt.Mul(inner)
	default:
		return nil, errors.Wrapf(ErrUnknownMethod, "%d", int(s.method))
	}
	if err != nil {
		return nil, err
	}
	return step.Col(0)
}

// jacobian builds the 2xN matrix whose column j is the end effector velocity
// for a unit angular velocity at joint j.
func jacobian(c *chain.Chain) (*matrix.Matrix, error) {
	end := c.EndEffector()
	positions := c.Positions()
	data := make([]float64, 2*len(positions))
	n := len(positions)
	for j, p := range positions {
		data[j] = -(end.Y - p.Y)
		data[n+j] = end.X - p.X
	}
	return matrix.NewFromData(2, n, data)
}
