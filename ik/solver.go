// Package ik contains the inverse kinematics solvers for planar chains and
// the iteration driver that runs them toward a target.
package ik

import (
	"strings"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"

	"go.viam.com/planarik/chain"
	"go.viam.com/planarik/logging"
)

var (
	// ErrEmptyChain is returned when solving a chain with no joints.
	ErrEmptyChain = errors.New("cannot solve a chain with no joints")
	// ErrChainNotFrozen is returned when solving a chain whose structure is still being built.
	ErrChainNotFrozen = errors.New("chain must be frozen before solving")
	// ErrUnknownMethod is returned for a Jacobian method or solver name that does not exist.
	ErrUnknownMethod = errors.New("unknown solver method")
)

// Solver moves a chain's end effector toward a target one step at a time.
type Solver interface {
	// Step performs one solver iteration, rotating joints of c in place.
	Step(c *chain.Chain, target r2.Point) error

	// Converged reports whether iteration should stop, given the end effector
	// before and after the latest step.
	Converged(before, after, target r2.Point) bool

	// Name identifies the solver in logs and reports.
	Name() string
}

// Target is the world-space goal of the end effector. It is inactive until
// first placed and after a reset.
type Target struct {
	Point  r2.Point
	Active bool
}

// Method selects how the Jacobian solver turns the end effector error into joint deltas.
type Method int

const (
	// Transpose uses the Jacobian transpose.
	Transpose Method = iota
	// PseudoInverse uses the Moore-Penrose pseudoinverse of the Jacobian.
	PseudoInverse
)

func (m Method) String() string {
	switch m {
	case Transpose:
		return "transpose"
	case PseudoInverse:
		return "pseudoinverse"
	default:
		return "unknown"
	}
}

// MethodFromString parses a method name. "pinv" is accepted as a short form of "pseudoinverse".
func MethodFromString(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "transpose":
		return Transpose, nil
	case "pseudoinverse", "pinv":
		return PseudoInverse, nil
	default:
		return 0, errors.Wrapf(ErrUnknownMethod, "%q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Method) MarshalText() ([]byte, error) {
	if m != Transpose && m != PseudoInverse {
		return nil, errors.Wrapf(ErrUnknownMethod, "%d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := MethodFromString(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func checkSolvable(c *chain.Chain) error {
	if c.Len() == 0 {
		return ErrEmptyChain
	}
	if !c.Frozen() {
		return ErrChainNotFrozen
	}
	return nil
}

// Solver kinds accepted by NewSolver.
const (
	KindCCD               = "ccd"
	KindJacobian          = "jacobian"
	KindJacobianTranspose = "jacobian-transpose"
	KindJacobianPinv      = "jacobian-pinv"
)

// NewSolver builds a solver by kind. For KindJacobian the method comes from
// opts; the two suffixed kinds fix it.
func NewSolver(kind string, opts Options, logger logging.Logger) (Solver, error) {
	switch kind {
	case KindCCD:
		return NewCCD(opts, logger), nil
	case KindJacobian:
	case KindJacobianTranspose:
		opts.Method = Transpose
	case KindJacobianPinv:
		opts.Method = PseudoInverse
	default:
		return nil, errors.Wrapf(ErrUnknownMethod, "solver %q", kind)
	}
	s, err := NewJacobian(opts, logger)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// DefaultOptionsFor returns the default options of a solver kind.
func DefaultOptionsFor(kind string) Options {
	switch kind {
	case KindCCD:
		return DefaultCCDOptions()
	case KindJacobianPinv:
		return DefaultJacobianOptions(PseudoInverse)
	default:
		return DefaultJacobianOptions(Transpose)
	}
}
