package ik

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"go.viam.com/planarik/logging"
)

func TestDecodeOptions(t *testing.T) {
	var attrs map[string]interface{}
	err := json.Unmarshal([]byte(`{
		"max_iterations": 250,
		"learning_rate": 0.1,
		"tolerance": 1e-6,
		"method": "pinv"
	}`), &attrs)
	test.That(t, err, test.ShouldBeNil)

	opts, err := DecodeOptions(attrs, DefaultJacobianOptions(Transpose))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts.MaxIterations, test.ShouldEqual, 250)
	test.That(t, opts.LearningRate, test.ShouldAlmostEqual, 0.1)
	test.That(t, opts.Tolerance, test.ShouldAlmostEqual, 1e-6)
	test.That(t, opts.Method, test.ShouldEqual, PseudoInverse)
	// untouched fields keep the base value
	test.That(t, opts.Epsilon, test.ShouldAlmostEqual, 1e-4)

	opts, err = DecodeOptions(nil, DefaultCCDOptions())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, opts, test.ShouldResemble, DefaultCCDOptions())

	_, err = DecodeOptions(map[string]interface{}{"step_size": 3}, Options{})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "step_size")

	_, err = DecodeOptions(map[string]interface{}{"method": "newton"}, Options{})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestOptionsDefaults(t *testing.T) {
	ccd := DefaultCCDOptions()
	test.That(t, ccd.MaxIterations, test.ShouldEqual, 100)
	test.That(t, ccd.Epsilon, test.ShouldAlmostEqual, 0.01)

	jac := DefaultJacobianOptions(PseudoInverse)
	test.That(t, jac.Epsilon, test.ShouldAlmostEqual, 1e-4)
	test.That(t, jac.LearningRate, test.ShouldAlmostEqual, 0.05)
	test.That(t, jac.Tolerance, test.ShouldAlmostEqual, 1e-4)
	test.That(t, jac.Method, test.ShouldEqual, PseudoInverse)

	filled := Options{LearningRate: 0.2}.withDefaults(jac)
	test.That(t, filled.LearningRate, test.ShouldAlmostEqual, 0.2)
	test.That(t, filled.MaxIterations, test.ShouldEqual, 100)

	test.That(t, Options{}.Validate("lanes.0"), test.ShouldBeNil)
	err := Options{Epsilon: -1}.Validate("lanes.0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "lanes.0")
	err = Options{Method: Method(3)}.Validate("lanes.1")
	test.That(t, errors.Is(err, ErrUnknownMethod), test.ShouldBeTrue)
}

func TestMethodText(t *testing.T) {
	for _, m := range []Method{Transpose, PseudoInverse} {
		text, err := m.MarshalText()
		test.That(t, err, test.ShouldBeNil)
		var back Method
		test.That(t, back.UnmarshalText(text), test.ShouldBeNil)
		test.That(t, back, test.ShouldEqual, m)
	}
	m, err := MethodFromString(" PINV ")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, m, test.ShouldEqual, PseudoInverse)

	_, err = MethodFromString("dls")
	test.That(t, errors.Is(err, ErrUnknownMethod), test.ShouldBeTrue)
	_, err = Method(9).MarshalText()
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, Method(9).String(), test.ShouldEqual, "unknown")
}

func TestNewSolver(t *testing.T) {
	logger := logging.NewTestLogger(t)
	for kind, name := range map[string]string{
		KindCCD:               "ccd",
		KindJacobianTranspose: "jacobian-transpose",
		KindJacobianPinv:      "jacobian-pseudoinverse",
	} {
		s, err := NewSolver(kind, DefaultOptionsFor(kind), logger)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, s.Name(), test.ShouldEqual, name)
	}

	s, err := NewSolver(KindJacobian, Options{Method: PseudoInverse}, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, s.(*Jacobian).Method(), test.ShouldEqual, PseudoInverse)

	s, err = NewSolver("fabrik", Options{}, logger)
	test.That(t, errors.Is(err, ErrUnknownMethod), test.ShouldBeTrue)
	test.That(t, s, test.ShouldBeNil)
}
