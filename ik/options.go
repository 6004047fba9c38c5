package ik

import (
	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
)

const (
	defaultMaxIterations   = 100
	defaultCCDEpsilon      = 0.01
	defaultJacobianEpsilon = 1e-4
	defaultLearningRate    = 0.05
	defaultPinvTolerance   = 1e-4
)

// Options tunes a solver and the driver that runs it. Zero fields take the
// defaults of the solver they are given to.
type Options struct {
	// MaxIterations caps the number of steps per Solve call.
	MaxIterations int `json:"max_iterations"`
	// Epsilon is the stopping threshold. CCD compares it to the distance to
	// the target; Jacobian compares it to how far one step moved the end effector.
	Epsilon float64 `json:"epsilon"`
	// LearningRate scales Jacobian joint deltas.
	LearningRate float64 `json:"learning_rate"`
	// Tolerance is the singular value cutoff of the pseudoinverse.
	Tolerance float64 `json:"tolerance"`
	Method    Method  `json:"method"`
}

// DefaultCCDOptions returns the CCD defaults: 100 iterations, stop within 0.01 of the target.
func DefaultCCDOptions() Options {
	return Options{
		MaxIterations: defaultMaxIterations,
		Epsilon:       defaultCCDEpsilon,
	}
}

// DefaultJacobianOptions returns the Jacobian defaults for the given method:
// 100 iterations, stop when a step moves less than 1e-4, learning rate 0.05
// and pseudoinverse tolerance 1e-4.
func DefaultJacobianOptions(method Method) Options {
	return Options{
		MaxIterations: defaultMaxIterations,
		Epsilon:       defaultJacobianEpsilon,
		LearningRate:  defaultLearningRate,
		Tolerance:     defaultPinvTolerance,
		Method:        method,
	}
}

func (o Options) withDefaults(d Options) Options {
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Epsilon <= 0 {
		o.Epsilon = d.Epsilon
	}
	if o.LearningRate <= 0 {
		o.LearningRate = d.LearningRate
	}
	if o.Tolerance <= 0 {
		o.Tolerance = d.Tolerance
	}
	return o
}

// Validate returns an error for option values that cannot be used. Zero values are allowed.
func (o Options) Validate(path string) error {
	if o.MaxIterations < 0 {
		return errors.Errorf("%s: max_iterations must be non-negative, got %d", path, o.MaxIterations)
	}
	if o.Epsilon < 0 {
		return errors.Errorf("%s: epsilon must be non-negative, got %v", path, o.Epsilon)
	}
	if o.LearningRate < 0 {
		return errors.Errorf("%s: learning_rate must be non-negative, got %v", path, o.LearningRate)
	}
	if o.Tolerance < 0 {
		return errors.Errorf("%s: tolerance must be non-negative, got %v", path, o.Tolerance)
	}
	if o.Method != Transpose && o.Method != PseudoInverse {
		return errors.Wrapf(ErrUnknownMethod, "%s", path)
	}
	return nil
}

// DecodeOptions converts a loosely typed attribute map, as read from JSON,
// into Options on top of base. Unknown keys are an error.
func DecodeOptions(attributes map[string]interface{}, base Options) (Options, error) {
	conf := base
	if len(attributes) == 0 {
		return conf, nil
	}
	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           &conf,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.TextUnmarshallerHookFunc(),
	})
	if err != nil {
		return Options{}, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return Options{}, errors.Wrap(err, "decoding solver attributes")
	}
	if len(md.Unused) > 0 {
		return Options{}, errors.Errorf("unknown solver attributes %v", md.Unused)
	}
	return conf, nil
}
