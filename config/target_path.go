package config

import (
	"sort"

	"github.com/golang/geo/r2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.viam.com/utils"

	"go.viam.com/planarik/utils/matrix"
)

var easings = map[string]ease.TweenFunc{
	"linear":         ease.Linear,
	"in-quad":        ease.InQuad,
	"out-quad":       ease.OutQuad,
	"in-out-quad":    ease.InOutQuad,
	"out-cubic":      ease.OutCubic,
	"in-out-cubic":   ease.InOutCubic,
	"in-out-sine":    ease.InOutSine,
	"out-bounce":     ease.OutBounce,
	"in-out-elastic": ease.InOutElastic,
}

// EasingNames returns the accepted values of TargetPath.Easing.
func EasingNames() []string {
	names := lo.Keys(easings)
	sort.Strings(names)
	return names
}

// TargetPath sweeps the target from one point to another, the way a user drags
// the mouse, producing one target per frame.
type TargetPath struct {
	From        [2]float64 `json:"from"`
	To          [2]float64 `json:"to"`
	DurationSec float64    `json:"duration_sec"`
	Frames      int        `json:"frames"`
	// Easing defaults to linear.
	Easing string `json:"easing,omitempty"`
}

// Validate checks the path parameters.
func (tp *TargetPath) Validate(path string) error {
	if tp.Frames <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("frames must be positive, got %d", tp.Frames))
	}
	if tp.DurationSec <= 0 {
		return utils.NewConfigValidationError(path, errors.Errorf("duration_sec must be positive, got %v", tp.DurationSec))
	}
	if _, err := tp.easing(); err != nil {
		return utils.NewConfigValidationError(path, err)
	}
	return nil
}

func (tp *TargetPath) easing() (ease.TweenFunc, error) {
	if tp.Easing == "" {
		return ease.Linear, nil
	}
	fn, ok := easings[tp.Easing]
	if !ok {
		return nil, errors.Errorf("unknown easing %q, expected one of %v", tp.Easing, EasingNames())
	}
	return fn, nil
}

// Targets returns Frames targets along the path. The frames are spread evenly
// in time, so the easing shapes the spacing between them; the last target is To.
func (tp *TargetPath) Targets() ([]r2.Point, error) {
	if err := tp.Validate("target_path"); err != nil {
		return nil, err
	}
	fn, err := tp.easing()
	if err != nil {
		return nil, err
	}
	duration := float32(tp.DurationSec)
	tweenX := gween.New(float32(tp.From[0]), float32(tp.To[0]), duration, fn)
	tweenY := gween.New(float32(tp.From[1]), float32(tp.To[1]), duration, fn)

	dt := duration / float32(tp.Frames)
	targets := make([]r2.Point, tp.Frames)
	for i := range targets {
		x, _ := tweenX.Update(dt)
		y, _ := tweenY.Update(dt)
		targets[i] = r2.Point{X: float64(x), Y: float64(y)}
	}
	// land exactly on the end point regardless of float32 rounding
	targets[tp.Frames-1] = r2.Point{X: tp.To[0], Y: tp.To[1]}
	return targets, nil
}

// RandomTargets returns n targets drawn uniformly from the square of half width
// reach centered on center.
func RandomTargets(n int, center r2.Point, reach float64) []r2.Point {
	xs := matrix.SampleUniform(n, center.X-reach, center.X+reach)
	ys := matrix.SampleUniform(n, center.Y-reach, center.Y+reach)
	return lo.Map(xs, func(x float64, i int) r2.Point { return r2.Point{X: x, Y: ys[i]} })
}
