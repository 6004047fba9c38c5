package config

import (
	"testing"

	"github.com/golang/geo/r2"
	"go.viam.com/test"
)

func TestTargetPathLinear(t *testing.T) {
	tp := &TargetPath{From: [2]float64{0, 0}, To: [2]float64{4, -2}, DurationSec: 2, Frames: 4}
	targets, err := tp.Targets()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, targets, test.ShouldHaveLength, 4)

	for i, p := range targets {
		frac := float64(i+1) / 4
		test.That(t, p.X, test.ShouldAlmostEqual, 4*frac, 1e-5)
		test.That(t, p.Y, test.ShouldAlmostEqual, -2*frac, 1e-5)
	}
	test.That(t, targets[3], test.ShouldResemble, r2.Point{X: 4, Y: -2})
}

func TestTargetPathEasing(t *testing.T) {
	tp := &TargetPath{From: [2]float64{0, 0}, To: [2]float64{10, 0}, DurationSec: 1, Frames: 20, Easing: "in-out-quad"}
	targets, err := tp.Targets()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, targets, test.ShouldHaveLength, 20)

	// eased paths move slowly at the start and still arrive at the end
	test.That(t, targets[0].X, test.ShouldBeLessThan, 0.5)
	for i := 1; i < len(targets); i++ {
		test.That(t, targets[i].X, test.ShouldBeGreaterThanOrEqualTo, targets[i-1].X)
	}
	test.That(t, targets[19].X, test.ShouldEqual, 10.)
}

func TestTargetPathValidate(t *testing.T) {
	for _, tp := range []TargetPath{
		{DurationSec: 1},
		{Frames: 3},
		{Frames: 3, DurationSec: 1, Easing: "wobble"},
	} {
		tp := tp
		test.That(t, tp.Validate("target_path"), test.ShouldNotBeNil)
		_, err := tp.Targets()
		test.That(t, err, test.ShouldNotBeNil)
	}
	test.That(t, EasingNames(), test.ShouldContain, "linear")
	test.That(t, EasingNames(), test.ShouldContain, "in-out-sine")
}

func TestRandomTargets(t *testing.T) {
	center := r2.Point{X: 1, Y: -1}
	targets := RandomTargets(50, center, 2)
	test.That(t, targets, test.ShouldHaveLength, 50)
	for _, p := range targets {
		test.That(t, p.X, test.ShouldBeGreaterThanOrEqualTo, -1.)
		test.That(t, p.X, test.ShouldBeLessThan, 3.)
		test.That(t, p.Y, test.ShouldBeGreaterThanOrEqualTo, -3.)
		test.That(t, p.Y, test.ShouldBeLessThan, 1.)
	}
}
