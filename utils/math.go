// Package utils contains small helpers shared by the chain and solver packages.
package utils

import (
	"math"
)

// DegToRad converts degrees to radians.
func DegToRad(degrees float64) float64 {
	return degrees * math.Pi / 180
}

// RadToDeg converts radians to degrees.
func RadToDeg(radians float64) float64 {
	return radians * 180 / math.Pi
}

// NormalizeDegrees maps any finite angle into (-180, 180]. Values already in
// range are returned unchanged, so the operation is idempotent. NaN and
// infinities produce NaN.
func NormalizeDegrees(deg float64) float64 {
	r := math.Mod(deg, 360)
	if r <= -180 {
		r += 360
	} else if r > 180 {
		r -= 360
	}
	return r
}
