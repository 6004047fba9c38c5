package matrix

import (
	"gonum.org/v1/gonum/stat/distuv"
)

// SampleUniform samples n floats uniformly in [vMin, vMax).
func SampleUniform(n int, vMin, vMax float64) []float64 {
	z := make([]float64, n)
	dist := distuv.Uniform{
		Min: vMin,
		Max: vMax,
	}
	for i := range z {
		z[i] = dist.Rand()
	}
	return z
}

// SampleNormal samples n floats from a normal distribution, rejecting samples
// that fall outside [vMin, vMax]. The distribution is centered on the middle of
// the range with most of its mass inside it.
func SampleNormal(n int, vMin, vMax float64) []float64 {
	z := make([]float64, n)
	dist := distuv.Normal{
		Mu:    (vMax + vMin) / 2,
		Sigma: (vMax - vMin) * 0.4472,
	}
	for i := range z {
		val := dist.Rand()
		for val < vMin || val > vMax {
			val = dist.Rand()
		}
		z[i] = val
	}
	return z
}

// Random returns a rows x cols matrix with elements drawn uniformly from [vMin, vMax).
func Random(rows, cols int, vMin, vMax float64) (*Matrix, error) {
	if rows <= 0 || cols <= 0 {
		return New(rows, cols)
	}
	return NewFromData(rows, cols, SampleUniform(rows*cols, vMin, vMax))
}
