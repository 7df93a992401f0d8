package mollifier

import (
	"math"

	"github.com/uyouii/mollifier/model"
	"gonum.org/v1/gonum/floats"
)

// Grid returns steps+1 evenly spaced points covering iv, both ends included.
// The same (iv, steps) always yields the same x at the same index.
func Grid(iv model.Interval, steps int) []float64 {
	if steps < 1 {
		return []float64{iv.Lower}
	}
	return floats.Span(make([]float64, steps+1), iv.Lower, iv.Upper)
}

// GridIndex is the index of the last grid point at or before x. It may fall
// outside [0, steps] when x is outside iv.
func GridIndex(iv model.Interval, steps int, x float64) int {
	if steps < 1 || iv.Width() == 0 {
		return 0
	}
	dx := iv.Width() / float64(steps)
	return int(math.Floor((x - iv.Lower) / dx))
}

func SampleFunc(f func(float64) float64, grid []float64) []model.Sample {
	res := make([]model.Sample, len(grid))
	for i, x := range grid {
		res[i] = model.Sample{X: x, Y: f(x)}
	}
	return res
}

// SupportOf is the smallest interval holding every sample with |y| > tol.
func SupportOf(samples []model.Sample, tol float64) (model.Interval, bool) {
	lower, upper := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		if math.Abs(s.Y) <= tol {
			continue
		}
		lower = math.Min(lower, s.X)
		upper = math.Max(upper, s.X)
	}
	if lower > upper {
		return model.Interval{}, false
	}
	return model.NewInterval(lower, upper), true
}

// MaxValue is the largest y in samples, or 0 when there are none.
func MaxValue(samples []model.Sample) float64 {
	if len(samples) == 0 {
		return 0
	}
	return floats.Max(model.SamplesY(samples))
}
