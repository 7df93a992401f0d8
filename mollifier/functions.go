package mollifier

import (
	"math"

	"github.com/uyouii/mollifier/model"
)

// RoughFunc is a function to be mollified. Support must contain every x
// where Eval is non-zero; integration bounds are derived from it.
type RoughFunc interface {
	Eval(x float64) float64
	Support() model.Interval
}

// NoisyBox is 1 + 0.3 sin(10x) + 0.1 cos(25x) on [-1, 1] and 0 elsewhere.
type NoisyBox struct{}

func (NoisyBox) Eval(x float64) float64 {
	if x < -1 || x > 1 {
		return 0
	}
	return 1 + 0.3*math.Sin(10*x) + 0.1*math.Cos(25*x)
}

func (NoisyBox) Support() model.Interval {
	return model.NewInterval(-1, 1)
}

// UnitStep is 1 for x > 0 and 0 otherwise.
type UnitStep struct{}

func (UnitStep) Eval(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

func (UnitStep) Support() model.Interval {
	return model.NewInterval(0, math.Inf(1))
}
