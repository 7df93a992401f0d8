package mollifier

import (
	"fmt"
	"math"

	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/utils"
)

type StepCase int

const (
	FarLeft StepCase = iota + 1
	FarRight
	Transition
)

func (c StepCase) String() string {
	switch c {
	case FarLeft:
		return "far_left"
	case FarRight:
		return "far_right"
	case Transition:
		return "transition"
	}
	return "unknown"
}

// ClosedFormStep is the unit step averaged over [x-eps, x+eps] with the
// 1/(2eps) box kernel:
//
//	x < -eps       0
//	x > eps        1
//	otherwise      0.5 + x/(2eps)
//
// The ramp meets both constants exactly at x = ±eps. eps must be positive.
func ClosedFormStep(x, eps float64) float64 {
	switch ClassifyStep(x, eps) {
	case FarLeft:
		return 0
	case FarRight:
		return 1
	}
	return 0.5 + x/(2*eps)
}

func ClassifyStep(x, eps float64) StepCase {
	if x < -eps {
		return FarLeft
	}
	if x > eps {
		return FarRight
	}
	return Transition
}

// StepCalculation is the worked integral for one (x, eps) pair.
type StepCalculation struct {
	Case     StepCase `json:"case"`
	Title    string   `json:"title"`
	Integral string   `json:"integral"`
	Result   string   `json:"result"`
	Value    float64  `json:"value"`
}

func CalculateStep(x, eps float64) StepCalculation {
	value := ClosedFormStep(x, eps)
	calc := StepCalculation{Case: ClassifyStep(x, eps), Value: value}

	switch calc.Case {
	case FarLeft:
		calc.Title = "Case 1: Far Left (x < -ε)"
		calc.Integral = `\frac{1}{2\epsilon} \int_{-\epsilon}^{\epsilon} 0 \, dz = 0`
		calc.Result = `f_\epsilon(x) = 0`
	case FarRight:
		calc.Title = "Case 2: Far Right (x > ε)"
		calc.Integral = `\frac{1}{2\epsilon} \int_{-\epsilon}^{\epsilon} 1 \, dz = 1`
		calc.Result = `f_\epsilon(x) = 1`
	default:
		calc.Title = "Case 3: The Transition (-ε ≤ x ≤ ε)"
		calc.Integral = fmt.Sprintf(`\frac{1}{2\epsilon} (x+\epsilon) = \frac{%s}{%s}`,
			utils.FixedString(x+eps, 2), utils.FixedString(2*eps, 2))
		calc.Result = fmt.Sprintf(`f_\epsilon(x) = %s`, utils.FixedString(value, 3))
	}
	return calc
}

// StepWindow returns the averaging window [x-eps, x+eps] and the part of it
// where the step is 1. hasOverlap is false when the window lies left of 0.
func StepWindow(x, eps float64) (window, overlap model.Interval, hasOverlap bool) {
	window = model.NewInterval(x-eps, x+eps)
	overlap = model.NewInterval(math.Max(0, window.Lower), math.Max(0, window.Upper))
	return window, overlap, overlap.Upper > overlap.Lower
}
