package mollifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/uyouii/mollifier/model"
)

func TestClosedFormStepScenarios(t *testing.T) {
	cases := []struct {
		x, eps, want float64
		stepCase     StepCase
	}{
		{x: 0, eps: 0.5, want: 0.5, stepCase: Transition},
		{x: 0.5, eps: 0.5, want: 1.0, stepCase: Transition},
		{x: -0.3, eps: 0.2, want: 0, stepCase: FarLeft},
		{x: 0.3, eps: 0.2, want: 1, stepCase: FarRight},
		{x: 0.1, eps: 0.2, want: 0.75, stepCase: Transition},
	}
	for _, c := range cases {
		assert.InDelta(t, c.want, ClosedFormStep(c.x, c.eps), 1e-12, "x=%v eps=%v", c.x, c.eps)
		assert.Equal(t, c.stepCase, ClassifyStep(c.x, c.eps))
	}
}

func TestClosedFormStepContinuity(t *testing.T) {
	for _, eps := range testEpsilons {
		assert.Equal(t, 0.0, ClosedFormStep(-eps, eps), "eps=%v", eps)
		assert.Equal(t, 1.0, ClosedFormStep(eps, eps), "eps=%v", eps)
		assert.Equal(t, 0.5, ClosedFormStep(0, eps), "eps=%v", eps)
	}
}

func TestClosedFormStepMonotone(t *testing.T) {
	for _, eps := range testEpsilons {
		prev := ClosedFormStep(-2, eps)
		for _, x := range Grid(model.NewInterval(-2, 2), 1000) {
			v := ClosedFormStep(x, eps)
			assert.GreaterOrEqual(t, v, prev, "eps=%v x=%v", eps, x)
			prev = v
		}
	}
}

func TestCalculateStep(t *testing.T) {
	calc := CalculateStep(0.5, 0.5)
	assert.Equal(t, Transition, calc.Case)
	assert.Equal(t, `\frac{1}{2\epsilon} (x+\epsilon) = \frac{1.00}{1.00}`, calc.Integral)
	assert.Equal(t, `f_\epsilon(x) = 1.000`, calc.Result)

	calc = CalculateStep(-1, 0.5)
	assert.Equal(t, FarLeft, calc.Case)
	assert.Equal(t, `f_\epsilon(x) = 0`, calc.Result)
	assert.Contains(t, calc.Title, "Far Left")

	calc = CalculateStep(1, 0.5)
	assert.Equal(t, FarRight, calc.Case)
	assert.Equal(t, "far_right", calc.Case.String())
}

func TestStepWindow(t *testing.T) {
	window, overlap, ok := StepWindow(0.2, 0.5)
	assert.True(t, ok)
	assert.InDelta(t, -0.3, window.Lower, 1e-12)
	assert.InDelta(t, 0.7, window.Upper, 1e-12)
	assert.Equal(t, 0.0, overlap.Lower)
	assert.InDelta(t, 0.7, overlap.Upper, 1e-12)

	_, _, ok = StepWindow(-1, 0.5)
	assert.False(t, ok)
}
