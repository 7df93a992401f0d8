package mollifier

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

var testEpsilons = []float64{0.1, 0.2, 0.3, 0.5, 0.75, 1.0, 1.5}

func TestBumpKernelCompactSupport(t *testing.T) {
	bump := NewBumpKernel()

	for _, x := range []float64{-3, -1.5, -1, 1, 1.0000001, 2} {
		assert.Equal(t, 0.0, bump.Shape(x), "x=%v", x)
	}
	for _, x := range Grid(model.NewInterval(-0.99, 0.99), 198) {
		assert.Greater(t, bump.Shape(x), 0.0, "x=%v", x)
	}
	assert.False(t, math.IsNaN(bump.Shape(1)))
	assert.False(t, math.IsNaN(bump.Shape(-1)))
}

func TestBumpKernelPeak(t *testing.T) {
	bump := NewBumpKernel()
	assert.InDelta(t, NormalizationConstant/math.E, bump.Shape(0), 1e-12)
	assert.Equal(t, bump.Shape(0), bump.Peak())
	assert.Equal(t, bump.Shape(0.4), bump.Shape(-0.4))
}

func TestScaledKernelPeakScalesInversely(t *testing.T) {
	bump := NewBumpKernel()
	for _, eps := range testEpsilons {
		k, err := NewScaledKernel(bump, eps)
		require.NoError(t, err)
		assert.InDelta(t, bump.Shape(0)/eps, k.Shape(0), 1e-12, "eps=%v", eps)
		assert.Equal(t, eps, k.Radius())
		assert.Equal(t, model.NewInterval(-eps, eps), k.Support())
		assert.Equal(t, 0.0, k.Shape(eps))
		assert.Equal(t, 0.0, k.Shape(-eps-0.01))
	}
}

func TestScaledKernelUnitMass(t *testing.T) {
	bump := NewBumpKernel()
	assert.InDelta(t, 1.0, Mass(bump, 0), 1e-6)

	for _, eps := range testEpsilons {
		k := MustScaledKernel(bump, eps)
		assert.InDelta(t, 1.0, Mass(k, 0), 0.01, "quad eps=%v", eps)
		assert.InDelta(t, 1.0, RiemannMass(k, model.NewInterval(-2, 2), 4000), 0.01, "riemann eps=%v", eps)
	}
}

func TestTrapezoidMassOfSampledKernel(t *testing.T) {
	k := MustScaledKernel(NewBumpKernel(), 0.5)
	samples := EvaluateGrid(k, Grid(model.NewInterval(-2, 2), 400))
	assert.InDelta(t, 1.0, TrapezoidMass(samples), 0.01)
	assert.Equal(t, 0.0, TrapezoidMass(samples[:1]))
}

func TestNewScaledKernelRejectsBadEpsilon(t *testing.T) {
	for _, eps := range []float64{0, -0.5, math.NaN(), math.Inf(1)} {
		_, err := NewScaledKernel(NewBumpKernel(), eps)
		assert.ErrorIs(t, err, common.ErrorInvalidEpsilon, "eps=%v", eps)
	}
	_, err := NewScaledKernel(nil, 0.5)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	assert.Panics(t, func() { MustScaledKernel(NewBumpKernel(), 0) })
}

func TestBoxKernel(t *testing.T) {
	k := MustScaledKernel(NewBoxKernel(), 0.25)
	assert.Equal(t, 2.0, k.Shape(0))
	assert.Equal(t, 2.0, k.Shape(0.25))
	assert.Equal(t, 0.0, k.Shape(0.26))
	assert.InDelta(t, 1.0, RiemannMass(k, model.NewInterval(-1, 1), 8000), 0.01)
}

func TestCenteredKernel(t *testing.T) {
	k := MustScaledKernel(NewBumpKernel(), 0.3)
	grid := Grid(model.NewInterval(-3, 3), 400)
	samples := Centered(k, 1.5, grid)
	require.Len(t, samples, len(grid))

	support, ok := SupportOf(samples, 0)
	require.True(t, ok)
	assert.GreaterOrEqual(t, support.Lower, 1.2)
	assert.LessOrEqual(t, support.Upper, 1.8)
	assert.InDelta(t, k.Shape(0), MaxValue(samples), 1e-9)
}
