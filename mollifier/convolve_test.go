package mollifier

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

func TestRoughFunctions(t *testing.T) {
	box := NoisyBox{}
	assert.Equal(t, 0.0, box.Eval(-1.01))
	assert.Equal(t, 0.0, box.Eval(1.5))
	assert.InDelta(t, 1.1, box.Eval(0), 1e-12)
	assert.InDelta(t, 1+0.3*math.Sin(10*0.3)+0.1*math.Cos(25*0.3), box.Eval(0.3), 1e-12)
	assert.Equal(t, model.NewInterval(-1, 1), box.Support())

	step := UnitStep{}
	assert.Equal(t, 0.0, step.Eval(0))
	assert.Equal(t, 0.0, step.Eval(-2))
	assert.Equal(t, 1.0, step.Eval(1e-9))
	assert.False(t, step.Support().Bounded())
}

func TestConvolverBoundsFromSupport(t *testing.T) {
	conv, err := NewConvolver(MustScaledKernel(NewBumpKernel(), 0.2), 0)
	require.NoError(t, err)

	bounds, ok := conv.Bounds(NoisyBox{}, 2.5)
	require.True(t, ok)
	assert.InDelta(t, -1.2, bounds.Lower, 1e-12)
	assert.InDelta(t, 1.2, bounds.Upper, 1e-12)

	bounds, ok = conv.Bounds(UnitStep{}, 0.5)
	require.True(t, ok)
	assert.InDelta(t, 0.1, bounds.Lower, 1e-12)
	assert.InDelta(t, 0.9, bounds.Upper, 1e-12)

	_, ok = conv.Bounds(UnitStep{}, -1)
	assert.False(t, ok)
	v, err := conv.Convolve(UnitStep{}, -1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)
}

func TestConvolverRejectsBadInput(t *testing.T) {
	_, err := NewConvolver(nil, 100)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = NewConvolver(NewBumpKernel(), -1)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)

	conv := &Convolver{Kernel: NewBumpKernel()}
	_, err = conv.Convolve(NoisyBox{}, math.NaN())
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = conv.Convolve(nil, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestConvolveNoisyBoxIsFinite(t *testing.T) {
	grid := Grid(model.NewInterval(-3, 3), 400)
	for _, eps := range testEpsilons {
		conv := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), eps)}
		curve, err := conv.Curve(NoisyBox{}, grid)
		require.NoError(t, err)
		require.Len(t, curve, len(grid))
		for _, s := range curve {
			assert.False(t, math.IsNaN(s.Y) || math.IsInf(s.Y, 0), "eps=%v x=%v", eps, s.X)
		}
	}
}

func TestConvolveStepMatchesClosedForm(t *testing.T) {
	eps := 0.5
	conv := &Convolver{Kernel: MustScaledKernel(NewBoxKernel(), eps), Steps: 4000}

	for _, x := range []float64{-1.5, -0.7, -0.25, 0, 0.25, 0.45, 0.7, 1.5} {
		v, err := conv.Convolve(UnitStep{}, x)
		require.NoError(t, err)
		assert.InDelta(t, ClosedFormStep(x, eps), v, 0.01, "x=%v", x)
	}
}

func TestConvolutionLocality(t *testing.T) {
	eps := 0.3
	conv := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), eps)}
	curve, err := conv.Curve(NoisyBox{}, Grid(model.NewInterval(-3, 3), 400))
	require.NoError(t, err)

	support, ok := SupportOf(curve, 0)
	require.True(t, ok)
	padded := NoisyBox{}.Support().Pad(eps)
	assert.GreaterOrEqual(t, support.Lower, padded.Lower)
	assert.LessOrEqual(t, support.Upper, padded.Upper)
	assert.Less(t, support.Lower, -1.0)
	assert.Greater(t, support.Upper, 1.0)
}

func TestKernelResolutionRefinesNarrowKernels(t *testing.T) {
	narrow := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), 0.01)}
	assert.Greater(t, narrow.stepsFor(model.NewInterval(-1.2, 1.2)), DefaultIntegrationSteps)

	wide := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), 1.0)}
	assert.Equal(t, DefaultIntegrationSteps, wide.stepsFor(model.NewInterval(-1.2, 1.2)))

	fixed := &Convolver{Kernel: narrow.Kernel, KernelResolution: -1}
	assert.Equal(t, DefaultIntegrationSteps, fixed.stepsFor(model.NewInterval(-1.2, 1.2)))
}

func TestStepsForTinyEpsilonIsCapped(t *testing.T) {
	bounds := model.NewInterval(-1.2, 1.2)
	for _, eps := range []float64{1e-9, 1e-300, math.SmallestNonzeroFloat64} {
		conv := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), eps)}
		assert.Equal(t, MaxIntegrationSteps, conv.stepsFor(bounds), "eps=%v", eps)
	}

	huge := &Convolver{Kernel: MustScaledKernel(NewBumpKernel(), 1.0), Steps: 10 * MaxIntegrationSteps}
	assert.Equal(t, MaxIntegrationSteps, huge.stepsFor(bounds))
}

func TestCheckConvergenceEpsilon(t *testing.T) {
	assert.NoError(t, CheckConvergenceEpsilon(MinConvergenceEpsilon))
	assert.NoError(t, CheckConvergenceEpsilon(1.5))
	for _, eps := range []float64{0.009, 1e-9, 0, -1, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, CheckConvergenceEpsilon(eps), common.ErrorInvalidEpsilon, "eps=%v", eps)
	}
	for _, eps := range DefaultConvergenceEpsilons {
		assert.NoError(t, CheckConvergenceEpsilon(eps))
	}
}

func TestConvergenceAsEpsilonShrinks(t *testing.T) {
	x := 0.3
	report, err := CalculateConvergence(context.Background(), NoisyBox{}, x, []float64{1.0, 0.01}, 0)
	require.NoError(t, err)
	require.Len(t, report.Points, 2)

	coarse, fine := report.Points[0], report.Points[1]
	assert.Equal(t, NoisyBox{}.Eval(x), report.Target)
	assert.Less(t, fine.PointError, 0.01)
	assert.Less(t, fine.PointError, coarse.PointError)
	assert.Less(t, fine.WindowError, coarse.WindowError)
}

func TestConvergenceSkipsBadEpsilon(t *testing.T) {
	report, err := CalculateConvergence(context.Background(), NoisyBox{}, 0, []float64{0, 1e-9, 0.5}, 0.1)
	require.NoError(t, err)
	require.Len(t, report.Points, 1)
	assert.Equal(t, 0.5, report.Points[0].Epsilon)

	_, err = CalculateConvergence(context.Background(), NoisyBox{}, math.Inf(1), nil, 0)
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
	_, err = CalculateConvergence(context.Background(), NoisyBox{}, 0, nil, math.NaN())
	assert.ErrorIs(t, err, common.ErrorInvalidValue)
}

func TestGrid(t *testing.T) {
	iv := model.NewInterval(-3, 3)
	grid := Grid(iv, 400)
	require.Len(t, grid, 401)
	assert.Equal(t, -3.0, grid[0])
	assert.InDelta(t, 3.0, grid[400], 1e-12)
	assert.Equal(t, grid, Grid(iv, 400))

	assert.Equal(t, []float64{1}, Grid(model.NewInterval(1, 2), 0))

	assert.Equal(t, 0, GridIndex(iv, 400, -3))
	assert.Equal(t, 200, GridIndex(iv, 400, 0.001))
	assert.Equal(t, -17, GridIndex(iv, 400, -3.25))
}
