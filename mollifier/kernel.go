package mollifier

import (
	"fmt"
	"math"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

type Kernel interface {
	Shape(x float64) float64
	// Radius r such that Shape is zero outside [-r, r].
	Radius() float64
}

// BumpKernel is the standard mollifier J(x) = k exp(-1/(1-x^2)) on (-1, 1).
type BumpKernel struct {
	k float64
}

func NewBumpKernel() *BumpKernel {
	return &BumpKernel{k: NormalizationConstant}
}

func (b *BumpKernel) Shape(x float64) float64 {
	if math.Abs(x) >= 1 {
		return 0
	}
	return b.k * math.Exp(-1/(1-x*x))
}

func (b *BumpKernel) Radius() float64 {
	return 1
}

func (b *BumpKernel) Peak() float64 {
	return b.k * math.Exp(-1)
}

// BoxKernel is 1/2 on [-1, 1]. Scaled by eps it is the 1/(2eps) averaging window.
type BoxKernel struct{}

func NewBoxKernel() *BoxKernel {
	return &BoxKernel{}
}

func (b *BoxKernel) Shape(x float64) float64 {
	if math.Abs(x) > 1 {
		return 0
	}
	return 0.5
}

func (b *BoxKernel) Radius() float64 {
	return 1
}

// ScaledKernel is J_eps(x) = (1/eps) J(x/eps).
type ScaledKernel struct {
	base Kernel
	eps  float64
}

// NewScaledKernel is the only place eps enters the engine, so a non-positive
// eps is rejected here and never reaches a division.
func NewScaledKernel(base Kernel, eps float64) (*ScaledKernel, error) {
	if base == nil {
		return nil, fmt.Errorf("nil base kernel: %w", common.ErrorInvalidValue)
	}
	if !(eps > 0) || math.IsInf(eps, 0) {
		return nil, fmt.Errorf("eps=%v: %w", eps, common.ErrorInvalidEpsilon)
	}
	return &ScaledKernel{base: base, eps: eps}, nil
}

// MustScaledKernel is for callers that have already validated eps.
func MustScaledKernel(base Kernel, eps float64) *ScaledKernel {
	k, err := NewScaledKernel(base, eps)
	if err != nil {
		panic(err)
	}
	return k
}

func (k *ScaledKernel) Shape(x float64) float64 {
	return (1 / k.eps) * k.base.Shape(x/k.eps)
}

func (k *ScaledKernel) Radius() float64 {
	return k.eps * k.base.Radius()
}

func (k *ScaledKernel) Support() model.Interval {
	r := k.Radius()
	return model.NewInterval(-r, r)
}

// Centered samples y -> kernel(center - y) over grid, the sliding window view
// of the kernel. J is symmetric so no flip is visible.
func Centered(kernel Kernel, center float64, grid []float64) []model.Sample {
	res := make([]model.Sample, len(grid))
	for i, y := range grid {
		res[i] = model.Sample{X: y, Y: kernel.Shape(center - y)}
	}
	return res
}

// EvaluateGrid samples the kernel at every grid point.
func EvaluateGrid(kernel Kernel, grid []float64) []model.Sample {
	res := make([]model.Sample, len(grid))
	for i, x := range grid {
		res[i] = model.Sample{X: x, Y: kernel.Shape(x)}
	}
	return res
}
