package mollifier

import (
	"fmt"
	"math"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

// Convolver approximates (kernel * f)(x) = ∫ kernel(x - y) f(y) dy with a
// left-endpoint Riemann sum over a uniform partition.
type Convolver struct {
	Kernel Kernel

	// Number of subintervals. If Steps is 0, DefaultIntegrationSteps is used.
	Steps int

	// Lower bound on subintervals falling inside one kernel support, so a
	// narrow kernel is never stepped over. 0 uses DefaultKernelResolution,
	// a negative value disables the refinement.
	KernelResolution int

	// Width added on both sides of the integration bounds. 0 uses IntegrationPad.
	Pad float64
}

func NewConvolver(kernel Kernel, steps int) (*Convolver, error) {
	if kernel == nil {
		return nil, fmt.Errorf("nil kernel: %w", common.ErrorInvalidValue)
	}
	if steps < 0 {
		return nil, fmt.Errorf("steps=%d: %w", steps, common.ErrorInvalidValue)
	}
	return &Convolver{Kernel: kernel, Steps: steps}, nil
}

// Bounds returns the integration interval for f at x.
//
// A bounded support [a, b] integrates over [a-pad, b+pad], independent of x.
// An unbounded support integrates over the kernel window around x, padded,
// and clipped to the support; ok is false when the two do not meet.
func (c *Convolver) Bounds(f RoughFunc, x float64) (model.Interval, bool) {
	support := f.Support()
	pad := c.pad()
	if support.Bounded() {
		return support.Pad(pad), true
	}
	r := c.Kernel.Radius()
	window := model.NewInterval(x-r, x+r).Pad(pad)
	return window.Intersect(support)
}

func (c *Convolver) Convolve(f RoughFunc, x float64) (float64, error) {
	if f == nil {
		return 0, fmt.Errorf("nil function: %w", common.ErrorInvalidValue)
	}
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, fmt.Errorf("x=%v: %w", x, common.ErrorInvalidValue)
	}

	bounds, ok := c.Bounds(f, x)
	if !ok {
		return 0, nil
	}
	return c.riemann(f, x, bounds), nil
}

// Curve evaluates the convolution at every grid point.
func (c *Convolver) Curve(f RoughFunc, grid []float64) ([]model.Sample, error) {
	res := make([]model.Sample, 0, len(grid))
	for _, x := range grid {
		v, err := c.Convolve(f, x)
		if err != nil {
			return nil, err
		}
		res = append(res, model.Sample{X: x, Y: v})
	}
	return res, nil
}

func (c *Convolver) riemann(f RoughFunc, x float64, bounds model.Interval) float64 {
	steps := c.stepsFor(bounds)
	dy := bounds.Width() / float64(steps)

	var sum float64
	for j := 0; j < steps; j++ {
		y := bounds.Lower + float64(j)*dy
		sum += c.Kernel.Shape(x-y) * f.Eval(y) * dy
	}
	return sum
}

func (c *Convolver) stepsFor(bounds model.Interval) int {
	steps := c.Steps
	if steps <= 0 {
		steps = DefaultIntegrationSteps
	}

	resolution := c.KernelResolution
	if resolution == 0 {
		resolution = DefaultKernelResolution
	}
	if resolution > 0 {
		r := c.Kernel.Radius()
		if r > 0 {
			// float until clamped: a tiny radius overflows int
			need := math.Ceil(bounds.Width() * float64(resolution) / (2 * r))
			if need > float64(steps) {
				steps = int(math.Min(need, MaxIntegrationSteps))
			}
		}
	}
	return min(steps, MaxIntegrationSteps)
}

func (c *Convolver) pad() float64 {
	if c.Pad > 0 {
		return c.Pad
	}
	return IntegrationPad
}
