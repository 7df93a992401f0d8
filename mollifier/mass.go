package mollifier

import (
	"github.com/uyouii/mollifier/model"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/integrate/quad"
)

// Mass integrates the kernel over its support with n-point Gauss-Legendre
// quadrature. n <= 0 uses DefaultQuadPoints.
func Mass(kernel Kernel, n int) float64 {
	if n <= 0 {
		n = DefaultQuadPoints
	}
	r := kernel.Radius()
	return quad.Fixed(kernel.Shape, -r, r, n, nil, 0)
}

// RiemannMass integrates the kernel over iv with the same left-endpoint rule
// the convolver uses.
func RiemannMass(kernel Kernel, iv model.Interval, steps int) float64 {
	if steps <= 0 || iv.Empty() {
		return 0
	}
	dx := iv.Width() / float64(steps)
	var sum float64
	for j := 0; j < steps; j++ {
		sum += kernel.Shape(iv.Lower+float64(j)*dx) * dx
	}
	return sum
}

// TrapezoidMass integrates an already sampled curve. Samples must be sorted by x.
func TrapezoidMass(samples []model.Sample) float64 {
	if len(samples) < 2 {
		return 0
	}
	return integrate.Trapezoidal(model.SamplesX(samples), model.SamplesY(samples))
}
