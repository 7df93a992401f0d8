package mollifier

const (
	// 1 / ∫_{-1}^{1} exp(-1/(1-x^2)) dx, so the bump kernel has unit mass.
	NormalizationConstant = 2.252283621

	DefaultIntegrationSteps = 100
	// extra width past a bounded support, [-1, 1] integrates over [-1.2, 1.2]
	IntegrationPad = 0.2
	// minimum left-endpoint samples across the kernel support
	DefaultKernelResolution = 16
	// upper bound on subintervals for one convolution value, refinement included
	MaxIntegrationSteps = 1 << 20

	// Gauss-Legendre nodes used for mass checks
	DefaultQuadPoints = 128

	// kernel values at or below this are not drawn
	KernelDrawThreshold = 0.01
)
