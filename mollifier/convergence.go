package mollifier

import (
	"context"
	"fmt"
	"math"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/utils"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"
)

var DefaultConvergenceEpsilons = []float64{1.0, 0.5, 0.25, 0.1, 0.05, MinConvergenceEpsilon}

// MinConvergenceEpsilon is the narrowest kernel a convergence report accepts.
const MinConvergenceEpsilon = 0.01

// CheckConvergenceEpsilon rejects eps that is not finite or is below MinConvergenceEpsilon.
func CheckConvergenceEpsilon(eps float64) error {
	if !(eps >= MinConvergenceEpsilon) || math.IsInf(eps, 0) {
		return fmt.Errorf("eps=%v, want >= %v: %w", eps, MinConvergenceEpsilon, common.ErrorInvalidEpsilon)
	}
	return nil
}

type ConvergencePoint struct {
	Epsilon float64 `json:"eps"`
	// (J_eps * f)(x)
	Value float64 `json:"value"`
	// |(J_eps * f)(x) - f(x)|
	PointError float64 `json:"point_error"`
	// mean of |J_eps * f - f| over the window around x
	WindowError float64 `json:"window_error"`
}

type ConvergenceReport struct {
	X      float64             `json:"x"`
	Target float64             `json:"target"`
	Window model.Interval      `json:"window"`
	Points []*ConvergencePoint `json:"points"`
}

// CalculateConvergence measures how J_eps * f approaches f near x as eps shrinks.
func CalculateConvergence(ctx context.Context, f RoughFunc, x float64, epsilons []float64,
	halfWindow float64) (report *ConvergenceReport, err error) {
	logger := utils.GetLogger(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("CalculateConvergence recover panic error!", zap.Any("err", r),
				zap.String("panic info", utils.GetPanicInfo()), zap.Float64("x", x))
			report, err = nil, common.ErrorInvalidValue
		}
	}()

	if f == nil || math.IsNaN(x) || math.IsInf(x, 0) || math.IsNaN(halfWindow) || math.IsInf(halfWindow, 0) {
		return nil, common.ErrorInvalidValue
	}
	if len(epsilons) == 0 {
		epsilons = DefaultConvergenceEpsilons
	}
	if halfWindow <= 0 {
		halfWindow = 0.05
	}

	window := model.NewInterval(x-halfWindow, x+halfWindow)
	windowGrid := Grid(window, 20)

	report = &ConvergenceReport{
		X:      x,
		Target: f.Eval(x),
		Window: window,
	}

	bump := NewBumpKernel()
	for _, eps := range epsilons {
		if err := CheckConvergenceEpsilon(eps); err != nil {
			logger.Error("skip epsilon", zap.Float64("eps", eps), zap.Error(err))
			continue
		}
		kernel, err := NewScaledKernel(bump, eps)
		if err != nil {
			logger.Error("skip epsilon", zap.Float64("eps", eps), zap.Error(err))
			continue
		}
		conv := &Convolver{Kernel: kernel}

		value, err := conv.Convolve(f, x)
		if err != nil {
			return nil, err
		}

		deviations := make([]float64, len(windowGrid))
		for i, y := range windowGrid {
			v, err := conv.Convolve(f, y)
			if err != nil {
				return nil, err
			}
			deviations[i] = math.Abs(v - f.Eval(y))
		}

		report.Points = append(report.Points, &ConvergencePoint{
			Epsilon:     eps,
			Value:       value,
			PointError:  math.Abs(value - report.Target),
			WindowError: stat.Mean(deviations, nil),
		})
	}

	logger.Debug("convergence calculated", zap.Float64("x", x), zap.Int("points", len(report.Points)))
	return report, nil
}
