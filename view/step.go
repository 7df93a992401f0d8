package view

import (
	"context"
	"fmt"
	"sync"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/mollifier"
	"github.com/uyouii/mollifier/utils"
	"go.uber.org/zap"
)

type StepState struct {
	X       float64 `json:"x"`
	Epsilon float64 `json:"eps"`
}

func ReduceStep(preset Preset, state StepState, action Action) (StepState, error) {
	if err := checkFinite(action); err != nil {
		return state, err
	}
	switch action.Type {
	case ActionSetEpsilon:
		state.Epsilon = utils.Clamp(action.Value, preset.EpsMin, preset.EpsMax)
		return state, nil
	case ActionSetPosition:
		state.X = utils.Clamp(action.Value, preset.XMin, preset.XMax)
		return state, nil
	case ActionReset:
		return initialStepState(preset), nil
	}
	return state, fmt.Errorf("%s on %s: %w", action.Type, StepView, common.ErrorUnknownAction)
}

func initialStepState(preset Preset) StepState {
	return StepState{
		X:       utils.Clamp(preset.Position, preset.XMin, preset.XMax),
		Epsilon: utils.Clamp(preset.Epsilon, preset.EpsMin, preset.EpsMax),
	}
}

// Step is the worked example: the unit step averaged by a box of half-width eps.
type Step struct {
	preset Preset

	mu    sync.Mutex
	state StepState
}

func NewStep(preset Preset) *Step {
	return &Step{preset: preset, state: initialStepState(preset)}
}

func (s *Step) Name() string {
	return StepView
}

func (s *Step) State() StepState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Step) Apply(ctx context.Context, action Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := ReduceStep(s.preset, s.state, action)
	if err != nil {
		return err
	}
	s.state = next
	utils.GetLogger(ctx).Debug("step state updated", zap.Float64("x", next.X), zap.Float64("eps", next.Epsilon))
	return nil
}

func (s *Step) Close() {}

func (s *Step) Scene(ctx context.Context) (*model.Scene, error) {
	return StepScene(s.preset, s.State())
}

func StepScene(preset Preset, state StepState) (*model.Scene, error) {
	frame, err := preset.Frame()
	if err != nil {
		return nil, err
	}
	x, eps := state.X, state.Epsilon
	if !(eps > 0) {
		return nil, common.ErrorInvalidEpsilon
	}
	calc := mollifier.CalculateStep(x, eps)
	numeric, err := boxAverage(x, eps)
	if err != nil {
		return nil, err
	}
	window, overlap, hasOverlap := mollifier.StepWindow(x, eps)
	xMin, xMax := preset.XMin, preset.XMax

	setup := axes(frame)
	setup = append(setup,
		path("step", frame.Polyline([]model.Sample{{X: xMin, Y: 0}, {X: 0, Y: 0}, {X: 0, Y: 1}, {X: xMax, Y: 1}}),
			model.Style{Fill: "none", Stroke: colorRough, StrokeWidth: 3}),
		text("step-label", frame.MapX(1.5), frame.MapY(1)-10, "f(y)", model.Style{Fill: colorRough}),
		rect("window", frame.MapX(window.Lower), frame.Top(),
			frame.MapX(window.Upper)-frame.MapX(window.Lower), frame.Height-2*frame.Padding,
			model.Style{Fill: "rgba(59, 130, 246, 0.1)", Stroke: colorKernel, Dash: 4}),
	)
	if hasOverlap {
		setup = append(setup, rect("overlap", frame.MapX(overlap.Lower), frame.MapY(1),
			frame.MapX(overlap.Upper)-frame.MapX(overlap.Lower), frame.MapY(0)-frame.MapY(1),
			model.Style{Fill: "rgba(16, 185, 129, 0.3)", Stroke: "none"}))
	}

	value := calc.Value
	result := axes(frame)
	result = append(result,
		path("ramp", frame.Polyline([]model.Sample{{X: xMin, Y: 0}, {X: -eps, Y: 0}, {X: eps, Y: 1}, {X: xMax, Y: 1}}),
			model.Style{Fill: "none", Stroke: colorResult, StrokeWidth: 3}),
		circle("marker", frame.MapX(x), frame.MapY(value), 6, model.Style{Fill: colorResult, Stroke: "white", StrokeWidth: 2}),
		line("marker-drop", frame.MapX(x), frame.MapY(0), frame.MapX(x), frame.MapY(value), model.Style{Stroke: colorResult, Dash: 4}),
		text("marker-label", frame.MapX(x), frame.MapY(0)+20, "x", model.Style{Fill: colorResult, FontSize: 12, Anchor: "middle"}),
	)

	return &model.Scene{
		View: StepView,
		Panels: []model.Panel{
			{Title: "1. The Setup: Window on f(y)", Width: preset.Width, Height: preset.Height, Shapes: setup},
			{Title: "2. The Result: f_ε(x)", Width: preset.Width, Height: preset.Height, Shapes: result},
		},
		Formulas: []model.Formula{
			{Label: "integral", TeX: calc.Integral, Block: true},
			{Label: "result", TeX: calc.Result, Block: true},
		},
		// numeric_value is the Riemann sum the other views use, shown next to the closed form
		Params: map[string]float64{
			"x":             x,
			"eps":           eps,
			"value":         value,
			"numeric_value": numeric,
			"case":          float64(calc.Case),
		},
		Caption: calc.Title,
	}, nil
}

// boxSteps keeps the left Riemann sum of the step within 0.01 of the closed
// form for every eps the step view allows.
const boxSteps = 1000

// boxAverage integrates the unit step against the box kernel of half-width eps.
func boxAverage(x, eps float64) (float64, error) {
	kernel, err := mollifier.NewScaledKernel(mollifier.NewBoxKernel(), eps)
	if err != nil {
		return 0, err
	}
	conv, err := mollifier.NewConvolver(kernel, boxSteps)
	if err != nil {
		return 0, err
	}
	return conv.Convolve(mollifier.UnitStep{}, x)
}
