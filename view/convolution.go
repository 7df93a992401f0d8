package view

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/uyouii/mollifier/animation"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/mollifier"
	"github.com/uyouii/mollifier/render"
	"github.com/uyouii/mollifier/utils"
	"go.uber.org/zap"
)

type ConvolutionState struct {
	Position float64 `json:"position"`
	Epsilon  float64 `json:"eps"`
	Playing  bool    `json:"playing"`
}

// ReduceConvolution handles the pure part of the sliding demo. Moving the
// position slider or pressing reset pauses playback; toggle flips it.
func ReduceConvolution(preset Preset, state ConvolutionState, action Action) (ConvolutionState, error) {
	if err := checkFinite(action); err != nil {
		return state, err
	}
	switch action.Type {
	case ActionSetEpsilon:
		state.Epsilon = utils.Clamp(action.Value, preset.EpsMin, preset.EpsMax)
	case ActionSetPosition:
		state.Playing = false
		state.Position = utils.Clamp(action.Value, preset.XMin, preset.XMax)
	case ActionToggle:
		state.Playing = !state.Playing
	case ActionReset:
		state.Playing = false
		state.Position = preset.XMin
	default:
		return state, fmt.Errorf("%s on %s: %w", action.Type, ConvolutionView, common.ErrorUnknownAction)
	}
	return state, nil
}

// FrameListener receives a fresh scene after every animation tick.
type FrameListener func(ctx context.Context, scene *model.Scene)

// Convolution slides J_eps across the noisy box and traces J_eps * f.
type Convolution struct {
	preset   Preset
	steps    int
	interval time.Duration
	animator *animation.Animator

	// serializes Apply so reducer input and animator moves stay paired
	applyMu sync.Mutex

	mu           sync.Mutex
	epsilon      float64
	listeners    map[uint64]FrameListener
	nextListener uint64
}

func NewConvolution(preset Preset, opts Options) (*Convolution, error) {
	animator, err := animation.NewAnimator(preset.XDomain(), preset.Position, opts.AnimationStep)
	if err != nil {
		return nil, err
	}
	return &Convolution{
		preset:   preset,
		steps:    opts.IntegrationSteps,
		interval: opts.AnimationInterval,
		animator: animator,
		epsilon:  utils.Clamp(preset.Epsilon, preset.EpsMin, preset.EpsMax),
	}, nil
}

func (c *Convolution) Name() string {
	return ConvolutionView
}

// AddFrameListener registers listener for every animation tick. The
// returned func unregisters it and is safe to call more than once.
func (c *Convolution) AddFrameListener(listener FrameListener) (remove func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.listeners == nil {
		c.listeners = make(map[uint64]FrameListener)
	}
	c.nextListener++
	id := c.nextListener
	c.listeners[id] = listener
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

func (c *Convolution) State() ConvolutionState {
	c.mu.Lock()
	eps := c.epsilon
	c.mu.Unlock()
	anim := c.animator.State()
	return ConvolutionState{Position: anim.Position, Epsilon: eps, Playing: anim.Playing}
}

// Apply runs the reducer, then moves the animator to match the new state.
func (c *Convolution) Apply(ctx context.Context, action Action) error {
	logger := utils.GetLogger(ctx)
	c.applyMu.Lock()
	defer c.applyMu.Unlock()

	prev := c.State()
	next, err := ReduceConvolution(c.preset, prev, action)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.epsilon = next.Epsilon
	c.mu.Unlock()

	switch {
	case next.Playing && !prev.Playing:
		// the tick loop must outlive the request that started it
		c.animator.Start(context.WithoutCancel(ctx), c.interval, c.onFrame)
	case !next.Playing && prev.Playing:
		c.animator.Stop()
	}
	if next.Position != prev.Position {
		c.animator.Seek(next.Position)
	}

	logger.Debug("convolution state updated", zap.String("action", action.Type),
		zap.Float64("position", next.Position), zap.Float64("eps", next.Epsilon), zap.Bool("playing", next.Playing))
	return nil
}

func (c *Convolution) onFrame(ctx context.Context, state animation.State) {
	c.mu.Lock()
	listeners := make([]FrameListener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	eps := c.epsilon
	c.mu.Unlock()
	if len(listeners) == 0 {
		return
	}

	scene, err := ConvolutionScene(c.preset, ConvolutionState{Position: state.Position, Epsilon: eps, Playing: state.Playing}, c.steps)
	if err != nil {
		utils.GetLogger(ctx).Error("build animation frame failed", zap.Error(err))
		return
	}
	for _, l := range listeners {
		l(ctx, scene)
	}
}

// Done is closed when the running animation ends.
func (c *Convolution) Done() <-chan struct{} {
	return c.animator.Done()
}

func (c *Convolution) Close() {
	c.animator.Stop()
}

func (c *Convolution) Scene(ctx context.Context) (*model.Scene, error) {
	return ConvolutionScene(c.preset, c.State(), c.steps)
}

// ConvolutionScene recomputes every curve from scratch for the given state.
func ConvolutionScene(preset Preset, state ConvolutionState, integrationSteps int) (*model.Scene, error) {
	frame, err := preset.Frame()
	if err != nil {
		return nil, err
	}
	kernel, err := mollifier.NewScaledKernel(mollifier.NewBumpKernel(), state.Epsilon)
	if err != nil {
		return nil, err
	}
	conv, err := mollifier.NewConvolver(kernel, integrationSteps)
	if err != nil {
		return nil, err
	}

	rough := mollifier.NoisyBox{}
	domain := preset.XDomain()
	grid := mollifier.Grid(domain, preset.Steps)
	fPoints := mollifier.SampleFunc(rough.Eval, grid)
	convPoints, err := conv.Curve(rough, grid)
	if err != nil {
		return nil, err
	}

	t := state.Position
	tIndex := mollifier.GridIndex(domain, preset.Steps, t)
	progress := convPoints[:min(len(convPoints), max(1, tIndex+1))]
	kernelPoints := mollifier.Centered(kernel, t, grid)

	shapes := axes(frame)
	shapes = append(shapes, legend(frame)...)
	shapes = append(shapes,
		path("rough", frame.Polyline(fPoints), model.Style{Fill: "none", Stroke: colorRough, StrokeWidth: 2, StrokeOpacity: 0.5}),
		path("kernel", frame.FilledArea(kernelPoints, mollifier.KernelDrawThreshold),
			model.Style{Fill: "rgba(59, 130, 246, 0.3)", Stroke: colorKernel, StrokeWidth: 1}),
		path("result", frame.Polyline(progress), model.Style{Fill: "none", Stroke: colorResult, StrokeWidth: 3}),
	)

	// result_max covers the whole curve, not just the drawn progress
	params := map[string]float64{
		"position":   t,
		"eps":        state.Epsilon,
		"playing":    boolParam(state.Playing),
		"result_max": mollifier.MaxValue(convPoints),
	}
	if tIndex >= 0 && tIndex < len(convPoints) {
		value := convPoints[tIndex].Y
		params["value"] = value
		shapes = append(shapes, circle("marker", frame.MapX(t), frame.MapY(value), 5,
			model.Style{Fill: colorResult, Stroke: "white", StrokeWidth: 2}))
	}
	shapes = append(shapes,
		line("position", frame.MapX(t), frame.Top(), frame.MapX(t), frame.Bottom(),
			model.Style{Stroke: colorLabel, Dash: 4, StrokeOpacity: 0.5}),
		text("position-label", frame.MapX(t), frame.Height-10, "t", model.Style{FontSize: 12, Anchor: "middle"}),
	)

	return &model.Scene{
		View: ConvolutionView,
		Panels: []model.Panel{{
			Width:  preset.Width,
			Height: preset.Height,
			Shapes: shapes,
		}},
		Formulas: []model.Formula{
			{Label: "convolution", TeX: `(J_\epsilon * f)(x) = \int J_\epsilon(x-y)f(y) dy`, Block: true},
			{Label: "position", TeX: `t = ` + utils.FixedString(t, 2)},
			{Label: "epsilon", TeX: `\epsilon = ` + utils.FixedString(state.Epsilon, 2)},
		},
		Params:  params,
		Caption: `Watch how the blue "bump" slides across the rough red function. The green line is the resulting smooth function.`,
	}, nil
}

func legend(frame *render.Frame) []model.Shape {
	x, y := frame.Width-150, 30.0
	label := model.Style{FontSize: 12}
	return []model.Shape{
		rect("legend", x, y, 120, 80, model.Style{Fill: "white", Stroke: "#eee"}),
		line("legend-rough", x+10, y+20, x+40, y+20, model.Style{Stroke: colorRough, StrokeWidth: 2}),
		text("legend-rough-label", x+50, y+24, "Rough f(x)", label),
		rect("legend-kernel", x+10, y+35, 30, 10, model.Style{Fill: "rgba(59, 130, 246, 0.3)"}),
		text("legend-kernel-label", x+50, y+44, "Kernel J(t-y)", label),
		line("legend-result", x+10, y+60, x+40, y+60, model.Style{Stroke: colorResult, StrokeWidth: 3}),
		text("legend-result-label", x+50, y+64, "Result (J*f)(t)", label),
	}
}
