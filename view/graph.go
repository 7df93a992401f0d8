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

type GraphState struct {
	Epsilon float64 `json:"eps"`
}

// ReduceGraph is the graph view's state transition. Only the eps slider exists.
func ReduceGraph(preset Preset, state GraphState, action Action) (GraphState, error) {
	if err := checkFinite(action); err != nil {
		return state, err
	}
	switch action.Type {
	case ActionSetEpsilon:
		state.Epsilon = utils.Clamp(action.Value, preset.EpsMin, preset.EpsMax)
		return state, nil
	case ActionReset:
		return GraphState{Epsilon: preset.Epsilon}, nil
	}
	return state, fmt.Errorf("%s on %s: %w", action.Type, GraphView, common.ErrorUnknownAction)
}

// Graph draws J_eps(x) under an eps slider.
type Graph struct {
	preset Preset

	mu    sync.Mutex
	state GraphState
}

func NewGraph(preset Preset) *Graph {
	return &Graph{
		preset: preset,
		state:  GraphState{Epsilon: utils.Clamp(preset.Epsilon, preset.EpsMin, preset.EpsMax)},
	}
}

func (g *Graph) Name() string {
	return GraphView
}

func (g *Graph) State() GraphState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

func (g *Graph) Apply(ctx context.Context, action Action) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	next, err := ReduceGraph(g.preset, g.state, action)
	if err != nil {
		return err
	}
	g.state = next
	utils.GetLogger(ctx).Debug("graph state updated", zap.Float64("eps", next.Epsilon))
	return nil
}

func (g *Graph) Close() {}

func (g *Graph) Scene(ctx context.Context) (*model.Scene, error) {
	return GraphScene(g.preset, g.State())
}

func GraphScene(preset Preset, state GraphState) (*model.Scene, error) {
	frame, err := preset.Frame()
	if err != nil {
		return nil, err
	}
	kernel, err := mollifier.NewScaledKernel(mollifier.NewBumpKernel(), state.Epsilon)
	if err != nil {
		return nil, err
	}
	eps := state.Epsilon

	points := mollifier.EvaluateGrid(kernel, mollifier.Grid(preset.XDomain(), preset.Steps))

	shapes := axes(frame)
	for _, v := range []float64{-1, 1} {
		id := fmt.Sprintf("tick-%v", v)
		shapes = append(shapes,
			line(id, frame.MapX(v), frame.MapY(0)-5, frame.MapX(v), frame.MapY(0)+5, model.Style{Stroke: colorTick}),
			text(id+"-label", frame.MapX(v), frame.MapY(0)+20, fmt.Sprintf("%v", v),
				model.Style{Fill: colorLabel, FontSize: 12, Anchor: "middle"}),
		)
	}

	indicator := model.Style{Stroke: "red", StrokeWidth: 1, Dash: 4}
	shapes = append(shapes,
		line("eps-left", frame.MapX(-eps), frame.MapY(0), frame.MapX(-eps), frame.MapY(0)-10, indicator),
		line("eps-right", frame.MapX(eps), frame.MapY(0), frame.MapX(eps), frame.MapY(0)-10, indicator),
		text("eps-label", frame.MapX(eps), frame.MapY(0)-15, "ε", model.Style{Fill: "red", FontSize: 12, Anchor: "middle"}),
		path("kernel", frame.Polyline(points), model.Style{Fill: "rgba(59, 130, 246, 0.2)", Stroke: colorKernel, StrokeWidth: 3}),
	)

	// drawn_mass is the area under the plotted samples
	params := map[string]float64{
		"eps":        eps,
		"peak":       kernel.Shape(0),
		"mass":       mollifier.Mass(kernel, 0),
		"drawn_mass": mollifier.TrapezoidMass(points),
	}
	if support, ok := mollifier.SupportOf(points, 0); ok {
		params["support_width"] = support.Width()
	}

	return &model.Scene{
		View: GraphView,
		Panels: []model.Panel{{
			Width:  preset.Width,
			Height: preset.Height,
			Shapes: shapes,
		}},
		Formulas: []model.Formula{
			{Label: "scaled", TeX: `J_\epsilon(x) = \frac{1}{\epsilon^n} J\left(\frac{x}{\epsilon}\right)`, Block: true},
			{Label: "epsilon", TeX: `\epsilon = ` + utils.FixedString(eps, 2)},
		},
		Params:  params,
		Caption: "Notice how the area stays constant (1) while the width shrinks.",
	}, nil
}
