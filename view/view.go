package view

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/uyouii/mollifier/animation"
	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/mollifier"
	"github.com/uyouii/mollifier/render"
)

const (
	GraphView       = "graph"
	ConvolutionView = "convolution"
	StepView        = "step"
)

const (
	ActionSetEpsilon  = "set_epsilon"
	ActionSetPosition = "set_position"
	ActionToggle      = "toggle_animation"
	ActionReset       = "reset"
)

// Action is one user input: a slider move or a button press.
type Action struct {
	Type  string  `json:"type"`
	Value float64 `json:"value,omitempty"`
}

type View interface {
	Name() string
	Apply(ctx context.Context, action Action) error
	Scene(ctx context.Context) (*model.Scene, error)
	// Close releases background work such as a running animation.
	Close()
}

// Options are engine settings shared by every view.
type Options struct {
	IntegrationSteps  int
	AnimationStep     float64
	AnimationInterval time.Duration
}

func DefaultOptions() Options {
	return Options{
		IntegrationSteps:  mollifier.DefaultIntegrationSteps,
		AnimationStep:     animation.DefaultStep,
		AnimationInterval: animation.DefaultInterval,
	}
}

// Preset is the canvas, domain and slider ranges of one view.
type Preset struct {
	Width    int     `yaml:"width" mapstructure:"width" json:"width"`
	Height   int     `yaml:"height" mapstructure:"height" json:"height"`
	Padding  float64 `yaml:"padding" mapstructure:"padding" json:"padding"`
	XMin     float64 `yaml:"x_min" mapstructure:"x_min" json:"x_min"`
	XMax     float64 `yaml:"x_max" mapstructure:"x_max" json:"x_max"`
	YMin     float64 `yaml:"y_min" mapstructure:"y_min" json:"y_min"`
	YMax     float64 `yaml:"y_max" mapstructure:"y_max" json:"y_max"`
	EpsMin   float64 `yaml:"eps_min" mapstructure:"eps_min" json:"eps_min"`
	EpsMax   float64 `yaml:"eps_max" mapstructure:"eps_max" json:"eps_max"`
	Epsilon  float64 `yaml:"eps" mapstructure:"eps" json:"eps"`
	Position float64 `yaml:"position" mapstructure:"position" json:"position"`
	// grid subintervals across [XMin, XMax]
	Steps int `yaml:"steps" mapstructure:"steps" json:"steps"`
}

func DefaultPresets() map[string]Preset {
	return map[string]Preset{
		GraphView: {
			Width: 600, Height: 300, Padding: 40,
			XMin: -2, XMax: 2, YMin: 0, YMax: 6,
			EpsMin: 0.2, EpsMax: 1.5, Epsilon: 0.5,
			Steps: 200,
		},
		ConvolutionView: {
			Width: 700, Height: 400, Padding: 40,
			XMin: -3, XMax: 3, YMin: -0.5, YMax: 2.5,
			EpsMin: 0.1, EpsMax: 1.0, Epsilon: 0.3,
			Position: -2.5,
			Steps:    400,
		},
		StepView: {
			Width: 350, Height: 250, Padding: 30,
			XMin: -2, XMax: 2, YMin: -0.2, YMax: 1.2,
			EpsMin: 0.1, EpsMax: 1.0, Epsilon: 0.5,
			Position: 0.5,
			Steps:    400,
		},
	}
}

func (p Preset) XDomain() model.Interval {
	return model.NewInterval(p.XMin, p.XMax)
}

func (p Preset) YDomain() model.Interval {
	return model.NewInterval(p.YMin, p.YMax)
}

func (p Preset) EpsRange() model.Interval {
	return model.NewInterval(p.EpsMin, p.EpsMax)
}

func (p Preset) Frame() (*render.Frame, error) {
	return render.NewFrame(float64(p.Width), float64(p.Height), p.Padding, p.XDomain(), p.YDomain())
}

func (p Preset) Validate() error {
	if p.Width <= 0 || p.Height <= 0 || p.Padding < 0 {
		return fmt.Errorf("canvas %dx%d padding %v: %w", p.Width, p.Height, p.Padding, common.ErrorInvalidValue)
	}
	if p.XDomain().Empty() || p.YDomain().Empty() {
		return fmt.Errorf("domain x=%v y=%v: %w", p.XDomain(), p.YDomain(), common.ErrorInvalidValue)
	}
	if !(p.EpsMin > 0) || p.EpsMin > p.EpsMax {
		return fmt.Errorf("eps range %v: %w", p.EpsRange(), common.ErrorInvalidEpsilon)
	}
	if p.Steps < 1 {
		return fmt.Errorf("steps=%d: %w", p.Steps, common.ErrorInvalidValue)
	}
	if _, err := p.Frame(); err != nil {
		return err
	}
	return nil
}

// New builds the named view in its initial state.
func New(name string, preset Preset, opts Options) (View, error) {
	if err := preset.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	switch name {
	case GraphView:
		return NewGraph(preset), nil
	case ConvolutionView:
		return NewConvolution(preset, opts)
	case StepView:
		return NewStep(preset), nil
	}
	return nil, fmt.Errorf("%s: %w", name, common.ErrorUnknownView)
}

// Names lists the views a preset map can build, sorted.
func Names(presets map[string]Preset) []string {
	res := make([]string, 0, len(presets))
	for name := range presets {
		res = append(res, name)
	}
	sort.Strings(res)
	return res
}

func checkFinite(action Action) error {
	if math.IsNaN(action.Value) || math.IsInf(action.Value, 0) {
		return fmt.Errorf("%s value %v: %w", action.Type, action.Value, common.ErrorInvalidValue)
	}
	return nil
}
