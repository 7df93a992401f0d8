package render

import (
	"fmt"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
)

// Frame maps a domain rectangle X x Y onto a padded pixel canvas. Pixel y
// grows downward, so the y mapping is flipped.
type Frame struct {
	Width   float64
	Height  float64
	Padding float64
	X       model.Interval
	Y       model.Interval
}

func NewFrame(width, height, padding float64, x, y model.Interval) (*Frame, error) {
	if x.Empty() || y.Empty() {
		return nil, fmt.Errorf("domain %v x %v: %w", x, y, common.ErrorInvalidValue)
	}
	if width <= 2*padding || height <= 2*padding {
		return nil, fmt.Errorf("canvas %vx%v with padding %v: %w", width, height, padding, common.ErrorInvalidValue)
	}
	return &Frame{Width: width, Height: height, Padding: padding, X: x, Y: y}, nil
}

func (f *Frame) PlotWidth() float64 {
	return f.Width - 2*f.Padding
}

func (f *Frame) PlotHeight() float64 {
	return f.Height - 2*f.Padding
}

func (f *Frame) MapX(x float64) float64 {
	return f.Padding + (x-f.X.Lower)/f.X.Width()*f.PlotWidth()
}

func (f *Frame) MapY(y float64) float64 {
	return f.Height - f.Padding - (y-f.Y.Lower)/f.Y.Width()*f.PlotHeight()
}

func (f *Frame) UnmapX(px float64) float64 {
	return f.X.Lower + (px-f.Padding)/f.PlotWidth()*f.X.Width()
}

func (f *Frame) UnmapY(py float64) float64 {
	return f.Y.Lower + (f.Height-f.Padding-py)/f.PlotHeight()*f.Y.Width()
}

func (f *Frame) Map(s model.Sample) (float64, float64) {
	return f.MapX(s.X), f.MapY(s.Y)
}

// Top and Bottom are the pixel rows of the plot area edges.
func (f *Frame) Top() float64 {
	return f.Padding
}

func (f *Frame) Bottom() float64 {
	return f.Height - f.Padding
}
