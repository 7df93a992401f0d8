package view

import (
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/render"
)

const (
	colorAxis   = "#ccc"
	colorTick   = "#999"
	colorLabel  = "#666"
	colorRough  = "#ef4444"
	colorKernel = "#3b82f6"
	colorResult = "#10b981"
)

func axes(f *render.Frame) []model.Shape {
	style := model.Style{Stroke: colorAxis, StrokeWidth: 2}
	return []model.Shape{
		line("axis-x", f.Padding, f.MapY(0), f.Width-f.Padding, f.MapY(0), style),
		line("axis-y", f.MapX(0), f.Bottom(), f.MapX(0), f.Top(), style),
	}
}

func line(id string, x1, y1, x2, y2 float64, style model.Style) model.Shape {
	return model.Shape{Kind: model.ShapeLine, ID: id, X1: x1, Y1: y1, X2: x2, Y2: y2, Style: style}
}

func text(id string, x, y float64, s string, style model.Style) model.Shape {
	return model.Shape{Kind: model.ShapeText, ID: id, X1: x, Y1: y, Text: s, Style: style}
}

func path(id, d string, style model.Style) model.Shape {
	return model.Shape{Kind: model.ShapePath, ID: id, D: d, Style: style}
}

func circle(id string, x, y, r float64, style model.Style) model.Shape {
	return model.Shape{Kind: model.ShapeCircle, ID: id, X1: x, Y1: y, R: r, Style: style}
}

func rect(id string, x, y, w, h float64, style model.Style) model.Shape {
	return model.Shape{Kind: model.ShapeRect, ID: id, X1: x, Y1: y, W: w, H: h, Style: style}
}

func boolParam(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
