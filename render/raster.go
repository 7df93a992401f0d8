package render

import (
	"fmt"
	"io"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/uyouii/mollifier/model"
	"golang.org/x/image/font/gofont/goregular"
)

const defaultFontSize = 12

var fontSource = sync.OnceValues(func() (*text.FontSource, error) {
	return text.NewFontSource(goregular.TTF)
})

// Rasterize paints a panel with the gg software renderer. Labels use the
// embedded Go Regular face.
func Rasterize(panel model.Panel) (*gg.Context, error) {
	dc := gg.NewContext(panel.Width, panel.Height)
	dc.ClearWithColor(gg.White)

	for i, shape := range panel.Shapes {
		if err := drawShape(dc, shape); err != nil {
			dc.Close()
			return nil, fmt.Errorf("draw shape %d (%s): %w", i, shape.Kind, err)
		}
	}
	return dc, nil
}

// WritePNG rasterizes a panel and encodes it as PNG.
func WritePNG(panel model.Panel, w io.Writer) error {
	dc, err := Rasterize(panel)
	if err != nil {
		return err
	}
	defer dc.Close()
	return dc.EncodePNG(w)
}

func drawShape(dc *gg.Context, shape model.Shape) error {
	switch shape.Kind {
	case model.ShapePath:
		if shape.D == "" {
			return nil
		}
		cmds, err := ParsePath(shape.D)
		if err != nil {
			return err
		}
		for _, cmd := range cmds {
			switch cmd.Op {
			case 'M':
				dc.MoveTo(cmd.X, cmd.Y)
			case 'L':
				dc.LineTo(cmd.X, cmd.Y)
			case 'Z':
				dc.ClosePath()
			}
		}
	case model.ShapeLine:
		dc.MoveTo(shape.X1, shape.Y1)
		dc.LineTo(shape.X2, shape.Y2)
	case model.ShapeCircle:
		dc.DrawCircle(shape.X1, shape.Y1, shape.R)
	case model.ShapeRect:
		dc.DrawRectangle(shape.X1, shape.Y1, shape.W, shape.H)
	case model.ShapeText:
		return drawText(dc, shape)
	default:
		return nil
	}
	return paint(dc, shape)
}

func drawText(dc *gg.Context, shape model.Shape) error {
	if shape.Text == "" {
		return nil
	}
	source, err := fontSource()
	if err != nil {
		return err
	}
	size := shape.Style.FontSize
	if size <= 0 {
		size = defaultFontSize
	}
	dc.SetFont(source.Face(size))

	color, ok := ParseColor(shape.Style.Fill)
	if !ok {
		color = gg.RGB(0, 0, 0)
	}
	dc.SetColor(color.Color())

	// x is the anchor, y the baseline, as in SVG text-anchor
	var ax float64
	switch shape.Style.Anchor {
	case "middle":
		ax = 0.5
	case "end":
		ax = 1
	}
	dc.DrawStringAnchored(shape.Text, shape.X1, shape.Y1, ax, 0)
	return nil
}

func paint(dc *gg.Context, shape model.Shape) error {
	style := shape.Style
	fill, hasFill := ParseColor(style.Fill)
	stroke, hasStroke := ParseColor(style.Stroke)

	// lines have no interior; other shapes fill black unless told otherwise,
	// matching SVG defaults
	if shape.Kind != model.ShapeLine && style.Fill == "" {
		fill, hasFill = gg.RGB(0, 0, 0), true
	}
	if shape.Kind == model.ShapeLine {
		hasFill = false
	}

	if hasFill {
		dc.SetColor(fill.Color())
		if !hasStroke {
			return dc.Fill()
		}
		if err := dc.FillPreserve(); err != nil {
			dc.ClearPath()
			return err
		}
	}

	if !hasStroke {
		dc.ClearPath()
		return nil
	}
	width := style.StrokeWidth
	if width <= 0 {
		width = 1
	}
	dc.SetLineWidth(width)
	if style.Dash > 0 {
		dc.SetDash(style.Dash, style.Dash)
	} else {
		dc.ClearDash()
	}
	dc.SetColor(withOpacity(stroke, style.StrokeOpacity).Color())
	return dc.Stroke()
}
