package render

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/uyouii/mollifier/model"
)

// WriteSVG writes one panel as a standalone SVG document. Paths with empty
// data are skipped.
func WriteSVG(panel model.Panel, w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		panel.Width, panel.Height, panel.Width, panel.Height)
	bw.WriteString("\n")
	fmt.Fprintf(bw, `<rect x="0" y="0" width="%d" height="%d" fill="white"/>`, panel.Width, panel.Height)
	bw.WriteString("\n")

	for _, shape := range panel.Shapes {
		el := svgElement(shape)
		if el == "" {
			continue
		}
		bw.WriteString(el)
		bw.WriteString("\n")
	}
	bw.WriteString("</svg>\n")
	return bw.Flush()
}

func svgElement(shape model.Shape) string {
	attrs := svgStyle(shape.Style)
	switch shape.Kind {
	case model.ShapePath:
		if shape.D == "" {
			return ""
		}
		return fmt.Sprintf(`<path d="%s"%s/>`, shape.D, attrs)
	case model.ShapeLine:
		return fmt.Sprintf(`<line x1="%s" y1="%s" x2="%s" y2="%s"%s/>`,
			num(shape.X1), num(shape.Y1), num(shape.X2), num(shape.Y2), attrs)
	case model.ShapeCircle:
		return fmt.Sprintf(`<circle cx="%s" cy="%s" r="%s"%s/>`, num(shape.X1), num(shape.Y1), num(shape.R), attrs)
	case model.ShapeRect:
		return fmt.Sprintf(`<rect x="%s" y="%s" width="%s" height="%s"%s/>`,
			num(shape.X1), num(shape.Y1), num(shape.W), num(shape.H), attrs)
	case model.ShapeText:
		var sb strings.Builder
		xml.EscapeText(&sb, []byte(shape.Text))
		return fmt.Sprintf(`<text x="%s" y="%s"%s>%s</text>`, num(shape.X1), num(shape.Y1), attrs, sb.String())
	}
	return ""
}

func svgStyle(style model.Style) string {
	var sb strings.Builder
	if style.Fill != "" {
		fmt.Fprintf(&sb, ` fill="%s"`, style.Fill)
	}
	if style.Stroke != "" {
		fmt.Fprintf(&sb, ` stroke="%s"`, style.Stroke)
	}
	if style.StrokeWidth > 0 {
		fmt.Fprintf(&sb, ` stroke-width="%s"`, num(style.StrokeWidth))
	}
	if style.StrokeOpacity > 0 {
		fmt.Fprintf(&sb, ` stroke-opacity="%s"`, num(style.StrokeOpacity))
	}
	if style.Dash > 0 {
		fmt.Fprintf(&sb, ` stroke-dasharray="%s"`, num(style.Dash))
	}
	if style.FontSize > 0 {
		fmt.Fprintf(&sb, ` font-size="%s"`, num(style.FontSize))
	}
	if style.Anchor != "" {
		fmt.Fprintf(&sb, ` text-anchor="%s"`, style.Anchor)
	}
	return sb.String()
}
