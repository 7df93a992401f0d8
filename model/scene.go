package model

type ShapeKind string

const (
	ShapePath   ShapeKind = "path"
	ShapeLine   ShapeKind = "line"
	ShapeCircle ShapeKind = "circle"
	ShapeRect   ShapeKind = "rect"
	ShapeText   ShapeKind = "text"
)

// Style holds the paint attributes a rendering surface needs. Colors are CSS
// strings: "#rrggbb", "rgba(r, g, b, a)" or "none".
type Style struct {
	Fill          string  `json:"fill,omitempty"`
	Stroke        string  `json:"stroke,omitempty"`
	StrokeWidth   float64 `json:"stroke_width,omitempty"`
	StrokeOpacity float64 `json:"stroke_opacity,omitempty"`
	Dash          float64 `json:"dash,omitempty"`
	FontSize      float64 `json:"font_size,omitempty"`
	Anchor        string  `json:"anchor,omitempty"`
}

// Shape is a single drawable element in pixel coordinates.
//
// path:   D
// line:   X1,Y1 -> X2,Y2
// circle: center X1,Y1, radius R
// rect:   corner X1,Y1, size W,H
// text:   anchor X1,Y1, Text
type Shape struct {
	Kind  ShapeKind `json:"kind"`
	ID    string    `json:"id,omitempty"`
	D     string    `json:"d,omitempty"`
	X1    float64   `json:"x1,omitempty"`
	Y1    float64   `json:"y1,omitempty"`
	X2    float64   `json:"x2,omitempty"`
	Y2    float64   `json:"y2,omitempty"`
	R     float64   `json:"r,omitempty"`
	W     float64   `json:"w,omitempty"`
	H     float64   `json:"h,omitempty"`
	Text  string    `json:"text,omitempty"`
	Style Style     `json:"style"`
}

// Formula is a math markup string for the typesetting collaborator. It is
// never parsed here.
type Formula struct {
	Label string `json:"label"`
	TeX   string `json:"tex"`
	Block bool   `json:"block"`
}

// Panel is one drawing surface of a view.
type Panel struct {
	Title  string  `json:"title,omitempty"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Shapes []Shape `json:"shapes"`
}

type Scene struct {
	View     string             `json:"view"`
	Panels   []Panel            `json:"panels"`
	Formulas []Formula          `json:"formulas,omitempty"`
	Params   map[string]float64 `json:"params"`
	Caption  string             `json:"caption,omitempty"`
}

// FindShape returns the first shape with the given id across all panels.
func (s *Scene) FindShape(id string) (Shape, bool) {
	if s == nil {
		return Shape{}, false
	}
	for _, panel := range s.Panels {
		for _, shape := range panel.Shapes {
			if shape.ID == id {
				return shape, true
			}
		}
	}
	return Shape{}, false
}
