package render

import (
	"fmt"
	"strings"

	"github.com/gogpu/gg"
)

var namedColors = map[string]gg.RGBA{
	"white": gg.White,
	"black": gg.RGB(0, 0, 0),
	"red":   gg.RGB(1, 0, 0),
	"green": gg.RGB(0, 0.5, 0),
	"blue":  gg.RGB(0, 0, 1),
}

// ParseColor understands the CSS forms scenes use: "#rgb", "#rrggbb",
// "rgba(r, g, b, a)", "rgb(r, g, b)" and a few names. ok is false for
// "none", "" and anything unrecognized.
func ParseColor(s string) (gg.RGBA, bool) {
	s = strings.TrimSpace(strings.ToLower(s))
	switch {
	case s == "" || s == "none":
		return gg.RGBA{}, false
	case strings.HasPrefix(s, "#"):
		return gg.Hex(s), true
	case strings.HasPrefix(s, "rgba("):
		var r, g, b, a float64
		if _, err := fmt.Sscanf(s, "rgba(%f, %f, %f, %f)", &r, &g, &b, &a); err != nil {
			return gg.RGBA{}, false
		}
		return gg.RGBA2(r/255, g/255, b/255, a), true
	case strings.HasPrefix(s, "rgb("):
		var r, g, b float64
		if _, err := fmt.Sscanf(s, "rgb(%f, %f, %f)", &r, &g, &b); err != nil {
			return gg.RGBA{}, false
		}
		return gg.RGB(r/255, g/255, b/255), true
	}
	c, ok := namedColors[s]
	return c, ok
}

func withOpacity(c gg.RGBA, opacity float64) gg.RGBA {
	if opacity <= 0 || opacity >= 1 {
		return c
	}
	c.A *= opacity
	return c
}
