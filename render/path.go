package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/uyouii/mollifier/common"
	"github.com/uyouii/mollifier/model"
	"github.com/uyouii/mollifier/utils"
)

func num(v float64) string {
	return strconv.FormatFloat(utils.FormatFloat(v, 2), 'f', -1, 64)
}

// Polyline moves to the first mapped sample and draws a straight segment to
// each following one, in order. Coordinates are rounded to 0.01 px. No
// samples yields "".
func (f *Frame) Polyline(samples []model.Sample) string {
	var sb strings.Builder
	for i, s := range samples {
		if i > 0 {
			sb.WriteByte(' ')
		}
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		px, py := f.Map(s)
		sb.WriteString(cmd + " " + num(px) + " " + num(py))
	}
	return sb.String()
}

// FilledArea outlines the samples above threshold as a closed region that
// starts and ends on the y=0 baseline.
func (f *Frame) FilledArea(samples []model.Sample, threshold float64) string {
	kept := make([]model.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Y > threshold {
			kept = append(kept, s)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	baseline := f.MapY(0)
	var sb strings.Builder
	sb.WriteString("M " + num(f.MapX(kept[0].X)) + " " + num(baseline))
	for _, s := range kept {
		px, py := f.Map(s)
		sb.WriteString(" L " + num(px) + " " + num(py))
	}
	sb.WriteString(" L " + num(f.MapX(kept[len(kept)-1].X)) + " " + num(baseline) + " Z")
	return sb.String()
}

// PathCommand is one parsed command of a path string. Z has no point.
type PathCommand struct {
	Op byte
	X  float64
	Y  float64
}

// ParsePath reads the M/L/Z subset this package emits.
func ParsePath(d string) ([]PathCommand, error) {
	fields := strings.Fields(d)
	res := make([]PathCommand, 0, len(fields)/3)
	for i := 0; i < len(fields); {
		op := fields[i]
		switch op {
		case "Z", "z":
			res = append(res, PathCommand{Op: 'Z'})
			i++
		case "M", "L":
			if i+2 >= len(fields) {
				return nil, fmt.Errorf("truncated %s command: %w", op, common.ErrorInvalidValue)
			}
			x, err := strconv.ParseFloat(fields[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("parse x of %s: %w", op, common.ErrorInvalidValue)
			}
			y, err := strconv.ParseFloat(fields[i+2], 64)
			if err != nil {
				return nil, fmt.Errorf("parse y of %s: %w", op, common.ErrorInvalidValue)
			}
			res = append(res, PathCommand{Op: op[0], X: x, Y: y})
			i += 3
		default:
			return nil, fmt.Errorf("unsupported path command %q: %w", op, common.ErrorInvalidValue)
		}
	}
	return res, nil
}
