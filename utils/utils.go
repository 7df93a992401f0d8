package utils

import (
	"math"
	"strconv"
)

func FormatFloat(f float64, round int32) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	scale := math.Pow(10, float64(round))
	return math.Round(f*scale) / scale
}

// FixedString prints f with exactly digits decimals, the way the sliders display values.
func FixedString(f float64, digits int) string {
	return strconv.FormatFloat(f, 'f', digits, 64)
}

func Clamp(v, lower, upper float64) float64 {
	if v < lower {
		return lower
	}
	if v > upper {
		return upper
	}
	return v
}
