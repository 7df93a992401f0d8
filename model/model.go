package model

import (
	"fmt"
	"math"
)

// Sample is one evaluated point of a function.
type Sample struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Interval is the closed range [Lower, Upper]. Either end may be infinite.
type Interval struct {
	Lower float64 `json:"lower" yaml:"lower"`
	Upper float64 `json:"upper" yaml:"upper"`
}

func NewInterval(lower, upper float64) Interval {
	return Interval{Lower: lower, Upper: upper}
}

func (iv Interval) Width() float64 {
	return iv.Upper - iv.Lower
}

func (iv Interval) Contains(x float64) bool {
	return x >= iv.Lower && x <= iv.Upper
}

func (iv Interval) Bounded() bool {
	return !math.IsInf(iv.Lower, 0) && !math.IsInf(iv.Upper, 0)
}

func (iv Interval) Empty() bool {
	return !(iv.Upper > iv.Lower)
}

func (iv Interval) Pad(d float64) Interval {
	return Interval{Lower: iv.Lower - d, Upper: iv.Upper + d}
}

// Intersect returns the overlap of two intervals and whether it has positive width.
func (iv Interval) Intersect(other Interval) (Interval, bool) {
	res := Interval{
		Lower: math.Max(iv.Lower, other.Lower),
		Upper: math.Min(iv.Upper, other.Upper),
	}
	return res, !res.Empty()
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%v, %v]", iv.Lower, iv.Upper)
}

// SamplesX and SamplesY split a sample sequence into coordinate slices.
func SamplesX(samples []Sample) []float64 {
	res := make([]float64, len(samples))
	for i, s := range samples {
		res[i] = s.X
	}
	return res
}

func SamplesY(samples []Sample) []float64 {
	res := make([]float64, len(samples))
	for i, s := range samples {
		res[i] = s.Y
	}
	return res
}
