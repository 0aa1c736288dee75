package domain

import "math"

// deepestColor also catches NaN depths.
const deepestColor = "green"

// RadiusScale converts magnitude into marker radius in pixels.
const RadiusScale = 5

// DepthBucket is one color band. A depth d belongs to the first bucket with
// d <= Upper; the lower bound is the previous bucket's Upper, exclusive.
type DepthBucket struct {
	Upper float64
	Color string
}

var depthBuckets = []DepthBucket{
	{Upper: 10, Color: "red"},
	{Upper: 25, Color: "orange"},
	{Upper: 40, Color: "yellow"},
	{Upper: 55, Color: "pink"},
	{Upper: 70, Color: "blue"},
	{Upper: math.Inf(1), Color: deepestColor},
}

// DepthBuckets returns the bucket table in ascending depth order.
func DepthBuckets() []DepthBucket {
	out := make([]DepthBucket, len(depthBuckets))
	copy(out, depthBuckets)
	return out
}

// ChooseColor maps a depth in kilometres to its bucket color.
// NaN matches no bucket bound and falls through to the deepest color.
func ChooseColor(depth float64) string {
	for _, b := range depthBuckets {
		if depth <= b.Upper {
			return b.Color
		}
	}
	return deepestColor
}

// ChooseRadius maps a magnitude to a marker radius. No clamping is applied.
func ChooseRadius(magnitude float64) float64 {
	return magnitude * RadiusScale
}
