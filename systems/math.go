package systems

import "math"

// clamp01 clamps a float32 value to the [0, 1] range.
func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// distanceSq returns the squared distance between two points.
func distanceSq(x1, y1, x2, y2 float32) float32 {
	dx := x1 - x2
	dy := y1 - y2
	return dx*dx + dy*dy
}

// distance returns the Euclidean distance between two points.
func distance(x1, y1, x2, y2 float32) float32 {
	return float32(math.Sqrt(float64(distanceSq(x1, y1, x2, y2))))
}

// length returns the magnitude of a vector.
func length(x, y float32) float32 {
	return float32(math.Sqrt(float64(x*x + y*y)))
}

// normalize returns the unit vector along (x, y), or zero for a zero vector.
func normalize(x, y float32) (float32, float32) {
	l := length(x, y)
	if l == 0 {
		return 0, 0
	}
	return x / l, y / l
}

// rotate turns (x, y) by angle radians.
func rotate(x, y, angle float32) (float32, float32) {
	s, c := math.Sincos(float64(angle))
	return x*float32(c) - y*float32(s), x*float32(s) + y*float32(c)
}
