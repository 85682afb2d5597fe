package world

// FadeOpacity maps a viewer distance to vegetation opacity: fully opaque up
// to fadeStart, linear down to zero at loadDistance.
func FadeOpacity(distance, fadeStart, loadDistance float64) float64 {
	if distance <= fadeStart {
		return 1
	}
	if distance >= loadDistance || loadDistance <= fadeStart {
		return 0
	}
	return 1 - (distance-fadeStart)/(loadDistance-fadeStart)
}

// FadeVisible reports whether vegetation at opacity is worth a draw call.
func FadeVisible(opacity, epsilon float64) bool {
	return opacity > epsilon
}
