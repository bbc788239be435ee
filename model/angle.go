package model

import "math"

const (
	Pi     = math.Pi
	Pi2    = 2 * math.Pi
	HalfPi = math.Pi / 2
)

// NormalizeAngle wraps any finite angle into (-Pi, Pi]. Values already in range
// are returned untouched so repeated normalization is exact.
func NormalizeAngle(angle float64) float64 {
	if angle > -Pi && angle <= Pi {
		return angle
	}

	a := math.Mod(angle+Pi, Pi2)
	if a < 0 {
		a += Pi2
	}
	a -= Pi
	if a <= -Pi {
		a += Pi2
	}
	if a > Pi {
		a = Pi
	}
	return a
}
