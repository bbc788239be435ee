package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAngleRange(t *testing.T) {
	inputs := []float64{
		0, 1, -1, Pi, -Pi, Pi2, -Pi2, 3 * Pi, -3 * Pi,
		HalfPi, -HalfPi, 7.5, -7.5, 1e6, -1e6, 123456.789, Pi + 1e-12, -Pi - 1e-12,
	}
	for _, in := range inputs {
		out := NormalizeAngle(in)
		assert.Truef(t, out > -Pi && out <= Pi, "NormalizeAngle(%v) = %v out of range", in, out)
		assert.Equalf(t, out, NormalizeAngle(out), "NormalizeAngle not idempotent for %v", in)

		// same direction
		assert.InDeltaf(t, math.Cos(in), math.Cos(out), 1e-6, "cos mismatch for %v", in)
		assert.InDeltaf(t, math.Sin(in), math.Sin(out), 1e-6, "sin mismatch for %v", in)
	}
}

func TestNormalizeAngleBoundaries(t *testing.T) {
	assert.Equal(t, Pi, NormalizeAngle(Pi))
	assert.Equal(t, Pi, NormalizeAngle(-Pi))
	assert.InDelta(t, 0.0, NormalizeAngle(Pi2), 1e-12)
	assert.InDelta(t, -HalfPi, NormalizeAngle(3*HalfPi), 1e-12)
}

func TestPlayerRotateAndPitch(t *testing.T) {
	p := NewPlayer(400, 300, 0, 0, 300)

	p.Rotate(Pi + 0.5)
	assert.InDelta(t, -Pi+0.5, p.Angle, 1e-9)
	assert.True(t, p.Moved)

	p.UpdatePitch(1000)
	assert.Equal(t, 300.0, p.Pitch)
	p.UpdatePitch(-5000)
	assert.Equal(t, -300.0, p.Pitch)

	st := p.State()
	assert.Equal(t, 400.0, st.Position.X)
	assert.Equal(t, 300.0, st.Position.Y)

	// the state is a copy
	p.MoveTo(10, 20)
	assert.Equal(t, 400.0, st.Position.X)
}
