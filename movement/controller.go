package movement

import (
	"github.com/harbdog/raycaster-go/geom"

	"example.com/arena/level"
	"example.com/arena/model"
)

// Keys is the set of movement keys held during a tick.
type Keys uint16

const (
	Forward Keys = 1 << iota
	Backward
	StrafeLeft
	StrafeRight
	TurnLeft
	TurnRight
	LookUp
	LookDown
)

func (k Keys) Has(key Keys) bool {
	return k&key != 0
}

// Input is everything the controller reads for one tick.
type Input struct {
	Keys    Keys
	MouseDX float64
	MouseDY float64
}

// Controller applies input to the local player with wall sliding against the level.
type Controller struct {
	Level *level.Level

	Speed            float64
	MouseSensitivity float64
	// PitchFactor scales mouse pitch relative to mouse yaw.
	PitchFactor float64
	TurnStep    float64
	PitchStep   float64
}

// Update advances the player by one tick. Mouse look is applied first and
// decides the heading used for movement; key turning is applied after.
func (c *Controller) Update(p *model.Player, in Input) {
	p.Rotate(in.MouseDX * c.MouseSensitivity)
	p.UpdatePitch(in.MouseDY * c.MouseSensitivity * c.PitchFactor)

	dx, dy := c.delta(p.Angle, in.Keys)

	switch {
	case in.Keys.Has(TurnLeft) && !in.Keys.Has(TurnRight):
		p.Rotate(-c.TurnStep)
	case in.Keys.Has(TurnRight) && !in.Keys.Has(TurnLeft):
		p.Rotate(c.TurnStep)
	}
	switch {
	case in.Keys.Has(LookUp) && !in.Keys.Has(LookDown):
		p.UpdatePitch(-c.PitchStep)
	case in.Keys.Has(LookDown) && !in.Keys.Has(LookUp):
		p.UpdatePitch(c.PitchStep)
	}

	if dx == 0 && dy == 0 {
		return
	}
	p.MoveTo(c.slide(p.Position.X, p.Position.Y, dx, dy))
}

// delta sums the movement vectors of the held keys for heading angle.
func (c *Controller) delta(angle float64, keys Keys) (dx, dy float64) {
	forward := geom.LineFromAngle(0, 0, angle, c.Speed)
	strafe := geom.LineFromAngle(0, 0, angle-model.HalfPi, c.Speed)

	if keys.Has(Forward) {
		dx, dy = dx+forward.X2, dy+forward.Y2
	}
	if keys.Has(Backward) {
		dx, dy = dx-forward.X2, dy-forward.Y2
	}
	if keys.Has(StrafeLeft) {
		dx, dy = dx+strafe.X2, dy+strafe.Y2
	}
	if keys.Has(StrafeRight) {
		dx, dy = dx-strafe.X2, dy-strafe.Y2
	}
	return dx, dy
}

// slide resolves each axis separately so that movement into a wall keeps the
// component parallel to it.
func (c *Controller) slide(x, y, dx, dy float64) (float64, float64) {
	nextX, nextY := x+dx, y+dy

	if !c.Level.IsWall(nextX, y) {
		x = nextX
	}
	if !c.Level.IsWall(x, nextY) {
		y = nextY
	}
	return x, y
}
