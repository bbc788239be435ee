package model

import (
	"github.com/harbdog/raycaster-go/geom"
)

// PlayerState is the value copy of a player exchanged with the server and
// handed to the renderer.
type PlayerState struct {
	Position geom.Vector2
	Angle    float64
	Pitch    float64
}

// Player is the locally controlled player. Angle is kept in (-Pi, Pi] and Pitch
// in [-PitchLimit, PitchLimit] after every mutation.
type Player struct {
	*Entity
	PitchLimit float64
	Moved      bool
}

func NewPlayer(x, y, angle, pitch, pitchLimit float64) *Player {
	p := &Player{
		Entity: &Entity{
			Position: &geom.Vector2{X: x, Y: y},
			Angle:    NormalizeAngle(angle),
		},
		PitchLimit: pitchLimit,
	}
	p.Pitch = geom.Clamp(pitch, -pitchLimit, pitchLimit)
	return p
}

// Rotate turns the heading by delta radians.
func (p *Player) Rotate(delta float64) {
	if delta == 0 {
		return
	}
	p.Angle = NormalizeAngle(p.Angle + delta)
	p.Moved = true
}

// UpdatePitch shifts the vertical look offset by delta screen pixels.
func (p *Player) UpdatePitch(delta float64) {
	if delta == 0 {
		return
	}
	p.Pitch = geom.Clamp(p.Pitch+delta, -p.PitchLimit, p.PitchLimit)
	p.Moved = true
}

func (p *Player) MoveTo(x, y float64) {
	if x == p.Position.X && y == p.Position.Y {
		return
	}
	p.Position.X, p.Position.Y = x, y
	p.Moved = true
}

func (p *Player) State() PlayerState {
	return PlayerState{
		Position: *p.Position,
		Angle:    p.Angle,
		Pitch:    p.Pitch,
	}
}
