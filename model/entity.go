package model

import (
	"github.com/harbdog/raycaster-go/geom"
)

type Entity struct {
	Position *geom.Vector2
	Angle    float64
	Pitch    float64
}

func (e *Entity) Pos() *geom.Vector2 {
	return e.Position
}
