package sprite

import (
	"math"

	"example.com/arena/model"
)

// Direction is the side of a player that faces the viewer.
type Direction int

const (
	Direction_Front Direction = iota
	Direction_Right
	Direction_Left
	Direction_Back
)

var directionNames = map[Direction]string{
	Direction_Front: "front",
	Direction_Right: "right",
	Direction_Left:  "left",
	Direction_Back:  "back",
}

func (d Direction) String() string {
	if name, ok := directionNames[d]; ok {
		return name
	}
	return "unknown"
}

// Resolve picks the directional view of a target from the difference between
// its heading and the viewer's heading. A target facing the same way as the
// viewer shows its back.
func Resolve(viewerAngle, targetAngle float64) Direction {
	relative := model.NormalizeAngle(targetAngle - viewerAngle)

	switch {
	case relative >= -math.Pi/4 && relative < math.Pi/4:
		return Direction_Back
	case relative >= math.Pi/4 && relative < 3*math.Pi/4:
		return Direction_Right
	case relative >= -3*math.Pi/4 && relative < -math.Pi/4:
		return Direction_Left
	default:
		return Direction_Front
	}
}
