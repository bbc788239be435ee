package raycast

import (
	"image"
	"math"
)

// Projector turns ray distances and angular offsets into screen space.
type Projector struct {
	ScreenWidth  int
	ScreenHeight int
	Fov          float64
	Rays         int

	// WallScale is the numerator of the wall height projection.
	WallScale float64
	// Epsilon keeps the projection finite at zero depth.
	Epsilon     float64
	ShadeFactor float64
	// SpriteScale shrinks billboards relative to walls at the same depth.
	SpriteScale float64
}

// CorrectDepth removes the fish-eye distortion of absolute ray distances by
// projecting onto the viewing direction.
func (p Projector) CorrectDepth(raw, viewerAngle, rayAngle float64) float64 {
	return raw * math.Cos(viewerAngle-rayAngle)
}

func (p Projector) WallHeight(depth float64) float64 {
	return math.Min(p.WallScale/(depth+p.Epsilon), float64(p.ScreenHeight))
}

// Intensity is the grayscale brightness (0-255) of a wall at the given depth.
func (p Projector) Intensity(depth float64) float64 {
	return 255 / (1 + depth*depth*p.ShadeFactor)
}

func (p Projector) SpriteHeight(distance float64) float64 {
	return p.WallHeight(distance) * p.SpriteScale
}

// ScreenX maps an angle relative to the view direction to a screen column.
func (p Projector) ScreenX(angleDiff float64) float64 {
	return float64(p.ScreenWidth)/2 + angleDiff*(float64(p.ScreenWidth)/p.Fov)
}

// Horizon is the screen row of eye level for the given pitch.
func (p Projector) Horizon(pitch float64) float64 {
	return float64(p.ScreenHeight)/2 - pitch
}

// ColumnRect is the screen rectangle of wall column i with the given height.
// Adjacent columns share edges so the strip covers the full screen width.
func (p Projector) ColumnRect(i int, height, pitch float64) image.Rectangle {
	colWidth := float64(p.ScreenWidth) / float64(p.Rays)
	x0 := int(math.Round(float64(i) * colWidth))
	x1 := int(math.Round(float64(i+1) * colWidth))

	top := int(math.Round(p.Horizon(pitch) - height/2))
	return image.Rect(x0, top, x1, top+int(math.Round(height)))
}

// GroundLine is the screen row where an object at the given depth meets the floor.
func (p Projector) GroundLine(depth, pitch float64) float64 {
	return p.Horizon(pitch) + p.WallHeight(depth)/2
}
