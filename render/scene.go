// scene.go
package render

import (
	"image"
	"math"
	"sort"

	"example.com/arena/model"
	"example.com/arena/raycast"
	"example.com/arena/sprite"
)

// Scene assembles the primitives of one frame from the level and the remote
// player table.
type Scene struct {
	Caster    *raycast.Caster
	Projector raycast.Projector
	Sprites   *sprite.Set
}

// Build returns the composed primitives for viewer. Entries of remotes keyed by
// selfID are the viewer's own and are never drawn.
func (s *Scene) Build(viewer model.PlayerState, selfID string, remotes map[string]model.PlayerState) []Primitive {
	hits := s.Caster.Cast(viewer.Position.X, viewer.Position.Y, viewer.Angle)

	prims := make([]Primitive, 0, len(hits)+len(remotes))
	for _, hit := range hits {
		prims = append(prims, s.wall(viewer, hit))
	}

	ids := make([]string, 0, len(remotes))
	for id := range remotes {
		if id != selfID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		if p, ok := s.billboard(viewer, remotes[id]); ok {
			prims = append(prims, p)
		}
	}

	return Compose(prims)
}

func (s *Scene) wall(viewer model.PlayerState, hit raycast.Hit) Primitive {
	depth := s.Projector.CorrectDepth(hit.Distance, viewer.Angle, hit.Angle)
	height := s.Projector.WallHeight(depth)

	intensity := 0.0
	if !hit.Capped {
		intensity = s.Projector.Intensity(depth)
	}

	return Primitive{
		Kind:      KindWall,
		Depth:     depth,
		Intensity: intensity,
		Rect:      s.Projector.ColumnRect(hit.Column, height, viewer.Pitch),
	}
}

func (s *Scene) billboard(viewer, target model.PlayerState) (Primitive, bool) {
	dx := target.Position.X - viewer.Position.X
	dy := target.Position.Y - viewer.Position.Y
	distance := math.Hypot(dx, dy)

	angleDiff := model.NormalizeAngle(math.Atan2(dy, dx) - viewer.Angle)
	halfFov := s.Projector.Fov / 2
	if angleDiff <= -halfFov || angleDiff >= halfFov {
		return Primitive{}, false
	}

	depth := distance * math.Cos(angleDiff)
	img := s.Sprites.Image(viewer.Angle, target.Angle)

	height := int(s.Projector.SpriteHeight(depth))
	bounds := img.Bounds()
	if height <= 0 || bounds.Dy() == 0 {
		return Primitive{}, false
	}
	width := int(float64(height) * float64(bounds.Dx()) / float64(bounds.Dy()))

	centerX := int(s.Projector.ScreenX(angleDiff))
	bottom := int(s.Projector.GroundLine(depth, viewer.Pitch))

	return Primitive{
		Kind:  KindSprite,
		Depth: depth,
		Image: img,
		Rect:  image.Rect(centerX-width/2, bottom-height, centerX-width/2+width, bottom),
	}, true
}
