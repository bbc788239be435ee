// primitive.go
package render

import (
	"image"
	"image/color"
	"sort"
)

type Kind int

const (
	KindWall Kind = iota
	KindSprite
)

// Primitive is one drawable of a frame. Walls carry Intensity, sprites carry
// Image; both are placed by Rect and ordered by Depth.
type Primitive struct {
	Kind      Kind
	Depth     float64
	Intensity float64
	Image     image.Image
	Rect      image.Rectangle
}

// Canvas is the drawing surface primitives are emitted to.
type Canvas interface {
	FillRect(r image.Rectangle, c color.Color)
	DrawImage(img image.Image, r image.Rectangle)
}

// Compose orders primitives farthest first so that nearer ones paint over them.
// Equal depths keep their collection order.
func Compose(prims []Primitive) []Primitive {
	sort.SliceStable(prims, func(i, j int) bool {
		return prims[i].Depth > prims[j].Depth
	})
	return prims
}

// Emit draws primitives in the order given.
func Emit(c Canvas, prims []Primitive) {
	for _, p := range prims {
		switch p.Kind {
		case KindWall:
			c.FillRect(p.Rect, WallColor(p.Intensity))
		case KindSprite:
			c.DrawImage(p.Image, p.Rect)
		}
	}
}

// WallColor is the flat gray of a wall column with the given intensity.
func WallColor(intensity float64) color.RGBA {
	switch {
	case intensity < 0:
		intensity = 0
	case intensity > 255:
		intensity = 255
	}
	v := uint8(intensity)
	return color.RGBA{v, v, v, 255}
}
