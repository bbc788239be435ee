package main

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// screenCanvas draws render primitives onto an ebiten image. Decoded sprite
// frames are uploaded once and reused.
type screenCanvas struct {
	target *ebiten.Image
	images map[image.Image]*ebiten.Image
}

func newScreenCanvas() *screenCanvas {
	return &screenCanvas{images: make(map[image.Image]*ebiten.Image)}
}

func (c *screenCanvas) FillRect(r image.Rectangle, clr color.Color) {
	vector.DrawFilledRect(c.target, float32(r.Min.X), float32(r.Min.Y), float32(r.Dx()), float32(r.Dy()), clr, false)
}

func (c *screenCanvas) DrawImage(img image.Image, r image.Rectangle) {
	src := c.texture(img)
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 || r.Empty() {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterNearest
	op.GeoM.Scale(float64(r.Dx())/float64(b.Dx()), float64(r.Dy())/float64(b.Dy()))
	op.GeoM.Translate(float64(r.Min.X), float64(r.Min.Y))
	c.target.DrawImage(src, op)
}

func (c *screenCanvas) texture(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if e, ok := c.images[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img)
	c.images[img] = e
	return e
}
