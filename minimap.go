// minimap.go
package main

import (
	"image"
	"image/color"
	"math"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"example.com/arena/level"
)

const (
	minimapScale  int = 16
	minimapMargin int = 10
)

func (g *Game) generateStaticMinimap() {
	g.minimap = ebiten.NewImage(g.level.Width()*minimapScale, g.level.Height()*minimapScale)
	for y := 0; y < g.level.Height(); y++ {
		for x := 0; x < g.level.Width(); x++ {
			tileColor := color.RGBA{140, 140, 140, 255}
			if g.level.EntityAt(x, y) == level.LevelEntity_Wall {
				tileColor = color.RGBA{50, 50, 50, 255}
			}
			vector.DrawFilledRect(g.minimap, float32(x*minimapScale), float32(y*minimapScale), float32(minimapScale), float32(minimapScale), tileColor, false)
		}
	}
}

// minimapPoint converts world coordinates to screen coordinates on the minimap.
func (g *Game) minimapPoint(x, y float64) (float32, float32) {
	scale := float64(minimapScale) / g.level.TileSize()
	originX := g.screenWidth - g.level.Width()*minimapScale - minimapMargin
	return float32(float64(originX) + x*scale), float32(float64(minimapMargin) + y*scale)
}

func (g *Game) drawMinimap(screen *ebiten.Image) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(g.screenWidth-g.level.Width()*minimapScale-minimapMargin), float64(minimapMargin))
	screen.DrawImage(g.minimap, op)

	g.drawMinimapRemotes(screen)
	g.drawMinimapPlayer(screen)
}

func (g *Game) drawMinimapPlayer(screen *ebiten.Image) {
	playerX, playerY := g.minimapPoint(g.player.Position.X, g.player.Position.Y)

	// calculate triangle points
	triangleSize := float32(minimapScale) / 2
	angle := g.player.Angle

	x1 := playerX + triangleSize*float32(math.Cos(angle))
	y1 := playerY + triangleSize*float32(math.Sin(angle))

	x2 := playerX + triangleSize*float32(math.Cos(angle+2.5))
	y2 := playerY + triangleSize*float32(math.Sin(angle+2.5))

	x3 := playerX + triangleSize*float32(math.Cos(angle-2.5))
	y3 := playerY + triangleSize*float32(math.Sin(angle-2.5))

	vertices := []ebiten.Vertex{
		{DstX: x1, DstY: y1, ColorR: 0, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x2, DstY: y2, ColorR: 0, ColorG: 1, ColorB: 1, ColorA: 1},
		{DstX: x3, DstY: y3, ColorR: 0, ColorG: 1, ColorB: 1, ColorA: 1},
	}
	indices := []uint16{0, 1, 2}

	screen.DrawTriangles(vertices, indices, emptySubImage, nil)
}

func (g *Game) drawMinimapRemotes(screen *ebiten.Image) {
	snap := g.link.Snapshot()
	ids := make([]string, 0, len(snap.Players))
	for id := range snap.Players {
		if id != snap.Self {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	for _, id := range ids {
		remote := snap.Players[id]
		screenX, screenY := g.minimapPoint(remote.Position.X, remote.Position.Y)

		// draw remote player (red) with a heading line
		vector.DrawFilledCircle(screen, screenX, screenY, float32(minimapScale)/4, color.RGBA{255, 0, 0, 255}, false)

		headingX := screenX + float32(minimapScale)/2*float32(math.Cos(remote.Angle))
		headingY := screenY + float32(minimapScale)/2*float32(math.Sin(remote.Angle))
		vector.StrokeLine(screen, screenX, screenY, headingX, headingY, 1, color.RGBA{255, 255, 0, 200}, false)
	}
}

var emptySubImage = func() *ebiten.Image {
	img := ebiten.NewImage(3, 3)
	img.Fill(color.White)
	return img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
}()
