// ui.go
package main

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

func (g *Game) drawUI(screen *ebiten.Image) {
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %0.2f", ebiten.ActualFPS()), 10, 10)

	snap := g.link.Snapshot()
	self := snap.Self
	if len(self) > 8 {
		self = self[:8]
	}
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("Net: %s  id: %s  players: %d", g.link.Status(), self, len(snap.Players)), 10, 30)

	p := g.player
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("pos: %0.1f, %0.1f  angle: %0.2f  pitch: %0.0f", p.Position.X, p.Position.Y, p.Angle, p.Pitch), 10, 50)

	if g.paused {
		ebitenutil.DebugPrintAt(screen, "PAUSED (P to resume)", 10, g.screenHeight-60)
	}
	ebitenutil.DebugPrintAt(screen, "move with WASD, look with mouse or arrows, TAB for map", 10, g.screenHeight-40)
	ebitenutil.DebugPrintAt(screen, "ESC to exit", 10, g.screenHeight-20)
}
