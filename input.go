package main

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"example.com/arena/movement"
)

var keyBindings = map[ebiten.Key]movement.Keys{
	ebiten.KeyW:          movement.Forward,
	ebiten.KeyS:          movement.Backward,
	ebiten.KeyA:          movement.StrafeLeft,
	ebiten.KeyD:          movement.StrafeRight,
	ebiten.KeyArrowLeft:  movement.TurnLeft,
	ebiten.KeyArrowRight: movement.TurnRight,
	ebiten.KeyArrowUp:    movement.LookUp,
	ebiten.KeyArrowDown:  movement.LookDown,
}

func (g *Game) handleInput() (movement.Input, error) {
	// if p, pause game
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		if g.paused {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			g.paused = false
		} else {
			ebiten.SetCursorMode(ebiten.CursorModeVisible)
			g.paused = true
		}
	}

	// if escape, exit game
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return movement.Input{}, ebiten.Termination
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.showMinimap = !g.showMinimap
	}

	if g.paused {
		return movement.Input{}, nil
	}

	var in movement.Input

	if ebiten.CursorMode() != ebiten.CursorModeCaptured {
		ebiten.SetCursorMode(ebiten.CursorModeCaptured)

		// reset initial mouse capture position
		g.mouseX, g.mouseY = math.MinInt32, math.MinInt32
	}

	x, y := ebiten.CursorPosition()
	if g.mouseX == math.MinInt32 && g.mouseY == math.MinInt32 {
		// initialize first position to establish delta
		if x != 0 && y != 0 {
			g.mouseX, g.mouseY = x, y
		}
	} else {
		in.MouseDX, in.MouseDY = float64(x-g.mouseX), float64(y-g.mouseY)
		g.mouseX, g.mouseY = x, y
	}

	for key, binding := range keyBindings {
		if ebiten.IsKeyPressed(key) {
			in.Keys |= binding
		}
	}

	return in, nil
}
