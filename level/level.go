// level.go
package level

import (
	_ "embed"
	"errors"
	"fmt"
	"math"
	"strings"
)

//go:embed arena.txt
var arenaLayout string

// DefaultTileSize is the world edge length of one grid cell.
const DefaultTileSize float64 = 100

type LevelEntity int

const (
	LevelEntity_Floor LevelEntity = iota
	LevelEntity_Wall
)

const (
	runeFloor = '.'
	runeWall  = '#'
)

var ErrInvalidLayout = errors.New("invalid level layout")

// Level is the static tile grid. It is never mutated after construction, so a
// single value can be shared by the renderer and the movement controller.
type Level struct {
	cells    [][]LevelEntity
	tileSize float64
}

// Parse builds a level from rows of '#' (wall) and '.' (floor) characters.
func Parse(rows []string, tileSize float64) (*Level, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrInvalidLayout)
	}
	if tileSize <= 0 {
		return nil, fmt.Errorf("%w: tile size %v", ErrInvalidLayout, tileSize)
	}

	width := len(rows[0])
	if width == 0 {
		return nil, fmt.Errorf("%w: empty row", ErrInvalidLayout)
	}

	matrix := make([][]LevelEntity, len(rows))
	for y, row := range rows {
		if len(row) != width {
			return nil, fmt.Errorf("%w: row %d has width %d, want %d", ErrInvalidLayout, y, len(row), width)
		}
		matrix[y] = make([]LevelEntity, width)
		for x, r := range row {
			switch r {
			case runeFloor:
				matrix[y][x] = LevelEntity_Floor
			case runeWall:
				matrix[y][x] = LevelEntity_Wall
			default:
				return nil, fmt.Errorf("%w: unknown cell %q at (%d,%d)", ErrInvalidLayout, r, x, y)
			}
		}
	}

	return &Level{cells: matrix, tileSize: tileSize}, nil
}

// Default returns the fixed arena layout compiled into the binary.
func Default(tileSize float64) *Level {
	l, err := Parse(splitRows(arenaLayout), tileSize)
	if err != nil {
		// the embedded layout is part of the build
		panic(err)
	}
	return l
}

func splitRows(s string) []string {
	rows := []string{}
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimRight(line, "\r ")
		if line != "" {
			rows = append(rows, line)
		}
	}
	return rows
}

func (l *Level) Width() int          { return len(l.cells[0]) }
func (l *Level) Height() int         { return len(l.cells) }
func (l *Level) TileSize() float64   { return l.tileSize }
func (l *Level) WorldWidth() float64 { return float64(l.Width()) * l.tileSize }

func (l *Level) WorldHeight() float64 { return float64(l.Height()) * l.tileSize }

// EntityAt returns the cell at grid coordinates. Anything outside the grid is a wall.
func (l *Level) EntityAt(col, row int) LevelEntity {
	if col < 0 || row < 0 || row >= len(l.cells) || col >= len(l.cells[row]) {
		return LevelEntity_Wall
	}
	return l.cells[row][col]
}

// Cell maps a world position to grid coordinates using floor division.
func (l *Level) Cell(x, y float64) (int, int) {
	return int(math.Floor(x / l.tileSize)), int(math.Floor(y / l.tileSize))
}

// IsWall reports whether the world position lies in a wall cell.
func (l *Level) IsWall(x, y float64) bool {
	col, row := l.Cell(x, y)
	return l.EntityAt(col, row) == LevelEntity_Wall
}

// Center returns the world coordinates of the middle of the grid.
func (l *Level) Center() (float64, float64) {
	return l.WorldWidth() / 2, l.WorldHeight() / 2
}
