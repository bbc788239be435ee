package level

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultArena(t *testing.T) {
	l := Default(DefaultTileSize)

	assert.Equal(t, 8, l.Width())
	assert.Equal(t, 6, l.Height())
	assert.Equal(t, 800.0, l.WorldWidth())
	assert.Equal(t, 600.0, l.WorldHeight())

	x, y := l.Center()
	assert.Equal(t, 400.0, x)
	assert.Equal(t, 300.0, y)
	assert.False(t, l.IsWall(x, y))

	// border ring
	assert.True(t, l.IsWall(50, 50))
	assert.True(t, l.IsWall(750, 550))
	assert.False(t, l.IsWall(150, 150))
}

func TestOutOfBoundsIsWall(t *testing.T) {
	l := Default(DefaultTileSize)

	tests := []struct {
		name     string
		col, row int
	}{
		{"negative col", -1, 2},
		{"negative row", 2, -1},
		{"past width", 8, 2},
		{"past height", 2, 6},
		{"far away", 1000, 1000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, LevelEntity_Wall, l.EntityAt(tt.col, tt.row))
		})
	}

	// world coordinates just below zero floor into cell -1
	assert.True(t, l.IsWall(-0.5, 150))
	assert.True(t, l.IsWall(150, -0.5))
}

func TestParse(t *testing.T) {
	l, err := Parse([]string{"#.#", "..."}, 10)
	require.NoError(t, err)
	assert.Equal(t, LevelEntity_Wall, l.EntityAt(0, 0))
	assert.Equal(t, LevelEntity_Floor, l.EntityAt(1, 0))
	assert.Equal(t, LevelEntity_Floor, l.EntityAt(2, 1))

	col, row := l.Cell(25, 19.99)
	assert.Equal(t, 2, col)
	assert.Equal(t, 1, row)
}

func TestParseRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		tile float64
	}{
		{"no rows", nil, 10},
		{"empty row", []string{""}, 10},
		{"ragged", []string{"###", "##"}, 10},
		{"unknown rune", []string{"#x#"}, 10},
		{"zero tile", []string{"#"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.rows, tt.tile)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}
