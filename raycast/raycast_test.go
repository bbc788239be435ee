package raycast

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/arena/level"
)

func testProjector() Projector {
	return Projector{
		ScreenWidth:  800,
		ScreenHeight: 600,
		Fov:          math.Pi / 3,
		Rays:         120,
		WallScale:    20000,
		Epsilon:      0.0001,
		ShadeFactor:  0.0001,
		SpriteScale:  0.6,
	}
}

func TestCastStraightAhead(t *testing.T) {
	c := NewCaster(level.Default(level.DefaultTileSize), 120, math.Pi/3, 800)

	hits := c.Cast(400, 300, 0)
	require.Len(t, hits, 120)

	center := hits[60]
	assert.Equal(t, 60, center.Column)
	assert.False(t, center.Capped)
	assert.InDelta(t, 0, center.Angle, 1e-9)
	assert.InDelta(t, 300, center.Distance, 1)

	p := testProjector()
	assert.InDelta(t, 300, p.CorrectDepth(center.Distance, 0, center.Angle), 1)
}

func TestCastColumnsInOrder(t *testing.T) {
	c := NewCaster(level.Default(level.DefaultTileSize), 37, math.Pi/3, 800)

	hits := c.Cast(250, 250, 1.0)
	require.Len(t, hits, 37)
	for i, hit := range hits {
		assert.Equal(t, i, hit.Column)
		assert.InDelta(t, c.RayAngle(1.0, i), hit.Angle, 1e-12)
		assert.Less(t, hit.Distance, 800.0)
	}
}

func TestFishEyeCorrection(t *testing.T) {
	c := NewCaster(level.Default(level.DefaultTileSize), 120, math.Pi/3, 800)
	p := testProjector()

	hits := c.Cast(400, 300, 0)
	edge := hits[0]
	require.False(t, edge.Capped)

	corrected := p.CorrectDepth(edge.Distance, 0, edge.Angle)
	assert.Less(t, corrected, edge.Distance)
	assert.InDelta(t, edge.Distance*math.Cos(math.Pi/6), corrected, 1e-9)
}

func TestCastCappedWithoutHit(t *testing.T) {
	c := NewCaster(level.Default(level.DefaultTileSize), 8, math.Pi/3, 50)

	for _, hit := range c.Cast(400, 300, 0) {
		assert.True(t, hit.Capped)
		assert.Equal(t, 50.0, hit.Distance)
	}
}

func TestCastFromInsideWall(t *testing.T) {
	c := NewCaster(level.Default(level.DefaultTileSize), 4, math.Pi/3, 800)

	for _, hit := range c.Cast(-10, -10, 0) {
		assert.False(t, hit.Capped)
		assert.Equal(t, 1.0, hit.Distance)
	}
}

func TestProjection(t *testing.T) {
	p := testProjector()

	assert.Equal(t, 600.0, p.WallHeight(0))
	assert.InDelta(t, 100, p.WallHeight(200), 1e-3)
	assert.InDelta(t, 60, p.SpriteHeight(200), 1e-3)

	assert.Equal(t, 255.0, p.Intensity(0))
	assert.InDelta(t, 127.5, p.Intensity(100), 1e-9)
	assert.Greater(t, p.Intensity(100), p.Intensity(400))

	assert.Equal(t, 400.0, p.ScreenX(0))
	assert.InDelta(t, 0, p.ScreenX(-math.Pi/6), 1e-9)
	assert.InDelta(t, 800, p.ScreenX(math.Pi/6), 1e-9)

	assert.Equal(t, 300.0, p.Horizon(0))
	assert.InDelta(t, 350, p.GroundLine(200, 0), 1e-3)
}

func TestColumnRectsCoverScreen(t *testing.T) {
	p := testProjector()
	p.Rays = 7

	prev := 0
	for i := 0; i < p.Rays; i++ {
		r := p.ColumnRect(i, 100, 0)
		assert.Equal(t, prev, r.Min.X)
		assert.Greater(t, r.Dx(), 0)
		assert.Equal(t, 250, r.Min.Y)
		assert.Equal(t, 350, r.Max.Y)
		prev = r.Max.X
	}
	assert.Equal(t, p.ScreenWidth, prev)

	pitched := p.ColumnRect(0, 100, 40)
	assert.Equal(t, 210, pitched.Min.Y)
}
