package raycast

import (
	"math"
	"sync"

	"example.com/arena/level"
)

// -- caster

const (
	// columns are cast in this many concurrent bands
	castWorkers = 4
)

// Hit is the result of marching one ray through the level.
type Hit struct {
	Column   int
	Angle    float64
	Distance float64
	// Capped is set when no wall was found before the render distance; Distance
	// then equals the render distance.
	Capped bool
}

// Caster marches a fan of rays from the viewer through the level grid.
type Caster struct {
	level          *level.Level
	fovAngle       float64
	rays           int
	renderDistance float64
}

func NewCaster(lvl *level.Level, rays int, fovAngle, renderDistance float64) *Caster {
	c := &Caster{level: lvl}
	c.SetRayCount(rays)
	c.SetFovAngle(fovAngle)
	c.SetRenderDistance(renderDistance)
	return c
}

func (c *Caster) SetRayCount(rays int) {
	if rays < 1 {
		rays = 1
	}
	c.rays = rays
}

func (c *Caster) RayCount() int { return c.rays }

// SetFovAngle sets the horizontal field of view in radians.
func (c *Caster) SetFovAngle(fov float64) {
	c.fovAngle = fov
}

func (c *Caster) FovRadians() float64 { return c.fovAngle }

func (c *Caster) SetRenderDistance(distance float64) {
	if distance < 1 {
		distance = 1
	}
	c.renderDistance = distance
}

func (c *Caster) RenderDistance() float64 { return c.renderDistance }

// RayAngle returns the absolute angle of ray i for a viewer facing viewerAngle.
func (c *Caster) RayAngle(viewerAngle float64, i int) float64 {
	return viewerAngle - c.fovAngle/2 + float64(i)*c.fovAngle/float64(c.rays)
}

// Cast marches every ray and returns one hit per column, in column order.
func (c *Caster) Cast(x, y, viewerAngle float64) []Hit {
	hits := make([]Hit, c.rays)

	band := (c.rays + castWorkers - 1) / castWorkers
	var wg sync.WaitGroup
	for start := 0; start < c.rays; start += band {
		end := start + band
		if end > c.rays {
			end = c.rays
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				hits[i] = c.castRay(x, y, i, c.RayAngle(viewerAngle, i))
			}
		}(start, end)
	}
	wg.Wait()

	return hits
}

// castRay steps outward one world unit at a time and stops at the first wall
// cell. Out of bounds cells count as walls, so the march never leaves the grid.
func (c *Caster) castRay(x, y float64, column int, angle float64) Hit {
	sinA, cosA := math.Sincos(angle)

	for depth := 1.0; depth < c.renderDistance; depth++ {
		targetX := x + depth*cosA
		targetY := y + depth*sinA
		if c.level.IsWall(targetX, targetY) {
			return Hit{Column: column, Angle: angle, Distance: depth}
		}
	}

	return Hit{Column: column, Angle: angle, Distance: c.renderDistance, Capped: true}
}
