package main

import (
	"math"

	"VoxelEngine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// orbitViewer circles the world origin, advancing once per frame.
type orbitViewer struct {
	Radius float32
	Speed  float32
	Height float32
	time   float32
}

func (o *orbitViewer) Start() {}

func (o *orbitViewer) Update() {
	deltaTime := float32(0.016)
	o.time += deltaTime * o.Speed
}

func (o *orbitViewer) UpdateFixed() {}

func (o *orbitViewer) Position() mgl32.Vec3 {
	x := float32(math.Cos(float64(o.time))) * o.Radius
	z := float32(math.Sin(float64(o.time))) * o.Radius
	return mgl32.Vec3{x, o.Height, z}
}

// brush casts a ray from the viewer every few fixed ticks and edits where
// it lands, standing in for a pointer-driven edit. Landed edits alternate
// between digging and building.
type brush struct {
	world  *world.World
	viewer world.Viewer
	every  int
	radius float32
	reach  float32
	log    *zap.Logger

	ticks   int
	edits   int
	changed int
	mode    world.EditMode
}

func (b *brush) Start() {}

func (b *brush) Update() {}

func (b *brush) UpdateFixed() {
	b.ticks++
	if b.every <= 0 || b.ticks%b.every != 0 {
		return
	}
	p := b.viewer.Position()
	hit, ok := b.world.Raycast(world.Ray{Origin: p, Direction: mgl32.Vec3{0.3, -1, 0}}, b.reach)
	if !ok {
		return
	}
	changed := b.world.Edit(world.EditRequest{
		Point:  hit.Point,
		Normal: hit.Normal,
		Radius: b.radius,
		Mode:   b.mode,
	})
	b.edits++
	b.changed += changed
	b.log.Debug("Brush applied",
		zap.Stringer("chunk", hit.Chunk),
		zap.Stringer("mode", b.mode),
		zap.Int("changed", changed))
	if b.mode == world.Destroy {
		b.mode = world.Create
	} else {
		b.mode = world.Destroy
	}
}
