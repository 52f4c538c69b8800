package world

import "github.com/go-gl/mathgl/mgl32"

// Viewer supplies the position streaming and LOD follow.
type Viewer interface {
	Position() mgl32.Vec3
}

// FixedViewer is a viewer that never moves.
type FixedViewer mgl32.Vec3

func (v FixedViewer) Position() mgl32.Vec3 { return mgl32.Vec3(v) }

// Driver plugs a world into a frame loop: Update every frame, streaming and
// LOD on the fixed tick.
type Driver struct {
	World  *World
	Viewer Viewer
}

func (d *Driver) Start() {
	d.World.FixedTick(d.Viewer.Position())
}

func (d *Driver) Update() {
	d.World.Update()
}

func (d *Driver) UpdateFixed() {
	d.World.FixedTick(d.Viewer.Position())
}
