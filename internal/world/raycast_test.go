package world

import (
	"testing"

	"VoxelEngine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRaycastStraightDown(t *testing.T) {
	w := flatWorld(t, Key{})

	hit, ok := w.Raycast(Ray{Origin: mgl32.Vec3{2.5, 10, 2.5}, Direction: mgl32.Vec3{0, -3, 0}}, 50)
	require.True(t, ok)
	assert.Equal(t, mgl32.Vec3{2.5, 4, 2.5}, hit.Point)
	assert.Equal(t, up, hit.Normal)
	assert.Equal(t, mesh.Top, hit.Face)
	assert.Equal(t, float32(6), hit.Distance)
	assert.Equal(t, Key{}, hit.Chunk)
}

func TestRaycastFromUnloadedChunk(t *testing.T) {
	w := flatWorld(t, Key{})

	hit, ok := w.Raycast(Ray{Origin: mgl32.Vec3{-10, 2.5, 1.5}, Direction: mgl32.Vec3{1, 0, 0}}, 50)
	require.True(t, ok)
	assert.InDelta(t, 0, hit.Point.X(), 1e-5)
	assert.Equal(t, mgl32.Vec3{-1, 0, 0}, hit.Normal)
	assert.Equal(t, mesh.Left, hit.Face)
}

func TestRaycastMisses(t *testing.T) {
	w := flatWorld(t, Key{})

	_, ok := w.Raycast(Ray{Origin: mgl32.Vec3{2.5, 10, 2.5}, Direction: up}, 50)
	assert.False(t, ok, "pointing at the sky")

	_, ok = w.Raycast(Ray{Origin: mgl32.Vec3{2.5, 10, 2.5}, Direction: mgl32.Vec3{0, -1, 0}}, 5)
	assert.False(t, ok, "surface is beyond max distance")

	_, ok = w.Raycast(Ray{Origin: mgl32.Vec3{2.5, 10, 2.5}}, 50)
	assert.False(t, ok, "zero direction")
}

func TestRaycastHitFeedsEdit(t *testing.T) {
	w := flatWorld(t, Key{}, Key{1, 0})

	hit, ok := w.Raycast(Ray{Origin: mgl32.Vec3{5.5, 10, 1.5}, Direction: mgl32.Vec3{0, -1, 0}}, 50)
	require.True(t, ok)
	assert.Equal(t, Key{1, 0}, hit.Chunk)

	changed := w.Edit(EditRequest{Point: hit.Point, Normal: hit.Normal, Radius: 0, Mode: Destroy})
	assert.Equal(t, 1, changed)
	assert.True(t, chunk(t, w, Key{1, 0}).Voxel(1, 3, 1).IsEmpty())

	changed = w.Edit(EditRequest{Point: hit.Point, Normal: hit.Normal, Radius: 0, Mode: Create})
	assert.Equal(t, 1, changed, "create lands in the air cell above the hit")
	assert.False(t, chunk(t, w, Key{1, 0}).Voxel(1, 4, 1).IsEmpty())
}

func TestRaycastFaceFollowsStepDirection(t *testing.T) {
	w := flatWorld(t, Key{}, Key{1, 0})
	chunk(t, w, Key{1, 0}).grid.Set(1, 4, 1, chunk(t, w, Key{}).Voxel(0, 0, 0))

	// Travelling -X from above the flat layers into the raised voxel.
	hit, ok := w.Raycast(Ray{Origin: mgl32.Vec3{7.5, 4.5, 1.5}, Direction: mgl32.Vec3{-1, 0, 0}}, 10)
	require.True(t, ok)
	assert.Equal(t, mesh.Right, hit.Face)
	assert.Equal(t, hit.Face.Normal(), hit.Normal)
	assert.InDelta(t, 6, hit.Point.X(), 1e-5)

	hit, ok = w.Raycast(Ray{Origin: mgl32.Vec3{1.5, 0.5, -3}, Direction: mgl32.Vec3{0, 0, 1}}, 10)
	require.True(t, ok)
	assert.Equal(t, mesh.Back, hit.Face)
	assert.Equal(t, mgl32.Vec3{0, 0, -1}, hit.Normal)
}
