package world

import (
	"testing"

	"VoxelEngine/internal/mesh"
	"VoxelEngine/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var up = mgl32.Vec3{0, 1, 0}

// flatWorld creates the given chunks with their lowest four layers solid
// and everything above empty, then publishes them so none is dirty.
func flatWorld(t *testing.T, keys ...Key) *World {
	t.Helper()
	w := New(testConfig(), nil)
	stone := voxel.Solid(voxel.Stone, mgl32.Vec4{0.5, 0.5, 0.5, 1})
	for _, k := range keys {
		c := w.create(k, mesh.LODFull)
		c.grid.Clear()
		x, _, z := c.grid.Size()
		for i := 0; i < x; i++ {
			for j := 0; j < 4; j++ {
				for l := 0; l < z; l++ {
					c.grid.Set(i, j, l, stone)
				}
			}
		}
	}
	w.Update()
	for _, k := range keys {
		c, _ := w.ChunkAt(k)
		require.False(t, c.Dirty())
	}
	return w
}

func chunk(t *testing.T, w *World, k Key) *Chunk {
	t.Helper()
	c, ok := w.ChunkAt(k)
	require.True(t, ok, "chunk %v", k)
	return c
}

func TestEditSingleVoxelIsIdempotent(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})

	assert.False(t, c.EditSingleVoxel(1, 5, 1, Destroy), "destroying air")
	assert.False(t, c.Dirty())
	assert.False(t, c.EditSingleVoxel(1, 1, 1, Create), "creating on solid")
	assert.False(t, c.Dirty())
	assert.False(t, c.EditSingleVoxel(-1, 1, 1, Destroy), "out of range")
	assert.False(t, c.EditSingleVoxel(1, 99, 1, Create), "out of range")
	assert.False(t, c.Dirty())
	assert.Equal(t, 64, c.VoxelCount())

	require.True(t, c.EditSingleVoxel(1, 5, 1, Create))
	assert.True(t, c.Dirty())
	assert.Equal(t, voxel.Placed, c.Voxel(1, 5, 1).Material)
	assert.Equal(t, float32(1), c.Voxel(1, 5, 1).Color.W())

	w.Update()
	assert.False(t, c.EditSingleVoxel(1, 5, 1, Create))
	assert.False(t, c.Dirty())

	require.True(t, c.EditSingleVoxel(1, 5, 1, Destroy))
	assert.True(t, c.Voxel(1, 5, 1).IsEmpty())
	assert.Equal(t, 64, c.VoxelCount())
}

func TestEditAreaDestroyInsideChunk(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})

	// Top face of voxel (2,3,2).
	changed := c.EditArea(mgl32.Vec3{2.5, 4, 2.5}, up, 1, Destroy)
	assert.Equal(t, 6, changed, "unit brush minus the air cell above")
	for _, p := range [][3]int{{2, 3, 2}, {1, 3, 2}, {3, 3, 2}, {2, 2, 2}, {2, 3, 1}, {2, 3, 3}} {
		assert.True(t, c.Voxel(p[0], p[1], p[2]).IsEmpty(), "voxel %v", p)
	}
	assert.False(t, c.Voxel(2, 1, 2).IsEmpty())
	assert.Equal(t, 58, c.VoxelCount())
	assert.True(t, c.Dirty())
}

func TestEditAreaCreateOffsetsAwayFromSurface(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})

	assert.Equal(t, 1, c.EditArea(mgl32.Vec3{2.5, 4, 2.5}, up, 0, Create))
	assert.Equal(t, voxel.Placed, c.Voxel(2, 4, 2).Material)
	assert.Equal(t, 0, c.EditArea(mgl32.Vec3{2.5, 4, 2.5}, up, 0, Create), "repeat is a no-op")
}

func TestEditAreaFractionalRadiusStaysInCube(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})

	// Centre (1,4,1); radius 1.9 plus epsilon would reach (3,4,1) and
	// (1,6,1) if the walk left the cube.
	changed := c.EditArea(mgl32.Vec3{1.5, 4, 1.5}, up, 1.9, Create)
	assert.Equal(t, 18, changed, "two air layers of the 3x3x3 cube")
	assert.True(t, c.Voxel(3, 4, 1).IsEmpty())
	assert.True(t, c.Voxel(1, 4, 3).IsEmpty())
	assert.True(t, c.Voxel(1, 6, 1).IsEmpty())
	assert.False(t, c.Voxel(2, 5, 2).IsEmpty())
}

func TestEditAreaForwardsAcrossEdge(t *testing.T) {
	w := flatWorld(t, Key{}, Key{1, 0})
	home, right := chunk(t, w, Key{}), chunk(t, w, Key{1, 0})

	changed := home.EditArea(mgl32.Vec3{3.5, 4, 1.5}, up, 1, Destroy)
	assert.Equal(t, 6, changed)
	assert.True(t, right.Voxel(0, 3, 1).IsEmpty())
	assert.Equal(t, 63, right.VoxelCount())
	assert.True(t, right.Dirty())
}

func TestEditAreaMissingNeighbourIsSkipped(t *testing.T) {
	w := flatWorld(t, Key{})
	home := chunk(t, w, Key{})

	changed := home.EditArea(mgl32.Vec3{3.5, 4, 1.5}, up, 1, Destroy)
	assert.Equal(t, 5, changed, "the cell in the absent chunk is dropped")
}

func TestEditAreaReachesDiagonalNeighbour(t *testing.T) {
	keys := []Key{{0, 0}, {1, 0}, {0, 1}, {1, 1}}
	w := flatWorld(t, keys...)
	home, diagonal := chunk(t, w, Key{}), chunk(t, w, Key{1, 1})

	// Brush of radius 2 centred on the corner voxel (3,3,3).
	changed := home.EditArea(mgl32.Vec3{3.5, 4, 3.5}, up, 2, Destroy)
	assert.Equal(t, 39, changed, "every solid cell of the sphere, in all four chunks")

	assert.True(t, diagonal.Voxel(0, 3, 0).IsEmpty())
	assert.True(t, diagonal.Voxel(1, 3, 0).IsEmpty())
	assert.True(t, diagonal.Voxel(0, 2, 0).IsEmpty())
	assert.True(t, diagonal.Dirty())

	total := 0
	for _, k := range keys {
		total += 64 - chunk(t, w, k).VoxelCount()
	}
	assert.Equal(t, 39, total)
}

func TestEditOnBorderRefreshesNeighbour(t *testing.T) {
	w := flatWorld(t, Key{}, Key{1, 0}, Key{0, 1})
	home := chunk(t, w, Key{})

	require.True(t, home.EditSingleVoxel(3, 3, 1, Destroy))
	assert.True(t, chunk(t, w, Key{1, 0}).Dirty(), "right neighbour shares the changed face")
	assert.False(t, chunk(t, w, Key{0, 1}).Dirty())

	w.Update()
	require.True(t, home.EditSingleVoxel(1, 3, 1, Destroy))
	assert.False(t, chunk(t, w, Key{1, 0}).Dirty(), "interior edits stay local")
}

func TestWorldEditFindsOwningChunk(t *testing.T) {
	w := flatWorld(t, Key{}, Key{1, 0})

	changed := w.Edit(EditRequest{Point: mgl32.Vec3{5.5, 4, 1.5}, Normal: up, Radius: 0, Mode: Destroy})
	assert.Equal(t, 1, changed)
	assert.True(t, chunk(t, w, Key{1, 0}).Voxel(1, 3, 1).IsEmpty())

	assert.Zero(t, w.Edit(EditRequest{Point: mgl32.Vec3{100, 4, 100}, Normal: up, Radius: 3, Mode: Destroy}))
}

func TestEditOnRemovedChunkDoesNothing(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})
	w.Remove(Key{})

	assert.Zero(t, c.EditArea(mgl32.Vec3{2.5, 4, 2.5}, up, 1, Destroy))
	assert.False(t, c.EditSingleVoxel(1, 1, 1, Destroy))
	assert.Equal(t, 64, c.VoxelCount())
}

func TestEditThenExtractScenario(t *testing.T) {
	w := flatWorld(t, Key{})
	c := chunk(t, w, Key{})
	c.grid.Clear()

	require.True(t, c.EditSingleVoxel(1, 1, 1, Create))
	w.Update()
	assert.Equal(t, 6, c.Geometry().QuadCount())

	require.True(t, c.EditSingleVoxel(1, 1, 2, Create))
	w.Update()
	assert.Equal(t, 10, c.Geometry().QuadCount())

	require.True(t, c.EditSingleVoxel(1, 1, 1, Destroy))
	w.Update()
	assert.Equal(t, 6, c.Geometry().QuadCount())
}
