package world

import (
	"math"

	"VoxelEngine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Ray represents a ray in world space
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// Hit describes where a ray first entered a solid voxel. Point lies on the
// struck face and Normal points out of it, which is what Edit expects.
// Face is meaningless when Distance is zero.
type Hit struct {
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Face     mesh.Face
	Distance float32
	Chunk    Key
}

// entryFaces[axis][step<0] is the voxel face a ray crosses when it steps
// along axis.
var entryFaces = [3][2]mesh.Face{
	{mesh.Left, mesh.Right},
	{mesh.Bottom, mesh.Top},
	{mesh.Back, mesh.Front},
}

// Raycast walks the voxel lattice along ray and returns the first solid
// voxel within maxDistance. Unloaded chunks count as air. A ray starting
// inside a solid voxel hits it at distance zero with a zero normal.
func (w *World) Raycast(ray Ray, maxDistance float32) (Hit, bool) {
	if ray.Direction.Len() == 0 {
		return Hit{}, false
	}
	dir := ray.Direction.Normalize()
	s := w.scale

	var cell, step [3]int
	var tMax, tDelta [3]float32
	for a := 0; a < 3; a++ {
		o := ray.Origin[a]
		cell[a] = int(math.Floor(float64(o / s)))
		switch {
		case dir[a] > 0:
			step[a] = 1
			tMax[a] = (float32(cell[a]+1)*s - o) / dir[a]
			tDelta[a] = s / dir[a]
		case dir[a] < 0:
			step[a] = -1
			tMax[a] = (float32(cell[a])*s - o) / dir[a]
			tDelta[a] = -s / dir[a]
		default:
			tMax[a] = float32(math.Inf(1))
			tDelta[a] = float32(math.Inf(1))
		}
	}

	var hit Hit
	var t float32
	for t <= maxDistance {
		if k, ok := w.solidAt(cell); ok {
			hit.Point = ray.Origin.Add(dir.Mul(t))
			hit.Distance = t
			hit.Chunk = k
			return hit, true
		}
		a := 0
		if tMax[1] < tMax[a] {
			a = 1
		}
		if tMax[2] < tMax[a] {
			a = 2
		}
		t = tMax[a]
		cell[a] += step[a]
		tMax[a] += tDelta[a]
		back := 0
		if step[a] < 0 {
			back = 1
		}
		hit.Face = entryFaces[a][back]
		hit.Normal = hit.Face.Normal()
	}
	return Hit{}, false
}

// solidAt resolves a world voxel coordinate to its chunk and reports
// whether that voxel is solid.
func (w *World) solidAt(cell [3]int) (Key, bool) {
	side := w.cfg.VoxelsPerChunkSide
	k := Key{X: floorDiv(cell[0], side), Z: floorDiv(cell[2], side)}
	c, ok := w.chunks[k]
	if !ok {
		return k, false
	}
	return k, c.grid.Occupied(floorMod(cell[0], side), cell[1], floorMod(cell[2], side))
}
