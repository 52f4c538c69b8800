package world

import (
	"math/rand"

	"VoxelEngine/internal/mesh"
	"VoxelEngine/internal/terrain"
	"VoxelEngine/internal/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Chunk is one streamed column of voxel space. Every method must be called
// from the update stream; only the destroyed flag is read by workers.
type Chunk struct {
	world  *World
	key    Key
	origin mgl32.Vec3
	scale  float32
	grid   *voxel.Grid
	rng    *rand.Rand

	lod      mesh.LOD
	lodPhase uint64

	dirty      bool
	inFlight   bool
	generation uint64
	destroyed  atomic.Bool

	// occupancy is an immutable view handed to neighbouring extractions.
	// Nil until requested and after every edit.
	occupancy *voxel.Occupancy

	geometry   *mesh.Geometry
	collidable bool
}

func newChunk(w *World, key Key, lod mesh.LOD) *Chunk {
	origin := key.Origin(w.footprint)
	c := &Chunk{
		world:  w,
		key:    key,
		origin: origin,
		scale:  w.scale,
		grid:   voxel.NewGrid(w.cfg.VoxelsPerChunkSide, w.cfg.GridHeight()),
		rng:    terrain.ChunkRand(w.cfg.Seed^editSalt, origin),
		lod:    lod,
	}
	c.lodPhase = uint64(c.rng.Intn(w.cfg.LODIntervalTicks))
	w.generator.Fill(c.grid, origin, c.scale)
	c.dirty = true
	return c
}

const editSalt = 0x5eed_ed17

func (c *Chunk) Key() Key { return c.key }
func (c *Chunk) Origin() mgl32.Vec3 { return c.origin }
func (c *Chunk) VoxelScale() float32 { return c.scale }
func (c *Chunk) LOD() mesh.LOD { return c.lod }
func (c *Chunk) Dirty() bool { return c.dirty }
func (c *Chunk) InFlight() bool { return c.inFlight }
func (c *Chunk) Destroyed() bool { return c.destroyed.Load() }
func (c *Chunk) Geometry() *mesh.Geometry { return c.geometry }
func (c *Chunk) Collidable() bool { return c.collidable }

// Voxel reads one voxel in local coordinates; out of range reads are empty.
func (c *Chunk) Voxel(x, y, z int) voxel.Voxel {
	return c.grid.Get(x, y, z)
}

// VoxelCount is the number of solid voxels in the chunk.
func (c *Chunk) VoxelCount() int {
	return c.grid.Count()
}

// RequestRegeneration marks the chunk for re-extraction on the next update.
// Requests coalesce until the extraction is dispatched.
func (c *Chunk) RequestRegeneration() {
	if c.destroyed.Load() {
		return
	}
	c.dirty = true
}

func (c *Chunk) alive() bool {
	return !c.destroyed.Load()
}

func (c *Chunk) occupancyView() *voxel.Occupancy {
	if c.occupancy == nil {
		c.occupancy = c.grid.Occupancy()
	}
	return c.occupancy
}

// OnExtractionComplete applies a backend result. It reports false when the
// result was discarded because the chunk is gone or the result is stale.
func (c *Chunk) OnExtractionComplete(r mesh.Result) bool {
	if c.destroyed.Load() {
		return false
	}
	if r.Generation != c.generation {
		return false
	}
	c.inFlight = false
	if r.Skipped {
		// The backend dropped the work; try again next update.
		c.dirty = true
		return false
	}
	c.publish(r.Geometry)
	return true
}

func (c *Chunk) publish(g *mesh.Geometry) {
	if g == nil {
		g = &mesh.Geometry{}
	}
	c.geometry = g
	c.collidable = g.Collidable()
	c.world.stats.Published++
	c.world.listener.GeometryPublished(c.key, g, c.collidable)
}

// EditMode selects what an edit does to the voxels it touches.
type EditMode int

const (
	Destroy EditMode = iota
	Create
)

func (m EditMode) String() string {
	if m == Create {
		return "create"
	}
	return "destroy"
}

// bias moves a surface point half a voxel into the solid for destroy and
// out into the air for create.
func (m EditMode) bias() float32 {
	if m == Create {
		return 1
	}
	return -1
}

// EditArea applies a spherical brush centred on the voxel next to point.
// Offsets past a horizontal chunk edge are forwarded as single-voxel edits
// to the chunk that owns them, including diagonal neighbours. It returns
// the number of voxels changed across all chunks.
func (c *Chunk) EditArea(point, normal mgl32.Vec3, radius float32, mode EditMode) int {
	if c.destroyed.Load() {
		return 0
	}
	half := 0.5 * c.scale
	p := point.Sub(c.origin).Sub(mgl32.Vec3{half, half, half}).Add(normal.Mul(half * mode.bias()))
	cx, cy, cz := roundCell(p.X()/c.scale), roundCell(p.Y()/c.scale), roundCell(p.Z()/c.scale)

	if radius < 0 {
		radius = 0
	}
	// Offsets stay inside the [-radius, radius] cube; epsilon only widens
	// the sphere within it.
	reach := int(radius)
	limit := radius + float32(c.world.cfg.EditBrushEpsilon)
	changed := 0
	for dx := -reach; dx <= reach; dx++ {
		for dy := -reach; dy <= reach; dy++ {
			for dz := -reach; dz <= reach; dz++ {
				if (mgl32.Vec3{float32(dx), float32(dy), float32(dz)}).Len() > limit {
					continue
				}
				if c.editOffset(cx+dx, cy+dy, cz+dz, mode) {
					changed++
				}
			}
		}
	}
	return changed
}

func (c *Chunk) editOffset(x, y, z int, mode EditMode) bool {
	if y < 0 || y >= c.grid.Height() {
		return false
	}
	side := c.grid.Side()
	if x >= 0 && x < side && z >= 0 && z < side {
		return c.EditSingleVoxel(x, y, z, mode)
	}
	neighbour, ok := c.world.ChunkAt(c.key.Add(floorDiv(x, side), floorDiv(z, side)))
	if !ok {
		return false
	}
	return neighbour.EditSingleVoxel(floorMod(x, side), y, floorMod(z, side), mode)
}

// EditSingleVoxel destroys a solid voxel or fills an empty one. Editing a
// voxel already in the target state, or outside the grid, changes nothing.
func (c *Chunk) EditSingleVoxel(x, y, z int, mode EditMode) bool {
	if c.destroyed.Load() || !c.grid.InBounds(x, y, z) {
		return false
	}
	occupied := c.grid.Occupied(x, y, z)
	switch {
	case mode == Destroy && occupied:
		c.grid.Set(x, y, z, voxel.Empty)
	case mode == Create && !occupied:
		c.grid.Set(x, y, z, voxel.Solid(voxel.Placed, c.placedColor()))
	default:
		return false
	}
	c.occupancy = nil
	c.RequestRegeneration()
	c.refreshSeams(x, z)
	return true
}

func (c *Chunk) placedColor() mgl32.Vec4 {
	return mgl32.Vec4{c.rng.Float32(), c.rng.Float32(), c.rng.Float32(), 1}
}

// refreshSeams asks horizontal neighbours to re-extract when a border
// voxel changes, since their boundary faces depend on it.
func (c *Chunk) refreshSeams(x, z int) {
	last := c.grid.Side() - 1
	if x == 0 {
		c.world.requestRegeneration(c.key.Add(-1, 0))
	}
	if x == last {
		c.world.requestRegeneration(c.key.Add(1, 0))
	}
	if z == 0 {
		c.world.requestRegeneration(c.key.Add(0, -1))
	}
	if z == last {
		c.world.requestRegeneration(c.key.Add(0, 1))
	}
}

func roundCell(v float32) int {
	return int(mgl32.Round(v, 0))
}

func (c *Chunk) logFields() []zap.Field {
	return []zap.Field{zap.Stringer("chunk", c.key), zap.Stringer("lod", c.lod)}
}
