package world

import (
	"math"
	"sort"

	"VoxelEngine/internal/config"
	"VoxelEngine/internal/logger"
	"VoxelEngine/internal/mesh"
	"VoxelEngine/internal/terrain"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// World owns the sparse chunk map and drives streaming, LOD selection and
// mesh dispatch. It is not safe for concurrent use: every exported method
// belongs to the single update stream. Extraction results from other
// goroutines are queued and applied in Update.
type World struct {
	cfg       config.Config
	footprint float32
	scale     float32

	generator *terrain.Generator
	backend   mesh.Backend
	listener  Listener
	log       *zap.Logger

	chunks map[Key]*Chunk

	// Creation candidates around the viewer chunk, nearest first.
	offsets   []Key
	cursor    int
	viewerKey Key
	hasViewer bool
	ticks     uint64

	completions completionQueue
	stats       Stats
}

// Stats is a snapshot of world counters.
type Stats struct {
	Chunks    int
	InFlight  int
	Dirty     int
	Created   uint64
	Removed   uint64
	Published uint64
	Discarded uint64
}

// New builds an empty world. A nil backend extracts synchronously.
func New(cfg config.Config, backend mesh.Backend) *World {
	log := logger.Named("world")
	for _, change := range cfg.Sanitize() {
		log.Warn("Config value clamped", zap.String("change", change))
	}
	if backend == nil {
		backend = mesh.NewSyncBackend(nil)
	}
	w := &World{
		cfg:       cfg,
		footprint: float32(cfg.ChunkFootprint),
		scale:     cfg.VoxelScale(),
		generator: terrain.NewGenerator(cfg.Terrain()),
		backend:   backend,
		listener:  NopListener{},
		log:       log,
		chunks:    make(map[Key]*Chunk),
	}
	w.offsets = streamingOffsets(cfg.ViewDistance)
	return w
}

// SetListener replaces the notification sink; nil restores the no-op sink.
func (w *World) SetListener(l Listener) {
	if l == nil {
		l = NopListener{}
	}
	w.listener = l
}

func (w *World) Config() config.Config { return w.cfg }

// Footprint is the horizontal edge length of a chunk in world units.
func (w *World) Footprint() float32 { return w.footprint }

// GetChunk looks up the chunk whose origin is the given world position.
func (w *World) GetChunk(origin mgl32.Vec3) (*Chunk, bool) {
	return w.ChunkAt(KeyFor(origin, w.footprint))
}

func (w *World) ChunkAt(k Key) (*Chunk, bool) {
	c, ok := w.chunks[k]
	return c, ok
}

// Chunks returns the loaded chunks in key order.
func (w *World) Chunks() []*Chunk {
	out := make([]*Chunk, 0, len(w.chunks))
	for _, c := range w.chunks {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].key, out[j].key
		if a.X != b.X {
			return a.X < b.X
		}
		return a.Z < b.Z
	})
	return out
}

func (w *World) Stats() Stats {
	s := w.stats
	s.Chunks = len(w.chunks)
	for _, c := range w.chunks {
		if c.inFlight {
			s.InFlight++
		}
		if c.dirty {
			s.Dirty++
		}
	}
	return s
}

func (w *World) requestRegeneration(k Key) {
	if c, ok := w.chunks[k]; ok {
		c.RequestRegeneration()
	}
}

// Update applies finished extractions and dispatches every dirty chunk that
// has no extraction outstanding. It is the per-frame tick.
func (w *World) Update() {
	w.applyCompletions()
	for _, c := range w.chunks {
		if c.dirty && !c.inFlight {
			w.dispatch(c)
		}
	}
	// Synchronous backends have already queued their results.
	w.applyCompletions()
}

// FixedTick runs the low-frequency work: streaming and LOD selection.
func (w *World) FixedTick(viewer mgl32.Vec3) {
	w.StreamingTick(viewer)
	w.lodTick(viewer)
}

func (w *World) applyCompletions() {
	for _, done := range w.completions.drain() {
		if !done.chunk.OnExtractionComplete(done.result) {
			w.stats.Discarded++
			if done.chunk.Destroyed() {
				w.log.Debug("Discarded extraction for removed chunk", zap.Stringer("chunk", done.chunk.key))
			}
		}
	}
}

func (w *World) dispatch(c *Chunk) {
	c.dirty = false
	c.generation++
	if c.grid.IsEmpty() {
		c.publish(&mesh.Geometry{})
		return
	}
	c.inFlight = true
	req := mesh.Request{
		Grid:       c.grid.Snapshot(),
		VoxelScale: c.scale,
		Stride:     c.lod.Stride(),
		Neighbors:  w.neighbours(c.key),
		Generation: c.generation,
		Live:       c.alive,
	}
	w.backend.Submit(req, func(r mesh.Result) {
		w.completions.push(completion{chunk: c, result: r})
	})
}

var horizontalFaces = [4]mesh.Face{mesh.Back, mesh.Front, mesh.Left, mesh.Right}

// neighbours captures immutable views of the adjacent chunks so extraction
// can run off the update stream.
func (w *World) neighbours(k Key) mesh.NeighborLookup {
	views := make(map[mesh.Face]mesh.Neighbor, len(horizontalFaces))
	for _, f := range horizontalFaces {
		dx, _, dz := f.Offset()
		if n, ok := w.chunks[k.Add(dx, dz)]; ok {
			views[f] = mesh.Neighbor{Stride: n.lod.Stride(), Occupancy: n.occupancyView()}
		}
	}
	return func(f mesh.Face) (mesh.Neighbor, bool) {
		n, ok := views[f]
		return n, ok
	}
}

// StreamingTick removes chunks beyond the hysteresis band and creates up to
// ChunksCreatedPerTick missing chunks within view distance, nearest first.
func (w *World) StreamingTick(viewer mgl32.Vec3) {
	removeBeyond := float32(w.cfg.ViewDistance+w.cfg.DeleteHysteresis) * w.footprint
	for k := range w.chunks {
		if planarDistance(viewer, k.Center(w.footprint, viewer.Y())) > removeBeyond {
			w.Remove(k)
		}
	}

	vk := KeyFor(viewer, w.footprint)
	if !w.hasViewer || vk != w.viewerKey {
		w.viewerKey, w.hasViewer = vk, true
		w.cursor = 0
	}
	if w.cursor >= len(w.offsets) {
		w.cursor = 0
	}

	createWithin := float32(w.cfg.ViewDistance) * w.footprint
	created := 0
	for scanned := 0; scanned < len(w.offsets) && created < w.cfg.ChunksCreatedPerTick; scanned++ {
		k := vk.Add(w.offsets[w.cursor].X, w.offsets[w.cursor].Z)
		w.cursor = (w.cursor + 1) % len(w.offsets)
		if _, ok := w.chunks[k]; ok {
			continue
		}
		d := planarDistance(viewer, k.Center(w.footprint, viewer.Y()))
		if d > createWithin {
			continue
		}
		w.create(k, LODForDistance(d, w.cfg))
		created++
	}
}

func (w *World) create(k Key, lod mesh.LOD) *Chunk {
	c := newChunk(w, k, lod)
	w.chunks[k] = c
	w.stats.Created++
	w.log.Debug("Chunk created", c.logFields()...)
	w.listener.ChunkCreated(k, c.origin)
	return c
}

// Remove drops a chunk from the map. Extractions still in flight for it
// are discarded when they complete.
func (w *World) Remove(k Key) {
	c, ok := w.chunks[k]
	if !ok {
		return
	}
	c.destroyed.Store(true)
	delete(w.chunks, k)
	w.stats.Removed++
	w.log.Debug("Chunk removed", zap.Stringer("chunk", k))
	w.listener.ChunkRemoved(k)
}

// ApplyConfig swaps in new streaming and LOD options. Terrain and chunk
// layout options only take effect for a new world.
func (w *World) ApplyConfig(cfg config.Config) {
	for _, change := range cfg.Sanitize() {
		w.log.Warn("Config value clamped", zap.String("change", change))
	}
	if cfg.Terrain() != w.cfg.Terrain() || cfg.ChunkFootprint != w.cfg.ChunkFootprint ||
		cfg.VoxelsPerChunkSide != w.cfg.VoxelsPerChunkSide || cfg.MaxHeight != w.cfg.MaxHeight {
		w.log.Warn("Terrain and layout changes ignored until restart")
	}
	next := w.cfg
	next.ViewDistance = cfg.ViewDistance
	next.LODStartDistance = cfg.LODStartDistance
	next.DeleteHysteresis = cfg.DeleteHysteresis
	next.MaxDetailLevel = cfg.MaxDetailLevel
	next.MinDetailLevel = cfg.MinDetailLevel
	next.ChunksCreatedPerTick = cfg.ChunksCreatedPerTick
	next.LODIntervalTicks = cfg.LODIntervalTicks
	next.EditBrushEpsilon = cfg.EditBrushEpsilon
	w.cfg = next
	w.offsets = streamingOffsets(next.ViewDistance)
	w.cursor = 0
	w.log.Info("Streaming options updated",
		zap.Int("view_distance", next.ViewDistance),
		zap.Int("delete_hysteresis", next.DeleteHysteresis))
}

// Close releases every chunk and shuts the backend down.
func (w *World) Close() error {
	for k := range w.chunks {
		w.Remove(k)
	}
	err := w.backend.Close()
	w.completions.drain()
	return err
}

// streamingOffsets lists every chunk offset that can hold a chunk centre
// within view chunks of a viewer standing anywhere in the centre chunk.
func streamingOffsets(view int) []Key {
	reach := view + 1
	limit := float64(reach) * float64(reach)
	var out []Key
	for dx := -reach; dx <= reach; dx++ {
		for dz := -reach; dz <= reach; dz++ {
			if float64(dx*dx+dz*dz) <= limit {
				out = append(out, Key{X: dx, Z: dz})
			}
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].X*out[i].X+out[i].Z*out[i].Z < out[j].X*out[j].X+out[j].Z*out[j].Z
	})
	return out
}

// roundDistance is used in log output only.
func roundDistance(d float32) float64 {
	return math.Round(float64(d)*100) / 100
}
