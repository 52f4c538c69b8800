package world

import (
	"VoxelEngine/internal/config"
	"VoxelEngine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// LODForDistance maps a planar viewer distance in world units to a detail
// level. Full detail is kept up to LODStartDistance chunks, then detail
// falls linearly to MinDetailLevel at ViewDistance chunks.
func LODForDistance(distance float32, cfg config.Config) mesh.LOD {
	fp := float64(cfg.ChunkFootprint)
	start := float64(cfg.LODStartDistance) * fp
	span := float64(cfg.ViewDistance-cfg.LODStartDistance) * fp

	var t float64
	switch {
	case span > 0:
		t = (float64(distance) - start) / span
	case float64(distance) > start:
		t = 1
	}
	return mesh.Lerp(cfg.MaxDetailLevel, cfg.MinDetailLevel, t)
}

// lodTick re-evaluates each chunk once every LODIntervalTicks fixed ticks,
// offset by the chunk's own phase so the work is spread out.
func (w *World) lodTick(viewer mgl32.Vec3) {
	w.ticks++
	interval := uint64(w.cfg.LODIntervalTicks)
	for _, c := range w.chunks {
		if (w.ticks+c.lodPhase)%interval != 0 {
			continue
		}
		w.checkLOD(c, viewer)
	}
}

func (w *World) checkLOD(c *Chunk, viewer mgl32.Vec3) {
	d := planarDistance(viewer, c.key.Center(w.footprint, viewer.Y()))
	if d > float32(w.cfg.ViewDistance+w.cfg.DeleteHysteresis)*w.footprint {
		w.Remove(c.key)
		return
	}
	lod := LODForDistance(d, w.cfg)
	if lod == c.lod {
		return
	}
	w.log.Debug("Chunk LOD changed",
		zap.Stringer("chunk", c.key),
		zap.Stringer("from", c.lod),
		zap.Stringer("to", lod),
		zap.Float64("distance", roundDistance(d)))
	c.lod = lod
	c.RequestRegeneration()
}
