package world

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// EditRequest is a brush edit at a surface hit point.
type EditRequest struct {
	Point  mgl32.Vec3
	Normal mgl32.Vec3
	Radius float32
	Mode   EditMode
}

// Edit applies a brush to the chunk owning the voxel next to the hit point
// and returns the number of voxels changed. An edit outside every loaded
// chunk changes nothing.
func (w *World) Edit(req EditRequest) int {
	probe := req.Point.Add(req.Normal.Mul(0.5 * w.scale * req.Mode.bias()))
	k := KeyFor(probe, w.footprint)
	c, ok := w.chunks[k]
	if !ok {
		w.log.Warn("Edit outside loaded chunks",
			zap.Stringer("chunk", k),
			zap.Stringer("mode", req.Mode))
		return 0
	}
	changed := c.EditArea(req.Point, req.Normal, req.Radius, req.Mode)
	w.log.Debug("Edit applied",
		zap.Stringer("chunk", k),
		zap.Stringer("mode", req.Mode),
		zap.Int("changed", changed))
	return changed
}
