package world

import (
	"sync"

	"VoxelEngine/internal/mesh"

	"github.com/go-gl/mathgl/mgl32"
)

// Listener receives chunk lifecycle and geometry notifications. All calls
// happen on the update stream.
type Listener interface {
	ChunkCreated(key Key, origin mgl32.Vec3)
	ChunkRemoved(key Key)
	// GeometryPublished hands over the full replacement geometry of a chunk.
	// collidable is false when the geometry is empty.
	GeometryPublished(key Key, geometry *mesh.Geometry, collidable bool)
}

// NopListener ignores every notification. Embed it to implement only the
// callbacks you need.
type NopListener struct{}

func (NopListener) ChunkCreated(Key, mgl32.Vec3) {}
func (NopListener) ChunkRemoved(Key) {}
func (NopListener) GeometryPublished(Key, *mesh.Geometry, bool) {}

type completion struct {
	chunk  *Chunk
	result mesh.Result
}

// completionQueue carries extraction results from backend goroutines back
// to the update stream.
type completionQueue struct {
	mu    sync.Mutex
	items []completion
}

func (q *completionQueue) push(c completion) {
	q.mu.Lock()
	q.items = append(q.items, c)
	q.mu.Unlock()
}

func (q *completionQueue) drain() []completion {
	q.mu.Lock()
	items := q.items
	q.items = nil
	q.mu.Unlock()
	return items
}
