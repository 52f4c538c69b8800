package mesh

import (
	"runtime"

	"VoxelEngine/internal/logger"

	"github.com/alitto/pond/v2"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Backend runs extractions. Submit never blocks on the extraction itself;
// done is called exactly once per request, possibly on another goroutine.
type Backend interface {
	Submit(req Request, done func(Result))
	Close() error
}

// BackendStats counts requests seen by a backend.
type BackendStats struct {
	Submitted uint64
	Completed uint64
	Skipped   uint64
}

// SyncBackend extracts inline on the caller's goroutine. It is the reference
// backend for tests and single-threaded hosts.
type SyncBackend struct {
	extractor Extractor
	stats     counters
}

func NewSyncBackend(e Extractor) *SyncBackend {
	if e == nil {
		e = CPUExtractor{}
	}
	return &SyncBackend{extractor: e}
}

func (b *SyncBackend) Submit(req Request, done func(Result)) {
	b.stats.submitted.Inc()
	done(run(b.extractor, req, &b.stats))
}

func (b *SyncBackend) Close() error { return nil }

func (b *SyncBackend) Stats() BackendStats { return b.stats.snapshot() }

// PoolBackend fans extractions out to a bounded worker pool.
type PoolBackend struct {
	pool      pond.Pool
	extractor Extractor
	closed    atomic.Bool
	stats     counters
}

// NewPoolBackend starts a pool with the given number of workers; zero or
// less means one per CPU.
func NewPoolBackend(workers int, e Extractor) *PoolBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if e == nil {
		e = CPUExtractor{}
	}
	logger.Log.Info("Mesh worker pool started", zap.Int("workers", workers))
	return &PoolBackend{
		pool:      pond.NewPool(workers),
		extractor: e,
	}
}

func (b *PoolBackend) Submit(req Request, done func(Result)) {
	b.stats.submitted.Inc()
	if b.closed.Load() {
		b.stats.skipped.Inc()
		done(Result{Generation: req.Generation, Skipped: true})
		return
	}
	b.pool.Submit(func() {
		done(run(b.extractor, req, &b.stats))
	})
}

// Close waits for queued extractions to finish and stops the workers.
func (b *PoolBackend) Close() error {
	if b.closed.Swap(true) {
		return nil
	}
	b.pool.StopAndWait()
	logger.Log.Info("Mesh worker pool stopped",
		zap.Uint64("completed", b.stats.completed.Load()),
		zap.Uint64("skipped", b.stats.skipped.Load()))
	return nil
}

func (b *PoolBackend) Stats() BackendStats { return b.stats.snapshot() }

type counters struct {
	submitted atomic.Uint64
	completed atomic.Uint64
	skipped   atomic.Uint64
}

func (c *counters) snapshot() BackendStats {
	return BackendStats{
		Submitted: c.submitted.Load(),
		Completed: c.completed.Load(),
		Skipped:   c.skipped.Load(),
	}
}

func run(e Extractor, req Request, c *counters) Result {
	if !req.live() {
		c.skipped.Inc()
		return Result{Generation: req.Generation, Skipped: true}
	}
	geom := e.Extract(req)
	c.completed.Inc()
	return Result{Generation: req.Generation, Geometry: geom}
}
