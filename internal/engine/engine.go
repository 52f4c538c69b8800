package engine

import (
	"context"
	"time"

	"VoxelEngine/internal/logger"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const defaultFrameInterval = 16 * time.Millisecond

// Engine is the update stream. Every frame it runs Update on each
// behaviour, and every fixedEvery frames it runs UpdateFixed first.
// Nothing in the engine is safe for concurrent use; behaviours that receive
// data from other goroutines must queue it and apply it in Update.
type Engine struct {
	Behaviours *BehaviourManager

	frameInterval time.Duration
	fixedEvery    int
	frameTrackId  int

	frames     uint64
	fixedTicks uint64
	closers    []func() error
}

func New(frameInterval time.Duration, fixedEvery int) *Engine {
	if frameInterval <= 0 {
		frameInterval = defaultFrameInterval
	}
	if fixedEvery < 1 {
		fixedEvery = 1
	}
	return &Engine{
		Behaviours:    NewBehaviourManager(),
		frameInterval: frameInterval,
		fixedEvery:    fixedEvery,
	}
}

func (e *Engine) Add(b Behaviour) {
	e.Behaviours.Add(b)
}

// OnClose registers a shutdown hook. Hooks run in reverse order.
func (e *Engine) OnClose(fn func() error) {
	e.closers = append(e.closers, fn)
}

func (e *Engine) Frames() uint64 { return e.frames }
func (e *Engine) FixedTicks() uint64 { return e.fixedTicks }

// Step advances one frame.
func (e *Engine) Step() {
	e.frameTrackId++
	if e.frameTrackId >= e.fixedEvery {
		e.Behaviours.UpdateAllFixed()
		e.fixedTicks++
		e.frameTrackId = 0
	}
	e.Behaviours.UpdateAll()
	e.frames++
}

// Run steps the engine once per frame interval until ctx is done.
func (e *Engine) Run(ctx context.Context) error {
	logger.Log.Info("Engine loop started",
		zap.Duration("frame_interval", e.frameInterval),
		zap.Int("fixed_every", e.fixedEvery),
		zap.Int("behaviours", e.Behaviours.Len()))

	ticker := time.NewTicker(e.frameInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Log.Info("Engine loop stopped",
				zap.Uint64("frames", e.frames),
				zap.Uint64("fixed_ticks", e.fixedTicks))
			return nil
		case <-ticker.C:
			e.Step()
		}
	}
}

// Close runs every shutdown hook and returns their combined errors.
func (e *Engine) Close() error {
	var err error
	for i := len(e.closers) - 1; i >= 0; i-- {
		err = multierr.Append(err, e.closers[i]())
	}
	e.closers = nil
	e.Behaviours.Clear()
	return err
}
