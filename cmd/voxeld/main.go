package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"VoxelEngine/internal/config"
	"VoxelEngine/internal/engine"
	"VoxelEngine/internal/logger"
	"VoxelEngine/internal/mesh"
	"VoxelEngine/internal/world"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

func main() {
	var (
		configPath = flag.String("config", "", "YAML config file; defaults apply when empty")
		dev        = flag.Bool("dev", false, "development logging")
		duration   = flag.Duration("duration", 10*time.Second, "how long to run; 0 runs until interrupted")
		workers    = flag.Int("workers", -1, "mesh workers; -1 uses the config, 0 one per CPU")
		dumpDir    = flag.String("dump", "", "write encoded chunk geometry to this directory")
		watch      = flag.Bool("watch", false, "reload streaming options when the config file changes")
		orbit      = flag.Float64("orbit", 48, "radius of the scripted viewer's orbit")
		brushEvery = flag.Int("brush-every", 20, "fixed ticks between brush edits; 0 disables")
	)
	flag.Parse()

	if err := logger.Init(*dev); err != nil {
		fmt.Fprintf(os.Stderr, "Could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(*configPath, *duration, *workers, *dumpDir, *watch, float32(*orbit), *brushEvery); err != nil {
		logger.Log.Error("voxeld failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(configPath string, duration time.Duration, workers int, dumpDir string, watch bool, orbit float32, brushEvery int) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, adjustments, err := config.Load(configPath)
		if err != nil {
			return err
		}
		for _, a := range adjustments {
			logger.Log.Warn("Config value clamped", zap.String("change", a))
		}
		cfg = loaded
	}
	if workers >= 0 {
		cfg.MeshWorkers = workers
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	sink := &publishSink{log: logger.Named("publish")}
	if dumpDir != "" {
		if err := os.MkdirAll(dumpDir, 0o755); err != nil {
			return err
		}
		sink.dir = dumpDir
	}
	w := world.New(cfg, mesh.NewPoolBackend(cfg.MeshWorkers, nil))
	w.SetListener(sink)

	viewer := &orbitViewer{Radius: orbit, Speed: 0.2, Height: float32(cfg.MaxHeight)}
	b := &brush{
		world:  w,
		viewer: viewer,
		every:  brushEvery,
		radius: 1.5,
		reach:  2 * float32(cfg.MaxHeight),
		log:    logger.Named("brush"),
	}

	e := engine.New(cfg.FrameInterval, cfg.FixedEvery)
	e.Add(viewer)
	e.Add(&world.Driver{World: w, Viewer: viewer})
	e.Add(b)
	e.OnClose(w.Close)

	if watch && configPath != "" {
		r := &reloader{world: w, updates: make(chan config.Config, 1)}
		e.Add(r)
		go func() {
			if err := config.Watch(ctx, configPath, r.offer); err != nil {
				logger.Log.Warn("Config watch stopped", zap.Error(err))
			}
		}()
	}

	runErr := e.Run(ctx)
	stats := w.Stats()
	closeErr := e.Close()

	logger.Log.Info("World stats",
		zap.Int("chunks", stats.Chunks),
		zap.Uint64("created", stats.Created),
		zap.Uint64("removed", stats.Removed),
		zap.Uint64("published", stats.Published),
		zap.Uint64("discarded", stats.Discarded),
		zap.Int("in_flight", stats.InFlight),
		zap.Int("brush_edits", b.edits),
		zap.Int("voxels_changed", b.changed),
		zap.Int("dumped", sink.dumped))

	if runErr != nil {
		return runErr
	}
	return closeErr
}

// publishSink logs chunk lifecycle events and optionally writes every
// published geometry to disk. Dumps of removed chunks are kept.
type publishSink struct {
	world.NopListener
	log    *zap.Logger
	dir    string
	dumped int
}

func (s *publishSink) ChunkCreated(k world.Key, origin mgl32.Vec3) {
	s.log.Debug("Chunk created", zap.Stringer("chunk", k))
}

func (s *publishSink) ChunkRemoved(k world.Key) {
	s.log.Debug("Chunk removed", zap.Stringer("chunk", k))
}

func (s *publishSink) GeometryPublished(k world.Key, g *mesh.Geometry, collidable bool) {
	s.log.Debug("Geometry published",
		zap.Stringer("chunk", k),
		zap.Int("vertices", g.VertexCount()),
		zap.Int("triangles", g.TriangleCount()),
		zap.Bool("collidable", collidable))
	if s.dir == "" {
		return
	}
	data, err := mesh.Encode(g)
	if err != nil {
		s.log.Warn("Could not encode geometry", zap.Stringer("chunk", k), zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path(k), data, 0o644); err != nil {
		s.log.Warn("Could not write geometry", zap.Stringer("chunk", k), zap.Error(err))
		return
	}
	s.dumped++
}

func (s *publishSink) path(k world.Key) string {
	return filepath.Join(s.dir, fmt.Sprintf("chunk_%d_%d.vxm", k.X, k.Z))
}

// reloader hands configs from the watcher goroutine to the update stream.
type reloader struct {
	world   *world.World
	updates chan config.Config
}

// offer keeps only the newest pending config.
func (r *reloader) offer(cfg config.Config) {
	for {
		select {
		case r.updates <- cfg:
			return
		default:
			select {
			case <-r.updates:
			default:
			}
		}
	}
}

func (r *reloader) Start() {}

func (r *reloader) Update() {
	select {
	case cfg := <-r.updates:
		r.world.ApplyConfig(cfg)
	default:
	}
}

func (r *reloader) UpdateFixed() {}
