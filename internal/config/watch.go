package config

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"VoxelEngine/internal/logger"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// reloadDelay is how long Watch waits after the last write before reading
// the file, so a save that truncates and then writes is seen once.
const reloadDelay = 100 * time.Millisecond

// Watch reloads path whenever it is written and hands every successfully
// loaded config to onChange. Empty files are ignored. It blocks until ctx is
// done. onChange runs on the watcher goroutine; callers forward it to their
// update stream.
func Watch(ctx context.Context, path string, onChange func(Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return err
	}
	target := filepath.Clean(path)
	log := logger.Named("config")

	settle := time.NewTimer(reloadDelay)
	if !settle.Stop() {
		<-settle.C
	}
	defer settle.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !settle.Stop() {
				select {
				case <-settle.C:
				default:
				}
			}
			settle.Reset(reloadDelay)
		case <-settle.C:
			reload(path, log, onChange)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("Config watcher error", zap.Error(err))
		}
	}
}

func reload(path string, log *zap.Logger, onChange func(Config)) {
	info, err := os.Stat(path)
	if err != nil {
		log.Warn("Config reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	if info.Size() == 0 {
		log.Debug("Config file empty, keeping current values", zap.String("path", path))
		return
	}
	cfg, adjustments, err := Load(path)
	if err != nil {
		log.Warn("Config reload failed", zap.String("path", path), zap.Error(err))
		return
	}
	for _, a := range adjustments {
		log.Warn("Config value clamped", zap.String("change", a))
	}
	log.Info("Config reloaded", zap.String("path", path))
	onChange(cfg)
}
