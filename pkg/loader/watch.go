package loader

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/launchkit/launch/core/launchctx"
	"github.com/launchkit/launch/core/launchevent"
	"github.com/launchkit/launch/core/logger"
)

// WatchConfig configures Watch's debouncing, mirroring the
// zjrosen-perles/internal/watcher package's Config shape.
type WatchConfig struct {
	Path         string
	DebounceDur  time.Duration
	Logger       *slog.Logger
	SigintGrace  time.Duration
	SigtermGrace time.Duration
}

// DefaultWatchConfig returns sensible defaults for watching path.
func DefaultWatchConfig(path string) WatchConfig {
	return WatchConfig{
		Path:        path,
		DebounceDur: 200 * time.Millisecond,
	}
}

// Watch re-loads cfg.Path on every write and emits a fresh
// IncludeLaunchDescription event through lc, so a running LaunchService picks
// up the change without restarting. It blocks until ctx is cancelled.
func Watch(ctx context.Context, lc *launchctx.Context, cfg WatchConfig) error {
	log := cfg.Logger
	if log == nil {
		log = lc.Logger
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	dir := filepath.Dir(cfg.Path)
	if err := fsw.Add(dir); err != nil {
		return err
	}

	debounce := cfg.DebounceDur
	if debounce <= 0 {
		debounce = 200 * time.Millisecond
	}

	var timer *time.Timer
	var timerC <-chan time.Time

	reload := func() {
		entity, err := Load(cfg.Path, WithShutdownGrace(cfg.SigintGrace, cfg.SigtermGrace))
		if err != nil {
			log.Error("loader: reload failed", slog.String("path", cfg.Path), logger.Error(err))
			return
		}
		log.Info("loader: reloaded", slog.String("path", cfg.Path))
		lc.EmitEventSync(launchevent.NameIncludeLaunchDescription,
			launchevent.IncludeLaunchDescription{Description: entity})
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != filepath.Base(cfg.Path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			log.Warn("loader: watch error", logger.Error(err))
		}
	}
}
