package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch reloads path whenever it changes and delivers each valid result.
// The directory is watched rather than the file so editors that save by
// rename are seen. Invalid files are logged and skipped. Only the latest
// config is kept if the receiver falls behind. The channel closes when ctx
// is done.
func Watch(ctx context.Context, path string, log *slog.Logger) (<-chan *Config, error) {
	if log == nil {
		log = slog.Default()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", path, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(abs), err)
	}

	out := make(chan *Config, 1)
	go func() {
		defer close(out)
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != abs || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				cfg, err := Load(abs)
				if err == nil {
					err = cfg.Validate()
				}
				if err != nil {
					log.Warn("config reload rejected", "path", abs, "err", err)
					continue
				}
				log.Info("config reloaded", "path", abs)
				deliver(out, cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", "err", err)
			}
		}
	}()
	return out, nil
}

// deliver replaces any undelivered config with cfg.
func deliver(out chan *Config, cfg *Config) {
	for {
		select {
		case out <- cfg:
			return
		default:
			select {
			case <-out:
			default:
			}
		}
	}
}
