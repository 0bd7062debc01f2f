package config

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// watchSettle is how long the file must stay quiet after an event before it
// is re-read. Writers truncate then write, and a read between the two steps
// sees a partial file.
const watchSettle = 50 * time.Millisecond

// Watch monitors path for changes and calls onChange with the newly loaded
// record once the file settles after a change. It runs until ctx is
// cancelled.
//
// If a re-load fails (missing value, unreadable file), the error is logged and
// the previous record stays active; onChange is not called.
func Watch(ctx context.Context, path string, onChange func(*Config), opts ...Option) error {
	o := loadOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	o.logger.Info("watching config", zap.String("path", path))

	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Write and Create cover in-place saves. Rename and Remove show
			// up when an editor saves atomically (mv over the watched path).
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			reload = time.After(watchSettle)

		case <-reload:
			reload = nil
			// Re-add the path in case an atomic save replaced the inode.
			_ = watcher.Add(path)

			cfg, err := Load(path, opts...)
			if err != nil {
				o.logger.Warn("config reload failed, keeping previous",
					zap.String("path", path), zap.Error(err))
				continue
			}

			o.logger.Info("config reloaded", zap.String("path", path))
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
