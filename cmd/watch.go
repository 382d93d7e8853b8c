package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchQuiet is how long the file must stay unchanged before a conversion runs.
const watchQuiet = time.Second

// watchFile calls run once the file at path has been quiet for watchQuiet
// after a change, until ctx is done.
func watchFile(ctx context.Context, path string, logger *slog.Logger, run func() error) error {
	watcher, err := newFileWatcher(path, watchQuiet)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Run(ctx, logger, run)
}

// fileWatcher debounces change events for a single file. Spreadsheet editors
// often replace the file on save, so the parent directory is watched and
// events are matched by name.
type fileWatcher struct {
	path    string
	absPath string
	quiet   time.Duration
	events  *fsnotify.Watcher
}

func newFileWatcher(path string, quiet time.Duration) (*fileWatcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", path, err)
	}

	events, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}
	if err := events.Add(filepath.Dir(absPath)); err != nil {
		events.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}

	return &fileWatcher{path: path, absPath: absPath, quiet: quiet, events: events}, nil
}

func (w *fileWatcher) Close() error {
	return w.events.Close()
}

// Run blocks until ctx is done. Every matching event restarts the quiet
// period, so a save split into several writes triggers a single run that
// sees the final content.
func (w *fileWatcher) Run(ctx context.Context, logger *slog.Logger, run func() error) error {
	pending := time.NewTimer(w.quiet)
	pending.Stop()
	defer pending.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.events.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.absPath {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("file changed", "file", w.path, "op", event.Op.String())
			pending.Reset(w.quiet)
		case <-pending.C:
			if err := run(); err != nil {
				logger.Error("conversion failed", "file", w.path, "error", err)
			}
		case err, ok := <-w.events.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}
