package mapping

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch re-imports path into t whenever the file changes, until ctx is
// cancelled. A reimport that fails to parse is logged and the previous
// table contents stay live. The watch is on the containing directory so
// editors that replace the file (write to temp, rename over) are caught.
func Watch(ctx context.Context, t *Table, path string, log *slog.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve mappings path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create mappings watcher: %w", err)
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return fmt.Errorf("watch mappings dir: %w", err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != abs {
					continue
				}
				if !ev.Op.Has(fsnotify.Write) && !ev.Op.Has(fsnotify.Create) {
					continue
				}
				if err := t.ImportFile(abs); err != nil {
					log.Warn("mappings reload failed, keeping previous table", "path", abs, "err", err)
					continue
				}
				log.Info("mappings reloaded", "path", abs, "count", t.Len())
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn("mappings watcher error", "err", err)
			}
		}
	}()

	return nil
}
