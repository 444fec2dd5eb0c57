package intake

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/san-kum/asciiforge/internal/logger"
)

// settle is how long a dropped file must stay quiet before it is reported.
const settle = 250 * time.Millisecond

// DropDir reports files created in a directory, acting as a drop zone for
// frontends without native drag-and-drop.
type DropDir struct {
	dir     string
	watcher *fsnotify.Watcher
	log     *logger.Logger
}

func NewDropDir(dir string, log *logger.Logger) (*DropDir, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create drop dir: %w", err)
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	if log == nil {
		log = logger.Discard()
	}
	return &DropDir{dir: dir, watcher: w, log: log}, nil
}

func (d *DropDir) Dir() string { return d.dir }

// Run calls drop with each settled file until ctx is done. Writes to the
// same file within the settle window are coalesced.
func (d *DropDir) Run(ctx context.Context, drop func(path string)) error {
	defer d.close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if isHidden(ev.Name) {
				continue
			}
			pending[ev.Name] = time.Now()
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return nil
			}
			d.log.Warn("watcher error", logger.Err(err))
		case now := <-ticker.C:
			for path, seen := range pending {
				if now.Sub(seen) < settle {
					continue
				}
				delete(pending, path)
				if info, err := os.Stat(path); err != nil || info.IsDir() {
					continue
				}
				d.log.Info("file dropped", logger.F("path", path))
				drop(path)
			}
		}
	}
}

func (d *DropDir) close() {
	if err := d.watcher.Close(); err != nil {
		d.log.Warn("failed to close watcher", logger.Err(err))
	}
}

func isHidden(path string) bool {
	base := filepath.Base(path)
	return len(base) > 0 && base[0] == '.'
}
