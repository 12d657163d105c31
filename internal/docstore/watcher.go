package docstore

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the database file for out-of-band writes (another process
// touching the same SQLite file) and re-emits live snapshots when they
// happen, so external changes surface to subscribers without a restart.
//
// SQLite in WAL mode writes bursts of events across the db, -wal and -shm
// files, so changes are debounced before triggering a broadcast. Our own
// writes also land here; the hub's snapshot signature suppresses the
// resulting duplicate broadcasts.
func Watch(ctx context.Context, store *Store, dbPath string, logger *slog.Logger) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	abs, err := filepath.Abs(dbPath)
	if err != nil {
		return err
	}
	// Watch the directory: the -wal file may not exist yet at startup, and
	// fsnotify drops watches on files that get replaced.
	if err := w.Add(filepath.Dir(abs)); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("db", abs))

	base := filepath.Base(abs)
	isDBFile := func(name string) bool {
		b := filepath.Base(name)
		return b == base || strings.HasPrefix(b, base+"-")
	}

	var debounce *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounce == nil {
			debounce = time.NewTimer(200 * time.Millisecond)
			debounceCh = debounce.C
		} else {
			debounce.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			logger.Debug("watcher: database changed, refreshing snapshots")
			store.NotifyExternal()

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isDBFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				schedule()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
