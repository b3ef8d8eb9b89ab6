package folder

import (
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports MDA file changes inside a directory and keeps a Cache
// honest: any write, create, remove, or rename of an .mda file drops the
// corresponding cache entry before the path is forwarded on Changes.
type Watcher struct {
	fsw     *fsnotify.Watcher
	cache   *Cache
	log     *slog.Logger
	changes chan string
}

// NewWatcher watches dir. cache may be nil; log may be nil to discard.
func NewWatcher(dir string, cache *Cache, log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w := &Watcher{
		fsw:     fsw,
		cache:   cache,
		log:     log,
		changes: make(chan string, 64),
	}
	go w.loop()
	return w, nil
}

// Changes delivers paths of changed MDA files. The channel is closed when
// the Watcher is closed. Events are dropped, not queued without bound, if
// the receiver falls behind.
func (w *Watcher) Changes() <-chan string {
	return w.changes
}

// Close stops watching and closes the Changes channel.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) loop() {
	defer close(w.changes)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !IsMDAFile(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if w.cache != nil {
				w.cache.Invalidate(ev.Name)
			}
			select {
			case w.changes <- ev.Name:
			default:
				w.log.Debug("dropping change notification", "path", ev.Name)
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)
		}
	}
}
