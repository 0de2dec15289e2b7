package credstore

import (
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/nesirat/MCP/internal/telemetry/logger"
)

// Watcher observes the durable credentials file for external changes.
// The durable session is shared by every client instance on the
// machine; when one instance logs in or out, the others find out
// through the file.
type Watcher struct {
	watcher   *fsnotify.Watcher
	target    string
	callbacks []func()
	mu        sync.RWMutex
	done      chan struct{}
	log       logger.Logger
}

// NewWatcher creates a watcher for the credentials file of the given
// file backend.
func NewWatcher(backend *FileBackend) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		watcher: fw,
		target:  backend.Path(),
		done:    make(chan struct{}),
		log:     logger.Default(),
	}, nil
}

// OnChange registers a callback invoked when the credentials file is
// written, created, or removed.
func (w *Watcher) OnChange(callback func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// Start begins watching. It blocks until Stop is called; use StartAsync
// from interactive flows.
func (w *Watcher) Start() error {
	// Watch the directory, not the file, to catch atomic renames and
	// creation of a not-yet-existing credentials file.
	dir := filepath.Dir(w.target)
	if err := w.watcher.Add(dir); err != nil {
		w.log.Error("failed to watch credential directory", "path", dir, "error", err)
		return err
	}

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != w.target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				w.log.Debug("credentials file changed", "op", event.Op.String())
				w.notify()
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("credential watcher error", "error", err)
		case <-w.done:
			return nil
		}
	}
}

// StartAsync starts watching in a goroutine.
func (w *Watcher) StartAsync() {
	go func() {
		_ = w.Start()
	}()
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}

func (w *Watcher) notify() {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, cb := range w.callbacks {
		cb()
	}
}
