package mapping

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"

	"mathtype/internal/logger"

	"github.com/fsnotify/fsnotify"
)

const watcherComponent = "MappingWatcher"

// Watcher reports edits made to the mapping file by other programs. It never
// reloads: external changes are overwritten by the next mutation, so the
// user only gets told about them.
type Watcher struct {
	mu           sync.Mutex
	store        *Store
	watcher      *fsnotify.Watcher
	logger       logger.Logger
	onChange     func(path string)
	lastExternal []byte
	stopCh       chan struct{}
	doneCh       chan struct{}
	running      bool
}

// NewWatcher creates a watcher for the store's backing file. onChange may be
// nil.
func NewWatcher(store *Store, log logger.Logger, onChange func(path string)) (*Watcher, error) {
	if log == nil {
		log = logger.NoOp{}
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		store:    store,
		watcher:  fw,
		logger:   log,
		onChange: onChange,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start watches the directory holding the mapping file. Watching the
// directory instead of the file survives the rename used for saves.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dir := filepath.Dir(w.store.Path())
	if err := w.watcher.Add(dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}

	w.logger.Debug(watcherComponent, "watching mapping directory", map[string]interface{}{
		"dir": dir,
	})

	go w.run(ctx)
	return nil
}

// Stop ends the event loop and releases the fsnotify watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	wasRunning := w.running
	w.running = false
	w.mu.Unlock()

	if wasRunning {
		close(w.stopCh)
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Error(watcherComponent, err, nil)
	}
}

func (w *Watcher) Shutdown() {
	w.Stop()
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error(watcherComponent, err, nil)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.store.Path() {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.logger.Warning(watcherComponent, "mapping file removed externally; it is recreated on the next save", map[string]interface{}{
			"path": event.Name,
		})
		w.notify(event.Name)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		data, err := os.ReadFile(event.Name)
		if err != nil || w.store.isOwnWrite(data) {
			return
		}
		w.mu.Lock()
		seen := bytes.Equal(data, w.lastExternal)
		w.lastExternal = data
		w.mu.Unlock()
		if seen {
			return
		}
		w.logger.Warning(watcherComponent, "mapping file changed externally; restart to load it, the next save overwrites it", map[string]interface{}{
			"path": event.Name,
		})
		w.notify(event.Name)
	}
}

func (w *Watcher) notify(path string) {
	if w.onChange != nil {
		w.onChange(path)
	}
}
