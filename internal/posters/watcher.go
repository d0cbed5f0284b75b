package posters

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
)

// Watcher refreshes a Manifest when files appear in or leave its directory.
type Watcher struct {
	manifest      *Manifest
	watcher       *fsnotify.Watcher
	mu            sync.Mutex
	debounceTimer *time.Timer
	debounceDelay time.Duration
	stopChan      chan struct{}
	stopOnce      sync.Once
}

// NewWatcher creates a watcher for manifest. Events are coalesced for delay.
func NewWatcher(manifest *Manifest, delay time.Duration) *Watcher {
	if delay <= 0 {
		delay = time.Second
	}
	return &Watcher{
		manifest:      manifest,
		debounceDelay: delay,
		stopChan:      make(chan struct{}),
	}
}

// Start begins watching the poster directory.
func (w *Watcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(w.manifest.Dir()); err != nil {
		watcher.Close()
		return err
	}
	w.watcher = watcher
	log.Infof("Watching poster directory %s", w.manifest.Dir())

	go w.processEvents()
	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stopChan)
		w.mu.Lock()
		if w.debounceTimer != nil {
			w.debounceTimer.Stop()
		}
		w.mu.Unlock()
		if w.watcher != nil {
			err = w.watcher.Close()
		}
	})
	return err
}

func (w *Watcher) processEvents() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Chmod fires when files are merely opened.
			if event.Op == fsnotify.Chmod {
				continue
			}
			w.schedule()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("Poster watcher error: %v", err)
		case <-w.stopChan:
			return
		}
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounceDelay, func() {
		if err := w.manifest.Refresh(); err != nil {
			log.Warnf("Poster manifest refresh failed: %v", err)
		}
	})
}
