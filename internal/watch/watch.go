// Package watch auto-reloads a configuration layer whenever its source
// files change on disk, coalescing bursts of filesystem events behind a
// short debounce timer before invoking the reload callback.
package watch

import (
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/flowcfg/flowcfg/internal/logx"
)

// Debounce is the quiet period watch waits for after the last observed
// event before firing a reload.
const Debounce = 250 * time.Millisecond

// Watcher watches a set of directories and calls Reload after changes
// settle.
type Watcher struct {
	fsw    *fsnotify.Watcher
	log    *logx.Logger
	Reload func()

	done chan struct{}
}

// New creates a Watcher over dirs. Call Start to begin watching, and
// Close to release the underlying OS resources.
func New(dirs []string, reload func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return &Watcher{fsw: fsw, log: logx.New("watch"), Reload: reload, done: make(chan struct{})}, nil
}

// Start runs the event loop in the background until Close is called.
func (w *Watcher) Start() {
	go w.loop()
}

func (w *Watcher) loop() {
	var timer *time.Timer
	pending := make(chan struct{}, 1)

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer == nil {
				timer = time.AfterFunc(Debounce, func() {
					select {
					case pending <- struct{}{}:
					default:
					}
				})
			} else {
				timer.Reset(Debounce)
			}
		case <-pending:
			w.log.Printf("reloading after filesystem change")
			w.Reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Printf("watch error: %v", err)
		case <-w.done:
			return
		}
	}
}

// Close stops the event loop and releases the OS watch handles.
func (w *Watcher) Close() error {
	close(w.done)
	return w.fsw.Close()
}
