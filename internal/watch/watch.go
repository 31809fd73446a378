// Package watch provides the filesystem watcher behind `push --watch`. It
// uses fsnotify for cross-platform event monitoring, watches the project
// tree recursively, and coalesces bursts of events into single triggers.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/google/clasp-sub000/internal/ignore"
)

// DefaultDebounce is how long the watcher waits for the filesystem to go
// quiet before emitting a trigger.
const DefaultDebounce = 300 * time.Millisecond

// Watcher watches a project tree and emits one trigger per settled burst of
// changes. Paths excluded by the ignore rules do not trigger.
type Watcher struct {
	root     string
	rules    *ignore.RuleSet
	debounce time.Duration

	fsw      *fsnotify.Watcher
	triggers chan struct{}
	errs     chan error
	done     chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	running  bool
}

// New creates a Watcher over root. rules may be nil to trigger on every
// change.
func New(root string, rules *ignore.RuleSet, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}

	return &Watcher{
		root:     root,
		rules:    rules,
		debounce: debounce,
		fsw:      fsw,
		triggers: make(chan struct{}, 1),
		errs:     make(chan error, 1),
		done:     make(chan struct{}),
	}, nil
}

// Triggers returns the channel that receives one value per settled change
// burst.
func (w *Watcher) Triggers() <-chan struct{} { return w.triggers }

// Errors returns the channel that receives watcher errors.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Start registers the tree and begins emitting triggers. It may be called
// once.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return fmt.Errorf("watcher already running")
	}

	if err := w.addTree(w.root); err != nil {
		return err
	}

	w.running = true
	w.wg.Add(1)
	go w.loop()
	return nil
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return w.fsw.Close()
	}
	w.running = false

	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// addTree registers root and every subdirectory with the watcher.
func (w *Watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); path != root && (name == ".git" || name == "node_modules") {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			// New directories must be registered to keep the watch
			// recursive.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addTree(event.Name); err != nil {
						w.reportError(err)
					}
				}
			}

			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			select {
			case w.triggers <- struct{}{}:
			default: // a trigger is already pending
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.reportError(err)
		}
	}
}

// relevant filters out chmod-only noise and ignored paths.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}

	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return false
	}

	if w.rules != nil && w.rules.IsIgnored(rel) {
		return false
	}
	return true
}

func (w *Watcher) reportError(err error) {
	select {
	case w.errs <- err:
	default:
	}
}
