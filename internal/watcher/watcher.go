// Package watcher polls the files a typeschema run depends on and reports
// debounced batches of changes.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// Op is the kind of change observed for a path.
type Op string

const (
	OpCreate Op = "create"
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Event represents a file change event.
type Event struct {
	Path string
	Op   Op
}

// DefaultPollInterval is the default polling interval for file change detection.
const DefaultPollInterval = 500 * time.Millisecond

// Watcher polls a set of paths for changes. A path may name a file (the type
// graph, the config file, a .env file) or a directory, which is walked for
// files with one of the configured extensions.
type Watcher struct {
	paths        []string
	extensions   []string // e.g. [".json"]; empty matches every file in a directory
	debounce     time.Duration
	pollInterval time.Duration
	onChange     func(events []Event)

	mu       sync.Mutex
	pending  []Event
	timer    *time.Timer
	stopCh   chan struct{}
	stopOnce sync.Once
}

// New creates a new watcher.
func New(paths []string, extensions []string, debounce time.Duration, onChange func(events []Event)) *Watcher {
	return &Watcher{
		paths:        paths,
		extensions:   extensions,
		debounce:     debounce,
		pollInterval: DefaultPollInterval,
		onChange:     onChange,
		stopCh:       make(chan struct{}),
	}
}

// SetPollInterval sets the polling interval for file change detection.
func (w *Watcher) SetPollInterval(d time.Duration) {
	w.pollInterval = d
}

// Watch polls until ctx is done or Stop is called. A file that does not exist
// yet is not an error; its later creation is reported.
func (w *Watcher) Watch(ctx context.Context) error {
	snapshot := w.buildSnapshot()

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.cancelPending()
			return ctx.Err()
		case <-w.stopCh:
			w.cancelPending()
			return nil
		case <-ticker.C:
			next := w.buildSnapshot()
			if events := w.diff(snapshot, next); len(events) > 0 {
				w.schedule(events)
			}
			snapshot = next
		}
	}
}

// Stop stops the watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

func (w *Watcher) schedule(events []Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending = append(w.pending, events...)
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		pending := w.pending
		w.pending = nil
		w.mu.Unlock()
		if len(pending) > 0 {
			w.onChange(pending)
		}
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.pending = nil
}

type fileInfo struct {
	modTime time.Time
	size    int64
}

func (w *Watcher) buildSnapshot() map[string]fileInfo {
	snap := make(map[string]fileInfo)
	for _, root := range w.paths {
		info, err := os.Stat(root)
		if err != nil {
			continue
		}
		if !info.IsDir() {
			snap[root] = fileInfo{modTime: info.ModTime(), size: info.Size()}
			continue
		}
		filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
			if err != nil || info.IsDir() || !w.matches(path) {
				return nil
			}
			snap[path] = fileInfo{modTime: info.ModTime(), size: info.Size()}
			return nil
		})
	}
	return snap
}

func (w *Watcher) matches(path string) bool {
	if len(w.extensions) == 0 {
		return true
	}
	ext := filepath.Ext(path)
	for _, e := range w.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// diff returns the changes from old to new, ordered by path.
func (w *Watcher) diff(old, new map[string]fileInfo) []Event {
	var events []Event

	for path, newInfo := range new {
		if oldInfo, ok := old[path]; ok {
			if !newInfo.modTime.Equal(oldInfo.modTime) || newInfo.size != oldInfo.size {
				events = append(events, Event{Path: path, Op: OpWrite})
			}
		} else {
			events = append(events, Event{Path: path, Op: OpCreate})
		}
	}

	for path := range old {
		if _, ok := new[path]; !ok {
			events = append(events, Event{Path: path, Op: OpRemove})
		}
	}

	sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
	return events
}
