// Package watcher polls generation inputs for changes.
package watcher

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// PollingWatcher implements ports.FileWatcher by polling file size, mtime
// and content hash.
type PollingWatcher struct {
	interval time.Duration
	debounce time.Duration
	files    map[string]fileState
	events   chan ports.FileChangeEvent
	logger   *slog.Logger
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
}

type fileState struct {
	size     int64
	modTime  time.Time
	checksum string
	missing  bool
}

// NewPollingWatcher creates a watcher polling every interval. Changes seen
// within debounce of the last event are held back until a later poll.
func NewPollingWatcher(interval, debounce time.Duration, logger *slog.Logger) *PollingWatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &PollingWatcher{
		interval: interval,
		debounce: debounce,
		files:    make(map[string]fileState),
		events:   make(chan ports.FileChangeEvent, 1),
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Watch records the current state of every path and starts polling.
func (w *PollingWatcher) Watch(ctx context.Context, paths ...string) (<-chan ports.FileChangeEvent, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no paths to watch")
	}

	abs := make([]string, 0, len(paths))
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		st, err := scan(a)
		if err != nil {
			return nil, fmt.Errorf("initial scan of %s: %w", p, err)
		}
		w.mu.Lock()
		w.files[a] = st
		w.mu.Unlock()
		abs = append(abs, a)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.pollLoop(ctx, abs)
	}()

	return w.events, nil
}

// Stop stops polling and closes the event channel. It is safe to call more
// than once.
func (w *PollingWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	close(w.events)
	return nil
}

func (w *PollingWatcher) pollLoop(ctx context.Context, paths []string) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	var (
		lastEvent time.Time
		pending   = map[string]ports.ChangeType{}
	)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
		}

		for _, p := range paths {
			kind, changed, err := w.check(p)
			if err != nil {
				w.logger.Warn("watch error", slog.String("path", p), slog.String("error", err.Error()))
				continue
			}
			if changed {
				pending[p] = kind
			}
		}

		if len(pending) == 0 || time.Since(lastEvent) < w.debounce {
			continue
		}

		event := ports.FileChangeEvent{Type: ports.Modified, Timestamp: time.Now()}
		for _, p := range paths {
			kind, ok := pending[p]
			if !ok {
				continue
			}
			event.Paths = append(event.Paths, p)
			if kind == ports.Removed {
				event.Type = ports.Removed
			}
		}

		select {
		case w.events <- event:
			lastEvent = time.Now()
			pending = map[string]ports.ChangeType{}
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		}
	}
}

// check compares path against its recorded state.
func (w *PollingWatcher) check(path string) (ports.ChangeType, bool, error) {
	w.mu.Lock()
	old := w.files[path]
	w.mu.Unlock()

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if old.missing {
			return ports.Removed, false, nil
		}
		w.record(path, fileState{missing: true})
		return ports.Removed, true, nil
	}
	if err != nil {
		return ports.Modified, false, fmt.Errorf("stat file: %w", err)
	}

	// skip hashing when size and mtime are unchanged
	if !old.missing && old.size == info.Size() && old.modTime.Equal(info.ModTime()) {
		return ports.Modified, false, nil
	}

	sum, err := checksum(path)
	if err != nil {
		return ports.Modified, false, err
	}

	cur := fileState{size: info.Size(), modTime: info.ModTime(), checksum: sum}
	w.record(path, cur)
	return ports.Modified, old.missing || old.checksum != sum, nil
}

func (w *PollingWatcher) record(path string, st fileState) {
	w.mu.Lock()
	w.files[path] = st
	w.mu.Unlock()
}

func scan(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, err
	}
	sum, err := checksum(path)
	if err != nil {
		return fileState{}, err
	}
	return fileState{size: info.Size(), modTime: info.ModTime(), checksum: sum}, nil
}

func checksum(path string) (string, error) {
	file, err := os.Open(path) // #nosec G304 - watched paths come from the command line
	if err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}
	defer func() { _ = file.Close() }()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", fmt.Errorf("calculate checksum: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// Ensure PollingWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*PollingWatcher)(nil)
