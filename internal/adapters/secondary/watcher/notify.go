package watcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

// NotifyWatcher implements ports.FileWatcher with filesystem notifications.
// It watches the parent directories so editors that save by rename are
// still seen, and reports a batch once no event has arrived for debounce.
type NotifyWatcher struct {
	debounce time.Duration
	fsw      *fsnotify.Watcher
	events   chan ports.FileChangeEvent
	logger   *slog.Logger
	mu       sync.Mutex
	wg       sync.WaitGroup
	stopped  bool
	stopCh   chan struct{}
}

// NewNotifyWatcher creates a notification based watcher.
func NewNotifyWatcher(debounce time.Duration, logger *slog.Logger) (*NotifyWatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}
	return &NotifyWatcher{
		debounce: debounce,
		fsw:      fsw,
		events:   make(chan ports.FileChangeEvent, 1),
		logger:   logger,
		stopCh:   make(chan struct{}),
	}, nil
}

// Watch registers the directories holding paths and starts delivering events.
func (w *NotifyWatcher) Watch(ctx context.Context, paths ...string) (<-chan ports.FileChangeEvent, error) {
	if len(paths) == 0 {
		return nil, errors.New("no paths to watch")
	}

	targets := make(map[string]bool, len(paths))
	order := make([]string, 0, len(paths))
	dirs := map[string]bool{}
	for _, p := range paths {
		a, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}
		if _, err := os.Stat(a); err != nil {
			return nil, fmt.Errorf("initial scan of %s: %w", p, err)
		}
		if !targets[a] {
			targets[a] = true
			order = append(order, a)
		}
		dir := filepath.Dir(a)
		if dirs[dir] {
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.loop(ctx, targets, order)
	}()

	return w.events, nil
}

func (w *NotifyWatcher) loop(ctx context.Context, targets map[string]bool, order []string) {
	timer := time.NewTimer(time.Hour)
	timer.Stop()
	defer timer.Stop()

	pending := map[string]ports.ChangeType{}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			name := filepath.Clean(ev.Name)
			if !targets[name] || (ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write)) {
				continue
			}
			kind := ports.Modified
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				// a rename-over save leaves the file in place
				if _, err := os.Stat(name); os.IsNotExist(err) {
					kind = ports.Removed
				}
			}
			pending[name] = kind
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watch error", slog.String("error", err.Error()))

		case <-timer.C:
			event := ports.FileChangeEvent{Type: ports.Modified, Timestamp: time.Now()}
			for _, p := range order {
				kind, ok := pending[p]
				if !ok {
					continue
				}
				// a removed file that came back counts as modified
				if kind == ports.Removed {
					if _, err := os.Stat(p); err == nil {
						kind = ports.Modified
					}
				}
				event.Paths = append(event.Paths, p)
				if kind == ports.Removed {
					event.Type = ports.Removed
				}
			}
			pending = map[string]ports.ChangeType{}

			select {
			case w.events <- event:
			case <-ctx.Done():
				return
			case <-w.stopCh:
				return
			}
		}
	}
}

// Stop releases the notification handle and closes the event channel. It is
// safe to call more than once.
func (w *NotifyWatcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.stopCh)
	w.mu.Unlock()

	w.wg.Wait()
	err := w.fsw.Close()
	close(w.events)
	return err
}

// Ensure NotifyWatcher implements ports.FileWatcher
var _ ports.FileWatcher = (*NotifyWatcher)(nil)
