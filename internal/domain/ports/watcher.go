package ports

import (
	"context"
	"time"
)

// FileWatcher reports changes to the inputs of a generation run
type FileWatcher interface {
	// Watch polls paths until ctx is done or Stop is called
	Watch(ctx context.Context, paths ...string) (<-chan FileChangeEvent, error)
	// Stop stops the watcher and closes the event channel
	Stop() error
}

// FileChangeEvent is one batch of changes seen in a single poll
type FileChangeEvent struct {
	Paths     []string
	Type      ChangeType
	Timestamp time.Time
}

// ChangeType represents the type of file change
type ChangeType int

const (
	// Modified indicates a file's content changed
	Modified ChangeType = iota
	// Removed indicates a file disappeared
	Removed
)

// String returns the change type name
func (c ChangeType) String() string {
	if c == Removed {
		return "removed"
	}
	return "modified"
}
