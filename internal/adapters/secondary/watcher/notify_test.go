package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fredcamaral/versedeck/internal/domain/ports"
)

func TestNotifyWatcher(t *testing.T) {
	t.Run("batches writes to watched files", func(t *testing.T) {
		input, structure := inputs(t)
		w, err := NewNotifyWatcher(50*time.Millisecond, nil)
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), input, structure)
		require.NoError(t, err)

		writeFile(t, input, "first")
		writeFile(t, structure, "[頁面結構]\nTITLE\n")

		ev := waitEvent(t, events)
		assert.Equal(t, ports.Modified, ev.Type)
		assert.ElementsMatch(t, []string{input, structure}, ev.Paths)
	})

	t.Run("ignores other files in the directory", func(t *testing.T) {
		input, _ := inputs(t)
		w, err := NewNotifyWatcher(20*time.Millisecond, nil)
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), input)
		require.NoError(t, err)

		writeFile(t, filepath.Join(filepath.Dir(input), "notes.txt"), "x")
		select {
		case ev := <-events:
			t.Fatalf("unexpected event %v", ev)
		case <-time.After(150 * time.Millisecond):
		}
	})

	t.Run("removal", func(t *testing.T) {
		input, _ := inputs(t)
		w, err := NewNotifyWatcher(20*time.Millisecond, nil)
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		events, err := w.Watch(context.Background(), input)
		require.NoError(t, err)

		require.NoError(t, os.Remove(input))
		ev := waitEvent(t, events)
		assert.Equal(t, ports.Removed, ev.Type)
		assert.Equal(t, []string{input}, ev.Paths)
	})

	t.Run("missing file", func(t *testing.T) {
		w, err := NewNotifyWatcher(20*time.Millisecond, nil)
		require.NoError(t, err)
		defer func() { _ = w.Stop() }()

		_, err = w.Watch(context.Background(), filepath.Join(t.TempDir(), "none.txt"))
		assert.Error(t, err)
	})

	t.Run("stop closes the channel", func(t *testing.T) {
		input, _ := inputs(t)
		w, err := NewNotifyWatcher(20*time.Millisecond, nil)
		require.NoError(t, err)

		events, err := w.Watch(context.Background(), input)
		require.NoError(t, err)

		require.NoError(t, w.Stop())
		_, ok := <-events
		assert.False(t, ok)
		assert.NoError(t, w.Stop())
	})
}
