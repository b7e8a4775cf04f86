package codebase

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatcherFollowsChanges(t *testing.T) {
	root := t.TempDir()
	c := New(root)
	require.NoError(t, c.ScanAll())

	w, err := NewWatcher(c)
	require.NoError(t, err)
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(root, "p", "A.java")
	writeFile(t, path, "package p;\nclass A {}\n")
	require.Eventually(t, func() bool { return c.FindClass("p.A") != nil }, 5*time.Second, 20*time.Millisecond)

	writeFile(t, path, "package p;\nclass B {}\n")
	require.Eventually(t, func() bool { return c.FindClass("p.B") != nil && c.FindClass("p.A") == nil }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}
