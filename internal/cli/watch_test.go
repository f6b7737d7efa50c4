package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/grahms/tagcheck/internal/testutil"
)

func TestWatchFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	other := filepath.Join(dir, "other.html")
	require.NoError(t, os.WriteFile(path, []byte("<div>"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, testutil.NewTestLogger(t), func() {
			runs.Add(1)
		})
	}()

	// Give the watcher time to register before writing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(path, []byte("<div></div>"), 0o600))

	require.Eventually(t, func() bool { return runs.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	err := watchFile(context.Background(), filepath.Join(t.TempDir(), "gone", "index.html"), defaultDebounce, testutil.NewTestLogger(t), func() {})
	require.Error(t, err)
}
