// FILE: lixenwraith/cli/watch_test.go
package cli

import (
	"context"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastWatch() WatchOptions {
	return WatchOptions{PollInterval: MinPollInterval, Debounce: 0}
}

// receive waits for the next event or fails after timeout
func receive(t *testing.T, events <-chan string, timeout time.Duration) string {
	t.Helper()
	select {
	case event, ok := <-events:
		require.True(t, ok, "watch channel closed unexpectedly")
		return event
	case <-time.After(timeout):
		t.Fatal("timed out waiting for watch event")
		return ""
	}
}

func TestWatchReportsChangedOptions(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte("[hello]\ncount = 1\nname = World\n"), 0644))
	store := NewStore(fs, testConfigPath, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := store.Watch(ctx, fastWatch())

	time.Sleep(150 * time.Millisecond)
	staged := testConfigPath + ".new"
	require.NoError(t, afero.WriteFile(fs, staged, []byte("[hello]\ncount = 2\nshout = true\n"), 0644))
	require.NoError(t, fs.Rename(staged, testConfigPath))

	var got []string
	for len(got) < 3 {
		got = append(got, receive(t, events, 2*time.Second))
	}
	assert.Equal(t, []string{"hello.count", "hello.shout", "hello.name"}, got)

	config, _, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, config.Get("hello.count"))
}

func TestWatchFileDeleted(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, testConfigPath, []byte("[hello]\ncount = 1\n"), 0644))
	store := NewStore(fs, testConfigPath, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events := store.Watch(ctx, fastWatch())

	require.NoError(t, fs.Remove(testConfigPath))
	assert.Equal(t, EventFileDeleted, receive(t, events, 2*time.Second))
}

func TestWatchClosesOnCancel(t *testing.T) {
	store := NewStore(afero.NewMemMapFs(), testConfigPath, nil)

	ctx, cancel := context.WithCancel(context.Background())
	events := store.Watch(ctx, fastWatch())
	cancel()

	select {
	case _, ok := <-events:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel not closed after cancel")
	}
}

func TestChangedPaths(t *testing.T) {
	before := map[string]string{"a.x": "1", "a.y": "2", "b.z": "3"}
	after := map[string]string{"a.x": "1", "a.y": "5", "c.w": "4"}
	assert.Equal(t, []string{"a.y", "c.w", "b.z"}, changedPaths(before, after))
	assert.Empty(t, changedPaths(before, before))
}
