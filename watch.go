// FILE: lixenwraith/cli/watch.go
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
)

// Events sent by Watch besides changed "section.option" paths
const (
	EventFileDeleted        = "file_deleted"
	EventPermissionsChanged = "permissions_changed"
	EventReloadError        = "reload_error"
)

// WatchOptions configures file watching behavior
type WatchOptions struct {
	// PollInterval for file stat checks (minimum 100ms)
	PollInterval time.Duration

	// Debounce delays the re-read until the file stops changing
	Debounce time.Duration

	// VerifyPermissions reports group/world permission changes instead of re-reading
	VerifyPermissions bool
}

// DefaultWatchOptions returns sensible defaults for file watching
func DefaultWatchOptions() WatchOptions {
	return WatchOptions{
		PollInterval:      DefaultPollInterval,
		Debounce:          DefaultDebounce,
		VerifyPermissions: true,
	}
}

// fileState is what polling compares between ticks
type fileState struct {
	modTime time.Time
	size    int64
	mode    os.FileMode
	exists  bool
}

// Watch polls the configuration file and sends the "section.option" path of every option
// whose value changed on disk, or one of the Event constants.
// Nothing is applied to any tree; the channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context, opts WatchOptions) <-chan string {
	if opts.PollInterval < MinPollInterval {
		opts.PollInterval = MinPollInterval
	}
	if opts.Debounce < 0 {
		opts.Debounce = 0
	}

	events := make(chan string, watchBufferSize)
	state := s.stat()
	snapshot, _ := s.snapshot()

	go func() {
		defer close(events)

		ticker := time.NewTicker(opts.PollInterval)
		defer ticker.Stop()

		var dueAt time.Time
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				current := s.stat()
				if !current.exists {
					if state.exists {
						s.notify(events, EventFileDeleted)
					}
					state = current
					continue
				}

				if opts.VerifyPermissions && state.exists && (current.mode&0077) != (state.mode&0077) {
					state.mode = current.mode
					s.notify(events, EventPermissionsChanged)
					continue
				}

				if !current.modTime.Equal(state.modTime) || current.size != state.size || !state.exists {
					state = current
					dueAt = now.Add(opts.Debounce)
				}

				if dueAt.IsZero() || now.Before(dueAt) {
					continue
				}
				dueAt = time.Time{}

				next, err := s.snapshot()
				if err != nil {
					s.notify(events, fmt.Sprintf("%s:%v", EventReloadError, err))
					continue
				}
				for _, path := range changedPaths(snapshot, next) {
					s.notify(events, path)
				}
				snapshot = next
			}
		}
	}()

	return events
}

func (s *Store) stat() fileState {
	info, err := s.fs.Stat(s.path)
	if err != nil {
		return fileState{}
	}
	return fileState{modTime: info.ModTime(), size: info.Size(), mode: info.Mode(), exists: true}
}

// snapshot reads the file into "section.option" -> rendered value
func (s *Store) snapshot() (map[string]string, error) {
	data, err := s.read()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return nil, err
	}

	result := make(map[string]string)
	for section, options := range data {
		for option, raw := range options {
			value, keep := normalizeValue(raw)
			if !keep {
				continue
			}
			result[section+"."+option] = formatValue(value)
		}
	}
	return result, nil
}

// notify sends without blocking; a full subscriber loses the event
func (s *Store) notify(events chan<- string, event string) {
	select {
	case events <- event:
	default:
		s.logger.Debug("watch event dropped", zap.String("event", event))
	}
}

// changedPaths lists added, changed and removed paths in sorted order
func changedPaths(before, after map[string]string) []string {
	var changed []string
	for _, path := range sortedKeys(after) {
		if old, existed := before[path]; !existed || old != after[path] {
			changed = append(changed, path)
		}
	}
	for _, path := range sortedKeys(before) {
		if _, exists := after[path]; !exists {
			changed = append(changed, path)
		}
	}
	return changed
}

// WatchConfig watches the application's configuration file. See Store.Watch.
func (a *App) WatchConfig(ctx context.Context, opts WatchOptions) <-chan string {
	return a.store.Watch(ctx, opts)
}
