// FILE: lixenwraith/cli/timing.go
package cli

import "time"

// Config file watching intervals
const (
	MinPollInterval     = 100 * time.Millisecond // Hard floor for file stat polling
	DefaultDebounce     = 500 * time.Millisecond // File change coalescence period
	DefaultPollInterval = time.Second            // Standard file monitoring frequency
)

// watchBufferSize bounds undelivered events per subscriber; further events are dropped
const watchBufferSize = 10
