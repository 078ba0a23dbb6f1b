// Package lifecycle tracks process-wide serving state shared by main and the
// health endpoint.
package lifecycle

import (
	"sync/atomic"
	"time"
)

var (
	shuttingDown atomic.Bool
	startedAt    atomic.Int64
)

func init() {
	MarkStarted(time.Now())
}

// MarkStarted records when the server began accepting requests.
func MarkStarted(t time.Time) {
	startedAt.Store(t.UnixNano())
}

// Uptime reports how long ago MarkStarted was called, truncated to seconds.
func Uptime(now time.Time) time.Duration {
	d := now.Sub(time.Unix(0, startedAt.Load()))
	if d < 0 {
		return 0
	}
	return d.Truncate(time.Second)
}

// SetShuttingDown flips the drain flag. main sets it on SIGTERM/SIGINT and
// /health answers 503 while it is true.
func SetShuttingDown(v bool) {
	shuttingDown.Store(v)
}

func IsShuttingDown() bool {
	return shuttingDown.Load()
}
