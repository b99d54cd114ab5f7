package arcade

import (
	"fmt"
	"os"
	"time"
)

// globalDebug gates every diagnostic the package writes. arcade runs a single
// frame loop, so one process-wide flag is enough.
var globalDebug bool

// SetDebug enables or disables debug diagnostics. When enabled, applied stack
// transitions, atlas misses, shared timeline churn and per-frame timings are
// printed to stderr.
func SetDebug(enabled bool) {
	globalDebug = enabled
}

// Debug reports whether debug diagnostics are enabled.
func Debug() bool { return globalDebug }

func debugf(format string, args ...any) {
	if !globalDebug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[arcade] "+format+"\n", args...)
}

// frameStats holds per-frame phase timings. Only populated in debug mode.
type frameStats struct {
	eventTime  time.Duration
	updateTime time.Duration
	drawTime   time.Duration
	events     int
	depth      int
}

func (s frameStats) log() {
	if !globalDebug {
		return
	}
	total := s.eventTime + s.updateTime + s.drawTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[arcade] events: %v (%d) | update: %v | draw: %v | total: %v | depth: %d\n",
		s.eventTime, s.events, s.updateTime, s.drawTime, total, s.depth)
}

// debugMaxStackDepth is the depth past which a push is reported; stacks that
// deep usually mean a state pushes itself every frame.
const debugMaxStackDepth = 16

func debugCheckStackDepth(depth int) {
	if globalDebug && depth > debugMaxStackDepth {
		_, _ = fmt.Fprintf(os.Stderr, "[arcade] warning: state stack depth %d exceeds %d\n",
			depth, debugMaxStackDepth)
	}
}
