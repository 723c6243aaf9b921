// Package timeline builds an immutable, multi-resolution index over the
// interval events of a profiled process and answers viewport range queries
// against it.
//
// Construction is a one-shot batch pass: raw records are normalized into
// events held in a shared append-only arena, colors and nesting depths are
// resolved, threads are packed into display lanes, and each lane gets a set
// of level-of-detail indices. Everything other than the arena references
// events by integer id. Once Build returns, the snapshot is frozen and safe
// for any number of concurrent readers.
package timeline

import (
	"image/color"

	"github.com/tracescope/tracescope/pkg/symtab"
)

// EventID indexes into a Snapshot's event arena.
type EventID uint32

// Event is one interval occurrence on a thread. Times are nanoseconds
// relative to the trace epoch. Events are immutable once the build pass has
// resolved depth and color.
type Event struct {
	Label      symtab.Symbol
	Kind       symtab.Symbol
	Extra      []symtab.Symbol
	Payload    *uint64
	ThreadID   uint32
	StartNs    uint64
	DurationNs uint64
	Depth      uint32
	Color      color.RGBA
	ThreadRoot bool
}

// EndNs returns the exclusive end of the event's half-open interval.
func (e *Event) EndNs() uint64 {
	return satAdd(e.StartNs, e.DurationNs)
}

// DisplayDepth returns the row the event occupies when rendered. When a lane
// shows per-thread root bands, regular events shift down one row so the
// synthetic roots can sit at depth 0.
func DisplayDepth(showThreadRoots bool, e *Event) uint32 {
	if showThreadRoots && !e.ThreadRoot {
		return e.Depth + 1
	}
	return e.Depth
}

func satSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

func satAdd(a, b uint64) uint64 {
	if c := a + b; c >= a {
		return c
	}
	return ^uint64(0)
}
