package timeline

import (
	"context"
	"fmt"

	"github.com/tracescope/tracescope/pkg/symtab"
	"github.com/tracescope/tracescope/pkg/tracefile"
)

// Options tune index construction. The zero value is not usable; start from
// DefaultOptions.
type Options struct {
	// BaseCoalesceNs is the feature-size threshold of mipmap level 1; every
	// further level doubles it.
	BaseCoalesceNs uint64
	// MaxLevels bounds the number of coalesced levels per lane, level 0
	// excluded.
	MaxLevels int
}

func DefaultOptions() Options {
	return Options{
		BaseCoalesceNs: 1024,
		MaxLevels:      24,
	}
}

// Snapshot is the frozen result of a build: the symbol table, the event
// arena, and both lane layouts (one lane per thread, and threads packed into
// minimal lanes) indexing into that arena. It is immutable and safe to share
// across goroutines without coordination.
type Snapshot struct {
	EventCount  int
	CommandLine string
	ProcessID   uint32
	MaxNs       uint64

	Symbols *symtab.Table
	Events  []Event

	// Lanes holds one single-thread lane per trace thread, ordered by
	// thread id.
	Lanes []*Lane
	// MergedLanes packs non-overlapping threads together.
	MergedLanes []*Lane
}

// MinNs is the snapshot's fixed baseline; all event times are already
// relative to the epoch.
func (s *Snapshot) MinNs() uint64 {
	return 0
}

// Build runs the whole ingestion/indexing pipeline over src and returns the
// frozen snapshot. It is a single-writer batch pass: stages run in order,
// the context is checked between them, and on cancellation or source failure
// no partial snapshot escapes.
func Build(ctx context.Context, src tracefile.Reader) (*Snapshot, error) {
	return BuildWithOptions(ctx, src, DefaultOptions())
}

func BuildWithOptions(ctx context.Context, src tracefile.Reader, opts Options) (*Snapshot, error) {
	if opts.BaseCoalesceNs == 0 {
		opts.BaseCoalesceNs = DefaultOptions().BaseCoalesceNs
	}
	if opts.MaxLevels <= 0 {
		opts.MaxLevels = DefaultOptions().MaxLevels
	}

	meta := src.Metadata()
	syms := symtab.NewTable()

	collected, err := collectEvents(src, syms)
	if err != nil {
		return nil, fmt.Errorf("timeline: reading trace: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	events := collected.events
	applyKindColors(events, buildKindColors(events, syms))

	index := buildThreadIndex(events)
	assignDepths(events, index)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Root synthesis appends to the arena; after this point the arena and
	// the interner are frozen.
	threads := buildThreads(&events, index, syms)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lanes := make([]*Lane, 0, len(threads))
	for _, t := range threads {
		lanes = append(lanes, buildLane(events, []*Thread{t}, false, &opts))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var merged []*Lane
	for _, group := range packLanes(events, threads) {
		showRoots := len(group) > 1
		merged = append(merged, buildLane(events, group, showRoots, &opts))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &Snapshot{
		EventCount:  collected.eventCount,
		CommandLine: meta.CommandLine,
		ProcessID:   meta.ProcessID,
		MaxNs:       collected.maxNs,
		Symbols:     syms,
		Events:      events,
		Lanes:       lanes,
		MergedLanes: merged,
	}, nil
}
