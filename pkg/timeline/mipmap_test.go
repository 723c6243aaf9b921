package timeline_test

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracescope/tracescope/pkg/timeline"
	"github.com/tracescope/tracescope/pkg/tracefile"
)

// spanEventIDs flattens a level's underlying arena ids, sorted.
func spanEventIDs(level *timeline.Level) []timeline.EventID {
	var ids []timeline.EventID
	for i := range level.Spans {
		ids = append(ids, level.Spans[i].Events...)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func tinyEventTrace(t *testing.T, n int) *timeline.Snapshot {
	t.Helper()
	// n sub-threshold events of the same kind, back to back on one thread.
	records := make([]tracefile.Record, 0, n)
	for i := 0; i < n; i++ {
		start := uint64(i) * 20
		records = append(records, record(1, fmt.Sprintf("e%d", i), "k", start, start+10))
	}
	return build(t, 0, records...)
}

func TestLevelZeroIsLossless(t *testing.T) {
	snap := tinyEventTrace(t, 100)

	require.Len(t, snap.Lanes, 1)
	lane := snap.Lanes[0]
	require.NotEmpty(t, lane.Levels)

	level0 := lane.Levels[0]
	require.Equal(t, uint64(0), level0.CoalesceNs)
	require.Len(t, level0.Spans, 100)
	for i := range level0.Spans {
		require.Len(t, level0.Spans[i].Events, 1)
	}
}

func TestLevelsNeverDropOrDuplicateEvents(t *testing.T) {
	snap := tinyEventTrace(t, 200)
	lane := snap.Lanes[0]
	require.Greater(t, len(lane.Levels), 1)

	want := spanEventIDs(lane.Levels[0])
	for i, level := range lane.Levels[1:] {
		require.Equal(t, want, spanEventIDs(level), "level %d", i+1)
	}
}

func TestCoalescingMergesSubPixelRuns(t *testing.T) {
	snap := tinyEventTrace(t, 200)
	lane := snap.Lanes[0]
	require.Greater(t, len(lane.Levels), 1)

	level1 := lane.Levels[1]
	require.Less(t, len(level1.Spans), len(lane.Levels[0].Spans))

	// Coalesced spans cover the union of their members and never extend
	// beyond ingested time.
	for i := range level1.Spans {
		s := &level1.Spans[i]
		require.NotEmpty(t, s.Events)
		minStart, maxEnd := ^uint64(0), uint64(0)
		for _, id := range s.Events {
			e := &snap.Events[id]
			if e.StartNs < minStart {
				minStart = e.StartNs
			}
			if e.EndNs() > maxEnd {
				maxEnd = e.EndNs()
			}
		}
		require.Equal(t, minStart, s.StartNs)
		require.Equal(t, maxEnd, s.EndNs())
	}
}

func TestCoalescingRespectsDepthAndColor(t *testing.T) {
	// Alternating kinds give alternating colors, so no two neighbors can
	// merge even though all are sub-threshold.
	var records []tracefile.Record
	for i := 0; i < 64; i++ {
		kind := "a"
		if i%2 == 1 {
			kind = "b"
		}
		start := uint64(i) * 20
		records = append(records, record(1, fmt.Sprintf("e%d", i), kind, start, start+10))
	}
	snap := build(t, 0, records...)

	lane := snap.Lanes[0]
	require.Len(t, lane.Levels, 1, "nothing is mergeable, so no coarser level should survive")
}

func TestLevelForSelection(t *testing.T) {
	snap := tinyEventTrace(t, 300)
	lane := snap.Lanes[0]
	require.Greater(t, len(lane.Levels), 1)

	// At one pixel per nanosecond every feature is visible: level 0.
	require.Same(t, lane.Levels[0], lane.LevelFor(1.0))

	// Fully zoomed out, the coarsest level applies.
	coarsest := lane.Levels[len(lane.Levels)-1]
	require.Same(t, coarsest, lane.LevelFor(1e-12))
	require.Same(t, coarsest, lane.LevelFor(0))

	// In between, the chosen level's threshold must fit in one pixel.
	for _, zoom := range []float64{1e-2, 1e-3, 1e-4, 1e-6} {
		level := lane.LevelFor(zoom)
		require.LessOrEqual(t, float64(level.CoalesceNs), 1.0/zoom)
	}
}
