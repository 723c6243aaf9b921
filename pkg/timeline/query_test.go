package timeline_test

import (
	"fmt"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tracescope/tracescope/pkg/timeline"
	"github.com/tracescope/tracescope/pkg/tracefile"
)

func randomSnapshot(t *testing.T, seed int64, events int) *timeline.Snapshot {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	records := make([]tracefile.Record, 0, events)
	for i := 0; i < events; i++ {
		tid := uint32(1 + rng.Intn(4))
		start := uint64(rng.Intn(1_000_000))
		width := uint64(rng.Intn(10_000) + 1)
		records = append(records, record(tid, fmt.Sprintf("e%d", i), fmt.Sprintf("k%d", rng.Intn(3)), start, start+width))
	}
	return build(t, 0, records...)
}

func bruteForce(level *timeline.Level, nsMin, nsMax uint64) []*timeline.Span {
	var res []*timeline.Span
	for i := range level.Spans {
		s := &level.Spans[i]
		if s.StartNs < nsMax && s.EndNs() > nsMin {
			res = append(res, s)
		}
	}
	sort.SliceStable(res, func(i, j int) bool { return res[i].StartNs < res[j].StartNs })
	return res
}

func TestRangeQueryMatchesBruteForce(t *testing.T) {
	snap := randomSnapshot(t, 3, 500)
	rng := rand.New(rand.NewSource(4))

	for _, lane := range snap.MergedLanes {
		for _, level := range lane.Levels {
			for trial := 0; trial < 50; trial++ {
				a := uint64(rng.Intn(1_100_000))
				b := a + 1 + uint64(rng.Intn(200_000))

				got := level.Query(a, b).Collect()
				want := bruteForce(level, a, b)
				require.Equal(t, len(want), len(got), "window [%d, %d)", a, b)
				for i := range want {
					require.Equal(t, want[i], got[i])
				}

				// Results arrive in ascending start order.
				for i := 1; i < len(got); i++ {
					require.LessOrEqual(t, got[i-1].StartNs, got[i].StartNs)
				}
			}
		}
	}
}

func TestRangeQueryBoundaryExclusivity(t *testing.T) {
	snap := build(t, 0,
		record(1, "a", "k", 100, 200),
	)
	level := snap.Lanes[0].Levels[0]

	// Half-open on both sides: start_ns < ns_max && end_ns > ns_min.
	require.Empty(t, level.Query(0, 100).Collect())
	require.Empty(t, level.Query(200, 300).Collect())
	require.Len(t, level.Query(0, 101).Collect(), 1)
	require.Len(t, level.Query(199, 300).Collect(), 1)
	require.Len(t, level.Query(150, 151).Collect(), 1)
}

func TestRangeQueryDegenerateWindows(t *testing.T) {
	snap := randomSnapshot(t, 5, 50)
	level := snap.MergedLanes[0].Levels[0]

	// Zero-width window.
	require.Empty(t, level.Query(1000, 1000).Collect())
	// Inverted window.
	require.Empty(t, level.Query(2000, 1000).Collect())

	// Empty lane: a trace with one empty-extent thread only.
	empty := build(t, 0)
	require.Empty(t, empty.Lanes)
}

func TestIteratorRestart(t *testing.T) {
	snap := randomSnapshot(t, 9, 200)
	level := snap.MergedLanes[0].Levels[0]

	it := level.Query(0, 2_000_000)
	first := it.Collect()
	require.NotEmpty(t, first)

	it.Reset()
	second := it.Collect()
	require.Equal(t, first, second)
}

func TestViewportRange(t *testing.T) {
	for _, test := range []struct {
		offset, width, zoom float64
		minNs               uint64
		nsMin, nsMax        uint64
	}{
		{offset: 0, width: 1000, zoom: 1, minNs: 0, nsMin: 0, nsMax: 1000},
		{offset: 500, width: 1000, zoom: 0.5, minNs: 0, nsMin: 500, nsMax: 2500},
		{offset: 100, width: 200, zoom: 2, minNs: 50, nsMin: 150, nsMax: 250},
		// Zero-width viewport.
		{offset: 100, width: 0, zoom: 1, minNs: 0, nsMin: 100, nsMax: 100},
		// A viewport scrolled left of the timeline keeps only the
		// overlapping part: the raw offset still bounds the right edge.
		{offset: -50, width: 100, zoom: 1, minNs: 0, nsMin: 0, nsMax: 50},
		// Scrolled entirely off the left edge: empty window.
		{offset: -200, width: 100, zoom: 1, minNs: 0, nsMin: 0, nsMax: 0},
		// Degenerate zoom must not divide by zero.
		{offset: 0, width: 100, zoom: 0, minNs: 0, nsMin: 0, nsMax: 100_000_000_000},
	} {
		nsMin, nsMax := timeline.ViewportRange(test.offset, test.width, test.zoom, test.minNs)
		require.Equal(t, test.nsMin, nsMin)
		require.Equal(t, test.nsMax, nsMax)
	}
}

func TestCollapsedLaneQuery(t *testing.T) {
	snap := build(t, 0,
		record(1, "outer", "k", 0, 100),
		record(1, "inner", "k", 10, 90),
		record(2, "other", "k", 200, 300),
	)
	require.Len(t, snap.MergedLanes, 1)

	// The multi-thread lane includes synthetic roots when expanded.
	expanded := snap.MergedLanes[0].Query(0, 1000, 1.0).Collect()
	roots := 0
	for _, s := range expanded {
		if s.Root {
			roots++
		}
	}
	require.Equal(t, 2, roots)

	// Collapsing is UI state; apply it on a copy, never on the snapshot.
	lane := *snap.MergedLanes[0]
	lane.Collapsed = true

	spans := lane.Query(0, 1000, 1.0).Collect()
	require.Len(t, spans, len(expanded)-roots)
	for _, s := range spans {
		require.False(t, s.Root)
	}
}
