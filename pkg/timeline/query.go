package timeline

import "sort"

// ViewportRange maps scroll/zoom state to the visible time window
// [nsMin, nsMax). offsetNs is the horizontal scroll in nanoseconds relative
// to minNs, viewportWidth is in pixels and zoom in pixels per nanosecond.
func ViewportRange(offsetNs, viewportWidth, zoom float64, minNs uint64) (nsMin, nsMax uint64) {
	if zoom < 1e-9 {
		zoom = 1e-9
	}
	// The raw offset participates in the right edge, so a viewport scrolled
	// left of the timeline only shows the part that actually overlaps it.
	// Both edges clamp at the baseline independently.
	right := offsetNs + viewportWidth/zoom
	if right < 0 {
		right = 0
	}
	if offsetNs < 0 {
		offsetNs = 0
	}
	nsMin = uint64(offsetNs) + minNs
	nsMax = uint64(right) + minNs
	return nsMin, nsMax
}

// Iterator is a lazy, restartable cursor over the spans of one level that
// overlap a query window, in ascending start order. It is cheap to create
// and owns no resources.
type Iterator struct {
	level     *Level
	nsMin     uint64
	nsMax     uint64
	limit     int
	pos       int
	skipRoots bool
}

// Query returns an iterator over the level's spans overlapping [nsMin, nsMax)
// in the half-open sense: start < nsMax && end > nsMin. Empty levels and
// empty or inverted windows yield an empty iterator, never an error.
func (l *Level) Query(nsMin, nsMax uint64) *Iterator {
	it := &Iterator{level: l, nsMin: nsMin, nsMax: nsMax}
	if nsMax <= nsMin {
		// Empty or inverted window, e.g. a zero-width viewport.
		return it
	}

	// First index (in start order) whose span starts at or after nsMax
	// bounds the candidates; if no span ends after nsMin the window is
	// empty and we can skip the scan entirely.
	it.limit = sort.Search(len(l.byStart), func(i int) bool {
		return l.Spans[l.byStart[i]].StartNs >= nsMax
	})
	firstEnding := sort.Search(len(l.byEnd), func(i int) bool {
		return l.Spans[l.byEnd[i]].EndNs() > nsMin
	})
	if firstEnding == len(l.byEnd) {
		it.limit = 0
	}
	return it
}

// Next yields the next overlapping span, or false when the sequence is done.
func (it *Iterator) Next() (*Span, bool) {
	for it.pos < it.limit {
		s := &it.level.Spans[it.level.byStart[it.pos]]
		it.pos++
		if s.EndNs() <= it.nsMin {
			continue
		}
		if it.skipRoots && s.Root {
			continue
		}
		return s, true
	}
	return nil, false
}

// Reset rewinds the iterator to the start of the sequence.
func (it *Iterator) Reset() {
	it.pos = 0
}

// Collect drains the iterator into a slice. Mostly useful in tests and for
// small windows.
func (it *Iterator) Collect() []*Span {
	var res []*Span
	for {
		s, ok := it.Next()
		if !ok {
			return res
		}
		res = append(res, s)
	}
}

// Query answers a viewport query against the lane, picking the coarsest
// level that is safe at the given zoom. For a collapsed lane the synthetic
// thread roots are excluded from the per-event results; the presentation
// layer flattens the remaining events into the lane's single row.
func (l *Lane) Query(nsMin, nsMax uint64, zoom float64) *Iterator {
	level := l.LevelFor(zoom)
	if level == nil {
		return &Iterator{}
	}
	it := level.Query(nsMin, nsMax)
	if l.Collapsed {
		it.skipRoots = true
	}
	return it
}
