package timeline

import (
	"image/color"
	"sort"
)

// Span is one draw/query unit of a level. At level 0 every span represents
// exactly one arena event; at coarser levels a span may cover a coalesced run
// of events, whose ids it keeps so no event is ever dropped or duplicated by
// a level.
type Span struct {
	StartNs    uint64
	DurationNs uint64
	Depth      uint32
	ThreadID   uint32
	Color      color.RGBA
	Root       bool
	Events     []EventID
}

// EndNs returns the exclusive end of the span.
func (s *Span) EndNs() uint64 {
	return satAdd(s.StartNs, s.DurationNs)
}

// Level is one resolution of a lane's event set. Level 0 is the authoritative
// one-to-one image of the lane's events; each coarser level merges runs of
// spans that would be individually invisible below CoalesceNs per pixel.
//
// Every level carries two index permutations over its own spans, sorted by
// start and by end time, so range queries are two binary searches away.
type Level struct {
	// CoalesceNs is the feature-size threshold this level was built for:
	// spans narrower than this, separated by gaps narrower than this, were
	// merged. Zero for level 0.
	CoalesceNs uint64
	Spans      []Span

	byStart []int32
	byEnd   []int32
}

// The concrete coalescing rule: walking a level's spans in start order, a
// span joins the current run when it has the same depth and color, its own
// width is under the threshold, and the gap to the run's end is under the
// threshold. Each level doubles the threshold of the previous one, starting
// at Options.BaseCoalesceNs. Building stops when a level stops shrinking its
// predecessor by at least 1/8, or at Options.MaxLevels.

func buildLevels(events []Event, ids []EventID, showThreadRoots bool, opts *Options) []*Level {
	level0 := make([]Span, 0, len(ids))
	for _, id := range ids {
		e := &events[id]
		level0 = append(level0, Span{
			StartNs:    e.StartNs,
			DurationNs: e.DurationNs,
			Depth:      DisplayDepth(showThreadRoots, e),
			ThreadID:   e.ThreadID,
			Color:      e.Color,
			Root:       e.ThreadRoot,
			Events:     []EventID{id},
		})
	}

	levels := []*Level{newLevel(0, level0)}
	for i := 1; i <= opts.MaxLevels; i++ {
		prev := levels[len(levels)-1]
		if len(prev.Spans) <= 1 {
			break
		}
		threshold := opts.BaseCoalesceNs << (i - 1)
		coalesced := coalesceSpans(prev.Spans, threshold)
		if len(coalesced) > len(prev.Spans)-len(prev.Spans)/8 {
			break
		}
		levels = append(levels, newLevel(threshold, coalesced))
	}
	return levels
}

func coalesceSpans(spans []Span, thresholdNs uint64) []Span {
	res := make([]Span, 0, len(spans))
	for i := range spans {
		s := &spans[i]
		if len(res) > 0 {
			last := &res[len(res)-1]
			mergeable := last.Depth == s.Depth &&
				last.Color == s.Color &&
				last.Root == s.Root &&
				s.DurationNs < thresholdNs &&
				satSub(s.StartNs, last.EndNs()) < thresholdNs
			if mergeable {
				if end := s.EndNs(); end > last.EndNs() {
					last.DurationNs = satSub(end, last.StartNs)
				}
				last.Events = append(last.Events, s.Events...)
				continue
			}
		}
		cp := *s
		cp.Events = append([]EventID(nil), s.Events...)
		res = append(res, cp)
	}
	return res
}

func newLevel(coalesceNs uint64, spans []Span) *Level {
	l := &Level{CoalesceNs: coalesceNs, Spans: spans}

	l.byStart = make([]int32, len(spans))
	for i := range l.byStart {
		l.byStart[i] = int32(i)
	}
	sort.Slice(l.byStart, func(i, j int) bool {
		a, b := &spans[l.byStart[i]], &spans[l.byStart[j]]
		if a.StartNs != b.StartNs {
			return a.StartNs < b.StartNs
		}
		if a.ThreadID != b.ThreadID {
			return a.ThreadID < b.ThreadID
		}
		return a.Depth < b.Depth
	})

	l.byEnd = make([]int32, len(spans))
	for i := range l.byEnd {
		l.byEnd[i] = int32(i)
	}
	sort.Slice(l.byEnd, func(i, j int) bool {
		a, b := &spans[l.byEnd[i]], &spans[l.byEnd[j]]
		if a.EndNs() != b.EndNs() {
			return a.EndNs() < b.EndNs()
		}
		if a.StartNs != b.StartNs {
			return a.StartNs < b.StartNs
		}
		return a.ThreadID < b.ThreadID
	})

	return l
}

// LevelFor picks the coarsest level safe for the given zoom (pixels per
// nanosecond): the one whose coalescing threshold still fits inside a single
// pixel, so nothing it merged away would have been individually visible.
// Queries that need per-event fidelity (selection, hover hit-testing) should
// use Levels[0] directly regardless of zoom.
func (l *Lane) LevelFor(zoom float64) *Level {
	if len(l.Levels) == 0 {
		return nil
	}
	if zoom <= 0 {
		return l.Levels[len(l.Levels)-1]
	}
	nsPerPixel := 1.0 / zoom

	res := l.Levels[0]
	for _, level := range l.Levels[1:] {
		if float64(level.CoalesceNs) > nsPerPixel {
			break
		}
		res = level
	}
	return res
}
