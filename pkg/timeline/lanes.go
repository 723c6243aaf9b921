package timeline

import "sort"

// Lane is a display row group: one or more threads whose active extents do
// not overlap, rendered together. Collapsed and ShowThreadRoots are UI-facing
// flags; the build sets ShowThreadRoots for multi-thread lanes and never
// touches either flag afterwards.
type Lane struct {
	Threads         []*Thread
	MaxDepth        uint32
	Levels          []*Level
	Collapsed       bool
	ShowThreadRoots bool
}

// ThreadIDs returns the lane's member thread ids in display order.
func (l *Lane) ThreadIDs() []uint32 {
	ids := make([]uint32, len(l.Threads))
	for i, t := range l.Threads {
		ids[i] = t.ID
	}
	return ids
}

// packLanes groups threads into the fewest lanes a greedy first-fit pass
// finds. Threads are ordered by extent length then extent start (tight
// threads first, deterministically) and placed into the first lane whose
// running extent they do not overlap; lanes are then reordered by the
// smallest original thread index they contain so the display order stays
// close to ingestion order. This is an interval-coloring heuristic; exact
// lane-count minimality is not a goal.
func packLanes(events []Event, threads []*Thread) [][]*Thread {
	if len(threads) == 0 {
		return nil
	}

	intervals := make([]threadInterval, len(threads))
	for i, t := range threads {
		start, end := t.extent(events)
		intervals[i] = threadInterval{index: i, startNs: start, endNs: end, thread: t}
	}

	sort.SliceStable(intervals, func(i, j int) bool {
		a, b := intervals[i], intervals[j]
		alen, blen := satSub(a.endNs, a.startNs), satSub(b.endNs, b.startNs)
		if alen != blen {
			return alen < blen
		}
		return a.startNs < b.startNs
	})

	var lanes []*laneState
	for _, iv := range intervals {
		placed := false
		for _, lane := range lanes {
			overlaps := iv.startNs < lane.endNs && iv.endNs > lane.startNs
			if overlaps {
				continue
			}
			if iv.startNs < lane.startNs {
				lane.startNs = iv.startNs
			}
			if iv.endNs > lane.endNs {
				lane.endNs = iv.endNs
			}
			lane.members = append(lane.members, iv)
			placed = true
			break
		}
		if !placed {
			lanes = append(lanes, &laneState{
				members: []threadInterval{iv},
				startNs: iv.startNs,
				endNs:   iv.endNs,
			})
		}
	}

	sort.SliceStable(lanes, func(i, j int) bool {
		return minMemberIndex(lanes[i].members) < minMemberIndex(lanes[j].members)
	})

	groups := make([][]*Thread, 0, len(lanes))
	for _, lane := range lanes {
		sort.Slice(lane.members, func(i, j int) bool {
			return lane.members[i].index < lane.members[j].index
		})
		group := make([]*Thread, len(lane.members))
		for i, m := range lane.members {
			group[i] = m.thread
		}
		groups = append(groups, group)
	}
	return groups
}

type threadInterval struct {
	index   int
	startNs uint64
	endNs   uint64
	thread  *Thread
}

type laneState struct {
	members []threadInterval
	startNs uint64
	endNs   uint64
}

func minMemberIndex(members []threadInterval) int {
	min := int(^uint(0) >> 1)
	for _, m := range members {
		if m.index < min {
			min = m.index
		}
	}
	return min
}

// buildLane assembles a lane's ordered event set and its level-of-detail
// indices for the given thread group.
func buildLane(events []Event, group []*Thread, showThreadRoots bool, opts *Options) *Lane {
	var ids []EventID
	for _, t := range group {
		if showThreadRoots && t.Root != nil {
			ids = append(ids, *t.Root)
		}
		ids = append(ids, t.Events...)
	}

	sort.SliceStable(ids, func(i, j int) bool {
		a, b := &events[ids[i]], &events[ids[j]]
		if a.StartNs != b.StartNs {
			return a.StartNs < b.StartNs
		}
		if a.ThreadID != b.ThreadID {
			return a.ThreadID < b.ThreadID
		}
		return DisplayDepth(showThreadRoots, a) < DisplayDepth(showThreadRoots, b)
	})

	var maxDepth uint32
	for _, id := range ids {
		if d := DisplayDepth(showThreadRoots, &events[id]); d > maxDepth {
			maxDepth = d
		}
	}

	return &Lane{
		Threads:         group,
		MaxDepth:        maxDepth,
		Levels:          buildLevels(events, ids, showThreadRoots, opts),
		ShowThreadRoots: showThreadRoots,
	}
}
