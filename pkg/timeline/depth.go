package timeline

import "sort"

// buildThreadIndex groups arena event ids by thread, in ingestion order.
func buildThreadIndex(events []Event) map[uint32][]EventID {
	threads := make(map[uint32][]EventID)
	for i := range events {
		tid := events[i].ThreadID
		threads[tid] = append(threads[tid], EventID(i))
	}
	return threads
}

// assignDepths reconstructs call-stack nesting per thread. Each thread's
// events are sorted by start time (stable, so equal starts keep their
// ingestion order; the tie order carries no semantic meaning) and walked with
// a stack of open end times: entries whose end is at or before the current
// start have closed, and the remaining stack size is the event's depth.
//
// Partially overlapping intervals are not proper nestings but still get a
// depth from whatever remains open. That approximation is intentional and
// relied on downstream; do not replace it with exact overlap detection.
func assignDepths(events []Event, threads map[uint32][]EventID) {
	for _, ids := range threads {
		sort.SliceStable(ids, func(i, j int) bool {
			return events[ids[i]].StartNs < events[ids[j]].StartNs
		})

		var stack []uint64
		for _, id := range ids {
			e := &events[id]
			for len(stack) > 0 && stack[len(stack)-1] <= e.StartNs {
				stack = stack[:len(stack)-1]
			}
			e.Depth = uint32(len(stack))
			stack = append(stack, e.EndNs())
		}
	}
}
