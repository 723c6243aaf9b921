package timeline

import (
	"fmt"
	"sort"

	"github.com/tracescope/tracescope/pkg/symtab"
)

// Thread owns the ordered event ids of one trace thread plus an optional
// synthetic root event spanning the thread's active extent.
type Thread struct {
	ID     uint32
	Events []EventID
	Root   *EventID
}

// extent returns [min start, max end) across the thread's events, or [0, 0)
// for a thread without events.
func (t *Thread) extent(events []Event) (startNs, endNs uint64) {
	startNs = ^uint64(0)
	for _, id := range t.Events {
		e := &events[id]
		if e.StartNs < startNs {
			startNs = e.StartNs
		}
		if end := e.EndNs(); end > endNs {
			endNs = end
		}
	}
	if startNs == ^uint64(0) {
		startNs = 0
	}
	return startNs, endNs
}

// buildThreads turns the per-thread event index into Thread values sorted by
// thread id, synthesizing a root event for every thread that has at least one
// event. Roots are appended to the shared arena; nothing is copied.
func buildThreads(events *[]Event, index map[uint32][]EventID, syms *symtab.Table) []*Thread {
	threads := make([]*Thread, 0, len(index))
	for tid, ids := range index {
		t := &Thread{ID: tid, Events: ids}
		t.Root = synthesizeThreadRoot(events, t, syms)
		threads = append(threads, t)
	}

	sort.Slice(threads, func(i, j int) bool {
		return threads[i].ID < threads[j].ID
	})
	return threads
}

// synthesizeThreadRoot appends a depth-0 "Thread {id}" event covering the
// thread's extent. A thread with no events gets no root.
func synthesizeThreadRoot(events *[]Event, t *Thread, syms *symtab.Table) *EventID {
	if len(t.Events) == 0 {
		return nil
	}
	startNs, endNs := t.extent(*events)

	id := EventID(len(*events))
	*events = append(*events, Event{
		Label:      syms.Intern(fmt.Sprintf("Thread %d", t.ID)),
		Kind:       syms.Intern("Thread"),
		ThreadID:   t.ID,
		StartNs:    startNs,
		DurationNs: satSub(endNs, startNs),
		Color:      threadRootColor,
		ThreadRoot: true,
	})
	return &id
}
