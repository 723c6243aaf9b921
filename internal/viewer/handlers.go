package viewer

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/tracescope/tracescope/pkg/timeline"
)

type traceInfoResponse struct {
	EventCount  int      `json:"event_count"`
	CommandLine string   `json:"cmd"`
	ProcessID   uint32   `json:"pid"`
	MaxNs       uint64   `json:"max_ns"`
	Threads     int      `json:"threads"`
	Lanes       int      `json:"lanes"`
	MergedLanes int      `json:"merged_lanes"`
	Symbols     int      `json:"symbols"`
	Duration    string   `json:"duration"`
	ThreadIDs   []uint32 `json:"thread_ids"`
}

type levelResponse struct {
	CoalesceNs uint64 `json:"coalesce_ns"`
	Spans      int    `json:"spans"`
}

type laneResponse struct {
	Threads         []uint32        `json:"threads"`
	MaxDepth        uint32          `json:"max_depth"`
	ShowThreadRoots bool            `json:"show_thread_roots"`
	Levels          []levelResponse `json:"levels"`
}

type spanResponse struct {
	StartNs    uint64 `json:"start_ns"`
	DurationNs uint64 `json:"duration_ns"`
	Depth      uint32 `json:"depth"`
	ThreadID   uint32 `json:"tid"`
	Color      string `json:"color"`
	Root       bool   `json:"root,omitempty"`
	EventCount int    `json:"event_count"`
	// Label and Kind are resolved only for single-event spans; a coalesced
	// span has no single identity.
	Label string `json:"label,omitempty"`
	Kind  string `json:"kind,omitempty"`
}

func (v *Viewer) handleOpen(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return
	}

	snap, err := v.Load(r.Context(), path)
	if err != nil {
		v.l.Error(r.Context(), "Trace build failed", zap.String("path", path), zap.Error(err))
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, traceInfo(snap))
}

func (v *Viewer) handleTraceInfo(w http.ResponseWriter, r *http.Request) {
	snap, ok := v.requireSnapshot(w, r)
	if !ok {
		return
	}
	writeJSON(w, traceInfo(snap))
}

func (v *Viewer) handleLanes(w http.ResponseWriter, r *http.Request) {
	snap, ok := v.requireSnapshot(w, r)
	if !ok {
		return
	}

	lanes := snap.Lanes
	if r.URL.Query().Get("merged") == "1" {
		lanes = snap.MergedLanes
	}

	res := make([]laneResponse, 0, len(lanes))
	for _, lane := range lanes {
		levels := make([]levelResponse, 0, len(lane.Levels))
		for _, level := range lane.Levels {
			levels = append(levels, levelResponse{
				CoalesceNs: level.CoalesceNs,
				Spans:      len(level.Spans),
			})
		}
		res = append(res, laneResponse{
			Threads:         lane.ThreadIDs(),
			MaxDepth:        lane.MaxDepth,
			ShowThreadRoots: lane.ShowThreadRoots,
			Levels:          levels,
		})
	}
	writeJSON(w, res)
}

func (v *Viewer) handleQuery(w http.ResponseWriter, r *http.Request) {
	snap, ok := v.requireSnapshot(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	lanes := snap.Lanes
	if q.Get("merged") == "1" {
		lanes = snap.MergedLanes
	}

	laneIdx, err := strconv.Atoi(q.Get("lane"))
	if err != nil || laneIdx < 0 || laneIdx >= len(lanes) {
		http.Error(w, "bad lane index", http.StatusBadRequest)
		return
	}
	offset := parseFloat(q.Get("offset"), 0)
	zoom := parseFloat(q.Get("zoom"), 1)
	width := parseFloat(q.Get("width"), 0)

	lane := lanes[laneIdx]
	if q.Get("collapsed") == "1" {
		// Collapsed state is UI-owned; apply it to a shallow copy so the
		// snapshot stays untouched.
		cp := *lane
		cp.Collapsed = true
		lane = &cp
	}

	nsMin, nsMax := timeline.ViewportRange(offset, width, zoom, snap.MinNs())
	it := lane.Query(nsMin, nsMax, zoom)

	res := make([]spanResponse, 0, 128)
	for {
		s, more := it.Next()
		if !more {
			break
		}
		out := spanResponse{
			StartNs:    s.StartNs,
			DurationNs: s.DurationNs,
			Depth:      s.Depth,
			ThreadID:   s.ThreadID,
			Color:      fmt.Sprintf("#%02x%02x%02x", s.Color.R, s.Color.G, s.Color.B),
			Root:       s.Root,
			EventCount: len(s.Events),
		}
		if len(s.Events) == 1 {
			e := &snap.Events[s.Events[0]]
			out.Label = snap.Symbols.Resolve(e.Label)
			out.Kind = snap.Symbols.Resolve(e.Kind)
		}
		res = append(res, out)
	}
	writeJSON(w, res)
}

func (v *Viewer) requireSnapshot(w http.ResponseWriter, r *http.Request) (*timeline.Snapshot, bool) {
	path := r.URL.Query().Get("path")
	if path == "" {
		http.Error(w, "missing path parameter", http.StatusBadRequest)
		return nil, false
	}
	snap, ok := v.snapshot(path)
	if !ok {
		http.Error(w, "trace not loaded", http.StatusNotFound)
		return nil, false
	}
	return snap, true
}

func traceInfo(snap *timeline.Snapshot) traceInfoResponse {
	threadIDs := make([]uint32, 0, len(snap.Lanes))
	for _, lane := range snap.Lanes {
		threadIDs = append(threadIDs, lane.ThreadIDs()...)
	}
	return traceInfoResponse{
		EventCount:  snap.EventCount,
		CommandLine: snap.CommandLine,
		ProcessID:   snap.ProcessID,
		MaxNs:       snap.MaxNs,
		Threads:     len(snap.Lanes),
		Lanes:       len(snap.Lanes),
		MergedLanes: len(snap.MergedLanes),
		Symbols:     snap.Symbols.Len(),
		Duration:    timeline.FormatDuration(timeline.TotalNs(snap.MinNs(), snap.MaxNs)),
		ThreadIDs:   threadIDs,
	}
}

func parseFloat(s string, def float64) float64 {
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return v
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
