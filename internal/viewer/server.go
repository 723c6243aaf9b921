// Package viewer serves built trace snapshots over a read-only HTTP API.
// It is a consumer of the timeline core: snapshots are immutable, UI state
// (collapsed lanes, scroll, zoom) arrives as query parameters and is never
// written back into core structures.
package viewer

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/tracescope/tracescope/pkg/timeline"
	"github.com/tracescope/tracescope/pkg/tracefile"
	"github.com/tracescope/tracescope/pkg/xlog"
)

type Viewer struct {
	l   xlog.Logger
	cfg *Config

	mu        sync.RWMutex
	snapshots map[string]*timeline.Snapshot

	// flight deduplicates concurrent builds of the same file: only one
	// build per logical trace is ever in flight, later callers share its
	// result.
	flight singleflight.Group
}

func NewViewer(cfg *Config, l xlog.Logger) *Viewer {
	cfg.fillDefault()
	return &Viewer{
		l:         l.WithName("viewer"),
		cfg:       cfg,
		snapshots: make(map[string]*timeline.Snapshot),
	}
}

// Load builds (or returns the already built) snapshot for the trace file at
// path. A failed build publishes nothing.
func (v *Viewer) Load(ctx context.Context, path string) (*timeline.Snapshot, error) {
	v.mu.RLock()
	snap, ok := v.snapshots[path]
	v.mu.RUnlock()
	if ok {
		return snap, nil
	}

	res, err, _ := v.flight.Do(path, func() (interface{}, error) {
		// The flight is shared: waiters piggyback on whichever request got
		// here first, so the build must survive that request's cancellation.
		ctx := context.WithoutCancel(ctx)
		start := time.Now()

		trace, err := tracefile.Open(path)
		if err != nil {
			return nil, err
		}

		snap, err := timeline.BuildWithOptions(ctx, trace.Reader(), timeline.Options{
			BaseCoalesceNs: v.cfg.Build.BaseCoalesceNs,
			MaxLevels:      v.cfg.Build.MaxLevels,
		})
		if err != nil {
			return nil, err
		}

		v.mu.Lock()
		v.snapshots[path] = snap
		v.mu.Unlock()

		v.l.Info(ctx, "Built trace index",
			zap.String("path", path),
			zap.Int("events", snap.EventCount),
			zap.Int("lanes", len(snap.MergedLanes)),
			zap.Duration("elapsed", time.Since(start)),
		)
		return snap, nil
	})
	if err != nil {
		return nil, err
	}
	return res.(*timeline.Snapshot), nil
}

func (v *Viewer) snapshot(path string) (*timeline.Snapshot, bool) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	snap, ok := v.snapshots[path]
	return snap, ok
}

// Router returns the HTTP API.
func (v *Viewer) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Post("/api/traces", v.handleOpen)
	r.Get("/api/traces", v.handleTraceInfo)
	r.Get("/api/lanes", v.handleLanes)
	r.Get("/api/query", v.handleQuery)

	return r
}

// Run serves the API until ctx is cancelled.
func (v *Viewer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    v.cfg.Addr,
		Handler: v.Router(),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v.l.Info(ctx, "Starting viewer API", zap.String("addr", v.cfg.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
