package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/nordrail/traintrips/config"
	"github.com/nordrail/traintrips/metrics"
	"github.com/nordrail/traintrips/publish"
	"github.com/nordrail/traintrips/store"
	"github.com/nordrail/traintrips/trafikverket"
)

// Fetcher is the slice of the API client the pipeline needs; tests plug in
// a fake.
type Fetcher interface {
	FetchWindow(ctx context.Context, t0, t1 time.Time) ([]trafikverket.Announcement, error)
	FetchPlannedRaw(ctx context.Context, activityType, startISO, endISO string) ([]byte, int, error)
}

// Runner holds the wired dependencies of every pipeline step. Steps are
// methods; each runs one bounded batch and returns a StepSummary.
type Runner struct {
	cfg       *config.Config
	store     store.ObjectStore
	client    Fetcher
	logger    *slog.Logger
	metrics   *metrics.Collector
	publisher *publish.Publisher

	// now is replaceable in tests.
	now func() time.Time
	// pause between fetch windows, replaceable in tests.
	pause func(time.Duration)
}

func NewRunner(cfg *config.Config, st store.ObjectStore, client Fetcher,
	m *metrics.Collector, pub *publish.Publisher, logger *slog.Logger) *Runner {
	return &Runner{
		cfg:       cfg,
		store:     st,
		client:    client,
		logger:    logger,
		metrics:   m,
		publisher: pub,
		now:       time.Now,
		pause:     time.Sleep,
	}
}

// UnitResult is the outcome of one unit of work within a step (one day, one
// activity type, one snapshot).
type UnitResult struct {
	Unit string
	Err  error
}

// StepSummary aggregates a step's unit outcomes.
type StepSummary struct {
	Step  string
	Units []UnitResult
}

func (s *StepSummary) add(unit string, err error) {
	s.Units = append(s.Units, UnitResult{Unit: unit, Err: err})
}

func (s StepSummary) Succeeded() int {
	n := 0
	for _, u := range s.Units {
		if u.Err == nil {
			n++
		}
	}
	return n
}

func (s StepSummary) Failed() int { return len(s.Units) - s.Succeeded() }

// AnySuccess reports whether at least one unit of the step completed.
func (s StepSummary) AnySuccess() bool { return s.Succeeded() > 0 }

// observeStep records the step's wall time.
func (r *Runner) observeStep(step string, start time.Time) {
	r.metrics.StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// ensureParent prepares the path's directory prefix on backends that need
// one.
func (r *Runner) ensureParent(ctx context.Context, path string) error {
	if i := strings.LastIndex(path, "/"); i >= 0 {
		return r.store.EnsureDir(ctx, path[:i+1])
	}
	return nil
}

// writeSnapshot persists one curated file and emits the bookkeeping around
// it. kind labels the snapshot family for metrics.
func (r *Runner) writeSnapshot(ctx context.Context, path string, data []byte, rows int, kind, step string) error {
	if err := r.ensureParent(ctx, path); err != nil {
		return err
	}
	if err := r.store.Write(ctx, path, data); err != nil {
		return err
	}
	r.metrics.SnapshotsWritten.WithLabelValues(kind).Inc()
	r.publisher.SnapshotWritten(path, rows, step)
	r.logger.Info("snapshot written", "path", path, "rows", rows)
	return nil
}
