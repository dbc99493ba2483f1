package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/nordrail/traintrips/trips"
)

// CombineAll merges every daily main snapshot into the deduplicated master
// table. Unreadable files are skipped; an empty result leaves the existing
// master table untouched and reports the unit as failed.
func (r *Runner) CombineAll(ctx context.Context) StepSummary {
	defer r.observeStep("combine", r.now())
	sum := StepSummary{Step: "combine"}
	sum.add("total", r.combineAll(ctx))
	return sum
}

func (r *Runner) combineAll(ctx context.Context) error {
	entries, err := r.store.List(ctx, CuratedPrefix+"trips_combined_")
	if err != nil {
		return fmt.Errorf("combine: list: %w", err)
	}

	var all []trips.TripRow
	files := 0
	for _, e := range entries {
		if !isDailyMainSnapshot(e.Path) {
			continue
		}
		data, err := r.store.Read(ctx, e.Path)
		if err != nil {
			r.logger.Warn("snapshot unreadable, skipping", "path", e.Path, "error", err.Error())
			continue
		}
		rows, err := trips.DecodeTripRows(data)
		if err != nil {
			r.logger.Warn("snapshot undecodable, skipping", "path", e.Path, "error", err.Error())
			continue
		}
		all = append(all, rows...)
		files++
	}
	if len(all) == 0 {
		return fmt.Errorf("combine: %w", ErrNoInput)
	}

	merged := trips.Merge(all)
	r.metrics.DuplicatesRemoved.Add(float64(len(all) - len(merged)))
	r.logger.Info("snapshots merged", "files", files, "rows_in", len(all), "rows_out", len(merged))

	data, err := trips.EncodeTripRows(merged)
	if err != nil {
		return fmt.Errorf("combine: encode: %w", err)
	}
	return r.writeSnapshot(ctx, TotalPath, data, len(merged), "total", "combine")
}

// isDailyMainSnapshot keeps the per-day main files only: the canceled
// variants and the master table itself never feed back into the merge.
func isDailyMainSnapshot(path string) bool {
	if path == TotalPath || strings.HasSuffix(path, "_canceled.parquet") {
		return false
	}
	return strings.HasSuffix(path, ".parquet")
}
