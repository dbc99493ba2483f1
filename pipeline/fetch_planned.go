package pipeline

import (
	"context"
	"fmt"
	"time"
)

// Activity types of the upstream feed. The feed spells them without
// diacritics in queries.
const (
	activityDeparture = "Avgang"
	activityArrival   = "Ankomst"
)

// FetchPlanned fetches tomorrow's forecast announcements, one unit per
// activity type. Tomorrow is resolved in the configured timezone, the query
// interval is sent in UTC, and the raw response payload is stored verbatim so
// the transform step can be re-run from storage.
func (r *Runner) FetchPlanned(ctx context.Context) StepSummary {
	defer r.observeStep("fetch-planned", r.now())

	loc := r.cfg.Location()
	now := r.now().In(loc)
	tomorrow := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, 1)
	dateISO := tomorrow.Format(isoDate)

	startISO := tomorrow.UTC().Format("2006-01-02T15:04:05Z")
	endISO := tomorrow.AddDate(0, 0, 1).UTC().Format("2006-01-02T15:04:05Z")

	sum := StepSummary{Step: "fetch-planned"}
	for _, u := range []struct {
		activityType string
		kind         string
	}{
		{activityDeparture, "departures"},
		{activityArrival, "arrivals"},
	} {
		sum.add(u.kind, r.fetchPlannedKind(ctx, u.activityType, u.kind, dateISO, startISO, endISO))
	}

	r.logger.Info("planned fetch finished", "date", dateISO, "succeeded", sum.Succeeded())
	return sum
}

func (r *Runner) fetchPlannedKind(ctx context.Context, activityType, kind, dateISO, startISO, endISO string) error {
	body, count, err := r.client.FetchPlannedRaw(ctx, activityType, startISO, endISO)
	if err != nil {
		return err
	}
	r.metrics.EventsFetched.Add(float64(count))

	path := plannedRawPath(kind, dateISO)
	if err := r.ensureParent(ctx, path); err != nil {
		return fmt.Errorf("prepare %s: %w", path, err)
	}
	if err := r.store.Write(ctx, path, body); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.logger.Info("planned payload stored", "path", path, "records", count)
	return nil
}
