package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nordrail/traintrips/trafikverket"
	"github.com/nordrail/traintrips/trips"
)

// FetchActual fetches the last nDays days of announcement data, one day per
// unit. Each day is covered by 24 hourly windows with a pause between
// requests; a failed window is logged and skipped, and the day still counts
// as successful when at least one window delivered. Records are split into
// departure and arrival files by activity type.
func (r *Runner) FetchActual(ctx context.Context, nDays int) StepSummary {
	defer r.observeStep("fetch", r.now())
	if nDays <= 0 {
		nDays = r.cfg.API.FetchDays
	}

	loc := r.cfg.Location()
	today := r.now().In(loc)
	sum := StepSummary{Step: "fetch"}

	for i := nDays - 1; i >= 0; i-- {
		day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc).AddDate(0, 0, -i)
		sum.add(day.Format(isoDate), r.fetchDay(ctx, day))
	}

	r.logger.Info("fetch step finished", "days", len(sum.Units), "succeeded", sum.Succeeded())
	return sum
}

func (r *Runner) fetchDay(ctx context.Context, day time.Time) error {
	pause := time.Duration(r.cfg.API.WindowPauseMS) * time.Millisecond
	var all []trafikverket.Announcement
	okWindows := 0

	for h := 0; h < 24; h++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		t0 := day.Add(time.Duration(h) * time.Hour)
		t1 := t0.Add(time.Hour)

		start := r.now()
		anns, err := r.client.FetchWindow(ctx, t0, t1)
		r.metrics.WindowDuration.Observe(time.Since(start).Seconds())
		if err != nil {
			r.metrics.WindowsFailed.Inc()
			r.logger.Warn("window fetch failed", "day", day.Format(isoDate), "hour", h, "error", err.Error())
		} else {
			r.metrics.WindowsFetched.Inc()
			r.metrics.EventsFetched.Add(float64(len(anns)))
			all = append(all, anns...)
			okWindows++
		}
		if h < 23 && pause > 0 {
			r.pause(pause)
		}
	}

	if okWindows == 0 {
		return fmt.Errorf("day %s: all 24 windows failed", day.Format(isoDate))
	}

	var deps, arrs []trafikverket.Announcement
	for _, a := range all {
		switch {
		case trips.IsDepartureType(a.ActivityType):
			deps = append(deps, a)
		case trips.IsArrivalType(a.ActivityType):
			arrs = append(arrs, a)
		}
	}
	r.logger.Info("day fetched", "day", day.Format(isoDate),
		"windows", okWindows, "departures", len(deps), "arrivals", len(arrs))

	if err := r.writeRawAnnouncements(ctx, rawDeparturesPath(day), deps); err != nil {
		return err
	}
	return r.writeRawAnnouncements(ctx, rawArrivalsPath(day), arrs)
}

func (r *Runner) writeRawAnnouncements(ctx context.Context, path string, anns []trafikverket.Announcement) error {
	if anns == nil {
		anns = []trafikverket.Announcement{}
	}
	data, err := json.Marshal(anns)
	if err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	if err := r.ensureParent(ctx, path); err != nil {
		return fmt.Errorf("prepare %s: %w", path, err)
	}
	if err := r.store.Write(ctx, path, data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
