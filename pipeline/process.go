package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nordrail/traintrips/store"
	"github.com/nordrail/traintrips/trafikverket"
	"github.com/nordrail/traintrips/trips"
)

// ErrNoInput marks a processing unit that had nothing to work on.
var ErrNoInput = errors.New("pipeline: no raw input")

// ProcessDates curates one snapshot per given day.
func (r *Runner) ProcessDates(ctx context.Context, days []time.Time) StepSummary {
	defer r.observeStep("process", r.now())
	sum := StepSummary{Step: "process"}
	idx := r.stationIndex(ctx)
	for _, day := range days {
		sum.add(day.Format(isoDate), r.processDay(ctx, day, idx))
	}
	r.logger.Info("process step finished", "days", len(sum.Units), "succeeded", sum.Succeeded())
	return sum
}

// ProcessAll derives the day list from the raw files present in the store
// and curates every one of them.
func (r *Runner) ProcessAll(ctx context.Context) StepSummary {
	days, err := r.rawDays(ctx)
	if err != nil {
		r.logger.Error("raw listing failed", "error", err.Error())
		return StepSummary{Step: "process", Units: []UnitResult{{Unit: "list", Err: err}}}
	}
	return r.ProcessDates(ctx, days)
}

// DefaultProcessDays is the standard selection: yesterday and today, so a
// run shortly after midnight still completes the previous day.
func (r *Runner) DefaultProcessDays() []time.Time {
	loc := r.cfg.Location()
	now := r.now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	return []time.Time{today.AddDate(0, 0, -1), today}
}

func (r *Runner) processDay(ctx context.Context, day time.Time, idx trips.StationIndex) error {
	deps, depErr := r.readRawAnnouncements(ctx, rawDeparturesPath(day))
	arrs, arrErr := r.readRawAnnouncements(ctx, rawArrivalsPath(day))
	if depErr != nil && arrErr != nil {
		return fmt.Errorf("day %s: %w", day.Format(isoDate), ErrNoInput)
	}
	r.warnMissingRaw("departure", day, depErr)
	r.warnMissingRaw("arrival", day, arrErr)

	var events []trips.PointEvent
	for _, in := range []struct {
		anns   []trafikverket.Announcement
		source string
	}{
		{deps, trips.SourceDepartures},
		{arrs, trips.SourceArrivals},
	} {
		if len(in.anns) == 0 {
			continue
		}
		evs, err := trips.Normalize(in.anns, in.source, trips.ModeActual)
		if err != nil {
			return fmt.Errorf("day %s %s: %w", day.Format(isoDate), in.source, err)
		}
		events = append(events, evs...)
	}
	if len(events) == 0 {
		return fmt.Errorf("day %s: %w", day.Format(isoDate), ErrNoInput)
	}

	built := trips.Build(events, r.logger)
	r.metrics.TripsBuilt.Add(float64(len(built)))
	trips.Enrich(built, idx, r.logger)

	main, canceled := trips.Split(trips.Reconcile(built))

	if len(main) > 0 {
		data, err := trips.EncodeTripRows(main)
		if err != nil {
			return fmt.Errorf("day %s: encode: %w", day.Format(isoDate), err)
		}
		if err := r.writeSnapshot(ctx, curatedPath(day), data, len(main), "daily", "process"); err != nil {
			return err
		}
	}
	if len(canceled) > 0 {
		data, err := trips.EncodeTripRows(canceled)
		if err != nil {
			return fmt.Errorf("day %s: encode canceled: %w", day.Format(isoDate), err)
		}
		if err := r.writeSnapshot(ctx, curatedCanceledPath(day), data, len(canceled), "canceled", "process"); err != nil {
			return err
		}
	}
	if len(main) == 0 && len(canceled) == 0 {
		r.logger.Warn("no trips built", "day", day.Format(isoDate))
	}
	return nil
}

func (r *Runner) readRawAnnouncements(ctx context.Context, path string) ([]trafikverket.Announcement, error) {
	data, err := r.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	var anns []trafikverket.Announcement
	if err := json.Unmarshal(data, &anns); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return anns, nil
}

// stationIndex loads the station reference table. Any failure degrades to an
// empty index; enrichment then leaves the derived columns null.
func (r *Runner) stationIndex(ctx context.Context) trips.StationIndex {
	data, err := r.store.Read(ctx, StationInfoPath)
	if err != nil {
		r.logger.Warn("station table unavailable", "path", StationInfoPath, "error", err.Error())
		return nil
	}
	stations, err := trips.ParseStations(data)
	if err != nil {
		r.logger.Warn("station table unusable", "path", StationInfoPath, "error", err.Error())
		return nil
	}
	return trips.NewStationIndex(stations)
}

// rawDays lists the distinct days that have at least one raw file.
func (r *Runner) rawDays(ctx context.Context) ([]time.Time, error) {
	entries, err := r.store.List(ctx, RawPrefix)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var days []time.Time
	for _, e := range entries {
		name := strings.TrimPrefix(e.Path, RawPrefix)
		var compact string
		switch {
		case strings.HasPrefix(name, "departures_") && strings.HasSuffix(name, ".json"):
			compact = strings.TrimSuffix(strings.TrimPrefix(name, "departures_"), ".json")
		case strings.HasPrefix(name, "arrivals_") && strings.HasSuffix(name, ".json"):
			compact = strings.TrimSuffix(strings.TrimPrefix(name, "arrivals_"), ".json")
		default:
			continue
		}
		if seen[compact] {
			continue
		}
		day, err := time.Parse(compactDate, compact)
		if err != nil {
			continue
		}
		seen[compact] = true
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days, nil
}

func (r *Runner) warnMissingRaw(side string, day time.Time, err error) {
	switch {
	case err == nil:
	case errors.Is(err, store.ErrNotFound):
		r.logger.Info("raw file missing, continuing one-sided", "side", side, "day", day.Format(isoDate))
	default:
		r.logger.Warn("raw file unreadable, continuing one-sided",
			"side", side, "day", day.Format(isoDate), "error", err.Error())
	}
}
