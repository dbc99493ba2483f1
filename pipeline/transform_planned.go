package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nordrail/traintrips/store"
	"github.com/nordrail/traintrips/trafikverket"
	"github.com/nordrail/traintrips/trips"
)

// TransformPlanned turns stored forecast payloads into a curated planned-trip
// snapshot, written both under its target date and as the rolling latest
// file. It prefers tomorrow's payloads and falls back to the most recently
// stored ones per kind, so a missed fetch does not leave the latest snapshot
// stale forever.
func (r *Runner) TransformPlanned(ctx context.Context) StepSummary {
	defer r.observeStep("transform-planned", r.now())
	sum := StepSummary{Step: "transform-planned"}
	sum.add("planned", r.transformPlanned(ctx))
	return sum
}

func (r *Runner) transformPlanned(ctx context.Context) error {
	loc := r.cfg.Location()
	now := r.now().In(loc)
	tomorrow := now.AddDate(0, 0, 1).Format(isoDate)

	var events []trips.PointEvent
	dateISO := tomorrow
	loaded := 0
	for _, u := range []struct{ kind, source string }{
		{"departures", trips.SourceDepartures},
		{"arrivals", trips.SourceArrivals},
	} {
		anns, usedDate, err := r.loadPlannedPayload(ctx, u.kind, tomorrow)
		if err != nil {
			r.logger.Warn("planned payload unavailable", "kind", u.kind, "error", err.Error())
			continue
		}
		loaded++
		if usedDate != tomorrow {
			r.logger.Warn("falling back to older planned payload", "kind", u.kind, "date", usedDate)
			dateISO = usedDate
		}
		evs, err := trips.Normalize(anns, u.source, trips.ModePlanned)
		if err != nil {
			return fmt.Errorf("planned %s: %w", u.kind, err)
		}
		before := len(evs)
		evs = trips.DedupPlanned(evs)
		r.metrics.DuplicatesRemoved.Add(float64(before - len(evs)))
		events = append(events, evs...)
	}
	if loaded == 0 {
		return fmt.Errorf("planned: %w", ErrNoInput)
	}

	built := trips.BuildPlanned(events, r.logger)
	r.metrics.PlannedTrips.Add(float64(len(built)))
	trips.AddPlannedDistance(built, r.stationIndex(ctx), r.logger)
	built = trips.FilterPlausible(built)

	rows := trips.PlannedRows(built)
	data, err := trips.EncodePlannedRows(rows)
	if err != nil {
		return fmt.Errorf("planned: encode: %w", err)
	}
	if err := r.writeSnapshot(ctx, plannedOutPath(dateISO), data, len(rows), "planned", "transform-planned"); err != nil {
		return err
	}
	return r.writeSnapshot(ctx, PlannedLatestPath, data, len(rows), "planned-latest", "transform-planned")
}

// loadPlannedPayload reads the payload for the wanted date, or the most
// recently modified payload of the same kind. Returns the decoded records
// and the date the used file was stored under.
func (r *Runner) loadPlannedPayload(ctx context.Context, kind, dateISO string) ([]trafikverket.Announcement, string, error) {
	path := plannedRawPath(kind, dateISO)
	data, err := r.store.Read(ctx, path)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return nil, "", err
		}
		path, err = r.latestPlannedPath(ctx, kind)
		if err != nil {
			return nil, "", err
		}
		data, err = r.store.Read(ctx, path)
		if err != nil {
			return nil, "", err
		}
		dateISO = plannedDateOf(path, kind)
	}
	anns, err := trafikverket.DecodeAnnouncements(data)
	if err != nil {
		return nil, "", fmt.Errorf("decode %s: %w", path, err)
	}
	return anns, dateISO, nil
}

func (r *Runner) latestPlannedPath(ctx context.Context, kind string) (string, error) {
	entries, err := r.store.List(ctx, PlannedRawPrefix+kind+"_")
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", store.ErrNotFound
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.Modified.After(latest.Modified) {
			latest = e
		}
	}
	return latest.Path, nil
}

// plannedDateOf recovers the date a stored payload was named under; the
// dated snapshot follows the payload, not the wall clock.
func plannedDateOf(path, kind string) string {
	name := strings.TrimPrefix(path, PlannedRawPrefix)
	name = strings.TrimPrefix(name, kind+"_")
	return strings.TrimSuffix(name, ".json")
}
