package trips

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"time"
)

// Placeholder endpoint when neither the signature nor the from/to location
// lists name a station.
const unknownStation = "<UNKNOWN>"

// Implausible forecast trips are dropped: duration outside this range in
// minutes, or unknown.
const (
	minPlannedDurationMin = 0.0
	maxPlannedDurationMin = 1500.0
)

// DedupPlanned removes duplicate forecast events from one source. Events are
// ordered by advertised time, then narrowed first by unique activity id and
// then by unique (train, signature, advertised time), keeping the earliest
// occurrence at each stage.
func DedupPlanned(events []PointEvent) []PointEvent {
	if len(events) == 0 {
		return events
	}
	sorted := make([]PointEvent, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Advertised, sorted[j].Advertised
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	byID := sorted[:0]
	seenID := make(map[string]bool, len(sorted))
	for _, ev := range sorted {
		if ev.ActivityID != "" {
			if seenID[ev.ActivityID] {
				continue
			}
			seenID[ev.ActivityID] = true
		}
		byID = append(byID, ev)
	}

	type tripleKey struct {
		train, sig string
		advertised string
	}
	out := make([]PointEvent, 0, len(byID))
	seenTriple := make(map[tripleKey]bool, len(byID))
	for _, ev := range byID {
		k := tripleKey{train: ev.TrainIdent, sig: ev.Signature}
		if ev.Advertised != nil {
			k.advertised = ev.Advertised.Format(time.RFC3339)
		}
		if seenTriple[k] {
			continue
		}
		seenTriple[k] = true
		out = append(out, ev)
	}
	return out
}

// BuildPlanned reduces deduplicated forecast events to one PlannedTrip per
// (train, advertised date) group. Unlike the historical builder a one-sided
// group still yields a best-effort trip: the start row falls back to the
// earliest row overall and the end row to the latest, and missing endpoint
// signatures fall back to the from/to location lists.
func BuildPlanned(events []PointEvent, logger *slog.Logger) []PlannedTrip {
	trips := reduceGroups(events,
		func(ev PointEvent) (GroupKey, bool) {
			if ev.TrainIdent == "" {
				return GroupKey{}, false
			}
			// Groups with an unknown date are kept; the forecast feed
			// occasionally drops the advertised time.
			return GroupKey{TrainIdent: ev.TrainIdent, TripDate: ev.TripDate}, true
		},
		reducePlanned,
	)
	logger.Info("built planned trips", "events", len(events), "trips", len(trips))
	return trips
}

func reducePlanned(k GroupKey, group []PointEvent) (PlannedTrip, bool) {
	sorted := make([]PointEvent, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Advertised, sorted[j].Advertised
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	start := sorted[0]
	end := sorted[len(sorted)-1]
	for _, ev := range sorted {
		if ev.Source == SourceDepartures {
			start = ev
			break
		}
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if sorted[i].Source == SourceArrivals {
			end = sorted[i]
			break
		}
	}

	t := PlannedTrip{
		TrainIdent:   k.TrainIdent,
		ServiceDate:  k.TripDate,
		StartPlanned: start.Advertised,
		EndPlanned:   end.Advertised,
		StartStation: endpointStation(start.Signature, start.FromLocations),
		EndStation:   endpointStation(end.Signature, end.ToLocations),
	}

	if t.StartPlanned != nil && t.EndPlanned != nil {
		t.DurationMinutes = f64Ptr(round2(t.EndPlanned.Sub(*t.StartPlanned).Minutes()))
	}

	// Ordered distinct path of visited signatures.
	var path []string
	seen := make(map[string]bool)
	for _, ev := range sorted {
		if ev.Signature == "" || seen[ev.Signature] {
			continue
		}
		seen[ev.Signature] = true
		path = append(path, ev.Signature)
	}
	t.StopsCount = int32(len(path))
	if len(path) > 0 {
		t.ThroughStations = strPtr(strings.Join(path, ","))
	}

	for _, ev := range sorted {
		if ev.Canceled {
			t.AnyCanceled = 1
			break
		}
	}

	t.Operator = modeOrFirst(sorted, func(ev PointEvent) *string { return ev.Operator })
	t.TrainOwner = modeOrFirst(sorted, func(ev PointEvent) *string { return ev.TrainOwner })
	t.FromLocations = modeOrFirst(sorted, func(ev PointEvent) *string { return ev.FromLocations })
	t.ToLocations = modeOrFirst(sorted, func(ev PointEvent) *string { return ev.ToLocations })

	t.StartOperator = start.Operator
	t.StartOwner = start.TrainOwner
	t.StartTraffic = start.TypeOfTraffic
	t.StartDeviation = start.Deviation

	if t.StartPlanned != nil {
		t.ServiceDate = t.StartPlanned.Format("2006-01-02")
		t.StartHour = i32Ptr(int32(t.StartPlanned.Hour()))
		wd := pythonWeekday(t.StartPlanned.Weekday())
		t.StartWeekday = i32Ptr(wd)
		t.StartMonth = i32Ptr(int32(t.StartPlanned.Month()))
		if wd <= 4 {
			t.IsWeekday = i32Ptr(1)
		} else {
			t.IsWeekday = i32Ptr(0)
		}
	}

	return t, true
}

// endpointStation prefers the row's own signature, then the first entry of
// its location list, then the unknown placeholder.
func endpointStation(signature string, locations *string) string {
	if signature != "" {
		return signature
	}
	if locations != nil && *locations != "" {
		return strings.TrimSpace(strings.SplitN(*locations, ",", 2)[0])
	}
	return unknownStation
}

// modeOrFirst resolves a field that may disagree across the group: the most
// frequent non-nil value wins, with first occurrence breaking ties (which
// also covers the no-mode case).
func modeOrFirst(group []PointEvent, sel func(PointEvent) *string) *string {
	counts := make(map[string]int)
	var order []string
	for _, ev := range group {
		v := sel(ev)
		if v == nil {
			continue
		}
		if counts[*v] == 0 {
			order = append(order, *v)
		}
		counts[*v]++
	}
	if len(order) == 0 {
		return nil
	}
	best := order[0]
	for _, v := range order {
		if counts[v] > counts[best] {
			best = v
		}
	}
	return strPtr(best)
}

// AddPlannedDistance fills in great-circle endpoint distances from the
// station index. Fallback endpoint names never match the index and keep a
// null distance.
func AddPlannedDistance(trips []PlannedTrip, idx StationIndex, logger *slog.Logger) {
	if len(trips) == 0 {
		return
	}
	if len(idx) == 0 {
		logger.Warn("station table unavailable, distance_km stays null")
		return
	}
	known := 0
	for i := range trips {
		d := idx.Distance(trips[i].StartStation, trips[i].EndStation)
		if d != nil {
			d = f64Ptr(round3(*d))
			known++
		}
		trips[i].DistanceKm = d
	}
	logger.Info("planned distance computed",
		"known", fmt.Sprintf("%d/%d (%.1f%%)", known, len(trips), 100*float64(known)/float64(len(trips))))
}

// FilterPlausible drops forecast trips with an unknown duration or one
// outside the plausible range.
func FilterPlausible(trips []PlannedTrip) []PlannedTrip {
	out := trips[:0]
	for _, t := range trips {
		if t.DurationMinutes == nil {
			continue
		}
		if *t.DurationMinutes < minPlannedDurationMin || *t.DurationMinutes > maxPlannedDurationMin {
			continue
		}
		out = append(out, t)
	}
	return out
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
