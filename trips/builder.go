package trips

import (
	"log/slog"
	"math"
	"strings"
	"time"
)

// Activity-type synonym sets. The feed mixes English and Swedish spellings.
var (
	departureTypes = map[string]bool{
		"departure": true, "avgang": true, "avgång": true, "avgångar": true,
	}
	arrivalTypes = map[string]bool{
		"arrival": true, "ankomst": true, "ankomster": true,
	}
)

// IsDepartureType reports whether the activity type names a departure,
// case-insensitively across the known synonym set.
func IsDepartureType(s string) bool {
	return departureTypes[strings.ToLower(strings.TrimSpace(s))]
}

// IsArrivalType is the arrival-side counterpart of IsDepartureType.
func IsArrivalType(s string) bool {
	return arrivalTypes[strings.ToLower(strings.TrimSpace(s))]
}

// A trip counts as delayed when the arrival is later than 5 minutes 59
// seconds, strictly.
const delayedThresholdMinutes = 5.0 + 59.0/60.0

// Build reduces normalized point-events to one Trip per (train, date) group.
//
// A group yields a Trip only when it has both a departure- and an
// arrival-side event. Non-canceled groups missing either actual time are
// dropped (the historical pipeline only keeps completed trips); canceled
// groups have missing actual times backfilled from the planned times.
func Build(events []PointEvent, logger *slog.Logger) []Trip {
	var skipped int
	trips := reduceGroups(events,
		func(ev PointEvent) (GroupKey, bool) {
			if ev.TrainIdent == "" || ev.TripDate == "" {
				return GroupKey{}, false
			}
			return GroupKey{TrainIdent: ev.TrainIdent, TripDate: ev.TripDate}, true
		},
		func(k GroupKey, group []PointEvent) (t Trip, ok bool) {
			defer func() {
				if r := recover(); r != nil {
					skipped++
					ok = false
				}
			}()
			return reduceTrip(k, group)
		},
	)
	if skipped > 0 {
		logger.Warn("skipped groups that failed to reduce", "groups", skipped)
	}
	logger.Info("built trips", "events", len(events), "trips", len(trips))
	return trips
}

func reduceTrip(k GroupKey, group []PointEvent) (Trip, bool) {
	var dep, arr *PointEvent
	for i := range group {
		ev := &group[i]
		if ev.Advertised == nil {
			continue
		}
		if IsDepartureType(ev.ActivityType) {
			if dep == nil || ev.Advertised.Before(*dep.Advertised) {
				dep = ev
			}
		}
		if IsArrivalType(ev.ActivityType) {
			if arr == nil || !ev.Advertised.Before(*arr.Advertised) {
				arr = ev
			}
		}
	}
	// Both sides are required to define a journey.
	if dep == nil || arr == nil {
		return Trip{}, false
	}

	startPlanned := *dep.Advertised
	endPlanned := *arr.Advertised
	startActual := dep.Actual
	endActual := arr.Actual
	canceled := dep.Canceled || arr.Canceled

	if (startActual == nil || endActual == nil) && !canceled {
		return Trip{}, false
	}
	if startActual == nil && canceled {
		startActual = timePtr(startPlanned)
	}
	if endActual == nil && canceled {
		endActual = timePtr(endPlanned)
	}

	t := Trip{
		TrainIdent:   k.TrainIdent,
		TripDate:     k.TripDate,
		StartPlanned: startPlanned,
		StartActual:  startActual,
		EndPlanned:   endPlanned,
		EndActual:    endActual,
		Canceled:     canceled,
	}
	if dep.Signature != "" {
		t.StartStation = strPtr(dep.Signature)
	}
	if arr.Signature != "" {
		t.EndStation = strPtr(arr.Signature)
	}

	if endActual != nil {
		t.DelayMinutes = f64Ptr(endActual.Sub(endPlanned).Minutes())
	}
	if startActual != nil && endActual != nil {
		t.DurationMin = f64Ptr(math.Round(endActual.Sub(*startActual).Minutes()))
	}
	if t.DelayMinutes != nil && *t.DelayMinutes > delayedThresholdMinutes {
		t.IsDelayed = 1
	}

	t.Operator = pickMeta(dep.Operator, group, func(ev PointEvent) *string { return ev.Operator })
	t.TrainOwner = pickMeta(dep.TrainOwner, group, func(ev PointEvent) *string { return ev.TrainOwner })
	t.TypeOfTraffic = pickMeta(dep.TypeOfTraffic, group, func(ev PointEvent) *string { return ev.TypeOfTraffic })
	t.Deviation = dep.Deviation

	if date, err := time.Parse("2006-01-02", k.TripDate); err == nil {
		t.StartDayOfMonth = i32Ptr(int32(date.Day()))
		wd := pythonWeekday(date.Weekday())
		if wd <= 4 {
			t.IsWeekday = i32Ptr(1)
		} else {
			t.IsWeekday = i32Ptr(0)
		}
	}
	t.StartHour = i32Ptr(int32(startPlanned.Hour()))
	t.StartMonth = i32Ptr(int32(startPlanned.Month()))

	return t, true
}

// pickMeta prefers the departure row's value and falls back to the first
// non-nil value anywhere in the group.
func pickMeta(fromDep *string, group []PointEvent, sel func(PointEvent) *string) *string {
	if fromDep != nil {
		return fromDep
	}
	return firstNonNil(group, sel)
}

// pythonWeekday maps Go's Sunday-based weekday onto Monday=0..Sunday=6,
// the convention the downstream columns were built with.
func pythonWeekday(d time.Weekday) int32 {
	return int32((int(d) + 6) % 7)
}
