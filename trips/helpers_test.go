package trips

import (
	"log/slog"
	"time"
)

func discardLogger() *slog.Logger { return slog.New(slog.DiscardHandler) }

// tsAt parses a naive timestamp for test fixtures.
func tsAt(s string) *time.Time {
	t, err := time.Parse("2006-01-02T15:04:05", s)
	if err != nil {
		panic(err)
	}
	u := t.UTC()
	return &u
}

func event(train, activityType, sig string, advertised, actual *time.Time) PointEvent {
	source := SourceArrivals
	if IsDepartureType(activityType) {
		source = SourceDepartures
	}
	return PointEvent{
		TrainIdent:   train,
		ActivityType: activityType,
		Signature:    sig,
		Advertised:   advertised,
		Actual:       actual,
		Source:       source,
		TripDate:     tripDateOf(advertised),
	}
}
