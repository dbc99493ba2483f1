package trips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plannedEvent(train, sig, source string, advertised string) PointEvent {
	ev := PointEvent{
		TrainIdent: train,
		Signature:  sig,
		Source:     source,
	}
	if advertised != "" {
		ev.Advertised = tsAt(advertised)
		ev.TripDate = tripDateOf(ev.Advertised)
	}
	return ev
}

func TestDedupPlannedByActivityID(t *testing.T) {
	late := plannedEvent("1", "A", SourceDepartures, "2024-03-02T09:00:00")
	late.ActivityID = "act-1"
	early := plannedEvent("1", "B", SourceDepartures, "2024-03-02T08:00:00")
	early.ActivityID = "act-1"

	out := DedupPlanned([]PointEvent{late, early})
	require.Len(t, out, 1)
	assert.Equal(t, "B", out[0].Signature)
}

func TestDedupPlannedByTriple(t *testing.T) {
	a := plannedEvent("1", "A", SourceDepartures, "2024-03-02T08:00:00")
	b := plannedEvent("1", "A", SourceDepartures, "2024-03-02T08:00:00")
	c := plannedEvent("1", "A", SourceDepartures, "2024-03-02T09:00:00")
	out := DedupPlanned([]PointEvent{a, b, c})
	assert.Len(t, out, 2)
}

func TestDedupPlannedEmptyActivityIDNotCollapsed(t *testing.T) {
	a := plannedEvent("1", "A", SourceDepartures, "2024-03-02T08:00:00")
	b := plannedEvent("2", "B", SourceDepartures, "2024-03-02T08:30:00")
	out := DedupPlanned([]PointEvent{a, b})
	assert.Len(t, out, 2)
}

func TestBuildPlannedTrip(t *testing.T) {
	events := []PointEvent{
		plannedEvent("421", "CST", SourceDepartures, "2024-03-02T08:00:00"),
		plannedEvent("421", "U", SourceArrivals, "2024-03-02T08:40:00"),
		plannedEvent("421", "U", SourceDepartures, "2024-03-02T08:42:00"),
		plannedEvent("421", "G", SourceArrivals, "2024-03-02T11:00:00"),
	}
	built := BuildPlanned(events, discardLogger())
	require.Len(t, built, 1)

	tr := built[0]
	assert.Equal(t, "421", tr.TrainIdent)
	assert.Equal(t, "2024-03-02", tr.ServiceDate)
	assert.Equal(t, "CST", tr.StartStation)
	assert.Equal(t, "G", tr.EndStation)
	assert.Equal(t, 180.0, *tr.DurationMinutes)
	assert.Equal(t, "CST,U,G", *tr.ThroughStations)
	assert.Equal(t, int32(3), tr.StopsCount)
	assert.Equal(t, int32(0), tr.AnyCanceled)
	// 2024-03-02 is a Saturday.
	assert.Equal(t, int32(5), *tr.StartWeekday)
	assert.Equal(t, int32(0), *tr.IsWeekday)
}

func TestBuildPlannedOneSidedGroup(t *testing.T) {
	// Arrivals only: start falls back to the earliest row overall.
	early := plannedEvent("7", "", SourceArrivals, "2024-03-02T08:00:00")
	early.FromLocations = strPtr("Cst,Sub")
	late := plannedEvent("7", "G", SourceArrivals, "2024-03-02T10:00:00")

	built := BuildPlanned([]PointEvent{late, early}, discardLogger())
	require.Len(t, built, 1)
	assert.Equal(t, "Cst", built[0].StartStation)
	assert.Equal(t, "G", built[0].EndStation)
}

func TestBuildPlannedUnknownEndpoint(t *testing.T) {
	ev := plannedEvent("7", "", SourceDepartures, "2024-03-02T08:00:00")
	built := BuildPlanned([]PointEvent{ev}, discardLogger())
	require.Len(t, built, 1)
	assert.Equal(t, "<UNKNOWN>", built[0].StartStation)
}

func TestBuildPlannedCanceledFlag(t *testing.T) {
	a := plannedEvent("7", "A", SourceDepartures, "2024-03-02T08:00:00")
	b := plannedEvent("7", "B", SourceArrivals, "2024-03-02T09:00:00")
	b.Canceled = true
	built := BuildPlanned([]PointEvent{a, b}, discardLogger())
	require.Len(t, built, 1)
	assert.Equal(t, int32(1), built[0].AnyCanceled)
}

func TestModeOrFirst(t *testing.T) {
	group := []PointEvent{
		{Operator: strPtr("SJ")},
		{Operator: strPtr("MTR")},
		{Operator: strPtr("MTR")},
		{Operator: nil},
	}
	assert.Equal(t, "MTR", *modeOrFirst(group, func(ev PointEvent) *string { return ev.Operator }))

	tie := []PointEvent{{Operator: strPtr("SJ")}, {Operator: strPtr("MTR")}}
	assert.Equal(t, "SJ", *modeOrFirst(tie, func(ev PointEvent) *string { return ev.Operator }))

	assert.Nil(t, modeOrFirst(nil, func(ev PointEvent) *string { return ev.Operator }))
}

func TestFilterPlausible(t *testing.T) {
	keep := PlannedTrip{TrainIdent: "1", DurationMinutes: f64Ptr(120)}
	zero := PlannedTrip{TrainIdent: "2", DurationMinutes: f64Ptr(0)}
	negative := PlannedTrip{TrainIdent: "3", DurationMinutes: f64Ptr(-5)}
	huge := PlannedTrip{TrainIdent: "4", DurationMinutes: f64Ptr(2000)}
	unknown := PlannedTrip{TrainIdent: "5"}

	out := FilterPlausible([]PlannedTrip{keep, zero, negative, huge, unknown})
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].TrainIdent)
	assert.Equal(t, "2", out[1].TrainIdent)
}

func TestAddPlannedDistance(t *testing.T) {
	idx := NewStationIndex([]Station{
		{Signature: "CST", Lat: f64Ptr(59.330136), Lon: f64Ptr(18.058151)},
		{Signature: "G", Lat: f64Ptr(57.708895), Lon: f64Ptr(11.973479)},
	})
	built := []PlannedTrip{
		{TrainIdent: "1", StartStation: "CST", EndStation: "G"},
		{TrainIdent: "2", StartStation: "<UNKNOWN>", EndStation: "G"},
	}
	AddPlannedDistance(built, idx, discardLogger())

	require.NotNil(t, built[0].DistanceKm)
	assert.InDelta(t, 398, *built[0].DistanceKm, 10)
	// Three-decimal rounding.
	assert.Equal(t, *built[0].DistanceKm, round3(*built[0].DistanceKm))
	assert.Nil(t, built[1].DistanceKm)
}
