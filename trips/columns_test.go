package trips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileMapsAllColumns(t *testing.T) {
	tr := Trip{
		TrainIdent:   "1234",
		TripDate:     "2024-03-01",
		StartPlanned: *tsAt("2024-03-01T08:00:00"),
		StartActual:  tsAt("2024-03-01T08:01:00"),
		StartStation: strPtr("CST"),
		EndPlanned:   *tsAt("2024-03-01T09:00:00"),
		EndActual:    tsAt("2024-03-01T09:07:00"),
		EndStation:   strPtr("G"),
		DelayMinutes: f64Ptr(7),
		DurationMin:  f64Ptr(66),
		IsDelayed:    1,
	}
	rows := Reconcile([]Trip{tr})
	require.Len(t, rows, 1)

	r := rows[0]
	assert.Equal(t, "1234", r.AdvertisedTrainIdent)
	assert.Equal(t, "2024-03-01", r.TripStartDate)
	assert.Equal(t, "CST", *r.LocationSignatureDeparture)
	assert.Equal(t, "G", *r.LocationSignatureArrival)
	assert.Equal(t, tr.StartPlanned, *r.DepartureAdvertised)
	assert.Equal(t, *tr.EndActual, *r.ArrivalActual)
	assert.Equal(t, 7.0, *r.DelayMinutes)
	assert.Equal(t, int32(1), r.IsDelayed)

	// Unknown enrichment stays null, not zero.
	assert.Nil(t, r.DistanceKm)
	assert.Nil(t, r.DepartureStation)
}

func TestSplit(t *testing.T) {
	rows := []TripRow{
		{AdvertisedTrainIdent: "1", DepartureActual: tsAt("2024-03-01T08:00:00")},
		{AdvertisedTrainIdent: "2"},
		{AdvertisedTrainIdent: "3", ArrivalActual: tsAt("2024-03-01T09:00:00")},
	}
	main, canceled := Split(rows)
	require.Len(t, main, 2)
	require.Len(t, canceled, 1)
	assert.Equal(t, "2", canceled[0].AdvertisedTrainIdent)
}

func TestNullCount(t *testing.T) {
	empty := TripRow{}
	fuller := TripRow{
		DepartureActual: tsAt("2024-03-01T08:00:00"),
		DelayMinutes:    f64Ptr(0),
		Operator:        strPtr("SJ"),
	}
	assert.Equal(t, empty.NullCount()-3, fuller.NullCount())
	assert.Greater(t, empty.NullCount(), 0)
}
