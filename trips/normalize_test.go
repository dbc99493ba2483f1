package trips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nordrail/traintrips/trafikverket"
)

func TestNormalizeFlattensRecord(t *testing.T) {
	anns := []trafikverket.Announcement{{
		ActivityID:                "act-1",
		ActivityType:              "Avgang",
		AdvertisedTrainIdent:      " 421 ",
		AdvertisedTimeAtLocation:  "2024-03-01T08:00:00",
		TimeAtLocationWithSeconds: "2024-03-01T08:01:30",
		LocationSignature:         " c st ",
		Operator:                  "SJ",
		FromLocation: []trafikverket.Location{
			{LocationName: "Cst"}, {LocationName: "Cst"}, {LocationName: "Sub"},
		},
		TypeOfTraffic: []trafikverket.TrafficType{{Code: "PT", Text: "Persontåg"}},
		Deviation:     []trafikverket.Deviation{{Description: "Försenad"}},
	}}

	events, err := Normalize(anns, SourceDepartures, ModeActual)
	require.NoError(t, err)
	require.Len(t, events, 1)

	ev := events[0]
	assert.Equal(t, "421", ev.TrainIdent)
	assert.Equal(t, "CST", ev.Signature)
	assert.Equal(t, "2024-03-01", ev.TripDate)
	assert.Equal(t, SourceDepartures, ev.Source)
	require.NotNil(t, ev.Actual)
	assert.Equal(t, "Cst,Sub", *ev.FromLocations)
	assert.Equal(t, "PT", *ev.TypeOfTraffic)
	assert.Equal(t, "Försenad", *ev.Deviation)
}

func TestNormalizePlannedJoinsListFields(t *testing.T) {
	anns := []trafikverket.Announcement{{
		AdvertisedTrainIdent:     "5",
		ActivityType:             "Ankomst",
		LocationSignature:        "G",
		AdvertisedTimeAtLocation: "2024-03-01T09:00:00",
		TypeOfTraffic: []trafikverket.TrafficType{
			{Code: "PT", Text: "Persontåg"}, {Code: "X", Text: "Snabbtåg"}, {Text: "Persontåg"},
		},
	}}
	events, err := Normalize(anns, SourceArrivals, ModePlanned)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Persontåg,Snabbtåg", *events[0].TypeOfTraffic)
}

func TestNormalizeTolerantTimestamps(t *testing.T) {
	anns := []trafikverket.Announcement{{
		AdvertisedTrainIdent:     "5",
		ActivityType:             "departure",
		LocationSignature:        "A",
		AdvertisedTimeAtLocation: "not a time",
	}}
	events, err := Normalize(anns, SourceDepartures, ModeActual)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Nil(t, events[0].Advertised)
	assert.Empty(t, events[0].TripDate)
}

func TestNormalizeMissingRequiredColumn(t *testing.T) {
	// No record in the batch carries an activity type.
	anns := []trafikverket.Announcement{
		{AdvertisedTrainIdent: "1", LocationSignature: "A", AdvertisedTimeAtLocation: "2024-03-01T08:00:00"},
		{AdvertisedTrainIdent: "2", LocationSignature: "B", AdvertisedTimeAtLocation: "2024-03-01T09:00:00"},
	}

	_, err := Normalize(anns, SourceDepartures, ModeActual)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "ActivityType")

	// The planned path has no hard column requirement.
	_, err = Normalize(anns, SourceDepartures, ModePlanned)
	assert.NoError(t, err)
}

func TestNormalizeEmptyBatch(t *testing.T) {
	events, err := Normalize(nil, SourceDepartures, ModeActual)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestParseTimeLayouts(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"2024-03-01T08:00:00", "2024-03-01T08:00:00Z"},
		{"2024-03-01T08:00:00.000", "2024-03-01T08:00:00Z"},
		{"2024-03-01T08:00:00+01:00", "2024-03-01T07:00:00Z"},
		{"2024-03-01 08:00:00", "2024-03-01T08:00:00Z"},
		{"2024-03-01", "2024-03-01T00:00:00Z"},
	}
	for _, tc := range cases {
		got := ParseTime(tc.in)
		require.NotNil(t, got, tc.in)
		assert.Equal(t, tc.want, got.Format("2006-01-02T15:04:05Z07:00"), tc.in)
	}
	assert.Nil(t, ParseTime(""))
	assert.Nil(t, ParseTime("yesterday"))
}

func TestNormalizeSignature(t *testing.T) {
	assert.Equal(t, "CST", NormalizeSignature(" c st "))
	assert.Equal(t, "GÄ", NormalizeSignature("gä"))
	assert.Equal(t, "", NormalizeSignature("   "))
}
