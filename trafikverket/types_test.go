package trafikverket

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeAnnouncements(t *testing.T) {
	payload := `{"RESPONSE":{"RESULT":[{"TrainAnnouncement":[
		{"ActivityId":"a1","ActivityType":"Avgang","AdvertisedTrainIdent":421,
		 "AdvertisedTimeAtLocation":"2024-03-01T08:00:00","LocationSignature":"Cst",
		 "Canceled":"true",
		 "FromLocation":[{"LocationName":"Cst","Priority":1,"Order":0}],
		 "TypeOfTraffic":[{"Code":"PT","Text":"Persontåg"}]}
	]}]}}`

	anns, err := DecodeAnnouncements([]byte(payload))
	require.NoError(t, err)
	require.Len(t, anns, 1)

	a := anns[0]
	assert.Equal(t, "a1", a.ActivityID)
	// Unquoted numeric idents decode to their string form.
	assert.Equal(t, "421", a.AdvertisedTrainIdent)
	assert.True(t, bool(a.Canceled))
	require.Len(t, a.FromLocation, 1)
	assert.Equal(t, "Cst", a.FromLocation[0].LocationName)
	assert.Equal(t, "PT", a.TypeOfTraffic[0].Code)
}

func TestDecodeAnnouncementsEmptyResult(t *testing.T) {
	anns, err := DecodeAnnouncements([]byte(`{"RESPONSE":{"RESULT":[]}}`))
	require.NoError(t, err)
	assert.Empty(t, anns)
}

func TestAnnouncementSurvivesShapeChanges(t *testing.T) {
	// A list-shaped field arriving as a scalar nulls that field only.
	var a Announcement
	err := json.Unmarshal([]byte(`{"ActivityType":"Ankomst","Deviation":"oops"}`), &a)
	require.NoError(t, err)
	assert.Equal(t, "Ankomst", a.ActivityType)
	assert.Nil(t, a.Deviation)
}

func TestAnnouncementRoundTrip(t *testing.T) {
	in := Announcement{
		ActivityID:           "a1",
		ActivityType:         "Avgang",
		AdvertisedTrainIdent: "421",
		LocationSignature:    "Cst",
		Canceled:             true,
	}
	data, err := json.Marshal(in)
	require.NoError(t, err)

	var out Announcement
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestFlexBool(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`"true"`, true},
		{`"False"`, false},
		{`1`, true},
		{`0`, false},
		{`null`, false},
		{`"garbage"`, false},
	}
	for _, tc := range cases {
		var b FlexBool
		require.NoError(t, b.UnmarshalJSON([]byte(tc.in)), tc.in)
		assert.Equal(t, tc.want, bool(b), tc.in)
	}
}
