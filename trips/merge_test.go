package trips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeMostCompleteWins(t *testing.T) {
	sparse := TripRow{AdvertisedTrainIdent: "1", TripStartDate: "2024-03-01"}
	full := TripRow{
		AdvertisedTrainIdent: "1",
		TripStartDate:        "2024-03-01",
		Operator:             strPtr("SJ"),
		DelayMinutes:         f64Ptr(2),
	}
	merged := Merge([]TripRow{sparse, full})
	require.Len(t, merged, 1)
	require.NotNil(t, merged[0].Operator)
	assert.Equal(t, "SJ", *merged[0].Operator)
}

func TestMergeTieKeepsFirstOccurrence(t *testing.T) {
	a := TripRow{AdvertisedTrainIdent: "1", TripStartDate: "2024-03-01", Operator: strPtr("first")}
	b := TripRow{AdvertisedTrainIdent: "1", TripStartDate: "2024-03-01", Operator: strPtr("second")}
	merged := Merge([]TripRow{a, b})
	require.Len(t, merged, 1)
	assert.Equal(t, "first", *merged[0].Operator)
}

func TestMergeSortsByDateThenTrain(t *testing.T) {
	rows := []TripRow{
		{AdvertisedTrainIdent: "9", TripStartDate: "2024-03-02"},
		{AdvertisedTrainIdent: "2", TripStartDate: "2024-03-01"},
		{AdvertisedTrainIdent: "1", TripStartDate: "2024-03-02"},
		{AdvertisedTrainIdent: "1", TripStartDate: "2024-03-01"},
	}
	merged := Merge(rows)
	require.Len(t, merged, 4)
	assert.Equal(t, "1", merged[0].AdvertisedTrainIdent)
	assert.Equal(t, "2024-03-01", merged[0].TripStartDate)
	assert.Equal(t, "2", merged[1].AdvertisedTrainIdent)
	assert.Equal(t, "1", merged[2].AdvertisedTrainIdent)
	assert.Equal(t, "2024-03-02", merged[2].TripStartDate)
	assert.Equal(t, "9", merged[3].AdvertisedTrainIdent)
}

func TestMergeEmpty(t *testing.T) {
	assert.Nil(t, Merge(nil))
}
