package trips

import (
	"bytes"
	"time"

	"github.com/parquet-go/parquet-go"
)

// PlannedRow is the external column set for forecast snapshots. As with
// TripRow, the column names in the parquet tags are part of the output
// contract.
type PlannedRow struct {
	AdvertisedTrainIdent string     `parquet:"AdvertisedTrainIdent" json:"AdvertisedTrainIdent"`
	ServiceDate          string     `parquet:"service_date" json:"service_date"`
	TripDate             string     `parquet:"Tripdate" json:"Tripdate"`
	StartPlanned         *time.Time `parquet:"start_planned,optional" json:"start_planned"`
	EndPlanned           *time.Time `parquet:"end_planned,optional" json:"end_planned"`
	DurationMinutes      *float64   `parquet:"duration_minutes,optional" json:"duration_minutes"`
	StartStation         string     `parquet:"start_station" json:"start_station"`
	EndStation           string     `parquet:"end_station" json:"end_station"`
	StopsCount           int32      `parquet:"stops_count" json:"stops_count"`
	ThroughStations      *string    `parquet:"through_stations,optional" json:"through_stations"`
	AnyCanceled          int32      `parquet:"any_canceled" json:"any_canceled"`
	Operator             *string    `parquet:"Operator,optional" json:"Operator"`
	TrainOwner           *string    `parquet:"TrainOwner,optional" json:"TrainOwner"`
	FromLocations        *string    `parquet:"FromLocations,optional" json:"FromLocations"`
	ToLocations          *string    `parquet:"ToLocations,optional" json:"ToLocations"`
	StartOperator        *string    `parquet:"start_operator,optional" json:"start_operator"`
	StartOwner           *string    `parquet:"start_owner,optional" json:"start_owner"`
	StartTypeOfTraffic   *string    `parquet:"start_typeoftraffic,optional" json:"start_typeoftraffic"`
	StartDeviation       *string    `parquet:"start_deviation,optional" json:"start_deviation"`
	StartHour            *int32     `parquet:"start_hour,optional" json:"start_hour"`
	StartWeekday         *int32     `parquet:"start_weekday,optional" json:"start_weekday"`
	StartMonth           *int32     `parquet:"start_month,optional" json:"start_month"`
	IsWeekday            *int32     `parquet:"is_weekday,optional" json:"is_weekday"`
	DistanceKm           *float64   `parquet:"distance_km,optional" json:"distance_km"`
}

// PlannedRows maps built forecast trips onto the external column set.
func PlannedRows(trips []PlannedTrip) []PlannedRow {
	rows := make([]PlannedRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, PlannedRow{
			AdvertisedTrainIdent: t.TrainIdent,
			ServiceDate:          t.ServiceDate,
			TripDate:             t.ServiceDate,
			StartPlanned:         t.StartPlanned,
			EndPlanned:           t.EndPlanned,
			DurationMinutes:      t.DurationMinutes,
			StartStation:         t.StartStation,
			EndStation:           t.EndStation,
			StopsCount:           t.StopsCount,
			ThroughStations:      t.ThroughStations,
			AnyCanceled:          t.AnyCanceled,
			Operator:             t.Operator,
			TrainOwner:           t.TrainOwner,
			FromLocations:        t.FromLocations,
			ToLocations:          t.ToLocations,
			StartOperator:        t.StartOperator,
			StartOwner:           t.StartOwner,
			StartTypeOfTraffic:   t.StartTraffic,
			StartDeviation:       t.StartDeviation,
			StartHour:            t.StartHour,
			StartWeekday:         t.StartWeekday,
			StartMonth:           t.StartMonth,
			IsWeekday:            t.IsWeekday,
			DistanceKm:           t.DistanceKm,
		})
	}
	return rows
}

// EncodeTripRows serializes curated trip rows to parquet bytes.
func EncodeTripRows(rows []TripRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeTripRows reads curated trip rows back from parquet bytes.
func DecodeTripRows(data []byte) ([]TripRow, error) {
	return parquet.Read[TripRow](bytes.NewReader(data), int64(len(data)))
}

// EncodePlannedRows serializes forecast rows to parquet bytes.
func EncodePlannedRows(rows []PlannedRow) ([]byte, error) {
	var buf bytes.Buffer
	if err := parquet.Write(&buf, rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodePlannedRows reads forecast rows back from parquet bytes.
func DecodePlannedRows(data []byte) ([]PlannedRow, error) {
	return parquet.Read[PlannedRow](bytes.NewReader(data), int64(len(data)))
}
