package trips

import (
	"reflect"
	"time"
)

// TripRow is the stable external column set for curated trip snapshots. The
// parquet tags carry the backward-compatible column names downstream
// consumers depend on; the names are part of the output contract.
type TripRow struct {
	AdvertisedTrainIdent       string     `parquet:"AdvertisedTrainIdent" json:"AdvertisedTrainIdent"`
	TripStartDate              string     `parquet:"TripStartDate" json:"TripStartDate"`
	LocationSignatureDeparture *string    `parquet:"LocationSignatureDeparture,optional" json:"LocationSignatureDeparture"`
	LocationSignatureArrival   *string    `parquet:"LocationSignatureArrival,optional" json:"LocationSignatureArrival"`
	DepartureAdvertised        *time.Time `parquet:"DepartureAdvertised,optional" json:"DepartureAdvertised"`
	DepartureActual            *time.Time `parquet:"DepartureActual,optional" json:"DepartureActual"`
	ArrivalAdvertised          *time.Time `parquet:"ArrivalAdvertised,optional" json:"ArrivalAdvertised"`
	ArrivalActual              *time.Time `parquet:"ArrivalActual,optional" json:"ArrivalActual"`
	DelayMinutes               *float64   `parquet:"DelayMinutes,optional" json:"DelayMinutes"`
	DurationActualMinutes      *float64   `parquet:"DurationActualMinutes,optional" json:"DurationActualMinutes"`
	DistanceKm                 *float64   `parquet:"DistanceKm,optional" json:"DistanceKm"`
	Canceled                   bool       `parquet:"Canceled" json:"Canceled"`
	Operator                   *string    `parquet:"Operator,optional" json:"Operator"`
	TrainOwner                 *string    `parquet:"TrainOwner,optional" json:"TrainOwner"`
	TypeOfTraffic              *string    `parquet:"trip_typeoftraffic,optional" json:"trip_typeoftraffic"`
	DepartureStation           *string    `parquet:"departure_station,optional" json:"departure_station"`
	ArrivalStation             *string    `parquet:"arrival_station,optional" json:"arrival_station"`
	EndStationCounty           *string    `parquet:"end_station_county,optional" json:"end_station_county"`
	DeviationDescription       *string    `parquet:"Deviation_Description,optional" json:"Deviation_Description"`
	StartHour                  *int32     `parquet:"start_hour,optional" json:"start_hour"`
	StartDayOfMonth            *int32     `parquet:"start_day_of_month,optional" json:"start_day_of_month"`
	StartMonth                 *int32     `parquet:"start_month,optional" json:"start_month"`
	IsWeekday                  *int32     `parquet:"is_weekday,optional" json:"is_weekday"`
	IsDelayed                  int32      `parquet:"is_delayed" json:"is_delayed"`
}

// Reconcile maps internally built trips onto the external column set. The
// mapping is total: every output column exists for every row, with nil for
// anything the build left unknown. Applying Reconcile to already reconciled
// rows is the identity, so re-running the step is idempotent.
func Reconcile(trips []Trip) []TripRow {
	rows := make([]TripRow, 0, len(trips))
	for _, t := range trips {
		rows = append(rows, TripRow{
			AdvertisedTrainIdent:       t.TrainIdent,
			TripStartDate:              t.TripDate,
			LocationSignatureDeparture: t.StartStation,
			LocationSignatureArrival:   t.EndStation,
			DepartureAdvertised:        timePtr(t.StartPlanned),
			DepartureActual:            t.StartActual,
			ArrivalAdvertised:          timePtr(t.EndPlanned),
			ArrivalActual:              t.EndActual,
			DelayMinutes:               t.DelayMinutes,
			DurationActualMinutes:      t.DurationMin,
			DistanceKm:                 t.DistanceKm,
			Canceled:                   t.Canceled,
			Operator:                   t.Operator,
			TrainOwner:                 t.TrainOwner,
			TypeOfTraffic:              t.TypeOfTraffic,
			DepartureStation:           t.DepartureStation,
			ArrivalStation:             t.ArrivalStation,
			EndStationCounty:           t.EndStationCounty,
			DeviationDescription:       t.Deviation,
			StartHour:                  t.StartHour,
			StartDayOfMonth:            t.StartDayOfMonth,
			StartMonth:                 t.StartMonth,
			IsWeekday:                  t.IsWeekday,
			IsDelayed:                  t.IsDelayed,
		})
	}
	return rows
}

// Split partitions reconciled rows into the main set (at least one actual
// time present) and the fully-canceled set (both actual times null).
func Split(rows []TripRow) (main, fullyCanceled []TripRow) {
	for _, r := range rows {
		if r.DepartureActual == nil && r.ArrivalActual == nil {
			fullyCanceled = append(fullyCanceled, r)
		} else {
			main = append(main, r)
		}
	}
	return main, fullyCanceled
}

// NullCount is the completeness score of a row: the number of nil fields
// across all columns. Lower is more complete.
func (r TripRow) NullCount() int {
	v := reflect.ValueOf(r)
	count := 0
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		if f.Kind() == reflect.Pointer && f.IsNil() {
			count++
		}
	}
	return count
}
