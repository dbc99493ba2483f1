package trips

import "time"

// Source tags for point-events, matching the raw file each record came from.
const (
	SourceDepartures = "departures"
	SourceArrivals   = "arrivals"
)

// PointEvent is one observed or planned activity of a train at a location,
// produced by the normalizer. Optional fields are nil when the source value
// was absent or unparseable.
type PointEvent struct {
	ActivityID    string
	TrainIdent    string
	ActivityType  string
	Signature     string // normalized: trimmed, inner whitespace removed, uppercase
	Advertised    *time.Time
	Actual        *time.Time
	Estimated     *time.Time
	Operator      *string
	TrainOwner    *string
	Canceled      bool
	TypeOfTraffic *string
	Deviation     *string
	FromLocations *string // comma-joined distinct names
	ToLocations   *string
	Source        string
	TripDate      string // YYYY-MM-DD of the advertised time; empty when unknown
}

// Trip is one train's journey on one service day, reduced from its
// point-events by the first-departure/last-arrival rule.
type Trip struct {
	TrainIdent      string
	TripDate        string
	StartPlanned    time.Time
	StartActual     *time.Time
	StartStation    *string
	EndPlanned      time.Time
	EndActual       *time.Time
	EndStation      *string
	Canceled        bool
	DelayMinutes    *float64
	DurationMin     *float64
	Operator        *string
	TrainOwner      *string
	TypeOfTraffic   *string
	Deviation       *string
	StartHour       *int32
	StartDayOfMonth *int32
	StartMonth      *int32
	IsWeekday       *int32
	IsDelayed       int32

	// Enrichment, filled by Enrich.
	DepartureStation *string
	ArrivalStation   *string
	EndStationCounty *string
	DistanceKm       *float64
}

// Station is one row of the station reference table.
type Station struct {
	Signature string // normalized
	Name      *string
	County    *string
	Lat       *float64
	Lon       *float64
}

// PlannedTrip is the forecast-data variant of Trip. Endpoint stations fall
// back to the announcement's from/to location lists when the signature is
// missing, so a one-sided group still yields a best-effort trip.
type PlannedTrip struct {
	TrainIdent      string
	ServiceDate     string
	StartPlanned    *time.Time
	EndPlanned      *time.Time
	DurationMinutes *float64
	StartStation    string
	EndStation      string
	StopsCount      int32
	ThroughStations *string
	AnyCanceled     int32
	Operator        *string
	TrainOwner      *string
	FromLocations   *string
	ToLocations     *string
	StartOperator   *string
	StartOwner      *string
	StartTraffic    *string
	StartDeviation  *string
	StartHour       *int32
	StartWeekday    *int32
	StartMonth      *int32
	IsWeekday       *int32
	DistanceKm      *float64
}

func strPtr(s string) *string        { return &s }
func f64Ptr(v float64) *float64      { return &v }
func i32Ptr(v int32) *int32          { return &v }
func timePtr(t time.Time) *time.Time { return &t }
