package pipeline

import (
	"fmt"
	"time"
)

// Object-store layout. Raw payloads are JSON, curated snapshots parquet.
const (
	RawPrefix         = "raw/"
	CuratedPrefix     = "curated/"
	PlannedRawPrefix  = "raw/planned/"
	PlannedOutPrefix  = "curated/planned/"
	StationInfoPath   = "raw/station_info.json"
	TotalPath         = "curated/trips_combined_total.parquet"
	PlannedLatestPath = "curated/planned/trips_planned_latest.parquet"
)

const (
	compactDate = "20060102"
	isoDate     = "2006-01-02"
)

func rawDeparturesPath(day time.Time) string {
	return fmt.Sprintf("%sdepartures_%s.json", RawPrefix, day.Format(compactDate))
}

func rawArrivalsPath(day time.Time) string {
	return fmt.Sprintf("%sarrivals_%s.json", RawPrefix, day.Format(compactDate))
}

func curatedPath(day time.Time) string {
	return fmt.Sprintf("%strips_combined_%s.parquet", CuratedPrefix, day.Format(compactDate))
}

func curatedCanceledPath(day time.Time) string {
	return fmt.Sprintf("%strips_combined_%s_canceled.parquet", CuratedPrefix, day.Format(compactDate))
}

// kind is "departures" or "arrivals".
func plannedRawPath(kind, dateISO string) string {
	return fmt.Sprintf("%s%s_%s.json", PlannedRawPrefix, kind, dateISO)
}

func plannedOutPath(dateISO string) string {
	return fmt.Sprintf("%strips_planned_%s.parquet", PlannedOutPrefix, dateISO)
}
