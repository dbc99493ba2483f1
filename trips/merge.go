package trips

import "sort"

// Merge combines rows from many curated files into one deduplicated set.
//
// Rows are ranked by completeness (fewest null fields first, stable for
// ties), then deduplicated on (train ident, trip date) keeping the first
// occurrence, so the most complete version of a trip wins when it appears in
// more than one source file. The result is re-sorted by (trip date, train
// ident) for deterministic downstream consumption.
func Merge(rows []TripRow) []TripRow {
	if len(rows) == 0 {
		return nil
	}

	type scored struct {
		row   TripRow
		nulls int
	}
	ranked := make([]scored, 0, len(rows))
	for _, r := range rows {
		ranked = append(ranked, scored{row: r, nulls: r.NullCount()})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].nulls < ranked[j].nulls
	})

	type key struct{ train, date string }
	seen := make(map[key]bool, len(ranked))
	out := make([]TripRow, 0, len(ranked))
	for _, s := range ranked {
		k := key{s.row.AdvertisedTrainIdent, s.row.TripStartDate}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, s.row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TripStartDate != out[j].TripStartDate {
			return out[i].TripStartDate < out[j].TripStartDate
		}
		return out[i].AdvertisedTrainIdent < out[j].AdvertisedTrainIdent
	})
	return out
}
