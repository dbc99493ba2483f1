package trips

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"
)

// Signature column aliases accepted in the station reference table, tried in
// order.
var signatureAliases = []string{
	"LocationSignature", "PrimaryLocationCode", "Signature", "LocationCode",
}

var pointRe = regexp.MustCompile(`POINT\s*\(\s*([-+]?\d+(?:\.\d+)?)\s+([-+]?\d+(?:\.\d+)?)\s*\)`)

// EarthRadiusKm is the sphere radius used for great-circle distances.
const EarthRadiusKm = 6371.0

// ParseStations decodes the station reference table from its raw JSON form.
// Records are loosely shaped; the signature column name is resolved against
// the alias list and its absence is the only hard error. Rows whose geometry
// fails to parse keep null coordinates.
func ParseStations(data []byte) ([]Station, error) {
	var records []map[string]any
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode station table: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	sigKey := ""
	for _, alias := range signatureAliases {
		for _, rec := range records {
			if _, ok := rec[alias]; ok {
				sigKey = alias
				break
			}
		}
		if sigKey != "" {
			break
		}
	}
	if sigKey == "" {
		return nil, fmt.Errorf("station table has no signature column (tried %s)",
			strings.Join(signatureAliases, ", "))
	}

	stations := make([]Station, 0, len(records))
	for _, rec := range records {
		sig, _ := rec[sigKey].(string)
		sig = NormalizeSignature(sig)
		if sig == "" {
			continue
		}
		st := Station{Signature: sig}
		if name, ok := rec["OfficialLocationName"].(string); ok && name != "" {
			st.Name = strPtr(name)
		}
		if county, ok := rec["CountyName"].(string); ok && county != "" {
			st.County = strPtr(county)
		}
		st.Lat, st.Lon = parsePointWGS84(rec["Geometry"])
		stations = append(stations, st)
	}
	return stations, nil
}

// parsePointWGS84 extracts lat/lon from a geometry value holding a
// `POINT (<lon> <lat>)` string, either directly or under a WGS84 key.
func parsePointWGS84(geom any) (*float64, *float64) {
	var wkt string
	switch g := geom.(type) {
	case string:
		wkt = g
	case map[string]any:
		if s, ok := g["WGS84"].(string); ok {
			wkt = s
		}
	default:
		return nil, nil
	}
	m := pointRe.FindStringSubmatch(wkt)
	if m == nil {
		return nil, nil
	}
	lon := ParseFloat(m[1])
	lat := ParseFloat(m[2])
	return lat, lon
}

// Haversine returns the great-circle distance in kilometers.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	phi1 := lat1 * math.Pi / 180
	phi2 := lat2 * math.Pi / 180
	dphi := (lat2 - lat1) * math.Pi / 180
	dlambda := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(dphi/2)*math.Sin(dphi/2) +
		math.Cos(phi1)*math.Cos(phi2)*math.Sin(dlambda/2)*math.Sin(dlambda/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusKm * c
}

// StationIndex is the normalized-signature lookup used by both pipelines.
type StationIndex map[string]Station

// NewStationIndex keeps the first row per signature.
func NewStationIndex(stations []Station) StationIndex {
	idx := make(StationIndex, len(stations))
	for _, st := range stations {
		if _, ok := idx[st.Signature]; !ok {
			idx[st.Signature] = st
		}
	}
	return idx
}

// Distance returns the great-circle distance between two signatures, nil
// when either endpoint has unknown coordinates.
func (idx StationIndex) Distance(fromSig, toSig string) *float64 {
	from, okF := idx[NormalizeSignature(fromSig)]
	to, okT := idx[NormalizeSignature(toSig)]
	if !okF || !okT || from.Lat == nil || from.Lon == nil || to.Lat == nil || to.Lon == nil {
		return nil
	}
	return f64Ptr(Haversine(*from.Lat, *from.Lon, *to.Lat, *to.Lon))
}

// Enrich resolves trip endpoint stations against the reference table and
// computes endpoint distance. A nil or empty index degrades to all-null
// enrichment columns instead of failing the batch.
func Enrich(trips []Trip, idx StationIndex, logger *slog.Logger) {
	if len(trips) == 0 {
		return
	}
	if len(idx) == 0 {
		logger.Warn("station table unavailable, enrichment columns stay null")
		return
	}

	var matchedStart, matchedEnd int
	for i := range trips {
		t := &trips[i]
		if t.StartStation != nil {
			if st, ok := idx[NormalizeSignature(*t.StartStation)]; ok {
				t.DepartureStation = st.Name
				if st.Name != nil {
					matchedStart++
				}
			}
		}
		if t.EndStation != nil {
			if st, ok := idx[NormalizeSignature(*t.EndStation)]; ok {
				t.ArrivalStation = st.Name
				t.EndStationCounty = st.County
				if st.Name != nil {
					matchedEnd++
				}
			}
		}
		if t.StartStation != nil && t.EndStation != nil {
			t.DistanceKm = idx.Distance(*t.StartStation, *t.EndStation)
		}
	}

	total := len(trips)
	logger.Info("station enrichment",
		"departure_matched", fmt.Sprintf("%d/%d (%.1f%%)", matchedStart, total, 100*float64(matchedStart)/float64(total)),
		"arrival_matched", fmt.Sprintf("%d/%d (%.1f%%)", matchedEnd, total, 100*float64(matchedEnd)/float64(total)))
}
