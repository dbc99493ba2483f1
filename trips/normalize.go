package trips

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nordrail/traintrips/trafikverket"
)

// ErrMissingColumn reports a structural batch error: a field the pipeline
// cannot work without is absent from every record of a non-empty batch.
var ErrMissingColumn = errors.New("required field missing from batch")

// Mode selects which list-field representation the normalizer produces.
// The actual-data path keeps the first element's code (the historical file
// layout); the planned path keeps all distinct texts joined by comma.
type Mode int

const (
	ModeActual Mode = iota
	ModePlanned
)

// Normalize flattens raw announcements into point-events. Individual
// malformed records become events with nulled fields; the only hard error is
// a required field missing from the entire batch on the actual-data path.
func Normalize(anns []trafikverket.Announcement, source string, mode Mode) ([]PointEvent, error) {
	if mode == ModeActual {
		if err := checkRequired(anns); err != nil {
			return nil, err
		}
	}

	events := make([]PointEvent, 0, len(anns))
	for _, a := range anns {
		adv := ParseTime(a.AdvertisedTimeAtLocation)
		ev := PointEvent{
			ActivityID:   strings.TrimSpace(a.ActivityID),
			TrainIdent:   strings.TrimSpace(a.AdvertisedTrainIdent),
			ActivityType: strings.TrimSpace(a.ActivityType),
			Signature:    NormalizeSignature(a.LocationSignature),
			Advertised:   adv,
			Actual:       ParseTime(a.TimeAtLocationWithSeconds),
			Estimated:    ParseTime(a.EstimatedTimeAtLocation),
			Canceled:     bool(a.Canceled),
			Source:       source,
			TripDate:     tripDateOf(adv),
		}
		if s := strings.TrimSpace(a.Operator); s != "" {
			ev.Operator = strPtr(s)
		}
		if s := strings.TrimSpace(a.TrainOwner); s != "" {
			ev.TrainOwner = strPtr(s)
		}
		ev.FromLocations = joinDistinct(locationNames(a.FromLocation))
		ev.ToLocations = joinDistinct(locationNames(a.ToLocation))

		switch mode {
		case ModeActual:
			// First element wins, mirroring the flattened historical layout.
			if len(a.TypeOfTraffic) > 0 && strings.TrimSpace(a.TypeOfTraffic[0].Code) != "" {
				ev.TypeOfTraffic = strPtr(strings.TrimSpace(a.TypeOfTraffic[0].Code))
			}
			if len(a.Deviation) > 0 && strings.TrimSpace(a.Deviation[0].Description) != "" {
				ev.Deviation = strPtr(strings.TrimSpace(a.Deviation[0].Description))
			}
		case ModePlanned:
			ev.TypeOfTraffic = joinDistinct(trafficTexts(a.TypeOfTraffic))
			ev.Deviation = joinDistinct(deviationTexts(a.Deviation))
		}

		events = append(events, ev)
	}
	return events, nil
}

// checkRequired fails only when a structurally required field is missing
// from the whole batch, not from individual records.
func checkRequired(anns []trafikverket.Announcement) error {
	if len(anns) == 0 {
		return nil
	}
	var hasIdent, hasType, hasSig, hasAdvertised bool
	for _, a := range anns {
		hasIdent = hasIdent || strings.TrimSpace(a.AdvertisedTrainIdent) != ""
		hasType = hasType || strings.TrimSpace(a.ActivityType) != ""
		hasSig = hasSig || strings.TrimSpace(a.LocationSignature) != ""
		hasAdvertised = hasAdvertised || strings.TrimSpace(a.AdvertisedTimeAtLocation) != ""
	}
	var missing []string
	if !hasIdent {
		missing = append(missing, "AdvertisedTrainIdent")
	}
	if !hasType {
		missing = append(missing, "ActivityType")
	}
	if !hasSig {
		missing = append(missing, "LocationSignature")
	}
	if !hasAdvertised {
		missing = append(missing, "AdvertisedTimeAtLocation")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

func locationNames(locs []trafikverket.Location) []string {
	out := make([]string, 0, len(locs))
	for _, l := range locs {
		out = append(out, l.LocationName)
	}
	return out
}

func trafficTexts(tt []trafikverket.TrafficType) []string {
	out := make([]string, 0, len(tt))
	for _, t := range tt {
		out = append(out, t.Text)
	}
	return out
}

func deviationTexts(devs []trafikverket.Deviation) []string {
	out := make([]string, 0, len(devs))
	for _, d := range devs {
		out = append(out, d.Description)
	}
	return out
}

// joinDistinct trims, de-duplicates in order and joins by comma; nil when
// nothing remains.
func joinDistinct(values []string) *string {
	var items []string
	seen := make(map[string]bool)
	for _, v := range values {
		s := strings.TrimSpace(v)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		items = append(items, s)
	}
	if len(items) == 0 {
		return nil
	}
	return strPtr(strings.Join(items, ","))
}
