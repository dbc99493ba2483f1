package trafikverket

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Location is one entry of a FromLocation/ToLocation list.
type Location struct {
	LocationName string `json:"LocationName"`
	Priority     int    `json:"Priority"`
	Order        int    `json:"Order"`
}

// Deviation is one entry of a Deviation list.
type Deviation struct {
	Code        string `json:"Code"`
	Description string `json:"Description"`
}

// TrafficType is one entry of a TypeOfTraffic list.
type TrafficType struct {
	Code string `json:"Code"`
	Text string `json:"Text"`
}

// FlexBool accepts JSON booleans, the strings "true"/"false" and the
// numbers 0/1. Anything else decodes to false.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*b = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")):
		*b = false
	default:
		s := strings.Trim(string(data), `"`)
		if v, err := strconv.ParseBool(strings.ToLower(s)); err == nil {
			*b = FlexBool(v)
			return nil
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			*b = n != 0
			return nil
		}
		*b = false
	}
	return nil
}

// Announcement is one TrainAnnouncement record. Time fields are kept as raw
// strings; the normalizer owns all parsing so that a bad value nulls a field
// instead of failing the batch.
type Announcement struct {
	ActivityID                string        `json:"ActivityId"`
	ActivityType              string        `json:"ActivityType"`
	AdvertisedTrainIdent      string        `json:"AdvertisedTrainIdent"`
	AdvertisedTimeAtLocation  string        `json:"AdvertisedTimeAtLocation"`
	EstimatedTimeAtLocation   string        `json:"EstimatedTimeAtLocation"`
	TimeAtLocationWithSeconds string        `json:"TimeAtLocationWithSeconds"`
	LocationSignature         string        `json:"LocationSignature"`
	FromLocation              []Location    `json:"FromLocation"`
	ToLocation                []Location    `json:"ToLocation"`
	InformationOwner          string        `json:"InformationOwner"`
	Operator                  string        `json:"Operator"`
	TrainOwner                string        `json:"TrainOwner"`
	Canceled                  FlexBool      `json:"Canceled"`
	TypeOfTraffic             []TrafficType `json:"TypeOfTraffic"`
	Deviation                 []Deviation   `json:"Deviation"`
}

// UnmarshalJSON decodes field by field. The feed occasionally changes the
// shape of individual values; a mismatched field is left at its zero value
// rather than rejecting the whole record.
func (a *Announcement) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	decodeString(raw, "ActivityId", &a.ActivityID)
	decodeString(raw, "ActivityType", &a.ActivityType)
	decodeString(raw, "AdvertisedTrainIdent", &a.AdvertisedTrainIdent)
	decodeString(raw, "AdvertisedTimeAtLocation", &a.AdvertisedTimeAtLocation)
	decodeString(raw, "EstimatedTimeAtLocation", &a.EstimatedTimeAtLocation)
	decodeString(raw, "TimeAtLocationWithSeconds", &a.TimeAtLocationWithSeconds)
	decodeString(raw, "LocationSignature", &a.LocationSignature)
	decodeString(raw, "InformationOwner", &a.InformationOwner)
	decodeString(raw, "Operator", &a.Operator)
	decodeString(raw, "TrainOwner", &a.TrainOwner)
	if v, ok := raw["Canceled"]; ok {
		_ = a.Canceled.UnmarshalJSON(v)
	}
	decodeSoft(raw, "FromLocation", &a.FromLocation)
	decodeSoft(raw, "ToLocation", &a.ToLocation)
	decodeSoft(raw, "TypeOfTraffic", &a.TypeOfTraffic)
	decodeSoft(raw, "Deviation", &a.Deviation)
	return nil
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		*dst = s
		return
	}
	// Numbers arrive unquoted for some idents
	var n json.Number
	if err := json.Unmarshal(v, &n); err == nil {
		*dst = n.String()
	}
}

func decodeSoft[T any](raw map[string]json.RawMessage, key string, dst *T) {
	v, ok := raw[key]
	if !ok {
		return
	}
	_ = json.Unmarshal(v, dst)
}

type resultEnvelope struct {
	Response struct {
		Result []struct {
			TrainAnnouncement []Announcement `json:"TrainAnnouncement"`
		} `json:"RESULT"`
	} `json:"RESPONSE"`
}

// DecodeAnnouncements unwraps a RESPONSE/RESULT payload into its
// TrainAnnouncement records. An envelope with no RESULT entries yields an
// empty slice, not an error.
func DecodeAnnouncements(data []byte) ([]Announcement, error) {
	var env resultEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}
	if len(env.Response.Result) == 0 {
		return nil, nil
	}
	return env.Response.Result[0].TrainAnnouncement, nil
}
