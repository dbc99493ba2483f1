package trafikverket

import (
	"fmt"
	"strings"
	"time"
)

// Fields requested for the actual-data (historical) queries.
var windowIncludes = []string{
	"ActivityId", "ActivityType", "AdvertisedTrainIdent",
	"AdvertisedTimeAtLocation", "EstimatedTimeAtLocation", "TimeAtLocationWithSeconds",
	"LocationSignature", "FromLocation", "ToLocation",
	"InformationOwner", "TrainOwner", "Canceled", "Operator",
	"TypeOfTraffic", "Deviation",
}

// Fields requested for the planned-data (forecast) queries.
var plannedIncludes = []string{
	"ActivityId", "AdvertisedTrainIdent", "AdvertisedTimeAtLocation",
	"LocationSignature", "FromLocation", "ToLocation",
	"Operator", "InformationOwner", "TrainOwner", "Canceled",
	"TypeOfTraffic", "Deviation",
}

const timeLayout = "2006-01-02T15:04:05"

// BuildWindowQuery builds the XML query for one half-open advertised-time
// window [t0, t1) of TrainAnnouncement records.
func BuildWindowQuery(key string, t0, t1 time.Time, limit int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<REQUEST>\n")
	fmt.Fprintf(&b, "  <LOGIN authenticationkey=%q />\n", key)
	fmt.Fprintf(&b, "  <QUERY objecttype=\"TrainAnnouncement\" schemaversion=\"1.9\"\n")
	fmt.Fprintf(&b, "         orderby=\"AdvertisedTimeAtLocation\" limit=\"%d\">\n", limit)
	fmt.Fprintf(&b, "    <FILTER>\n      <AND>\n")
	fmt.Fprintf(&b, "        <GTE name=\"AdvertisedTimeAtLocation\" value=%q/>\n", t0.Format(timeLayout))
	fmt.Fprintf(&b, "        <LT  name=\"AdvertisedTimeAtLocation\" value=%q/>\n", t1.Format(timeLayout))
	fmt.Fprintf(&b, "      </AND>\n    </FILTER>\n")
	for _, f := range windowIncludes {
		fmt.Fprintf(&b, "    <INCLUDE>%s</INCLUDE>\n", f)
	}
	fmt.Fprintf(&b, "  </QUERY>\n</REQUEST>")
	return b.String()
}

// BuildPlannedQuery builds the XML query for all forecast records of one
// activity type in the half-open UTC interval (startISO, endISO).
func BuildPlannedQuery(key, activityType, startISO, endISO string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<REQUEST>\n")
	fmt.Fprintf(&b, "  <LOGIN authenticationkey=%q />\n", key)
	fmt.Fprintf(&b, "  <QUERY objecttype=\"TrainAnnouncement\" schemaversion=\"1.9\">\n")
	fmt.Fprintf(&b, "    <FILTER>\n      <AND>\n")
	fmt.Fprintf(&b, "        <EQ name=\"ActivityType\" value=%q/>\n", activityType)
	fmt.Fprintf(&b, "        <GT name=\"AdvertisedTimeAtLocation\" value=%q/>\n", startISO)
	fmt.Fprintf(&b, "        <LT name=\"AdvertisedTimeAtLocation\" value=%q/>\n", endISO)
	fmt.Fprintf(&b, "      </AND>\n    </FILTER>\n")
	for _, f := range plannedIncludes {
		fmt.Fprintf(&b, "    <INCLUDE>%s</INCLUDE>\n", f)
	}
	fmt.Fprintf(&b, "  </QUERY>\n</REQUEST>")
	return b.String()
}
