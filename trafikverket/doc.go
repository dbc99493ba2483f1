// Package trafikverket is the client for the Trafikverket open rail-traffic
// API (TrainAnnouncement object, schema 1.9).
//
// It contains:
//   - XML query builders for windowed historical and forecast queries
//   - An HTTP client with bounded retries (exponential backoff on rate
//     limits, linear on other transient failures)
//   - Soft-decoding record types that tolerate the feed's loosely shaped
//     nested fields
package trafikverket
