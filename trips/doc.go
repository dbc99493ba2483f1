// Package trips is the trip-construction and reconciliation engine.
//
// It turns loosely structured point-events (one record per train, location,
// activity type and time) into one coherent trip record per train and
// service date, in five stages:
//
//   - Normalize: flatten nested feed fields into typed point-events
//   - Build / BuildPlanned: reduce each (train, date) group to one trip
//   - Enrich: resolve stations and compute great-circle distance
//   - Reconcile / Split: map onto the stable external column set
//   - Merge: deduplicate across overlapping source files, most complete
//     record wins
//
// Groups are independent; no stage keeps cross-group state.
package trips
