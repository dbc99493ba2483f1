// Package pipeline orchestrates the curation steps: fetch raw announcement
// data, curate per-day snapshots, transform forecast payloads, and combine
// the dailies into the master table. Steps are independent and idempotent
// per day; re-running one overwrites its outputs.
package pipeline
