// Package store abstracts the durable object storage the pipeline reads and
// writes. Backends: local filesystem, Postgres blob table, and an in-memory
// double for tests.
package store
