// Package repository provides the keyed storage behind recipient lists and
// the failure log.
//
// Three backends implement Repository:
//
//   - Memory: process-local, for tests and single-instance deployments
//   - Redis: one hash per namespace plus a sorted set for insertion order
//   - Postgres: JSONB rows of the records table, see Migrations
//
// Values are serialized with a Marshaler (JSON by default) in the Redis and
// Postgres backends. Missing ids yield ErrNotFound from Get and Delete.
package repository
