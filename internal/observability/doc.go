// Package observability provides the optional event log and metrics for the
// task list. Events are persisted as JSON Lines (JSONL) and metrics are
// derived on demand from the log.
package observability
