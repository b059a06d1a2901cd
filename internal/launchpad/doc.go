// Package launchpad persists workflow graphs and their launch records in
// the execution engine's store, backed by SQLite.
//
// The assembly layer touches the store at exactly two points: submitting a
// freshly built graph, and reloading a completed or partially completed
// graph (containers, precedence links, metadata, launch history) for
// result retrieval. The results table is the persistence collaborator the
// database-insertion step writes extracted documents into. Execution
// itself (queuing, retries, distributed launch) stays with the engine.
package launchpad
