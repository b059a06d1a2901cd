// Package execspec models the execution specification attached to each
// execution container: a flat string-keyed mapping carrying the CPU count,
// queue-adapter parameters and free-form bookkeeping entries.
//
// Specs have value semantics. Every derivation helper deep-copies the
// underlying mapping first, so mutating one container's spec can never
// retroactively affect a sibling container built earlier from the same
// base mapping.
package execspec
