package flows

import "errors"

var (
	// ErrFinalStepNotFound is returned when no container in a graph
	// matches the stage the retrieval helper expects.
	ErrFinalStepNotFound = errors.New("flows: final step not found")

	// ErrNoLaunches is returned when the located container has no
	// recorded launch attempts to bind a run directory from.
	ErrNoLaunches = errors.New("flows: no launches recorded")

	// ErrNotImplemented marks from-factory construction paths that do not
	// exist yet.
	ErrNotImplemented = errors.New("flows: not implemented")
)
