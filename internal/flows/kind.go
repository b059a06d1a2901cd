package flows

import (
	"errors"
	"fmt"

	"github.com/Matgenix/abiflows/internal/firework"
)

// MetadataKeyKind is the graph-metadata key carrying the workflow kind.
const MetadataKeyKind = "workflow_kind"

// Kind identifies which builder produced a workflow graph. Result
// retrieval dispatches on it instead of trusting the caller.
type Kind string

const (
	KindInput         Kind = "input"
	KindSCF           Kind = "scf"
	KindRelax         Kind = "relax"
	KindNSCF          Kind = "nscf"
	KindHybridOneShot Kind = "hybrid_one_shot"
	KindPhonon        Kind = "phonon"
	KindPiezoElastic  Kind = "piezo_elastic"
)

// ErrWorkflowKindMismatch is returned when a retrieval helper is invoked
// on a graph produced by a different builder.
var ErrWorkflowKindMismatch = errors.New("flows: workflow kind mismatch")

// KindOf reads the workflow kind from a graph's metadata.
func KindOf(wf *firework.Workflow) (Kind, bool) {
	raw, ok := wf.Metadata[MetadataKeyKind]
	if !ok {
		return "", false
	}
	kind, ok := raw.(string)
	if !ok {
		return "", false
	}
	return Kind(kind), true
}

// requireKind guards the retrieval helpers against graphs produced by a
// different builder.
func requireKind(wf *firework.Workflow, want Kind) error {
	got, ok := KindOf(wf)
	if !ok {
		return fmt.Errorf("%w: graph carries no %s metadata", ErrWorkflowKindMismatch, MetadataKeyKind)
	}
	if got != want {
		return fmt.Errorf("%w: got %q, want %q", ErrWorkflowKindMismatch, got, want)
	}
	return nil
}
