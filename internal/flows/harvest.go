package flows

import (
	"context"
	"fmt"

	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/launchpad"
)

// Harvest reloads a submitted workflow from the engine store, dispatches
// the result-extraction routine matching its recorded kind, and persists
// the extracted document. It returns the stored result id.
func Harvest(ctx context.Context, lp *launchpad.LaunchPad, workflowID string) (string, error) {
	wf, err := lp.GetWorkflow(ctx, workflowID)
	if err != nil {
		return "", err
	}
	kind, ok := KindOf(wf)
	if !ok {
		return "", fmt.Errorf("%w: graph carries no %s metadata", ErrWorkflowKindMismatch, MetadataKeyKind)
	}

	var (
		resultKind string
		document   map[string]any
	)
	switch kind {
	case KindRelax:
		resultKind = "structure"
		document, err = FinalStructureAndHistory(ctx, wf)
	case KindPiezoElastic:
		resultKind = "elastic_properties"
		document, err = ElasticTensorAndHistory(ctx, wf)
	default:
		return "", fmt.Errorf("flows: no result extraction for workflow kind %q", kind)
	}
	if err != nil {
		return "", err
	}

	id, err := lp.InsertResult(ctx, workflowID, resultKind, document)
	if err != nil {
		return "", err
	}
	ctxlog.FromContext(ctx).Info("Harvested workflow results.",
		"workflow_id", workflowID, "kind", resultKind, "result_id", id)
	return id, nil
}
