package flows

import (
	"context"

	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/firework"
)

// RuntimeSecs accumulates a core-hours proxy over a graph's containers:
// autoparal dry runs contribute their plain runtime, production stage
// containers contribute runtime multiplied by their CPU count. Containers
// without a stage tag or without launches (bookkeeping steps, unlaunched
// steps) contribute nothing.
func RuntimeSecs(ctx context.Context, wf *firework.Workflow) float64 {
	logger := ctxlog.FromContext(ctx)

	var total float64
	for _, fw := range wf.Fireworks() {
		id, ok, err := fw.Spec.StageID()
		if err != nil {
			logger.Debug("Skipping container with malformed stage index.", "container", fw.Name, "error", err)
			continue
		}
		if !ok {
			continue
		}
		launch, hasLaunch := wf.LastLaunch(fw)
		if !hasLaunch {
			continue
		}
		switch {
		case id.Autoparal:
			total += launch.RuntimeSecs
		case id.HasIndex():
			total += launch.RuntimeSecs * float64(fw.Spec.CPUCount())
		}
	}
	return total
}
