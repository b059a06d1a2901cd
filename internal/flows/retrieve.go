package flows

import (
	"context"
	"fmt"

	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/history"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// FinalStructureAndHistory locates the authoritative final relaxation
// container in a completed (or partially completed) relax graph, binds its
// task to the run directory of the most recent launch, and returns the
// relaxed structure together with the run's history record.
func FinalStructureAndHistory(ctx context.Context, wf *firework.Workflow) (map[string]any, error) {
	if err := requireKind(wf, KindRelax); err != nil {
		return nil, err
	}

	final, err := maxIndexedStage(ctx, wf, stageid.StageIoncell)
	if err != nil {
		return nil, err
	}
	tsk, dir, err := bindLastLaunch(wf, final)
	if err != nil {
		return nil, err
	}

	structure, err := tsk.FinalStructure()
	if err != nil {
		return nil, fmt.Errorf("final structure of %q: %w", final.Name, err)
	}
	record, err := history.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("history of %q: %w", final.Name, err)
	}
	return map[string]any{"structure": structure, "history": record}, nil
}

// ElasticTensorAndHistory locates the derivative-database analysis
// container in a piezo-elastic graph and returns the extracted elastic
// properties together with the run's history record.
func ElasticTensorAndHistory(ctx context.Context, wf *firework.Workflow) (map[string]any, error) {
	if err := requireKind(wf, KindPiezoElastic); err != nil {
		return nil, err
	}

	var final *firework.Firework
	for _, fw := range wf.Fireworks() {
		id, ok, err := fw.Spec.StageID()
		if err != nil || !ok {
			continue
		}
		if id.Stage == stageid.StageAnaddb {
			final = fw
			break
		}
	}
	if final == nil {
		return nil, fmt.Errorf("%w: no %s container in graph", ErrFinalStepNotFound, stageid.StageAnaddb)
	}

	tsk, dir, err := bindLastLaunch(wf, final)
	if err != nil {
		return nil, err
	}
	tensor, err := tsk.ElasticTensor()
	if err != nil {
		return nil, fmt.Errorf("elastic tensor of %q: %w", final.Name, err)
	}
	record, err := history.Load(dir)
	if err != nil {
		return nil, fmt.Errorf("history of %q: %w", final.Name, err)
	}
	return map[string]any{"elastic_properties": tensor.ExtendedMap(), "history": record}, nil
}

// maxIndexedStage scans the graph's containers in creation order and
// returns the one carrying the highest sequence number for the given
// stage. Autoparal sentinels and unindexed or malformed stage tags are
// skipped, not fatal. On equal indices the first container found wins;
// creation order makes that deterministic.
func maxIndexedStage(ctx context.Context, wf *firework.Workflow, stage stageid.Stage) (*firework.Firework, error) {
	logger := ctxlog.FromContext(ctx)

	best := -1
	var bestFw *firework.Firework
	for _, fw := range wf.Fireworks() {
		id, ok, err := fw.Spec.StageID()
		if err != nil {
			logger.Debug("Skipping container with malformed stage index.", "container", fw.Name, "error", err)
			continue
		}
		if !ok || id.Stage != stage || !id.HasIndex() {
			continue
		}
		if id.Index > best {
			best = id.Index
			bestFw = fw
		}
	}
	if bestFw == nil {
		return nil, fmt.Errorf("%w: no %s container with a sequence number", ErrFinalStepNotFound, stage)
	}
	return bestFw, nil
}

// bindLastLaunch binds a container's result-bearing task to the run
// directory of its most recent launch attempt.
func bindLastLaunch(wf *firework.Workflow, fw *firework.Firework) (*task.Task, string, error) {
	launch, ok := wf.LastLaunch(fw)
	if !ok {
		return nil, "", fmt.Errorf("%w for container %q", ErrNoLaunches, fw.Name)
	}
	last := fw.LastTask()
	if last == nil {
		return nil, "", fmt.Errorf("container %q has no tasks", fw.Name)
	}
	last.SetWorkdir(launch.Dir)
	return last, launch.Dir, nil
}
