package flows

import (
	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// HybridOneShotWorkflow is the ground state followed by a one-shot
// hybrid-functional calculation on its wavefunctions.
type HybridOneShotWorkflow struct {
	Workflow
	SCFFw    *firework.Firework
	HybridFw *firework.Firework
}

// NewHybridOneShot builds the SCF -> hybrid chain.
func NewHybridOneShot(scfInput, hybridInput *abinput.Input, opts Options) (*HybridOneShotWorkflow, error) {
	base := opts.baseSpec()

	scfTask := task.NewSCF(scfInput, opts.Autoparal)
	scfFw := firework.New(base.WithStageID(stageid.First(stageid.StageSCF, opts.Autoparal)),
		fireworkName(scfInput, scfTask.Type), scfTask)

	hybridTask := task.NewHybrid(hybridInput, opts.Autoparal, task.Deps{scfTask.Type: task.CategoryWFK})
	hybridFw := firework.New(base.WithStageID(stageid.First(stageid.StageHybrid, opts.Autoparal)),
		fireworkName(scfInput, hybridTask.Type), hybridTask)

	graph, err := firework.NewWorkflow(workflowName(scfInput, KindHybridOneShot),
		[]*firework.Firework{scfFw, hybridFw},
		map[*firework.Firework][]*firework.Firework{scfFw: {hybridFw}},
		kindMetadata(KindHybridOneShot))
	if err != nil {
		return nil, err
	}
	return &HybridOneShotWorkflow{
		Workflow: Workflow{graph: graph, kind: KindHybridOneShot, profile: opts.profile()},
		SCFFw:    scfFw,
		HybridFw: hybridFw,
	}, nil
}

// NewHybridOneShotFromFactory generates both inputs from high-level
// physical parameters and builds the workflow.
func NewHybridOneShotFromFactory(params abinput.FactoryParams, hybrid abinput.HybridOptions, opts Options) (*HybridOneShotWorkflow, error) {
	scfInput, err := abinput.SCFInput(params)
	if err != nil {
		return nil, err
	}
	scfInput = abinput.ApplyDecorators(scfInput, params.Decorators...)

	hybridInput, err := abinput.HybridOneShotInput(params, hybrid)
	if err != nil {
		return nil, err
	}
	hybridInput = abinput.ApplyDecorators(hybridInput, params.Decorators...)

	return NewHybridOneShot(scfInput, hybridInput, opts)
}
