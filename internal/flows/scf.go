package flows

import (
	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// InputWorkflow wraps a single calculation of an arbitrary task type.
type InputWorkflow struct {
	Workflow
	Fw *firework.Firework
}

// NewInput builds a one-container workflow around a caller-chosen task type.
func NewInput(in *abinput.Input, typ task.Type, opts Options) (*InputWorkflow, error) {
	spec := opts.baseSpec()
	fw := firework.New(spec, fireworkName(in, typ), task.New(in, typ, opts.Autoparal))

	graph, err := firework.NewWorkflow(workflowName(in, KindInput),
		[]*firework.Firework{fw}, nil, kindMetadata(KindInput))
	if err != nil {
		return nil, err
	}
	return &InputWorkflow{
		Workflow: Workflow{graph: graph, kind: KindInput, profile: opts.profile()},
		Fw:       fw,
	}, nil
}

// SCFWorkflow is the single self-consistent field calculation.
type SCFWorkflow struct {
	Workflow
	SCFFw *firework.Firework
}

// NewSCF builds a one-container SCF workflow.
func NewSCF(in *abinput.Input, opts Options) (*SCFWorkflow, error) {
	spec := opts.baseSpec().WithStageID(stageid.First(stageid.StageSCF, opts.Autoparal))
	fw := firework.New(spec, fireworkName(in, task.TypeSCF), task.NewSCF(in, opts.Autoparal))

	graph, err := firework.NewWorkflow(workflowName(in, KindSCF),
		[]*firework.Firework{fw}, nil, kindMetadata(KindSCF))
	if err != nil {
		return nil, err
	}
	return &SCFWorkflow{
		Workflow: Workflow{graph: graph, kind: KindSCF, profile: opts.profile()},
		SCFFw:    fw,
	}, nil
}

// NewSCFFromFactory generates the SCF input from high-level physical
// parameters, applies the decorators in list order, and builds the
// workflow.
func NewSCFFromFactory(params abinput.FactoryParams, opts Options) (*SCFWorkflow, error) {
	in, err := abinput.SCFInput(params)
	if err != nil {
		return nil, err
	}
	in = abinput.ApplyDecorators(in, params.Decorators...)
	return NewSCF(in, opts)
}
