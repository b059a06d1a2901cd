package flows

import (
	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// RelaxOptions extends the common options with the constrained-relaxation
// target: when TargetDilatmx is non-zero, the cell relaxation tightens
// dilatmx towards it across restarts.
type RelaxOptions struct {
	Options
	TargetDilatmx float64
}

// RelaxWorkflow is the two-step structural relaxation: ionic positions
// first, then positions and cell together.
type RelaxWorkflow struct {
	Workflow
	IonFw     *firework.Firework
	IoncellFw *firework.Firework
}

// NewRelax builds the relaxation pair from the two stage inputs.
func NewRelax(ionInput, ioncellInput *abinput.Input, opts RelaxOptions) (*RelaxWorkflow, error) {
	base := opts.baseSpec()

	ionSpec := base.WithStageID(stageid.First(stageid.StageIon, opts.Autoparal))
	ionFw := firework.New(ionSpec, fireworkName(ionInput, task.TypeRelaxIon),
		task.NewRelaxIon(ionInput, opts.Autoparal))

	ioncellSpec := base.WithStageID(stageid.First(stageid.StageIoncell, opts.Autoparal))
	var ioncellTask *task.Task
	if opts.TargetDilatmx != 0 {
		ioncellTask = task.NewRelaxDilatmx(ioncellInput, opts.Autoparal, opts.TargetDilatmx)
	} else {
		ioncellTask = task.NewRelaxIoncell(ioncellInput, opts.Autoparal)
	}
	ioncellFw := firework.New(ioncellSpec, fireworkName(ioncellInput, ioncellTask.Type), ioncellTask)

	graph, err := firework.NewWorkflow(workflowName(ionInput, KindRelax),
		[]*firework.Firework{ionFw, ioncellFw},
		map[*firework.Firework][]*firework.Firework{ionFw: {ioncellFw}},
		kindMetadata(KindRelax))
	if err != nil {
		return nil, err
	}
	return &RelaxWorkflow{
		Workflow:  Workflow{graph: graph, kind: KindRelax, profile: opts.profile()},
		IonFw:     ionFw,
		IoncellFw: ioncellFw,
	}, nil
}

// NewRelaxFromFactory generates the ion and ioncell inputs from
// high-level physical parameters, applies the decorators in list order to
// each, and builds the workflow.
func NewRelaxFromFactory(params abinput.FactoryParams, opts RelaxOptions) (*RelaxWorkflow, error) {
	ionInput, ioncellInput, err := abinput.IonIoncellRelaxInputs(params)
	if err != nil {
		return nil, err
	}
	ionInput = abinput.ApplyDecorators(ionInput, params.Decorators...)
	ioncellInput = abinput.ApplyDecorators(ioncellInput, params.Decorators...)
	return NewRelax(ionInput, ioncellInput, opts)
}
