package flows

import (
	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// PhononOptions extends the common options with the phonon generator and
// the tightened ground-state tolerance.
type PhononOptions struct {
	Options
	Factory abinput.PhononFactory
	SCFTol  float64
}

// PhononWorkflow is the ground state followed by the task that expands
// the phonon factory into perturbation steps once the state converged.
type PhononWorkflow struct {
	Workflow
	SCFFw          *firework.Firework
	PhGenerationFw *firework.Firework
}

// NewPhonon builds the SCF -> phonon-generation chain.
func NewPhonon(scfInput *abinput.Input, factory abinput.PhononFactory, opts Options) (*PhononWorkflow, error) {
	if err := factory.Validate(); err != nil {
		return nil, err
	}
	base := opts.baseSpec()

	scfTask := task.NewSCF(scfInput, opts.Autoparal)
	scfFw := firework.New(base.WithStageID(stageid.First(stageid.StageSCF, opts.Autoparal)),
		fireworkName(scfInput, scfTask.Type), scfTask)

	genTask := task.NewGeneratePhonon(factory, scfTask.Type, opts.Autoparal)
	genName := "gen_ph"
	if rf := reducedFormulaOf(scfInput); rf != "" {
		genName = truncate(rf + "_gen_ph")
	}
	genFw := firework.New(base.WithStageID(stageid.Unindexed(stageid.StageGenPh)), genName, genTask)

	graph, err := firework.NewWorkflow(workflowName(scfInput, KindPhonon),
		[]*firework.Firework{scfFw, genFw},
		map[*firework.Firework][]*firework.Firework{scfFw: {genFw}},
		kindMetadata(KindPhonon))
	if err != nil {
		return nil, err
	}
	return &PhononWorkflow{
		Workflow:       Workflow{graph: graph, kind: KindPhonon, profile: opts.profile()},
		SCFFw:          scfFw,
		PhGenerationFw: genFw,
	}, nil
}

// NewPhononFromFactory generates the tightened ground-state input from
// high-level physical parameters and builds the workflow around the given
// phonon generator.
func NewPhononFromFactory(params abinput.FactoryParams, opts PhononOptions) (*PhononWorkflow, error) {
	scfInput, err := abinput.ScfForPhononsInput(params, opts.SCFTol)
	if err != nil {
		return nil, err
	}
	scfInput = abinput.ApplyDecorators(scfInput, params.Decorators...)
	return NewPhonon(scfInput, opts.Factory, opts.Options)
}
