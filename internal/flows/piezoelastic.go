package flows

import (
	"fmt"

	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// PiezoElasticWorkflow is the derivative-response triple computing
// piezoelectric and elastic tensors: ground state, d/dk perturbation,
// strain perturbation, plus the appended analysis step.
type PiezoElasticWorkflow struct {
	Workflow
	SCFFw        *firework.Firework
	DDKFw        *firework.Firework
	StrainPertFw *firework.Firework
}

// NewPiezoElastic builds the SCF -> DDK -> strain-perturbation chain and
// appends the derivative-database analysis container.
func NewPiezoElastic(scfInput, ddkInput, rfInput *abinput.Input, opts Options) (*PiezoElasticWorkflow, error) {
	base := opts.baseSpec()

	scfTask := task.NewSCF(scfInput, opts.Autoparal)
	scfFw := firework.New(base.WithStageID(stageid.First(stageid.StageSCF, opts.Autoparal)),
		fireworkName(scfInput, scfTask.Type), scfTask)

	ddkTask := task.NewDDK(ddkInput, opts.Autoparal, task.Deps{scfTask.Type: task.CategoryWFK})
	ddkFw := firework.New(base.WithStageID(stageid.First(stageid.StageDDK, opts.Autoparal)),
		fireworkName(scfInput, ddkTask.Type), ddkTask)

	rfTask := task.NewStrainPert(rfInput, opts.Autoparal,
		task.Deps{scfTask.Type: task.CategoryWFK, ddkTask.Type: task.CategoryDDK})
	rfFw := firework.New(base.WithStageID(stageid.First(stageid.StageStrainPert, opts.Autoparal)),
		fireworkName(scfInput, rfTask.Type), rfTask)

	graph, err := firework.NewWorkflow(workflowName(scfInput, KindPiezoElastic),
		[]*firework.Firework{scfFw, ddkFw, rfFw},
		map[*firework.Firework][]*firework.Firework{scfFw: {ddkFw}, ddkFw: {rfFw}},
		kindMetadata(KindPiezoElastic))
	if err != nil {
		return nil, err
	}

	wf := &PiezoElasticWorkflow{
		Workflow:     Workflow{graph: graph, kind: KindPiezoElastic, profile: opts.profile()},
		SCFFw:        scfFw,
		DDKFw:        ddkFw,
		StrainPertFw: rfFw,
	}
	wf.AddAnaddbStep(scfInput.Structure())
	return wf, nil
}

// NewPiezoElasticFromFactory is not implemented yet: generating the three
// perturbation inputs from high-level parameters requires the symmetry
// analysis the input library does not expose.
func NewPiezoElasticFromFactory(params abinput.FactoryParams, opts Options) (*PiezoElasticWorkflow, error) {
	return nil, fmt.Errorf("%w: piezo-elastic from-factory construction", ErrNotImplemented)
}
