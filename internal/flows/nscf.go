package flows

import (
	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// NSCFWorkflow is the ground state plus non-self-consistent band
// structure pair. The NSCF step consumes the density file of the SCF step.
type NSCFWorkflow struct {
	Workflow
	SCFFw  *firework.Firework
	NSCFFw *firework.Firework
}

// NewNSCF builds the SCF -> NSCF chain.
func NewNSCF(scfInput, nscfInput *abinput.Input, opts Options) (*NSCFWorkflow, error) {
	base := opts.baseSpec()

	scfTask := task.NewSCF(scfInput, opts.Autoparal)
	scfFw := firework.New(base.WithStageID(stageid.First(stageid.StageSCF, opts.Autoparal)),
		fireworkName(scfInput, scfTask.Type), scfTask)

	nscfTask := task.NewNSCF(nscfInput, opts.Autoparal, task.Deps{scfTask.Type: task.CategoryDEN})
	nscfFw := firework.New(base.WithStageID(stageid.First(stageid.StageNSCF, opts.Autoparal)),
		fireworkName(nscfInput, nscfTask.Type), nscfTask)

	graph, err := firework.NewWorkflow(workflowName(scfInput, KindNSCF),
		[]*firework.Firework{scfFw, nscfFw},
		map[*firework.Firework][]*firework.Firework{scfFw: {nscfFw}},
		kindMetadata(KindNSCF))
	if err != nil {
		return nil, err
	}
	return &NSCFWorkflow{
		Workflow: Workflow{graph: graph, kind: KindNSCF, profile: opts.profile()},
		SCFFw:    scfFw,
		NSCFFw:   nscfFw,
	}, nil
}
