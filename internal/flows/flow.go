package flows

import (
	"context"

	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/launchpad"
	"github.com/Matgenix/abiflows/internal/task"
)

// Flow is the surface shared by every builder result. Callers that do not
// care which builder produced a workflow (the flow-file loader, the CLI)
// operate through it.
type Flow interface {
	Graph() *firework.Workflow
	Kind() Kind
	AddToLaunchPad(ctx context.Context, lp *launchpad.LaunchPad) (string, error)
	AddFinalCleanup(out []task.Category)
	AddMetadata(structure *abinput.Structure, extra map[string]any)
	AppendFirework(fw *firework.Firework, shortSingleSpec bool)
}
