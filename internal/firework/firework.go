package firework

import (
	"time"

	"github.com/Matgenix/abiflows/internal/execspec"
	"github.com/Matgenix/abiflows/internal/task"
)

// Firework is one execution container: an ordered list of tasks sharing an
// execution spec. EngineID is zero until the engine assigns an identity at
// submission; before that the pointer itself is the local handle.
type Firework struct {
	Name     string
	Tasks    []*task.Task
	Spec     execspec.Spec
	EngineID int
}

// New creates a container from a spec and its tasks.
func New(spec execspec.Spec, name string, tasks ...*task.Task) *Firework {
	return &Firework{Name: name, Tasks: tasks, Spec: spec}
}

// LastTask returns the final task of the container, the one whose result
// accessors retrieval binds to. Nil for an empty container.
func (fw *Firework) LastTask() *task.Task {
	if len(fw.Tasks) == 0 {
		return nil
	}
	return fw.Tasks[len(fw.Tasks)-1]
}

// LaunchState is the engine-reported state of one launch attempt.
type LaunchState string

const (
	LaunchStateRunning   LaunchState = "RUNNING"
	LaunchStateCompleted LaunchState = "COMPLETED"
	LaunchStateFizzled   LaunchState = "FIZZLED"
)

// Launch is one launch attempt of a container, recorded by the engine.
type Launch struct {
	ID          string
	Dir         string
	RuntimeSecs float64
	State       LaunchState
	Archived    bool
	StartedAt   time.Time
}
