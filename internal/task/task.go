package task

import (
	"encoding/json"

	"github.com/Matgenix/abiflows/internal/abinput"
)

// Task is one executable unit. It wraps a calculation input, the task-type
// tag and the declared dependencies on outputs of earlier tasks, keyed by
// the producing task's type.
type Task struct {
	Input     *abinput.Input `json:"input,omitempty"`
	Type      Type           `json:"task_type"`
	Deps      Deps           `json:"deps,omitempty"`
	Autoparal bool           `json:"autoparal"`

	// TargetDilatmx is set only on the constrained-relaxation variant.
	TargetDilatmx float64 `json:"target_dilatmx,omitempty"`

	// PhononFactory is set only on the phonon-generation task.
	PhononFactory *abinput.PhononFactory `json:"phonon_factory,omitempty"`
	PreviousType  Type                   `json:"previous_type,omitempty"`

	// OutCategories is set only on the cleanup task: the output-file
	// classes it deletes from the run directory.
	OutCategories []Category `json:"out_categories,omitempty"`

	// InsertionData and Criteria are set only on the db-insert task.
	InsertionData map[string]string `json:"insertion_data,omitempty"`
	Criteria      map[string]any    `json:"criteria,omitempty"`

	workdir string
}

// New creates a task of an arbitrary type wrapping the given input. The
// typed constructors below are preferred; New exists for the generic
// single-step workflow.
func New(in *abinput.Input, typ Type, autoparal bool) *Task {
	return &Task{Input: in, Type: typ, Autoparal: autoparal}
}

// NewSCF creates a self-consistent field task.
func NewSCF(in *abinput.Input, autoparal bool) *Task {
	return &Task{Input: in, Type: TypeSCF, Autoparal: autoparal}
}

// NewRelaxIon creates an ionic-positions relaxation task.
func NewRelaxIon(in *abinput.Input, autoparal bool) *Task {
	return &Task{Input: in, Type: TypeRelaxIon, Autoparal: autoparal}
}

// NewRelaxIoncell creates a positions-and-cell relaxation task.
func NewRelaxIoncell(in *abinput.Input, autoparal bool) *Task {
	return &Task{Input: in, Type: TypeRelaxIoncell, Autoparal: autoparal}
}

// NewRelaxDilatmx creates the constrained-relaxation variant that tightens
// dilatmx towards the given target across restarts.
func NewRelaxDilatmx(in *abinput.Input, autoparal bool, target float64) *Task {
	return &Task{Input: in, Type: TypeRelaxDilatmx, Autoparal: autoparal, TargetDilatmx: target}
}

// NewNSCF creates a non-self-consistent task with the given dependencies,
// typically the density file of a preceding SCF step.
func NewNSCF(in *abinput.Input, autoparal bool, deps Deps) *Task {
	return &Task{Input: in, Type: TypeNSCF, Autoparal: autoparal, Deps: deps}
}

// NewHybrid creates a one-shot hybrid-functional task.
func NewHybrid(in *abinput.Input, autoparal bool, deps Deps) *Task {
	return &Task{Input: in, Type: TypeHybrid, Autoparal: autoparal, Deps: deps}
}

// NewDDK creates a d/dk perturbation task.
func NewDDK(in *abinput.Input, autoparal bool, deps Deps) *Task {
	return &Task{Input: in, Type: TypeDDK, Autoparal: autoparal, Deps: deps}
}

// NewStrainPert creates a strain-perturbation task.
func NewStrainPert(in *abinput.Input, autoparal bool, deps Deps) *Task {
	return &Task{Input: in, Type: TypeStrainPert, Autoparal: autoparal, Deps: deps}
}

// NewGeneratePhonon creates the task that expands a phonon factory into
// perturbation steps once the ground state produced by prevType converged.
func NewGeneratePhonon(factory abinput.PhononFactory, prevType Type, withAutoparal bool) *Task {
	return &Task{
		Type:          TypeGeneratePhonon,
		Autoparal:     withAutoparal,
		PhononFactory: &factory,
		PreviousType:  prevType,
	}
}

// NewAnaddb creates a derivative-database analysis task.
func NewAnaddb(in *abinput.Input) *Task {
	return &Task{Input: in, Type: TypeAnaddb}
}

// NewMergeDDB creates the task merging per-perturbation derivative
// databases into one.
func NewMergeDDB() *Task {
	return &Task{Type: TypeMergeDDB}
}

// NewFinalCleanup creates the task deleting bulky output files from the
// run directory. With no categories given it removes wavefunction files.
func NewFinalCleanup(out []Category) *Task {
	if len(out) == 0 {
		out = []Category{CategoryWFK}
	}
	return &Task{Type: TypeFinalCleanup, OutCategories: out}
}

// NewDatabaseInsert creates the task extracting structured results and
// persisting them. With no insertion data given it stores the final
// structure and its history.
func NewDatabaseInsert(insertionData map[string]string, criteria map[string]any) *Task {
	if insertionData == nil {
		insertionData = map[string]string{"structure": "get_final_structure_and_history"}
	}
	return &Task{Type: TypeDatabaseInsert, InsertionData: insertionData, Criteria: criteria}
}

// SetWorkdir binds the task to the run directory of an actual launch. It
// is the only mutation allowed after construction and enables the result
// accessors.
func (t *Task) SetWorkdir(dir string) {
	t.workdir = dir
}

// Workdir returns the bound run directory, empty until SetWorkdir.
func (t *Task) Workdir() string {
	return t.workdir
}

// MarshalTasks serializes a task list for persistence.
func MarshalTasks(tasks []*Task) ([]byte, error) {
	return json.Marshal(tasks)
}

// UnmarshalTasks restores a task list from its persisted form.
func UnmarshalTasks(data []byte) ([]*Task, error) {
	var tasks []*Task
	if err := json.Unmarshal(data, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}
