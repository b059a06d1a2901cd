package stageid

// Stage identifies the role of a container within a workflow.
type Stage string

// Stages used by the stock workflow builders.
const (
	StageIon        Stage = "ion"
	StageIoncell    Stage = "ioncell"
	StageSCF        Stage = "scf"
	StageNSCF       Stage = "nscf"
	StageHybrid     Stage = "hybrid"
	StageDDK        Stage = "ddk"
	StageStrainPert Stage = "strain_pert"
	StageGenPh      Stage = "gen_ph"
	StageAnaddb     Stage = "anaddb"
	StageMrgddb     Stage = "mrgddb"
	StageCleanup    Stage = "cleanup"
	StageDBInsert   Stage = "db_insert"
)

// AutoparalSentinel is the index suffix marking an autoparal dry run.
const AutoparalSentinel = "autoparal"

// ID is the structured representation of a container's stage index.
// Index is -1 when the stage carries no sequence number.
type ID struct {
	Stage     Stage
	Index     int
	Autoparal bool
}

// New creates an ID with an explicit sequence number.
func New(stage Stage, index int) ID {
	return ID{Stage: stage, Index: index}
}

// Unindexed creates an ID for a stage that never repeats.
func Unindexed(stage Stage) ID {
	return ID{Stage: stage, Index: -1}
}

// First returns the ID a builder assigns to a stage's initial container:
// sequence 1 for a production run, or the autoparal sentinel for a dry run.
func First(stage Stage, autoparal bool) ID {
	if autoparal {
		return ID{Stage: stage, Index: -1, Autoparal: true}
	}
	return ID{Stage: stage, Index: 1}
}

// HasIndex returns true if the ID carries an explicit sequence number.
func (id ID) HasIndex() bool {
	return id.Index != -1
}
