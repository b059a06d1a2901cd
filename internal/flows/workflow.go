package flows

import (
	"context"

	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/execspec"
	"github.com/Matgenix/abiflows/internal/firework"
	"github.com/Matgenix/abiflows/internal/launchpad"
	"github.com/Matgenix/abiflows/internal/stageid"
	"github.com/Matgenix/abiflows/internal/task"
)

// The engine truncates container names; keep appended bookkeeping names
// within the limit up front.
const containerNameLimit = 15

// Workflow is the common base every builder result embeds: the assembled
// graph, its kind, and the queue profile for appended bookkeeping steps.
type Workflow struct {
	graph   *firework.Workflow
	kind    Kind
	profile execspec.QueueProfile
}

// Graph returns the assembled workflow graph.
func (w *Workflow) Graph() *firework.Workflow {
	return w.graph
}

// Kind returns the builder kind recorded on the graph.
func (w *Workflow) Kind() Kind {
	return w.kind
}

// AddToLaunchPad submits the graph to the engine store and returns the
// assigned workflow id.
func (w *Workflow) AddToLaunchPad(ctx context.Context, lp *launchpad.LaunchPad) (string, error) {
	return lp.AddWorkflow(ctx, w.graph)
}

// shortSingleCoreSpec builds the spec for appended bookkeeping containers:
// one core, the short queue profile, no initialization info of its own.
func (w *Workflow) shortSingleCoreSpec() execspec.Spec {
	return execspec.New().ShortSingleCore(w.profile)
}

// AppendFirework appends an arbitrary follow-up container after all
// current terminal containers. With shortSingleSpec the container's spec
// is downgraded to the short single-core profile first.
func (w *Workflow) AppendFirework(fw *firework.Firework, shortSingleSpec bool) {
	if shortSingleSpec {
		fw.Spec = fw.Spec.ShortSingleCore(w.profile)
	}
	w.graph.Append(fw)
}

// AddFinalCleanup appends a high-priority terminal container deleting the
// given output-file categories (wavefunction files when none are given)
// from the run directories.
func (w *Workflow) AddFinalCleanup(out []task.Category) {
	spec := w.shortSingleCoreSpec().
		WithPriority(100).
		WithStageID(stageid.Unindexed(stageid.StageCleanup))
	fw := firework.New(spec, truncate(w.graph.Name+"_cleanup"), task.NewFinalCleanup(out))
	w.graph.Append(fw)
}

// AddDBInsertAndCleanup appends a terminal container that first extracts
// and persists structured results as described by insertionData, then
// deletes the given output-file categories.
func (w *Workflow) AddDBInsertAndCleanup(resultsDB string, insertionData map[string]string, criteria map[string]any, out []task.Category) {
	spec := w.shortSingleCoreSpec().
		WithPriority(100).
		WithStageID(stageid.Unindexed(stageid.StageDBInsert))
	spec.Set(execspec.KeyResultsDB, resultsDB)
	fw := firework.New(spec, truncate(w.graph.Name+"_insclnup"),
		task.NewDatabaseInsert(insertionData, criteria),
		task.NewFinalCleanup(out))
	w.graph.Append(fw)
}

// AddAnaddbStep appends a derivative-database analysis container for the
// piezo-elastic properties of the given structure.
func (w *Workflow) AddAnaddbStep(structure *abinput.Structure) {
	spec := w.shortSingleCoreSpec().
		WithStageID(stageid.Unindexed(stageid.StageAnaddb))
	fw := firework.New(spec, "anaddb", task.NewAnaddb(abinput.AnaddbPiezoElasticInput(structure)))
	w.graph.Append(fw)
}

// AddMergeDDBStep appends a container merging the derivative databases
// produced by the ground-state and strain-perturbation steps.
func (w *Workflow) AddMergeDDBStep() {
	spec := w.shortSingleCoreSpec().
		WithStageID(stageid.Unindexed(stageid.StageMrgddb))
	spec.Set(execspec.KeyDDBTaskTypes, []string{string(task.TypeSCF), string(task.TypeStrainPert)})
	fw := firework.New(spec, "mrgddb", task.NewMergeDDB())
	w.graph.Append(fw)
}

// AddMetadata derives a human-readable summary from the structure and
// merges it, together with any caller-supplied fields, into the graph
// metadata. Neither side's entries are dropped.
func (w *Workflow) AddMetadata(structure *abinput.Structure, extra map[string]any) {
	metadata := map[string]any{"wf_type": string(w.kind)}
	if structure != nil {
		metadata["nsites"] = structure.NumSites()
		metadata["elements"] = structure.Elements()
		metadata["reduced_formula"] = structure.ReducedFormula()
	}
	for k, v := range extra {
		metadata[k] = v
	}
	for k, v := range metadata {
		w.graph.Metadata[k] = v
	}
}

// reducedFormulaOf extracts the reduced formula from a calculation input,
// or "" when the input carries no structure.
func reducedFormulaOf(in *abinput.Input) string {
	if in == nil || in.Structure() == nil {
		return ""
	}
	return in.Structure().ReducedFormula()
}

func truncate(name string) string {
	if len(name) > containerNameLimit {
		return name[:containerNameLimit]
	}
	return name
}

// kindMetadata is the metadata mapping every builder stores on its graph.
func kindMetadata(kind Kind) map[string]any {
	return map[string]any{MetadataKeyKind: string(kind)}
}

// workflowName derives the graph name from the reduced formula and kind.
func workflowName(in *abinput.Input, kind Kind) string {
	if rf := reducedFormulaOf(in); rf != "" {
		return rf + "_" + string(kind)
	}
	return string(kind)
}

// fireworkName derives a container name from the reduced formula and the
// task type, matching the engine's name-length limit.
func fireworkName(in *abinput.Input, typ task.Type) string {
	if rf := reducedFormulaOf(in); rf != "" {
		return truncate(rf + "_" + string(typ))
	}
	return truncate(string(typ))
}
