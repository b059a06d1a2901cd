package flowfile

import (
	"context"
	"fmt"

	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/flows"
)

// knownFlowTypes maps flow-block type labels to builders handled by Build.
var knownFlowTypes = map[string]bool{
	string(flows.KindSCF):           true,
	string(flows.KindRelax):         true,
	string(flows.KindNSCF):          true,
	string(flows.KindHybridOneShot): true,
	string(flows.KindPhonon):        true,
	string(flows.KindPiezoElastic):  true,
}

// Build loads the definition's structure, assembles the factory
// parameters, and dispatches to the builder selected by the flow type.
// Caller-supplied metadata from the block is merged onto the graph.
func Build(ctx context.Context, def *Def) (flows.Flow, error) {
	logger := ctxlog.FromContext(ctx)

	structure, err := abinput.LoadStructure(def.StructurePath)
	if err != nil {
		return nil, fmt.Errorf("flow %q: %w", def.Name, err)
	}
	params := def.factoryParams(structure)
	opts := flows.Options{
		Autoparal:          def.Autoparal,
		InitializationInfo: def.initializationInfo(),
	}

	var flow flows.Flow
	switch def.Type {
	case string(flows.KindSCF):
		flow, err = flows.NewSCFFromFactory(params, opts)
	case string(flows.KindRelax):
		flow, err = flows.NewRelaxFromFactory(params, flows.RelaxOptions{
			Options:       opts,
			TargetDilatmx: def.TargetDilatmx,
		})
	case string(flows.KindNSCF):
		flow, err = buildNSCF(params, def, opts)
	case string(flows.KindHybridOneShot):
		flow, err = flows.NewHybridOneShotFromFactory(params, abinput.HybridOptions{
			Functional: def.Functional,
			EcutSigx:   def.EcutSigx,
			GWQPRange:  def.GWQPRange,
		}, opts)
	case string(flows.KindPhonon):
		flow, err = flows.NewPhononFromFactory(params, flows.PhononOptions{
			Options: opts,
			Factory: abinput.PhononFactory{
				PhNgqpt: def.PhNgqpt,
				WithDDK: def.WithDDK,
				WithDDE: def.WithDDE,
				WithBEC: def.WithBEC,
			},
			SCFTol: def.SCFTol,
		})
	case string(flows.KindPiezoElastic):
		flow, err = flows.NewPiezoElasticFromFactory(params, opts)
	default:
		return nil, fmt.Errorf("flow %q: unknown flow type %q", def.Name, def.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("build flow %q: %w", def.Name, err)
	}

	if def.Metadata != nil {
		flow.AddMetadata(structure, def.Metadata)
	}
	logger.Debug("Flow assembled.",
		"flow", def.Name, "type", def.Type, "containers", len(flow.Graph().Fireworks()))
	return flow, nil
}

// buildNSCF derives the band-structure input from the ground-state input,
// then assembles the two-step workflow.
func buildNSCF(params abinput.FactoryParams, def *Def, opts flows.Options) (flows.Flow, error) {
	scfInput, err := abinput.SCFInput(params)
	if err != nil {
		return nil, err
	}
	nscfInput := abinput.NSCFInputFromSCF(scfInput, def.NBand)
	return flows.NewNSCF(scfInput, nscfInput, opts)
}

// factoryParams assembles the factory parameters from the definition.
func (d *Def) factoryParams(structure *abinput.Structure) abinput.FactoryParams {
	return abinput.FactoryParams{
		Structure:    structure,
		Pseudos:      d.Pseudos,
		KPPA:         d.KPPA,
		Ecut:         d.Ecut,
		PawEcutDG:    d.PawEcutDG,
		NBand:        d.NBand,
		Accuracy:     d.Accuracy,
		SpinMode:     d.SpinMode,
		Smearing:     d.Smearing,
		ShiftMode:    d.ShiftMode,
		Charge:       d.Charge,
		SCFAlgorithm: d.SCFAlgorithm,
		ExtraVars:    d.ExtraVars,
	}
}

// initializationInfo is the record stored on every container's spec so a
// completed run can be traced back to its flow definition.
func (d *Def) initializationInfo() map[string]any {
	info := map[string]any{
		"flow_name":      d.Name,
		"structure_file": d.StructurePath,
	}
	if d.KPPA > 0 {
		info["kppa"] = d.KPPA
	}
	if d.Ecut > 0 {
		info["ecut"] = d.Ecut
	}
	return info
}
