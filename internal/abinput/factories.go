package abinput

import (
	"errors"
	"fmt"
)

// Defaults applied by the factories when the caller leaves a parameter
// unset. They match the upstream input-generation conventions.
const (
	DefaultAccuracy  = "normal"
	DefaultSpinMode  = "polarized"
	DefaultSmearing  = "fermi_dirac:0.1 eV"
	DefaultShiftMode = "Monkhorst-Pack"
)

var (
	// ErrNoStructure is returned when a factory is invoked without a structure.
	ErrNoStructure = errors.New("abinput: factory requires a structure")
	// ErrNoPseudos is returned when a factory is invoked without pseudopotentials.
	ErrNoPseudos = errors.New("abinput: factory requires pseudopotentials")
)

// FactoryParams are the high-level physical parameters accepted by the
// input factories.
type FactoryParams struct {
	Structure    *Structure
	Pseudos      []string
	KPPA         int
	Ecut         float64
	PawEcutDG    float64
	NBand        int
	Accuracy     string
	SpinMode     string
	Smearing     string
	Charge       float64
	SCFAlgorithm string
	ShiftMode    string
	ExtraVars    map[string]any
	Decorators   []Decorator
}

func (p FactoryParams) validate() error {
	if p.Structure == nil {
		return ErrNoStructure
	}
	if len(p.Pseudos) == 0 {
		return ErrNoPseudos
	}
	return nil
}

// base builds the ground-state variables shared by every factory.
func (p FactoryParams) base() *Input {
	accuracy := p.Accuracy
	if accuracy == "" {
		accuracy = DefaultAccuracy
	}
	spinMode := p.SpinMode
	if spinMode == "" {
		spinMode = DefaultSpinMode
	}
	smearing := p.Smearing
	if smearing == "" {
		smearing = DefaultSmearing
	}
	shiftMode := p.ShiftMode
	if shiftMode == "" {
		shiftMode = DefaultShiftMode
	}

	in := NewInput(p.Structure)
	in.SetVars(map[string]any{
		"pseudos":    p.Pseudos,
		"accuracy":   accuracy,
		"spin_mode":  spinMode,
		"smearing":   smearing,
		"shift_mode": shiftMode,
		"charge":     p.Charge,
	})
	if p.KPPA > 0 {
		in.SetVar("kppa", p.KPPA)
	}
	if p.Ecut > 0 {
		in.SetVar("ecut", p.Ecut)
	}
	if p.PawEcutDG > 0 {
		in.SetVar("pawecutdg", p.PawEcutDG)
	}
	if p.NBand > 0 {
		in.SetVar("nband", p.NBand)
	}
	if p.SCFAlgorithm != "" {
		in.SetVar("scf_algorithm", p.SCFAlgorithm)
	}
	in.SetVars(p.ExtraVars)
	return in
}

// SCFInput generates a self-consistent field ground-state input.
func SCFInput(p FactoryParams) (*Input, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	in := p.base()
	in.SetVar("iscf", 17)
	if _, ok := in.Var("tolvrs"); !ok {
		in.SetVar("tolvrs", 1e-10)
	}
	return in, nil
}

// IonIoncellRelaxInputs generates the pair of relaxation inputs: first the
// ionic positions only, then positions and cell together.
func IonIoncellRelaxInputs(p FactoryParams) (ion, ioncell *Input, err error) {
	if err := p.validate(); err != nil {
		return nil, nil, err
	}
	ion = p.base()
	ion.SetVars(map[string]any{
		"ionmov":  2,
		"optcell": 0,
		"ntime":   80,
		"tolmxf":  5e-5,
	})

	ioncell = p.base()
	ioncell.SetVars(map[string]any{
		"ionmov":  2,
		"optcell": 2,
		"ntime":   80,
		"tolmxf":  5e-5,
		"dilatmx": 1.05,
		"ecutsm":  0.5,
	})
	return ion, ioncell, nil
}

// NSCFInputFromSCF derives a non-self-consistent band-structure input from
// a ground-state input.
func NSCFInputFromSCF(scf *Input, nband int) *Input {
	in := scf.Clone()
	in.SetVars(map[string]any{
		"iscf":   -2,
		"tolwfr": 1e-20,
	})
	if nband > 0 {
		in.SetVar("nband", nband)
	}
	return in
}

// HybridOptions selects the hybrid functional applied on top of a
// ground-state calculation.
type HybridOptions struct {
	Functional string // default "hse06"
	EcutSigx   float64
	GWQPRange  int // default 1
}

// HybridOneShotInput generates a one-shot hybrid-functional input.
func HybridOneShotInput(p FactoryParams, opts HybridOptions) (*Input, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	functional := opts.Functional
	if functional == "" {
		functional = "hse06"
	}
	qpRange := opts.GWQPRange
	if qpRange == 0 {
		qpRange = 1
	}

	in := p.base()
	in.SetVars(map[string]any{
		"functional": functional,
		"gw_qprange": qpRange,
	})
	if opts.EcutSigx > 0 {
		in.SetVar("ecutsigx", opts.EcutSigx)
	}
	return in, nil
}

// ScfForPhononsInput generates a ground-state input tightened for a
// subsequent phonon calculation.
func ScfForPhononsInput(p FactoryParams, scfTol float64) (*Input, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	if scfTol == 0 {
		scfTol = 1e-22
	}
	in := p.base()
	in.SetVars(map[string]any{
		"iscf":   17,
		"tolwfr": scfTol,
	})
	return in, nil
}

// DDKInput generates a d/dk response-function perturbation input.
func DDKInput(p FactoryParams) (*Input, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	in := p.base()
	in.SetVars(map[string]any{
		"rfelfd": 2,
		"rfdir":  []int{1, 1, 1},
		"iscf":   -3,
	})
	return in, nil
}

// StrainPertInput generates a strain-perturbation response-function input.
func StrainPertInput(p FactoryParams) (*Input, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	in := p.base()
	in.SetVars(map[string]any{
		"rfstrs": 3,
		"rfdir":  []int{1, 1, 1},
		"kptopt": 2,
	})
	return in, nil
}

// AnaddbPiezoElasticInput generates the post-processing input extracting
// piezoelectric and elastic tensors from a merged derivative database.
func AnaddbPiezoElasticInput(structure *Structure) *Input {
	in := NewInput(structure)
	in.SetVars(map[string]any{
		"elaflag":   3,
		"piezoflag": 3,
		"instrflag": 1,
	})
	return in
}

// PhononFactory is a deferred generator for the perturbation inputs of a
// phonon flow. It is carried by the generation task and expanded by the
// engine after the ground state is converged, so this layer only validates
// and transports it.
type PhononFactory struct {
	PhNgqpt []int          `json:"ph_ngqpt,omitempty"`
	WithDDK bool           `json:"with_ddk"`
	WithDDE bool           `json:"with_dde"`
	WithBEC bool           `json:"with_bec"`
	PhTol   float64        `json:"ph_tol,omitempty"`
	DDKTol  float64        `json:"ddk_tol,omitempty"`
	DDETol  float64        `json:"dde_tol,omitempty"`
	Extra   map[string]any `json:"extra,omitempty"`
}

// Validate rejects option combinations the generator cannot expand.
func (f PhononFactory) Validate() error {
	if f.WithBEC && !f.WithDDE {
		return fmt.Errorf("abinput: Born effective charges require the DDE perturbation")
	}
	return nil
}
