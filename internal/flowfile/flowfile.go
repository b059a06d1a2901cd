package flowfile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/Matgenix/abiflows/internal/ctxlog"
	"github.com/Matgenix/abiflows/internal/fsutil"
)

// Def is one decoded flow definition: which builder to use, which
// structure to feed it, and the physical parameters of the calculation.
// Zero-valued fields mean "use the factory default".
type Def struct {
	Type string
	Name string

	StructurePath string
	Pseudos       []string
	KPPA          int
	Ecut          float64
	PawEcutDG     float64
	NBand         int
	Accuracy      string
	SpinMode      string
	Smearing      string
	ShiftMode     string
	SCFAlgorithm  string
	Charge        float64
	ExtraVars     map[string]any

	Autoparal     bool
	TargetDilatmx float64
	SCFTol        float64

	Functional string
	EcutSigx   float64
	GWQPRange  int

	WithDDK bool
	WithDDE bool
	WithBEC bool
	PhNgqpt []int

	Metadata map[string]any

	// source is the file the block was decoded from, for error messages.
	source string
}

// hclFlowFile is the top-level structure of a flow file for decoding.
type hclFlowFile struct {
	Flows []*hclFlow `hcl:"flow,block"`
}

// hclFlow is a single 'flow' block.
type hclFlow struct {
	Type string `hcl:"type,label"`
	Name string `hcl:"name,label"`

	Structure    string   `hcl:"structure"`
	Pseudos      []string `hcl:"pseudos,optional"`
	KPPA         *int     `hcl:"kppa,optional"`
	Ecut         *float64 `hcl:"ecut,optional"`
	PawEcutDG    *float64 `hcl:"pawecutdg,optional"`
	NBand        *int     `hcl:"nband,optional"`
	Accuracy     *string  `hcl:"accuracy,optional"`
	SpinMode     *string  `hcl:"spin_mode,optional"`
	Smearing     *string  `hcl:"smearing,optional"`
	ShiftMode    *string  `hcl:"shift_mode,optional"`
	SCFAlgorithm *string  `hcl:"scf_algorithm,optional"`
	Charge       *float64 `hcl:"charge,optional"`

	Autoparal     *bool    `hcl:"autoparal,optional"`
	TargetDilatmx *float64 `hcl:"target_dilatmx,optional"`
	SCFTol        *float64 `hcl:"scf_tol,optional"`

	Functional *string  `hcl:"functional,optional"`
	EcutSigx   *float64 `hcl:"ecutsigx,optional"`
	GWQPRange  *int     `hcl:"gw_qprange,optional"`

	WithDDK *bool `hcl:"with_ddk,optional"`
	WithDDE *bool `hcl:"with_dde,optional"`
	WithBEC *bool `hcl:"with_bec,optional"`
	PhNgqpt []int `hcl:"ph_ngqpt,optional"`

	ExtraVars hcl.Expression `hcl:"extra_vars,optional"`
	Metadata  hcl.Expression `hcl:"metadata,optional"`
}

// Load parses the .hcl file at path, or every .hcl file under it when
// path is a directory, and returns the decoded flow definitions in file
// order.
func Load(ctx context.Context, path string) ([]*Def, error) {
	logger := ctxlog.FromContext(ctx)

	files, err := fsutil.FindByExtension(path, ".hcl")
	if err != nil {
		return nil, fmt.Errorf("find flow files in %s: %w", path, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .hcl flow files found in %s", path)
	}

	parser := hclparse.NewParser()
	var defs []*Def
	for _, file := range files {
		fileDefs, err := loadFile(file, parser)
		if err != nil {
			return nil, err
		}
		defs = append(defs, fileDefs...)
	}
	logger.Debug("Flow definitions loaded.", "path", path, "flows_found", len(defs))
	return defs, nil
}

// loadFile parses one HCL file and returns the flow blocks found within it.
func loadFile(path string, parser *hclparse.Parser) ([]*Def, error) {
	hclFile, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parse flow file %s: %w", path, diags)
	}

	var parsed hclFlowFile
	if diags := gohcl.DecodeBody(hclFile.Body, nil, &parsed); diags.HasErrors() {
		return nil, fmt.Errorf("decode flow file %s: %w", path, diags)
	}

	defs := make([]*Def, 0, len(parsed.Flows))
	for _, block := range parsed.Flows {
		def, err := newDef(block, path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// newDef validates a decoded flow block and flattens it into a Def.
func newDef(block *hclFlow, path string) (*Def, error) {
	if !knownFlowTypes[block.Type] {
		return nil, fmt.Errorf("flow %q in %s: unknown flow type %q, valid types are: %s",
			block.Name, path, block.Type, strings.Join(flowTypeNames(), ", "))
	}

	def := &Def{
		Type:          block.Type,
		Name:          block.Name,
		StructurePath: block.Structure,
		Pseudos:       block.Pseudos,
		PhNgqpt:       block.PhNgqpt,
		source:        path,
	}
	setIf(&def.KPPA, block.KPPA)
	setIf(&def.Ecut, block.Ecut)
	setIf(&def.PawEcutDG, block.PawEcutDG)
	setIf(&def.NBand, block.NBand)
	setIf(&def.Accuracy, block.Accuracy)
	setIf(&def.SpinMode, block.SpinMode)
	setIf(&def.Smearing, block.Smearing)
	setIf(&def.ShiftMode, block.ShiftMode)
	setIf(&def.SCFAlgorithm, block.SCFAlgorithm)
	setIf(&def.Charge, block.Charge)
	setIf(&def.Autoparal, block.Autoparal)
	setIf(&def.TargetDilatmx, block.TargetDilatmx)
	setIf(&def.SCFTol, block.SCFTol)
	setIf(&def.Functional, block.Functional)
	setIf(&def.EcutSigx, block.EcutSigx)
	setIf(&def.GWQPRange, block.GWQPRange)
	setIf(&def.WithDDK, block.WithDDK)
	setIf(&def.WithDDE, block.WithDDE)
	setIf(&def.WithBEC, block.WithBEC)

	var err error
	if def.ExtraVars, err = mappingAttr(block.ExtraVars, "extra_vars", block.Name, path); err != nil {
		return nil, err
	}
	if def.Metadata, err = mappingAttr(block.Metadata, "metadata", block.Name, path); err != nil {
		return nil, err
	}
	return def, nil
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// mappingAttr evaluates an optional object-valued attribute into a plain
// Go mapping.
func mappingAttr(expr hcl.Expression, attr, flowName, path string) (map[string]any, error) {
	if expr == nil {
		return nil, nil
	}
	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("flow %q in %s: evaluate %s: %w", flowName, path, attr, diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if !val.Type().IsObjectType() && !val.Type().IsMapType() {
		return nil, fmt.Errorf("flow %q in %s: %s must be an object", flowName, path, attr)
	}
	out := make(map[string]any, val.LengthInt())
	for k, v := range val.AsValueMap() {
		out[k] = goValue(v)
	}
	return out, nil
}

// goValue converts an evaluated cty value into the plain Go shape the
// input layer works with. Whole numbers come back as int.
func goValue(v cty.Value) any {
	if v.IsNull() {
		return nil
	}
	ty := v.Type()
	switch {
	case ty == cty.String:
		return v.AsString()
	case ty == cty.Bool:
		return v.True()
	case ty == cty.Number:
		f, _ := v.AsBigFloat().Float64()
		if f == float64(int(f)) {
			return int(f)
		}
		return f
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, v.LengthInt())
		for k, elem := range v.AsValueMap() {
			out[k] = goValue(elem)
		}
		return out
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for _, elem := range v.AsValueSlice() {
			out = append(out, goValue(elem))
		}
		return out
	default:
		return nil
	}
}

func flowTypeNames() []string {
	names := make([]string, 0, len(knownFlowTypes))
	for name := range knownFlowTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
