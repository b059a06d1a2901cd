package abinput

import "encoding/json"

// Input is one serializable calculation input: a structure plus a flat
// mapping of solver variables.
type Input struct {
	structure *Structure
	vars      map[string]any
}

// NewInput creates an input for the given structure with no variables set.
func NewInput(structure *Structure) *Input {
	return &Input{structure: structure, vars: make(map[string]any)}
}

// Structure returns the structure the input describes, possibly nil.
func (in *Input) Structure() *Structure {
	return in.structure
}

// SetVars merges the given variables into the input, overwriting existing
// entries.
func (in *Input) SetVars(vars map[string]any) {
	for k, v := range vars {
		in.vars[k] = v
	}
}

// SetVar sets a single variable.
func (in *Input) SetVar(key string, value any) {
	in.vars[key] = value
}

// Var returns the value of a single variable.
func (in *Input) Var(key string) (any, bool) {
	v, ok := in.vars[key]
	return v, ok
}

// Vars returns a copy of the variable mapping.
func (in *Input) Vars() map[string]any {
	out := make(map[string]any, len(in.vars))
	for k, v := range in.vars {
		out[k] = v
	}
	return out
}

// Clone returns a copy of the input sharing the (immutable) structure but
// owning its own variable mapping.
func (in *Input) Clone() *Input {
	out := NewInput(in.structure)
	out.SetVars(in.vars)
	return out
}

// MarshalJSON serializes the input for persistence.
func (in *Input) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Structure *Structure     `json:"structure,omitempty"`
		Vars      map[string]any `json:"vars"`
	}{in.structure, in.vars})
}

// UnmarshalJSON restores an input from its persisted form.
func (in *Input) UnmarshalJSON(data []byte) error {
	var raw struct {
		Structure *Structure     `json:"structure,omitempty"`
		Vars      map[string]any `json:"vars"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	in.structure = raw.Structure
	in.vars = raw.Vars
	if in.vars == nil {
		in.vars = make(map[string]any)
	}
	return nil
}

// Decorator is a transform applied to a generated input. Decorators are
// composed functionally, in list order.
type Decorator func(*Input) *Input

// ApplyDecorators applies each decorator in order and returns the result.
func ApplyDecorators(in *Input, decorators ...Decorator) *Input {
	for _, d := range decorators {
		in = d(in)
	}
	return in
}
