package abinput

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func siStructure() *Structure {
	return &Structure{
		Sites: []Site{
			{Element: "Si", Coords: [3]float64{0, 0, 0}},
			{Element: "Si", Coords: [3]float64{0.25, 0.25, 0.25}},
		},
	}
}

func TestStructureSummary(t *testing.T) {
	s := siStructure()
	assert.Equal(t, 2, s.NumSites())
	assert.Equal(t, []string{"Si"}, s.Elements())
	assert.Equal(t, "Si", s.ReducedFormula())
}

func TestReducedFormulaMultiElement(t *testing.T) {
	s := &Structure{Sites: []Site{
		{Element: "O"}, {Element: "O"}, {Element: "O"}, {Element: "O"},
		{Element: "H"}, {Element: "H"}, {Element: "H"}, {Element: "H"},
		{Element: "H"}, {Element: "H"}, {Element: "H"}, {Element: "H"},
	}}
	assert.Equal(t, "H2O", s.ReducedFormula())
}

func TestLoadStructure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "si.json")
	data, err := json.Marshal(siStructure())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	s, err := LoadStructure(path)
	require.NoError(t, err)
	assert.Equal(t, 2, s.NumSites())

	t.Run("empty structure rejected", func(t *testing.T) {
		empty := filepath.Join(dir, "empty.json")
		require.NoError(t, os.WriteFile(empty, []byte(`{"sites":[]}`), 0o644))
		_, err := LoadStructure(empty)
		assert.ErrorContains(t, err, "no sites")
	})
}

func TestDecoratorsComposeInOrder(t *testing.T) {
	var order []string
	first := func(in *Input) *Input {
		order = append(order, "first")
		in.SetVar("nstep", 50)
		return in
	}
	second := func(in *Input) *Input {
		order = append(order, "second")
		in.SetVar("nstep", 100)
		return in
	}

	in := ApplyDecorators(NewInput(siStructure()), first, second)

	assert.Equal(t, []string{"first", "second"}, order)
	v, ok := in.Var("nstep")
	require.True(t, ok)
	assert.Equal(t, 100, v)
}

func TestSCFInput(t *testing.T) {
	in, err := SCFInput(FactoryParams{
		Structure: siStructure(),
		Pseudos:   []string{"Si.psp8"},
		KPPA:      1500,
		Ecut:      20,
		ExtraVars: map[string]any{"nstep": 120},
	})
	require.NoError(t, err)

	v, _ := in.Var("iscf")
	assert.Equal(t, 17, v)
	v, _ = in.Var("accuracy")
	assert.Equal(t, DefaultAccuracy, v)
	v, _ = in.Var("nstep")
	assert.Equal(t, 120, v, "extra vars overlay the generated ones")
}

func TestFactoryValidation(t *testing.T) {
	_, err := SCFInput(FactoryParams{Pseudos: []string{"Si.psp8"}})
	assert.ErrorIs(t, err, ErrNoStructure)

	_, _, err = IonIoncellRelaxInputs(FactoryParams{Structure: siStructure()})
	assert.ErrorIs(t, err, ErrNoPseudos)
}

func TestIonIoncellRelaxInputs(t *testing.T) {
	ion, ioncell, err := IonIoncellRelaxInputs(FactoryParams{
		Structure: siStructure(),
		Pseudos:   []string{"Si.psp8"},
	})
	require.NoError(t, err)

	v, _ := ion.Var("optcell")
	assert.Equal(t, 0, v)
	v, _ = ioncell.Var("optcell")
	assert.Equal(t, 2, v)
	_, ok := ioncell.Var("dilatmx")
	assert.True(t, ok)
}

func TestNSCFInputFromSCF(t *testing.T) {
	scf, err := SCFInput(FactoryParams{Structure: siStructure(), Pseudos: []string{"Si.psp8"}})
	require.NoError(t, err)

	nscf := NSCFInputFromSCF(scf, 24)
	v, _ := nscf.Var("iscf")
	assert.Equal(t, -2, v)
	v, _ = nscf.Var("nband")
	assert.Equal(t, 24, v)

	// Deriving must not mutate the source input.
	v, _ = scf.Var("iscf")
	assert.Equal(t, 17, v)
}

func TestHybridOneShotInputDefaults(t *testing.T) {
	in, err := HybridOneShotInput(FactoryParams{
		Structure: siStructure(),
		Pseudos:   []string{"Si.psp8"},
	}, HybridOptions{})
	require.NoError(t, err)

	v, _ := in.Var("functional")
	assert.Equal(t, "hse06", v)
	v, _ = in.Var("gw_qprange")
	assert.Equal(t, 1, v)
}

func TestPhononFactoryValidate(t *testing.T) {
	assert.NoError(t, PhononFactory{WithDDE: true, WithBEC: true}.Validate())
	assert.Error(t, PhononFactory{WithBEC: true}.Validate())
}

func TestInputJSONRoundTrip(t *testing.T) {
	in := NewInput(siStructure())
	in.SetVar("ecut", 20.0)

	data, err := json.Marshal(in)
	require.NoError(t, err)

	var decoded Input
	require.NoError(t, json.Unmarshal(data, &decoded))
	v, ok := decoded.Var("ecut")
	require.True(t, ok)
	assert.Equal(t, 20.0, v)
	require.NotNil(t, decoded.Structure())
	assert.Equal(t, 2, decoded.Structure().NumSites())
}
