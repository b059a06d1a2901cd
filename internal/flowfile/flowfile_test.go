package flowfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matgenix/abiflows/internal/abinput"
	"github.com/Matgenix/abiflows/internal/flows"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func writeStructure(t *testing.T, dir string) string {
	t.Helper()
	s := abinput.Structure{
		Sites: []abinput.Site{
			{Element: "Si", Coords: [3]float64{0, 0, 0}},
			{Element: "Si", Coords: [3]float64{0.25, 0.25, 0.25}},
		},
	}
	data, err := json.Marshal(s)
	require.NoError(t, err)
	return writeFile(t, dir, "si.json", string(data))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "flows.hcl", `
flow "relax" "si_relax" {
  structure      = "structures/si.json"
  pseudos        = ["Si.psp8"]
  kppa           = 1500
  ecut           = 20
  autoparal      = true
  target_dilatmx = 1.01
  extra_vars     = { nstep = 100, fband = 1.5 }
  metadata       = { project = "benchmarks" }
}

flow "phonon" "si_phonon" {
  structure = "structures/si.json"
  pseudos   = ["Si.psp8"]
  with_ddk  = true
  with_dde  = true
  ph_ngqpt  = [2, 2, 2]
}
`)

	defs, err := Load(context.Background(), path)
	require.NoError(t, err)
	require.Len(t, defs, 2)

	relax := defs[0]
	assert.Equal(t, "relax", relax.Type)
	assert.Equal(t, "si_relax", relax.Name)
	assert.Equal(t, "structures/si.json", relax.StructurePath)
	assert.Equal(t, []string{"Si.psp8"}, relax.Pseudos)
	assert.Equal(t, 1500, relax.KPPA)
	assert.Equal(t, 20.0, relax.Ecut)
	assert.True(t, relax.Autoparal)
	assert.Equal(t, 1.01, relax.TargetDilatmx)
	assert.Equal(t, map[string]any{"nstep": 100, "fband": 1.5}, relax.ExtraVars)
	assert.Equal(t, map[string]any{"project": "benchmarks"}, relax.Metadata)

	phonon := defs[1]
	assert.Equal(t, "phonon", phonon.Type)
	assert.True(t, phonon.WithDDK)
	assert.True(t, phonon.WithDDE)
	assert.False(t, phonon.WithBEC)
	assert.Equal(t, []int{2, 2, 2}, phonon.PhNgqpt)
	assert.Nil(t, phonon.Metadata)
}

func TestLoadDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.hcl", `
flow "scf" "second" {
  structure = "si.json"
  pseudos   = ["Si.psp8"]
}
`)
	writeFile(t, dir, "a.hcl", `
flow "scf" "first" {
  structure = "si.json"
  pseudos   = ["Si.psp8"]
}
`)

	defs, err := Load(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "first", defs[0].Name, "files are visited in lexical order")
	assert.Equal(t, "second", defs[1].Name)
}

func TestLoadErrors(t *testing.T) {
	t.Run("unknown flow type", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "flows.hcl", `
flow "bands" "typo" {
  structure = "si.json"
}
`)
		_, err := Load(context.Background(), path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `unknown flow type "bands"`)
		assert.Contains(t, err.Error(), "relax", "the error lists the valid types")
	})

	t.Run("missing structure attribute", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "flows.hcl", `
flow "scf" "incomplete" {
  pseudos = ["Si.psp8"]
}
`)
		_, err := Load(context.Background(), path)
		assert.Error(t, err)
	})

	t.Run("no flow files", func(t *testing.T) {
		_, err := Load(context.Background(), t.TempDir())
		assert.Error(t, err)
	})

	t.Run("metadata must be an object", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "flows.hcl", `
flow "scf" "bad" {
  structure = "si.json"
  pseudos   = ["Si.psp8"]
  metadata  = "not an object"
}
`)
		_, err := Load(context.Background(), path)
		assert.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	structurePath := writeStructure(t, dir)

	t.Run("relax", func(t *testing.T) {
		flow, err := Build(ctx, &Def{
			Type:          "relax",
			Name:          "si_relax",
			StructurePath: structurePath,
			Pseudos:       []string{"Si.psp8"},
			KPPA:          1500,
			Ecut:          20,
			TargetDilatmx: 1.01,
			Metadata:      map[string]any{"project": "benchmarks"},
		})
		require.NoError(t, err)

		assert.Equal(t, flows.KindRelax, flow.Kind())
		assert.Len(t, flow.Graph().Fireworks(), 2)
		assert.Equal(t, "benchmarks", flow.Graph().Metadata["project"])
		assert.Equal(t, "Si", flow.Graph().Metadata["reduced_formula"])

		for _, fw := range flow.Graph().Fireworks() {
			info := fw.Spec.InitializationInfo()
			assert.Equal(t, "si_relax", info["flow_name"])
			assert.Equal(t, 1500, info["kppa"])
		}
	})

	t.Run("nscf derives its input from the ground state", func(t *testing.T) {
		flow, err := Build(ctx, &Def{
			Type:          "nscf",
			Name:          "si_bands",
			StructurePath: structurePath,
			Pseudos:       []string{"Si.psp8"},
			NBand:         24,
		})
		require.NoError(t, err)

		assert.Equal(t, flows.KindNSCF, flow.Kind())
		fws := flow.Graph().Fireworks()
		require.Len(t, fws, 2)
		v, ok := fws[1].Tasks[0].Input.Var("iscf")
		require.True(t, ok)
		assert.Equal(t, -2, v)
	})

	t.Run("autoparal propagates", func(t *testing.T) {
		flow, err := Build(ctx, &Def{
			Type:          "scf",
			Name:          "si_scf",
			StructurePath: structurePath,
			Pseudos:       []string{"Si.psp8"},
			Autoparal:     true,
		})
		require.NoError(t, err)
		for _, fw := range flow.Graph().Fireworks() {
			assert.Equal(t, 1, fw.Spec.CPUCount())
		}
	})

	t.Run("piezo elastic is not buildable from a factory", func(t *testing.T) {
		_, err := Build(ctx, &Def{
			Type:          "piezo_elastic",
			Name:          "si_piezo",
			StructurePath: structurePath,
			Pseudos:       []string{"Si.psp8"},
		})
		assert.ErrorIs(t, err, flows.ErrNotImplemented)
	})

	t.Run("missing structure file", func(t *testing.T) {
		_, err := Build(ctx, &Def{
			Type:          "scf",
			Name:          "nope",
			StructurePath: filepath.Join(dir, "missing.json"),
			Pseudos:       []string{"Si.psp8"},
		})
		assert.Error(t, err)
	})
}
