package task

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matgenix/abiflows/internal/abinput"
)

func TestDependencyWiring(t *testing.T) {
	scf := NewSCF(nil, false)
	nscf := NewNSCF(nil, false, Deps{scf.Type: CategoryDEN})

	assert.Equal(t, CategoryDEN, nscf.Deps[TypeSCF])
}

func TestDefaults(t *testing.T) {
	t.Run("cleanup removes wavefunctions by default", func(t *testing.T) {
		assert.Equal(t, []Category{CategoryWFK}, NewFinalCleanup(nil).OutCategories)
		assert.Equal(t, []Category{CategoryDEN}, NewFinalCleanup([]Category{CategoryDEN}).OutCategories)
	})

	t.Run("db insert stores structure and history by default", func(t *testing.T) {
		ti := NewDatabaseInsert(nil, nil)
		assert.Equal(t, "get_final_structure_and_history", ti.InsertionData["structure"])
	})
}

func TestFinalStructure(t *testing.T) {
	ti := NewRelaxIoncell(nil, false)

	t.Run("unbound workdir", func(t *testing.T) {
		_, err := ti.FinalStructure()
		assert.ErrorIs(t, err, ErrNoWorkdir)
	})

	dir := t.TempDir()
	structure := &abinput.Structure{Sites: []abinput.Site{{Element: "Si"}, {Element: "Si"}}}
	data, err := json.Marshal(structure)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "final_structure.json"), data, 0o644))

	ti.SetWorkdir(dir)
	got, err := ti.FinalStructure()
	require.NoError(t, err)
	assert.Equal(t, 2, got.NumSites())
}

func TestElasticTensor(t *testing.T) {
	dir := t.TempDir()
	tensor := ElasticTensor{Unit: "GPa"}
	tensor.Tensor[0][0] = 165.7
	data, err := json.Marshal(tensor)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "elastic_tensor.json"), data, 0o644))

	ti := NewAnaddb(nil)
	ti.SetWorkdir(dir)
	got, err := ti.ElasticTensor()
	require.NoError(t, err)
	assert.Equal(t, 165.7, got.Tensor[0][0])

	ext := got.ExtendedMap()
	assert.Equal(t, "GPa", ext["unit"])
	rows := ext["elastic_tensor"].([][]float64)
	assert.Equal(t, 165.7, rows[0][0])
}

func TestTasksJSONRoundTrip(t *testing.T) {
	tasks := []*Task{
		NewSCF(nil, true),
		NewStrainPert(nil, false, Deps{TypeSCF: CategoryWFK, TypeDDK: CategoryDDK}),
		NewRelaxDilatmx(nil, false, 1.01),
	}

	data, err := MarshalTasks(tasks)
	require.NoError(t, err)
	decoded, err := UnmarshalTasks(data)
	require.NoError(t, err)

	require.Len(t, decoded, 3)
	assert.True(t, decoded[0].Autoparal)
	assert.Equal(t, CategoryDDK, decoded[1].Deps[TypeDDK])
	assert.Equal(t, 1.01, decoded[2].TargetDilatmx)
}
