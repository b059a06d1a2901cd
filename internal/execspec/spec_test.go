package execspec

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matgenix/abiflows/internal/stageid"
)

func TestFromMapCopiesCallerMapping(t *testing.T) {
	caller := map[string]any{
		"mpi_ncpus": 4,
		"nested":    map[string]any{"a": 1},
	}
	s := FromMap(caller)

	caller["mpi_ncpus"] = 99
	caller["nested"].(map[string]any)["a"] = 99

	assert.Equal(t, 4, s.CPUCount())
	nested, ok := s.Get("nested")
	require.True(t, ok)
	assert.Equal(t, 1, nested.(map[string]any)["a"])
}

func TestCloneDoesNotAliasSiblings(t *testing.T) {
	base := FromMap(map[string]any{"mpi_ncpus": 4})

	first := base.Clone()
	first.Set(KeyStageID, "ion_1")

	second := base.Clone()
	second.Set(KeyStageID, "ioncell_1")

	firstID, ok, err := first.StageID()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stageid.StageIon, firstID.Stage)

	secondID, ok, err := second.StageID()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, stageid.StageIoncell, secondID.Stage)

	_, ok, _ = base.StageID()
	assert.False(t, ok, "mutating a derived spec must not touch the base")
}

func TestShortSingleCore(t *testing.T) {
	s := FromMap(map[string]any{"mpi_ncpus": 64}).ShortSingleCore(ShortSingleCoreProfile())

	assert.Equal(t, 1, s.CPUCount())
	qa, ok := s.Get(KeyQueueAdapter)
	require.True(t, ok)
	assert.Equal(t, "0:10:00", qa.(map[string]any)["walltime"])
}

func TestWithInitializationInfo(t *testing.T) {
	info := map[string]any{"kppa": 1500}
	s := New().WithInitializationInfo(info)

	info["kppa"] = 0
	assert.Equal(t, 1500, s.InitializationInfo()["kppa"])

	t.Run("nil info yields empty mapping", func(t *testing.T) {
		s := New().WithInitializationInfo(nil)
		assert.Empty(t, s.InitializationInfo())
	})
}

func TestStageID(t *testing.T) {
	t.Run("absent", func(t *testing.T) {
		_, ok, err := New().StageID()
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("present", func(t *testing.T) {
		s := New().WithStageID(stageid.New(stageid.StageIoncell, 3))
		id, ok, err := s.StageID()
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, 3, id.Index)
	})

	t.Run("non-string value", func(t *testing.T) {
		s := New()
		s.Set(KeyStageID, 3)
		_, ok, err := s.StageID()
		assert.True(t, ok)
		assert.Error(t, err)
	})
}

func TestCPUCountAfterJSONRoundTrip(t *testing.T) {
	s := FromMap(map[string]any{"mpi_ncpus": 4})
	data, err := json.Marshal(s)
	require.NoError(t, err)

	var decoded Spec
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 4, decoded.CPUCount())
}

func TestWithPriority(t *testing.T) {
	s := New().WithPriority(100)
	v, ok := s.Get(KeyPriority)
	require.True(t, ok)
	assert.Equal(t, 100, v)
}
