package firework

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Matgenix/abiflows/internal/execspec"
)

func newFw(name string) *Firework {
	return New(execspec.New(), name)
}

func TestNewWorkflowValidation(t *testing.T) {
	a := newFw("a")
	b := newFw("b")

	t.Run("valid chain", func(t *testing.T) {
		wf, err := NewWorkflow("wf", []*Firework{a, b}, map[*Firework][]*Firework{a: {b}}, nil)
		require.NoError(t, err)
		assert.Len(t, wf.Fireworks(), 2)
		assert.Equal(t, []*Firework{b}, wf.Children(a))
	})

	t.Run("no containers", func(t *testing.T) {
		_, err := NewWorkflow("wf", nil, nil, nil)
		assert.ErrorContains(t, err, "no containers")
	})

	t.Run("unknown link endpoint", func(t *testing.T) {
		stranger := newFw("stranger")
		_, err := NewWorkflow("wf", []*Firework{a}, map[*Firework][]*Firework{a: {stranger}}, nil)
		assert.ErrorContains(t, err, "unknown container")
	})

	t.Run("self link", func(t *testing.T) {
		_, err := NewWorkflow("wf", []*Firework{a}, map[*Firework][]*Firework{a: {a}}, nil)
		assert.ErrorContains(t, err, "self-referential")
	})

	t.Run("cycle", func(t *testing.T) {
		c := newFw("c")
		_, err := NewWorkflow("wf", []*Firework{a, b, c}, map[*Firework][]*Firework{
			a: {b}, b: {c}, c: {a},
		}, nil)
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("duplicate container", func(t *testing.T) {
		_, err := NewWorkflow("wf", []*Firework{a, a}, nil, nil)
		assert.ErrorContains(t, err, "twice")
	})
}

func TestLeaves(t *testing.T) {
	a, b, c := newFw("a"), newFw("b"), newFw("c")
	wf, err := NewWorkflow("wf", []*Firework{a, b, c}, map[*Firework][]*Firework{a: {b, c}}, nil)
	require.NoError(t, err)

	assert.Equal(t, []*Firework{b, c}, wf.Leaves())
}

func TestAppendRewiresLeaves(t *testing.T) {
	a, b, c := newFw("a"), newFw("b"), newFw("c")
	wf, err := NewWorkflow("wf", []*Firework{a, b, c}, map[*Firework][]*Firework{a: {b, c}}, nil)
	require.NoError(t, err)
	require.Len(t, wf.Leaves(), 2)

	cleanup := newFw("cleanup")
	wf.Append(cleanup)

	assert.Len(t, wf.Fireworks(), 4)
	assert.Equal(t, []*Firework{cleanup}, wf.Leaves(), "the appended container is the sole terminal")
	assert.Equal(t, []*Firework{cleanup}, wf.Children(b))
	assert.Equal(t, []*Firework{cleanup}, wf.Children(c))
	assert.Empty(t, wf.Children(cleanup))

	// A second append chains after the first.
	final := newFw("final")
	wf.Append(final)
	assert.Equal(t, []*Firework{final}, wf.Children(cleanup))
}

func TestLaunchOrdering(t *testing.T) {
	a := newFw("a")
	wf, err := NewWorkflow("wf", []*Firework{a}, nil, nil)
	require.NoError(t, err)

	t0 := time.Date(2020, 5, 1, 12, 0, 0, 0, time.UTC)
	wf.SetLaunches(a,
		Launch{ID: "active-late", StartedAt: t0.Add(3 * time.Hour)},
		Launch{ID: "archived-early", Archived: true, StartedAt: t0},
		Launch{ID: "active-early", StartedAt: t0.Add(2 * time.Hour)},
		Launch{ID: "archived-late", Archived: true, StartedAt: t0.Add(time.Hour)},
	)

	ordered := wf.Launches(a)
	require.Len(t, ordered, 4)
	assert.Equal(t, "archived-early", ordered[0].ID)
	assert.Equal(t, "archived-late", ordered[1].ID)
	assert.Equal(t, "active-early", ordered[2].ID)
	assert.Equal(t, "active-late", ordered[3].ID)

	last, ok := wf.LastLaunch(a)
	require.True(t, ok)
	assert.Equal(t, "active-late", last.ID)

	_, ok = wf.LastLaunch(newFw("unlaunched"))
	assert.False(t, ok)
}
