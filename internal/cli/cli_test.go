package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Run("no arguments prints usage and exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		config, shouldExit, err := Parse(nil, &out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
		assert.Nil(t, config)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("flow path from flag", func(t *testing.T) {
		var out bytes.Buffer
		config, shouldExit, err := Parse([]string{"-flow", "flows/"}, &out)
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "flows/", config.FlowPath)
	})

	t.Run("flow path from shorthand", func(t *testing.T) {
		var out bytes.Buffer
		config, _, err := Parse([]string{"-f", "si.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "si.hcl", config.FlowPath)
	})

	t.Run("flow path from positional argument", func(t *testing.T) {
		var out bytes.Buffer
		config, _, err := Parse([]string{"si.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "si.hcl", config.FlowPath)
	})

	t.Run("defaults", func(t *testing.T) {
		var out bytes.Buffer
		config, _, err := Parse([]string{"-f", "si.hcl"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "launchpad.yaml", config.LaunchpadPath)
		assert.Equal(t, "text", config.LogFormat)
		assert.Equal(t, "info", config.LogLevel)
		assert.False(t, config.AddCleanup)
		assert.False(t, config.DryRun)
	})

	t.Run("harvest needs no flow path", func(t *testing.T) {
		var out bytes.Buffer
		config, shouldExit, err := Parse([]string{"-harvest", "some-id"}, &out)
		require.NoError(t, err)
		require.False(t, shouldExit)
		assert.Equal(t, "some-id", config.HarvestID)
		assert.Empty(t, config.FlowPath)
	})

	t.Run("dry-run with harvest is rejected", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-harvest", "some-id", "-dry-run"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log format", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-f", "si.hcl", "-log-format", "xml"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("invalid log level", func(t *testing.T) {
		var out bytes.Buffer
		_, _, err := Parse([]string{"-f", "si.hcl", "-log-level", "loud"}, &out)
		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 2, exitErr.Code)
	})

	t.Run("help exits cleanly", func(t *testing.T) {
		var out bytes.Buffer
		_, shouldExit, err := Parse([]string{"-h"}, &out)
		require.NoError(t, err)
		assert.True(t, shouldExit)
	})
}
