package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayWalksTour(t *testing.T) {
	setSyncEnv(t, "http://unused.invalid")

	buf := &bytes.Buffer{}
	cmd := NewPlayCommand(&RootOptions{Format: "text"})
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog"), "dashboard-intro", "--ops", "next,next"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "start  -> active=true tour=dashboard-intro step=0")
	assert.Contains(t, output, "step=1")
	// Second next walks off the last step and ends the tour.
	assert.Contains(t, output, "active=false")
}

func TestPlayUnknownTour(t *testing.T) {
	setSyncEnv(t, "http://unused.invalid")

	cmd := NewPlayCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog"), "no-such-tour"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "unknown tour")
}

func TestPlayUnknownOperation(t *testing.T) {
	setSyncEnv(t, "http://unused.invalid")

	cmd := NewPlayCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog"), "dashboard-intro", "--ops", "sideways"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown operation")
}

func TestSplitOps(t *testing.T) {
	assert.Nil(t, splitOps(""))
	assert.Nil(t, splitOps("  "))
	assert.Equal(t, []string{"next", "prev"}, splitOps("next, prev"))
	assert.Equal(t, []string{"next"}, splitOps("next,"))
}
