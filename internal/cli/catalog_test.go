package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogListsTours(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCatalogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog")})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "2 tour(s)")
	assert.Contains(t, output, "dashboard-intro")
	assert.Contains(t, output, "commitments-tour")
	assert.Contains(t, output, "everyone")
	assert.Contains(t, output, "project-manager")
}

func TestCatalogJSON(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewCatalogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog")})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp struct {
		Status string        `json:"status"`
		Data   CatalogResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.Data.Fingerprint)
	require.Len(t, resp.Data.Tours, 2)

	byID := make(map[string]CatalogEntry)
	for _, entry := range resp.Data.Tours {
		byID[entry.ID] = entry
	}
	assert.Equal(t, 2, byID["dashboard-intro"].Steps)
	assert.Equal(t, []string{"project-manager"}, byID["commitments-tour"].Roles)
}

func TestCatalogRoleFilter(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCatalogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{filepath.Join("testdata", "catalog"), "--role", "viewer"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Role-restricted tours drop out; unrestricted ones stay.
	output := buf.String()
	assert.Contains(t, output, "dashboard-intro")
	assert.NotContains(t, output, "commitments-tour")
}

func TestCatalogMissingDirectory(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewCatalogCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/catalog"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
