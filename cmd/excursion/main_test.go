package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/excursion/internal/testutils"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestValidateCommand(t *testing.T) {
	dir := testutils.SetupContentDir(t, testutils.ContractFixture())

	out, err := execute(t, "validate", "--data", dir, "--variant", "linear")
	require.NoError(t, err)
	assert.Contains(t, out, "Tour is valid!")
	assert.Contains(t, out, "locations without text: Beta")
}

func TestValidateCommand_Graph(t *testing.T) {
	dir := testutils.SetupContentDir(t, testutils.ContractFixture())
	routes := filepath.Join(t.TempDir(), "routes.yaml")
	testutils.WriteFile(t, routes, "start: Alpha\nend: Omega\nAlpha: Omega\n")

	_, err := execute(t, "validate", "--data", dir, "--variant", "graph", "--routes", routes)
	assert.ErrorContains(t, err, "Omega")
}

func TestLocationsCommand(t *testing.T) {
	dir := testutils.SetupContentDir(t, testutils.ContractFixture())

	out, err := execute(t, "locations", "--data", dir, "--variant", "linear")
	require.NoError(t, err)
	assert.Contains(t, out, "1. Alpha (2 images, audio)")
	assert.Contains(t, out, "2. Beta (1 images, no text)")
	assert.Contains(t, out, "3. Gamma\n")
}

func TestGraphCommand(t *testing.T) {
	dir := testutils.SetupContentDir(t, testutils.ContractFixture())

	out, err := execute(t, "graph", "--data", dir, "--variant", "linear")
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.Contains(t, out, "loc_Alpha")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "excursion version")
}
