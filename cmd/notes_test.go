package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itiky/notes-sync/config"
	"github.com/itiky/notes-sync/service/client"
)

// executeRoot runs the root command with args and returns its output.
func executeRoot(t *testing.T, args ...string) (string, error) {
	out := new(bytes.Buffer)
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()

	return out.String(), err
}

func Test_CreateCmd_Validation(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "notes.yaml")

	out, err := executeRoot(t, "create", "--config", cfgPath, "--name", "", "--description", "x")
	require.ErrorIs(t, err, errNotified)
	require.Equal(t, 1, strings.Count(out, client.FormValidationMessage), "output: %s", out)
}

func Test_ConfigInitCmd(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "notes.yaml")

	out, err := executeRoot(t, "config", "init", "--config", cfgPath)
	require.NoError(t, err)
	require.Contains(t, out, cfgPath)

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	defaults, err := config.Default()
	require.NoError(t, err)
	require.Equal(t, defaults.Backend, cfg.Backend)
	require.Equal(t, defaults.Sync, cfg.Sync)

	// existing file is kept unless forced
	_, err = executeRoot(t, "config", "init", "--config", cfgPath)
	require.Error(t, err)

	_, err = executeRoot(t, "config", "init", "--config", cfgPath, "--force")
	require.NoError(t, err)
}
