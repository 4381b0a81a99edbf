package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itiky/notes-sync/config"
	"github.com/itiky/notes-sync/model"
	"github.com/itiky/notes-sync/service/client"
)

func Test_BuildPolicies(t *testing.T) {
	cfg, err := config.Default()
	require.NoError(t, err)

	policies, err := buildPolicies(cfg.Sync)
	require.NoError(t, err)
	require.Equal(t, client.DefaultPolicies(), policies)

	cfg.Sync.Create = "optimistic"
	cfg.Sync.Rollback = true
	policies, err = buildPolicies(cfg.Sync)
	require.NoError(t, err)
	require.Equal(t, client.Policy{Update: client.OptimisticApply, Rollback: client.RollbackOnFailure}, policies[model.CreateOperationType])

	cfg.Sync.Delete = "never"
	_, err = buildPolicies(cfg.Sync)
	require.Error(t, err)
}
