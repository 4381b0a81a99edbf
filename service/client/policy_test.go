package client

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/itiky/notes-sync/model"
)

func Test_Policies(t *testing.T) {
	defaults := DefaultPolicies()
	require.Equal(t, WaitForRemoteEcho, defaults.Get(model.CreateOperationType).Update)
	require.Equal(t, OptimisticApply, defaults.Get(model.DeleteOperationType).Update)
	require.Equal(t, OptimisticApply, defaults.Get(model.UpdateOperationType).Update)
	for _, policy := range defaults {
		require.Equal(t, NoRollback, policy.Rollback)
	}

	// missing entries fallback to defaults
	partial := Policies{model.CreateOperationType: {Update: OptimisticApply}}
	require.Equal(t, OptimisticApply, partial.Get(model.CreateOperationType).Update)
	require.Equal(t, OptimisticApply, partial.Get(model.DeleteOperationType).Update)

	for _, mode := range []UpdateMode{OptimisticApply, WaitForRemoteEcho} {
		parsed, err := ParseUpdateMode(mode.String())
		require.NoError(t, err)
		require.Equal(t, mode, parsed)
	}
	_, err := ParseUpdateMode("eventually")
	require.Error(t, err)
}

func Test_ValidateForm(t *testing.T) {
	require.NoError(t, validateForm(model.Form{Name: "a", Description: "b"}))

	err := validateForm(model.Form{Name: "", Description: ""})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Equal(t, []model.FormField{model.FormFieldName, model.FormFieldDescription}, vErr.Fields)
	require.Contains(t, err.Error(), FormValidationMessage)
}
