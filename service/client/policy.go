package client

import (
	"fmt"

	"github.com/itiky/notes-sync/model"
)

type (
	// UpdateMode defines when a mutation result becomes visible in the local state.
	UpdateMode int

	// RollbackMode defines what happens to an optimistic change when the mutation fails.
	RollbackMode int

	// Policy is a per operation sync policy.
	Policy struct {
		Update   UpdateMode
		Rollback RollbackMode
	}

	// Policies keeps Policy per mutation type.
	Policies map[model.OperationType]Policy
)

const (
	// OptimisticApply changes the local state before the backend confirms the mutation.
	OptimisticApply UpdateMode = iota
	// WaitForRemoteEcho defers the local change: creates wait for the subscription channel
	// (or the next fetch for own notes), deletes / updates wait for the mutation response.
	WaitForRemoteEcho
)

const (
	// NoRollback keeps the optimistic change even if the backend rejected it.
	NoRollback RollbackMode = iota
	// RollbackOnFailure reverts the optimistic change on mutation failure.
	RollbackOnFailure
)

// String implements the stringer interface.
func (m UpdateMode) String() string {
	switch m {
	case OptimisticApply:
		return "optimistic"
	case WaitForRemoteEcho:
		return "remote-echo"
	}

	return fmt.Sprintf("UpdateMode(%d)", int(m))
}

// String implements the stringer interface.
func (m RollbackMode) String() string {
	switch m {
	case NoRollback:
		return "no-rollback"
	case RollbackOnFailure:
		return "rollback"
	}

	return fmt.Sprintf("RollbackMode(%d)", int(m))
}

// ParseUpdateMode converts the UpdateMode string representation.
func ParseUpdateMode(s string) (UpdateMode, error) {
	switch s {
	case "optimistic":
		return OptimisticApply, nil
	case "remote-echo":
		return WaitForRemoteEcho, nil
	}

	return 0, fmt.Errorf("unknown update mode: %q", s)
}

// DefaultPolicies returns the default policies:
// create waits for the remote echo, delete and update are optimistic, nothing is rolled back.
func DefaultPolicies() Policies {
	return Policies{
		model.CreateOperationType: {Update: WaitForRemoteEcho, Rollback: NoRollback},
		model.DeleteOperationType: {Update: OptimisticApply, Rollback: NoRollback},
		model.UpdateOperationType: {Update: OptimisticApply, Rollback: NoRollback},
	}
}

// Get returns the operation Policy falling back to defaults.
func (p Policies) Get(opType model.OperationType) Policy {
	if policy, found := p[opType]; found {
		return policy
	}

	return DefaultPolicies()[opType]
}
