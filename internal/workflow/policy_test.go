package workflow_test

import (
	"testing"

	"go-worklog/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestCan_OwnerOnlyOperations(t *testing.T) {
	owner := "owner-1"
	other := "other-1"

	for _, op := range []workflow.Operation{workflow.OpSubmit, workflow.OpDelete} {
		t.Run(string(op), func(t *testing.T) {
			assert.True(t, workflow.Can(nil, workflow.RoleEmployee, owner, owner, op))
			// Managers and admins are not exempt from ownership.
			assert.False(t, workflow.Can(nil, workflow.RoleManager, other, owner, op))
			assert.False(t, workflow.Can(nil, workflow.RoleAdmin, other, owner, op))
		})
	}
}

func TestCan_DecisionOperations(t *testing.T) {
	owner := "owner-1"
	actor := "actor-1"

	for _, op := range []workflow.Operation{workflow.OpApprove, workflow.OpReject} {
		t.Run(string(op), func(t *testing.T) {
			assert.False(t, workflow.Can(nil, workflow.RoleEmployee, actor, owner, op))
			assert.True(t, workflow.Can(nil, workflow.RoleManager, actor, owner, op))
			assert.True(t, workflow.Can(nil, workflow.RoleAdmin, actor, owner, op))
		})
	}
}

func TestCan_InjectedDeciderPolicy(t *testing.T) {
	// Hierarchical routing: only the owner's reporting manager decides.
	reportsTo := map[string]string{"emp-1": "mgr-1"}
	hierarchical := func(actorRole, actorID, ownerID string) bool {
		if actorRole == workflow.RoleAdmin {
			return true
		}
		return actorRole == workflow.RoleManager && reportsTo[ownerID] == actorID
	}

	assert.True(t, workflow.Can(hierarchical, workflow.RoleManager, "mgr-1", "emp-1", workflow.OpApprove))
	assert.False(t, workflow.Can(hierarchical, workflow.RoleManager, "mgr-2", "emp-1", workflow.OpApprove))
	assert.True(t, workflow.Can(hierarchical, workflow.RoleAdmin, "adm-1", "emp-1", workflow.OpReject))
}

func TestCan_CreateAndRead(t *testing.T) {
	assert.True(t, workflow.Can(nil, workflow.RoleEmployee, "a", "b", workflow.OpCreate))
	assert.True(t, workflow.Can(nil, workflow.RoleEmployee, "a", "b", workflow.OpRead))
}
