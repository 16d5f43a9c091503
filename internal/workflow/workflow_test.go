package workflow_test

import (
	"testing"

	"go-worklog/internal/workflow"

	"github.com/stretchr/testify/assert"
)

func TestFamily_TimesheetLifecycle(t *testing.T) {
	f := workflow.Timesheets

	t.Run("submit only from draft", func(t *testing.T) {
		assert.True(t, f.CanSubmit(workflow.StatusDraft))
		assert.False(t, f.CanSubmit(workflow.StatusSubmitted))
		assert.False(t, f.CanSubmit(workflow.StatusApproved))
		assert.False(t, f.CanSubmit(workflow.StatusRejected))
	})

	t.Run("decide only from submitted", func(t *testing.T) {
		assert.False(t, f.CanDecide(workflow.StatusDraft))
		assert.True(t, f.CanDecide(workflow.StatusSubmitted))
		assert.False(t, f.CanDecide(workflow.StatusApproved))
		assert.False(t, f.CanDecide(workflow.StatusRejected))
	})

	t.Run("delete only while draft", func(t *testing.T) {
		assert.True(t, f.CanDelete(workflow.StatusDraft))
		assert.False(t, f.CanDelete(workflow.StatusSubmitted))
		assert.False(t, f.CanDelete(workflow.StatusApproved))
	})
}

func TestFamily_PendingLifecycle(t *testing.T) {
	for _, f := range []workflow.Family{workflow.Leaves, workflow.Reimbursements} {
		t.Run(f.Name, func(t *testing.T) {
			assert.Equal(t, workflow.StatusPending, f.Initial)
			assert.False(t, f.CanSubmit(workflow.StatusPending))
			assert.True(t, f.CanDecide(workflow.StatusPending))
			assert.True(t, f.CanDelete(workflow.StatusPending))
			assert.False(t, f.CanDecide(workflow.StatusApproved))
			assert.False(t, f.CanDecide(workflow.StatusRejected))
			assert.False(t, f.CanDelete(workflow.StatusRejected))
		})
	}
}

func TestStatus_Terminal(t *testing.T) {
	assert.True(t, workflow.StatusApproved.Terminal())
	assert.True(t, workflow.StatusRejected.Terminal())
	assert.False(t, workflow.StatusDraft.Terminal())
	assert.False(t, workflow.StatusSubmitted.Terminal())
	assert.False(t, workflow.StatusPending.Terminal())
}
