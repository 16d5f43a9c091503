package rbac_test

import (
	"testing"

	"go-worklog/internal/rbac"

	"github.com/stretchr/testify/assert"
)

func enforce(t *testing.T, svc rbac.Service, role, resource, action string) bool {
	t.Helper()
	allowed, err := svc.Enforce(role, resource, action)
	assert.NoError(t, err)
	return allowed
}

func TestRBAC_EmployeePermissions(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	assert.True(t, enforce(t, svc, "employee", "timesheet", "create"))
	assert.True(t, enforce(t, svc, "employee", "timesheet", "submit"))
	assert.True(t, enforce(t, svc, "employee", "leave", "delete"))
	assert.True(t, enforce(t, svc, "employee", "project", "read"))

	assert.False(t, enforce(t, svc, "employee", "timesheet", "approve"))
	assert.False(t, enforce(t, svc, "employee", "leave", "approve"))
	assert.False(t, enforce(t, svc, "employee", "reimbursement", "approve"))
	assert.False(t, enforce(t, svc, "employee", "report", "read"))
	assert.False(t, enforce(t, svc, "employee", "user", "delete"))
	assert.False(t, enforce(t, svc, "employee", "project", "delete"))
}

func TestRBAC_ManagerInheritsEmployee(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	assert.True(t, enforce(t, svc, "manager", "timesheet", "create"))
	assert.True(t, enforce(t, svc, "manager", "timesheet", "approve"))
	assert.True(t, enforce(t, svc, "manager", "project", "delete"))
	assert.True(t, enforce(t, svc, "manager", "report", "read"))

	// user and invoice deletion stay admin-only
	assert.False(t, enforce(t, svc, "manager", "user", "delete"))
	assert.False(t, enforce(t, svc, "manager", "user", "create"))
	assert.False(t, enforce(t, svc, "manager", "invoice", "delete"))
}

func TestRBAC_AdminInheritsAll(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	assert.True(t, enforce(t, svc, "admin", "timesheet", "create"))
	assert.True(t, enforce(t, svc, "admin", "leave", "approve"))
	assert.True(t, enforce(t, svc, "admin", "user", "delete"))
	assert.True(t, enforce(t, svc, "admin", "invoice", "delete"))
	assert.True(t, enforce(t, svc, "admin", "report", "read"))
}

func TestRBAC_UnknownRole(t *testing.T) {
	svc, err := rbac.NewService()
	assert.NoError(t, err)

	assert.False(t, enforce(t, svc, "contractor", "timesheet", "read"))
}
