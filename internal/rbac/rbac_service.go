package rbac

import (
	"sync"

	"github.com/casbin/casbin/v2"
	casbinmodel "github.com/casbin/casbin/v2/model"
)

// The role hierarchy is fixed: admin inherits manager, manager inherits
// employee. Per-route permissions are the static table below; ownership
// and lifecycle checks stay in the services.
const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

type permission struct {
	role     string
	resource string
	action   string
}

var permissions = []permission{
	// employee: own workflow entities plus visible projects
	{"employee", "timesheet", "read"},
	{"employee", "timesheet", "create"},
	{"employee", "timesheet", "submit"},
	{"employee", "timesheet", "delete"},
	{"employee", "leave", "read"},
	{"employee", "leave", "create"},
	{"employee", "leave", "delete"},
	{"employee", "reimbursement", "read"},
	{"employee", "reimbursement", "create"},
	{"employee", "reimbursement", "delete"},
	{"employee", "project", "read"},
	{"employee", "user", "read_self"},

	// manager: decisions, project administration, invoices, reports
	{"manager", "timesheet", "approve"},
	{"manager", "leave", "approve"},
	{"manager", "reimbursement", "approve"},
	{"manager", "project", "create"},
	{"manager", "project", "update"},
	{"manager", "project", "delete"},
	{"manager", "invoice", "read"},
	{"manager", "invoice", "create"},
	{"manager", "invoice", "update"},
	{"manager", "report", "read"},
	{"manager", "user", "read"},

	// admin: user administration and the rest
	{"admin", "user", "create"},
	{"admin", "user", "update"},
	{"admin", "user", "delete"},
	{"admin", "invoice", "delete"},
}

var roleInheritance = [][2]string{
	{"manager", "employee"},
	{"admin", "manager"},
}

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(role, resource, action string) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService() (Service, error) {
	m, err := casbinmodel.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	enforcer, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range permissions {
		if _, err := enforcer.AddPolicy(p.role, p.resource, p.action); err != nil {
			return nil, err
		}
	}
	for _, g := range roleInheritance {
		if _, err := enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &service{enforcer: enforcer}, nil
}

func (s *service) Enforce(role, resource, action string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(role, resource, action)
}
