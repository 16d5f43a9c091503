package workflow

const (
	RoleEmployee = "employee"
	RoleManager  = "manager"
	RoleAdmin    = "admin"
)

type Operation string

const (
	OpCreate  Operation = "create"
	OpRead    Operation = "read"
	OpSubmit  Operation = "submit"
	OpApprove Operation = "approve"
	OpReject  Operation = "reject"
	OpDelete  Operation = "delete"
)

// DeciderPolicy decides whether an actor may approve/reject an entity
// owned by ownerID. The default is a flat pool: any manager or admin.
// A hierarchical deployment can swap in a predicate that also checks the
// reporting-manager relation without touching the transition code.
type DeciderPolicy func(actorRole, actorID, ownerID string) bool

func FlatDeciderPolicy(actorRole, _, _ string) bool {
	return actorRole == RoleManager || actorRole == RoleAdmin
}

// Can is the pure access decision for workflow entities. Submit and
// delete are owner-only regardless of role; approve/reject go through
// the decider policy; create and read are open to every authenticated
// role (read scoping to own records is a service concern).
func Can(policy DeciderPolicy, actorRole, actorID, ownerID string, op Operation) bool {
	switch op {
	case OpCreate, OpRead:
		return true
	case OpSubmit, OpDelete:
		return actorID == ownerID
	case OpApprove, OpReject:
		if policy == nil {
			policy = FlatDeciderPolicy
		}
		return policy(actorRole, actorID, ownerID)
	default:
		return false
	}
}
