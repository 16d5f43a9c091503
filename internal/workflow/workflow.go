// Package workflow holds the approval lifecycle shared by timesheets,
// leave requests and reimbursements, plus the authorization policy that
// gates it. It is a pure decision core: services consult it before any
// write, and the store applies the transition with a conditional update.
package workflow

type Status string

const (
	StatusDraft     Status = "draft"
	StatusSubmitted Status = "submitted"
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
)

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Family describes one workflow entity kind. Timesheets pass through an
// explicit submit step; leaves and reimbursements are decidable as created.
type Family struct {
	Name          string
	Initial       Status
	DecidableFrom Status
	Submittable   bool
}

var (
	Timesheets = Family{
		Name:          "timesheet",
		Initial:       StatusDraft,
		DecidableFrom: StatusSubmitted,
		Submittable:   true,
	}
	Leaves = Family{
		Name:          "leave",
		Initial:       StatusPending,
		DecidableFrom: StatusPending,
	}
	Reimbursements = Family{
		Name:          "reimbursement",
		Initial:       StatusPending,
		DecidableFrom: StatusPending,
	}
)

// CanSubmit reports whether cur permits the owner's submit transition.
func (f Family) CanSubmit(cur Status) bool {
	return f.Submittable && cur == f.Initial
}

// CanDecide reports whether cur permits approve/reject.
func (f Family) CanDecide(cur Status) bool {
	return cur == f.DecidableFrom
}

// CanDelete reports whether cur permits owner deletion. Only the
// pre-decision initial state qualifies; decided entities are immutable.
func (f Family) CanDelete(cur Status) bool {
	return cur == f.Initial
}

// CanEdit reports whether the owner may still mutate submission fields.
func (f Family) CanEdit(cur Status) bool {
	return cur == f.Initial
}
