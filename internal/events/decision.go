package events

import "time"

const DecisionTopic = "worklog.workflow.decision.v1"

// DecisionEvent is emitted through the outbox whenever a workflow entity
// is approved or rejected. The consumer turns it into an owner email.
type DecisionEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EntityKind string    `json:"entity_kind"`
	EntityID   string    `json:"entity_id"`
	OwnerID    string    `json:"owner_id"`
	OwnerEmail string    `json:"owner_email"`
	OwnerName  string    `json:"owner_name"`
	Status     string    `json:"status"`
	Comments   string    `json:"comments,omitempty"`
	DecidedBy  string    `json:"decided_by"`
	OccurredAt time.Time `json:"occurred_at"`
}
