package mq

import "time"

const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ResourceEvent is published after every successful mutation, under routing
// keys like "project.created" or "task.deleted". Reads are not published.
type ResourceEvent struct {
	Resource   string    `json:"resource"`
	Action     string    `json:"action"`
	ID         int       `json:"id"`
	Record     any       `json:"record,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// RoutingKey returns "<resource>.<action>".
func (e ResourceEvent) RoutingKey() string {
	return e.Resource + "." + e.Action
}
