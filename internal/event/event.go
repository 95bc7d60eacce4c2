package event

type Type string

const (
	// TypeAuditEvent is published after an audit record has been
	// persisted, never before.
	TypeAuditEvent Type = "audit.event"
)

type Event struct {
	ID        string `json:"id"`
	Type      Type   `json:"type"`
	Payload   any    `json:"payload"`
	Timestamp string `json:"timestamp"`
}

// Bus is the notification channel contract: at-most-once, best-effort
// in-process publish with independent subscribers.
type Bus interface {
	Publish(e Event)
	Subscribe() (<-chan Event, func())
}
