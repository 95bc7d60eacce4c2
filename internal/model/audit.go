package model

import "time"

// Audit actions. One audit event is recorded per successful mutation,
// strictly after the entity write committed.
const (
	ActionCreate = "CREATE"
	ActionUpdate = "UPDATE"
	ActionDelete = "DELETE"
)

// Audited entity type names as stored in the audit trail.
const (
	EntitySuperHero  = "superHero"
	EntitySuperPower = "superPower"
	EntityUser       = "user"
)

// AuditEvent is immutable once created. It is write-only from the API's
// perspective; nothing in this service updates or deletes one.
type AuditEvent struct {
	ID       string    `json:"id"`
	Entity   string    `json:"entity"`
	EntityID string    `json:"entityId"`
	Datetime time.Time `json:"datetime"`
	Username string    `json:"username"`
	Action   string    `json:"action"`
}
