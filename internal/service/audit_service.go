package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"super-heroes-api/internal/event"
	"super-heroes-api/internal/model"
)

type auditStore interface {
	Create(ctx context.Context, e model.AuditEvent) error
}

// AuditService records the audit trail for catalog mutations and forwards
// each persisted event to the notification channel.
type AuditService struct {
	store auditStore
	bus   event.Bus
}

func NewAuditService(store auditStore, bus event.Bus) *AuditService {
	return &AuditService{store: store, bus: bus}
}

// Record persists one immutable audit event and then publishes it. The
// publish is best effort; nothing is published if the write fails, so the
// channel never sees an event the store does not hold.
func (s *AuditService) Record(ctx context.Context, entity string, entityID string, action string, username string) error {
	e := model.AuditEvent{
		ID:       uuid.NewString(),
		Entity:   entity,
		EntityID: entityID,
		Datetime: time.Now().UTC(),
		Username: username,
		Action:   action,
	}

	if err := s.store.Create(ctx, e); err != nil {
		return err
	}

	s.bus.Publish(event.Event{
		ID:        uuid.NewString(),
		Type:      event.TypeAuditEvent,
		Payload:   e,
		Timestamp: e.Datetime.Format(time.RFC3339Nano),
	})

	return nil
}
