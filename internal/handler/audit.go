package handler

import (
	"context"
	"log/slog"
	"net/http"

	"super-heroes-api/internal/middleware"
)

type auditRecorder interface {
	Record(ctx context.Context, entity string, entityID string, action string, username string) error
}

// recordAudit writes the audit trail for a committed mutation. The
// mutation already succeeded at this point, so an audit failure is logged
// and does not turn the response into an error.
func recordAudit(r *http.Request, audit auditRecorder, entity string, entityID string, action string) {
	username, _ := middleware.ActorFromContext(r.Context())
	if err := audit.Record(r.Context(), entity, entityID, action, username); err != nil {
		slog.Error("failed to record audit event",
			"entity", entity, "entity_id", entityID, "action", action, "error", err)
	}
}
