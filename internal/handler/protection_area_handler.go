package handler

import (
	"context"
	"net/http"

	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/model"
)

type protectionAreaStore interface {
	List(ctx context.Context, limit int, offset int) ([]model.ProtectionArea, error)
}

// Protection areas are read-only through the API; they enter the catalog
// via the seed command.
type ProtectionAreaHandler struct {
	store protectionAreaStore
}

func NewProtectionAreaHandler(store protectionAreaStore) *ProtectionAreaHandler {
	return &ProtectionAreaHandler{store: store}
}

func (h *ProtectionAreaHandler) List(w http.ResponseWriter, r *http.Request) {
	page := middleware.PageFromContext(r.Context())

	areas, err := h.store.List(r.Context(), page.Limit, page.Skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, areas)
}
