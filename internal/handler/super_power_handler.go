package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
)

type superPowerStore interface {
	List(ctx context.Context, limit int, offset int) ([]model.SuperPower, error)
	FindByID(ctx context.Context, id string) (model.SuperPower, error)
	Create(ctx context.Context, p model.SuperPower) error
	Update(ctx context.Context, p model.SuperPower) error
	Delete(ctx context.Context, id string) error
}

type SuperPowerHandler struct {
	store   superPowerStore
	audit   auditRecorder
	baseURL string
}

func NewSuperPowerHandler(store superPowerStore, audit auditRecorder, baseURL string) *SuperPowerHandler {
	return &SuperPowerHandler{store: store, audit: audit, baseURL: baseURL}
}

type superPowerPayload struct {
	ID          *string `json:"_id"`
	Name        *string `json:"name" validate:"required"`
	Description *string `json:"description"`
}

var superPowerMessages = map[string]string{
	"Name": "Name is required",
}

func (h *SuperPowerHandler) List(w http.ResponseWriter, r *http.Request) {
	page := middleware.PageFromContext(r.Context())

	powers, err := h.store.List(r.Context(), page.Limit, page.Skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, powers)
}

func (h *SuperPowerHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		// A malformed id is indistinguishable from a missing record.
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}

	power, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, power)
}

func (h *SuperPowerHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload superPowerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, payloadError(err, superPowerMessages))
		return
	}

	power := model.SuperPower{ID: uuid.NewString(), Name: *payload.Name}
	if payload.Description != nil {
		power.Description = *payload.Description
	}

	if err := h.store.Create(r.Context(), power); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			writeErrorMessage(w, http.StatusUnprocessableEntity, "Duplicated super power")
			return
		}
		writeError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperPower, power.ID, model.ActionCreate)

	w.Header().Set("Location", fmt.Sprintf("%s/super-powers/%s", h.baseURL, power.ID))
	w.WriteHeader(http.StatusCreated)
}

func (h *SuperPowerHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}

	var payload superPowerPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.ID != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Id must not be sent on update")
		return
	}

	power, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	if payload.Name != nil {
		power.Name = *payload.Name
	}
	if payload.Description != nil {
		power.Description = *payload.Description
	}

	if err := h.store.Update(r.Context(), power); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			writeErrorMessage(w, http.StatusUnprocessableEntity, "Duplicated super power")
			return
		}
		writeError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperPower, power.ID, model.ActionUpdate)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SuperPowerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super power not found")
		return
	}
	if errors.Is(err, repository.ErrReferenced) {
		writeErrorMessage(w, http.StatusUnprocessableEntity, "Super power is associated to a super hero")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperPower, id, model.ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}
