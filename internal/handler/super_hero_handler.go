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

type superHeroStore interface {
	List(ctx context.Context, limit int, offset int) ([]model.SuperHero, error)
	FindByID(ctx context.Context, id string) (model.SuperHero, error)
	Create(ctx context.Context, p repository.SuperHeroParams) error
	Update(ctx context.Context, p repository.SuperHeroParams) error
	Delete(ctx context.Context, id string) error
}

type SuperHeroHandler struct {
	store   superHeroStore
	audit   auditRecorder
	baseURL string
}

func NewSuperHeroHandler(store superHeroStore, audit auditRecorder, baseURL string) *SuperHeroHandler {
	return &SuperHeroHandler{store: store, audit: audit, baseURL: baseURL}
}

type superHeroPayload struct {
	ID             *string  `json:"_id"`
	Name           *string  `json:"name" validate:"required"`
	Alias          *string  `json:"alias" validate:"required"`
	ProtectionArea *string  `json:"protectionArea" validate:"required"`
	SuperPowers    []string `json:"superPowers"`
}

var superHeroMessages = map[string]string{
	"Name":           "Name is required",
	"Alias":          "Alias is required",
	"ProtectionArea": "Protection area is required",
}

func (h *SuperHeroHandler) List(w http.ResponseWriter, r *http.Request) {
	page := middleware.PageFromContext(r.Context())

	heroes, err := h.store.List(r.Context(), page.Limit, page.Skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, heroes)
}

func (h *SuperHeroHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}

	hero, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, hero)
}

func (h *SuperHeroHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload superHeroPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, payloadError(err, superHeroMessages))
		return
	}

	params := repository.SuperHeroParams{
		ID:               uuid.NewString(),
		Name:             *payload.Name,
		Alias:            *payload.Alias,
		ProtectionAreaID: *payload.ProtectionArea,
		SuperPowerIDs:    payload.SuperPowers,
	}
	if !h.validateReferences(w, params) {
		return
	}

	if err := h.store.Create(r.Context(), params); err != nil {
		h.writeStoreError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperHero, params.ID, model.ActionCreate)

	w.Header().Set("Location", fmt.Sprintf("%s/super-heroes/%s", h.baseURL, params.ID))
	w.WriteHeader(http.StatusCreated)
}

func (h *SuperHeroHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}

	var payload superHeroPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.ID != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Id must not be sent on update")
		return
	}

	hero, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	params := repository.SuperHeroParams{
		ID:               hero.ID,
		Name:             hero.Name,
		Alias:            hero.Alias,
		ProtectionAreaID: hero.ProtectionArea.ID,
		SuperPowerIDs:    hero.SuperPowerIDs,
	}
	if payload.Name != nil {
		params.Name = *payload.Name
	}
	if payload.Alias != nil {
		params.Alias = *payload.Alias
	}
	if payload.ProtectionArea != nil {
		params.ProtectionAreaID = *payload.ProtectionArea
	}
	if payload.SuperPowers != nil {
		params.SuperPowerIDs = payload.SuperPowers
	}
	if !h.validateReferences(w, params) {
		return
	}

	if err := h.store.Update(r.Context(), params); err != nil {
		h.writeStoreError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperHero, params.ID, model.ActionUpdate)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SuperHeroHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "Super hero not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntitySuperHero, id, model.ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}

// validateReferences rejects malformed reference ids before they reach the
// store; unknown-but-well-formed ids are the store's verdict instead.
func (h *SuperHeroHandler) validateReferences(w http.ResponseWriter, params repository.SuperHeroParams) bool {
	if uuid.Validate(params.ProtectionAreaID) != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid protection area id")
		return false
	}
	for _, powerID := range params.SuperPowerIDs {
		if uuid.Validate(powerID) != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid super power id")
			return false
		}
	}
	return true
}

func (h *SuperHeroHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		writeErrorMessage(w, http.StatusUnprocessableEntity, "Duplicated super hero")
	case errors.Is(err, repository.ErrUnknownProtectionArea):
		writeErrorMessage(w, http.StatusBadRequest, "Protection area does not exist")
	case errors.Is(err, repository.ErrUnknownSuperPower):
		writeErrorMessage(w, http.StatusBadRequest, "Super power does not exist")
	default:
		writeError(w, err)
	}
}
