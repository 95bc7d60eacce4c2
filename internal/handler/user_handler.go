package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/model"
	"super-heroes-api/internal/repository"
)

type userStore interface {
	List(ctx context.Context, limit int, offset int) ([]model.User, error)
	FindByID(ctx context.Context, id string) (model.User, error)
	Create(ctx context.Context, p repository.UserParams) error
	Update(ctx context.Context, p repository.UserParams) error
	Delete(ctx context.Context, id string) error
}

type UserHandler struct {
	store      userStore
	audit      auditRecorder
	baseURL    string
	bcryptCost int
}

func NewUserHandler(store userStore, audit auditRecorder, baseURL string, bcryptCost int) *UserHandler {
	if bcryptCost < bcrypt.MinCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserHandler{store: store, audit: audit, baseURL: baseURL, bcryptCost: bcryptCost}
}

type userPayload struct {
	ID       *string  `json:"_id"`
	Username *string  `json:"username" validate:"required"`
	Password *string  `json:"password" validate:"required"`
	Roles    []string `json:"roles"`
}

var userMessages = map[string]string{
	"Username": "Username is required",
	"Password": "Password is required",
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	page := middleware.PageFromContext(r.Context())

	users, err := h.store.List(r.Context(), page.Limit, page.Skip)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) FindOne(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}

	user, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeError(w, payloadError(err, userMessages))
		return
	}
	if !h.validateRoleIDs(w, payload.Roles) {
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), h.bcryptCost)
	if err != nil {
		writeError(w, err)
		return
	}

	params := repository.UserParams{
		ID:           uuid.NewString(),
		Username:     *payload.Username,
		PasswordHash: string(hash),
		RoleIDs:      payload.Roles,
	}

	if err := h.store.Create(r.Context(), params); err != nil {
		h.writeStoreError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntityUser, params.ID, model.ActionCreate)

	w.Header().Set("Location", fmt.Sprintf("%s/users/%s", h.baseURL, params.ID))
	w.WriteHeader(http.StatusCreated)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}

	var payload userPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if payload.ID != nil {
		writeErrorMessage(w, http.StatusBadRequest, "Id must not be sent on update")
		return
	}

	user, err := h.store.FindByID(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	params := repository.UserParams{
		ID:           user.ID,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		RoleIDs:      user.RoleIDs(),
	}
	if payload.Username != nil {
		params.Username = *payload.Username
	}
	if payload.Password != nil {
		// A password change always rehashes; the old hash is unusable.
		hash, err := bcrypt.GenerateFromPassword([]byte(*payload.Password), h.bcryptCost)
		if err != nil {
			writeError(w, err)
			return
		}
		params.PasswordHash = string(hash)
	}
	if payload.Roles != nil {
		if !h.validateRoleIDs(w, payload.Roles) {
			return
		}
		params.RoleIDs = payload.Roles
	}

	if err := h.store.Update(r.Context(), params); err != nil {
		h.writeStoreError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntityUser, params.ID, model.ActionUpdate)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}

	err := h.store.Delete(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		writeErrorMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}

	recordAudit(r, h.audit, model.EntityUser, id, model.ActionDelete)
	w.WriteHeader(http.StatusNoContent)
}

func (h *UserHandler) validateRoleIDs(w http.ResponseWriter, roleIDs []string) bool {
	for _, roleID := range roleIDs {
		if uuid.Validate(roleID) != nil {
			writeErrorMessage(w, http.StatusBadRequest, "Invalid role id")
			return false
		}
	}
	return true
}

func (h *UserHandler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrDuplicateKey):
		writeErrorMessage(w, http.StatusUnprocessableEntity, "Duplicated user")
	case errors.Is(err, repository.ErrUnknownRole):
		writeErrorMessage(w, http.StatusBadRequest, "Role does not exist")
	default:
		writeError(w, err)
	}
}
