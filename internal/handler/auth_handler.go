package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"super-heroes-api/internal/model"
	"super-heroes-api/pkg/apierror"
)

type authenticator interface {
	Authenticate(ctx context.Context, username string, password string) (string, error)
}

type AuthHandler struct {
	service authenticator
}

func NewAuthHandler(service authenticator) *AuthHandler {
	return &AuthHandler{service: service}
}

type authenticateRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate is the only unauthenticated route: it trades a valid
// username/password for a signed token.
func (h *AuthHandler) Authenticate(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload authenticateRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.New("BAD_REQUEST", "Invalid request body", http.StatusBadRequest))
		return
	}

	token, err := h.service.Authenticate(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, model.TokenResponse{Token: token})
}
