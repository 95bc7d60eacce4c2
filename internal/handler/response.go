package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"super-heroes-api/internal/model"
	"super-heroes-api/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeErrorMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, model.ErrorResponse{Error: message})
}

func writeValidationErrors(w http.ResponseWriter, errs []model.ValidationError) {
	writeJSON(w, http.StatusBadRequest, model.ValidationErrorsResponse{Errors: errs})
}

// writeError renders a typed API error, or a generic 500 for anything a
// handler failed to classify. The underlying error never reaches the
// client; it only goes to the log.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	if errors.As(err, &apiErr) {
		writeErrorMessage(w, apiErr.HTTPStatus, apiErr.Message)
		return
	}

	slog.Error("unhandled error", "error", err.Error())
	writeErrorMessage(w, http.StatusInternalServerError, "An unexpected error occurred")
}
