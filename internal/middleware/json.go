package middleware

import (
	"encoding/json"
	"net/http"

	"super-heroes-api/internal/model"
)

func writeErrorJSON(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(model.ErrorResponse{Error: message})
}

func writeValidationJSON(w http.ResponseWriter, errs []model.ValidationError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(model.ValidationErrorsResponse{Errors: errs})
}
