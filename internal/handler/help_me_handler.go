package handler

import (
	"context"
	"net/http"
	"strconv"

	"super-heroes-api/internal/model"
)

const (
	// Search radius for distress calls, in meters.
	helpMeRadiusMeters = 10 * 1000
	helpMeMaxResults   = 8
)

type nearbyFinder interface {
	FindNearby(ctx context.Context, latitude float64, longitude float64, radiusMeters float64, limit int) ([]model.SuperHero, error)
}

// HelpMeHandler answers "who can save me here": the closest heroes whose
// protection area covers the caller's position, nearest first.
type HelpMeHandler struct {
	finder nearbyFinder
}

func NewHelpMeHandler(finder nearbyFinder) *HelpMeHandler {
	return &HelpMeHandler{finder: finder}
}

func (h *HelpMeHandler) HelpMe(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	errs := make([]model.ValidationError, 0, 2)
	latitude := parseCoordinate(query.Get("latitude"), "latitude", "Latitude", &errs)
	longitude := parseCoordinate(query.Get("longitude"), "longitude", "Longitude", &errs)

	if len(errs) > 0 {
		writeValidationErrors(w, errs)
		return
	}

	heroes, err := h.finder.FindNearby(r.Context(), latitude, longitude, helpMeRadiusMeters, helpMeMaxResults)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, heroes)
}

func parseCoordinate(raw string, param string, label string, errs *[]model.ValidationError) float64 {
	if raw == "" {
		*errs = append(*errs, model.ValidationError{Param: param, Msg: label + " is required"})
		return 0
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		*errs = append(*errs, model.ValidationError{Param: param, Msg: label + " must be a Float value"})
		return 0
	}
	return value
}
