package middleware

import (
	"context"
	"net/http"
	"strconv"

	"super-heroes-api/internal/model"
)

const (
	defaultPage  = 1
	defaultLimit = 10

	paginationMessage = "Must be an integer with '1' as min value"
)

// Page is the validated pagination window for a request.
type Page struct {
	Page  int
	Limit int
	Skip  int
}

const pageContextKey contextKey = "page"

// Pagination validates the optional page/limit query parameters and stores
// the resulting window in the request context. Each invalid parameter gets
// its own entry in the 400 response.
func Pagination(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		errs := make([]model.ValidationError, 0, 2)
		page := parsePositiveInt(query.Get("page"), defaultPage, "page", &errs)
		limit := parsePositiveInt(query.Get("limit"), defaultLimit, "limit", &errs)

		if len(errs) > 0 {
			writeValidationJSON(w, errs)
			return
		}

		ctx := context.WithValue(r.Context(), pageContextKey, Page{
			Page:  page,
			Limit: limit,
			Skip:  (page - 1) * limit,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PageFromContext returns the validated window, or the defaults when the
// pagination middleware did not run for this route.
func PageFromContext(ctx context.Context) Page {
	if page, ok := ctx.Value(pageContextKey).(Page); ok {
		return page
	}
	return Page{Page: defaultPage, Limit: defaultLimit, Skip: 0}
}

func parsePositiveInt(raw string, fallback int, param string, errs *[]model.ValidationError) int {
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 {
		*errs = append(*errs, model.ValidationError{Param: param, Msg: paginationMessage})
		return fallback
	}
	return value
}
