package middleware

import (
	"fmt"
	"net/http"
	"strings"
)

// ContentType rejects any request whose Content-Type header is not exactly
// the required media type. The gate runs before authorization, so even a
// request that would fail authentication gets the 400 first. Infrastructure
// paths (health, metrics, the websocket channel) are exempt.
func ContentType(required string, skipPrefixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, prefix := range skipPrefixes {
				if strings.HasPrefix(r.URL.Path, prefix) {
					next.ServeHTTP(w, r)
					return
				}
			}

			if r.Header.Get("Content-Type") != required {
				writeErrorJSON(w, http.StatusBadRequest,
					fmt.Sprintf("Invalid content-type. Use '%s'", required))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
