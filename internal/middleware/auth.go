package middleware

import (
	"context"
	"net/http"

	"super-heroes-api/internal/auth"
	"super-heroes-api/internal/authz"
)

// TokenHeader carries the bearer token on every route except /authenticate.
const TokenHeader = "x-access-token"

type tokenDecoder interface {
	Decode(tokenString string) (*auth.Claims, error)
}

type userChecker interface {
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

type roleNamer interface {
	FindNamesByIDs(ctx context.Context, ids []string) ([]string, error)
}

type contextKey string

const actorContextKey contextKey = "actor"

// AuthMiddleware is the request authorizer. Per request it verifies the
// token signature, re-checks that the named user still exists (revocation
// by deletion), resolves the live names of the token's role-id set, and
// asks the policy for a decision. It holds no state between requests.
type AuthMiddleware struct {
	codec  tokenDecoder
	users  userChecker
	roles  roleNamer
	policy *authz.Policy
}

func NewAuthMiddleware(codec tokenDecoder, users userChecker, roles roleNamer, policy *authz.Policy) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users, roles: roles, policy: policy}
}

func (m *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get(TokenHeader)
		if token == "" {
			writeErrorJSON(w, http.StatusUnauthorized, "User is not authenticated")
			return
		}

		claims, err := m.codec.Decode(token)
		if err != nil {
			writeErrorJSON(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		exists, err := m.users.ExistsByUsername(r.Context(), claims.Username)
		if err != nil {
			writeErrorJSON(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}
		if !exists {
			// Valid signature, deleted user. The token is dead.
			writeErrorJSON(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		// Role names come from the id set frozen in the token: a rename is
		// reflected immediately, a reassignment only after re-login.
		names, err := m.roles.FindNamesByIDs(r.Context(), claims.RoleIDs)
		if err != nil {
			writeErrorJSON(w, http.StatusInternalServerError, "An unexpected error occurred")
			return
		}

		if !m.policy.Allows(names, r.Method, r.URL.Path) {
			writeErrorJSON(w, http.StatusForbidden, "User does not have permission to access this route")
			return
		}

		ctx := context.WithValue(r.Context(), actorContextKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ActorFromContext returns the username the authorizer attached on ALLOW.
func ActorFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(actorContextKey).(string)
	return username, ok
}
