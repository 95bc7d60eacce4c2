package auth

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"super-heroes-api/internal/model"
	"super-heroes-api/pkg/apierror"
)

// Claims is the identity snapshot embedded in a token at issuance. Role
// membership is frozen until the user authenticates again; only the user's
// continued existence and the role names are resolved live per request.
type Claims struct {
	Username string
	RoleIDs  []string
}

// TokenCodec signs and verifies bearer tokens with a shared HMAC secret.
// Tokens carry no expiry claim; revocation happens by deleting the user.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) *TokenCodec {
	return &TokenCodec{secret: []byte(secret)}
}

func (c *TokenCodec) Encode(user model.User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"roles":    user.RoleIDs(),
		"iat":      time.Now().UTC().Unix(),
		"jti":      uuid.NewString(),
	})
	return token.SignedString(c.secret)
}

func (c *TokenCodec) Decode(tokenString string) (*Claims, error) {
	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		return c.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return nil, apierror.New("UNAUTHORIZED", "Invalid access token", http.StatusUnauthorized)
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New("UNAUTHORIZED", "Invalid access token", http.StatusUnauthorized)
	}

	username, _ := claimsMap["username"].(string)
	if username == "" {
		return nil, apierror.New("UNAUTHORIZED", "Invalid access token", http.StatusUnauthorized)
	}

	claims := &Claims{Username: username}
	if rawRoles, ok := claimsMap["roles"].([]any); ok {
		for _, raw := range rawRoles {
			if id, ok := raw.(string); ok {
				claims.RoleIDs = append(claims.RoleIDs, id)
			}
		}
	}

	return claims, nil
}
