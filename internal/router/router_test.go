package router

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"super-heroes-api/internal/auth"
	"super-heroes-api/internal/authz"
	"super-heroes-api/internal/config"
	"super-heroes-api/internal/event"
	"super-heroes-api/internal/handler"
	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/model"
	"super-heroes-api/internal/websocket"
)

type stubDecoder struct {
	claims *auth.Claims
	err    error
}

func (s *stubDecoder) Decode(string) (*auth.Claims, error) { return s.claims, s.err }

type stubUserChecker struct{ exists bool }

func (s *stubUserChecker) ExistsByUsername(context.Context, string) (bool, error) {
	return s.exists, nil
}

type stubRoleNamer struct{ names []string }

func (s *stubRoleNamer) FindNamesByIDs(context.Context, []string) ([]string, error) {
	return s.names, nil
}

type stubAuthenticator struct{}

func (stubAuthenticator) Authenticate(context.Context, string, string) (string, error) {
	return "signed-token", nil
}

type stubPowerStore struct{}

func (stubPowerStore) List(context.Context, int, int) ([]model.SuperPower, error) {
	return []model.SuperPower{}, nil
}
func (stubPowerStore) FindByID(context.Context, string) (model.SuperPower, error) {
	return model.SuperPower{}, nil
}
func (stubPowerStore) Create(context.Context, model.SuperPower) error { return nil }
func (stubPowerStore) Update(context.Context, model.SuperPower) error { return nil }
func (stubPowerStore) Delete(context.Context, string) error           { return nil }

func testRouter(t *testing.T, authorized bool) http.Handler {
	t.Helper()

	cfg := &config.Config{
		Protocol:         "http",
		Host:             "127.0.0.1",
		Port:             "3000",
		ContentType:      "application/json",
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		RequestTimeout:   5 * time.Second,
	}

	decoder := &stubDecoder{err: errors.New("invalid")}
	roles := &stubRoleNamer{}
	if authorized {
		decoder.claims, decoder.err = &auth.Claims{Username: "clark", RoleIDs: []string{"r"}}, nil
		roles.names = []string{"Admin"}
	}
	authMiddleware := middleware.NewAuthMiddleware(decoder, &stubUserChecker{exists: true}, roles, authz.Default())

	hub := websocket.NewHub(event.NewBus())

	handlers := Handlers{
		Auth:        handler.NewAuthHandler(stubAuthenticator{}),
		SuperPowers: handler.NewSuperPowerHandler(stubPowerStore{}, nil, cfg.BaseURL()),
		Health: func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		},
	}

	return New(cfg, authMiddleware, hub, handlers)
}

func request(t *testing.T, h http.Handler, method string, path string, json bool, token string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader("{}"))
	if json {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(middleware.TokenHeader, token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUnknownRouteIs404WithMessage(t *testing.T) {
	r := testRouter(t, false)

	rec := request(t, r, "GET", "/nope", true, "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"GET '/nope' not found"}`, rec.Body.String())
}

func TestDisallowedMethodIsAlso404(t *testing.T) {
	r := testRouter(t, true)

	rec := request(t, r, "PATCH", "/super-powers", true, "token")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"PATCH '/super-powers' not found"}`, rec.Body.String())
}

func TestContentTypeGateCoversUnknownRoutes(t *testing.T) {
	r := testRouter(t, false)

	rec := request(t, r, "GET", "/nope", false, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Invalid content-type. Use 'application/json'"}`, rec.Body.String())
}

func TestHealthSkipsContentTypeGate(t *testing.T) {
	r := testRouter(t, false)

	rec := request(t, r, "GET", "/health", false, "")

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthenticateNeedsNoToken(t *testing.T) {
	r := testRouter(t, false)

	rec := request(t, r, "POST", "/authenticate", true, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"signed-token"}`, rec.Body.String())
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	r := testRouter(t, false)

	for _, path := range []string{"/super-heroes", "/super-powers", "/users", "/protection-areas", "/help-me"} {
		rec := request(t, r, "GET", path, true, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.JSONEq(t, `{"error":"User is not authenticated"}`, rec.Body.String(), path)
	}
}

func TestProtectedRouteServesAuthorizedRequest(t *testing.T) {
	r := testRouter(t, true)

	rec := request(t, r, "GET", "/super-powers", true, "token")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestEventsUpgradesAndDeliversAuditBroadcast(t *testing.T) {
	// The websocket upgrade runs through every wrapping middleware, so this
	// covers the full pipeline hijacking the connection end to end.
	cfg := &config.Config{
		Protocol:         "http",
		Host:             "127.0.0.1",
		Port:             "3000",
		ContentType:      "application/json",
		RateLimitRPM:     10000,
		AuthRateLimitRPM: 10000,
		RequestTimeout:   5 * time.Second,
	}
	authMiddleware := middleware.NewAuthMiddleware(
		&stubDecoder{err: errors.New("invalid")}, &stubUserChecker{exists: true},
		&stubRoleNamer{}, authz.Default())

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	srv := httptest.NewServer(New(cfg, authMiddleware, hub, Handlers{
		Auth: handler.NewAuthHandler(stubAuthenticator{}),
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/events"
	conn, resp, err := gorillaws.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		defer resp.Body.Close()
	}
	defer conn.Close()

	// Give the hub a moment to register the new client before publishing.
	time.Sleep(100 * time.Millisecond)
	bus.Publish(event.Event{ID: "e-1", Type: event.TypeAuditEvent, Payload: map[string]string{"entity": "superHero"}})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, message, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(message), `"audit.event"`)
	assert.Contains(t, string(message), `"superHero"`)
}
