package router

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"super-heroes-api/internal/config"
	"super-heroes-api/internal/handler"
	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/obs"
	"super-heroes-api/internal/websocket"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth            *handler.AuthHandler
	SuperHeroes     *handler.SuperHeroHandler
	SuperPowers     *handler.SuperPowerHandler
	Users           *handler.UserHandler
	ProtectionAreas *handler.ProtectionAreaHandler
	HelpMe          *handler.HelpMeHandler
	Health          http.HandlerFunc
}

func New(cfg *config.Config, authMiddleware *middleware.AuthMiddleware, hub *websocket.Hub, h Handlers) http.Handler {
	r := chi.NewRouter()
	rateLimitMiddleware := middleware.NewRateLimitMiddleware(cfg.RateLimitRPM, cfg.AuthRateLimitRPM)

	r.Use(middleware.Recovery)
	r.Use(middleware.Logging)
	r.Use(obs.Instrument)
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(rateLimitMiddleware.Handler)
	// The content-type gate covers every route, including the 404 fallback.
	// The websocket upgrade and the probes carry no JSON body, so they skip it.
	r.Use(middleware.ContentType(cfg.ContentType, "/health", "/metrics", "/events"))

	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", obs.Handler())
	r.Get("/events", hub.ServeWS)

	r.Post("/authenticate", h.Auth.Authenticate)

	r.Group(func(protected chi.Router) {
		protected.Use(middleware.Timeout(cfg.RequestTimeout))
		protected.Use(authMiddleware.Handler)
		protected.Use(middleware.Pagination)

		protected.Get("/super-heroes", h.SuperHeroes.List)
		protected.Get("/super-heroes/{id}", h.SuperHeroes.FindOne)
		protected.Post("/super-heroes", h.SuperHeroes.Create)
		protected.Put("/super-heroes/{id}", h.SuperHeroes.Update)
		protected.Delete("/super-heroes/{id}", h.SuperHeroes.Delete)

		protected.Get("/super-powers", h.SuperPowers.List)
		protected.Get("/super-powers/{id}", h.SuperPowers.FindOne)
		protected.Post("/super-powers", h.SuperPowers.Create)
		protected.Put("/super-powers/{id}", h.SuperPowers.Update)
		protected.Delete("/super-powers/{id}", h.SuperPowers.Delete)

		protected.Get("/users", h.Users.List)
		protected.Get("/users/{id}", h.Users.FindOne)
		protected.Post("/users", h.Users.Create)
		protected.Put("/users/{id}", h.Users.Update)
		protected.Delete("/users/{id}", h.Users.Delete)

		protected.Get("/protection-areas", h.ProtectionAreas.List)

		protected.Get("/help-me", h.HelpMe.HelpMe)
	})

	return r
}

// notFound answers unknown routes and disallowed methods alike; the catalog
// does not distinguish the two.
func notFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	_, _ = fmt.Fprintf(w, `{"error":"%s '%s' not found"}`, r.Method, r.URL.Path)
}
