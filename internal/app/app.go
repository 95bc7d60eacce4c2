package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"super-heroes-api/internal/auth"
	"super-heroes-api/internal/authz"
	"super-heroes-api/internal/config"
	"super-heroes-api/internal/database"
	"super-heroes-api/internal/event"
	"super-heroes-api/internal/handler"
	"super-heroes-api/internal/middleware"
	"super-heroes-api/internal/obs"
	"super-heroes-api/internal/repository"
	"super-heroes-api/internal/router"
	"super-heroes-api/internal/service"
	"super-heroes-api/internal/websocket"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	roleRepo := repository.NewRoleRepository(pool)
	superHeroRepo := repository.NewSuperHeroRepository(pool)
	superPowerRepo := repository.NewSuperPowerRepository(pool)
	protectionAreaRepo := repository.NewProtectionAreaRepository(pool)
	auditRepo := repository.NewAuditEventRepository(pool)
	slog.Info("database ready")

	obs.Init()

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	go hub.Run()

	codec := auth.NewTokenCodec(cfg.JWTSecret)
	policy := authz.Default()
	authMiddleware := middleware.NewAuthMiddleware(codec, userRepo, roleRepo, policy)

	authService := service.NewAuthService(userRepo, codec)
	auditService := service.NewAuditService(auditRepo, bus)

	baseURL := cfg.BaseURL()
	handlers := router.Handlers{
		Auth:            handler.NewAuthHandler(authService),
		SuperHeroes:     handler.NewSuperHeroHandler(superHeroRepo, auditService, baseURL),
		SuperPowers:     handler.NewSuperPowerHandler(superPowerRepo, auditService, baseURL),
		Users:           handler.NewUserHandler(userRepo, auditService, baseURL, cfg.BcryptCost),
		ProtectionAreas: handler.NewProtectionAreaHandler(protectionAreaRepo),
		HelpMe:          handler.NewHelpMeHandler(superHeroRepo),
		Health:          healthHandler(db),
	}

	appRouter := router.New(cfg, authMiddleware, hub, handlers)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			func() {
				db.Close()
			},
		},
	}, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}

func healthHandler(db *database.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := db.Health(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
