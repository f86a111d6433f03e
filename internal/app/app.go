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

	"sportspace-admin/internal/config"
	"sportspace-admin/internal/database"
	"sportspace-admin/internal/event"
	"sportspace-admin/internal/handler"
	"sportspace-admin/internal/metrics"
	"sportspace-admin/internal/middleware"
	"sportspace-admin/internal/repository"
	"sportspace-admin/internal/router"
	"sportspace-admin/internal/service"
	"sportspace-admin/internal/storage"
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

	imageStore, err := storage.New(cfg.ImageRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image storage: %w", err)
	}

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(context.Background(), cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	pool := db.Pool
	userRepo := repository.NewUserRepository(pool)
	tokenRepo := repository.NewTokenRepository(pool)
	sportRepo := repository.NewSportRepository(pool)
	spaceRepo := repository.NewSpaceRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	slog.Info("database ready")

	bus := event.NewBus()

	authService, err := service.NewAuthService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL, userRepo, tokenRepo, bus)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth service: %w", err)
	}
	userService := service.NewUserService(userRepo, bus)
	spaceService := service.NewSpaceService(spaceRepo, sportRepo, imageStore, cfg.ThumbnailRoot, bus)
	bookingService := service.NewBookingService(bookingRepo, spaceRepo, bus)
	auditService := service.NewAuditService(auditRepo, bus)

	auditCtx, auditCancel := context.WithCancel(context.Background())
	go auditService.Run(auditCtx)

	reg := metrics.New()
	authMiddleware := middleware.NewAuthMiddleware(authService)

	appRouter := router.New(
		cfg,
		reg,
		authMiddleware,
		handler.NewAuthHandler(authService, reg),
		handler.NewUserHandler(userService),
		handler.NewSpaceHandler(spaceService, cfg.MaxImageSize),
		handler.NewBookingHandler(bookingService),
		handler.NewAuditHandler(auditService),
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return db.Health(ctx)
		},
	)

	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           appRouter,
		ReadHeaderTimeout: cfg.ServerReadHeaderTimeout,
		WriteTimeout:      cfg.ServerWriteTimeout,
		IdleTimeout:       cfg.ServerIdleTimeout,
	}

	return &App{
		server: server,
		db:     db,
		cleanupFuncs: []func(){
			auditCancel,
			db.Close,
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
