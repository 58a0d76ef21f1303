package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"student-orm/internal/config"
	"student-orm/internal/health"
	"student-orm/internal/logger"
	"student-orm/internal/middleware"
	"student-orm/internal/student"
	"student-orm/internal/telemetry"

	"github.com/go-chi/chi/v5"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

type App struct {
	config        *config.Config
	router        chi.Router
	server        *http.Server
	logger        *slog.Logger
	components    *Components
	meterProvider *sdkmetric.MeterProvider
}

func New(ctx context.Context) (*App, error) {
	slogLogger := logger.NewWithServiceContext(ServiceName, Version)

	// Set as default logger so slog.Info() uses the same handler
	slog.SetDefault(slogLogger)

	slogLogger.Info("initializing application")

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	slogLogger.Info("config loaded", "env", cfg.Env)

	return NewWithConfig(ctx, cfg, slogLogger)
}

// NewWithConfig builds the application from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config, slogLogger *slog.Logger) (*App, error) {
	app := &App{
		config: cfg,
		router: chi.NewRouter(),
		logger: slogLogger,
	}

	if cfg.Telemetry.Enabled {
		mp, err := telemetry.InitMeterProvider(ctx, ServiceName, Version, cfg.Telemetry.Endpoint, slogLogger)
		if err != nil {
			slogLogger.Warn("failed to initialize telemetry", "error", err)
		} else {
			app.meterProvider = mp
		}
	}

	components, err := Build(ctx, cfg, slogLogger)
	if err != nil {
		return nil, err
	}
	app.components = components

	app.router.Use(middleware.CORS(cfg.Server.CORSOrigins))

	healthHandler := health.NewHandler(components.DB)
	healthHandler.RegisterRoutes(app.router)

	studentHandler := student.NewHandler(components.Service, slogLogger)
	app.router.Route("/api", func(r chi.Router) {
		studentHandler.RegisterRoutes(r)
	})

	slogLogger.Info("application initialized successfully")

	return app, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.router
}

func (a *App) Run() error {
	a.server = &http.Server{
		Addr:         fmt.Sprintf(":%s", a.config.Server.Port),
		Handler:      a.router,
		ReadTimeout:  seconds(a.config.Server.ReadTimeout, 15),
		WriteTimeout: seconds(a.config.Server.WriteTimeout, 15),
		IdleTimeout:  seconds(a.config.Server.IdleTimeout, 60),
	}

	a.logger.Info("server starting", "port", a.config.Server.Port)
	if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down server")

	var err error
	if a.server != nil {
		err = a.server.Shutdown(ctx)
	}
	a.components.Close()
	if a.meterProvider != nil {
		err = errors.Join(err, a.meterProvider.Shutdown(ctx))
	}
	return err
}

func seconds(v, fallback int) time.Duration {
	if v <= 0 {
		v = fallback
	}
	return time.Duration(v) * time.Second
}
