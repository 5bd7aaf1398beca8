package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/devstack-vibes/clinic-api/internal/config"
	"github.com/devstack-vibes/clinic-api/internal/domain/accounts"
	"github.com/devstack-vibes/clinic-api/internal/domain/billing"
	"github.com/devstack-vibes/clinic-api/internal/domain/dashboard"
	"github.com/devstack-vibes/clinic-api/internal/domain/registry"
	"github.com/devstack-vibes/clinic-api/internal/domain/reports"
	"github.com/devstack-vibes/clinic-api/internal/domain/scheduling"
	"github.com/devstack-vibes/clinic-api/internal/platform/artifacts"
	"github.com/devstack-vibes/clinic-api/internal/platform/auth"
	"github.com/devstack-vibes/clinic-api/internal/platform/middleware"
	"github.com/devstack-vibes/clinic-api/internal/platform/store"
	"github.com/devstack-vibes/clinic-api/internal/platform/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "clinic-server",
		Short: "Clinic administration API server",
	}
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(resetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer()
		},
	}
}

func resetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Wipe every stored collection and re-seed",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			fs, err := store.NewFileStore(cfg.DataDir)
			if err != nil {
				return fmt.Errorf("opening data dir: %w", err)
			}
			if err := fs.Reset(); err != nil {
				return fmt.Errorf("resetting store: %w", err)
			}
			if err := accounts.Seed(cmd.Context(), fs, cfg.AdminUsername, zerolog.Nop()); err != nil {
				return fmt.Errorf("re-seeding: %w", err)
			}
			fmt.Printf("reset record store in %s\n", cfg.DataDir)
			return nil
		},
	}
}

func runServer() error {
	// Logger
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if os.Getenv("ENV") == "development" || os.Getenv("ENV") == "" {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).With().Timestamp().Logger()
	}

	// Config
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid config")
	}

	// Record store
	fileStore, err := store.NewFileStore(cfg.DataDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open record store")
	}
	logger.Info().Str("data_dir", cfg.DataDir).Msg("record store ready")

	ctx := context.Background()
	if err := accounts.Seed(ctx, fileStore, cfg.AdminUsername, logger); err != nil {
		logger.Fatal().Err(err).Msg("failed to seed record store")
	}

	// Platform services
	tel := telemetry.NewProvider("clinic-server")
	files := artifacts.NewStore()

	sessions, err := auth.NewManager(cfg.AdminUsername, cfg.AdminPassword, cfg.SessionDuration())
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialise session manager")
	}
	defer sessions.Close()

	// Repositories
	patientRepo := registry.NewPatientStoreRepo(fileStore)
	doctorRepo := registry.NewDoctorStoreRepo(fileStore)
	apptRepo := scheduling.NewStoreRepo(fileStore)
	billRepo := billing.NewStoreRepo(fileStore)
	userRepo := accounts.NewStoreRepo(fileStore)
	reportRepo := reports.NewStoreRepo(fileStore)

	// Domain services
	apptSvc := scheduling.NewService(apptRepo, tel)
	billSvc := billing.NewService(billRepo, tel)
	registrySvc := registry.NewService(patientRepo, doctorRepo, apptRepo, billRepo, tel, logger)
	userSvc := accounts.NewService(userRepo, tel, logger)
	reportSvc := reports.NewService(reportRepo, registrySvc, apptSvc, billSvc, files, tel, logger)
	dashSvc := dashboard.NewService(registrySvc, apptSvc, billSvc, tel)

	// Echo server
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Global middleware
	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(middleware.BodyLimit("1M"))
	e.Use(middleware.RequestTimeout(30 * time.Second))
	e.Use(tel.MetricsMiddleware())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-Id"},
	}))

	// API groups
	public := e.Group("/api/v1")
	protected := e.Group("/api/v1", auth.Middleware(sessions))

	auth.NewHandler(sessions, logger).RegisterRoutes(public, protected)
	registry.NewHandler(registrySvc).RegisterRoutes(protected)
	scheduling.NewHandler(apptSvc).RegisterRoutes(protected)
	billing.NewHandler(billSvc).RegisterRoutes(protected)
	accounts.NewHandler(userSvc).RegisterRoutes(protected)
	reports.NewHandler(reportSvc).RegisterRoutes(protected)
	dashboard.NewHandler(dashSvc).RegisterRoutes(protected)

	// Operational endpoints
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", tel.PrometheusHandler())

	// Graceful shutdown
	go func() {
		addr := ":" + cfg.Port
		logger.Info().Str("addr", addr).Msg("starting server")
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
	return nil
}
