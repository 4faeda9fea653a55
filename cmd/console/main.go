package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wastewise/wastewise-console/internal/admins"
	"github.com/wastewise/wastewise-console/internal/app"
	"github.com/wastewise/wastewise-console/internal/audit"
	"github.com/wastewise/wastewise-console/internal/auth"
	"github.com/wastewise/wastewise-console/internal/collectors"
	"github.com/wastewise/wastewise-console/internal/dashboard"
	"github.com/wastewise/wastewise-console/internal/dwellers"
	"github.com/wastewise/wastewise-console/internal/observability"
	"github.com/wastewise/wastewise-console/internal/platform/cache"
	"github.com/wastewise/wastewise-console/internal/platform/db"
	"github.com/wastewise/wastewise-console/internal/requests"
	"github.com/wastewise/wastewise-console/internal/routes"
	"github.com/wastewise/wastewise-console/internal/shared"
	"github.com/wastewise/wastewise-console/internal/timetables"
	"github.com/wastewise/wastewise-console/internal/upstream"
	"github.com/wastewise/wastewise-console/internal/view"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Warn("connect postgres, session registry and audit disabled", slog.Any("error", err))
		pool = nil
	}
	if pool != nil {
		defer pool.Close()
	}

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "wastewise_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	client := upstream.NewClient(cfg.UpstreamBaseURL, cfg.UpstreamTimeout)
	client.SetObserver(metrics.ObserveUpstream)

	recorder := audit.NewRecorder(pool, logger)

	adminsService := admins.NewService(client)
	adminsHandler := admins.NewHandler(logger, adminsService, recorder)

	dwellersService := dwellers.NewService(client)
	dwellersHandler := dwellers.NewHandler(logger, dwellersService, recorder)

	authRepo := auth.NewRepository(pool)
	authService := auth.NewService(client, authRepo)
	authHandler := auth.NewHandler(logger, authService, dwellersService, templates, sessionManager, csrfManager)

	collectorsService := collectors.NewService(client)
	collectorsHandler := collectors.NewHandler(logger, collectorsService, recorder)

	routesService := routes.NewService(client)
	routesHandler := routes.NewHandler(logger, routesService, recorder)

	timetablesService := timetables.NewService(client)
	timetablesHandler := timetables.NewHandler(logger, timetablesService, recorder)

	analyticsCache := requests.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	requestsService := requests.NewService(client, analyticsCache)
	requestsHandler := requests.NewHandler(logger, requestsService, recorder)

	dashboardService := dashboard.NewService(collectorsService, routesService, requestsService)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService)

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		Templates:      templates,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,

		AuthHandler:      authHandler,
		AdminsHandler:    adminsHandler,
		DwellersHandler:  dwellersHandler,
		CollectorHandler: collectorsHandler,
		RoutesHandler:    routesHandler,
		TimetableHandler: timetablesHandler,
		RequestsHandler:  requestsHandler,
		DashboardHandler: dashboardHandler,

		Metrics: metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
