package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"springboard/internal/core/ports"
	"springboard/internal/core/services"
	httphandlers "springboard/internal/handlers/http"
	"springboard/internal/infrastructure/distributed"
	"springboard/internal/infrastructure/groupwatch"
	"springboard/internal/infrastructure/middleware"
	"springboard/internal/infrastructure/monitoring"
	repositories "springboard/internal/infrastructure/repositories"
	"springboard/pkg/config"
	"springboard/pkg/logger"
	"springboard/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Try multiple config paths
	configPaths := []string{
		"configs/config.yaml",
		"./configs/config.yaml",
		"/etc/springboard/config.yaml",
		"config.yaml",
	}

	var cfg *config.Config
	var err error

	for _, path := range configPaths {
		cfg, err = config.Load(path)
		if err == nil {
			break
		}
	}

	if err != nil {
		cfg = config.DefaultConfig()
	}

	// Initialize logger
	zapLogger := logger.New(cfg.Logging.Level)
	defer zapLogger.Sync()

	log := zapLogger.Sugar()
	ctxLogger := logger.NewContextLogger(zapLogger)

	// Initialize tracing
	tracerProvider, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: "springboard",
		JaegerURL:   cfg.Tracing.JaegerURL,
		Environment: "production",
		SampleRate:  cfg.Tracing.SampleRate,
	})
	if err != nil {
		log.Fatalw("failed to initialize tracing", "error", err)
	}

	// Initialize repository factory
	repoFactory, err := repositories.NewRepositoryFactory(cfg, log)
	if err != nil {
		log.Fatalw("failed to create repository factory", "error", err)
	}
	defer repoFactory.Close()

	// Initialize repositories
	mediaRepo := repoFactory.CreateMediaRepository()
	sessionRepo := repoFactory.CreateSessionRepository()
	presenceRepo := repoFactory.CreatePresenceRepository()

	instanceID := uuid.New().String()
	flags := services.NewStreamingFlags()

	hub := groupwatch.NewHub(cfg.Rooms.PingInterval, cfg.Rooms.PongTimeout, log)

	// Notifier: distributed over Redis when available, local otherwise
	var notifier ports.Notifier
	var watcher *distributed.StreamingWatcher
	if client := repoFactory.RedisClient(); client != nil {
		notifier = distributed.NewRedisNotifier(client, instanceID, log)

		watcher = distributed.NewStreamingWatcher(client, flags, log)
		if err := watcher.Start(context.Background()); err != nil {
			log.Fatalw("failed to start streaming watcher", "error", err)
		}
	} else {
		notifier = distributed.NewLocalNotifier(flags, log)
	}

	authService := services.NewAuthService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, cfg.Auth.GuestTTL)
	playbackService := services.NewPlaybackService(mediaRepo, log)
	presenceService := services.NewPresenceService(presenceRepo, notifier)
	joiner := services.NewGroupWatchJoiner(hub, log)
	lifecycle := services.NewLifecycleController(
		sessionRepo, presenceService, notifier, joiner, authService, flags,
		cfg.Presence.HeartbeatInterval, log,
	)

	// Initialize monitoring
	prometheusCollector := monitoring.NewPrometheusCollector()

	healthChecker := monitoring.NewHealthChecker()
	healthChecker.AddCheck("repositories", func(ctx context.Context) (bool, error) {
		if err := repoFactory.HealthCheck(ctx); err != nil {
			return false, err
		}
		return true, nil
	}, 2*time.Second)

	// Initialize HTTP handlers
	watchHandler := httphandlers.NewWatchHandler(playbackService, lifecycle, flags, hub, prometheusCollector)
	authHandler := httphandlers.NewAuthHandler(authService)
	roomHandler := httphandlers.NewRoomHandler(hub)

	// Configure Gin
	if cfg.Logging.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(middleware.RecoveryMiddleware(ctxLogger))
	router.Use(middleware.ErrorHandlerMiddleware(ctxLogger))
	router.Use(middleware.NewRateLimitMiddleware(cfg))
	if cfg.Tracing.Enabled {
		router.Use(middleware.TracingMiddleware())
	}

	// Public routes: resolution works for anonymous visitors too
	public := router.Group("/api/v1")
	public.Use(middleware.OptionalAuthMiddleware(authService))
	{
		watchHandler.SetupRoutes(public)
		authHandler.SetupRoutes(public)
	}

	// Room routes require a resolved identity
	protected := router.Group("/api/v1")
	protected.Use(middleware.AuthMiddleware(authService))
	{
		roomHandler.SetupRoutes(protected)
	}

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"uptime":    time.Since(startTime).String(),
		})
	})

	// Readiness endpoint checks real dependencies
	router.GET("/ready", func(c *gin.Context) {
		status := healthChecker.CheckAll(c.Request.Context())
		if status.Status != "healthy" {
			c.JSON(503, status)
			return
		}
		c.JSON(200, status)
	})

	// Prometheus metrics endpoint
	if cfg.Monitoring.PrometheusEnabled {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
		log.Info("Prometheus metrics enabled")
	}

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		log.Infof("Starting Springboard watch server on %s", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for shutdown signals or server error
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatalw("Server failed", "error", err)
	case sig := <-sigChan:
		log.Infow("Received shutdown signal", "signal", sig)
	}

	log.Info("Shutting down Springboard watch server...")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Shutdown HTTP server gracefully
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error during server shutdown", "error", err)
		if closeErr := srv.Close(); closeErr != nil {
			log.Errorw("Error force closing server", "error", closeErr)
		}
	} else {
		log.Info("Server shutdown gracefully")
	}

	// Tear down every active watch session before the process exits so
	// presence and guest identities are left clean.
	lifecycle.Shutdown(shutdownCtx)

	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			log.Errorw("Error stopping streaming watcher", "error", err)
		}
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Errorw("Error shutting down tracer", "error", err)
	}

	if err := repoFactory.Close(); err != nil {
		log.Errorw("Error closing repository factory", "error", err)
	}

	log.Info("Springboard watch server stopped")
}
