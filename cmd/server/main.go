package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teamhub/internal/auth"
	"teamhub/internal/capture"
	"teamhub/internal/config"
	"teamhub/internal/database"
	"teamhub/internal/handlers"
	"teamhub/internal/metrics"
	"teamhub/internal/middleware"
	"teamhub/internal/notify"
	"teamhub/internal/realtime"
	"teamhub/internal/repositories"
	"teamhub/internal/services"
	"teamhub/internal/session"
	"teamhub/internal/transcribe"
	"teamhub/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// version được set qua -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	// =========================================================================
	// Load configuration
	// =========================================================================
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// =========================================================================
	// Khởi tạo Logger
	// =========================================================================
	log, err := logger.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.Int("port", cfg.App.Port),
	)

	// =========================================================================
	// Kết nối Database
	// =========================================================================
	db, err := database.Open(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer database.Close(db)

	// Production chạy migration qua `teamctl migrate`
	if !cfg.App.IsProduction() {
		if err := database.AutoMigrate(db); err != nil {
			log.Warn("auto migrate failed", zap.Error(err))
		} else {
			log.Info("database auto migration completed")
		}
	}

	// =========================================================================
	// Khởi tạo Repositories
	// =========================================================================
	userRepo := repositories.NewUserRepository(db)
	playerRepo := repositories.NewPlayerRepository(db)
	staffRepo := repositories.NewStaffRepository(db)
	tagRepo := repositories.NewTagRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	noteRepo := repositories.NewNoteRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)
	formRepo := repositories.NewFormRepository(db)
	tripRepo := repositories.NewTripRepository(db)

	log.Info("repositories initialized")

	// =========================================================================
	// Metrics
	// =========================================================================
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	appMetrics, err := metrics.New(registry)
	if err != nil {
		log.Fatal("failed to register metrics", zap.Error(err))
	}

	// =========================================================================
	// Khởi tạo Realtime Publisher (Centrifugo)
	// =========================================================================
	var publisher realtime.Publisher
	if cfg.Centrifugo.URL != "" && cfg.Centrifugo.APIKey != "" {
		publisher = realtime.NewCentrifugoClient(cfg.Centrifugo.URL, cfg.Centrifugo.APIKey, log)
		log.Info("centrifugo publisher initialized", zap.String("url", cfg.Centrifugo.URL))
	} else {
		publisher = realtime.NewNoopPublisher()
		log.Warn("centrifugo not configured, using noop publisher")
	}

	// =========================================================================
	// Mailer
	// =========================================================================
	mailer, err := notify.New(cfg.Mail, log)
	if err != nil {
		log.Fatal("failed to create mailer", zap.Error(err))
	}

	// =========================================================================
	// Session manager (cache state theo user, làm mới theo auth events)
	// =========================================================================
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	sessions := session.NewManager(userRepo, cfg.Session.TTL, log)
	go sessions.Run(rootCtx)

	// =========================================================================
	// Khởi tạo Services
	// =========================================================================
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := services.NewAuthService(userRepo, jwtService, mailer, sessions, cfg.App.PublicURL, log)

	noteService := services.NewNoteService(noteRepo, publisher, appMetrics, log)

	if !cfg.AI.Configured() {
		log.Warn("ai api key not configured, transcription will fail")
	}
	modelClient := transcribe.NewClient(transcribe.Config{
		APIKey:  cfg.AI.APIKey,
		BaseURL: cfg.AI.BaseURL,
		Model:   cfg.AI.Model,
		Referer: cfg.AI.Referer,
		Title:   cfg.AI.Title,
		Timeout: cfg.AI.Timeout,
	}, log)
	transcriber := services.NewTranscriptionService(
		services.NewContextSource(playerRepo, eventRepo, noteRepo),
		modelClient,
		appMetrics,
		log,
	)
	captureService := services.NewCaptureService(
		capture.NewStore(cfg.Capture.DraftTTL, cfg.Capture.MaxImages),
		transcriber,
		noteService,
		log,
	)

	log.Info("services initialized")

	// =========================================================================
	// Khởi tạo Handlers
	// =========================================================================
	authMiddleware := middleware.AuthMiddleware(jwtService, sessions)

	healthHandler := handlers.NewHealthHandler(db, registry, cfg.App.Name, version, log)
	authHandler := handlers.NewAuthHandler(authService, cfg.App.IsProduction(), log)
	noteHandler := handlers.NewNoteHandler(noteService, log)
	captureHandler := handlers.NewCaptureHandler(captureService, log)
	rosterHandler := handlers.NewRosterHandler(playerRepo, staffRepo, tagRepo, log)
	eventHandler := handlers.NewEventHandler(eventRepo, log)
	announcementHandler := handlers.NewAnnouncementHandler(announcementRepo, publisher, log)
	formHandler := handlers.NewFormHandler(formRepo, log)
	tripHandler := handlers.NewTripHandler(tripRepo, log)

	log.Info("handlers initialized")

	// =========================================================================
	// Thiết lập Gin Router
	// =========================================================================
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(log))
	router.Use(middleware.Logging(log))
	router.Use(middleware.RequestMetrics(appMetrics))
	router.Use(middleware.CORS(cfg.App.AllowedOrigins))
	// Login, signup, refresh chưa có CSRF cookie
	router.Use(middleware.CSRFMiddlewareWithExempt([]string{"/api/v1/auth/"}))

	// =========================================================================
	// API Routes
	// =========================================================================
	api := router.Group("/api/v1")

	healthHandler.RegisterRoutes(router, api)
	authHandler.RegisterRoutes(api, authMiddleware)
	noteHandler.RegisterRoutes(api, authMiddleware)
	captureHandler.RegisterRoutes(api, authMiddleware)
	rosterHandler.RegisterRoutes(api, authMiddleware)
	eventHandler.RegisterRoutes(api, authMiddleware)
	announcementHandler.RegisterRoutes(api, authMiddleware)
	formHandler.RegisterRoutes(api, authMiddleware)
	tripHandler.RegisterRoutes(api, authMiddleware)

	log.Info("routes registered", zap.Int("count", len(router.Routes())))

	// =========================================================================
	// Khởi động HTTP Server
	// =========================================================================
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.App.Port),
		Handler: router,
		// Parse có thể mất tới cfg.AI.Timeout
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.AI.Timeout + 30*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server listening", zap.Int("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	// =========================================================================
	// Graceful Shutdown
	// =========================================================================
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server exited")
}
