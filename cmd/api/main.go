package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cvchef-backend/config"
	_ "cvchef-backend/docs" // Important for Swagger
	v1 "cvchef-backend/internal/delivery/http/v1"
	"cvchef-backend/internal/domain"
	"cvchef-backend/internal/repository/postgres"
	"cvchef-backend/internal/usecase"
	"cvchef-backend/pkg/ai"
	"cvchef-backend/pkg/auth"
	"cvchef-backend/pkg/database"
	"cvchef-backend/pkg/logger"
	"cvchef-backend/pkg/redis"
	"cvchef-backend/pkg/renderer"
	"cvchef-backend/pkg/storage"
)

// @title           CVChef API
// @version         1.0
// @description     Resume builder backend: resume storage, editor sessions, ATS analysis and PDF export.
// @host            localhost:8080
// @BasePath        /v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Setup Logger
	logger.Init(cfg.LogLevel)
	logger.Log.Info("Starting cvchef backend", "port", cfg.Port)

	// Background work (session janitor) stops with this context
	rootCtx, stop := context.WithCancel(context.Background())
	defer stop()

	// 3. Setup Database
	dbPool, err := database.NewPostgresConnection(rootCtx, cfg.DBUrl)
	if err != nil {
		logger.Log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	if err := database.RunMigrations(rootCtx, dbPool); err != nil {
		logger.Log.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	// 4. Redis backs the rate limiter; the in-memory fallback covers its absence
	if err := redis.Initialize(rootCtx, redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
		logger.Log.Warn("Redis unavailable, rate limiting falls back to memory", "error", err)
	}
	defer redis.Close()

	// 5. Completion service
	var completer domain.CompletionService
	completer, err = ai.New(rootCtx, ai.Config{
		Provider:      cfg.AIProvider,
		OpenAIKey:     cfg.OpenAIKey,
		OpenAIBaseURL: cfg.OpenAIBaseURL,
		ChatModel:     cfg.OpenAIChatModel,
		ATSModel:      cfg.OpenAIATSModel,
		GeminiKey:     cfg.GeminiKey,
		GeminiModel:   cfg.GeminiModel,
		Timeout:       cfg.AITimeout(),
	})
	if err != nil {
		logger.Log.Warn("AI assistant disabled", "error", err)
		completer = nil
	}

	// 6. Export pipeline
	pdfRenderer := renderer.NewChromeRenderer(renderer.Config{
		ChromePath:    cfg.ChromePath,
		MaxPixelWidth: cfg.ExportMaxPixelWidth,
	})

	var archiver domain.ExportArchiver
	if cfg.ExportBucket != "" {
		a, err := storage.NewArchiver(rootCtx, storage.Config{
			Provider:        storage.Provider(cfg.S3Provider),
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Region:          cfg.S3Region,
			Bucket:          cfg.ExportBucket,
			Endpoint:        cfg.S3Endpoint,
			R2AccountID:     cfg.R2AccountID,
		})
		if err != nil {
			logger.Log.Warn("Export archive disabled", "error", err)
		} else {
			archiver = a
		}
	}

	// 7. Setup Repositories and UseCases
	resumeRepo := postgres.NewResumeRepository(dbPool)

	resumeUC := usecase.NewResumeUsecase(resumeRepo)
	atsUC := usecase.NewATSUsecase(completer)
	editorUC := usecase.NewEditorUsecase(rootCtx, resumeRepo, atsUC, completer, cfg.EditorSessionTTL())
	exportUC := usecase.NewExportUsecase(resumeUC, pdfRenderer, archiver)
	healthUC := usecase.NewHealthUsecase(
		map[string]usecase.HealthCheck{"database": dbPool.Ping},
		map[string]usecase.HealthCheck{"redis": redis.HealthCheck},
	)

	// 8. Setup Auth Provider (JWKS)
	var jwksProvider *auth.Provider
	if cfg.SupabaseUrl != "" {
		jwksProvider = auth.NewProvider(auth.JWKSURL(cfg.SupabaseUrl))
	}

	// 9. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		ResumeUC:     resumeUC,
		EditorUC:     editorUC,
		ATSUC:        atsUC,
		ExportUC:     exportUC,
		HealthUC:     healthUC,
		JWKSProvider: jwksProvider,
		Config:       cfg,
	})

	// 10. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Error("Listen failed", "error", err)
		}
	}()

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	// PDF rendering can take a while; give in-flight exports time to finish
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", "error", err)
	}
	stop()

	logger.Log.Info("Server exiting")
}
