package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mt_annotate/internal/api"
	"mt_annotate/internal/api/handler"
	"mt_annotate/internal/api/middleware"
	"mt_annotate/internal/app/service"
	"mt_annotate/internal/common/security"
	"mt_annotate/internal/domain/repository"
	"mt_annotate/internal/platform/config"
	"mt_annotate/internal/platform/database"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// 1. Configuration
	cfg := config.Load()

	// 2. Database
	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.MigrationsDir); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	// 3. Repositories
	userRepo := repository.NewPgUserRepository(db)
	sentenceRepo := repository.NewPgSentenceRepository(db)
	annotationRepo := repository.NewPgAnnotationRepository(db)
	evaluationRepo := repository.NewPgEvaluationRepository(db)

	// 4. Services
	jwt := security.NewJWT(cfg.JWTKey, cfg.JWTExp)
	authService := service.NewAuthService(userRepo, jwt)
	sentenceService := service.NewSentenceService(sentenceRepo)
	annotationService := service.NewAnnotationService(annotationRepo, sentenceRepo, userRepo)
	evaluationService := service.NewEvaluationService(evaluationRepo, annotationRepo, userRepo)
	statsService := service.NewStatsService(userRepo, sentenceRepo, annotationRepo, evaluationRepo)
	adminService := service.NewAdminService(userRepo)

	// 5. HTTP layer
	authMW := middleware.NewAuth(userRepo)
	router := api.NewRouter(logger, jwt.Auth,
		handler.NewAuthHandler(authService, authMW),
		handler.NewSentenceHandler(sentenceService, authMW),
		handler.NewAnnotationHandler(annotationService, evaluationService, authMW),
		handler.NewEvaluationHandler(evaluationService, statsService, authMW),
		handler.NewAdminHandler(adminService, sentenceService, annotationService, statsService, authMW),
	)

	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("server starting", zap.String("port", cfg.APIPort))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("forced shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}
