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

	"blog-views/config"
	"blog-views/internal/cache/redis"
	"blog-views/internal/controller"
	"blog-views/internal/db"
	"blog-views/internal/logger"
	"blog-views/internal/repository/mongo"
	"blog-views/internal/service/views"
	"blog-views/internal/usecase"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	gin.SetMode(cfg.GinMode)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	mongoDB, err := db.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer func() { _ = mongoDB.Close(context.Background()) }()

	opts := []views.Option{
		views.WithLogger(log),
		views.WithCooldown(cfg.ViewCooldown),
	}
	if cfg.ViewGuardEnabled {
		guard := redis.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		defer guard.Close()

		pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := guard.Ping(pingCtx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, view claims will fall back to the store check")
		}
		pingCancel()
		opts = append(opts, views.WithGuard(guard))
	}

	viewService := views.NewViewService(mongo.NewViewRepository(mongoDB), opts...)
	postRepo := mongo.NewPostRepository(mongoDB)
	u := usecase.NewBlogUsecase(postRepo, viewService, cfg, log)

	router := gin.New()
	router.Use(gin.Recovery())
	controller.RegisterRoutes(router, u, log)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("env", cfg.AppEnv).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown error")
	}
}
