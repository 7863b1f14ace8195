// Package main is the entry point for the dukapos API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"dukapos/internal/config"
	"dukapos/internal/domain/auth"
	"dukapos/internal/domain/reports"
	"dukapos/internal/infrastructure/cache"
	v1 "dukapos/internal/infrastructure/http/v1"
	"dukapos/internal/infrastructure/storage/postgres"
	"dukapos/internal/infrastructure/storage/postgres/auth_repo"
	"dukapos/pkg/logger"
	"dukapos/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting dukapos server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Redis (optional; server runs without the dashboard cache) ---
	var redisClient *redis.Client
	var reportCache reports.Cache
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Warnw("redis unavailable, dashboard cache disabled", "error", err)
			redisClient = nil
		} else {
			reportCache = cache.NewReportCache(redisClient, cfg.ReportCacheTTL)
			log.Info("redis connection established")
		}
	}

	// --- JWT and Auth ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.Issuer = cfg.JWTIssuer
	jwtConfig.AccessTokenTTL = cfg.JWTTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	userRepo := auth_repo.NewUserRepo(txManager)
	authService := auth.NewService(userRepo, jwtService)

	// --- Numerator ---
	numeratorService := numerator.New(postgres.NewNumeratorProvider(txManager))

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:         pool,
		Redis:        redisClient,
		Logger:       log,
		TxManager:    txManager,
		JWTValidator: jwtService,
		AuthService:  authService,
		Numerator:    numeratorService,
		ReportCache:  reportCache,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "port", cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	if redisClient != nil {
		_ = redisClient.Close()
	}

	log.Info("server stopped")
}
