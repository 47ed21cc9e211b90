package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Shoaibsarfaraz/ADHDSupport/internal/db"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/handlers"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/metrics"
	mw "github.com/Shoaibsarfaraz/ADHDSupport/internal/middleware"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/services"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store/memory"
	"github.com/Shoaibsarfaraz/ADHDSupport/internal/store/postgres"
)

func mustGetenv(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func main() {
	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is required")
	}

	encryptionKey := os.Getenv("ENCRYPTION_KEY")
	if len(encryptionKey) != 32 {
		logger.Fatal("ENCRYPTION_KEY must be exactly 32 bytes")
	}

	port := mustGetenv("PORT", "8080")
	ratePerMinute, err := strconv.Atoi(mustGetenv("RATE_LIMIT_PER_MINUTE", "120"))
	if err != nil || ratePerMinute <= 0 {
		logger.Fatal("RATE_LIMIT_PER_MINUTE must be a positive integer")
	}

	var stores store.Stores
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		logger.Warn("DATABASE_URL not set; using in-memory stores, data will not survive restarts")
		stores = memory.NewStores()
	} else {
		dbConn, err := sqlx.Open("pgx", databaseURL)
		if err != nil {
			logger.Fatal("failed to open db", zap.Error(err))
		}
		dbConn.SetMaxOpenConns(10)
		dbConn.SetConnMaxLifetime(2 * time.Hour)
		if err = dbConn.Ping(); err != nil {
			logger.Fatal("failed to ping db", zap.Error(err))
		}
		if err := db.RunMigrations(dbConn); err != nil {
			logger.Fatal("failed migrations", zap.Error(err))
		}
		stores = postgres.NewStores(dbConn)
	}

	encSvc, err := services.NewEncryptionService([]byte(encryptionKey))
	if err != nil {
		logger.Fatal("failed to init encryption", zap.Error(err))
	}

	rateLimiter := mw.NewRateLimiter(ratePerMinute, logger)
	defer rateLimiter.Stop()

	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:      logger,
		Stores:      stores,
		Encryption:  encSvc,
		Sanitizer:   services.NewSanitizer(),
		Auth:        mw.NewAuthMiddleware([]byte(jwtSecret)),
		RateLimiter: rateLimiter,
		Metrics:     metrics.New(),
	})

	srv := &http.Server{Addr: ":" + port, Handler: router}
	go func() {
		logger.Info("server starting", zap.String("addr", ":"+port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown initiated")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info("server stopped")
}
