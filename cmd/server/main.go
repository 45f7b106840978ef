package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	httpdelivery "github.com/mzeitler/bank-portal/internal/delivery/http"
	"github.com/mzeitler/bank-portal/internal/infrastructure/config"
	"github.com/mzeitler/bank-portal/internal/infrastructure/metrics"
	"github.com/mzeitler/bank-portal/internal/infrastructure/paystack"
	"github.com/mzeitler/bank-portal/internal/infrastructure/postgres"
	"github.com/mzeitler/bank-portal/internal/infrastructure/redisstore"
	"github.com/mzeitler/bank-portal/internal/usecase/initiatetransfer"
	"github.com/mzeitler/bank-portal/internal/usecase/listtransactions"
	"github.com/mzeitler/bank-portal/internal/usecase/registerprofile"
	"github.com/mzeitler/bank-portal/internal/usecase/verifytransfer"
	"github.com/mzeitler/bank-portal/migrations"
)

const (
	dbMaxConns            = 10
	dbMinConns            = 2
	dbMaxConnLifetime     = 30 * time.Minute
	dbMaxConnIdleTime     = 5 * time.Minute
	readHeaderTimeout     = 5 * time.Second
	gracefulShutdownDelay = 5 * time.Second
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()

	pool, err := initDB(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database init failed", zap.Error(err))
	}
	defer pool.Close()

	if err := migrations.Apply(ctx, pool); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer func() { _ = redisClient.Close() }()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("redis init failed", zap.Error(err))
	}

	profileRepo := postgres.NewProfileRepo(pool)
	transactionRepo := postgres.NewTransactionRepo(pool)
	pendingStore := redisstore.NewPendingTransferStore(redisClient, cfg.PendingTransferTTL)
	gatewayClient := paystack.NewClient(cfg.GatewayBaseURL, cfg.GatewaySecretKey, cfg.CallbackURL, logger)

	initiateUC := initiatetransfer.NewUseCase(profileRepo, gatewayClient, pendingStore)
	verifyUC := verifytransfer.NewUseCase(gatewayClient, pendingStore, profileRepo, transactionRepo)
	listUC := listtransactions.NewUseCase(transactionRepo)
	registerUC := registerprofile.NewUseCase(profileRepo)

	m := metrics.New(prometheus.DefaultRegisterer)
	handler := httpdelivery.NewHandler(initiateUC, verifyUC, listUC, registerUC, logger, m)
	router := httpdelivery.NewRouter(handler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		logger.Info("HTTP server starting", zap.String("addr", cfg.HTTPAddr))
		if serveErr := srv.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("http serve failed", zap.Error(serveErr))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), gracefulShutdownDelay)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}

func initDB(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = dbMaxConns
	cfg.MinConns = dbMinConns
	cfg.MaxConnLifetime = dbMaxConnLifetime
	cfg.MaxConnIdleTime = dbMaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return pool, nil
}
