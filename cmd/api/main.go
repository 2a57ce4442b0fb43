package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vya-logistics/vya-backend/internal/api"
	"github.com/vya-logistics/vya-backend/internal/api/handlers"
	"github.com/vya-logistics/vya-backend/internal/auth"
	"github.com/vya-logistics/vya-backend/internal/cache"
	"github.com/vya-logistics/vya-backend/internal/config"
	"github.com/vya-logistics/vya-backend/internal/db"
	"github.com/vya-logistics/vya-backend/internal/gateway/asaas"
	"github.com/vya-logistics/vya-backend/internal/logger"
	"github.com/vya-logistics/vya-backend/internal/metrics"
	"github.com/vya-logistics/vya-backend/internal/middleware"
	"github.com/vya-logistics/vya-backend/internal/notify"
	"github.com/vya-logistics/vya-backend/internal/repository/postgres"
	"github.com/vya-logistics/vya-backend/internal/services"
	"github.com/vya-logistics/vya-backend/internal/worker"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if os.Getenv("APP_MIGRATE") == "true" {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	metrics.Init()

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4, func(depth int) { metrics.WorkerQueueDepth.Set(float64(depth)) })
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTSecret+"-refresh", cfg.JWTIssuer, 15*time.Minute, 7*24*time.Hour)
	gw := asaas.NewClient(cfg.AsaasBaseURL, cfg.AsaasAPIKey)
	c := cache.New(10 * time.Minute)
	emitter := notify.NewEmitter(repos.Notifications, wp)

	userSvc := services.NewUserService(repos.Users, tm)
	pkgSvc := services.NewPackageService(repos.Packages, repos.Trips)
	tripSvc := services.NewTripService(repos.Trips)
	walletSvc := services.NewWalletService(repos.Wallets, repos.WalletTransactions, repos.Users, gw, emitter)
	settlementSvc := services.NewSettlementService(
		repos.Packages, repos.Trips, repos.Users, repos.Wallets, repos.Configs,
		gw, c, emitter, cfg.AsaasWebhookToken,
	)

	r := api.NewRouter(api.Deps{
		Cfg:           cfg,
		Auth:          middleware.NewAuthMiddleware(tm, cfg.Env),
		AuthHandler:   handlers.NewAuthHandler(userSvc),
		Packages:      handlers.NewPackageHandler(pkgSvc, settlementSvc),
		Trips:         handlers.NewTripHandler(tripSvc),
		Wallet:        handlers.NewWalletHandler(walletSvc),
		Webhook:       handlers.NewWebhookHandler(settlementSvc),
		Notifications: handlers.NewNotificationHandler(repos.Notifications),
		Admin:         handlers.NewAdminHandler(settlementSvc, userSvc),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "gateway_configured", gw.Configured())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server", "err", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
