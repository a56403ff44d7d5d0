// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"society-maintenance-platform/internal/config"
	"society-maintenance-platform/internal/domain/ports/adapter"
	"society-maintenance-platform/internal/domain/ports/repository"
	pg "society-maintenance-platform/internal/infra/db/postgres"
	"society-maintenance-platform/internal/infra/logging"
	"society-maintenance-platform/internal/infra/metrics"
	payAdapters "society-maintenance-platform/internal/infra/payment"
	red "society-maintenance-platform/internal/infra/redis"
	"society-maintenance-platform/internal/infra/sched"
	"society-maintenance-platform/internal/infra/settlement"
	"society-maintenance-platform/internal/infra/web"
	"society-maintenance-platform/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (in-memory guard, no-op gateway)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		log.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	payRepo := pg.NewPaymentRepo(pool)

	// ---- Completion guard ----
	var guard repository.CompletionGuard
	if cfg.Runtime.Dev {
		guard = red.NewMemoryGuard()
	} else {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		guard = red.NewCompletionGuard(redisClient)
	}

	// ---- Gateway and backend ----
	var gateway adapter.OrderGateway
	if cfg.Runtime.Dev {
		gateway = payAdapters.NewNoopOrderGateway()
	} else {
		gateway = payAdapters.NewRazorpayGateway(cfg.Gateway.KeyID, cfg.Gateway.KeySecret, cfg.Gateway.BaseURL)
	}
	backend := settlement.NewRestClient(cfg.Backend.BaseURL, cfg.Backend.Timeout, log)

	// ---- Use cases ----
	orderUC := usecase.NewOrderUseCase(payRepo, gateway, cfg.Gateway.PublicKey, log)
	verifyUC := usecase.NewVerifyUseCase(payRepo, guard, cfg.Gateway.KeySecret, cfg.Redis.TTL, log)
	settleUC := usecase.NewSettlementUseCase(backend, payRepo, cfg.Checkout.SettleTimeout, log)

	// In dev mode the full checkout state machine is reachable over HTTP,
	// driven by a widget stand-in that pays immediately.
	var checkoutUC usecase.CheckoutUseCase
	if cfg.Runtime.Dev {
		widget := payAdapters.NewNoopCheckoutWidget(cfg.Gateway.KeySecret)
		checkoutUC = usecase.NewCheckoutUseCase(orderUC, verifyUC, settleUC, widget, payRepo, cfg.Checkout.VerifyTimeout, log)
	}

	// ---- HTTP server ----
	auth := web.NewAuthManager(cfg.Session.Secret, !cfg.Runtime.Dev, cfg.Session.TTL)
	srv := web.NewServer(orderUC, verifyUC, settleUC, checkoutUC, payRepo, backend, auth, log)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: srv.Router(),
	}
	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Settlement reconciler ----
	if cfg.Backend.ServiceToken != "" {
		reconciler := sched.NewSettlementReconciler(
			settleUC, payRepo,
			adapter.Credential(cfg.Backend.ServiceToken),
			cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter,
			log,
		)
		go reconciler.Start(ctx)
	} else {
		log.Warn().Msg("backend.service_token not set; settlement reconciler disabled")
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	log.Info().Msg("shutdown requested")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
}
