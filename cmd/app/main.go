package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"hostbill-payments/internal/config"
	"hostbill-payments/internal/domain/ports/adapter"
	"hostbill-payments/internal/infra/db/postgres"
	"hostbill-payments/internal/infra/identity"
	"hostbill-payments/internal/infra/logging"
	"hostbill-payments/internal/infra/metrics"
	pay "hostbill-payments/internal/infra/payment"
	red "hostbill-payments/internal/infra/redis"
	"hostbill-payments/internal/infra/sched"
	"hostbill-payments/internal/infra/web"
	"hostbill-payments/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, mock gates)")
	flag.Parse()

	// Secrets referenced as ${VAR} in the config file may live in .env.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := postgres.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	statusCache := red.NewStatusCache(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	orderRepo := postgres.NewOrderRepo(pool)
	userRepo := postgres.NewUserRepo(pool)
	auditRepo := postgres.NewAuditLogRepo(pool)
	notifRepo := postgres.NewNotificationRepo(pool)
	tm := postgres.NewTxManager(pool)

	// ---- Provider adapters ----
	payuGW := pay.NewPayUGateway(cfg.Payment.PayU)
	gateways := []adapter.PaymentGateway{
		payuGW,
		pay.NewUPIGateway(cfg.Payment.UPI),
		pay.NewGPayGateway(cfg.Payment.UPI),
		pay.NewCashfreeGateway(cfg.Payment.Cashfree),
	}
	checkout := pay.NewHostedCheckout(cfg.Payment.Checkout, cfg.Payment.MockMode)
	logger.Info().
		Str("payu_key", logging.Redact(cfg.Payment.PayU.MerchantKey, cfg.Runtime.Dev)).
		Str("upi_vpa", logging.Redact(cfg.Payment.UPI.PayeeVPA, cfg.Runtime.Dev)).
		Bool("cashfree", cfg.Payment.Cashfree.Configured()).
		Bool("checkout", cfg.Payment.Checkout.Configured()).
		Msg("payment providers configured")

	// ---- Use cases ----
	entitleUC := usecase.NewEntitlementUseCase(userRepo, auditRepo, notifRepo, logger)
	paymentUC := usecase.NewPaymentUseCase(orderRepo, statusCache, gateways, payuGW, entitleUC, tm, logger)
	checkoutUC := usecase.NewCheckoutUseCase(checkout, cfg.Plans, logger)

	// ---- Identity ----
	verifier := identity.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// ---- Stale-order reconciler ----
	reconciler := sched.NewOrderReconciler(orderRepo, statusCache, cfg.Reconciler.Interval, cfg.Reconciler.StaleAfter, logger)
	go func() {
		if err := reconciler.Run(ctx); err != nil && err != context.Canceled {
			logger.Error().Err(err).Msg("reconciler stopped")
		}
	}()

	// ---- HTTP ----
	server := web.NewServer(paymentUC, checkoutUC, verifier, cfg.Server.RequestTimeout, cfg.Server.CORSOrigins, logger)
	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	logger.Info().Msg("shutting down")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
