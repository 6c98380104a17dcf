// File: cmd/app/main.go
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

	"buzzugc/internal/config"
	"buzzugc/internal/domain/ports/adapter"
	identityAdapters "buzzugc/internal/infra/adapters/identity"
	payAdapters "buzzugc/internal/infra/adapters/payment"
	videoAdapters "buzzugc/internal/infra/adapters/video"
	"buzzugc/internal/infra/api"
	pg "buzzugc/internal/infra/db/postgres"
	"buzzugc/internal/infra/grants"
	"buzzugc/internal/infra/logging"
	"buzzugc/internal/infra/metrics"
	red "buzzugc/internal/infra/redis"
	"buzzugc/internal/infra/worker"
	"buzzugc/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("[DEV MODE] Enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (optional, rate limiting only) ----
	var limiter *red.RateLimiter
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis")
		}
		defer redisClient.Close()
		limiter = red.NewRateLimiter(redisClient)
	} else {
		logger.Warn().Msg("redis not configured, generation rate limiting disabled")
	}

	// ---- Repositories ----
	subRepo := pg.NewSubscriptionRepo(pool)
	creationRepo := pg.NewCreationRepo(pool)
	grantRepo := grants.NewStaticGrants(cfg.Grants.Plan, cfg.Grants.Members)

	// ---- Video transports (primary relay -> secondary relay -> direct) ----
	var transports []adapter.VideoTransport
	if cfg.Video.PrimaryRelayURL != "" {
		transports = append(transports, videoAdapters.NewRelayTransport("relay-primary", cfg.Video.PrimaryRelayURL))
	}
	if cfg.Video.SecondaryRelayURL != "" {
		transports = append(transports, videoAdapters.NewRelayTransport("relay-secondary", cfg.Video.SecondaryRelayURL))
	}
	if cfg.Video.FalAPIKey != "" {
		direct := videoAdapters.NewFalTransport(
			cfg.Video.FalAPIKey,
			cfg.Video.FalSyncURL,
			cfg.Video.FalQueueURL,
			cfg.Video.PollInterval.Std(),
			cfg.Video.PollTimeout.Std(),
			logger,
		)
		transports = append(transports, videoAdapters.NewLimitedTransport(direct, cfg.Video.ConcurrentLimit))
	}
	if len(transports) == 0 {
		logger.Fatal().Msg("no video transports configured: set video.primary_relay_url, video.secondary_relay_url or video.fal_api_key")
	}

	// ---- Use cases ----
	entUC := usecase.NewEntitlementUseCase(subRepo, creationRepo, grantRepo, cfg.PlanTable(), logger)
	genUC := usecase.NewGenerationUseCase(transports, logger)
	gateway := payAdapters.NewStripeGateway(
		cfg.Stripe.SecretKey, cfg.Stripe.WebhookSecret,
		cfg.Stripe.SuccessPath, cfg.Stripe.CancelPath,
		cfg.Stripe.PriceIDs, logger,
	)
	checkoutUC := usecase.NewCheckoutUseCase(gateway, subRepo, logger)

	// ---- Identity ----
	verifier := identityAdapters.NewSupabaseVerifier(cfg.Supabase.JWTSecret, logger)

	// ---- Background workers ----
	recordPool := worker.NewPool(4, logger)
	recordPool.Start(ctx)
	defer recordPool.Stop()

	// ---- HTTP ----
	server := api.NewServer(entUC, genUC, checkoutUC, creationRepo, limiter, cfg.RateLimit.GeneratePerMinute, recordPool, logger)
	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: server.Router(verifier),
		// Generation holds the connection while the direct path polls; give
		// the write side headroom beyond the poll timeout.
		WriteTimeout: cfg.Video.PollTimeout.Std() + 30*time.Second,
		ReadTimeout:  30 * time.Second,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server")
		}
	}()

	// ---- Shutdown ----
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info().Msg("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
