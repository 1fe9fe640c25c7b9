// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-gatekeeper/internal/application"
	"telegram-gatekeeper/internal/config"
	pg "telegram-gatekeeper/internal/infra/db/postgres"
	"telegram-gatekeeper/internal/infra/logging"
	"telegram-gatekeeper/internal/infra/metrics"
	"telegram-gatekeeper/internal/infra/ratelimit"
	red "telegram-gatekeeper/internal/infra/redis"
	"telegram-gatekeeper/internal/infra/sched"
	tele "telegram-gatekeeper/internal/infra/telegram"
	"telegram-gatekeeper/internal/infra/web"
	"telegram-gatekeeper/internal/infra/worker"
	"telegram-gatekeeper/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, no sampling)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Metrics ----
	metrics.MustRegister()

	// ---- Postgres ----
	if err := pg.Migrate(cfg.Database.URL); err != nil {
		logger.Fatal().Err(err).Msg("migrations")
	}
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
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
	deduper := red.NewDeduper(redisClient, cfg.Redis.DedupTTL.Std())
	flood := red.NewRateLimiter(redisClient, cfg.Flood.Limit, cfg.Flood.Window.Std())

	// ---- Repositories ----
	botRepo := pg.NewPostgresBotRepo(pool)
	rosterRepo := pg.NewPostgresRosterRepo(pool)
	challengeRepo := pg.NewPostgresChallengeRepo(pool)
	inviteRepo := pg.NewPostgresInviteRepo(pool)
	menuRepo := pg.NewPostgresMenuRepo(pool)
	jobRepo := pg.NewPostgresJobRepo(pool)

	// ---- Telegram ----
	messenger := tele.NewMessenger(botRepo, logger)

	// ---- Use cases ----
	challengeUC := usecase.NewChallengeUseCase(challengeRepo, logger)
	inviteUC := usecase.NewInviteUseCase(inviteRepo, messenger, logger)
	pacer := ratelimit.NewPacer(cfg.Delivery.RatePerSecond, cfg.Delivery.Burst)
	deliveryUC := usecase.NewDeliveryUseCase(inviteUC, messenger, pacer, logger)
	broadcastUC := usecase.NewBroadcastUseCase(jobRepo, botRepo, rosterRepo, menuRepo, deliveryUC, logger)

	// ---- Gateway + webhook workers ----
	gateway := application.NewGateway(botRepo, rosterRepo, menuRepo, challengeUC, deliveryUC, messenger, deduper, flood, logger)
	updatePool := worker.NewPool(cfg.Bot.Workers, logger)
	updatePool.Start(ctx)
	defer updatePool.Stop()
	webhook := tele.NewWebhookHandler(gateway, updatePool, logger)

	// ---- HTTP server ----
	srv := web.NewServer(broadcastUC, webhook.Handle, cfg.Admin.APIKey, cfg.Bot.Port, logger)
	go func() {
		logger.Info().Int("port", cfg.Bot.Port).Msg("http server listening")
		if err := srv.Start(); err != nil {
			logger.Error().Err(err).Msg("http server stopped")
		}
	}()

	// ---- Scheduled broadcast poller ----
	poller := sched.NewBroadcastWorker(cfg.Scheduler.PollInterval.Std(), cfg.Scheduler.CycleTimeout.Std(), broadcastUC, logger)
	go func() { _ = poller.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := srv.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("http shutdown")
	}
}
