// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-look-bot/internal/config"
	"telegram-look-bot/internal/infra/cache"
	"telegram-look-bot/internal/infra/ffmpeg"
	"telegram-look-bot/internal/infra/httpapi"
	"telegram-look-bot/internal/infra/logging"
	"telegram-look-bot/internal/infra/metrics"
	red "telegram-look-bot/internal/infra/redis"
	"telegram-look-bot/internal/infra/store"
	tele "telegram-look-bot/internal/infra/telegram"
	"telegram-look-bot/internal/infra/worker"
	"telegram-look-bot/internal/infra/ytdlp"
	"telegram-look-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logging)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Ledger ----
	ledger := store.NewFileStore(cfg.Store.Path, logger)

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	sessions := red.NewSessionRepo(redisClient, cfg.Redis.TTL)

	// ---- Media tooling ----
	ff, err := ffmpeg.New(cfg.Media.FFmpegBin, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("ffmpeg")
	}
	dl, err := ytdlp.New(cfg.Media.YtDlpBin, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("yt-dlp")
	}
	if err := os.MkdirAll(cfg.Media.DownloadDir, 0o755); err != nil {
		logger.Fatal().Err(err).Msg("download dir")
	}

	// ---- Use cases ----
	entUC := usecase.NewEntitlementUseCase(ledger, usecase.EntitlementRules{
		FreePerDay:      cfg.Entitlement.FreeEffectsPerDay,
		AdEverySuccess:  cfg.Entitlement.AdEverySuccess,
		ReferrerCredits: cfg.Entitlement.ReferrerCredits,
		InviteeCredits:  cfg.Entitlement.InviteeCredits,
	}, nil, logger)
	lookUC := usecase.NewLookTransferUseCase(ff, ff, cfg.Media.DownloadDir, cfg.Media.MaxFileBytes, logger)

	// ---- Workers ----
	pool := worker.NewPool(cfg.Media.Workers, logger)
	pool.Start(ctx)

	// ---- Telegram ----
	fileIDs := cache.NewLRU(cfg.Cache.FileIDCapacity)
	bot, err := tele.NewBot(cfg, entUC, lookUC, dl, sessions, fileIDs, pool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin server (health + metrics) ----
	var admin *httpapi.Server
	if cfg.Admin.Port > 0 {
		admin = httpapi.NewServer(cfg, logger)
		go func() {
			if err := admin.Start(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("admin server")
			}
		}()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	bot.StopPolling()
	cancel()
	pool.Stop()
	if admin != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		_ = admin.Shutdown(shutdownCtx)
	}
}
