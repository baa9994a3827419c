package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketsync/internal/application/container"
	"marketsync/internal/infrastructure/cache/redis"
	"marketsync/internal/infrastructure/config"
	"marketsync/internal/infrastructure/exchange/kraken"
	"marketsync/internal/infrastructure/logger"
	"marketsync/internal/infrastructure/storage/dbgateway"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.Setup("info")

	configPath := flag.String("config", "config.toml", "path to config.toml")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config", *configPath).Msg("load config failed")
	}
	logger.Setup(cfg.App.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// cache connects lazily; unreachable redis only means slower queries
	cache := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	defer cache.Close()
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := cache.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("redis unreachable, catalog queries will bypass cache")
	}
	cancel()

	store := dbgateway.NewClient(cfg.Database.APIURL, time.Duration(cfg.Database.TimeoutSec)*time.Second)
	healthCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	if err := store.Health(healthCtx); err != nil {
		log.Warn().Err(err).Str("url", cfg.Database.APIURL).Msg("database service degraded")
	}
	cancel()
	trading := dbgateway.NewTradingStore(store)

	exchange := kraken.NewClient(cfg.Kraken.BaseURL, time.Duration(cfg.Kraken.TimeoutSec)*time.Second)

	c := container.New(exchange, cache, trading, trading, time.Duration(cfg.Cache.PairsTTLSec)*time.Second)

	if result, err := c.IngestService().SyncSymbols(ctx); err != nil {
		log.Warn().Err(err).Msg("initial symbol sync failed")
	} else {
		log.Info().Int("created", result.Created).Int("updated", result.Updated).Msg("symbol sync complete")
	}

	syncer := c.PairSyncer(cfg.Sync.Pairs, cfg.Sync.Timeframe, time.Duration(cfg.Sync.IntervalMin)*time.Minute)

	log.Info().
		Str("config", *configPath).
		Int("pairs", len(cfg.Sync.Pairs)).
		Str("timeframe", cfg.Sync.Timeframe).
		Int("interval_min", cfg.Sync.IntervalMin).
		Msg("marketsync started")

	if err := syncer.Run(ctx); err != nil && err != context.Canceled {
		log.Error().Err(err).Msg("pair syncer exited")
	}
}
