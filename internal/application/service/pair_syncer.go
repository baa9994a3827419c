package service

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"marketsync/internal/application/port"
)

// PairSyncer periodically pulls OHLC bars and tickers for a fixed pair
// list and hands them to the ingest orchestrator. Each pass is
// best-effort per pair: one failing pair never blocks the others.
type PairSyncer struct {
	exchange  port.Exchange
	ingest    *IngestService
	pairs     []string
	timeframe string
	interval  time.Duration
}

func NewPairSyncer(exchange port.Exchange, ingest *IngestService, pairs []string, timeframe string, interval time.Duration) *PairSyncer {
	if interval <= 0 {
		interval = time.Hour
	}
	if timeframe == "" {
		timeframe = "1d"
	}
	return &PairSyncer{
		exchange:  exchange,
		ingest:    ingest,
		pairs:     pairs,
		timeframe: timeframe,
		interval:  interval,
	}
}

// Run blocks until ctx is done, syncing once immediately and then on
// every interval tick.
func (s *PairSyncer) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.syncAll(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.syncAll(ctx)
		}
	}
}

func (s *PairSyncer) syncAll(ctx context.Context) {
	log.Debug().Int("pairs", len(s.pairs)).Str("timeframe", s.timeframe).Msg("starting sync pass")

	for _, raw := range s.pairs {
		if ctx.Err() != nil {
			return
		}
		pair := s.exchange.NormalizePair(raw)
		s.syncPair(ctx, pair)
	}
}

func (s *PairSyncer) syncPair(ctx context.Context, pair string) {
	candles, err := s.exchange.FetchCandles(ctx, pair, s.timeframe, 0)
	if err != nil {
		log.Warn().Err(err).Str("pair", pair).Msg("ohlc fetch failed")
	} else if len(candles) > 0 {
		if _, err := s.ingest.IngestOHLC(ctx, pair, s.timeframe, candles); err != nil {
			log.Error().Err(err).Str("pair", pair).Msg("ohlc ingest failed")
		}
	}

	ticker, found, err := s.exchange.FetchTicker(ctx, pair)
	if err != nil {
		log.Warn().Err(err).Str("pair", pair).Msg("ticker fetch failed")
		return
	}
	if !found {
		log.Debug().Str("pair", pair).Msg("no ticker data for pair")
		return
	}
	if _, err := s.ingest.IngestTicker(ctx, pair, ticker); err != nil {
		log.Error().Err(err).Str("pair", pair).Msg("ticker ingest failed")
	}
}
