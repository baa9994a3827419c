package container

import (
	"time"

	"marketsync/internal/application/port"
	"marketsync/internal/application/service"
)

// Container wires ports into services lazily.
type Container struct {
	exchange port.Exchange
	cache    port.PairCache
	symbols  port.SymbolStore
	market   port.MarketStore
	ttl      time.Duration

	catalogService *service.CatalogService
	ingestService  *service.IngestService
}

func New(exchange port.Exchange, cache port.PairCache, symbols port.SymbolStore, market port.MarketStore, ttl time.Duration) *Container {
	return &Container{
		exchange: exchange,
		cache:    cache,
		symbols:  symbols,
		market:   market,
		ttl:      ttl,
	}
}

func (c *Container) Exchange() port.Exchange {
	return c.exchange
}

func (c *Container) CatalogService() *service.CatalogService {
	if c.catalogService == nil {
		c.catalogService = service.NewCatalogService(c.exchange, c.cache, c.ttl)
	}
	return c.catalogService
}

func (c *Container) IngestService() *service.IngestService {
	if c.ingestService == nil {
		c.ingestService = service.NewIngestService(c.exchange, c.symbols, c.market, nil)
	}
	return c.ingestService
}

func (c *Container) PairSyncer(pairs []string, timeframe string, interval time.Duration) *service.PairSyncer {
	return service.NewPairSyncer(c.exchange, c.IngestService(), pairs, timeframe, interval)
}
