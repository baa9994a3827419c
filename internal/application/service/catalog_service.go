package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"marketsync/internal/application/port"
	"marketsync/internal/domain/model"
)

const (
	cachePrefix       = "trading_bot"
	pairsCacheKey     = cachePrefix + ":kraken:pairs"
	pairsCachePattern = pairsCacheKey + "*"

	defaultCatalogTTL = time.Hour
	defaultQueryLimit = 100
)

// searchAliases maps common currency names to their exchange-native
// encodings for search-term expansion. Frozen coverage; do not extend
// without product input.
var searchAliases = map[string]string{
	"doge": "xdg",
	"btc":  "xbt",
}

// CatalogService serves the tradable pair catalog, cache-backed with a
// fixed TTL. Concurrent cache misses each fetch and re-cache the
// snapshot independently; the last writer wins, which is safe because
// the snapshot is written wholesale under a single key.
type CatalogService struct {
	exchange port.Exchange
	cache    port.PairCache
	ttl      time.Duration
}

func NewCatalogService(exchange port.Exchange, cache port.PairCache, ttl time.Duration) *CatalogService {
	if ttl <= 0 {
		ttl = defaultCatalogTTL
	}
	return &CatalogService{exchange: exchange, cache: cache, ttl: ttl}
}

// QueryPairs returns a filtered, searched, paginated view of the pair
// catalog. It only fails when the exchange is unreachable and no
// snapshot is cached; cache trouble alone never surfaces.
func (s *CatalogService) QueryPairs(ctx context.Context, q model.PairQuery) (*model.PairsResult, error) {
	if q.Limit <= 0 {
		q.Limit = defaultQueryLimit
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	status := q.Status
	if status == "" {
		status = model.PairStatusOnline
	}

	catalog, fromCache, err := s.catalog(ctx, q.Refresh)
	if err != nil {
		return nil, err
	}

	filtered := make(model.PairCatalog, len(catalog))
	for name, info := range catalog {
		if status != "all" && info.Status != status {
			continue
		}
		filtered[name] = info
	}

	if term := strings.ToLower(strings.TrimSpace(q.Search)); term != "" {
		terms := expandSearchTerms(term)
		matched := make(model.PairCatalog, len(filtered))
		for name, info := range filtered {
			if matchesAny(name, info, terms) {
				matched[name] = info
			}
		}
		filtered = matched
		log.Debug().Str("search", q.Search).Strs("terms", terms).Int("matched", len(filtered)).Msg("applied pair search filter")
	}

	keys := make([]string, 0, len(filtered))
	for name := range filtered {
		keys = append(keys, name)
	}
	sort.Strings(keys)

	start := q.Offset
	if start > len(keys) {
		start = len(keys)
	}
	end := start + q.Limit
	if end > len(keys) {
		end = len(keys)
	}
	page := keys[start:end]

	details := make([]model.PairDetail, 0, len(page))
	for _, name := range page {
		details = append(details, pairDetail(name, filtered[name]))
	}

	active := 0
	for _, info := range catalog {
		if info.Status == model.PairStatusOnline {
			active++
		}
	}

	return &model.PairsResult{
		Pairs:         page,
		PairsDetail:   details,
		TotalPairs:    len(catalog),
		ActivePairs:   active,
		FilteredPairs: len(keys),
		FromCache:     fromCache,
		HasMore:       q.Offset+q.Limit < len(keys),
	}, nil
}

// Refresh clears the cached snapshot and refetches the catalog.
func (s *CatalogService) Refresh(ctx context.Context) (*model.CatalogStats, error) {
	if n := s.cache.ClearPrefix(ctx, pairsCachePattern); n > 0 {
		log.Info().Int("keys", n).Msg("cleared pair catalog cache")
	}

	catalog, err := s.exchange.FetchPairs(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := model.CatalogSnapshot{Pairs: catalog, FetchedAt: time.Now().UTC()}
	cached := s.cache.Set(ctx, pairsCacheKey, snapshot, s.ttl)

	active := 0
	for _, info := range catalog {
		if info.Status == model.PairStatusOnline {
			active++
		}
	}
	return &model.CatalogStats{TotalPairs: len(catalog), ActivePairs: active, Cached: cached}, nil
}

// catalog serves the snapshot cache-aside: on a miss it fetches from
// the exchange and re-caches with the configured TTL. There is
// deliberately no lock around miss-fetch-populate; see the type doc.
func (s *CatalogService) catalog(ctx context.Context, refresh bool) (model.PairCatalog, bool, error) {
	if refresh {
		s.cache.ClearPrefix(ctx, pairsCachePattern)
	} else {
		var snapshot model.CatalogSnapshot
		if s.cache.Get(ctx, pairsCacheKey, &snapshot) && len(snapshot.Pairs) > 0 {
			return snapshot.Pairs, true, nil
		}
	}

	log.Debug().Msg("pair catalog cache miss, fetching from exchange")
	catalog, err := s.exchange.FetchPairs(ctx)
	if err != nil {
		return nil, false, err
	}

	snapshot := model.CatalogSnapshot{Pairs: catalog, FetchedAt: time.Now().UTC()}
	if s.cache.Set(ctx, pairsCacheKey, snapshot, s.ttl) {
		log.Debug().Dur("ttl", s.ttl).Int("pairs", len(catalog)).Msg("cached pair catalog")
	}
	return catalog, false, nil
}

// expandSearchTerms adds exchange-native aliases to a lower-cased
// search term, e.g. "doge" also matches "xdg" pairs. The btc alias is
// skipped when the term already names xbt.
func expandSearchTerms(term string) []string {
	terms := []string{term}
	for name, alias := range searchAliases {
		if !strings.Contains(term, name) {
			continue
		}
		if strings.Contains(term, alias) {
			continue
		}
		terms = append(terms, alias)
	}
	return terms
}

func matchesAny(name string, info model.PairInfo, terms []string) bool {
	haystacks := []string{
		strings.ToLower(name),
		strings.ToLower(info.WSName),
		strings.ToLower(info.AltName),
		strings.ToLower(info.Base),
		strings.ToLower(info.Quote),
	}
	for _, term := range terms {
		for _, hay := range haystacks {
			if strings.Contains(hay, term) {
				return true
			}
		}
	}
	return false
}

func pairDetail(name string, info model.PairInfo) model.PairDetail {
	display := info.WSName
	if display == "" {
		display = info.AltName
	}
	if display == "" {
		display = name
	}
	altName := info.AltName
	if altName == "" {
		altName = name
	}
	status := info.Status
	if status == "" {
		status = "unknown"
	}
	return model.PairDetail{
		Pair:    name,
		Name:    display,
		AltName: altName,
		Base:    info.Base,
		Quote:   info.Quote,
		Status:  status,
	}
}
