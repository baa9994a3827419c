package model

import "time"

// Pair statuses reported by the exchange.
const (
	PairStatusOnline     = "online"
	PairStatusCancelOnly = "cancel_only"
	PairStatusPostOnly   = "post_only"
	PairStatusLimitOnly  = "limit_only"
)

// PairInfo is the exchange metadata for one tradable pair.
// The native pair code is the key of the enclosing PairCatalog.
type PairInfo struct {
	AltName string `json:"altname"`
	WSName  string `json:"wsname"`
	Base    string `json:"base"`
	Quote   string `json:"quote"`
	Status  string `json:"status"`
}

// PairCatalog maps native pair codes to their metadata.
type PairCatalog map[string]PairInfo

// CatalogSnapshot is the cached form of the full pair catalog.
// It is written and expired wholesale, never partially updated.
type CatalogSnapshot struct {
	Pairs     PairCatalog `json:"pairs"`
	FetchedAt time.Time   `json:"fetched_at"`
}

// PairDetail is one enriched row of a catalog query result.
// Name falls back from wsname to altname to the native code.
type PairDetail struct {
	Pair    string `json:"pair"`
	Name    string `json:"name"`
	AltName string `json:"altname"`
	Base    string `json:"base"`
	Quote   string `json:"quote"`
	Status  string `json:"status"`
}

// PairQuery selects a filtered, paginated slice of the pair catalog.
type PairQuery struct {
	Status  string
	Search  string
	Offset  int
	Limit   int
	Refresh bool
}

// PairsResult is the outcome of a catalog query.
type PairsResult struct {
	Pairs         []string     `json:"pairs"`
	PairsDetail   []PairDetail `json:"pairs_detail"`
	TotalPairs    int          `json:"total_pairs"`
	ActivePairs   int          `json:"active_pairs"`
	FilteredPairs int          `json:"filtered_pairs"`
	FromCache     bool         `json:"from_cache"`
	HasMore       bool         `json:"has_more"`
}

// CatalogStats summarizes a forced catalog refresh.
type CatalogStats struct {
	TotalPairs  int  `json:"total_pairs"`
	ActivePairs int  `json:"active_pairs"`
	Cached      bool `json:"cached"`
}
