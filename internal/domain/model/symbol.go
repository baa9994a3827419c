package model

import "time"

// Symbol is a store-side trading instrument row.
type Symbol struct {
	ID        int64     `json:"id"`
	Symbol    string    `json:"symbol"`
	Name      string    `json:"name"`
	Exchange  string    `json:"exchange"`
	AssetType string    `json:"asset_type"`
	Currency  string    `json:"currency"`
	Sector    *string   `json:"sector,omitempty"`
	Industry  *string   `json:"industry,omitempty"`
	MarketCap *int64    `json:"market_cap,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
