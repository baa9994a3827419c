package dbgateway

import (
	"strconv"
	"time"

	"marketsync/internal/domain/model"
)

// Row values arrive as generic JSON, so numbers are float64 and
// timestamps are ISO strings. These helpers coerce without panicking.

func rowString(row map[string]any, key string) string {
	if s, ok := row[key].(string); ok {
		return s
	}
	return ""
}

func rowInt64(row map[string]any, key string) int64 {
	switch v := row[key].(type) {
	case float64:
		return int64(v)
	case string:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	default:
		return 0
	}
}

func rowBool(row map[string]any, key string) bool {
	if b, ok := row[key].(bool); ok {
		return b
	}
	return false
}

func rowTime(row map[string]any, key string) time.Time {
	s, ok := row[key].(string)
	if !ok {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func symbolFromRow(row map[string]any) model.Symbol {
	sym := model.Symbol{
		ID:        rowInt64(row, "id"),
		Symbol:    rowString(row, "symbol"),
		Name:      rowString(row, "name"),
		Exchange:  rowString(row, "exchange"),
		AssetType: rowString(row, "asset_type"),
		Currency:  rowString(row, "currency"),
		IsActive:  rowBool(row, "is_active"),
		CreatedAt: rowTime(row, "created_at"),
		UpdatedAt: rowTime(row, "updated_at"),
	}
	if s := rowString(row, "sector"); s != "" {
		sym.Sector = &s
	}
	if s := rowString(row, "industry"); s != "" {
		sym.Industry = &s
	}
	if row["market_cap"] != nil {
		mc := rowInt64(row, "market_cap")
		sym.MarketCap = &mc
	}
	return sym
}
