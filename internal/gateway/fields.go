package gateway

import "strings"

// Field names one of the canonical semantic columns every normalized
// series is built from.
type Field string

const (
	FieldDate         Field = "date"
	FieldPrice        Field = "price"
	FieldOpenInterest Field = "oi"
	FieldVolume       Field = "volume"
)

// standardFields maps each canonical field to its ordered list of
// acceptable column-name patterns. Matching is case-folded substring
// search, so Chinese and English variants live in one list. New synonyms
// are additions here, not logic changes.
var standardFields = map[Field][]string{
	FieldDate:         {"date", "日期", "时间", "交易日期", "tradingday", "time", "t_date"},
	FieldPrice:        {"price", "收盘价", "结算价", "现货价格", "close", "lastprice", "settlement"},
	FieldOpenInterest: {"oi", "持仓量", "openinterest"},
	FieldVolume:       {"volume", "成交量", "vol"},
}

type mapResult struct {
	column string
	found  bool
}

// FieldMapper resolves arbitrary column names to canonical fields.
// Lookups are memoized per (column list, field) pair since many files in
// one scan share a schema. Not safe for concurrent use.
type FieldMapper struct {
	cache map[string]mapResult
}

// NewFieldMapper creates an empty mapper.
func NewFieldMapper() *FieldMapper {
	return &FieldMapper{cache: make(map[string]mapResult)}
}

// cacheKey builds an immutable snapshot of the column list; the joined
// string, not the slice, is the map key.
func cacheKey(columns []string, field Field) string {
	return strings.Join(columns, "\x1f") + "\x1f\x1f" + string(field)
}

// Map returns the first column, in source column order, whose case-folded
// trimmed name contains any of the field's patterns. It never fails: a
// miss is reported through the bool.
func (m *FieldMapper) Map(columns []string, field Field) (string, bool) {
	key := cacheKey(columns, field)
	if res, ok := m.cache[key]; ok {
		return res.column, res.found
	}

	patterns := standardFields[field]
	for _, col := range columns {
		lower := strings.ToLower(strings.TrimSpace(col))
		for _, pattern := range patterns {
			if strings.Contains(lower, pattern) {
				m.cache[key] = mapResult{column: col, found: true}
				return col, true
			}
		}
	}

	m.cache[key] = mapResult{}
	return "", false
}

// columnsMatchAny reports whether any column name, case-folded, contains
// one of the given patterns. Used by the classifier's signal checks.
func columnsMatchAny(columns []string, patterns ...string) bool {
	for _, col := range columns {
		lower := strings.ToLower(strings.TrimSpace(col))
		for _, pattern := range patterns {
			if strings.Contains(lower, pattern) {
				return true
			}
		}
	}
	return false
}
