package domain

import (
	"encoding/json"
	"time"
)

// SeriesKind distinguishes the two families of price series the gateway
// handles.
type SeriesKind string

const (
	KindSpot    SeriesKind = "spot"
	KindFutures SeriesKind = "futures"
	KindUnknown SeriesKind = "unknown"
)

// NullFloat is a float64 that may be absent. Absent is distinct from zero:
// a value that failed numeric coercion, or a cell that never existed, is
// carried as Valid=false and serializes to JSON null.
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// Float returns a present NullFloat.
func Float(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Null returns an absent NullFloat.
func Null() NullFloat {
	return NullFloat{}
}

// MarshalJSON encodes absent values as null.
func (n NullFloat) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Float64)
}

// UnmarshalJSON decodes null as absent.
func (n *NullFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = NullFloat{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*n = NullFloat{Float64: v, Valid: true}
	return nil
}

// Sub subtracts other from n. The result is absent when either side is.
func (n NullFloat) Sub(other NullFloat) NullFloat {
	if !n.Valid || !other.Valid {
		return NullFloat{}
	}
	return Float(n.Float64 - other.Float64)
}

// Series is the canonical representation of one spot or futures time
// series after normalization. Dates are unique and strictly ascending, and
// every value slice that is non-nil has the same length as Dates.
// OpenInterest and Volume are nil for spot series and for futures files
// that never exposed them.
type Series struct {
	Dates        []time.Time `json:"dates"`
	Prices       []NullFloat `json:"prices"`
	OpenInterest []NullFloat `json:"open_interest,omitempty"`
	Volume       []NullFloat `json:"volume,omitempty"`
}

// Len returns the number of observations.
func (s *Series) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Dates)
}

// DateRange returns the first and last date. Both are zero when the series
// is empty.
func (s *Series) DateRange() (start, end time.Time) {
	if s.Len() == 0 {
		return time.Time{}, time.Time{}
	}
	return s.Dates[0], s.Dates[len(s.Dates)-1]
}

// ValidPrices counts observations whose price is present.
func (s *Series) ValidPrices() int {
	if s == nil {
		return 0
	}
	count := 0
	for _, p := range s.Prices {
		if p.Valid {
			count++
		}
	}
	return count
}

// PriceAt looks up the price for an exact date.
func (s *Series) PriceAt(date time.Time) (NullFloat, bool) {
	for i, d := range s.Dates {
		if d.Equal(date) {
			return s.Prices[i], true
		}
	}
	return NullFloat{}, false
}

// ContractRecord is a normalized futures series tagged with the contract
// identifier it registered under. The identifier is the join key used by
// the panel and the diagnostics.
type ContractRecord struct {
	ID     string  `json:"id"`
	Series *Series `json:"series"`
}

// ContractInfo summarizes one registered series for diagnostic output.
// AvgOpenInterest, MaxOpenInterest and AvgVolume are absent when the source
// table never exposed the underlying column; AvgPrice is only set for the
// spot entry.
type ContractInfo struct {
	StartDate       time.Time `json:"start_date"`
	EndDate         time.Time `json:"end_date"`
	TradingDays     int       `json:"trading_days"`
	AvgOpenInterest NullFloat `json:"avg_open_interest"`
	MaxOpenInterest NullFloat `json:"max_open_interest"`
	AvgVolume       NullFloat `json:"avg_volume"`
	AvgPrice        NullFloat `json:"avg_price"`
}
