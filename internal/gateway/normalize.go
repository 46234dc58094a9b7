package gateway

import (
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "omnihedge/internal/errors"
	"omnihedge/pkg/contracts/domain"
)

// priceFallbackColumns are literal column names tried, in order, when no
// column matches the canonical price patterns.
var priceFallbackColumns = []string{"收盘价", "现货价格"}

// Normalizer turns classified raw tables into canonical series.
type Normalizer struct {
	mapper *FieldMapper
}

// NewNormalizer creates a normalizer sharing the given field mapper's
// memoization.
func NewNormalizer(mapper *FieldMapper) *Normalizer {
	return &Normalizer{mapper: mapper}
}

// Normalize produces the canonical series for one table: parsed dates,
// coerced prices, optional open-interest and volume for futures, rows
// deduplicated by date keeping the first occurrence, sorted ascending, and
// prices forward-filled. The source table is left untouched. It fails only
// when the date or the price field cannot be mapped.
func (n *Normalizer) Normalize(t *RawTable, kind domain.SeriesKind, identifier string) (*domain.Series, error) {
	dateCol, ok := n.mapper.Map(t.Columns, FieldDate)
	if !ok {
		return nil, apperrors.NewMissingFieldError("date", identifier)
	}
	dates, dateOK := parseDateColumn(t.ColumnValues(dateCol))

	priceCol, ok := n.mapper.Map(t.Columns, FieldPrice)
	if !ok {
		for _, fallback := range priceFallbackColumns {
			if _, exists := t.ColumnIndex(fallback); exists {
				priceCol = fallback
				ok = true
				break
			}
		}
	}
	if !ok {
		return nil, apperrors.NewMissingFieldError("price", identifier)
	}
	prices := coerceColumn(t.ColumnValues(priceCol))

	var oi, volume []domain.NullFloat
	if kind == domain.KindFutures {
		if col, found := n.mapper.Map(t.Columns, FieldOpenInterest); found {
			oi = coerceColumn(t.ColumnValues(col))
		}
		if col, found := n.mapper.Map(t.Columns, FieldVolume); found {
			volume = coerceColumn(t.ColumnValues(col))
		}
	}

	// Keep rows with a parseable date, dropping later duplicates; source
	// order, not value, decides which duplicate survives.
	type obs struct {
		date   time.Time
		price  domain.NullFloat
		oi     domain.NullFloat
		volume domain.NullFloat
		order  int
	}
	seen := make(map[time.Time]bool)
	observations := make([]obs, 0, len(dates))
	for i, d := range dates {
		if !dateOK[i] || seen[d] {
			continue
		}
		seen[d] = true
		o := obs{date: d, price: prices[i], order: i}
		if oi != nil {
			o.oi = oi[i]
		}
		if volume != nil {
			o.volume = volume[i]
		}
		observations = append(observations, o)
	}

	sort.SliceStable(observations, func(i, j int) bool {
		return observations[i].date.Before(observations[j].date)
	})

	series := &domain.Series{
		Dates:  make([]time.Time, len(observations)),
		Prices: make([]domain.NullFloat, len(observations)),
	}
	if oi != nil {
		series.OpenInterest = make([]domain.NullFloat, len(observations))
	}
	if volume != nil {
		series.Volume = make([]domain.NullFloat, len(observations))
	}
	for i, o := range observations {
		series.Dates[i] = o.date
		series.Prices[i] = o.price
		if oi != nil {
			series.OpenInterest[i] = o.oi
		}
		if volume != nil {
			series.Volume[i] = o.volume
		}
	}

	forwardFill(series.Prices)

	return series, nil
}

// coerceColumn converts string cells to numeric values. Thousands
// separators are stripped; anything that still fails to parse becomes
// absent rather than zero.
func coerceColumn(values []string) []domain.NullFloat {
	out := make([]domain.NullFloat, len(values))
	for i, v := range values {
		s := strings.ReplaceAll(strings.TrimSpace(v), ",", "")
		if s == "" {
			continue
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			out[i] = domain.Float(f)
		}
	}
	return out
}

// forwardFill propagates the last present value into subsequent absent
// cells. Leading gaps before the first present value stay absent.
func forwardFill(values []domain.NullFloat) {
	last := domain.Null()
	for i, v := range values {
		if v.Valid {
			last = v
			continue
		}
		if last.Valid {
			values[i] = last
		}
	}
}
