package gateway

import (
	"omnihedge/pkg/contracts/domain"
)

// futuresMaxSpanDays is the date-span threshold separating short-lived
// futures contracts from long-running spot indices. Futures contracts are
// actively traded for months; spot references run for years. The cutoff is
// a heuristic and is deliberately not configurable: long-running futures
// continuation series will misclassify as spot, which is accepted and
// documented rather than patched around.
const futuresMaxSpanDays = 1000

// spotMinRows is the minimum row count for the long-span spot rule.
const spotMinRows = 100

// Classifier decides whether a raw table holds a spot or a futures series.
// Classification is a pure function of the column names, the row count and
// the date span; the same table shape always yields the same answer.
type Classifier struct {
	mapper *FieldMapper
}

// NewClassifier creates a classifier sharing the given field mapper's
// memoization.
func NewClassifier(mapper *FieldMapper) *Classifier {
	return &Classifier{mapper: mapper}
}

// Classify applies the ordered detection rules, first match wins:
//
//  1. any open-interest column        -> futures
//  2. volume column, no spot-price
//     column, date span < 1000 days  -> futures
//  3. spot-price column, no OI       -> spot
//  4. no OI, >100 rows, span > 1000  -> spot
//  5. otherwise                      -> unknown
func (c *Classifier) Classify(t *RawTable) domain.SeriesKind {
	hasOI := columnsMatchAny(t.Columns, "持仓量", "openinterest", "oi")
	hasVolume := columnsMatchAny(t.Columns, "成交量", "volume", "vol")
	hasSpotPrice := columnsMatchAny(t.Columns, "现货价格", "spot")

	if hasOI {
		return domain.KindFutures
	}

	if hasVolume && !hasSpotPrice {
		if span, ok := c.span(t); ok && span < futuresMaxSpanDays {
			return domain.KindFutures
		}
	}

	if hasSpotPrice {
		return domain.KindSpot
	}

	if t.RowCount() > spotMinRows {
		if span, ok := c.span(t); ok && span > futuresMaxSpanDays {
			return domain.KindSpot
		}
	}

	return domain.KindUnknown
}

func (c *Classifier) span(t *RawTable) (int, bool) {
	dateCol, ok := c.mapper.Map(t.Columns, FieldDate)
	if !ok {
		return 0, false
	}
	return dateSpanDays(t.ColumnValues(dateCol))
}
