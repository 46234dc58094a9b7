package gateway

import (
	"sort"
	"time"

	"omnihedge/pkg/contracts/domain"
)

// AlignSpotToFutures re-indexes the spot series onto the sorted union of
// every futures series' trading dates. For each target date it prefers an
// exact spot observation, then the last known spot price (carry-forward,
// which assumes spot does not move on days futures trade without a matching
// spot print), and only for the cold start before any known value falls
// back to the spot observation nearest in calendar days. The original spot
// calendar is discarded.
//
// The nearest-date fallback is a linear scan over all spot dates. That is
// O(n·m) in the worst case but the fallback only runs for leading target
// dates, and per-series volumes are hundreds to low thousands of rows; a
// binary search over the sorted dates would not change observable
// behavior.
//
// Returns the input unchanged when there is no spot series or no futures.
func AlignSpotToFutures(spot *domain.Series, contracts map[string]domain.ContractRecord) *domain.Series {
	if spot == nil || len(contracts) == 0 {
		return spot
	}

	targetSet := make(map[time.Time]bool)
	for _, record := range contracts {
		for _, d := range record.Series.Dates {
			targetSet[d] = true
		}
	}
	if len(targetSet) == 0 {
		return spot
	}

	targets := make([]time.Time, 0, len(targetSet))
	for d := range targetSet {
		targets = append(targets, d)
	}
	sort.Slice(targets, func(i, j int) bool { return targets[i].Before(targets[j]) })

	exact := make(map[time.Time]domain.NullFloat, spot.Len())
	for i, d := range spot.Dates {
		if _, dup := exact[d]; !dup {
			exact[d] = spot.Prices[i]
		}
	}

	aligned := &domain.Series{
		Dates:  make([]time.Time, 0, len(targets)),
		Prices: make([]domain.NullFloat, 0, len(targets)),
	}

	var cursor domain.NullFloat
	cursorSet := false
	for _, target := range targets {
		var price domain.NullFloat
		switch {
		case hasDate(exact, target):
			price = exact[target]
			cursor = price
			cursorSet = true
		case cursorSet:
			price = cursor
		default:
			price = nearestPrice(spot, target)
			cursor = price
			cursorSet = true
		}
		aligned.Dates = append(aligned.Dates, target)
		aligned.Prices = append(aligned.Prices, price)
	}

	return aligned
}

func hasDate(m map[time.Time]domain.NullFloat, d time.Time) bool {
	_, ok := m[d]
	return ok
}

// nearestPrice scans all spot observations for the one whose date is
// closest in absolute calendar days to the target. First encountered wins
// on ties. Absent when the spot series is empty.
func nearestPrice(spot *domain.Series, target time.Time) domain.NullFloat {
	best := domain.Null()
	minDiff := -1
	for i, d := range spot.Dates {
		diff := int(target.Sub(d).Hours() / 24)
		if diff < 0 {
			diff = -diff
		}
		if minDiff < 0 || diff < minDiff {
			minDiff = diff
			best = spot.Prices[i]
		}
	}
	return best
}
