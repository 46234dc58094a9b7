package gateway

import (
	"sort"
	"time"

	apperrors "omnihedge/internal/errors"
	"omnihedge/pkg/contracts/domain"
)

// BuildPanel assembles the unified wide panel: the strictly-increasing
// union of every series' dates, one spot column when a spot series exists,
// and a (futures, basis) column pair per contract in sorted identifier
// order. Basis is spot minus futures evaluated pointwise, absent wherever
// either side is absent. No imputation happens here; any gap-filling
// already happened upstream in normalization and alignment.
//
// The caller is expected to have run AlignSpotToFutures first when
// alignment is wanted; BuildPanel joins whatever it is given.
func BuildPanel(spot *domain.Series, state *State) (*domain.Panel, error) {
	dateSet := make(map[time.Time]bool)
	if spot != nil {
		for _, d := range spot.Dates {
			dateSet[d] = true
		}
	}
	for _, record := range state.Contracts {
		for _, d := range record.Series.Dates {
			dateSet[d] = true
		}
	}
	if len(dateSet) == 0 {
		return nil, apperrors.NewEmptyPanelError()
	}

	dates := make([]time.Time, 0, len(dateSet))
	for d := range dateSet {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	panel := &domain.Panel{Dates: dates}

	var spotValues []domain.NullFloat
	if spot != nil {
		spotValues = reindex(spot, dates)
		panel.Columns = append(panel.Columns, domain.PanelColumn{
			Name:   domain.SpotColumn,
			Values: spotValues,
		})
	}

	for _, id := range state.ContractIDs() {
		futValues := reindex(state.Contracts[id].Series, dates)
		panel.Columns = append(panel.Columns, domain.PanelColumn{
			Name:   domain.FuturesColumnPrefix + id,
			Values: futValues,
		})

		if spotValues != nil {
			basis := make([]domain.NullFloat, len(dates))
			for i := range dates {
				basis[i] = spotValues[i].Sub(futValues[i])
			}
			panel.Columns = append(panel.Columns, domain.PanelColumn{
				Name:   domain.BasisColumnPrefix + id,
				Values: basis,
			})
		}
	}

	return panel, nil
}

// reindex projects a series onto the panel's date index; dates the series
// does not cover come back absent.
func reindex(series *domain.Series, dates []time.Time) []domain.NullFloat {
	byDate := make(map[time.Time]domain.NullFloat, series.Len())
	for i, d := range series.Dates {
		byDate[d] = series.Prices[i]
	}
	values := make([]domain.NullFloat, len(dates))
	for i, d := range dates {
		if v, ok := byDate[d]; ok {
			values[i] = v
		}
	}
	return values
}
