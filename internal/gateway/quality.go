package gateway

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"omnihedge/pkg/contracts/domain"
)

// Report computes completeness statistics for every series in the state.
// Pure read-only summarization; it never fails.
func Report(state *State) *domain.QualityReport {
	report := &domain.QualityReport{
		ScanTime:      time.Now().UTC(),
		ContractCount: len(state.Contracts),
	}

	if state.Spot != nil && state.Spot.Len() > 0 {
		q := seriesQuality(state.Spot)
		report.Spot = &q
	}

	if len(state.Contracts) > 0 {
		report.Contracts = make(map[string]domain.SeriesQuality, len(state.Contracts))
		for _, id := range state.ContractIDs() {
			report.Contracts[id] = seriesQuality(state.Contracts[id].Series)
		}
	}

	return report
}

func seriesQuality(series *domain.Series) domain.SeriesQuality {
	total := series.Len()
	valid := series.ValidPrices()
	completeness := 0.0
	if total > 0 {
		completeness = float64(valid) / float64(total)
	}
	start, end := series.DateRange()
	return domain.SeriesQuality{
		TotalRecords: total,
		ValidRecords: valid,
		Completeness: completeness,
		StartDate:    start,
		EndDate:      end,
	}
}

// ContractInfos summarizes each registered contract (date range, trading
// days, mean and peak open interest, mean volume) plus a "spot" entry with
// the mean spot price. Entries for series without the underlying column
// carry absent aggregates.
func ContractInfos(state *State) map[string]domain.ContractInfo {
	infos := make(map[string]domain.ContractInfo)

	for _, id := range state.ContractIDs() {
		series := state.Contracts[id].Series
		if series.Len() == 0 {
			continue
		}
		start, end := series.DateRange()
		info := domain.ContractInfo{
			StartDate:   start,
			EndDate:     end,
			TradingDays: series.Len(),
		}
		if values := presentValues(series.OpenInterest); len(values) > 0 {
			info.AvgOpenInterest = domain.Float(stat.Mean(values, nil))
			info.MaxOpenInterest = domain.Float(floats.Max(values))
		}
		if values := presentValues(series.Volume); len(values) > 0 {
			info.AvgVolume = domain.Float(stat.Mean(values, nil))
		}
		infos[id] = info
	}

	if state.Spot != nil && state.Spot.Len() > 0 {
		start, end := state.Spot.DateRange()
		info := domain.ContractInfo{
			StartDate:   start,
			EndDate:     end,
			TradingDays: state.Spot.Len(),
		}
		if values := presentValues(state.Spot.Prices); len(values) > 0 {
			info.AvgPrice = domain.Float(stat.Mean(values, nil))
		}
		infos["spot"] = info
	}

	return infos
}

func presentValues(values []domain.NullFloat) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}
