// Package analyzer evaluates whether hedging a spot position is worth its
// cost. It estimates price risk from historical spot returns, totals the
// round-trip hedging costs, inspects basis behavior when futures data is
// available, and condenses everything into a single risk-to-cost decision.
package analyzer

import (
	"log/slog"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	apperrors "omnihedge/internal/errors"
	"omnihedge/pkg/contracts/domain"
)

// tradingDaysPerYear is the annualization base for volatility.
const tradingDaysPerYear = 252

// minSamplePoints is the sample size below which estimates are flagged as
// unreliable.
const minSamplePoints = 30

// BasisStatus describes the outcome of the basis risk stage.
type BasisStatus string

const (
	BasisSuccess          BasisStatus = "success"
	BasisNoFuturesData    BasisStatus = "no_futures_data"
	BasisNoCommonDates    BasisStatus = "no_common_dates"
	BasisCannotCalculate  BasisStatus = "cannot_calculate_basis"
	BasisInsufficientData BasisStatus = "insufficient_data"
)

// Recommendation codes for the hedge decision.
const (
	StrongRecommend = "STRONG_RECOMMEND"
	Recommend       = "RECOMMEND"
	NotRecommend    = "NOT_RECOMMEND"
)

// CostRates holds the per-unit cost assumptions of the hedge.
type CostRates struct {
	CommissionRate float64
	FinancingRate  float64
	SlippageRate   float64
	MarginRate     float64
}

// Params configures a hedge necessity analysis.
type Params struct {
	HedgeDays     int
	Confidence    float64
	PositionValue float64
	Costs         CostRates
}

// VolatilityRisk is the output of the volatility stage.
type VolatilityRisk struct {
	DailyVolatility         float64 `json:"daily_volatility"`
	AnnualizedVolatility    float64 `json:"annualized_volatility"`
	HoldingPeriodVolatility float64 `json:"holding_period_volatility"`
	VaRPercentage           float64 `json:"var_percentage"`
	VaRAmount               float64 `json:"var_amount"`
	ConfidenceLevel         float64 `json:"confidence_level"`
	WorstCaseReturn         float64 `json:"worst_case_return"`
	WorstCaseAmount         float64 `json:"worst_case_amount"`
	DataPoints              int     `json:"data_points"`
}

// CostBreakdown is the output of the cost stage. All amounts are in the
// same currency unit as the position value.
type CostBreakdown struct {
	CommissionCost   float64 `json:"commission_cost"`
	SlippageCost     float64 `json:"slippage_cost"`
	TotalTradingCost float64 `json:"total_trading_cost"`
	MarginAmount     float64 `json:"margin_amount"`
	FinancingCost    float64 `json:"financing_cost"`
	TotalCost        float64 `json:"total_cost"`
	CostPercentage   float64 `json:"cost_percentage"`
}

// BasisRisk is the output of the basis risk stage.
type BasisRisk struct {
	Status          BasisStatus `json:"status"`
	BasisMean       float64     `json:"basis_mean,omitempty"`
	BasisStd        float64     `json:"basis_std,omitempty"`
	BasisVolatility float64     `json:"basis_volatility,omitempty"`
	BasisAnnualVol  float64     `json:"basis_annual_vol,omitempty"`
	RiskLevel       string      `json:"risk_level,omitempty"`
	RiskWarning     string      `json:"risk_warning,omitempty"`
	DataPoints      int         `json:"data_points"`
}

// Decision is the final hedge verdict.
type Decision struct {
	RiskToCostRatio    float64 `json:"risk_to_cost_ratio"`
	Recommendation     string  `json:"recommendation"`
	RecommendationCode string  `json:"recommendation_code"`
	Reason             string  `json:"reason"`
	VaRAmount          float64 `json:"var_amount"`
	TotalCost          float64 `json:"total_cost"`
}

// Result bundles all four analysis stages.
type Result struct {
	Volatility VolatilityRisk `json:"volatility_analysis"`
	Costs      CostBreakdown  `json:"cost_analysis"`
	BasisRisk  BasisRisk      `json:"basis_risk_analysis"`
	Decision   Decision       `json:"decision_result"`
}

// Analyzer runs the hedge necessity analysis over a spot price sample.
type Analyzer struct {
	params Params
	logger *slog.Logger
}

// New creates an analyzer with the given parameters. A nil logger falls
// back to slog.Default.
func New(params Params, logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{params: params, logger: logger}
}

// Analyze runs all stages. spotPrices must be the valid spot observations
// in date order; panel may be nil, in which case the basis stage reports
// no futures data.
func (a *Analyzer) Analyze(spotPrices []float64, panel *domain.Panel) (*Result, error) {
	vol, err := a.analyzeVolatility(spotPrices)
	if err != nil {
		return nil, err
	}

	costs := a.analyzeCosts()
	basis := a.analyzeBasisRisk(panel)
	decision := a.evaluate(vol, costs)

	a.logger.Info("hedge analysis complete",
		slog.Float64("risk_to_cost_ratio", decision.RiskToCostRatio),
		slog.String("recommendation", decision.RecommendationCode))

	return &Result{
		Volatility: *vol,
		Costs:      *costs,
		BasisRisk:  *basis,
		Decision:   *decision,
	}, nil
}

// analyzeVolatility computes daily/annualized/holding-period volatility
// and the parametric VaR of the position over the holding period.
func (a *Analyzer) analyzeVolatility(spotPrices []float64) (*VolatilityRisk, error) {
	if len(spotPrices) < 2 {
		return nil, apperrors.NewParsingError("insufficient spot data for volatility estimation", nil)
	}

	returns := dailyReturns(spotPrices)
	if len(returns) < minSamplePoints {
		a.logger.Warn("spot sample below 30 observations, volatility estimate may be unreliable",
			slog.Int("data_points", len(returns)))
	}

	dailyVol := stat.StdDev(returns, nil)
	annualVol := dailyVol * math.Sqrt(tradingDaysPerYear)
	holdingVol := dailyVol * math.Sqrt(float64(a.params.HedgeDays))

	normal := distuv.Normal{Mu: 0, Sigma: 1}
	zScore := normal.Quantile(1 - a.params.Confidence)
	varPct := math.Abs(zScore * holdingVol)
	varAmount := varPct * a.params.PositionValue

	worst := floats.Min(returns)

	return &VolatilityRisk{
		DailyVolatility:         dailyVol,
		AnnualizedVolatility:    annualVol,
		HoldingPeriodVolatility: holdingVol,
		VaRPercentage:           varPct,
		VaRAmount:               varAmount,
		ConfidenceLevel:         a.params.Confidence,
		WorstCaseReturn:         worst,
		WorstCaseAmount:         math.Abs(worst) * a.params.PositionValue,
		DataPoints:              len(returns),
	}, nil
}

// analyzeCosts totals trading costs (commission and slippage, charged on
// both open and close) and the financing cost of the margin over the
// holding period.
func (a *Analyzer) analyzeCosts() *CostBreakdown {
	pos := a.params.PositionValue
	rates := a.params.Costs

	commission := pos * rates.CommissionRate * 2
	slippage := pos * rates.SlippageRate * 2
	trading := commission + slippage

	margin := pos * rates.MarginRate
	financing := margin * rates.FinancingRate * (float64(a.params.HedgeDays) / 365)

	total := trading + financing

	return &CostBreakdown{
		CommissionCost:   commission,
		SlippageCost:     slippage,
		TotalTradingCost: trading,
		MarginAmount:     margin,
		FinancingCost:    financing,
		TotalCost:        total,
		CostPercentage:   total / pos,
	}
}

// analyzeBasisRisk measures how unstable the spot-futures basis is. A
// basis column in the panel is used directly; otherwise the basis is
// derived from the first spot and futures columns on their common dates.
func (a *Analyzer) analyzeBasisRisk(panel *domain.Panel) *BasisRisk {
	if panel == nil || panel.Empty() {
		return &BasisRisk{Status: BasisNoFuturesData}
	}

	basis, spotMean, status := extractBasis(panel)
	if status != BasisSuccess {
		return &BasisRisk{Status: status}
	}
	if len(basis) < minSamplePoints {
		return &BasisRisk{Status: BasisInsufficientData, DataPoints: len(basis)}
	}

	basisStd := stat.StdDev(basis, nil)
	basisMean := stat.Mean(basis, nil)

	var basisVolatility float64
	switch {
	case math.Abs(basisMean) > 0:
		basisVolatility = basisStd / math.Abs(basisMean)
	case spotMean != 0:
		basisVolatility = basisStd / math.Abs(spotMean)
	default:
		basisVolatility = math.Inf(1)
	}

	annualVol := basisAnnualVolatility(basis, basisMean)

	level, warning := basisRiskLevel(basisVolatility)

	return &BasisRisk{
		Status:          BasisSuccess,
		BasisMean:       basisMean,
		BasisStd:        basisStd,
		BasisVolatility: basisVolatility,
		BasisAnnualVol:  annualVol,
		RiskLevel:       level,
		RiskWarning:     warning,
		DataPoints:      len(basis),
	}
}

// evaluate compares the value at risk against the total hedging cost.
func (a *Analyzer) evaluate(vol *VolatilityRisk, costs *CostBreakdown) *Decision {
	ratio := math.Inf(1)
	if costs.TotalCost > 0 {
		ratio = vol.VaRAmount / costs.TotalCost
	}

	d := &Decision{
		RiskToCostRatio: ratio,
		VaRAmount:       vol.VaRAmount,
		TotalCost:       costs.TotalCost,
	}

	switch {
	case ratio > 2.0:
		d.Recommendation = "Hedging strongly recommended"
		d.RecommendationCode = StrongRecommend
		d.Reason = "risk far exceeds cost, hedging has clear economic value"
	case ratio > 1.0:
		d.Recommendation = "Hedging recommended"
		d.RecommendationCode = Recommend
		d.Reason = "hedging has economic value, risk moderately exceeds cost"
	default:
		d.Recommendation = "Hedging not recommended"
		d.RecommendationCode = NotRecommend
		d.Reason = "hedging cost exceeds price risk, consider running unhedged or shortening the holding period"
	}

	return d
}

// dailyReturns computes simple period-over-period returns.
func dailyReturns(prices []float64) []float64 {
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		if prices[i-1] == 0 {
			continue
		}
		returns = append(returns, prices[i]/prices[i-1]-1)
	}
	return returns
}

// extractBasis pulls a basis sample out of the panel. Also returns the
// mean of the spot column for the zero-mean fallback.
func extractBasis(panel *domain.Panel) (basis []float64, spotMean float64, status BasisStatus) {
	spotCol, hasSpot := panel.FindColumn("spot")
	if hasSpot {
		if values := presentValues(spotCol.Values); len(values) > 0 {
			spotMean = stat.Mean(values, nil)
		}
	}

	if basisCol, ok := panel.FindColumn("basis"); ok {
		return presentValues(basisCol.Values), spotMean, BasisSuccess
	}

	futuresCol, hasFutures := panel.FindColumn("futures")
	if !hasSpot || !hasFutures {
		return nil, spotMean, BasisCannotCalculate
	}

	// Pointwise difference on dates where both sides are present.
	for i := range panel.Dates {
		s, f := spotCol.Values[i], futuresCol.Values[i]
		if s.Valid && f.Valid {
			basis = append(basis, s.Float64-f.Float64)
		}
	}
	if len(basis) == 0 {
		return nil, spotMean, BasisNoCommonDates
	}
	return basis, spotMean, BasisSuccess
}

// basisAnnualVolatility annualizes basis variability. Relative returns are
// preferred; when the basis crosses zero they blow up, so absolute
// differences scaled by the mean are used instead.
func basisAnnualVolatility(basis []float64, basisMean float64) float64 {
	returns := dailyReturns(basis)
	if len(returns) > 0 && allFinite(returns) {
		return stat.StdDev(returns, nil) * math.Sqrt(tradingDaysPerYear)
	}

	diffs := make([]float64, 0, len(basis)-1)
	for i := 1; i < len(basis); i++ {
		diffs = append(diffs, basis[i]-basis[i-1])
	}
	if len(diffs) == 0 {
		return 0
	}
	dailyVol := stat.StdDev(diffs, nil)
	if basisMean != 0 {
		dailyVol /= math.Abs(basisMean)
	}
	return dailyVol * math.Sqrt(tradingDaysPerYear)
}

func basisRiskLevel(volatility float64) (level, warning string) {
	switch {
	case volatility > 0.1:
		return "high", "basis risk is high and may offset hedging gains"
	case volatility > 0.05:
		return "medium", "basis risk is moderate, monitor closely"
	default:
		return "low", "basis risk is low"
	}
}

func allFinite(values []float64) bool {
	for _, v := range values {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return false
		}
	}
	return true
}

func presentValues(values []domain.NullFloat) []float64 {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if v.Valid {
			out = append(out, v.Float64)
		}
	}
	return out
}
