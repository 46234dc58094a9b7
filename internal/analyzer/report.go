package analyzer

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const reportRule = 70

// WriteReport renders the decision report as plain text, one section per
// analysis stage.
func WriteReport(w io.Writer, params Params, result *Result) error {
	var b strings.Builder

	rule := strings.Repeat("=", reportRule)

	b.WriteString("\n" + rule + "\n")
	b.WriteString("Hedge Necessity Analysis Report\n")
	b.WriteString(rule + "\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("[Position]\n")
	fmt.Fprintf(&b, "  Position value:   %s\n", amount(params.PositionValue))
	fmt.Fprintf(&b, "  Holding period:   %d days\n", params.HedgeDays)
	fmt.Fprintf(&b, "  Confidence level: %.1f%%\n\n", params.Confidence*100)

	vol := result.Volatility
	b.WriteString("[Volatility Risk]\n")
	fmt.Fprintf(&b, "  Annualized volatility:     %.2f%%\n", vol.AnnualizedVolatility*100)
	fmt.Fprintf(&b, "  Holding period volatility: %.2f%%\n", vol.HoldingPeriodVolatility*100)
	fmt.Fprintf(&b, "  Value at risk:             %.2f%%\n", vol.VaRPercentage*100)
	fmt.Fprintf(&b, "  Value at risk amount:      %s\n", amount(vol.VaRAmount))
	fmt.Fprintf(&b, "  Worst historical return:   %.2f%% (%s)\n", vol.WorstCaseReturn*100, amount(vol.WorstCaseAmount))
	fmt.Fprintf(&b, "  Sample size:               %d trading days\n\n", vol.DataPoints)

	costs := result.Costs
	b.WriteString("[Cost Breakdown]\n")
	b.WriteString("  Trading costs:\n")
	fmt.Fprintf(&b, "    Commission:    %s\n", amount(costs.CommissionCost))
	fmt.Fprintf(&b, "    Slippage:      %s\n", amount(costs.SlippageCost))
	fmt.Fprintf(&b, "    Subtotal:      %s\n", amount(costs.TotalTradingCost))
	b.WriteString("  Funding costs:\n")
	fmt.Fprintf(&b, "    Margin held:   %s\n", amount(costs.MarginAmount))
	fmt.Fprintf(&b, "    Financing:     %s\n", amount(costs.FinancingCost))
	fmt.Fprintf(&b, "  Total cost:      %s (%.4f%%)\n\n", amount(costs.TotalCost), costs.CostPercentage*100)

	if basis := result.BasisRisk; basis.Status == BasisSuccess {
		b.WriteString("[Basis Risk]\n")
		fmt.Fprintf(&b, "  Basis mean:            %.2f\n", basis.BasisMean)
		fmt.Fprintf(&b, "  Basis std dev:         %.2f\n", basis.BasisStd)
		fmt.Fprintf(&b, "  Basis volatility:      %.2f%%\n", basis.BasisVolatility*100)
		if basis.BasisAnnualVol != 0 {
			fmt.Fprintf(&b, "  Annualized basis vol:  %.2f%%\n", basis.BasisAnnualVol*100)
		}
		fmt.Fprintf(&b, "  Risk level:            %s\n", strings.ToUpper(basis.RiskLevel))
		fmt.Fprintf(&b, "  %s\n\n", basis.RiskWarning)
	}

	decision := result.Decision
	b.WriteString("[Decision]\n")
	fmt.Fprintf(&b, "  Risk-to-cost ratio: %.2f\n", decision.RiskToCostRatio)
	fmt.Fprintf(&b, "  Value at risk:      %s\n", amount(decision.VaRAmount))
	fmt.Fprintf(&b, "  Total hedge cost:   %s\n\n", amount(decision.TotalCost))
	fmt.Fprintf(&b, "  Recommendation: %s\n", decision.Recommendation)
	fmt.Fprintf(&b, "  Reason: %s\n", decision.Reason)
	b.WriteString(rule + "\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// SummaryRows flattens the result into metric/value pairs for CSV export.
func SummaryRows(result *Result) [][2]string {
	return [][2]string{
		{"annualized_volatility", fmt.Sprintf("%.2f%%", result.Volatility.AnnualizedVolatility*100)},
		{"holding_period_volatility", fmt.Sprintf("%.2f%%", result.Volatility.HoldingPeriodVolatility*100)},
		{"var_percentage", fmt.Sprintf("%.2f%%", result.Volatility.VaRPercentage*100)},
		{"var_amount", fmt.Sprintf("%.0f", result.Volatility.VaRAmount)},
		{"total_trading_cost", fmt.Sprintf("%.0f", result.Costs.TotalTradingCost)},
		{"financing_cost", fmt.Sprintf("%.0f", result.Costs.FinancingCost)},
		{"total_cost", fmt.Sprintf("%.0f", result.Costs.TotalCost)},
		{"risk_to_cost_ratio", fmt.Sprintf("%.2f", result.Decision.RiskToCostRatio)},
		{"recommendation", result.Decision.RecommendationCode},
	}
}

// amount renders a currency amount with thousands separators, no decimals.
func amount(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	out := strings.Join(parts, ",")
	if neg {
		out = "-" + out
	}
	return out
}
