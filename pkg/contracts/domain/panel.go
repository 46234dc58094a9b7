package domain

import (
	"strings"
	"time"
)

// Column name prefixes used when assembling the unified panel. Downstream
// consumers locate columns by substring match on these.
const (
	SpotColumn          = "spot_price"
	FuturesColumnPrefix = "futures_"
	BasisColumnPrefix   = "basis_"
)

// PanelColumn is one named value column of the unified panel, aligned 1:1
// with the panel's date index.
type PanelColumn struct {
	Name   string      `json:"name"`
	Values []NullFloat `json:"values"`
}

// Panel is the unified output of the ingestion pipeline: a date-indexed
// wide table over the union of every input series' dates. Column order is
// spot first, then one (futures, basis) pair per contract in sorted
// identifier order, so output is reproducible across runs.
type Panel struct {
	Dates   []time.Time   `json:"dates"`
	Columns []PanelColumn `json:"columns"`
}

// Empty reports whether the panel carries no dates.
func (p *Panel) Empty() bool {
	return p == nil || len(p.Dates) == 0
}

// Column returns the column with the exact name.
func (p *Panel) Column(name string) (*PanelColumn, bool) {
	for i := range p.Columns {
		if p.Columns[i].Name == name {
			return &p.Columns[i], true
		}
	}
	return nil, false
}

// FindColumn returns the first column whose name contains the given
// substring, case-insensitively. This is the lookup contract the analysis
// layer relies on: first match wins.
func (p *Panel) FindColumn(substr string) (*PanelColumn, bool) {
	needle := strings.ToLower(substr)
	for i := range p.Columns {
		if strings.Contains(strings.ToLower(p.Columns[i].Name), needle) {
			return &p.Columns[i], true
		}
	}
	return nil, false
}

// ColumnNames lists the column names in panel order.
func (p *Panel) ColumnNames() []string {
	names := make([]string, len(p.Columns))
	for i, c := range p.Columns {
		names[i] = c.Name
	}
	return names
}
