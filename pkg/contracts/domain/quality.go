package domain

import "time"

// SeriesQuality holds completeness statistics for one normalized series.
type SeriesQuality struct {
	TotalRecords int       `json:"total_records"`
	ValidRecords int       `json:"valid_records"`
	Completeness float64   `json:"completeness"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// QualityReport is the diagnostic summary produced after a scan: one entry
// for the spot series (nil when no spot file was found) and one per
// registered contract.
type QualityReport struct {
	ScanTime      time.Time                `json:"scan_time"`
	Spot          *SeriesQuality           `json:"spot,omitempty"`
	ContractCount int                      `json:"contract_count"`
	Contracts     map[string]SeriesQuality `json:"contracts,omitempty"`
}

// ScanStats aggregates the outcome of one directory scan. Errors carries
// one human-readable entry per file that could not be read, classified or
// normalized; the scan itself continues past them.
type ScanStats struct {
	SpotCount    int      `json:"spot_count"`
	FuturesCount int      `json:"futures_count"`
	FilesSeen    int      `json:"files_seen"`
	Errors       []string `json:"errors,omitempty"`
}
