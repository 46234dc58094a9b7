// Package exporter writes human-readable CSV renditions of the pipeline
// output next to the snapshot bundle.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"omnihedge/pkg/contracts/domain"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. A nil logger falls back
// to slog.Default.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(filePath string, options WriteOptions) error {
	w.logger.Info("writing CSV file",
		slog.String("path", filePath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	// BOM helps Excel recognize UTF-8, which matters for CJK column names.
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	return writer.Error()
}

// WritePanel exports the unified panel: one row per union date, one column
// per panel column, absent values as empty cells.
func (w *CSVWriter) WritePanel(filePath string, panel *domain.Panel) error {
	headers := append([]string{"date"}, panel.ColumnNames()...)

	records := make([][]string, len(panel.Dates))
	for i, date := range panel.Dates {
		row := make([]string, 0, len(headers))
		row = append(row, date.Format("2006-01-02"))
		for _, col := range panel.Columns {
			row = append(row, formatValue(col.Values[i]))
		}
		records[i] = row
	}

	return w.WriteCSV(filePath, WriteOptions{
		Headers:   headers,
		Records:   records,
		BOMPrefix: true,
	})
}

// WriteSummary exports metric/value pairs, the shape used for the hedge
// analysis summary.
func (w *CSVWriter) WriteSummary(filePath string, rows [][2]string) error {
	records := make([][]string, len(rows))
	for i, row := range rows {
		records[i] = []string{row[0], row[1]}
	}
	return w.WriteCSV(filePath, WriteOptions{
		Headers:   []string{"metric", "value"},
		Records:   records,
		BOMPrefix: true,
	})
}

// formatValue renders a nullable float for CSV output; absent values
// become empty cells, never zeros.
func formatValue(v domain.NullFloat) string {
	if !v.Valid {
		return ""
	}
	return strconv.FormatFloat(v.Float64, 'f', -1, 64)
}
