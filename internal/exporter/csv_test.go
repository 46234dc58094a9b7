package exporter

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnihedge/pkg/contracts/domain"
)

func testPanel() *domain.Panel {
	return &domain.Panel{
		Dates: []time.Time{
			time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
			time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC),
		},
		Columns: []domain.PanelColumn{
			{Name: "spot_price", Values: []domain.NullFloat{domain.Float(100.5), domain.Null()}},
			{Name: "futures_cu2301", Values: []domain.NullFloat{domain.Float(99), domain.Float(98)}},
			{Name: "basis_cu2301", Values: []domain.NullFloat{domain.Float(1.5), domain.Null()}},
		},
	}
}

func readCSVFile(t *testing.T, path string) (hadBOM bool, records [][]string) {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	hadBOM = bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if hadBOM {
		raw = raw[3:]
	}

	records, err = csv.NewReader(bytes.NewReader(raw)).ReadAll()
	require.NoError(t, err)
	return hadBOM, records
}

func TestWritePanel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "unified_panel.csv")
	w := NewCSVWriter(nil)

	require.NoError(t, w.WritePanel(path, testPanel()))

	hadBOM, records := readCSVFile(t, path)
	assert.True(t, hadBOM, "panel CSV carries a UTF-8 BOM for Excel")

	require.Len(t, records, 3)
	assert.Equal(t, []string{"date", "spot_price", "futures_cu2301", "basis_cu2301"}, records[0])
	assert.Equal(t, []string{"2023-01-02", "100.5", "99", "1.5"}, records[1])
	// absent values export as empty cells, never zeros
	assert.Equal(t, []string{"2023-01-03", "", "98", ""}, records[2])
}

func TestWriteSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hedge_analysis_summary.csv")
	w := NewCSVWriter(nil)

	rows := [][2]string{
		{"risk_to_cost_ratio", "2.41"},
		{"recommendation", "STRONG_RECOMMEND"},
	}
	require.NoError(t, w.WriteSummary(path, rows))

	hadBOM, records := readCSVFile(t, path)
	assert.True(t, hadBOM)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"metric", "value"}, records[0])
	assert.Equal(t, []string{"recommendation", "STRONG_RECOMMEND"}, records[2])
}

func TestWriteCSVCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "out.csv")
	w := NewCSVWriter(nil)

	err := w.WriteCSV(path, WriteOptions{
		Headers: []string{"x"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)
	assert.FileExists(t, path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	// no BOM unless asked for
	assert.False(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}))
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "100.5", formatValue(domain.Float(100.5)))
	assert.Equal(t, "0", formatValue(domain.Float(0)))
	assert.Equal(t, "", formatValue(domain.Null()))
}
