package gateway

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "omnihedge/internal/errors"
	"omnihedge/pkg/contracts/domain"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestScanMixedDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "spot.csv",
		"日期,现货价格\n2023-01-02,100\n2023-01-03,101\n")
	writeFixture(t, dir, "cu2301.csv",
		"日期,结算价,持仓量,成交量\n2023-01-02,99,12000,3500\n2023-01-03,98,12100,3600\n")
	writeFixture(t, dir, "mystery.csv",
		"foo,bar\nx,y\n")

	scanner := NewScanner(nil)
	state, stats, err := scanner.Scan(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Equal(t, 3, stats.FilesSeen)
	assert.Equal(t, 1, stats.SpotCount)
	assert.Equal(t, 1, stats.FuturesCount)

	require.NotNil(t, state.Spot)
	assert.Equal(t, 2, state.Spot.Len())

	require.Contains(t, state.Contracts, "cu2301")
	assert.Equal(t, domain.Float(12000), state.Contracts["cu2301"].Series.OpenInterest[0])

	// the unclassifiable file is reported, not fatal
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "mystery.csv")
}

func TestScanRecursive(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2023")
	require.NoError(t, os.Mkdir(sub, 0755))
	writeFixture(t, sub, "al2309.csv",
		"日期,结算价,持仓量\n2023-01-02,18000,500\n")

	scanner := NewScanner(nil)
	state, stats, err := scanner.Scan(context.Background(), dir, true)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.FuturesCount)
	assert.Contains(t, state.Contracts, "al2309")

	// the same run, non-recursive, sees nothing
	state, stats, err = scanner.Scan(context.Background(), dir, false)
	require.NoError(t, err)
	assert.Zero(t, stats.FilesSeen)
	assert.Empty(t, state.Contracts)
}

func TestScanMissingDirectory(t *testing.T) {
	scanner := NewScanner(nil)
	_, _, err := scanner.Scan(context.Background(), filepath.Join(t.TempDir(), "absent"), true)
	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeNotFound))
}

func TestScanEmptyDirectory(t *testing.T) {
	scanner := NewScanner(nil)
	state, stats, err := scanner.Scan(context.Background(), t.TempDir(), true)
	require.NoError(t, err)

	assert.Zero(t, stats.FilesSeen)
	assert.Nil(t, state.Spot)
	assert.Empty(t, state.Contracts)

	// downstream, an empty scan surfaces as an empty-panel failure
	_, panelErr := BuildPanel(state.Spot, state)
	assert.True(t, apperrors.IsType(panelErr, apperrors.ErrTypeEmptyPanel))
}

func TestScanNormalizationFailureRecorded(t *testing.T) {
	dir := t.TempDir()
	// classifies as futures via the oi column but has no date column
	writeFixture(t, dir, "cu2301.csv",
		"code,持仓量\nx,100\n")

	scanner := NewScanner(nil)
	state, stats, err := scanner.Scan(context.Background(), dir, false)
	require.NoError(t, err)

	assert.Empty(t, state.Contracts)
	assert.Zero(t, stats.FuturesCount)
	require.Len(t, stats.Errors, 1)
	assert.Contains(t, stats.Errors[0], "cu2301.csv")
}
