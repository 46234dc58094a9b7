package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePanel() *Panel {
	return &Panel{
		Dates: []time.Time{day(2023, 1, 2), day(2023, 1, 3)},
		Columns: []PanelColumn{
			{Name: "spot_price", Values: []NullFloat{Float(100), Float(101)}},
			{Name: "futures_cu2301", Values: []NullFloat{Float(99), Null()}},
			{Name: "basis_cu2301", Values: []NullFloat{Float(1), Null()}},
		},
	}
}

func TestPanelEmpty(t *testing.T) {
	var nilPanel *Panel
	assert.True(t, nilPanel.Empty())
	assert.True(t, (&Panel{}).Empty())
	assert.False(t, samplePanel().Empty())
}

func TestPanelColumnLookup(t *testing.T) {
	panel := samplePanel()

	col, ok := panel.Column("futures_cu2301")
	require.True(t, ok)
	assert.Equal(t, "futures_cu2301", col.Name)

	_, ok = panel.Column("FUTURES_cu2301")
	assert.False(t, ok, "exact lookup is case-sensitive")
}

func TestPanelFindColumn(t *testing.T) {
	panel := samplePanel()

	tests := []struct {
		name   string
		substr string
		want   string
		found  bool
	}{
		{name: "spot by substring", substr: "spot", want: "spot_price", found: true},
		{name: "case insensitive", substr: "SPOT", want: "spot_price", found: true},
		{name: "first futures match wins", substr: "futures", want: "futures_cu2301", found: true},
		{name: "basis", substr: "basis", want: "basis_cu2301", found: true},
		{name: "no match", substr: "volume", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col, ok := panel.FindColumn(tt.substr)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, col.Name)
			}
		})
	}
}

func TestPanelColumnNames(t *testing.T) {
	assert.Equal(t,
		[]string{"spot_price", "futures_cu2301", "basis_cu2301"},
		samplePanel().ColumnNames())
}
