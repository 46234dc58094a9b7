package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"omnihedge/pkg/contracts/domain"
)

func TestContractID(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		table    *RawTable
		want     string
	}{
		{
			name:     "code in filename",
			filename: "cu2301.csv",
			table:    &RawTable{},
			want:     "cu2301",
		},
		{
			name:     "code embedded in longer name",
			filename: "沪铜_CU2301_日线.csv",
			table:    &RawTable{},
			want:     "cu2301",
		},
		{
			name:     "uppercase filename lowered",
			filename: "AL2309.xlsx",
			table:    &RawTable{},
			want:     "al2309",
		},
		{
			name:     "contract column fallback",
			filename: "期货数据.csv",
			table: &RawTable{
				Columns: []string{"日期", "合约代码", "结算价"},
				Rows:    [][]string{{"2023-01-02", "rb2305", "3900"}},
			},
			want: "rb2305",
		},
		{
			name:     "english contract column",
			filename: "futures.csv",
			table: &RawTable{
				Columns: []string{"date", "Contract", "price"},
				Rows:    [][]string{{"2023-01-02", "ZC2303", "900"}},
			},
			want: "ZC2303",
		},
		{
			name:     "stem fallback",
			filename: "期货数据.csv",
			table: &RawTable{
				Columns: []string{"日期", "结算价"},
				Rows:    [][]string{{"2023-01-02", "3900"}},
			},
			want: "期货数据",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ContractID(tt.filename, tt.table))
		})
	}
}

func oneDaySeries(price float64) *domain.Series {
	return &domain.Series{
		Dates:  []time.Time{utcDay(2023, 1, 2)},
		Prices: []domain.NullFloat{domain.Float(price)},
	}
}

func TestStateRegisterContract(t *testing.T) {
	state := NewState()

	state.RegisterContract("cu2301", oneDaySeries(100))
	state.RegisterContract("al2309", oneDaySeries(200))
	require.Len(t, state.Contracts, 2)

	// last write wins on identifier collision
	state.RegisterContract("cu2301", oneDaySeries(999))
	require.Len(t, state.Contracts, 2)
	assert.Equal(t, domain.Float(999), state.Contracts["cu2301"].Series.Prices[0])
}

func TestStateSetSpot(t *testing.T) {
	state := NewState()
	state.SetSpot(oneDaySeries(100))
	state.SetSpot(oneDaySeries(200))
	assert.Equal(t, domain.Float(200), state.Spot.Prices[0])
}

func TestStateContractIDsSorted(t *testing.T) {
	state := NewState()
	state.RegisterContract("zn2304", oneDaySeries(1))
	state.RegisterContract("al2309", oneDaySeries(2))
	state.RegisterContract("cu2301", oneDaySeries(3))

	assert.Equal(t, []string{"al2309", "cu2301", "zn2304"}, state.ContractIDs())
}
