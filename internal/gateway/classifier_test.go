package gateway

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"omnihedge/pkg/contracts/domain"
)

// datedRows builds n rows of (date, value...) spaced stepDays apart.
func datedRows(n, stepDays int, extra ...string) [][]string {
	start := time.Date(2018, 1, 2, 0, 0, 0, 0, time.UTC)
	rows := make([][]string, n)
	for i := 0; i < n; i++ {
		date := start.AddDate(0, 0, i*stepDays).Format("2006-01-02")
		rows[i] = append([]string{date}, extra...)
	}
	return rows
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		table *RawTable
		want  domain.SeriesKind
	}{
		{
			name: "open interest wins regardless of anything else",
			table: &RawTable{
				Columns: []string{"日期", "收盘价", "持仓量"},
				Rows:    [][]string{{"2023-01-02", "100", "5000"}},
			},
			want: domain.KindFutures,
		},
		{
			name: "english open interest column",
			table: &RawTable{
				Columns: []string{"Date", "Close", "OpenInterest"},
				Rows:    [][]string{{"2023-01-02", "100", "5000"}},
			},
			want: domain.KindFutures,
		},
		{
			name: "volume with short span and no spot column",
			table: &RawTable{
				Columns: []string{"日期", "结算价", "成交量"},
				Rows: [][]string{
					{"2023-01-02", "100", "900"},
					{"2023-06-30", "110", "800"},
				},
			},
			want: domain.KindFutures,
		},
		{
			name: "volume with long span is not futures",
			table: &RawTable{
				Columns: []string{"日期", "价格", "成交量"},
				Rows: [][]string{
					{"2018-01-02", "100", "900"},
					{"2023-06-30", "110", "800"},
				},
			},
			want: domain.KindUnknown,
		},
		{
			name: "spot price column without oi",
			table: &RawTable{
				Columns: []string{"日期", "现货价格"},
				Rows:    [][]string{{"2023-01-02", "100"}},
			},
			want: domain.KindSpot,
		},
		{
			name: "spot column beats the volume rule",
			table: &RawTable{
				Columns: []string{"日期", "现货价格", "成交量"},
				Rows: [][]string{
					{"2023-01-02", "100", "900"},
					{"2023-02-02", "101", "850"},
				},
			},
			want: domain.KindSpot,
		},
		{
			name: "long history with many rows is spot",
			table: &RawTable{
				Columns: []string{"日期", "价格"},
				Rows:    datedRows(150, 10, "100"),
			},
			want: domain.KindSpot,
		},
		{
			name: "long history with too few rows stays unknown",
			table: &RawTable{
				Columns: []string{"日期", "价格"},
				Rows: [][]string{
					{"2018-01-02", "100"},
					{"2023-01-02", "110"},
				},
			},
			want: domain.KindUnknown,
		},
		{
			name: "many rows with short span stays unknown",
			table: &RawTable{
				Columns: []string{"日期", "价格"},
				Rows:    datedRows(150, 1, "100"),
			},
			want: domain.KindUnknown,
		},
		{
			name: "no recognizable signals",
			table: &RawTable{
				Columns: []string{"foo", "bar"},
				Rows:    [][]string{{"a", "b"}},
			},
			want: domain.KindUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewClassifier(NewFieldMapper())
			assert.Equal(t, tt.want, c.Classify(tt.table))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	table := &RawTable{
		Columns: []string{"日期", "结算价", "成交量"},
		Rows: [][]string{
			{"2023-01-02", "100", "900"},
			{"2023-06-30", "110", "800"},
		},
	}
	c := NewClassifier(NewFieldMapper())
	first := c.Classify(table)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, c.Classify(table))
	}
}
