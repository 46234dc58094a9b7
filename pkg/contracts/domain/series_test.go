package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNullFloatJSON(t *testing.T) {
	tests := []struct {
		name  string
		value NullFloat
		json  string
	}{
		{name: "present value", value: Float(42.5), json: "42.5"},
		{name: "present zero", value: Float(0), json: "0"},
		{name: "absent", value: Null(), json: "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := json.Marshal(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.json, string(data))

			var decoded NullFloat
			require.NoError(t, json.Unmarshal(data, &decoded))
			assert.Equal(t, tt.value, decoded)
		})
	}
}

func TestNullFloatSub(t *testing.T) {
	assert.Equal(t, Float(3), Float(10).Sub(Float(7)))
	assert.Equal(t, Null(), Float(10).Sub(Null()))
	assert.Equal(t, Null(), Null().Sub(Float(7)))
	assert.Equal(t, Null(), Null().Sub(Null()))
}

func TestSeriesAccessors(t *testing.T) {
	series := &Series{
		Dates:  []time.Time{day(2023, 1, 2), day(2023, 1, 3), day(2023, 1, 4)},
		Prices: []NullFloat{Float(100), Null(), Float(102)},
	}

	assert.Equal(t, 3, series.Len())
	assert.Equal(t, 2, series.ValidPrices())

	start, end := series.DateRange()
	assert.Equal(t, day(2023, 1, 2), start)
	assert.Equal(t, day(2023, 1, 4), end)

	price, ok := series.PriceAt(day(2023, 1, 4))
	require.True(t, ok)
	assert.Equal(t, Float(102), price)

	_, ok = series.PriceAt(day(2023, 1, 5))
	assert.False(t, ok)
}

func TestSeriesNilSafety(t *testing.T) {
	var series *Series
	assert.Equal(t, 0, series.Len())
	assert.Equal(t, 0, series.ValidPrices())
}
