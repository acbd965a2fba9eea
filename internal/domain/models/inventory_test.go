package models

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{5, "5"},
		{0.4, "0.4"},
		{2.5, "2.5"},
		{1.0 / 3.0, "0.3333333333333333"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "", FormatAmount(nil))
	assert.Equal(t, "12", FormatAmount(Amount(12)))
}

func TestMetricRecord_Cells(t *testing.T) {
	row := MetricRecord{
		InventoryRecord: InventoryRecord{Item: "C", Quantity: Amount(50)},
		StockTurnover:   0,
		DaysOfInventory: math.Inf(1),
		LowStock:        false,
	}

	cells := row.Cells()
	assert.Len(t, cells, len(MetricColumns))
	assert.Equal(t, []string{"C", "50", "", "0", "inf", "false"}, cells)
}

func TestLowStockAlert_ItemNames(t *testing.T) {
	alert := LowStockAlert{Items: []MetricRecord{
		{InventoryRecord: InventoryRecord{Item: "bolts"}},
		{InventoryRecord: InventoryRecord{Item: "nuts"}},
	}}
	assert.Equal(t, []string{"bolts", "nuts"}, alert.ItemNames())
	assert.Empty(t, LowStockAlert{}.ItemNames())
}
