package models

import (
	"math"
	"strconv"
	"time"
)

// LowStockThreshold is the quantity below which an item is flagged as low stock.
const LowStockThreshold = 10

// MetricColumns is the column order of every rendered or exported metrics table.
var MetricColumns = []string{
	"item",
	"quantity",
	"daily_sales",
	"stock_turnover",
	"days_of_inventory",
	"low_stock",
}

// InventoryRecord is one uploaded inventory row. A nil amount means the value
// was missing at ingestion; non-nil amounts are finite and non-negative.
type InventoryRecord struct {
	Item       string   `bson:"item" json:"item"`
	Quantity   *float64 `bson:"quantity,omitempty" json:"quantity,omitempty"`
	DailySales *float64 `bson:"daily_sales,omitempty" json:"daily_sales,omitempty"`
}

// Amount returns a pointer to v, for building records by hand.
func Amount(v float64) *float64 {
	return &v
}

// MetricRecord is an InventoryRecord with its derived turnover metrics.
type MetricRecord struct {
	InventoryRecord

	StockTurnover   float64
	DaysOfInventory float64
	LowStock        bool
}

// Cells renders the record as strings in MetricColumns order.
func (m MetricRecord) Cells() []string {
	return []string{
		m.Item,
		FormatAmount(m.Quantity),
		FormatAmount(m.DailySales),
		FormatFloat(m.StockTurnover),
		FormatFloat(m.DaysOfInventory),
		strconv.FormatBool(m.LowStock),
	}
}

// FormatFloat renders v in its shortest form, with "inf" for infinities.
func FormatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAmount renders an optional amount, empty when it is missing.
func FormatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatFloat(*v)
}

// LowStockAlert groups the low-stock items of one owner for a notification.
type LowStockAlert struct {
	Owner       string         `json:"owner"`
	Items       []MetricRecord `json:"-"`
	GeneratedAt time.Time      `json:"generated_at"`
}

// ItemNames lists the names of the alerted items in table order.
func (a LowStockAlert) ItemNames() []string {
	names := make([]string, 0, len(a.Items))
	for _, item := range a.Items {
		names = append(names, item.Item)
	}
	return names
}
