// Package metrics derives turnover metrics from inventory rows.
//
// Everything here is pure: inputs are never mutated and results depend only
// on the row being computed, so the functions are safe for concurrent use.
package metrics

import (
	"math"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

// Compute derives one MetricRecord per input record, preserving order.
func Compute(records []models.InventoryRecord) []models.MetricRecord {
	out := make([]models.MetricRecord, len(records))
	for i, record := range records {
		out[i] = computeOne(record)
	}
	return out
}

func computeOne(record models.InventoryRecord) models.MetricRecord {
	quantity := valueOrZero(record.Quantity)
	dailySales := valueOrZero(record.DailySales)

	turnover := 0.0
	if quantity != 0 {
		turnover = dailySales / quantity
	}

	days := math.Inf(1)
	if dailySales != 0 {
		days = quantity / dailySales
	}

	// Missing quantities count as zero stock and are flagged.
	return models.MetricRecord{
		InventoryRecord: copyRecord(record),
		StockTurnover:   turnover,
		DaysOfInventory: days,
		LowStock:        quantity < models.LowStockThreshold,
	}
}

// LowStock returns the computed rows flagged as low stock, in table order.
func LowStock(rows []models.MetricRecord) []models.MetricRecord {
	var low []models.MetricRecord
	for _, row := range rows {
		if row.LowStock {
			low = append(low, row)
		}
	}
	return low
}

// Summary aggregates a metrics table for the dashboard header.
type Summary struct {
	Items           int
	LowStockCount   int
	TotalQuantity   float64
	TotalDailySales float64
}

// Summarize totals a computed metrics table. Missing amounts count as zero.
func Summarize(rows []models.MetricRecord) Summary {
	s := Summary{Items: len(rows)}
	for _, row := range rows {
		if row.LowStock {
			s.LowStockCount++
		}
		s.TotalQuantity += valueOrZero(row.Quantity)
		s.TotalDailySales += valueOrZero(row.DailySales)
	}
	return s
}

func valueOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

func copyRecord(record models.InventoryRecord) models.InventoryRecord {
	out := models.InventoryRecord{Item: record.Item}
	if record.Quantity != nil {
		out.Quantity = models.Amount(*record.Quantity)
	}
	if record.DailySales != nil {
		out.DailySales = models.Amount(*record.DailySales)
	}
	return out
}
