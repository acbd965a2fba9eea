package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

const excelSheet = "Sheet1"

// Excel renders the metrics table as an xlsx workbook: a header row followed
// by one row per record, in the order given.
func Excel(rows []models.MetricRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	header := make([]interface{}, len(models.MetricColumns))
	for i, col := range models.MetricColumns {
		header[i] = col
	}
	if err := f.SetSheetRow(excelSheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(models.MetricColumns))
	if err := f.SetCellStyle(excelSheet, "A1", lastCol+"1", bold); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		values := excelRow(row)
		if err := f.SetSheetRow(excelSheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func excelRow(row models.MetricRecord) []interface{} {
	return []interface{}{
		row.Item,
		excelAmount(row.Quantity),
		excelAmount(row.DailySales),
		excelNumber(row.StockTurnover),
		excelNumber(row.DaysOfInventory),
		row.LowStock,
	}
}

// excelNumber keeps finite values numeric; xlsx has no infinity, so those
// are written as text.
func excelNumber(v float64) interface{} {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return models.FormatFloat(v)
	}
	return v
}

func excelAmount(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return excelNumber(*v)
}
