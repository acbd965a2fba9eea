package export

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

// Fixed cell geometry in millimetres.
const (
	pdfCellWidth  = 40.0
	pdfCellHeight = 10.0
)

// PDF renders the metrics table as a bordered grid on landscape A4 pages.
// The header row is printed first and repeated at the top of every page.
func PDF(rows []models.MetricRecord) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Inventory metrics", true)
	pdf.SetFont("Arial", "", 12)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFuncMode(func() {
		pdf.SetFont("Arial", "B", 12)
		for _, col := range models.MetricColumns {
			pdf.CellFormat(pdfCellWidth, pdfCellHeight, tr(col), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 12)
	}, true)

	pdf.AddPage()
	for _, row := range rows {
		for _, cell := range row.Cells() {
			pdf.CellFormat(pdfCellWidth, pdfCellHeight, tr(cell), "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
