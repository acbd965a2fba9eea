package export

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/service/metrics"
)

func sampleRows() []models.MetricRecord {
	return metrics.Compute([]models.InventoryRecord{
		{Item: "A", Quantity: models.Amount(5), DailySales: models.Amount(2)},
		{Item: "B", Quantity: models.Amount(0), DailySales: models.Amount(3)},
		{Item: "C", Quantity: models.Amount(50), DailySales: models.Amount(0)},
		{Item: "Crème", DailySales: models.Amount(1)},
	})
}

func TestExcel(t *testing.T) {
	data, err := Excel(sampleRows())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(excelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 5)

	assert.Equal(t, models.MetricColumns, rows[0])
	assert.Equal(t, []string{"A", "5", "2", "0.4", "2.5", "TRUE"}, rows[1])
	assert.Equal(t, []string{"B", "0", "3", "0", "0", "TRUE"}, rows[2])
	assert.Equal(t, []string{"C", "50", "0", "0", "inf", "FALSE"}, rows[3])
	assert.Equal(t, "Crème", rows[4][0])
	assert.Equal(t, "", rows[4][1])

	// Finite metrics stay numeric; infinity is text.
	typ, err := f.GetCellType(excelSheet, "D2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	typ, err = f.GetCellType(excelSheet, "E4")
	require.NoError(t, err)
	assert.Equal(t, excelize.CellTypeSharedString, typ)
}

func TestExcel_EmptyTable(t *testing.T) {
	data, err := Excel(nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(excelSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, models.MetricColumns, rows[0])
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleRows())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, 1, pageCount(data))
}

func TestPDF_Paginates(t *testing.T) {
	records := make([]models.InventoryRecord, 60)
	for i := range records {
		records[i] = models.InventoryRecord{Item: "item", Quantity: models.Amount(float64(i)), DailySales: models.Amount(1)}
	}

	data, err := PDF(metrics.Compute(records))
	require.NoError(t, err)

	// 61 rows of 10mm on a 210mm landscape page with default margins need several pages.
	assert.Greater(t, pageCount(data), 1)
}

func pageCount(pdf []byte) int {
	return strings.Count(string(pdf), "/Type /Page\n")
}

type recordingSheets struct {
	sheetRange string
	rows       [][]interface{}
	err        error
}

func (r *recordingSheets) AppendRows(_ context.Context, sheetRange string, rows [][]interface{}) error {
	r.sheetRange = sheetRange
	r.rows = rows
	return r.err
}

func TestSheetRows(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("X", 3600))
	out := SheetRows("alice", at, sampleRows())

	require.Len(t, out, 4)
	assert.Equal(t, []interface{}{"2024-03-01T11:00:00Z", "alice", "A", 5.0, 2.0, 0.4, 2.5, true}, out[0])
	assert.Equal(t, "inf", out[2][6])
	assert.Equal(t, "", out[3][3])
}

func TestSheetsPublisher(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		p := NewSheetsPublisher(nil, "Metrics!A:H", nil)
		assert.False(t, p.Enabled())

		_, err := p.Publish(ctx, "alice", sampleRows())
		assert.ErrorIs(t, err, ErrPublisherDisabled)
	})

	t.Run("publishes rows", func(t *testing.T) {
		repo := &recordingSheets{}
		p := NewSheetsPublisher(repo, "Metrics!A:H", nil)

		n, err := p.Publish(ctx, "alice", sampleRows())
		require.NoError(t, err)
		assert.Equal(t, 4, n)
		assert.Equal(t, "Metrics!A:H", repo.sheetRange)
		assert.Len(t, repo.rows, 4)
	})

	t.Run("wraps backend errors", func(t *testing.T) {
		boom := errors.New("quota")
		p := NewSheetsPublisher(&recordingSheets{err: boom}, "Metrics!A:H", nil)

		_, err := p.Publish(ctx, "alice", sampleRows())
		assert.ErrorIs(t, err, boom)
	})
}
