package export

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository/sheets"
)

// ErrPublisherDisabled is returned when no spreadsheet is configured.
var ErrPublisherDisabled = errors.New("google sheets export is not configured")

// SheetsPublisher appends metrics tables to a shared spreadsheet, one row per
// record prefixed with the export time and owner.
type SheetsPublisher struct {
	repo       sheets.Repository
	sheetRange string
	logger     *zap.Logger
	now        func() time.Time
}

// NewSheetsPublisher builds a publisher. A nil repository yields a publisher
// that reports ErrPublisherDisabled.
func NewSheetsPublisher(repo sheets.Repository, sheetRange string, logger *zap.Logger) *SheetsPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SheetsPublisher{repo: repo, sheetRange: sheetRange, logger: logger, now: time.Now}
}

// Enabled reports whether a spreadsheet backend is wired.
func (p *SheetsPublisher) Enabled() bool {
	return p != nil && p.repo != nil
}

// Publish appends the owner's metrics table and returns the number of rows written.
func (p *SheetsPublisher) Publish(ctx context.Context, owner string, rows []models.MetricRecord) (int, error) {
	if !p.Enabled() {
		return 0, ErrPublisherDisabled
	}

	values := SheetRows(owner, p.now(), rows)
	if err := p.repo.AppendRows(ctx, p.sheetRange, values); err != nil {
		return 0, fmt.Errorf("publish metrics for %s: %w", owner, err)
	}

	p.logger.Info("metrics published to sheets", zap.String("owner", owner), zap.Int("rows", len(values)))
	return len(values), nil
}

// SheetRows converts a metrics table to spreadsheet values:
// exported_at, owner, then the MetricColumns in order.
func SheetRows(owner string, exportedAt time.Time, rows []models.MetricRecord) [][]interface{} {
	stamp := exportedAt.UTC().Format(time.RFC3339)
	out := make([][]interface{}, 0, len(rows))
	for _, row := range rows {
		values := []interface{}{stamp, owner}
		for _, v := range excelRow(row) {
			if v == nil {
				v = ""
			}
			values = append(values, v)
		}
		out = append(out, values)
	}
	return out
}
