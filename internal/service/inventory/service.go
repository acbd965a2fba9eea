package inventory

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
	"github.com/mamadbah2/inventory-dashboard/internal/service/metrics"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
)

// Upload sources, also used as metric labels.
const (
	SourceCSV    = "csv"
	SourceManual = "manual"
)

// Service ingests inventory rows and serves computed metrics per owner.
type Service struct {
	store     repository.RecordStore
	telemetry *telemetry.Registry
	logger    *zap.Logger
}

// NewService wires the inventory service. telemetry may be nil.
func NewService(store repository.RecordStore, reg *telemetry.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, telemetry: reg, logger: logger}
}

// UploadCSV parses a CSV document and replaces the owner's rows with it.
func (s *Service) UploadCSV(ctx context.Context, owner string, r io.Reader) (int, error) {
	records, err := ParseCSV(r)
	if err != nil {
		return 0, err
	}

	if err := s.store.Replace(ctx, owner, records); err != nil {
		return 0, fmt.Errorf("store csv upload: %w", err)
	}

	s.observe(SourceCSV, len(records))
	s.logger.Info("inventory csv uploaded", zap.String("owner", owner), zap.Int("rows", len(records)))
	return len(records), nil
}

// AddItem coerces a manually entered row and appends it to the owner's rows.
func (s *Service) AddItem(ctx context.Context, owner, item, quantity, dailySales string) (models.InventoryRecord, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return models.InventoryRecord{}, ErrMissingItem
	}

	qty, err := ParseAmount(quantity)
	if err != nil {
		return models.InventoryRecord{}, &RowError{Line: 1, Column: ColumnQuantity, Value: quantity, Err: err}
	}
	sales, err := ParseAmount(dailySales)
	if err != nil {
		return models.InventoryRecord{}, &RowError{Line: 1, Column: ColumnDailySales, Value: dailySales, Err: err}
	}

	record := models.InventoryRecord{Item: item, Quantity: qty, DailySales: sales}
	if err := s.store.Append(ctx, owner, record); err != nil {
		return models.InventoryRecord{}, fmt.Errorf("store manual entry: %w", err)
	}

	s.observe(SourceManual, 1)
	s.logger.Debug("inventory item added", zap.String("owner", owner), zap.String("item", item))
	return record, nil
}

// Metrics loads the owner's rows and computes their metrics. ok is false when
// the owner has not uploaded anything yet.
func (s *Service) Metrics(ctx context.Context, owner string) ([]models.MetricRecord, bool, error) {
	records, ok, err := s.store.Get(ctx, owner)
	if err != nil {
		return nil, false, fmt.Errorf("load inventory: %w", err)
	}
	if !ok {
		return nil, false, nil
	}
	return metrics.Compute(records), true, nil
}

func (s *Service) observe(source string, rows int) {
	if s.telemetry == nil {
		return
	}
	s.telemetry.Uploads.WithLabelValues(source).Inc()
	s.telemetry.RowsIngested.Add(float64(rows))
}
