package alerts

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository"
	"github.com/mamadbah2/inventory-dashboard/internal/service/metrics"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
	"github.com/mamadbah2/inventory-dashboard/pkg/clients/alerting"
)

// Service builds low-stock digests and hands them to the alerting client.
type Service struct {
	store     repository.RecordStore
	client    alerting.Client
	telemetry *telemetry.Registry
	logger    *zap.Logger
}

// NewService wires the alert service. telemetry may be nil.
func NewService(store repository.RecordStore, client alerting.Client, reg *telemetry.Registry, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, client: client, telemetry: reg, logger: logger}
}

// BuildDigest returns one alert per owner holding at least one low-stock row.
func (s *Service) BuildDigest(ctx context.Context, now time.Time) ([]models.LowStockAlert, error) {
	owners, err := s.store.Owners(ctx)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}

	var digest []models.LowStockAlert
	for _, owner := range owners {
		records, ok, err := s.store.Get(ctx, owner)
		if err != nil {
			return nil, fmt.Errorf("load inventory for %s: %w", owner, err)
		}
		if !ok {
			continue
		}

		low := metrics.LowStock(metrics.Compute(records))
		if len(low) == 0 {
			continue
		}
		digest = append(digest, models.LowStockAlert{Owner: owner, Items: low, GeneratedAt: now})
	}

	return digest, nil
}

// Dispatch sends the current digest and returns how many alerts were
// delivered. Every alert is attempted; the first failure is returned.
func (s *Service) Dispatch(ctx context.Context, now time.Time) (int, error) {
	digest, err := s.BuildDigest(ctx, now)
	if err != nil {
		return 0, err
	}

	var sent int
	var firstErr error
	for _, alert := range digest {
		if err := s.client.SendLowStock(ctx, Notification(alert)); err != nil {
			s.logger.Error("failed to send low stock alert", zap.String("owner", alert.Owner), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		sent++
		if s.telemetry != nil {
			s.telemetry.AlertsSent.Inc()
		}
	}

	s.logger.Info("low stock digest dispatched", zap.Int("owners", len(digest)), zap.Int("sent", sent))
	return sent, firstErr
}

// Notification converts an alert to the webhook payload.
func Notification(alert models.LowStockAlert) alerting.LowStockNotification {
	items := make([]alerting.LowStockItem, 0, len(alert.Items))
	for _, row := range alert.Items {
		items = append(items, alerting.LowStockItem{
			Item:            row.Item,
			Quantity:        row.Quantity,
			DailySales:      row.DailySales,
			DaysOfInventory: models.FormatFloat(row.DaysOfInventory),
		})
	}

	noun := "items"
	if len(items) == 1 {
		noun = "item"
	}

	return alerting.LowStockNotification{
		Owner:       alert.Owner,
		GeneratedAt: alert.GeneratedAt.UTC(),
		Text: fmt.Sprintf("%s: %d %s below %d units: %s",
			alert.Owner, len(items), noun, models.LowStockThreshold, strings.Join(alert.ItemNames(), ", ")),
		Items: items,
	}
}
