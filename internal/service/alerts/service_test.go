package alerts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
	"github.com/mamadbah2/inventory-dashboard/internal/repository/memory"
	"github.com/mamadbah2/inventory-dashboard/internal/telemetry"
	"github.com/mamadbah2/inventory-dashboard/pkg/clients/alerting"
)

type fakeClient struct {
	sent    []alerting.LowStockNotification
	failFor map[string]error
}

func (f *fakeClient) SendLowStock(_ context.Context, req alerting.LowStockNotification) error {
	if err := f.failFor[req.Owner]; err != nil {
		return err
	}
	f.sent = append(f.sent, req)
	return nil
}

func seededStore(t *testing.T) *memory.RecordStore {
	t.Helper()
	ctx := context.Background()
	store := memory.NewRecordStore()

	require.NoError(t, store.Replace(ctx, "alice", []models.InventoryRecord{
		{Item: "bolts", Quantity: models.Amount(3), DailySales: models.Amount(1)},
		{Item: "nuts", Quantity: models.Amount(300), DailySales: models.Amount(1)},
		{Item: "washers", DailySales: models.Amount(0)},
	}))
	require.NoError(t, store.Replace(ctx, "bob", []models.InventoryRecord{
		{Item: "gears", Quantity: models.Amount(80), DailySales: models.Amount(2)},
	}))
	require.NoError(t, store.Replace(ctx, "carol", []models.InventoryRecord{
		{Item: "springs", Quantity: models.Amount(9), DailySales: models.Amount(3)},
	}))
	return store
}

var now = time.Date(2024, 6, 3, 8, 0, 0, 0, time.UTC)

func TestBuildDigest(t *testing.T) {
	svc := NewService(seededStore(t), &fakeClient{}, nil, nil)

	digest, err := svc.BuildDigest(context.Background(), now)
	require.NoError(t, err)

	require.Len(t, digest, 2)
	assert.Equal(t, "alice", digest[0].Owner)
	assert.Equal(t, []string{"bolts", "washers"}, digest[0].ItemNames())
	assert.Equal(t, now, digest[0].GeneratedAt)
	assert.Equal(t, "carol", digest[1].Owner)
}

func TestBuildDigest_EmptyStore(t *testing.T) {
	svc := NewService(memory.NewRecordStore(), &fakeClient{}, nil, nil)

	digest, err := svc.BuildDigest(context.Background(), now)
	require.NoError(t, err)
	assert.Empty(t, digest)
}

func TestDispatch(t *testing.T) {
	client := &fakeClient{}
	reg := telemetry.NewRegistry()
	svc := NewService(seededStore(t), client, reg, nil)

	sent, err := svc.Dispatch(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, client.sent, 2)

	first := client.sent[0]
	assert.Equal(t, "alice: 2 items below 10 units: bolts, washers", first.Text)
	require.Len(t, first.Items, 2)
	assert.Equal(t, "3", first.Items[0].DaysOfInventory)
	assert.Equal(t, "inf", first.Items[1].DaysOfInventory)
	assert.Equal(t, "carol: 1 item below 10 units: springs", client.sent[1].Text)

	assert.Equal(t, 2.0, testutil.ToFloat64(reg.AlertsSent))
}

func TestDispatch_ContinuesAfterFailure(t *testing.T) {
	boom := errors.New("webhook down")
	client := &fakeClient{failFor: map[string]error{"alice": boom}}
	svc := NewService(seededStore(t), client, nil, nil)

	sent, err := svc.Dispatch(context.Background(), now)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, sent)
	require.Len(t, client.sent, 1)
	assert.Equal(t, "carol", client.sent[0].Owner)
}
