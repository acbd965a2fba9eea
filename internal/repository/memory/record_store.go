package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

// RecordStore is a process-lifetime RecordStore. Rows are copied on the way
// in and out so callers never share backing arrays with the store.
type RecordStore struct {
	mu   sync.RWMutex
	rows map[string][]models.InventoryRecord
}

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{rows: make(map[string][]models.InventoryRecord)}
}

// Get returns a copy of the owner's rows.
func (s *RecordStore) Get(_ context.Context, owner string) ([]models.InventoryRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, ok := s.rows[owner]
	if !ok {
		return nil, false, nil
	}
	return cloneRecords(rows), true, nil
}

// Append adds one row after the owner's existing rows.
func (s *RecordStore) Append(_ context.Context, owner string, record models.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[owner] = append(s.rows[owner], cloneRecord(record))
	return nil
}

// Replace swaps the owner's rows for the provided set.
func (s *RecordStore) Replace(_ context.Context, owner string, records []models.InventoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows[owner] = cloneRecords(records)
	return nil
}

// Owners lists owners with stored rows in lexical order.
func (s *RecordStore) Owners(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	owners := make([]string, 0, len(s.rows))
	for owner := range s.rows {
		owners = append(owners, owner)
	}
	sort.Strings(owners)
	return owners, nil
}

func cloneRecords(in []models.InventoryRecord) []models.InventoryRecord {
	out := make([]models.InventoryRecord, len(in))
	for i, r := range in {
		out[i] = cloneRecord(r)
	}
	return out
}

func cloneRecord(r models.InventoryRecord) models.InventoryRecord {
	out := models.InventoryRecord{Item: r.Item}
	if r.Quantity != nil {
		out.Quantity = models.Amount(*r.Quantity)
	}
	if r.DailySales != nil {
		out.DailySales = models.Amount(*r.DailySales)
	}
	return out
}
