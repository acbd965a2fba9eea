package mongodb

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/inventory-dashboard/internal/domain/models"
)

// inventoryDocument stores all rows of one owner, keyed by the owner.
type inventoryDocument struct {
	Owner     string                   `bson:"_id"`
	Records   []models.InventoryRecord `bson:"records"`
	UpdatedAt time.Time                `bson:"updated_at"`
}

// RecordRepository implements repository.RecordStore on a MongoDB collection.
type RecordRepository struct {
	coll *mongo.Collection
	now  func() time.Time
}

// NewRecordRepository wraps the provided collection.
func NewRecordRepository(coll *mongo.Collection) *RecordRepository {
	return &RecordRepository{coll: coll, now: time.Now}
}

// Get loads the owner's rows.
func (r *RecordRepository) Get(ctx context.Context, owner string) ([]models.InventoryRecord, bool, error) {
	var doc inventoryDocument
	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: owner}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load inventory for %s: %w", owner, err)
	}

	if doc.Records == nil {
		doc.Records = []models.InventoryRecord{}
	}
	return doc.Records, true, nil
}

// Append pushes one row onto the owner's document, creating it when needed.
func (r *RecordRepository) Append(ctx context.Context, owner string, record models.InventoryRecord) error {
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "records", Value: record}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: r.now().UTC()}}},
	}

	_, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: owner}}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("append inventory row for %s: %w", owner, err)
	}
	return nil
}

// Replace overwrites the owner's rows.
func (r *RecordRepository) Replace(ctx context.Context, owner string, records []models.InventoryRecord) error {
	if records == nil {
		records = []models.InventoryRecord{}
	}
	doc := inventoryDocument{Owner: owner, Records: records, UpdatedAt: r.now().UTC()}

	_, err := r.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: owner}}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace inventory for %s: %w", owner, err)
	}
	return nil
}

// Owners lists the owners that have an inventory document, sorted.
func (r *RecordRepository) Owners(ctx context.Context) ([]string, error) {
	values, err := r.coll.Distinct(ctx, "_id", bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list inventory owners: %w", err)
	}

	owners := make([]string, 0, len(values))
	for _, v := range values {
		if owner, ok := v.(string); ok {
			owners = append(owners, owner)
		}
	}
	sort.Strings(owners)
	return owners, nil
}
