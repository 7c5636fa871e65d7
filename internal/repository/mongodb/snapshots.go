package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

// GetInventorySnapshot reads the singleton inventory snapshot.
func (r *Repository) GetInventorySnapshot(ctx context.Context) (*models.InventorySnapshot, error) {
	var s models.InventorySnapshot
	err := r.db.Collection(inventoryColl).FindOne(ctx, bson.D{}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("inventory snapshot: %w", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get inventory snapshot: %w", err)
	}
	return &s, nil
}

// UpsertInventorySnapshot replaces every field of the singleton inventory
// snapshot, creating it on first write.
func (r *Repository) UpsertInventorySnapshot(ctx context.Context, s *models.InventorySnapshot) error {
	update := bson.M{"$set": bson.M{
		"categories":          s.Categories,
		"totalProducts":       s.TotalProducts,
		"revenue":             s.Revenue,
		"topSelling":          s.TopSelling,
		"topSellingCost":      s.TopSellingCost,
		"lowStocksOrdered":    s.LowStocksOrdered,
		"lowStocksNotInStock": s.LowStocksNotInStock,
		"lastUpdated":         s.LastUpdated,
	}}

	_, err := r.db.Collection(inventoryColl).UpdateOne(ctx, bson.D{}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert inventory snapshot: %w", err)
	}
	return nil
}

// GetOverallSnapshot reads the singleton overall-invoice snapshot.
func (r *Repository) GetOverallSnapshot(ctx context.Context) (*models.OverallInvoiceSnapshot, error) {
	var s models.OverallInvoiceSnapshot
	err := r.db.Collection(overallInvoicesColl).FindOne(ctx, bson.D{}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("overall invoice snapshot: %w", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get overall snapshot: %w", err)
	}
	return &s, nil
}

// UpsertOverallSnapshot rewrites the recomputed fields of the overall-invoice
// snapshot. recentTransactions is deliberately not part of the $set: it is an
// imperative counter owned by the payment path.
func (r *Repository) UpsertOverallSnapshot(ctx context.Context, s *models.OverallInvoiceSnapshot) error {
	update := bson.M{"$set": bson.M{
		"totalInvoices":     s.TotalInvoices,
		"processedInvoices": s.ProcessedInvoices,
		"paidAmount":        s.PaidAmount,
		"unpaidAmount":      s.UnpaidAmount,
		"customers":         s.Customers,
		"pendingPayments":   s.PendingPayments,
		"lastUpdated":       s.LastUpdated,
	}}

	_, err := r.db.Collection(overallInvoicesColl).UpdateOne(ctx, bson.D{}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert overall snapshot: %w", err)
	}
	return nil
}

// IncrementRecentTransactions bumps the payment counter on the overall-invoice
// snapshot, creating the singleton when it does not exist yet.
func (r *Repository) IncrementRecentTransactions(ctx context.Context) error {
	update := bson.M{"$inc": bson.M{"recentTransactions": 1}}
	_, err := r.db.Collection(overallInvoicesColl).UpdateOne(ctx, bson.D{}, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("increment recent transactions: %w", err)
	}
	return nil
}

// InsertSnapshotArchive stores a dated copy of the inventory snapshot. The
// archive feeds the week-over-week deltas on the inventory overview.
func (r *Repository) InsertSnapshotArchive(ctx context.Context, s *models.InventorySnapshot) error {
	archived := *s
	archived.ID = primitive.NilObjectID
	if _, err := r.db.Collection(inventoryHistoryColl).InsertOne(ctx, &archived); err != nil {
		return fmt.Errorf("archive inventory snapshot: %w", err)
	}
	return nil
}

// FindArchivedSnapshotBefore returns the most recent archived snapshot taken at
// or before the cutoff, or errs.ErrNotFound when none exists.
func (r *Repository) FindArchivedSnapshotBefore(ctx context.Context, cutoff time.Time) (*models.InventorySnapshot, error) {
	filter := bson.M{"lastUpdated": bson.M{"$lte": cutoff}}
	opts := options.FindOne().SetSort(bson.D{{Key: "lastUpdated", Value: -1}})

	var s models.InventorySnapshot
	err := r.db.Collection(inventoryHistoryColl).FindOne(ctx, filter, opts).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("archived snapshot before %s: %w", cutoff.Format(time.RFC3339), errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find archived snapshot: %w", err)
	}
	return &s, nil
}
