package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventra-io/inventra/internal/domain/errs"
)

const (
	productsColl         = "products"
	invoicesColl         = "invoices"
	inventoryColl        = "inventory"
	overallInvoicesColl  = "overall_invoices"
	inventoryHistoryColl = "inventory_history"
	adminsColl           = "admins"
)

// Repository is the MongoDB-backed entity store for products, invoices,
// snapshot singletons and admin accounts.
type Repository struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewRepository connects to MongoDB, verifies the connection and ensures the
// uniqueness indexes the sequential-code allocator relies on.
func NewRepository(ctx context.Context, uri string, dbName string) (*Repository, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongodb: %v: %w", err, errs.ErrStoreUnavailable)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %v: %w", err, errs.ErrStoreUnavailable)
	}

	r := &Repository{client: client, db: client.Database(dbName)}
	if err := r.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Repository) ensureIndexes(ctx context.Context) error {
	_, err := r.db.Collection(productsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "productId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure productId index: %w", err)
	}

	_, err = r.db.Collection(invoicesColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "invoiceId", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure invoiceId index: %w", err)
	}

	_, err = r.db.Collection(adminsColl).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("ensure admin email index: %w", err)
	}

	return nil
}

// Close disconnects the underlying client.
func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// translateWriteErr maps driver write failures onto the domain taxonomy.
func translateWriteErr(op string, err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%s: %w", op, errs.ErrDuplicateCode)
	}
	return fmt.Errorf("%s: %w", op, err)
}
