package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

// InsertInvoice persists a new invoice and fills in its store identity.
func (r *Repository) InsertInvoice(ctx context.Context, inv *models.Invoice) error {
	res, err := r.db.Collection(invoicesColl).InsertOne(ctx, inv)
	if err != nil {
		return translateWriteErr("insert invoice", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		inv.ID = id
	}
	return nil
}

// ListInvoices returns every invoice in insertion order.
func (r *Repository) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	cur, err := r.db.Collection(invoicesColl).Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}

	var invoices []models.Invoice
	if err := cur.All(ctx, &invoices); err != nil {
		return nil, fmt.Errorf("decode invoices: %w", err)
	}
	return invoices, nil
}

// FindInvoiceByCode resolves an invoice by its human-readable code.
func (r *Repository) FindInvoiceByCode(ctx context.Context, code string) (*models.Invoice, error) {
	var inv models.Invoice
	err := r.db.Collection(invoicesColl).FindOne(ctx, bson.M{"invoiceId": code}).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, fmt.Errorf("invoice %s: %w", code, errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find invoice %s: %w", code, err)
	}
	return &inv, nil
}

// ReplaceInvoice overwrites the stored invoice identified by inv.ID.
func (r *Repository) ReplaceInvoice(ctx context.Context, inv *models.Invoice) error {
	res, err := r.db.Collection(invoicesColl).ReplaceOne(ctx, bson.M{"_id": inv.ID}, inv)
	if err != nil {
		return translateWriteErr("replace invoice", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("replace invoice %s: %w", inv.InvoiceID, errs.ErrNotFound)
	}
	return nil
}

// DeleteInvoiceByCode removes an invoice by its human-readable code.
func (r *Repository) DeleteInvoiceByCode(ctx context.Context, code string) error {
	res, err := r.db.Collection(invoicesColl).DeleteOne(ctx, bson.M{"invoiceId": code})
	if err != nil {
		return fmt.Errorf("delete invoice %s: %w", code, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete invoice %s: %w", code, errs.ErrNotFound)
	}
	return nil
}

// LastInvoiceCode returns the code of the most recently inserted invoice, or the
// empty string when no invoice exists. Insertion order stands in for code order
// since invoice numbers only ever grow.
func (r *Repository) LastInvoiceCode(ctx context.Context) (string, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "_id", Value: -1}})
	var inv models.Invoice
	err := r.db.Collection(invoicesColl).FindOne(ctx, bson.D{}, opts).Decode(&inv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("last invoice code: %w", err)
	}
	return inv.InvoiceID, nil
}
