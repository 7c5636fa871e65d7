// Package ledger applies stock-affecting mutations and their invoice side
// effects: ordering units off a product, marking invoices paid and deleting
// them.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
	"github.com/inventra-io/inventra/internal/service/ident"
)

const invoiceDueAfter = 7 * 24 * time.Hour

// Store is the slice of the entity store the ledger needs.
type Store interface {
	FindProductByCode(ctx context.Context, code string) (*models.Product, error)
	FindProductByID(ctx context.Context, id primitive.ObjectID) (*models.Product, error)
	ApplyOrder(ctx context.Context, id primitive.ObjectID, qty int) (*models.Product, error)
	SetProductAvailability(ctx context.Context, id primitive.ObjectID, availability string, zeroQuantity bool) error
	ReplaceProduct(ctx context.Context, p *models.Product) error
	InsertInvoice(ctx context.Context, inv *models.Invoice) error
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	FindInvoiceByCode(ctx context.Context, code string) (*models.Invoice, error)
	ReplaceInvoice(ctx context.Context, inv *models.Invoice) error
	DeleteInvoiceByCode(ctx context.Context, code string) error
	IncrementRecentTransactions(ctx context.Context) error
}

// Recomputer is the aggregator surface the ledger triggers after mutations.
// Recompute failures never fail the already-committed ledger operation.
type Recomputer interface {
	TriggerInventoryRecompute()
	RecomputeOverallSnapshot(ctx context.Context) (*models.OverallInvoiceSnapshot, error)
}

// Service applies orders and invoice state transitions.
type Service struct {
	store           Store
	alloc           *ident.Allocator
	stats           Recomputer
	logger          *zap.Logger
	now             func() time.Time
	restockOnDelete bool
}

// NewService builds a ledger service instance. restockOnDelete enables stock
// compensation when invoices are deleted; the default behavior treats deletion
// as a permanent write-off.
func NewService(store Store, alloc *ident.Allocator, stats Recomputer, restockOnDelete bool, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:           store,
		alloc:           alloc,
		stats:           stats,
		logger:          logger,
		now:             time.Now,
		restockOnDelete: restockOnDelete,
	}
}

// OrderedProduct is the post-order product summary returned to the caller.
type OrderedProduct struct {
	ProductID         string `json:"productId"`
	Name              string `json:"name"`
	RemainingQuantity int    `json:"remainingQuantity"`
	Availability      string `json:"availability"`
	Sold              int    `json:"sold"`
}

// OrderedInvoice is the created-invoice summary returned to the caller.
type OrderedInvoice struct {
	InvoiceID string    `json:"invoiceId"`
	Amount    float64   `json:"amount"`
	Status    string    `json:"status"`
	DueDate   time.Time `json:"dueDate"`
}

// OrderResult pairs the two summaries produced by a successful order.
type OrderResult struct {
	Product OrderedProduct `json:"product"`
	Invoice OrderedInvoice `json:"invoice"`
}

// Order sells qty units of a product, resolved by store identity hex or by its
// human-readable code: the quantity is decremented and sold incremented in one
// conditional store write, the availability label is re-derived and written as
// a field-level update, and a single-line Unpaid walk-in invoice is created.
// The inventory snapshot recompute is scheduled asynchronously.
func (s *Service) Order(ctx context.Context, productRef string, qty int) (*OrderResult, error) {
	if qty <= 0 {
		return nil, errs.Validation("quantity", "must be greater than 0")
	}

	product, err := s.findProduct(ctx, productRef)
	if err != nil {
		return nil, err
	}
	if product.Quantity < qty {
		return nil, &errs.InsufficientStockError{Available: product.Quantity}
	}

	updated, err := s.store.ApplyOrder(ctx, product.ID, qty)
	if err != nil {
		// The conditional write misses only when a concurrent order drained the
		// stock between the read above and this write.
		if errors.Is(err, errs.ErrNotFound) {
			if current, ferr := s.findProduct(ctx, productRef); ferr == nil {
				return nil, &errs.InsufficientStockError{Available: current.Quantity}
			}
		}
		return nil, err
	}

	// Only the derived label is written back, plus the forced-zero quantity for
	// expired stock. A full replace here would erase a concurrent order's
	// decrement.
	now := s.now()
	expired := updated.ExpiryDate != nil && updated.ExpiryDate.Before(now)
	updated.RefreshAvailability(now)
	if err := s.store.SetProductAvailability(ctx, updated.ID, updated.Availability, expired); err != nil {
		return nil, err
	}

	invoice := &models.Invoice{
		Products: []models.InvoiceLine{{
			ProductID:   updated.ID,
			ProductName: updated.ProductName,
			Quantity:    qty,
			Price:       updated.Price,
			Unit:        updated.Unit,
		}},
		Amount:      updated.Price * float64(qty),
		Status:      models.InvoiceStatusUnpaid,
		InvoiceDate: s.now(),
		DueDate:     s.now().Add(invoiceDueAfter),
		Customer:    models.Customer{Name: "Walk-in Customer", Email: "N/A", Address: "N/A"},
	}
	if err := s.insertInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	s.stats.TriggerInventoryRecompute()

	return &OrderResult{
		Product: OrderedProduct{
			ProductID:         updated.ProductID,
			Name:              updated.ProductName,
			RemainingQuantity: updated.Quantity,
			Availability:      updated.Availability,
			Sold:              updated.Sold,
		},
		Invoice: OrderedInvoice{
			InvoiceID: invoice.InvoiceID,
			Amount:    invoice.Amount,
			Status:    invoice.Status,
			DueDate:   invoice.DueDate,
		},
	}, nil
}

// MarkPaid transitions an invoice from Unpaid to Paid exactly once, stamps a
// display-only payment reference, bumps the recent-transactions counter and
// recomputes the overall snapshot.
func (s *Service) MarkPaid(ctx context.Context, invoiceCode string) (*models.Invoice, error) {
	invoice, err := s.store.FindInvoiceByCode(ctx, invoiceCode)
	if err != nil {
		return nil, err
	}
	if invoice.Status == models.InvoiceStatusPaid {
		return nil, fmt.Errorf("invoice %s: %w", invoiceCode, errs.ErrAlreadyPaid)
	}

	invoice.Status = models.InvoiceStatusPaid
	invoice.ReferenceNumber = paymentReference(s.now())
	if err := s.store.ReplaceInvoice(ctx, invoice); err != nil {
		return nil, err
	}

	if err := s.store.IncrementRecentTransactions(ctx); err != nil {
		s.logger.Warn("recent transactions increment failed", zap.String("invoice", invoiceCode), zap.Error(err))
	}
	s.recomputeOverall(ctx)

	return invoice, nil
}

// Delete removes an invoice and recomputes the overall snapshot. Sold units are
// only returned to inventory when restock-on-delete is enabled.
func (s *Service) Delete(ctx context.Context, invoiceCode string) (*models.Invoice, error) {
	invoice, err := s.store.FindInvoiceByCode(ctx, invoiceCode)
	if err != nil {
		return nil, err
	}

	if s.restockOnDelete {
		s.restock(ctx, invoice)
	}

	if err := s.store.DeleteInvoiceByCode(ctx, invoiceCode); err != nil {
		return nil, err
	}
	s.recomputeOverall(ctx)

	return invoice, nil
}

// findProduct resolves an order target. Callers may pass either the store
// identity hex or the sequential product code.
func (s *Service) findProduct(ctx context.Context, ref string) (*models.Product, error) {
	if id, err := primitive.ObjectIDFromHex(ref); err == nil {
		return s.store.FindProductByID(ctx, id)
	}
	return s.store.FindProductByCode(ctx, ref)
}

// Get resolves an invoice by its code.
func (s *Service) Get(ctx context.Context, invoiceCode string) (*models.Invoice, error) {
	return s.store.FindInvoiceByCode(ctx, invoiceCode)
}

// List returns every invoice.
func (s *Service) List(ctx context.Context) ([]models.Invoice, error) {
	return s.store.ListInvoices(ctx)
}

func (s *Service) restock(ctx context.Context, invoice *models.Invoice) {
	for _, line := range invoice.Products {
		product, err := s.store.FindProductByID(ctx, line.ProductID)
		if err != nil {
			s.logger.Warn("restock skipped, product missing",
				zap.String("invoice", invoice.InvoiceID), zap.String("product", line.ProductName))
			continue
		}

		product.Quantity += line.Quantity
		product.Sold -= line.Quantity
		if product.Sold < 0 {
			product.Sold = 0
		}
		product.RefreshAvailability(s.now())

		if err := s.store.ReplaceProduct(ctx, product); err != nil {
			s.logger.Error("restock write failed",
				zap.String("invoice", invoice.InvoiceID), zap.String("product", product.ProductID), zap.Error(err))
		}
	}
	s.stats.TriggerInventoryRecompute()
}

func (s *Service) recomputeOverall(ctx context.Context) {
	if _, err := s.stats.RecomputeOverallSnapshot(ctx); err != nil {
		s.logger.Error("overall snapshot recompute failed", zap.Error(err))
	}
}

func (s *Service) insertInvoice(ctx context.Context, invoice *models.Invoice) error {
	code, err := s.alloc.InvoiceCode(ctx)
	if err != nil {
		return err
	}
	invoice.InvoiceID = code

	err = s.store.InsertInvoice(ctx, invoice)
	if errors.Is(err, errs.ErrDuplicateCode) {
		if invoice.InvoiceID, err = s.alloc.InvoiceCode(ctx); err != nil {
			return err
		}
		err = s.store.InsertInvoice(ctx, invoice)
	}
	if err != nil {
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// paymentReference builds the display-only payment code. It is time-based with
// a random suffix and carries no uniqueness guarantee.
func paymentReference(now time.Time) string {
	return fmt.Sprintf("REF-%d-%d", now.UnixMilli(), 1000+rand.IntN(9000))
}
