// Package catalog manages product intake: direct entry, bulk import, listing
// and the bulk availability refresh. Every intake cascades an Unpaid invoice
// for the opening stock.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
	"github.com/inventra-io/inventra/internal/service/ident"
)

const invoiceDueAfter = 7 * 24 * time.Hour

// Store is the slice of the entity store the catalog needs.
type Store interface {
	InsertProduct(ctx context.Context, p *models.Product) error
	ListProducts(ctx context.Context) ([]models.Product, error)
	ReplaceProduct(ctx context.Context, p *models.Product) error
	InsertInvoice(ctx context.Context, inv *models.Invoice) error
}

// Recomputer triggers snapshot recomputation after stock-affecting batches.
type Recomputer interface {
	TriggerInventoryRecompute()
}

// Service wires product intake over the store and allocator.
type Service struct {
	store  Store
	alloc  *ident.Allocator
	stats  Recomputer
	logger *zap.Logger
	now    func() time.Time
}

// NewService builds a catalog service instance.
func NewService(store Store, alloc *ident.Allocator, stats Recomputer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, alloc: alloc, stats: stats, logger: logger, now: time.Now}
}

// ProductInput carries the caller-supplied fields for a new product.
type ProductInput struct {
	ProductName    string     `json:"productName" binding:"required"`
	Category       string     `json:"category" binding:"required"`
	Price          float64    `json:"price" binding:"required"`
	Quantity       int        `json:"quantity" binding:"required"`
	Unit           string     `json:"unit" binding:"required"`
	ExpiryDate     *time.Time `json:"expiryDate"`
	ThresholdValue int        `json:"thresholdValue"`
	ImageURL       string     `json:"imageUrl"`
}

func (s *Service) validate(input ProductInput) error {
	switch {
	case input.ProductName == "":
		return errs.Validation("productName", "is required")
	case input.Category == "":
		return errs.Validation("category", "is required")
	case input.Unit == "":
		return errs.Validation("unit", "is required")
	case input.Price <= 0:
		return errs.Validation("price", "must be greater than 0")
	case input.Quantity <= 0:
		return errs.Validation("quantity", "must be greater than 0")
	case input.ThresholdValue < 0:
		return errs.Validation("thresholdValue", "must not be negative")
	case input.ExpiryDate != nil && input.ExpiryDate.Before(s.now()):
		return errs.Validation("expiryDate", "must not be in the past")
	}
	return nil
}

// CreateProduct validates and persists a single product, then cascades an
// Unpaid invoice for the entered stock. A sequential-code race is retried once
// with a fresh allocation before surfacing.
func (s *Service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, *models.Invoice, error) {
	if err := s.validate(input); err != nil {
		return nil, nil, err
	}

	code, err := s.alloc.ProductCode(ctx)
	if err != nil {
		return nil, nil, err
	}
	product, err := s.insertProduct(ctx, input, code)
	if err != nil {
		return nil, nil, err
	}

	invoice := &models.Invoice{
		Products: []models.InvoiceLine{{
			ProductID:   product.ID,
			ProductName: product.ProductName,
			Quantity:    product.Quantity,
			Price:       product.Price,
		}},
		Amount:      product.Price * float64(product.Quantity),
		Status:      models.InvoiceStatusUnpaid,
		InvoiceDate: s.now(),
		DueDate:     s.now().Add(invoiceDueAfter),
		Customer: models.Customer{
			Name:    "Direct Entry Customer",
			Email:   "direct-entry@example.com",
			Address: "Added via single product form",
		},
	}
	if err := s.insertInvoice(ctx, invoice); err != nil {
		return nil, nil, err
	}

	return product, invoice, nil
}

// FailedImport reports a bulk-import row that could not be inserted.
type FailedImport struct {
	Input  ProductInput `json:"product"`
	Reason string       `json:"reason"`
}

// BulkImportResult summarizes a bulk import run.
type BulkImportResult struct {
	Products    []models.Product `json:"products"`
	Failed      []FailedImport   `json:"failedProducts"`
	Invoice     *models.Invoice  `json:"invoice"`
	TotalAmount float64          `json:"totalAmount"`
}

// BulkImport inserts a batch of products, skipping invalid rows, and writes one
// combined invoice covering everything that landed. Returns a validation error
// when nothing could be imported.
func (s *Service) BulkImport(ctx context.Context, inputs []ProductInput) (*BulkImportResult, error) {
	result := &BulkImportResult{}

	valid := make([]ProductInput, 0, len(inputs))
	for _, input := range inputs {
		if err := s.validate(input); err != nil {
			result.Failed = append(result.Failed, FailedImport{Input: input, Reason: err.Error()})
			continue
		}
		valid = append(valid, input)
	}
	if len(valid) == 0 {
		return result, errs.Validation("products", "no valid products in import")
	}

	codes, err := s.alloc.ProductCodes(ctx, len(valid))
	if err != nil {
		return result, err
	}

	for i, input := range valid {
		product, err := s.insertProduct(ctx, input, codes[i])
		if err != nil {
			s.logger.Warn("bulk import row failed", zap.String("product", input.ProductName), zap.Error(err))
			result.Failed = append(result.Failed, FailedImport{Input: input, Reason: err.Error()})
			continue
		}
		result.Products = append(result.Products, *product)
	}
	if len(result.Products) == 0 {
		return result, errs.Validation("products", "all products failed to import")
	}

	lines := make([]models.InvoiceLine, 0, len(result.Products))
	for _, p := range result.Products {
		lines = append(lines, models.InvoiceLine{
			ProductID:   p.ID,
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			Price:       p.Price,
		})
		result.TotalAmount += p.Price * float64(p.Quantity)
	}

	invoice := &models.Invoice{
		Products:    lines,
		Amount:      result.TotalAmount,
		Status:      models.InvoiceStatusUnpaid,
		InvoiceDate: s.now(),
		DueDate:     s.now().Add(invoiceDueAfter),
		Customer: models.Customer{
			Name:    "Bulk Import Customer",
			Email:   "bulk-import@example.com",
			Address: "Imported via bulk upload",
		},
	}
	if err := s.insertInvoice(ctx, invoice); err != nil {
		return result, err
	}
	result.Invoice = invoice

	s.stats.TriggerInventoryRecompute()
	return result, nil
}

// List returns every product, newest first.
func (s *Service) List(ctx context.Context) ([]models.Product, error) {
	return s.store.ListProducts(ctx)
}

// RefreshAvailability re-derives the availability label for every product and
// persists the results, then triggers an inventory snapshot recompute. Returns
// the number of products whose label or quantity changed.
func (s *Service) RefreshAvailability(ctx context.Context) (int, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	changed := 0
	for i := range products {
		p := &products[i]
		beforeQty, beforeAvail := p.Quantity, p.Availability

		p.RefreshAvailability(now)
		if err := s.store.ReplaceProduct(ctx, p); err != nil {
			return changed, err
		}
		if p.Quantity != beforeQty || p.Availability != beforeAvail {
			changed++
		}
	}

	s.stats.TriggerInventoryRecompute()
	return changed, nil
}

func (s *Service) insertProduct(ctx context.Context, input ProductInput, code string) (*models.Product, error) {
	product := &models.Product{
		ProductID:      code,
		ProductName:    input.ProductName,
		Category:       input.Category,
		Price:          input.Price,
		Quantity:       input.Quantity,
		Unit:           input.Unit,
		ExpiryDate:     input.ExpiryDate,
		ThresholdValue: input.ThresholdValue,
		ImageURL:       input.ImageURL,
		Availability:   models.AvailabilityInStock,
		CreatedAt:      s.now(),
	}

	err := s.store.InsertProduct(ctx, product)
	if errors.Is(err, errs.ErrDuplicateCode) {
		// Allocation raced another writer; one fresh allocation resolves it.
		if product.ProductID, err = s.alloc.ProductCode(ctx); err != nil {
			return nil, err
		}
		err = s.store.InsertProduct(ctx, product)
	}
	if err != nil {
		return nil, fmt.Errorf("insert product %s: %w", input.ProductName, err)
	}
	return product, nil
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
