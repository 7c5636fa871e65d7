// Package stats recomputes the derived snapshot singletons and dashboard views
// from full product/invoice scans. There is no incremental update path: every
// recomputation is a pure function of the current entity sets, so replaying it
// converges to the same result.
package stats

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

const (
	recomputeDelay   = time.Second
	recomputeTimeout = 30 * time.Second
	deltaWindow      = 7 * 24 * time.Hour
)

// Store is the slice of the entity store the aggregator reads and writes.
type Store interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	UpsertInventorySnapshot(ctx context.Context, s *models.InventorySnapshot) error
	GetOverallSnapshot(ctx context.Context) (*models.OverallInvoiceSnapshot, error)
	UpsertOverallSnapshot(ctx context.Context, s *models.OverallInvoiceSnapshot) error
	InsertSnapshotArchive(ctx context.Context, s *models.InventorySnapshot) error
	FindArchivedSnapshotBefore(ctx context.Context, cutoff time.Time) (*models.InventorySnapshot, error)
}

// Service owns the two snapshot singletons. Each recomputation runs under its
// own mutex; the snapshots are caches and must stay reproducible from the
// product/invoice records alone.
type Service struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
	delay  time.Duration

	inventoryMu sync.Mutex
	overallMu   sync.Mutex
}

// NewService wires a new aggregator instance.
func NewService(store Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		store:  store,
		logger: logger,
		now:    time.Now,
		delay:  recomputeDelay,
	}
}

// RecomputeInventorySnapshot rebuilds the inventory singleton from a full
// product scan and upserts it in place.
func (s *Service) RecomputeInventorySnapshot(ctx context.Context) (*models.InventorySnapshot, error) {
	s.inventoryMu.Lock()
	defer s.inventoryMu.Unlock()

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := buildInventorySnapshot(products, s.now())
	if err := s.store.UpsertInventorySnapshot(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}

func buildInventorySnapshot(products []models.Product, now time.Time) *models.InventorySnapshot {
	categories := make(map[string]struct{})
	snapshot := &models.InventorySnapshot{
		TotalProducts: len(products),
		LastUpdated:   now,
	}

	// Top seller by sold units; ties keep the first-encountered product and
	// nothing-sold stores report zero.
	var topSold int
	var topPrice float64

	for _, p := range products {
		categories[p.Category] = struct{}{}
		snapshot.Revenue += float64(p.Sold) * p.Price

		if p.Sold > topSold {
			topSold = p.Sold
			topPrice = p.Price
		}

		switch {
		case p.Quantity == 0:
			snapshot.LowStocksNotInStock++
		case p.Quantity < p.ThresholdValue:
			snapshot.LowStocksOrdered++
		}
	}

	snapshot.Categories = len(categories)
	snapshot.TopSelling = topSold
	snapshot.TopSellingCost = float64(topSold) * topPrice
	return snapshot
}

// RecomputeOverallSnapshot rebuilds the overall-invoice singleton from a full
// invoice scan. The recentTransactions counter is preserved untouched.
func (s *Service) RecomputeOverallSnapshot(ctx context.Context) (*models.OverallInvoiceSnapshot, error) {
	s.overallMu.Lock()
	defer s.overallMu.Unlock()

	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := buildOverallSnapshot(invoices, s.now())
	if err := s.store.UpsertOverallSnapshot(ctx, snapshot); err != nil {
		return nil, err
	}

	// Read back so the caller sees the imperative counter as well.
	stored, err := s.store.GetOverallSnapshot(ctx)
	if err != nil {
		return snapshot, nil
	}
	return stored, nil
}

func buildOverallSnapshot(invoices []models.Invoice, now time.Time) *models.OverallInvoiceSnapshot {
	customers := make(map[string]struct{})
	snapshot := &models.OverallInvoiceSnapshot{
		TotalInvoices: len(invoices),
		LastUpdated:   now,
	}

	for _, inv := range invoices {
		if inv.Customer.Name != "" {
			customers[inv.Customer.Name] = struct{}{}
		}
		if inv.Status == models.InvoiceStatusPaid {
			snapshot.ProcessedInvoices++
			snapshot.PaidAmount += inv.Amount
		} else {
			snapshot.PendingPayments++
			snapshot.UnpaidAmount += inv.Amount
		}
	}

	snapshot.Customers = len(customers)
	return snapshot
}

// OverallSnapshot reads the stored overall-invoice snapshot without
// recomputing it.
func (s *Service) OverallSnapshot(ctx context.Context) (*models.OverallInvoiceSnapshot, error) {
	return s.store.GetOverallSnapshot(ctx)
}

// TriggerInventoryRecompute schedules an asynchronous inventory snapshot
// recomputation. The triggering operation has already committed, so failures
// are logged and swallowed.
func (s *Service) TriggerInventoryRecompute() {
	time.AfterFunc(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()

		if _, err := s.RecomputeInventorySnapshot(ctx); err != nil {
			s.logger.Error("deferred inventory snapshot recompute failed", zap.Error(err))
		}
	})
}

// TriggerOverallRecompute schedules an asynchronous overall-invoice snapshot
// recomputation with the same swallow-on-failure policy.
func (s *Service) TriggerOverallRecompute() {
	time.AfterFunc(s.delay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), recomputeTimeout)
		defer cancel()

		if _, err := s.RecomputeOverallSnapshot(ctx); err != nil {
			s.logger.Error("deferred overall snapshot recompute failed", zap.Error(err))
		}
	})
}

// InventoryOverview is the inventory snapshot extended with week-over-week
// deltas against the newest archived snapshot at least seven days old.
// ProductSoldDifference and ProductInStockDifference alias the revenue and
// total-product deltas under the key names the statistics page reads.
type InventoryOverview struct {
	models.InventorySnapshot
	RevenueDifference        float64 `json:"revenueDifference"`
	TotalProductsDifference  int     `json:"totalProductsDifference"`
	LowStocksDifference      int     `json:"lowStocksDifference"`
	ProductSoldDifference    float64 `json:"productSoldDifference"`
	ProductInStockDifference int     `json:"productInStockDifference"`
}

// Overview recomputes the inventory snapshot and attaches the weekly deltas.
// Deltas are zero when no archive exists yet.
func (s *Service) Overview(ctx context.Context) (*InventoryOverview, error) {
	snapshot, err := s.RecomputeInventorySnapshot(ctx)
	if err != nil {
		return nil, err
	}

	overview := &InventoryOverview{InventorySnapshot: *snapshot}

	past, err := s.store.FindArchivedSnapshotBefore(ctx, s.now().Add(-deltaWindow))
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) {
			s.logger.Warn("archived snapshot lookup failed", zap.Error(err))
		}
		return overview, nil
	}

	overview.RevenueDifference = snapshot.Revenue - past.Revenue
	overview.TotalProductsDifference = snapshot.TotalProducts - past.TotalProducts
	overview.LowStocksDifference = snapshot.LowStocksOrdered - past.LowStocksOrdered
	overview.ProductSoldDifference = overview.RevenueDifference
	overview.ProductInStockDifference = overview.TotalProductsDifference
	return overview, nil
}

// Archive recomputes the inventory snapshot and stores a dated copy in the
// history collection. Run daily by the scheduler to feed the weekly deltas.
func (s *Service) Archive(ctx context.Context) (*models.InventorySnapshot, error) {
	snapshot, err := s.RecomputeInventorySnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.store.InsertSnapshotArchive(ctx, snapshot); err != nil {
		return nil, err
	}
	return snapshot, nil
}
