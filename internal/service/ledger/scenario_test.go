package ledger

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
	"github.com/inventra-io/inventra/internal/service/catalog"
	"github.com/inventra-io/inventra/internal/service/ident"
	"github.com/inventra-io/inventra/internal/service/stats"
)

// scenarioStore extends the in-memory store with the snapshot surface so the
// real catalog, ledger and stats services can run against it together.
type scenarioStore struct {
	*fakeStore

	inventory *models.InventorySnapshot
	overall   *models.OverallInvoiceSnapshot
	archive   []models.InventorySnapshot
}

func newScenarioStore() *scenarioStore {
	return &scenarioStore{fakeStore: newFakeStore()}
}

func (f *scenarioStore) InsertProduct(_ context.Context, p *models.Product) error {
	for _, existing := range f.products {
		if existing.ProductID == p.ProductID {
			return fmt.Errorf("product %s: %w", p.ProductID, errs.ErrDuplicateCode)
		}
	}
	stored := f.addProduct(*p)
	*p = *stored
	return nil
}

func (f *scenarioStore) ListProducts(context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, *p)
	}
	return out, nil
}

func (f *scenarioStore) UpsertInventorySnapshot(_ context.Context, s *models.InventorySnapshot) error {
	copied := *s
	f.inventory = &copied
	return nil
}

func (f *scenarioStore) GetOverallSnapshot(context.Context) (*models.OverallInvoiceSnapshot, error) {
	if f.overall == nil {
		return nil, fmt.Errorf("overall snapshot: %w", errs.ErrNotFound)
	}
	copied := *f.overall
	copied.RecentTransactions = f.recentTransactions
	return &copied, nil
}

func (f *scenarioStore) UpsertOverallSnapshot(_ context.Context, s *models.OverallInvoiceSnapshot) error {
	copied := *s
	copied.RecentTransactions = f.recentTransactions
	f.overall = &copied
	return nil
}

func (f *scenarioStore) InsertSnapshotArchive(_ context.Context, s *models.InventorySnapshot) error {
	f.archive = append(f.archive, *s)
	return nil
}

func (f *scenarioStore) FindArchivedSnapshotBefore(_ context.Context, cutoff time.Time) (*models.InventorySnapshot, error) {
	for i := len(f.archive) - 1; i >= 0; i-- {
		if !f.archive[i].LastUpdated.After(cutoff) {
			copied := f.archive[i]
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("archived snapshot: %w", errs.ErrNotFound)
}

// TestStockLifecycle walks a product from intake through two orders, a payment
// and an invoice deletion, checking stock levels, invoice codes and the overall
// snapshot after each step.
func TestStockLifecycle(t *testing.T) {
	ctx := context.Background()
	store := newScenarioStore()
	alloc := ident.NewAllocator(store)

	statsSvc := stats.NewService(store, nil)
	catalogSvc := catalog.NewService(store, alloc, statsSvc, nil)
	ledgerSvc := NewService(store, alloc, statsSvc, false, nil)

	product, intake, err := catalogSvc.CreateProduct(ctx, catalog.ProductInput{
		ProductName:    "Rice",
		Category:       "Grains",
		Price:          100,
		Quantity:       10,
		Unit:           "kg",
		ThresholdValue: 3,
	})
	require.NoError(t, err)
	assert.Equal(t, "P001", product.ProductID)
	assert.Equal(t, "INV-1000", intake.InvoiceID)
	assert.Equal(t, models.AvailabilityInStock, product.Availability)

	first, err := ledgerSvc.Order(ctx, "P001", 4)
	require.NoError(t, err)
	assert.Equal(t, 6, first.Product.RemainingQuantity)
	assert.Equal(t, models.AvailabilityInStock, first.Product.Availability)
	assert.Equal(t, "INV-1001", first.Invoice.InvoiceID)
	assert.Equal(t, float64(400), first.Invoice.Amount)

	second, err := ledgerSvc.Order(ctx, "P001", 4)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Product.RemainingQuantity)
	assert.Equal(t, models.AvailabilityLowStock, second.Product.Availability)
	assert.Equal(t, 8, second.Product.Sold)
	assert.Equal(t, "INV-1002", second.Invoice.InvoiceID)

	_, err = ledgerSvc.Order(ctx, "P001", 4)
	var insufficient *errs.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Available)

	paid, err := ledgerSvc.MarkPaid(ctx, "INV-1001")
	require.NoError(t, err)
	assert.Equal(t, models.InvoiceStatusPaid, paid.Status)
	assert.NotEmpty(t, paid.ReferenceNumber)

	overall, err := store.GetOverallSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, overall.TotalInvoices)
	assert.Equal(t, 1, overall.ProcessedInvoices)
	assert.Equal(t, float64(400), overall.PaidAmount)
	assert.Equal(t, float64(1400), overall.UnpaidAmount)
	assert.Equal(t, 1, overall.RecentTransactions)

	deleted, err := ledgerSvc.Delete(ctx, "INV-1002")
	require.NoError(t, err)
	assert.Equal(t, "INV-1002", deleted.InvoiceID)

	_, err = ledgerSvc.Get(ctx, "INV-1002")
	assert.ErrorIs(t, err, errs.ErrNotFound)

	// Deletion writes the sale off without returning units to stock.
	remaining, err := store.FindProductByCode(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, 2, remaining.Quantity)
	assert.Equal(t, 8, remaining.Sold)

	overall, err = store.GetOverallSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, overall.TotalInvoices)
	assert.Equal(t, float64(1000), overall.UnpaidAmount)
	assert.Equal(t, 1, overall.PendingPayments)

	snapshot, err := statsSvc.RecomputeInventorySnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(800), snapshot.Revenue)
	assert.Equal(t, 8, snapshot.TopSelling)
	assert.Equal(t, 1, snapshot.LowStocksOrdered)
}
