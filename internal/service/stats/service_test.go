package stats

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra-io/inventra/internal/domain/errs"
	"github.com/inventra-io/inventra/internal/domain/models"
)

type fakeStore struct {
	products []models.Product
	invoices []models.Invoice

	inventory *models.InventorySnapshot
	overall   *models.OverallInvoiceSnapshot
	archive   []models.InventorySnapshot
}

func (f *fakeStore) ListProducts(context.Context) ([]models.Product, error) {
	return append([]models.Product(nil), f.products...), nil
}

func (f *fakeStore) ListInvoices(context.Context) ([]models.Invoice, error) {
	return append([]models.Invoice(nil), f.invoices...), nil
}

func (f *fakeStore) UpsertInventorySnapshot(_ context.Context, s *models.InventorySnapshot) error {
	copied := *s
	f.inventory = &copied
	return nil
}

func (f *fakeStore) GetOverallSnapshot(context.Context) (*models.OverallInvoiceSnapshot, error) {
	if f.overall == nil {
		return nil, fmt.Errorf("overall snapshot: %w", errs.ErrNotFound)
	}
	copied := *f.overall
	return &copied, nil
}

func (f *fakeStore) UpsertOverallSnapshot(_ context.Context, s *models.OverallInvoiceSnapshot) error {
	recent := 0
	if f.overall != nil {
		recent = f.overall.RecentTransactions
	}
	copied := *s
	copied.RecentTransactions = recent
	f.overall = &copied
	return nil
}

func (f *fakeStore) InsertSnapshotArchive(_ context.Context, s *models.InventorySnapshot) error {
	f.archive = append(f.archive, *s)
	return nil
}

func (f *fakeStore) FindArchivedSnapshotBefore(_ context.Context, cutoff time.Time) (*models.InventorySnapshot, error) {
	var best *models.InventorySnapshot
	for i := range f.archive {
		s := &f.archive[i]
		if s.LastUpdated.After(cutoff) {
			continue
		}
		if best == nil || s.LastUpdated.After(best.LastUpdated) {
			best = s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("archived snapshot: %w", errs.ErrNotFound)
	}
	copied := *best
	return &copied, nil
}

func newTestService(store *fakeStore, now time.Time) *Service {
	svc := NewService(store, nil)
	svc.now = func() time.Time { return now }
	return svc
}

func productFixture() []models.Product {
	return []models.Product{
		{ProductID: "P001", ProductName: "Rice", Category: "Grains", Price: 100, Quantity: 10, ThresholdValue: 3, Sold: 4},
		{ProductID: "P002", ProductName: "Beans", Category: "Grains", Price: 50, Quantity: 2, ThresholdValue: 3, Sold: 4},
		{ProductID: "P003", ProductName: "Milk", Category: "Dairy", Price: 20, Quantity: 0, ThresholdValue: 5, Sold: 1},
	}
}

func TestRecomputeInventorySnapshot(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{products: productFixture()}
	svc := newTestService(store, now)

	snapshot, err := svc.RecomputeInventorySnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.Categories)
	assert.Equal(t, 3, snapshot.TotalProducts)
	assert.Equal(t, float64(4*100+4*50+1*20), snapshot.Revenue)
	// P001 and P002 both sold 4; the first encountered wins the tie.
	assert.Equal(t, 4, snapshot.TopSelling)
	assert.Equal(t, float64(400), snapshot.TopSellingCost)
	assert.Equal(t, 1, snapshot.LowStocksOrdered)
	assert.Equal(t, 1, snapshot.LowStocksNotInStock)
	assert.Equal(t, now, snapshot.LastUpdated)
	require.NotNil(t, store.inventory)
}

func TestRecomputeInventorySnapshotIsDeterministic(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	svc := newTestService(&fakeStore{products: productFixture()}, now)

	first, err := svc.RecomputeInventorySnapshot(context.Background())
	require.NoError(t, err)
	second, err := svc.RecomputeInventorySnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestRecomputeInventorySnapshotEmptyStore(t *testing.T) {
	svc := newTestService(&fakeStore{}, time.Now())

	snapshot, err := svc.RecomputeInventorySnapshot(context.Background())
	require.NoError(t, err)

	assert.Zero(t, snapshot.TotalProducts)
	assert.Zero(t, snapshot.TopSelling)
	assert.Zero(t, snapshot.Revenue)
}

func TestRecomputeOverallSnapshotPreservesRecentTransactions(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		overall: &models.OverallInvoiceSnapshot{RecentTransactions: 5},
		invoices: []models.Invoice{
			{InvoiceID: "INV-1000", Amount: 400, Status: models.InvoiceStatusPaid, Customer: models.Customer{Name: "Walk-in Customer"}},
			{InvoiceID: "INV-1001", Amount: 250, Status: models.InvoiceStatusUnpaid, Customer: models.Customer{Name: "Walk-in Customer"}},
			{InvoiceID: "INV-1002", Amount: 100, Status: models.InvoiceStatusUnpaid, Customer: models.Customer{Name: "Direct Entry Customer"}},
		},
	}
	svc := newTestService(store, now)

	snapshot, err := svc.RecomputeOverallSnapshot(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 5, snapshot.RecentTransactions)
	assert.Equal(t, 3, snapshot.TotalInvoices)
	assert.Equal(t, 1, snapshot.ProcessedInvoices)
	assert.Equal(t, float64(400), snapshot.PaidAmount)
	assert.Equal(t, float64(350), snapshot.UnpaidAmount)
	assert.Equal(t, 2, snapshot.Customers)
	assert.Equal(t, 2, snapshot.PendingPayments)
}

func TestOverviewWithoutArchiveHasZeroDeltas(t *testing.T) {
	svc := newTestService(&fakeStore{products: productFixture()}, time.Now())

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Zero(t, overview.RevenueDifference)
	assert.Zero(t, overview.TotalProductsDifference)
	assert.Zero(t, overview.LowStocksDifference)
	assert.Zero(t, overview.ProductSoldDifference)
	assert.Zero(t, overview.ProductInStockDifference)
}

func TestOverviewComputesWeeklyDeltas(t *testing.T) {
	now := time.Date(2026, 5, 10, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{
		products: productFixture(),
		archive: []models.InventorySnapshot{
			{Revenue: 500, TotalProducts: 2, LowStocksOrdered: 0, LastUpdated: now.Add(-8 * 24 * time.Hour)},
			// Too recent to qualify as the week-old reference.
			{Revenue: 600, TotalProducts: 3, LastUpdated: now.Add(-2 * 24 * time.Hour)},
		},
	}
	svc := newTestService(store, now)

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)

	assert.Equal(t, overview.Revenue-500, overview.RevenueDifference)
	assert.Equal(t, 1, overview.TotalProductsDifference)
	assert.Equal(t, 1, overview.LowStocksDifference)
	assert.Equal(t, overview.RevenueDifference, overview.ProductSoldDifference)
	assert.Equal(t, overview.TotalProductsDifference, overview.ProductInStockDifference)
}

func TestArchiveStoresDatedCopy(t *testing.T) {
	now := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	store := &fakeStore{products: productFixture()}
	svc := newTestService(store, now)

	snapshot, err := svc.Archive(context.Background())
	require.NoError(t, err)

	require.Len(t, store.archive, 1)
	assert.Equal(t, *snapshot, store.archive[0])
}
