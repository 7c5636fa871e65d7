package stats

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inventra-io/inventra/internal/domain/models"
)

func TestDashboardRollup(t *testing.T) {
	now := date(2026, time.June, 15)
	store := &fakeStore{
		products: []models.Product{
			{ProductID: "P001", ProductName: "Rice", Category: "Grains", Price: 100, Quantity: 6, Sold: 4, ImageURL: "rice.png", CreatedAt: date(2026, time.January, 5)},
			{ProductID: "P002", ProductName: "Milk", Category: "Dairy", Price: 20, Quantity: 8, Sold: 0, CreatedAt: date(2026, time.February, 5)},
		},
		invoices: []models.Invoice{
			{
				Amount: 400, Status: models.InvoiceStatusPaid, InvoiceDate: date(2026, time.March, 1),
				Products: []models.InvoiceLine{{Quantity: 4}},
				Customer: models.Customer{Name: "Walk-in Customer"},
			},
			{
				Amount: 160, Status: models.InvoiceStatusUnpaid, InvoiceDate: date(2026, time.April, 1),
				Products: []models.InvoiceLine{{Quantity: 8}},
				Customer: models.Customer{Name: "Direct Entry Customer"},
			},
		},
	}
	svc := newTestService(store, now)

	rollup, err := svc.Dashboard(context.Background(), ChartMonthly)
	require.NoError(t, err)

	assert.Equal(t, 4, rollup.SalesOverview.SalesCount)
	assert.Equal(t, float64(400), rollup.SalesOverview.Revenue)
	assert.Equal(t, float64(400), rollup.SalesOverview.Cost)
	assert.Zero(t, rollup.SalesOverview.Profit)

	assert.Equal(t, 1, rollup.PurchaseOverview.PurchaseCount)
	assert.Zero(t, rollup.PurchaseOverview.CanceledOrders)
	assert.Zero(t, rollup.PurchaseOverview.Returns)

	assert.Equal(t, 14, rollup.InventorySummary.QuantityInHand)
	assert.Equal(t, 8, rollup.InventorySummary.ToBeReceived)

	assert.Equal(t, 2, rollup.ProductSummary.Suppliers)
	assert.Equal(t, 2, rollup.ProductSummary.Categories)

	require.Len(t, rollup.TopProducts, 1)
	assert.Equal(t, TopProduct{Name: "Rice", Sold: 4, ImageURL: "rice.png"}, rollup.TopProducts[0])

	assert.Equal(t, InvoiceTotals{Total: 2, Paid: 1, Unpaid: 1}, rollup.Invoices)
	assert.Equal(t, ChartMonthly, rollup.ChartType)
	require.Len(t, rollup.ChartData, 12)
}

func TestDashboardUnknownChartTypeDefaultsToMonthly(t *testing.T) {
	svc := newTestService(&fakeStore{}, time.Now())

	rollup, err := svc.Dashboard(context.Background(), "weekly")
	require.NoError(t, err)

	assert.Equal(t, ChartMonthly, rollup.ChartType)
	assert.Len(t, rollup.ChartData, 12)
}

func TestDashboardYearlyChart(t *testing.T) {
	svc := newTestService(&fakeStore{}, date(2026, time.June, 15))

	rollup, err := svc.Dashboard(context.Background(), ChartYearly)
	require.NoError(t, err)

	assert.Equal(t, ChartYearly, rollup.ChartType)
	require.Len(t, rollup.ChartData, 5)
	assert.Equal(t, 2024, rollup.ChartData[0].Period)
}

func TestTopProductsLimitAndOrder(t *testing.T) {
	products := []models.Product{
		{ProductName: "A", Sold: 3},
		{ProductName: "B", Sold: 9},
		{ProductName: "C", Sold: 0},
		{ProductName: "D", Sold: 9},
		{ProductName: "E", Sold: 5},
		{ProductName: "F", Sold: 1},
		{ProductName: "G", Sold: 2},
	}

	top := topProducts(products, 5)
	require.Len(t, top, 5)

	names := make([]string, 0, len(top))
	for _, p := range top {
		names = append(names, p.Name)
	}
	// Ties keep the first-encountered order; C never sold and is excluded.
	assert.Equal(t, []string{"B", "D", "E", "A", "G"}, names)
}
