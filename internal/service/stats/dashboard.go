package stats

import (
	"context"
	"sort"

	"github.com/inventra-io/inventra/internal/domain/models"
)

// Chart types accepted by the dashboard rollup.
const (
	ChartMonthly = "monthly"
	ChartYearly  = "yearly"
)

// SalesOverview summarizes completed sales.
type SalesOverview struct {
	SalesCount int     `json:"salesCount"`
	Revenue    float64 `json:"revenue"`
	Profit     float64 `json:"profit"`
	Cost       float64 `json:"cost"`
}

// PurchaseOverview summarizes purchase-side figures for sold units. No
// cancellation or return entities are modeled, so those fields stay zero.
type PurchaseOverview struct {
	PurchaseCount  int     `json:"purchaseCount"`
	CanceledOrders int     `json:"canceledOrders"`
	Returns        int     `json:"returns"`
	Cost           float64 `json:"cost"`
}

// InventorySummary reports on-hand stock and units implied by unpaid invoices.
type InventorySummary struct {
	QuantityInHand int `json:"quantityInHand"`
	ToBeReceived   int `json:"toBeReceived"`
}

// ProductSummary reports catalog cardinalities. Suppliers is the distinct
// customer-name count from invoices, the label the dashboard has always used.
type ProductSummary struct {
	Suppliers  int `json:"suppliers"`
	Categories int `json:"categories"`
}

// TopProduct is one row of the top-sellers table.
type TopProduct struct {
	Name     string `json:"name"`
	Sold     int    `json:"sold"`
	ImageURL string `json:"imageUrl"`
}

// InvoiceTotals counts invoices by status.
type InvoiceTotals struct {
	Total  int `json:"total"`
	Paid   int `json:"paid"`
	Unpaid int `json:"unpaid"`
}

// DashboardStats is the combined rollup rendered on the dashboard landing page.
type DashboardStats struct {
	SalesOverview    SalesOverview       `json:"salesOverview"`
	PurchaseOverview PurchaseOverview    `json:"purchaseOverview"`
	InventorySummary InventorySummary    `json:"inventorySummary"`
	ProductSummary   ProductSummary      `json:"productSummary"`
	TopProducts      []TopProduct        `json:"topProducts"`
	ChartType        string              `json:"chartType"`
	ChartData        []models.ChartPoint `json:"chartData"`
	Invoices         InvoiceTotals       `json:"invoices"`
}

// Dashboard combines fresh product and invoice scans into the rollup. Unknown
// chart types fall back to the monthly series.
func (s *Service) Dashboard(ctx context.Context, chartType string) (*DashboardStats, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	invoices, err := s.store.ListInvoices(ctx)
	if err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		Invoices: InvoiceTotals{Total: len(invoices)},
	}

	customers := make(map[string]struct{})
	for _, inv := range invoices {
		if inv.Customer.Name != "" {
			customers[inv.Customer.Name] = struct{}{}
		}
		if inv.Status == models.InvoiceStatusPaid {
			stats.Invoices.Paid++
			stats.SalesOverview.SalesCount += inv.TotalQuantity()
			stats.SalesOverview.Revenue += inv.Amount
		} else {
			stats.InventorySummary.ToBeReceived += inv.TotalQuantity()
		}
	}
	stats.Invoices.Unpaid = stats.Invoices.Total - stats.Invoices.Paid

	categories := make(map[string]struct{})
	for _, p := range products {
		categories[p.Category] = struct{}{}
		stats.InventorySummary.QuantityInHand += p.Quantity

		cost := float64(p.Sold) * p.Price
		stats.SalesOverview.Cost += cost
		if p.Sold > 0 {
			stats.PurchaseOverview.PurchaseCount++
		}
	}

	stats.SalesOverview.Profit = stats.SalesOverview.Revenue - stats.SalesOverview.Cost
	stats.PurchaseOverview.Cost = stats.SalesOverview.Cost
	stats.ProductSummary = ProductSummary{
		Suppliers:  len(customers),
		Categories: len(categories),
	}
	stats.TopProducts = topProducts(products, 5)

	if chartType == ChartYearly {
		stats.ChartType = ChartYearly
		stats.ChartData = YearlySeries(invoices, products, s.now())
	} else {
		stats.ChartType = ChartMonthly
		stats.ChartData = MonthlySeries(invoices, products)
	}

	return stats, nil
}

func topProducts(products []models.Product, limit int) []TopProduct {
	sellers := make([]models.Product, 0, len(products))
	for _, p := range products {
		if p.Sold > 0 {
			sellers = append(sellers, p)
		}
	}

	// Stable sort keeps the first-encountered order between equal sellers.
	sort.SliceStable(sellers, func(i, j int) bool { return sellers[i].Sold > sellers[j].Sold })

	if len(sellers) > limit {
		sellers = sellers[:limit]
	}

	top := make([]TopProduct, 0, len(sellers))
	for _, p := range sellers {
		top = append(top, TopProduct{Name: p.ProductName, Sold: p.Sold, ImageURL: p.ImageURL})
	}
	return top
}
