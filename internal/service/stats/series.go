package stats

import (
	"sort"
	"time"

	"github.com/inventra-io/inventra/internal/domain/models"
)

// MonthlySeries buckets paid-invoice sales and product purchase value into 12
// calendar months. Bucketing is month-only: the same month of different years
// lands in the same bucket, matching the dashboard's observed behavior.
func MonthlySeries(invoices []models.Invoice, products []models.Product) []models.ChartPoint {
	points := make([]models.ChartPoint, 12)
	for i := range points {
		points[i].Period = i + 1
	}

	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusPaid || inv.InvoiceDate.IsZero() {
			continue
		}
		points[int(inv.InvoiceDate.Month())-1].Sales += inv.Amount
	}

	for _, p := range products {
		if p.CreatedAt.IsZero() {
			continue
		}
		points[int(p.CreatedAt.Month())-1].Purchase += float64(p.Sold) * p.Price
	}

	return points
}

// YearlySeries buckets the same sales/purchase figures by calendar year over
// [currentYear-2, currentYear+2], ascending.
func YearlySeries(invoices []models.Invoice, products []models.Product, now time.Time) []models.ChartPoint {
	startYear := now.Year() - 2
	endYear := now.Year() + 2

	buckets := make(map[int]*models.ChartPoint, endYear-startYear+1)
	for year := startYear; year <= endYear; year++ {
		buckets[year] = &models.ChartPoint{Period: year}
	}

	for _, inv := range invoices {
		if inv.Status != models.InvoiceStatusPaid || inv.InvoiceDate.IsZero() {
			continue
		}
		if point, ok := buckets[inv.InvoiceDate.Year()]; ok {
			point.Sales += inv.Amount
		}
	}

	for _, p := range products {
		if p.CreatedAt.IsZero() {
			continue
		}
		if point, ok := buckets[p.CreatedAt.Year()]; ok {
			point.Purchase += float64(p.Sold) * p.Price
		}
	}

	points := make([]models.ChartPoint, 0, len(buckets))
	for _, point := range buckets {
		points = append(points, *point)
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}
