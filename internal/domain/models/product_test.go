package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAvailabilityFor(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	tests := []struct {
		name      string
		quantity  int
		threshold int
		expiry    *time.Time
		want      string
	}{
		{"plenty of stock", 10, 3, nil, AvailabilityInStock},
		{"at threshold counts as in stock", 3, 3, nil, AvailabilityInStock},
		{"below threshold", 2, 3, nil, AvailabilityLowStock},
		{"zero quantity", 0, 3, nil, AvailabilityOutOfStock},
		{"zero threshold never low", 1, 0, nil, AvailabilityInStock},
		{"expired dominates stock level", 10, 3, &past, AvailabilityOutOfStock},
		{"future expiry ignored", 10, 3, &future, AvailabilityInStock},
		{"expired and empty", 0, 3, &past, AvailabilityOutOfStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AvailabilityFor(tt.quantity, tt.threshold, tt.expiry, now))
		})
	}
}

func TestRefreshAvailabilityZeroesExpiredStock(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	p := Product{Quantity: 25, ThresholdValue: 5, ExpiryDate: &past}
	p.RefreshAvailability(now)

	assert.Equal(t, 0, p.Quantity)
	assert.Equal(t, AvailabilityOutOfStock, p.Availability)
}

func TestRefreshAvailabilityKeepsFreshStock(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	p := Product{Quantity: 2, ThresholdValue: 5}
	p.RefreshAvailability(now)

	assert.Equal(t, 2, p.Quantity)
	assert.Equal(t, AvailabilityLowStock, p.Availability)
}

func TestInvoiceTotalQuantity(t *testing.T) {
	inv := Invoice{Products: []InvoiceLine{{Quantity: 3}, {Quantity: 4}}}
	assert.Equal(t, 7, inv.TotalQuantity())

	empty := Invoice{}
	assert.Equal(t, 0, empty.TotalQuantity())
}
