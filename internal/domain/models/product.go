package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Availability labels derived from a product's stock level and expiry.
const (
	AvailabilityInStock    = "In stock"
	AvailabilityLowStock   = "Low stock"
	AvailabilityOutOfStock = "Out of stock"
)

// Product is a catalog item tracked by the inventory console. ProductID is the
// human-readable sequential code (P001, P002, ...) while ID is the store identity.
type Product struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductID      string             `bson:"productId" json:"productId"`
	ProductName    string             `bson:"productName" json:"productName"`
	Category       string             `bson:"category" json:"category"`
	Price          float64            `bson:"price" json:"price"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Unit           string             `bson:"unit" json:"unit"`
	ExpiryDate     *time.Time         `bson:"expiryDate,omitempty" json:"expiryDate,omitempty"`
	ThresholdValue int                `bson:"thresholdValue" json:"thresholdValue"`
	ImageURL       string             `bson:"imageUrl,omitempty" json:"imageUrl,omitempty"`
	Availability   string             `bson:"availability" json:"availability"`
	Sold           int                `bson:"sold" json:"sold"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
}

// AvailabilityFor derives the availability label from stock level, threshold and
// expiry. Expiry dominates the stock level: an expired product is out of stock no
// matter how many units remain.
func AvailabilityFor(quantity, threshold int, expiry *time.Time, now time.Time) string {
	switch {
	case expiry != nil && expiry.Before(now):
		return AvailabilityOutOfStock
	case quantity == 0:
		return AvailabilityOutOfStock
	case quantity < threshold:
		return AvailabilityLowStock
	default:
		return AvailabilityInStock
	}
}

// RefreshAvailability recomputes the availability label in place. An expired
// product additionally has its quantity zeroed.
func (p *Product) RefreshAvailability(now time.Time) {
	if p.ExpiryDate != nil && p.ExpiryDate.Before(now) {
		p.Quantity = 0
	}
	p.Availability = AvailabilityFor(p.Quantity, p.ThresholdValue, p.ExpiryDate, now)
}
