package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Invoice statuses. The only transition is Unpaid -> Paid, exactly once.
const (
	InvoiceStatusUnpaid = "Unpaid"
	InvoiceStatusPaid   = "Paid"
)

// InvoiceLine snapshots a product at the moment the invoice is written. Lines are
// immutable once persisted; the invoice amount is never recomputed from them.
type InvoiceLine struct {
	ProductID   primitive.ObjectID `bson:"productId" json:"productId"`
	ProductName string             `bson:"productName" json:"productName"`
	Quantity    int                `bson:"quantity" json:"quantity"`
	Price       float64            `bson:"price" json:"price"`
	Unit        string             `bson:"unit,omitempty" json:"unit,omitempty"`
}

// Customer is the billing snapshot embedded in an invoice.
type Customer struct {
	Name    string `bson:"name" json:"name"`
	Email   string `bson:"email" json:"email"`
	Address string `bson:"address" json:"address"`
}

// Invoice records a sale or stock intake. InvoiceID is the human-readable
// sequential code (INV-1000, INV-1001, ...).
type Invoice struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	InvoiceID       string             `bson:"invoiceId" json:"invoiceId"`
	ReferenceNumber string             `bson:"referenceNumber,omitempty" json:"referenceNumber,omitempty"`
	Products        []InvoiceLine      `bson:"products" json:"products"`
	Amount          float64            `bson:"amount" json:"amount"`
	Status          string             `bson:"status" json:"status"`
	InvoiceDate     time.Time          `bson:"invoiceDate" json:"invoiceDate"`
	DueDate         time.Time          `bson:"dueDate" json:"dueDate"`
	Customer        Customer           `bson:"customer" json:"customer"`
}

// TotalQuantity sums the units across all invoice lines.
func (i *Invoice) TotalQuantity() int {
	total := 0
	for _, line := range i.Products {
		total += line.Quantity
	}
	return total
}
