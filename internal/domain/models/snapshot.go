package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InventorySnapshot is the singleton aggregate over the product set. It is a pure
// cache: every field is recomputed from a full product scan on each trigger.
type InventorySnapshot struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	Categories          int                `bson:"categories" json:"categories"`
	TotalProducts       int                `bson:"totalProducts" json:"totalProducts"`
	Revenue             float64            `bson:"revenue" json:"revenue"`
	TopSelling          int                `bson:"topSelling" json:"topSelling"`
	TopSellingCost      float64            `bson:"topSellingCost" json:"topSellingCost"`
	LowStocksOrdered    int                `bson:"lowStocksOrdered" json:"lowStocksOrdered"`
	LowStocksNotInStock int                `bson:"lowStocksNotInStock" json:"lowStocksNotInStock"`
	LastUpdated         time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}

// OverallInvoiceSnapshot is the singleton aggregate over the invoice set.
// RecentTransactions is the one imperative field: it is incremented on each
// payment and preserved untouched by recomputation.
type OverallInvoiceSnapshot struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	RecentTransactions int                `bson:"recentTransactions" json:"recentTransactions"`
	TotalInvoices      int                `bson:"totalInvoices" json:"totalInvoices"`
	ProcessedInvoices  int                `bson:"processedInvoices" json:"processedInvoices"`
	PaidAmount         float64            `bson:"paidAmount" json:"paidAmount"`
	UnpaidAmount       float64            `bson:"unpaidAmount" json:"unpaidAmount"`
	Customers          int                `bson:"customers" json:"customers"`
	PendingPayments    int                `bson:"pendingPayments" json:"pendingPayments"`
	LastUpdated        time.Time          `bson:"lastUpdated" json:"lastUpdated"`
}

// ChartPoint is one bucket of the dashboard time series. Period is a month
// number (1-12) for the monthly series or a calendar year for the yearly one.
type ChartPoint struct {
	Period   int     `json:"period"`
	Sales    float64 `json:"sales"`
	Purchase float64 `json:"purchase"`
}
