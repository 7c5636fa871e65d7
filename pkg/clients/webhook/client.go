// Package webhook posts stock alerts to an operator-configured HTTP endpoint.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/inventra-io/inventra/internal/config"
	"github.com/inventra-io/inventra/internal/domain/models"
)

// Client exposes the alert delivery operation used by the scheduler.
type Client interface {
	SendStockAlert(ctx context.Context, alert StockAlert) error
}

// StockAlert is the payload posted when products fall below their thresholds.
type StockAlert struct {
	GeneratedAt time.Time      `json:"generatedAt"`
	Products    []ProductAlert `json:"products"`
}

// ProductAlert is one low- or out-of-stock product in an alert.
type ProductAlert struct {
	ProductID      string `json:"productId"`
	ProductName    string `json:"productName"`
	Availability   string `json:"availability"`
	Quantity       int    `json:"quantity"`
	ThresholdValue int    `json:"thresholdValue"`
}

// NewStockAlert builds an alert payload from the products needing attention.
func NewStockAlert(products []models.Product, now time.Time) StockAlert {
	alert := StockAlert{GeneratedAt: now}
	for _, p := range products {
		if p.Availability == models.AvailabilityInStock {
			continue
		}
		alert.Products = append(alert.Products, ProductAlert{
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			Availability:   p.Availability,
			Quantity:       p.Quantity,
			ThresholdValue: p.ThresholdValue,
		})
	}
	return alert
}

// RestyClient is a resty-backed implementation of Client.
type RestyClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds an alert webhook client from the provided configuration.
func NewClient(cfg config.AlertsConfig) *RestyClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &RestyClient{httpClient: restyClient, url: cfg.WebhookURL}
}

// SendStockAlert posts the alert payload to the configured endpoint.
func (c *RestyClient) SendStockAlert(ctx context.Context, alert StockAlert) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(alert).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send stock alert: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("stock alert webhook error: status=%d, body=%s", resp.StatusCode(), resp.String())
	}
	return nil
}
