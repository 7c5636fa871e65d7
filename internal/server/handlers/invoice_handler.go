package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/service/ledger"
	"github.com/inventra-io/inventra/internal/service/stats"
)

// InvoiceHandler exposes invoice payment, deletion and read endpoints.
type InvoiceHandler struct {
	ledgerSvc *ledger.Service
	statsSvc  *stats.Service
	logger    *zap.Logger
}

// NewInvoiceHandler constructs the HTTP handler adapter for invoices.
func NewInvoiceHandler(ledgerSvc *ledger.Service, statsSvc *stats.Service, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{ledgerSvc: ledgerSvc, statsSvc: statsSvc, logger: logger}
}

// Pay marks an invoice as paid.
func (h *InvoiceHandler) Pay(c *gin.Context) {
	invoice, err := h.ledgerSvc.MarkPaid(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "invoice marked as paid successfully",
		"data":    invoice,
	})
}

// Delete removes an invoice.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	invoice, err := h.ledgerSvc.Delete(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"message":        "invoice deleted successfully",
		"deletedInvoice": invoice,
	})
}

// GetAll lists every invoice.
func (h *InvoiceHandler) GetAll(c *gin.Context) {
	invoices, err := h.ledgerSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "invoices": invoices})
}

// GetByID resolves one invoice by its code.
func (h *InvoiceHandler) GetByID(c *gin.Context) {
	invoice, err := h.ledgerSvc.Get(c.Request.Context(), c.Param("invoiceId"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "invoice": invoice})
}

// RecomputeOverall forces a full overall-invoice snapshot recomputation.
func (h *InvoiceHandler) RecomputeOverall(c *gin.Context) {
	snapshot, err := h.statsSvc.RecomputeOverallSnapshot(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": snapshot})
}
