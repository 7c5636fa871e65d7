package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/service/catalog"
	"github.com/inventra-io/inventra/internal/service/ledger"
)

// ProductHandler exposes the product intake and ordering endpoints.
type ProductHandler struct {
	catalogSvc *catalog.Service
	ledgerSvc  *ledger.Service
	logger     *zap.Logger
}

// NewProductHandler constructs the HTTP handler adapter for products.
func NewProductHandler(catalogSvc *catalog.Service, ledgerSvc *ledger.Service, logger *zap.Logger) *ProductHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductHandler{catalogSvc: catalogSvc, ledgerSvc: ledgerSvc, logger: logger}
}

// GetAll lists every product, newest first.
func (h *ProductHandler) GetAll(c *gin.Context) {
	products, err := h.catalogSvc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// AddSingle creates one product and its cascaded opening-stock invoice.
func (h *ProductHandler) AddSingle(c *gin.Context) {
	var input catalog.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.logger.Warn("invalid product payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "missing required fields"})
		return
	}

	product, invoice, err := h.catalogSvc.CreateProduct(c.Request.Context(), input)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "product added successfully",
		"product": product,
		"invoice": invoice,
	})
}

type bulkImportRequest struct {
	Products []catalog.ProductInput `json:"products" binding:"required"`
}

// AddBulk imports a batch of products with one combined invoice.
func (h *ProductHandler) AddBulk(c *gin.Context) {
	var req bulkImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid bulk import payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "products array is required"})
		return
	}

	result, err := h.catalogSvc.BulkImport(c.Request.Context(), req.Products)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "products imported",
		"products":       result.Products,
		"failedProducts": result.Failed,
		"invoice":        result.Invoice,
		"totalAmount":    result.TotalAmount,
	})
}

// RefreshAvailability re-derives the availability label for every product.
func (h *ProductHandler) RefreshAvailability(c *gin.Context) {
	changed, err := h.catalogSvc.RefreshAvailability(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "products availability updated successfully",
		"changed": changed,
	})
}

type orderRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// Order sells units of a product and creates the walk-in invoice.
func (h *ProductHandler) Order(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid order payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "quantity is required and must be greater than 0"})
		return
	}

	result, err := h.ledgerSvc.Order(c.Request.Context(), c.Param("productId"), req.Quantity)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "product ordered successfully and invoice created",
		"product": result.Product,
		"invoice": result.Invoice,
	})
}
