package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(products *handlers.ProductHandler, invoices *handlers.InvoiceHandler, statsHandler *handlers.StatsHandler, admins *handlers.AdminHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	product := r.Group("/product")
	{
		product.GET("/get-all-products", products.GetAll)
		product.POST("/add-single-product", products.AddSingle)
		product.POST("/add-multiple-product", products.AddBulk)
		product.PUT("/update-product-availability", products.RefreshAvailability)
		product.POST("/order-product/:productId", products.Order)
	}

	invoice := r.Group("/invoice")
	{
		invoice.PUT("/pay-invoice/:invoiceId", invoices.Pay)
		invoice.DELETE("/delete-invoice/:invoiceId", invoices.Delete)
		invoice.GET("/get-all-invoices", invoices.GetAll)
		invoice.GET("/get-invoice-by-id/:invoiceId", invoices.GetByID)
		invoice.PUT("/update-all-stats", invoices.RecomputeOverall)
	}

	inventory := r.Group("/inventory")
	{
		inventory.GET("/get-inventory-stats", statsHandler.InventoryStats)
		inventory.PUT("/update-inventory-stats", statsHandler.RefreshInventoryStats)
	}

	r.GET("/overall-invoice/get-overall-invoice-stats", statsHandler.OverallInvoiceStats)

	dashboard := r.Group("/dashboard")
	{
		dashboard.GET("/stats", statsHandler.Dashboard)
		dashboard.GET("/stats/:type", statsHandler.Dashboard)
	}

	admin := r.Group("/admin")
	{
		admin.POST("/register", admins.Register)
		admin.PUT("/update-profile", admins.UpdateProfile)
		admin.GET("/get-admin-details/:email", admins.GetByEmail)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
