package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/inventra-io/inventra/internal/domain/errs"
)

// respondError maps the domain error taxonomy onto HTTP statuses and a uniform
// {"success": false, "message": ...} envelope.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var insufficient *errs.InsufficientStockError
	var validation *errs.ValidationError

	switch {
	case errors.As(err, &insufficient):
		c.JSON(http.StatusBadRequest, gin.H{
			"success":   false,
			"message":   insufficient.Error(),
			"available": insufficient.Available,
		})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": validation.Error()})
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": err.Error()})
	case errors.Is(err, errs.ErrAlreadyPaid):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "invoice is already paid"})
	case errors.Is(err, errs.ErrDuplicateCode):
		c.JSON(http.StatusConflict, gin.H{"success": false, "message": "identifier already exists, please retry"})
	case errors.Is(err, errs.ErrStoreUnavailable):
		logger.Error("store unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "message": "store unavailable"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "internal server error"})
	}
}
