package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	adminsvc "github.com/inventra-io/inventra/internal/service/admin"
)

// AdminHandler exposes the admin account endpoints.
type AdminHandler struct {
	adminSvc *adminsvc.Service
	logger   *zap.Logger
}

// NewAdminHandler constructs the HTTP handler adapter for admin accounts.
func NewAdminHandler(adminSvc *adminsvc.Service, logger *zap.Logger) *AdminHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminHandler{adminSvc: adminSvc, logger: logger}
}

type registerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new admin account.
func (h *AdminHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid register payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "all fields are required"})
		return
	}

	account, err := h.adminSvc.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "admin": account})
}

// GetByEmail resolves an admin account by email.
func (h *AdminHandler) GetByEmail(c *gin.Context) {
	account, err := h.adminSvc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "admin": account})
}

type updateProfileRequest struct {
	Email           string `json:"email" binding:"required,email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateProfile applies profile changes to an existing account.
func (h *AdminHandler) UpdateProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid profile payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "email is required to identify the admin"})
		return
	}

	account, passwordChanged, err := h.adminSvc.UpdateProfile(c.Request.Context(), req.Email, adminsvc.ProfileUpdate{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"admin":        account,
		"shouldLogout": passwordChanged,
	})
}
