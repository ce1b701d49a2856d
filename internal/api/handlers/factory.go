package handlers

import (
	"net/http"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// FactoryHandler handles account factory operations
type FactoryHandler struct {
	factory *service.FactoryService
	logger  *zap.Logger
}

// NewFactoryHandler creates a new factory handler
func NewFactoryHandler(factory *service.FactoryService, logger *zap.Logger) *FactoryHandler {
	return &FactoryHandler{
		factory: factory,
		logger:  logger,
	}
}

// CreateAccountRequest represents a request to create an institution account
type CreateAccountRequest struct {
	Name         string `json:"name" binding:"required"`
	DurationDays int64  `json:"duration_days" binding:"required"`
}

// CreateAccount creates an institution account for the authenticated user
// @Summary Create institution account
// @Description Create an institution account for the authenticated registrant
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account request"
// @Success 201 {object} models.Account
// @Router /api/v1/accounts [post]
func (h *FactoryHandler) CreateAccount(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.factory.CreateAccount(&service.CreateAccountRequest{
		Registrant:   callerID(c),
		Name:         req.Name,
		DurationDays: req.DurationDays,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Account created",
		zap.String("registrant", account.Registrant),
		zap.String("account_address", account.AccountAddress),
	)

	c.JSON(http.StatusCreated, account)
}

// ListAccounts lists directory entries
// @Summary List accounts
// @Description List institution accounts in creation order, optionally active only
// @Produce json
// @Param active query bool false "Only active accounts"
// @Success 200 {array} models.Account
// @Router /api/v1/accounts [get]
func (h *FactoryHandler) ListAccounts(c *gin.Context) {
	var accounts interface{}
	var err error

	if c.Query("active") == "true" {
		accounts, err = h.factory.ListActiveAccounts()
	} else {
		accounts, err = h.factory.ListAccounts()
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, accounts)
}

// GetAccount gets the directory entry for a registrant
// @Summary Get account
// @Description Get the institution account for a registrant address
// @Produce json
// @Param registrant path string true "Registrant address"
// @Success 200 {object} models.Account
// @Router /api/v1/accounts/{registrant} [get]
func (h *FactoryHandler) GetAccount(c *gin.Context) {
	account, err := h.factory.GetAccount(c.Param("registrant"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// GetMyAccount gets the authenticated user's directory entry
func (h *FactoryHandler) GetMyAccount(c *gin.Context) {
	account, err := h.factory.GetAccount(callerID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

// ActivateAccount re-enables a registrant's account
// @Summary Activate account
// @Router /api/v1/accounts/{registrant}/activate [put]
func (h *FactoryHandler) ActivateAccount(c *gin.Context) {
	if err := h.factory.ActivateAccount(callerID(c), c.Param("registrant")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account activated"})
}

// DeactivateAccount soft-disables a registrant's account
// @Summary Deactivate account
// @Router /api/v1/accounts/{registrant}/deactivate [put]
func (h *FactoryHandler) DeactivateAccount(c *gin.Context) {
	if err := h.factory.DeactivateAccount(callerID(c), c.Param("registrant")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "account deactivated"})
}

// GetFactoryStatus returns the pause flag and directory size
// @Summary Factory status
// @Router /api/v1/factory/status [get]
func (h *FactoryHandler) GetFactoryStatus(c *gin.Context) {
	paused, err := h.factory.Paused()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	total, err := h.factory.TotalAccounts()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"paused":         paused,
		"total_accounts": total,
	})
}

// Pause blocks account creation
// @Summary Pause factory
// @Router /api/v1/factory/pause [put]
func (h *FactoryHandler) Pause(c *gin.Context) {
	if err := h.factory.Pause(callerID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Warn("Factory paused", zap.String("caller", callerID(c)))
	c.JSON(http.StatusOK, gin.H{"message": "factory paused"})
}

// Unpause restores account creation
// @Summary Unpause factory
// @Router /api/v1/factory/unpause [put]
func (h *FactoryHandler) Unpause(c *gin.Context) {
	if err := h.factory.Unpause(callerID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Factory unpaused", zap.String("caller", callerID(c)))
	c.JSON(http.StatusOK, gin.H{"message": "factory unpaused"})
}

// SetCourseManagerRequest represents a request to set the course manager address
type SetCourseManagerRequest struct {
	Address string `json:"address" binding:"required"`
}

// SetCourseManager stores the course manager address
// @Summary Set course manager
// @Router /api/v1/factory/course-manager [put]
func (h *FactoryHandler) SetCourseManager(c *gin.Context) {
	var req SetCourseManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.factory.SetCourseManager(callerID(c), req.Address); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course manager set"})
}

// GetCourseManager returns the configured course manager address
// @Summary Get course manager
// @Router /api/v1/factory/course-manager [get]
func (h *FactoryHandler) GetCourseManager(c *gin.Context) {
	address, err := h.factory.CourseManagerAddress()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"address": address})
}
