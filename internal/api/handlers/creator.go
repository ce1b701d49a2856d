package handlers

import (
	"net/http"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CreatorHandler handles course-creator authorization operations
type CreatorHandler struct {
	courses *service.CourseService
	logger  *zap.Logger
}

// NewCreatorHandler creates a new creator handler
func NewCreatorHandler(courses *service.CourseService, logger *zap.Logger) *CreatorHandler {
	return &CreatorHandler{
		courses: courses,
		logger:  logger,
	}
}

// AuthorizeCreatorRequest represents a request to authorize a course creator
type AuthorizeCreatorRequest struct {
	Address string `json:"address" binding:"required"`
	Name    string `json:"name" binding:"required"`
}

// AuthorizeCreator grants course-creation rights to an institution account
// @Summary Authorize creator
// @Accept json
// @Produce json
// @Param request body AuthorizeCreatorRequest true "Creator request"
// @Success 201 {object} models.Creator
// @Router /api/v1/creators [post]
func (h *CreatorHandler) AuthorizeCreator(c *gin.Context) {
	var req AuthorizeCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	creator, err := h.courses.AuthorizeCreator(callerID(c), req.Address, req.Name)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Creator authorized", zap.String("creator", req.Address))

	c.JSON(http.StatusCreated, creator)
}

// DeauthorizeCreator revokes course-creation rights
// @Summary Deauthorize creator
// @Router /api/v1/creators/{address} [delete]
func (h *CreatorHandler) DeauthorizeCreator(c *gin.Context) {
	address := c.Param("address")

	if err := h.courses.DeauthorizeCreator(callerID(c), address); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Creator deauthorized", zap.String("creator", address))

	c.JSON(http.StatusOK, gin.H{"message": "creator deauthorized"})
}

// UpdateCreatorRequest represents a request to rename a creator
type UpdateCreatorRequest struct {
	Name string `json:"name" binding:"required"`
}

// UpdateCreator renames a creator
// @Summary Rename creator
// @Router /api/v1/creators/{address} [put]
func (h *CreatorHandler) UpdateCreator(c *gin.Context) {
	var req UpdateCreatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.courses.UpdateCreatorName(callerID(c), c.Param("address"), req.Name); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "creator updated"})
}

// GetCreator returns a creator's authorization record
// @Summary Get creator
// @Produce json
// @Param address path string true "Creator address"
// @Success 200 {object} models.Creator
// @Router /api/v1/creators/{address} [get]
func (h *CreatorHandler) GetCreator(c *gin.Context) {
	creator, err := h.courses.GetCreator(c.Param("address"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, creator)
}
