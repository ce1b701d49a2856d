package handlers

import (
	"net/http"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InstitutionHandler handles institution account operations. All commands act
// on behalf of the authenticated proprietor; the address in the path names the
// institution account.
type InstitutionHandler struct {
	institutions *service.InstitutionService
	logger       *zap.Logger
}

// NewInstitutionHandler creates a new institution handler
func NewInstitutionHandler(institutions *service.InstitutionService, logger *zap.Logger) *InstitutionHandler {
	return &InstitutionHandler{
		institutions: institutions,
		logger:       logger,
	}
}

// GetInstitution returns an institution's profile
// @Summary Get institution
// @Produce json
// @Param address path string true "Institution account address"
// @Success 200 {object} models.Institution
// @Router /api/v1/institutions/{address} [get]
func (h *InstitutionHandler) GetInstitution(c *gin.Context) {
	inst, err := h.institutions.GetInstitution(c.Param("address"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, inst)
}

// GetStats returns an institution's activity summary
// @Summary Institution stats
// @Produce json
// @Param address path string true "Institution account address"
// @Success 200 {object} service.InstitutionStats
// @Router /api/v1/institutions/{address}/stats [get]
func (h *InstitutionHandler) GetStats(c *gin.Context) {
	stats, err := h.institutions.GetInstitutionStats(c.Param("address"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateInstitutionRequest represents a profile update
type UpdateInstitutionRequest struct {
	Name         string `json:"name" binding:"required"`
	DurationDays int64  `json:"duration_days" binding:"required"`
}

// UpdateInstitution updates the institution's profile
// @Summary Update institution
// @Router /api/v1/institutions/{address} [put]
func (h *InstitutionHandler) UpdateInstitution(c *gin.Context) {
	var req UpdateInstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.institutions.UpdateInstitution(callerID(c), c.Param("address"), req.Name, req.DurationDays); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "institution updated"})
}

// Activate resumes the institution's operations
// @Summary Activate institution
// @Router /api/v1/institutions/{address}/activate [put]
func (h *InstitutionHandler) Activate(c *gin.Context) {
	if err := h.institutions.ActivateInstitution(callerID(c), c.Param("address")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "institution activated"})
}

// Deactivate suspends the institution's operations
// @Summary Deactivate institution
// @Router /api/v1/institutions/{address}/deactivate [put]
func (h *InstitutionHandler) Deactivate(c *gin.Context) {
	if err := h.institutions.DeactivateInstitution(callerID(c), c.Param("address")); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "institution deactivated"})
}

// TransferOwnershipRequest represents an ownership handover
type TransferOwnershipRequest struct {
	NewOwner string `json:"new_owner" binding:"required"`
}

// TransferOwnership hands the institution to a new proprietor
// @Summary Transfer ownership
// @Router /api/v1/institutions/{address}/transfer-ownership [put]
func (h *InstitutionHandler) TransferOwnership(c *gin.Context) {
	var req TransferOwnershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	address := c.Param("address")
	if err := h.institutions.TransferOwnership(callerID(c), address, req.NewOwner); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Ownership transferred",
		zap.String("account_address", address),
		zap.String("new_owner", req.NewOwner),
	)

	c.JSON(http.StatusOK, gin.H{"message": "ownership transferred"})
}

// SetCourseManager points the institution at a course manager endpoint
// @Summary Set institution course manager
// @Router /api/v1/institutions/{address}/course-manager [put]
func (h *InstitutionHandler) SetCourseManager(c *gin.Context) {
	var req SetCourseManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.institutions.SetCourseManager(callerID(c), c.Param("address"), req.Address); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course manager set"})
}

// CreateCourseRequest represents a course creation forwarded by the institution
type CreateCourseRequest struct {
	Name               string `json:"name" binding:"required"`
	Description        string `json:"description"`
	CourseURI          string `json:"course_uri"`
	Price              int64  `json:"price"`
	DurationDays       int64  `json:"duration_days" binding:"required"`
	RequiresAssessment bool   `json:"requires_assessment"`
}

// CreateCourse creates a course with the institution account as creator
// @Summary Create course
// @Accept json
// @Produce json
// @Param address path string true "Institution account address"
// @Param request body CreateCourseRequest true "Course request"
// @Success 201 {object} models.Course
// @Router /api/v1/institutions/{address}/courses [post]
func (h *InstitutionHandler) CreateCourse(c *gin.Context) {
	var req CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	course, err := h.institutions.CreateCourse(&service.InstitutionCourseRequest{
		Caller:             callerID(c),
		AccountAddress:     c.Param("address"),
		Name:               req.Name,
		Description:        req.Description,
		CourseURI:          req.CourseURI,
		Price:              req.Price,
		DurationDays:       req.DurationDays,
		RequiresAssessment: req.RequiresAssessment,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Course created",
		zap.Int64("course_id", course.CourseID),
		zap.String("creator", course.Creator),
	)

	c.JSON(http.StatusCreated, course)
}

// UpdateCourseRequest represents a course update forwarded by the institution
type UpdateCourseRequest struct {
	Name         string `json:"name" binding:"required"`
	Description  string `json:"description"`
	CourseURI    string `json:"course_uri"`
	Price        int64  `json:"price"`
	DurationDays int64  `json:"duration_days" binding:"required"`
}

// UpdateCourse updates a course this institution created
// @Summary Update course
// @Router /api/v1/institutions/{address}/courses/{id} [put]
func (h *InstitutionHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpdateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.institutions.UpdateCourse(callerID(c), c.Param("address"), courseID,
		req.Name, req.Description, req.CourseURI, req.Price, req.DurationDays)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course updated"})
}

// ActivateCourse re-opens a course for enrollment
// @Summary Activate course
// @Router /api/v1/institutions/{address}/courses/{id}/activate [put]
func (h *InstitutionHandler) ActivateCourse(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.institutions.ActivateCourse(callerID(c), c.Param("address"), courseID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course activated"})
}

// DeactivateCourse closes a course to new enrollment
// @Summary Deactivate course
// @Router /api/v1/institutions/{address}/courses/{id}/deactivate [put]
func (h *InstitutionHandler) DeactivateCourse(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.institutions.DeactivateCourse(callerID(c), c.Param("address"), courseID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course deactivated"})
}

// CertificateActionRequest names the student a certificate action applies to
type CertificateActionRequest struct {
	Student string `json:"student" binding:"required"`
}

// IssueCertificate mints the course certificate to a student who completed it
// @Summary Issue certificate
// @Router /api/v1/institutions/{address}/courses/{id}/certificate [post]
func (h *InstitutionHandler) IssueCertificate(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CertificateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.institutions.IssueCertificate(callerID(c), c.Param("address"), courseID, req.Student); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Certificate issued",
		zap.Int64("course_id", courseID),
		zap.String("student", req.Student),
	)

	c.JSON(http.StatusOK, gin.H{"message": "certificate issued"})
}

// RevokeCertificate burns a previously issued certificate
// @Summary Revoke certificate
// @Router /api/v1/institutions/{address}/courses/{id}/certificate [delete]
func (h *InstitutionHandler) RevokeCertificate(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req CertificateActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.institutions.RevokeCertificate(callerID(c), c.Param("address"), courseID, req.Student); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Warn("Certificate revoked",
		zap.Int64("course_id", courseID),
		zap.String("student", req.Student),
	)

	c.JSON(http.StatusOK, gin.H{"message": "certificate revoked"})
}
