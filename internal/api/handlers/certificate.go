package handlers

import (
	"net/http"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CertificateHandler handles certificate registry reads: balances, certificate
// types, metadata URIs, and credential verification. These endpoints are public
// so employers and other verifiers can check credentials without an account.
type CertificateHandler struct {
	registry *service.RegistryService
	courses  *service.CourseService
	logger   *zap.Logger
}

// NewCertificateHandler creates a new certificate handler
func NewCertificateHandler(registry *service.RegistryService, courses *service.CourseService, logger *zap.Logger) *CertificateHandler {
	return &CertificateHandler{
		registry: registry,
		courses:  courses,
		logger:   logger,
	}
}

// GetCertificateType returns the registered certificate type for an id
// @Summary Get certificate type
// @Produce json
// @Param id path int true "Certificate ID"
// @Success 200 {object} models.CertificateType
// @Router /api/v1/certificates/{id} [get]
func (h *CertificateHandler) GetCertificateType(c *gin.Context) {
	certificateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	ct, err := h.registry.GetCertificateType(certificateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"certificate": ct,
		"uri":         h.registry.URI(certificateID),
	})
}

// GetBalance returns a holder's balance for a certificate id
// @Summary Get certificate balance
// @Produce json
// @Param id path int true "Certificate ID"
// @Param holder query string true "Holder address"
// @Success 200 {object} map[string]int64
// @Router /api/v1/certificates/{id}/balance [get]
func (h *CertificateHandler) GetBalance(c *gin.Context) {
	certificateID, ok := pathID(c, "id")
	if !ok {
		return
	}

	holder := c.Query("holder")
	if holder == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "holder query parameter required"})
		return
	}

	balance, err := h.registry.BalanceOf(holder, certificateID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"holder":         holder,
		"certificate_id": certificateID,
		"balance":        balance,
	})
}

// Verify reports whether a student holds the certificate for a course
// @Summary Verify credential
// @Produce json
// @Param student query string true "Student address"
// @Param course_id query int true "Course ID"
// @Success 200 {object} map[string]bool
// @Router /api/v1/verify [get]
func (h *CertificateHandler) Verify(c *gin.Context) {
	student := c.Query("student")
	if student == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "student query parameter required"})
		return
	}

	courseID, err := parseQueryID(c, "course_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid course_id"})
		return
	}

	has, err := h.courses.HasCertificate(student, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	completed, err := h.courses.HasCompleted(student, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"student":         student,
		"course_id":       courseID,
		"has_certificate": has,
		"completed":       completed,
	})
}
