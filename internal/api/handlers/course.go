package handlers

import (
	"net/http"

	"github.com/Educertfication/Educert-v2/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CourseHandler handles the course manager's public surface: catalog reads and
// the student-side enrollment flow. Creator-side course commands go through
// the institution endpoints.
type CourseHandler struct {
	courses *service.CourseService
	logger  *zap.Logger
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(courses *service.CourseService, logger *zap.Logger) *CourseHandler {
	return &CourseHandler{
		courses: courses,
		logger:  logger,
	}
}

// ListCourses lists courses, filtered by query parameters
// @Summary List courses
// @Description List courses in creation order, optionally filtered by creator and active state
// @Produce json
// @Param active query bool false "Only active courses"
// @Param creator query string false "Creator account address"
// @Success 200 {array} models.Course
// @Router /api/v1/courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	creator := c.Query("creator")

	var courses interface{}
	var err error

	switch {
	case creator != "" && activeOnly:
		courses, err = h.courses.GetActiveCoursesByCreator(creator)
	case creator != "":
		courses, err = h.courses.GetCoursesByCreator(creator)
	case activeOnly:
		courses, err = h.courses.GetActiveCourses()
	default:
		courses, err = h.courses.GetAllCourses()
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}

// GetCourse gets a course by id
// @Summary Get course
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} models.Course
// @Router /api/v1/courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	course, err := h.courses.GetCourse(courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, course)
}

// Enroll enrolls the authenticated student in a course
// @Summary Enroll in course
// @Produce json
// @Param id path int true "Course ID"
// @Success 201 {object} models.Enrollment
// @Router /api/v1/courses/{id}/enroll [post]
func (h *CourseHandler) Enroll(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	enrollment, err := h.courses.EnrollInCourse(callerID(c), courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Info("Student enrolled",
		zap.String("student", enrollment.Student),
		zap.Int64("course_id", courseID),
	)

	c.JSON(http.StatusCreated, enrollment)
}

// Complete marks the authenticated student's enrollment completed
// @Summary Complete course
// @Param id path int true "Course ID"
// @Router /api/v1/courses/{id}/complete [post]
func (h *CourseHandler) Complete(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.courses.CompleteCourse(callerID(c), courseID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "course completed"})
}

// GetEnrollment returns the enrollment state for a student in a course
// @Summary Get enrollment
// @Produce json
// @Param id path int true "Course ID"
// @Param student query string false "Student address, defaults to the caller"
// @Success 200 {object} models.Enrollment
// @Router /api/v1/courses/{id}/enrollment [get]
func (h *CourseHandler) GetEnrollment(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	student := c.Query("student")
	if student == "" {
		student = callerID(c)
	}

	enrollment, err := h.courses.GetEnrollment(student, courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, enrollment)
}

// ListStudents returns the roster for a course in enrollment order
// @Summary List course students
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {array} string
// @Router /api/v1/courses/{id}/students [get]
func (h *CourseHandler) ListStudents(c *gin.Context) {
	courseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	students, err := h.courses.GetCourseStudents(courseID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// ListStudentCourses returns the course ids a student enrolled in
// @Summary List a student's courses
// @Produce json
// @Param address path string true "Student address"
// @Success 200 {array} int
// @Router /api/v1/students/{address}/courses [get]
func (h *CourseHandler) ListStudentCourses(c *gin.Context) {
	courses, err := h.courses.GetStudentCourses(c.Param("address"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, courses)
}
