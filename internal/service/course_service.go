package service

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Educertfication/Educert-v2/internal/config"
	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// CourseService is the course manager: the central registry and state machine
// for courses, enrollments, completions, and certificate bookkeeping. Its
// creator authorization list is independent of the factory directory; the
// platform owner keeps the two in sync explicitly.
type CourseService struct {
	db       *database.Database
	cfg      *config.Config
	registry *RegistryService

	// mu serializes all course manager mutations.
	mu sync.Mutex
}

// NewCourseService creates a new course service
func NewCourseService(db *database.Database, cfg *config.Config, registry *RegistryService) *CourseService {
	return &CourseService{
		db:       db,
		cfg:      cfg,
		registry: registry,
	}
}

// Creator management

// AuthorizeCreator grants an address course-creation rights. Platform owner only.
func (s *CourseService) AuthorizeCreator(caller, address, name string) (*models.Creator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return nil, err
	}
	if name == "" {
		return nil, validation("Name cannot be empty")
	}
	if address == "" {
		return nil, validation("Invalid address")
	}

	existing, err := s.db.GetCreator(address)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check creator: %w", err)
	}
	if existing != nil {
		if existing.IsActive {
			return nil, conflict("Creator already authorized")
		}
		// Previously deauthorized: re-activate, keeping totalCourses.
		ev := newEvent(EventCreatorAuthorized, map[string]interface{}{
			"creator_address": address,
			"name":            existing.Name,
		})
		if err := s.db.UpdateCreatorActive(address, true, ev); err != nil {
			return nil, fmt.Errorf("failed to reauthorize creator: %w", err)
		}
		existing.IsActive = true
		return existing, nil
	}

	creator := &models.Creator{
		CreatorAddress: address,
		Name:           name,
		IsActive:       true,
		TotalCourses:   0,
		CreatedAt:      time.Now(),
	}
	ev := newEvent(EventCreatorAuthorized, map[string]interface{}{
		"creator_address": address,
		"name":            name,
	})
	if err := s.db.CreateCreator(creator, ev); err != nil {
		return nil, fmt.Errorf("failed to authorize creator: %w", err)
	}
	return creator, nil
}

// DeauthorizeCreator revokes course-creation rights, preserving history.
// Platform owner only.
func (s *CourseService) DeauthorizeCreator(caller, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return err
	}
	if _, err := s.getCreator(address); err != nil {
		return err
	}

	ev := newEvent(EventCreatorDeauthorized, map[string]interface{}{"creator_address": address})
	return s.db.UpdateCreatorActive(address, false, ev)
}

// UpdateCreatorName renames a creator without touching its authorization
// state. Platform owner only.
func (s *CourseService) UpdateCreatorName(caller, address, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return err
	}
	if name == "" {
		return validation("Name cannot be empty")
	}
	if _, err := s.getCreator(address); err != nil {
		return err
	}

	ev := newEvent(EventCreatorNameUpdated, map[string]interface{}{
		"creator_address": address,
		"name":            name,
	})
	return s.db.UpdateCreatorName(address, name, ev)
}

// GetCreator returns a creator record
func (s *CourseService) GetCreator(address string) (*models.Creator, error) {
	return s.getCreator(address)
}

func (s *CourseService) getCreator(address string) (*models.Creator, error) {
	creator, err := s.db.GetCreator(address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("Creator does not exist")
		}
		return nil, fmt.Errorf("failed to get creator: %w", err)
	}
	return creator, nil
}

// Course lifecycle

// CreateCourseRequest represents a request to create a course. Creator is the
// institution account address the request is made on behalf of.
type CreateCourseRequest struct {
	Creator            string
	Name               string
	Description        string
	CourseURI          string
	Price              int64
	DurationDays       int64
	RequiresAssessment bool
}

// CreateCourse registers a new course for an active creator, allocating its
// course id and certificate id.
func (s *CourseService) CreateCourse(req *CreateCourseRequest) (*models.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	creator, err := s.db.GetCreator(req.Creator)
	if err != nil || !creator.IsActive {
		return nil, authorization("Not authorized creator")
	}

	if req.Name == "" {
		return nil, validation("Name cannot be empty")
	}
	if req.DurationDays <= 0 {
		return nil, validation("Duration must be greater than 0")
	}

	course := &models.Course{
		Creator:            req.Creator,
		Name:               req.Name,
		Description:        req.Description,
		CourseURI:          req.CourseURI,
		Price:              req.Price,
		Duration:           req.DurationDays,
		IsActive:           true,
		RequiresAssessment: req.RequiresAssessment,
		CreatedAt:          time.Now(),
	}

	ev := newEvent(EventCourseCreated, map[string]interface{}{
		"creator": req.Creator,
		"name":    req.Name,
	})

	if err := s.db.CreateCourse(course, ev); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}

	return course, nil
}

// UpdateCourseRequest represents a request to update a course's details
type UpdateCourseRequest struct {
	Caller       string // institution account address
	CourseID     int64
	Name         string
	Description  string
	CourseURI    string
	Price        int64
	DurationDays int64
}

// UpdateCourse updates a course's mutable details. Original creator only.
func (s *CourseService) UpdateCourse(req *UpdateCourseRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.getCourse(req.CourseID)
	if err != nil {
		return err
	}
	if course.Creator != req.Caller {
		return authorization("Not course creator")
	}
	if req.Name == "" {
		return validation("Name cannot be empty")
	}
	if req.DurationDays <= 0 {
		return validation("Duration must be greater than 0")
	}

	ev := newEvent(EventCourseUpdated, map[string]interface{}{
		"course_id": req.CourseID,
		"name":      req.Name,
	})
	return s.db.UpdateCourse(req.CourseID, req.Name, req.Description, req.CourseURI, req.Price, req.DurationDays, ev)
}

// ActivateCourse re-opens a course for enrollment. Original creator only.
func (s *CourseService) ActivateCourse(caller string, courseID int64) error {
	return s.setCourseActive(caller, courseID, true)
}

// DeactivateCourse closes a course to new enrollment. Original creator only.
func (s *CourseService) DeactivateCourse(caller string, courseID int64) error {
	return s.setCourseActive(caller, courseID, false)
}

func (s *CourseService) setCourseActive(caller string, courseID int64, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.getCourse(courseID)
	if err != nil {
		return err
	}
	if course.Creator != caller {
		return authorization("Not course creator")
	}

	eventType := EventCourseDeactivated
	if active {
		eventType = EventCourseActivated
	}
	ev := newEvent(eventType, map[string]interface{}{"course_id": courseID})
	return s.db.UpdateCourseActive(courseID, active, ev)
}

// Enrollment state machine

// EnrollInCourse enrolls a student in an active course. One enrollment per
// (student, course), ever.
func (s *CourseService) EnrollInCourse(student string, courseID int64) (*models.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.getCourse(courseID)
	if err != nil {
		return nil, err
	}
	if !course.IsActive {
		return nil, conflict("Course is not active")
	}

	if _, err := s.db.GetEnrollment(student, courseID); err == nil {
		return nil, conflict("Already enrolled")
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check enrollment: %w", err)
	}

	enrollment := &models.Enrollment{
		Student:    student,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	ev := newEvent(EventStudentEnrolled, map[string]interface{}{
		"student":   student,
		"course_id": courseID,
	})

	if err := s.db.CreateEnrollment(enrollment, ev); err != nil {
		return nil, fmt.Errorf("failed to enroll: %w", err)
	}

	return enrollment, nil
}

// CompleteCourse marks a student's enrollment completed, exactly once.
func (s *CourseService) CompleteCourse(student string, courseID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.getCourse(courseID); err != nil {
		return err
	}

	enrollment, err := s.db.GetEnrollment(student, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return conflict("Not enrolled")
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}
	if enrollment.IsCompleted {
		return conflict("Already completed")
	}

	completedAt := sql.NullTime{Time: time.Now(), Valid: true}
	ev := newEvent(EventCourseCompleted, map[string]interface{}{
		"student":   student,
		"course_id": courseID,
	})
	return s.db.CompleteEnrollment(student, courseID, completedAt, ev)
}

// Certificate issuance

// IssueCertificate mints the course's certificate to a student who completed
// it. Only the course's original creator may issue, and only once per
// enrollment. The certificate registry independently verifies that the creator
// is still factory-authorized.
func (s *CourseService) IssueCertificate(caller string, courseID int64, student string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.getCourse(courseID)
	if err != nil {
		return err
	}
	if course.Creator != caller {
		return authorization("Not course creator")
	}

	enrollment, err := s.db.GetEnrollment(student, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return conflict("Not enrolled")
		}
		return fmt.Errorf("failed to get enrollment: %w", err)
	}
	if !enrollment.IsCompleted {
		return conflict("Course not completed")
	}
	if enrollment.CertificateIssued {
		return conflict("Certificate already issued")
	}

	if err := s.registry.AssertMintAuthorized(caller); err != nil {
		return err
	}

	ev := newEvent(EventCertificateIssued, map[string]interface{}{
		"student":        student,
		"course_id":      courseID,
		"certificate_id": course.CertificateID,
	})
	return s.db.IssueCertificate(student, courseID, course.CertificateID, course.Creator, ev)
}

// RevokeCertificate burns a previously issued certificate. Whether the student
// becomes eligible for re-issuance is a platform configuration decision.
func (s *CourseService) RevokeCertificate(caller string, courseID int64, student string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, err := s.getCourse(courseID)
	if err != nil {
		return err
	}
	if course.Creator != caller {
		return authorization("Not course creator")
	}

	balance, err := s.db.GetBalance(student, course.CertificateID)
	if err != nil {
		return fmt.Errorf("failed to get balance: %w", err)
	}
	if balance == 0 {
		return conflict("Certificate not issued")
	}

	if err := s.registry.AssertMintAuthorized(caller); err != nil {
		return err
	}

	ev := newEvent(EventCertificateRevoked, map[string]interface{}{
		"student":        student,
		"course_id":      courseID,
		"certificate_id": course.CertificateID,
	})
	return s.db.RevokeCertificate(student, courseID, course.CertificateID, course.Creator,
		s.cfg.Platform.ReissueAfterRevoke, ev)
}

// Read surface

// GetCourse returns a course by id
func (s *CourseService) GetCourse(courseID int64) (*models.Course, error) {
	return s.getCourse(courseID)
}

func (s *CourseService) getCourse(courseID int64) (*models.Course, error) {
	course, err := s.db.GetCourse(courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("Course does not exist")
		}
		return nil, fmt.Errorf("failed to get course: %w", err)
	}
	return course, nil
}

// GetEnrollment returns the enrollment for (student, course)
func (s *CourseService) GetEnrollment(student string, courseID int64) (*models.Enrollment, error) {
	enrollment, err := s.db.GetEnrollment(student, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("Not enrolled")
		}
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

// GetAllCourses returns every course in creation order
func (s *CourseService) GetAllCourses() ([]*models.Course, error) {
	return s.db.ListCourses()
}

// GetActiveCourses returns active courses in creation order
func (s *CourseService) GetActiveCourses() ([]*models.Course, error) {
	return s.db.ListActiveCourses()
}

// GetCoursesByCreator returns a creator's courses in creation order
func (s *CourseService) GetCoursesByCreator(creator string) ([]*models.Course, error) {
	return s.db.ListCoursesByCreator(creator)
}

// GetActiveCoursesByCreator returns a creator's active courses in creation order
func (s *CourseService) GetActiveCoursesByCreator(creator string) ([]*models.Course, error) {
	return s.db.ListActiveCoursesByCreator(creator)
}

// GetStudentCourses returns the course ids a student enrolled in, in order
func (s *CourseService) GetStudentCourses(student string) ([]int64, error) {
	return s.db.ListStudentCourses(student)
}

// GetCourseStudents returns the students enrolled in a course, in order
func (s *CourseService) GetCourseStudents(courseID int64) ([]string, error) {
	return s.db.ListCourseStudents(courseID)
}

// IsEnrolled reports whether the student has an enrollment for the course
func (s *CourseService) IsEnrolled(student string, courseID int64) (bool, error) {
	_, err := s.db.GetEnrollment(student, courseID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return true, nil
}

// HasCompleted reports whether the student completed the course
func (s *CourseService) HasCompleted(student string, courseID int64) (bool, error) {
	enrollment, err := s.db.GetEnrollment(student, courseID)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check enrollment: %w", err)
	}
	return enrollment.IsCompleted, nil
}

// HasCertificate reports whether the student holds the course's certificate
func (s *CourseService) HasCertificate(student string, courseID int64) (bool, error) {
	course, err := s.getCourse(courseID)
	if err != nil {
		return false, err
	}
	balance, err := s.db.GetBalance(student, course.CertificateID)
	if err != nil {
		return false, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance > 0, nil
}

// assertOwner rejects callers that are not the platform owner
func (s *CourseService) assertOwner(caller string) error {
	owner, err := platformOwner(s.db)
	if err != nil {
		return fmt.Errorf("failed to get platform owner: %w", err)
	}
	if owner == "" || caller != owner {
		return authorization("Not authorized")
	}
	return nil
}
