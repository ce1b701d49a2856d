package service

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// InstitutionService implements the per-institution account surface. Every
// operation here acts on behalf of one institution account; course commands
// are forwarded to the course manager with the account's address as creator,
// so students and verifiers see the institution, not the proprietor's wallet.
type InstitutionService struct {
	db      *database.Database
	courses *CourseService

	// mu serializes institution profile and ownership mutations.
	mu sync.Mutex
}

// NewInstitutionService creates a new institution service
func NewInstitutionService(db *database.Database, courses *CourseService) *InstitutionService {
	return &InstitutionService{
		db:      db,
		courses: courses,
	}
}

// GetInstitution returns an institution's profile by account address
func (s *InstitutionService) GetInstitution(address string) (*models.Institution, error) {
	return s.getInstitution(address)
}

func (s *InstitutionService) getInstitution(address string) (*models.Institution, error) {
	inst, err := s.db.GetInstitution(address)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("Account does not exist")
		}
		return nil, fmt.Errorf("failed to get institution: %w", err)
	}
	return inst, nil
}

// UpdateInstitution updates an institution's profile. Proprietor only.
func (s *InstitutionService) UpdateInstitution(caller, address, name string, courseDuration int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.getInstitution(address)
	if err != nil {
		return err
	}
	if inst.Proprietor != caller {
		return authorization("Not authorized")
	}
	if name == "" {
		return validation("Name cannot be empty")
	}
	if courseDuration <= 0 {
		return validation("Duration must be greater than 0")
	}

	ev := newEvent(EventInstitutionUpdated, map[string]interface{}{
		"account_address": address,
		"name":            name,
	})
	return s.db.UpdateInstitution(address, name, courseDuration, ev)
}

// DeactivateInstitution suspends the institution's own operations. This is the
// institution-layer flag, independent of the factory directory's.
func (s *InstitutionService) DeactivateInstitution(caller, address string) error {
	return s.setInstitutionActive(caller, address, false)
}

// ActivateInstitution resumes the institution's own operations
func (s *InstitutionService) ActivateInstitution(caller, address string) error {
	return s.setInstitutionActive(caller, address, true)
}

func (s *InstitutionService) setInstitutionActive(caller, address string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.getInstitution(address)
	if err != nil {
		return err
	}
	if inst.Proprietor != caller {
		return authorization("Not authorized")
	}

	eventType := EventInstitutionDeactivated
	if active {
		eventType = EventInstitutionActivated
	}
	ev := newEvent(eventType, map[string]interface{}{"account_address": address})
	return s.db.UpdateInstitutionActive(address, active, ev)
}

// TransferOwnership hands the institution account to a new proprietor. The
// handover is atomic: after it, only the new proprietor passes the gate.
func (s *InstitutionService) TransferOwnership(caller, address, newOwner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.getInstitution(address)
	if err != nil {
		return err
	}
	if inst.Proprietor != caller {
		return authorization("Not authorized")
	}
	if newOwner == "" {
		return validation("Invalid new owner")
	}
	if newOwner == inst.Proprietor {
		return conflict("Same owner")
	}

	ev := newEvent(EventOwnershipTransferred, map[string]interface{}{
		"account_address": address,
		"previous_owner":  inst.Proprietor,
		"new_owner":       newOwner,
	})
	return s.db.TransferInstitutionOwner(address, newOwner, ev)
}

// SetCourseManager points the institution at a course manager endpoint.
// Proprietor only.
func (s *InstitutionService) SetCourseManager(caller, address, courseManager string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	inst, err := s.getInstitution(address)
	if err != nil {
		return err
	}
	if inst.Proprietor != caller {
		return authorization("Not authorized")
	}
	if courseManager == "" {
		return validation("Invalid address")
	}

	ev := newEvent(EventCourseManagerSet, map[string]interface{}{
		"account_address": address,
		"course_manager":  courseManager,
	})
	return s.db.SetInstitutionCourseManager(address, courseManager, ev)
}

// Course forwarding. The institution account is the creator of record for
// everything it forwards.

// InstitutionCourseRequest represents a proprietor's request for a course
// operation made through their institution account.
type InstitutionCourseRequest struct {
	Caller             string
	AccountAddress     string
	Name               string
	Description        string
	CourseURI          string
	Price              int64
	DurationDays       int64
	RequiresAssessment bool
}

// CreateCourse forwards course creation to the course manager with the
// institution account as creator. Proprietor only, active institution only.
func (s *InstitutionService) CreateCourse(req *InstitutionCourseRequest) (*models.Course, error) {
	inst, err := s.authorizeActive(req.Caller, req.AccountAddress)
	if err != nil {
		return nil, err
	}

	return s.courses.CreateCourse(&CreateCourseRequest{
		Creator:            inst.AccountAddress,
		Name:               req.Name,
		Description:        req.Description,
		CourseURI:          req.CourseURI,
		Price:              req.Price,
		DurationDays:       req.DurationDays,
		RequiresAssessment: req.RequiresAssessment,
	})
}

// UpdateCourse forwards a course update for a course this institution created
func (s *InstitutionService) UpdateCourse(caller, address string, courseID int64, name, description, courseURI string, price, durationDays int64) error {
	inst, err := s.authorizeActive(caller, address)
	if err != nil {
		return err
	}

	return s.courses.UpdateCourse(&UpdateCourseRequest{
		Caller:       inst.AccountAddress,
		CourseID:     courseID,
		Name:         name,
		Description:  description,
		CourseURI:    courseURI,
		Price:        price,
		DurationDays: durationDays,
	})
}

// ActivateCourse forwards course activation
func (s *InstitutionService) ActivateCourse(caller, address string, courseID int64) error {
	inst, err := s.authorizeActive(caller, address)
	if err != nil {
		return err
	}
	return s.courses.ActivateCourse(inst.AccountAddress, courseID)
}

// DeactivateCourse forwards course deactivation
func (s *InstitutionService) DeactivateCourse(caller, address string, courseID int64) error {
	inst, err := s.authorizeActive(caller, address)
	if err != nil {
		return err
	}
	return s.courses.DeactivateCourse(inst.AccountAddress, courseID)
}

// IssueCertificate forwards certificate issuance for a completed enrollment
func (s *InstitutionService) IssueCertificate(caller, address string, courseID int64, student string) error {
	inst, err := s.authorizeActive(caller, address)
	if err != nil {
		return err
	}
	return s.courses.IssueCertificate(inst.AccountAddress, courseID, student)
}

// RevokeCertificate forwards certificate revocation
func (s *InstitutionService) RevokeCertificate(caller, address string, courseID int64, student string) error {
	inst, err := s.authorizeActive(caller, address)
	if err != nil {
		return err
	}
	return s.courses.RevokeCertificate(inst.AccountAddress, courseID, student)
}

// InstitutionStats summarizes an institution's course and certificate activity
type InstitutionStats struct {
	TotalCourses      int64 `json:"total_courses"`
	TotalCertificates int64 `json:"total_certificates"`
}

// GetInstitutionStats returns course and certificate counts for an institution
func (s *InstitutionService) GetInstitutionStats(address string) (*InstitutionStats, error) {
	inst, err := s.getInstitution(address)
	if err != nil {
		return nil, err
	}

	courses, err := s.courses.GetCoursesByCreator(address)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	return &InstitutionStats{
		TotalCourses:      int64(len(courses)),
		TotalCertificates: inst.CertMinted,
	}, nil
}

// authorizeActive loads the institution and checks the proprietor gate and the
// institution-layer active flag, in that order.
func (s *InstitutionService) authorizeActive(caller, address string) (*models.Institution, error) {
	inst, err := s.getInstitution(address)
	if err != nil {
		return nil, err
	}
	if inst.Proprietor != caller {
		return nil, authorization("Not authorized")
	}
	if !inst.IsActive {
		return nil, conflict("Institution not active")
	}
	return inst, nil
}
