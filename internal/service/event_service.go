package service

import (
	"encoding/json"
	"time"

	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/database/models"
	"github.com/google/uuid"
)

// Event types emitted by command operations. The frontend indexer resolves
// newly created identifiers from these rather than from response bodies.
const (
	EventAccountCreated        = "AccountCreated"
	EventAccountActivated      = "AccountActivated"
	EventAccountDeactivated    = "AccountDeactivated"
	EventFactoryPaused         = "FactoryPaused"
	EventFactoryUnpaused       = "FactoryUnpaused"
	EventCourseManagerSet      = "CourseManagerSet"
	EventInstitutionUpdated    = "InstitutionUpdated"
	EventInstitutionActivated  = "InstitutionActivated"
	EventInstitutionDeactivated = "InstitutionDeactivated"
	EventOwnershipTransferred  = "OwnershipTransferred"
	EventCreatorAuthorized     = "CreatorAuthorized"
	EventCreatorDeauthorized   = "CreatorDeauthorized"
	EventCreatorNameUpdated    = "CreatorNameUpdated"
	EventCourseCreated         = "CourseCreated"
	EventCourseUpdated         = "CourseUpdated"
	EventCourseActivated       = "CourseActivated"
	EventCourseDeactivated     = "CourseDeactivated"
	EventStudentEnrolled       = "StudentEnrolled"
	EventCourseCompleted       = "CourseCompleted"
	EventCertificateIssued     = "CertificateIssued"
	EventCertificateRevoked    = "CertificateRevoked"
	EventRegistryFactoryInit   = "RegistryFactoryInitialized"
)

// newEvent builds an event record carrying the operation's key identifiers.
func newEvent(eventType string, payload map[string]interface{}) *models.Event {
	data, _ := json.Marshal(payload)
	return &models.Event{
		ID:        uuid.New().String(),
		EventType: eventType,
		Payload:   string(data),
		CreatedAt: time.Now(),
	}
}

// EventService serves the event log to indexer clients
type EventService struct {
	db *database.Database
}

// NewEventService creates a new event service
func NewEventService(db *database.Database) *EventService {
	return &EventService{db: db}
}

// ListEvents returns events newest first, optionally filtered by type.
func (s *EventService) ListEvents(eventType string, limit int) ([]*models.Event, error) {
	return s.db.ListEvents(eventType, limit)
}
