package service

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/Educertfication/Educert-v2/internal/config"
	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/database/models"
	"github.com/google/uuid"
)

// System config keys owned by the factory
const (
	configKeyFactoryPaused = "factory_paused"
	configKeyCourseManager = "course_manager_address"
)

// FactoryService is the account factory: the single source of truth mapping a
// registrant wallet to exactly one institution account, with a global pause
// switch and owner-gated lifecycle controls.
type FactoryService struct {
	db  *database.Database
	cfg *config.Config

	// mu serializes all factory mutations so precondition checks and their
	// side effects commit as one step.
	mu sync.Mutex
}

// NewFactoryService creates a new factory service
func NewFactoryService(db *database.Database, cfg *config.Config) *FactoryService {
	return &FactoryService{
		db:  db,
		cfg: cfg,
	}
}

// CreateAccountRequest represents a request to create an institution account
type CreateAccountRequest struct {
	Registrant   string
	Name         string
	DurationDays int64
}

// CreateAccount deploys a new institution account for the registrant. Each
// registrant gets at most one account, ever.
func (s *FactoryService) CreateAccount(req *CreateAccountRequest) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	paused, err := s.Paused()
	if err != nil {
		return nil, err
	}
	if paused {
		return nil, conflict("Factory is paused")
	}

	if req.Name == "" {
		return nil, validation("Name cannot be empty")
	}
	if req.DurationDays <= 0 {
		return nil, validation("Duration must be greater than 0")
	}
	if req.Registrant == "" {
		return nil, validation("Invalid address")
	}

	if _, err := s.db.GetAccount(req.Registrant); err == nil {
		return nil, conflict("Account already exists")
	} else if err != sql.ErrNoRows {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}

	now := time.Now()
	account := &models.Account{
		Registrant:     req.Registrant,
		Name:           req.Name,
		AccountAddress: uuid.New().String(),
		IsActive:       true,
		CreatedAt:      now,
	}
	inst := &models.Institution{
		AccountAddress: account.AccountAddress,
		Name:           req.Name,
		Proprietor:     req.Registrant,
		CourseDuration: req.DurationDays,
		IsActive:       true,
		CertMinted:     0,
		CreatedAt:      now,
	}

	ev := newEvent(EventAccountCreated, map[string]interface{}{
		"name":            account.Name,
		"user_address":    account.Registrant,
		"account_address": account.AccountAddress,
	})

	if err := s.db.CreateAccount(account, inst, ev); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account, nil
}

// DeactivateAccount soft-disables a registrant's account. Factory owner only.
func (s *FactoryService) DeactivateAccount(caller, registrant string) error {
	return s.setAccountActive(caller, registrant, false)
}

// ActivateAccount re-enables a registrant's account. Factory owner only.
func (s *FactoryService) ActivateAccount(caller, registrant string) error {
	return s.setAccountActive(caller, registrant, true)
}

func (s *FactoryService) setAccountActive(caller, registrant string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return err
	}

	account, err := s.db.GetAccount(registrant)
	if err != nil {
		if err == sql.ErrNoRows {
			return notFound("Account does not exist")
		}
		return fmt.Errorf("failed to get account: %w", err)
	}

	eventType := EventAccountDeactivated
	if active {
		eventType = EventAccountActivated
	}
	ev := newEvent(eventType, map[string]interface{}{
		"user_address":    registrant,
		"account_address": account.AccountAddress,
	})

	return s.db.UpdateAccountActive(registrant, active, ev)
}

// Pause blocks all account creation. Factory owner only.
func (s *FactoryService) Pause(caller string) error {
	return s.setPaused(caller, true)
}

// Unpause restores account creation. Factory owner only.
func (s *FactoryService) Unpause(caller string) error {
	return s.setPaused(caller, false)
}

func (s *FactoryService) setPaused(caller string, paused bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return err
	}

	value := "false"
	eventType := EventFactoryUnpaused
	if paused {
		value = "true"
		eventType = EventFactoryPaused
	}
	ev := newEvent(eventType, map[string]interface{}{"caller": caller})

	if err := s.db.SetSystemConfigEvent(configKeyFactoryPaused, value, ev); err != nil {
		return fmt.Errorf("failed to set pause state: %w", err)
	}
	return nil
}

// Paused reports whether account creation is currently blocked
func (s *FactoryService) Paused() (bool, error) {
	value, err := s.db.GetSystemConfig(configKeyFactoryPaused)
	if err != nil {
		return false, fmt.Errorf("failed to get pause state: %w", err)
	}
	return value == "true", nil
}

// SetCourseManager stores the course manager address institutions are pointed
// at on creation. Factory owner only.
func (s *FactoryService) SetCourseManager(caller, address string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.assertOwner(caller); err != nil {
		return err
	}
	if address == "" {
		return validation("Invalid address")
	}

	ev := newEvent(EventCourseManagerSet, map[string]interface{}{"course_manager": address})
	if err := s.db.SetSystemConfigEvent(configKeyCourseManager, address, ev); err != nil {
		return fmt.Errorf("failed to set course manager: %w", err)
	}
	return nil
}

// CourseManagerAddress returns the configured course manager address
func (s *FactoryService) CourseManagerAddress() (string, error) {
	return s.db.GetSystemConfig(configKeyCourseManager)
}

// GetAccount returns the directory entry for a registrant
func (s *FactoryService) GetAccount(registrant string) (*models.Account, error) {
	account, err := s.db.GetAccount(registrant)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound("Account does not exist")
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account, nil
}

// GetUserAccount returns the institution account address for a registrant
func (s *FactoryService) GetUserAccount(registrant string) (string, error) {
	account, err := s.GetAccount(registrant)
	if err != nil {
		return "", err
	}
	return account.AccountAddress, nil
}

// ListAccounts returns all directory entries in creation order
func (s *FactoryService) ListAccounts() ([]*models.Account, error) {
	return s.db.ListAccounts()
}

// ListActiveAccounts returns active directory entries, order preserved
func (s *FactoryService) ListActiveAccounts() ([]*models.Account, error) {
	accounts, err := s.db.ListAccounts()
	if err != nil {
		return nil, err
	}

	active := make([]*models.Account, 0, len(accounts))
	for _, account := range accounts {
		if account.IsActive {
			active = append(active, account)
		}
	}
	return active, nil
}

// TotalAccounts returns the number of directory entries
func (s *FactoryService) TotalAccounts() (int64, error) {
	return s.db.CountAccounts()
}

// HasUserAccount reports whether the registrant has created an account
func (s *FactoryService) HasUserAccount(registrant string) (bool, error) {
	_, err := s.db.GetAccount(registrant)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return true, nil
}

// IsAccountAuthorized reports whether an institution account address exists in
// the directory and is factory-active. This is the predicate the certificate
// registry relies on for mint authorization.
func (s *FactoryService) IsAccountAuthorized(address string) (bool, error) {
	account, err := s.db.GetAccountByAddress(address)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check account: %w", err)
	}
	return account.IsActive, nil
}

// assertOwner rejects callers that are not the platform owner
func (s *FactoryService) assertOwner(caller string) error {
	owner, err := platformOwner(s.db)
	if err != nil {
		return fmt.Errorf("failed to get platform owner: %w", err)
	}
	if owner == "" || caller != owner {
		return authorization("Not authorized")
	}
	return nil
}
