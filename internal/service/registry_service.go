package service

import (
	"fmt"
	"strconv"
	"sync"

	"github.com/Educertfication/Educert-v2/internal/config"
	"github.com/Educertfication/Educert-v2/internal/database"
	"github.com/Educertfication/Educert-v2/internal/database/models"
)

// AccountAuthorizer is the capability the registry uses to decide whether an
// institution account may mint. It is satisfied by the factory service; the
// registry never trusts a caller's self-declared identity.
type AccountAuthorizer interface {
	IsAccountAuthorized(address string) (bool, error)
}

// RegistryService is the certificate registry: a multi-token balance ledger
// keyed by (holder, certificate id). Mint and burn are only reachable through
// the institution issuance flow, gated on the factory authorization predicate.
type RegistryService struct {
	db  *database.Database
	cfg *config.Config

	mu         sync.Mutex
	authorizer AccountAuthorizer
}

// NewRegistryService creates a new registry service
func NewRegistryService(db *database.Database, cfg *config.Config) *RegistryService {
	return &RegistryService{
		db:  db,
		cfg: cfg,
	}
}

// InitializeFactory wires the factory authorization predicate into the
// registry. It can be called exactly once.
func (s *RegistryService) InitializeFactory(authorizer AccountAuthorizer) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.authorizer != nil {
		return conflict("Factory already initialized")
	}
	if authorizer == nil {
		return validation("Invalid address")
	}

	s.authorizer = authorizer
	return nil
}

// AssertMintAuthorized checks that the given institution account is allowed to
// mint or burn certificates.
func (s *RegistryService) AssertMintAuthorized(accountAddress string) error {
	s.mu.Lock()
	authorizer := s.authorizer
	s.mu.Unlock()

	if authorizer == nil {
		return conflict("Factory not initialized")
	}

	authorized, err := authorizer.IsAccountAuthorized(accountAddress)
	if err != nil {
		return fmt.Errorf("failed to check account authorization: %w", err)
	}
	if !authorized {
		return authorization("Not authorized")
	}
	return nil
}

// BalanceOf returns the certificate balance for (holder, certificate id)
func (s *RegistryService) BalanceOf(holder string, certificateID int64) (int64, error) {
	return s.db.GetBalance(holder, certificateID)
}

// GetCertificateType returns the registered certificate type for an id
func (s *RegistryService) GetCertificateType(certificateID int64) (*models.CertificateType, error) {
	ct, err := s.db.GetCertificateType(certificateID)
	if err != nil {
		return nil, notFound("Certificate type does not exist")
	}
	return ct, nil
}

// URI returns the metadata URI for a certificate id. The content behind it is
// opaque to the core.
func (s *RegistryService) URI(certificateID int64) string {
	return s.cfg.Platform.MetadataBaseURI + strconv.FormatInt(certificateID, 10)
}
