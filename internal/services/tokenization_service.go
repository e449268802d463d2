package services

import (
	"context"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/accesscontrol"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/resolver"
	"go.uber.org/zap"
)

// TokenizationService is the platform entry point for reserve, claim and
// cancel. It resolves a registered document to the engine for its token
// standard, enforces role membership and the pause flag, and delegates the
// state machine itself to the resolver core. One engine exists per
// (standard, credential policy, deadline) configuration, so every document
// runs under the policy stored at registration; documents partition engine
// state by document hash.
type TokenizationService struct {
	registry    *accesscontrol.Registry
	documents   *DocumentService
	verifier    resolver.CapabilityChecker
	credentials resolver.CredentialIssuer
	events      resolver.EventSink
	logger      *zap.Logger

	mu      sync.Mutex
	engines map[engineKey]*resolver.Engine
}

// engineKey identifies one engine configuration. Documents sharing a
// standard but registered with different policies or deadlines get
// separate engines.
type engineKey struct {
	standard ledger.Standard
	policy   resolver.CredentialPolicy
	deadline int64
}

// NewTokenizationService creates a new instance of TokenizationService
func NewTokenizationService(
	registry *accesscontrol.Registry,
	documents *DocumentService,
	verifier resolver.CapabilityChecker,
	credentials resolver.CredentialIssuer,
	events resolver.EventSink,
) *TokenizationService {
	return &TokenizationService{
		registry:    registry,
		documents:   documents,
		verifier:    verifier,
		credentials: credentials,
		events:      events,
		logger:      logger.Log,
		engines:     make(map[engineKey]*resolver.Engine),
	}
}

// Registry exposes the access-control registry for role administration.
func (s *TokenizationService) Registry() *accesscontrol.Registry {
	return s.registry
}

// Reserve creates a named reservation on the document's engine. Caller
// must hold Executor.
func (s *TokenizationService) Reserve(ctx context.Context, caller common.Address, document common.Hash, slot uint64, recipient common.Address, amount *big.Int) (uint64, error) {
	if err := s.registry.RequireActive(); err != nil {
		return 0, err
	}
	if err := s.registry.RequireRole(caller, accesscontrol.RoleExecutor); err != nil {
		return 0, err
	}
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return 0, err
	}
	return engine.Reserve(ctx, caller, document, slot, recipient, amount)
}

// ReserveAnonymous creates an open reservation with an optional encrypted
// label. Caller must hold Executor.
func (s *TokenizationService) ReserveAnonymous(ctx context.Context, caller common.Address, document common.Hash, slot uint64, amount *big.Int, encryptedLabel []byte) (uint64, error) {
	if err := s.registry.RequireActive(); err != nil {
		return 0, err
	}
	if err := s.registry.RequireRole(caller, accesscontrol.RoleExecutor); err != nil {
		return 0, err
	}
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return 0, err
	}
	return engine.ReserveAnonymous(ctx, caller, document, slot, amount, encryptedLabel)
}

// Claim consumes a reservation. No role required: the attestation is the
// claimant's authorization and the engine verifies it.
func (s *TokenizationService) Claim(ctx context.Context, caller common.Address, document common.Hash, slot uint64, attestationUID common.Hash) (*big.Int, error) {
	if err := s.registry.RequireActive(); err != nil {
		return nil, err
	}
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return nil, err
	}

	amount, err := engine.Claim(ctx, caller, document, slot, attestationUID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Claim settled",
		zap.String("document", document.Hex()),
		zap.String("claimant", caller.Hex()),
		zap.String("amount", amount.String()))
	return amount, nil
}

// Cancel deletes an unclaimed reservation. The engine enforces that only
// the document's issuer may cancel.
func (s *TokenizationService) Cancel(ctx context.Context, caller common.Address, document common.Hash, slot uint64) error {
	if err := s.registry.RequireActive(); err != nil {
		return err
	}
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return err
	}
	return engine.Cancel(ctx, caller, document, slot)
}

// TriggerCredentials runs manual full-set credential issuance. Caller must
// hold Operator.
func (s *TokenizationService) TriggerCredentials(ctx context.Context, caller common.Address, document common.Hash) ([]common.Address, error) {
	if err := s.registry.RequireActive(); err != nil {
		return nil, err
	}
	if err := s.registry.RequireRole(caller, accesscontrol.RoleOperator); err != nil {
		return nil, err
	}
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return nil, err
	}
	return engine.TriggerCredentials(ctx, document)
}

// GetReservation returns the reservation at (document, slot).
func (s *TokenizationService) GetReservation(ctx context.Context, document common.Hash, slot uint64) (resolver.Reservation, error) {
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return resolver.Reservation{}, err
	}
	return engine.GetReservation(document, slot)
}

// Holders returns the document's holder set in claim order.
func (s *TokenizationService) Holders(ctx context.Context, document common.Hash) ([]common.Address, error) {
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return nil, err
	}
	return engine.Holders(document), nil
}

// Totals returns the document's conservation counters.
func (s *TokenizationService) Totals(ctx context.Context, document common.Hash) (resolver.Totals, error) {
	engine, err := s.engineFor(ctx, document)
	if err != nil {
		return resolver.Totals{}, err
	}
	return engine.TotalsFor(document), nil
}

// engineFor resolves the document to the engine for its registered
// configuration, creating the engine on first use.
func (s *TokenizationService) engineFor(ctx context.Context, document common.Hash) (*resolver.Engine, error) {
	record, err := s.documents.GetDocument(ctx, document)
	if err != nil {
		return nil, err
	}
	standard := ledger.Standard(record.Standard)

	key := engineKey{
		standard: standard,
		policy:   resolver.CredentialPolicy(record.CredentialPolicy),
	}
	if record.Deadline.Valid {
		key.deadline = record.Deadline.Time.Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if engine, ok := s.engines[key]; ok {
		return engine, nil
	}

	valueLedger, err := ledger.New(standard)
	if err != nil {
		return nil, fmt.Errorf("document %s registered with unsupported standard: %w", document, err)
	}

	cfg := resolver.DefaultConfig(standard)
	cfg.Policy = key.policy
	if record.Deadline.Valid {
		cfg.Deadline = record.Deadline.Time
	}

	engine := resolver.NewEngine(cfg, valueLedger, s.verifier, s.documents, s.credentials, s.events)
	s.engines[key] = engine
	s.logger.Info("Created resolver engine",
		zap.String("standard", string(standard)),
		zap.String("policy", record.CredentialPolicy))
	return engine, nil
}
