package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/resolver"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

var (
	// ErrDocumentNotRegistered is returned when no issuer has been set for a document
	ErrDocumentNotRegistered = errors.New("document is not registered")
	// ErrIssuerAlreadySet is returned when a document is registered twice.
	// The issuer binding is immutable: re-pointing it would let a new party
	// mint attestations against existing reservations.
	ErrIssuerAlreadySet = errors.New("document issuer already set")
	// ErrInvalidIssuer is returned when registration carries a zero issuer address
	ErrInvalidIssuer = errors.New("issuer address must not be zero")
)

// DocumentService owns the document -> issuer registry. It is the issuer
// authority consulted on every claim verification and every cancel, backed
// by the documents table with a read-through cache (the binding never
// changes after insert, so cached entries cannot go stale).
type DocumentService struct {
	queries db.Querier
	logger  *zap.Logger

	mu          sync.RWMutex
	issuerCache map[common.Hash]common.Address
}

// NewDocumentService creates a new instance of DocumentService
func NewDocumentService(database db.Querier) *DocumentService {
	return &DocumentService{
		queries:     database,
		logger:      logger.Log,
		issuerCache: make(map[common.Hash]common.Address),
	}
}

// RegisterDocumentParams represents the parameters for registering a document
type RegisterDocumentParams struct {
	DocumentHash common.Hash
	Issuer       common.Address
	Standard     ledger.Standard
	Policy       resolver.CredentialPolicy
	Deadline     *time.Time
}

// RegisterDocument binds a document hash to its issuer, token standard and
// credential policy. The binding is set-once.
func (s *DocumentService) RegisterDocument(ctx context.Context, params RegisterDocumentParams) (db.Document, error) {
	if params.Issuer == (common.Address{}) {
		return db.Document{}, ErrInvalidIssuer
	}
	if _, err := ledger.New(params.Standard); err != nil {
		return db.Document{}, err
	}
	if params.Policy == "" {
		params.Policy = resolver.DefaultConfig(params.Standard).Policy
	}

	_, err := s.queries.GetDocumentByHash(ctx, params.DocumentHash.Hex())
	if err == nil {
		return db.Document{}, fmt.Errorf("%w: %s", ErrIssuerAlreadySet, params.DocumentHash)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return db.Document{}, fmt.Errorf("failed to check existing document: %w", err)
	}

	deadline := pgtype.Timestamptz{}
	if params.Deadline != nil {
		deadline = pgtype.Timestamptz{Time: *params.Deadline, Valid: true}
	}

	document, err := s.queries.CreateDocument(ctx, db.CreateDocumentParams{
		DocumentHash:     params.DocumentHash.Hex(),
		IssuerAddress:    params.Issuer.Hex(),
		Standard:         string(params.Standard),
		CredentialPolicy: string(params.Policy),
		Deadline:         deadline,
	})
	if err != nil {
		return db.Document{}, fmt.Errorf("failed to register document: %w", err)
	}

	s.mu.Lock()
	s.issuerCache[params.DocumentHash] = params.Issuer
	s.mu.Unlock()

	s.logger.Info("Registered document",
		zap.String("document", params.DocumentHash.Hex()),
		zap.String("issuer", params.Issuer.Hex()),
		zap.String("standard", string(params.Standard)))
	return document, nil
}

// IssuerOf resolves the registered issuer for a document. Satisfies the
// issuer registry consulted by the capability verifier and the cancel path.
func (s *DocumentService) IssuerOf(ctx context.Context, documentID common.Hash) (common.Address, error) {
	s.mu.RLock()
	issuer, ok := s.issuerCache[documentID]
	s.mu.RUnlock()
	if ok {
		return issuer, nil
	}

	document, err := s.queries.GetDocumentByHash(ctx, documentID.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.Address{}, fmt.Errorf("%w: %s", ErrDocumentNotRegistered, documentID)
		}
		return common.Address{}, fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}

	issuer = common.HexToAddress(document.IssuerAddress)
	s.mu.Lock()
	s.issuerCache[documentID] = issuer
	s.mu.Unlock()
	return issuer, nil
}

// GetDocument returns the registered record for a document hash.
func (s *DocumentService) GetDocument(ctx context.Context, documentID common.Hash) (db.Document, error) {
	document, err := s.queries.GetDocumentByHash(ctx, documentID.Hex())
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.Document{}, fmt.Errorf("%w: %s", ErrDocumentNotRegistered, documentID)
		}
		return db.Document{}, fmt.Errorf("failed to look up document %s: %w", documentID, err)
	}
	return document, nil
}

// ListDocuments returns all registered documents, newest first.
func (s *DocumentService) ListDocuments(ctx context.Context) ([]db.Document, error) {
	documents, err := s.queries.ListDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list documents: %w", err)
	}
	return documents, nil
}
