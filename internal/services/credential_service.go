package services

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/queue"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// CredentialPublisher enqueues credential work for asynchronous issuance.
// Implemented by queue.Publisher.
type CredentialPublisher interface {
	PublishCredentialRequest(ctx context.Context, msg queue.CredentialMessage) error
}

// CredentialService issues trust-credential attestations to token holders.
// With a publisher configured, issuance is handed to the SQS worker;
// otherwise attestations are written directly to the oracle and recorded
// in the credentials table. Either way the engine treats the whole path
// as best effort.
type CredentialService struct {
	oracle    eas.Oracle
	schema    common.Hash
	queries   db.Querier
	publisher CredentialPublisher
	logger    *zap.Logger
	now       func() time.Time
}

// NewCredentialService creates a new instance of CredentialService bound to
// the trust-credential schema.
func NewCredentialService(oracle eas.Oracle, schema common.Hash, database db.Querier) *CredentialService {
	return &CredentialService{
		oracle:  oracle,
		schema:  schema,
		queries: database,
		logger:  logger.Log,
		now:     time.Now,
	}
}

// WithPublisher switches the service to asynchronous issuance through SQS.
func (s *CredentialService) WithPublisher(publisher CredentialPublisher) *CredentialService {
	s.publisher = publisher
	return s
}

// IssueCredentials issues one trust credential per holder for the document.
// Returns the first error encountered; partial success is expected and the
// caller logs rather than retries.
func (s *CredentialService) IssueCredentials(ctx context.Context, document common.Hash, holders []common.Address) error {
	if len(holders) == 0 {
		return nil
	}

	if s.publisher != nil {
		addresses := make([]string, len(holders))
		for i, holder := range holders {
			addresses[i] = holder.Hex()
		}
		return s.publisher.PublishCredentialRequest(ctx, queue.CredentialMessage{
			DocumentHash: document.Hex(),
			Holders:      addresses,
			RequestedAt:  s.now().Unix(),
		})
	}

	var firstErr error
	for _, holder := range holders {
		uid, err := s.issueOne(ctx, document, holder)
		if err != nil {
			s.logger.Warn("Failed to issue trust credential",
				zap.String("document", document.Hex()),
				zap.String("holder", holder.Hex()),
				zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		// audit record only, the attestation itself is the credential
		if _, err := s.queries.CreateCredential(ctx, db.CreateCredentialParams{
			DocumentHash:   document.Hex(),
			HolderAddress:  holder.Hex(),
			AttestationUid: uid.Hex(),
			IssuedAt:       pgtype.Timestamptz{Time: s.now(), Valid: true},
		}); err != nil {
			s.logger.Warn("Failed to record issued credential",
				zap.String("document", document.Hex()),
				zap.String("holder", holder.Hex()),
				zap.Error(err))
		}
	}
	return firstErr
}

// ListCredentials returns the audit records of issued credentials.
func (s *CredentialService) ListCredentials(ctx context.Context, document common.Hash) ([]db.Credential, error) {
	credentials, err := s.queries.ListCredentialsByDocument(ctx, document.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to list credentials for document %s: %w", document, err)
	}
	return credentials, nil
}

func (s *CredentialService) issueOne(ctx context.Context, document common.Hash, holder common.Address) (common.Hash, error) {
	data, err := eas.EncodePayload(eas.CapabilityPayload{
		DocumentHash: document,
		Capabilities: eas.CapabilityOwnDocument,
	})
	if err != nil {
		return common.Hash{}, err
	}

	uid, err := s.oracle.Attest(ctx, eas.AttestationRequest{
		Schema:    s.schema,
		Recipient: holder,
		Revocable: true,
		Data:      data,
	})
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to attest credential: %w", err)
	}
	return uid, nil
}
