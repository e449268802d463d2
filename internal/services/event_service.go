package services

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/resolver"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"
)

// EventService persists the resolver's audit events into the token_events
// table and serves event history queries. It is the engine's EventSink;
// the engine treats append failures as non-fatal, so a database outage
// degrades the audit trail, never the state machine.
type EventService struct {
	queries db.Querier
	logger  *zap.Logger
}

// NewEventService creates a new instance of EventService
func NewEventService(database db.Querier) *EventService {
	return &EventService{
		queries: database,
		logger:  logger.Log,
	}
}

// Append writes one audit event.
func (s *EventService) Append(ctx context.Context, event resolver.Event) error {
	amount := "0"
	if event.Amount != nil {
		amount = event.Amount.String()
	}

	recipient := pgtype.Text{}
	if event.Recipient != (common.Address{}) {
		recipient = pgtype.Text{String: event.Recipient.Hex(), Valid: true}
	}
	attestationUID := pgtype.Text{}
	if event.AttestationUID != (common.Hash{}) {
		attestationUID = pgtype.Text{String: event.AttestationUID.Hex(), Valid: true}
	}

	_, err := s.queries.InsertTokenEvent(ctx, db.InsertTokenEventParams{
		DocumentHash:     event.Document.Hex(),
		EventType:        string(event.Type),
		Slot:             int64(event.Slot),
		ActorAddress:     event.Actor.Hex(),
		RecipientAddress: recipient,
		Amount:           amount,
		AttestationUid:   attestationUID,
		OccurredAt:       pgtype.Timestamptz{Time: event.OccurredAt, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("failed to insert token event: %w", err)
	}

	s.logger.Debug("Recorded token event",
		zap.String("event_type", string(event.Type)),
		zap.String("document", event.Document.Hex()),
		zap.Uint64("slot", event.Slot))
	return nil
}

// History returns the full event log for a document in occurrence order.
func (s *EventService) History(ctx context.Context, document common.Hash) ([]db.TokenEvent, error) {
	events, err := s.queries.ListTokenEventsByDocument(ctx, document.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to list token events for document %s: %w", document, err)
	}
	return events, nil
}
