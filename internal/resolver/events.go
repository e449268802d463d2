package resolver

import (
	"context"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// EventType labels a state transition in the audit trail.
type EventType string

const (
	EventReserved          EventType = "reserved"
	EventReservedAnonymous EventType = "reserved_anonymous"
	EventClaimed           EventType = "claimed"
	EventCancelled         EventType = "cancelled"
	EventCredentialIssued  EventType = "credential_issued"
)

// Event is the structured audit record emitted on every state transition.
// The event log is the canonical off-chain-indexable trail; there is no
// separate history API inside the engine.
type Event struct {
	Type           EventType
	Document       common.Hash
	Slot           uint64
	Actor          common.Address
	Recipient      common.Address
	Amount         *big.Int
	AttestationUID common.Hash
	OccurredAt     time.Time
}

// EventSink receives audit events. Sinks must not call back into the engine.
type EventSink interface {
	Append(ctx context.Context, event Event) error
}

// EventSinkFunc adapts a function to the EventSink interface.
type EventSinkFunc func(ctx context.Context, event Event) error

func (f EventSinkFunc) Append(ctx context.Context, event Event) error {
	return f(ctx, event)
}
