package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Cancel deletes an unclaimed reservation. Only the document's registered
// issuer may cancel, a stricter check than the Executor role that created
// the reservation. Claimed slots are never cancellable: claims are
// irreversible by design.
func (e *Engine) Cancel(ctx context.Context, caller common.Address, document common.Hash, slot uint64) error {
	issuer, err := e.issuers.IssuerOf(ctx, document)
	if err != nil {
		return fmt.Errorf("failed to resolve issuer for document %s: %w", document, err)
	}
	if caller != issuer {
		return &OnlyIssuerCanCancelError{Document: document, Issuer: issuer, Caller: caller}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, err := e.resolveSlot(document, slot)
	if err != nil {
		return err
	}

	key := slotKey{document: document, slot: resolved}
	reservation, ok := e.reservations[key]
	if !ok {
		return &TokenNotFoundError{Document: document, Slot: resolved}
	}
	if reservation.Claimed {
		return &AlreadyClaimedError{Document: document, Slot: resolved, Claimant: reservation.Claimant}
	}

	delete(e.reservations, key)
	if e.activeSlot[document] == resolved {
		delete(e.activeSlot, document)
	}

	totals := e.totalsFor(document)
	totals.Remaining.Sub(totals.Remaining, reservation.Amount)
	totals.Cancelled.Add(totals.Cancelled, reservation.Amount)

	e.emit(ctx, Event{
		Type:       EventCancelled,
		Document:   document,
		Slot:       resolved,
		Actor:      caller,
		Recipient:  reservation.ReservedFor,
		Amount:     new(big.Int).Set(reservation.Amount),
		OccurredAt: e.now(),
	})
	return nil
}
