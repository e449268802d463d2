package resolver

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/eas"
	"go.uber.org/zap"
)

// Claim consumes a reservation exactly once. The caller must present an
// attestation granting CLAIM_TOKEN over the document, issued by the
// document's registered issuer. Verification runs before any state is
// touched, so a failing claim leaves the engine unchanged. On success the
// underlying value is minted to the caller and the caller joins the
// document's holder set.
func (e *Engine) Claim(ctx context.Context, caller common.Address, document common.Hash, slot uint64, attestationUID common.Hash) (*big.Int, error) {
	e.mu.Lock()

	resolved, err := e.resolveSlot(document, slot)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	key := slotKey{document: document, slot: resolved}
	reservation, ok := e.reservations[key]
	if !ok {
		e.mu.Unlock()
		return nil, &TokenNotFoundError{Document: document, Slot: resolved}
	}
	if reservation.Claimed {
		claimant := reservation.Claimant
		e.mu.Unlock()
		return nil, &AlreadyClaimedError{Document: document, Slot: resolved, Claimant: claimant}
	}
	if !reservation.Anonymous() && reservation.ReservedFor != caller {
		reservedFor := reservation.ReservedFor
		e.mu.Unlock()
		return nil, &NotReservedForYouError{Document: document, Slot: resolved, ReservedFor: reservedFor, Caller: caller}
	}

	// Verifier is a pure read over the oracle; holding the engine mutex
	// across it keeps the claimed check and the claimed set atomic.
	payload, err := e.verifier.Verify(ctx, document, eas.CapabilityClaimToken, attestationUID)
	if err != nil {
		e.mu.Unlock()
		return nil, err
	}

	amount := reservation.Amount
	if payload.Amount != nil && payload.Amount.Sign() > 0 {
		amount = payload.Amount
	}
	if amount.Cmp(reservation.Amount) > 0 {
		available := new(big.Int).Set(reservation.Amount)
		e.mu.Unlock()
		return nil, &InsufficientReservedAmountError{Requested: new(big.Int).Set(amount), Available: available}
	}
	amount = new(big.Int).Set(amount)

	if err := e.ledger.Mint(ctx, document, resolved, caller, amount); err != nil {
		e.mu.Unlock()
		return nil, fmt.Errorf("mint failed for document %s slot %d: %w", document, resolved, err)
	}

	now := e.now()
	reservation.Claimed = true
	reservation.Claimant = caller
	reservation.ClaimedAt = now

	if e.holderSeen[document] == nil {
		e.holderSeen[document] = make(map[common.Address]bool)
	}
	if !e.holderSeen[document][caller] {
		e.holderSeen[document][caller] = true
		e.holders[document] = append(e.holders[document], caller)
	}

	totals := e.totalsFor(document)
	totals.Remaining.Sub(totals.Remaining, amount)
	totals.Claimed.Add(totals.Claimed, amount)

	// a claim consumes its slot entirely; value the payload left behind
	// can never be claimed again, so it is released as cancelled rather
	// than lingering in Remaining
	if residue := new(big.Int).Sub(reservation.Amount, amount); residue.Sign() > 0 {
		totals.Remaining.Sub(totals.Remaining, residue)
		totals.Cancelled.Add(totals.Cancelled, residue)
	}

	e.emit(ctx, Event{
		Type:           EventClaimed,
		Document:       document,
		Slot:           resolved,
		Actor:          caller,
		Amount:         new(big.Int).Set(amount),
		AttestationUID: attestationUID,
		OccurredAt:     now,
	})

	recipients, exhausted := e.credentialRecipients(document, caller)
	e.mu.Unlock()

	// Credential issuance is fire-and-forget: it runs after the claim has
	// committed and its failure never unwinds the claim.
	if len(recipients) > 0 {
		e.issueCredentials(ctx, document, recipients, exhausted)
	}

	return amount, nil
}

// credentialRecipients applies the engine's credential policy after a
// claim. It returns who should receive credentials now and whether this is
// the one-shot full-set issuance (which flips the idempotency flag).
// Caller holds e.mu.
func (e *Engine) credentialRecipients(document common.Hash, claimant common.Address) ([]common.Address, bool) {
	switch e.cfg.Policy {
	case CredentialOnEveryClaim:
		return []common.Address{claimant}, false
	case CredentialOnExhaustion:
		if e.credentialIssued[document] {
			return nil, false
		}
		if e.totals[document].Remaining.Sign() != 0 {
			return nil, false
		}
	case CredentialAfterDeadline:
		if e.credentialIssued[document] {
			return nil, false
		}
		if e.cfg.Deadline.IsZero() || e.now().Before(e.cfg.Deadline) {
			return nil, false
		}
	default:
		return nil, false
	}

	holders := make([]common.Address, len(e.holders[document]))
	copy(holders, e.holders[document])
	e.credentialIssued[document] = true
	return holders, true
}

// issueCredentials is the best-effort side channel. Errors are logged and
// dropped, never retried, never surfaced to the claim that triggered them.
func (e *Engine) issueCredentials(ctx context.Context, document common.Hash, holders []common.Address, fullSet bool) {
	if e.credentials == nil {
		return
	}
	if err := e.credentials.IssueCredentials(ctx, document, holders); err != nil {
		e.logger.Warn("Trust credential issuance failed; claim unaffected",
			zap.String("document", document.Hex()),
			zap.Int("holders", len(holders)),
			zap.Bool("full_set", fullSet),
			zap.Error(err))
		return
	}
	e.emit(ctx, Event{
		Type:       EventCredentialIssued,
		Document:   document,
		OccurredAt: e.now(),
	})
}
