package resolver

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Reserve creates a named reservation: only recipient will be able to claim
// the slot. Slot 0 means "allocate the next id". Role checks happen in the
// service layer before the engine is entered.
func (e *Engine) Reserve(ctx context.Context, caller common.Address, document common.Hash, slot uint64, recipient common.Address, amount *big.Int) (uint64, error) {
	if recipient == (common.Address{}) {
		return 0, ErrZeroAddress
	}
	return e.reserve(ctx, caller, document, slot, recipient, amount, nil, EventReserved)
}

// ReserveAnonymous creates a reservation claimable by any address that
// presents a valid attestation. The encrypted label is stored verbatim; the
// platform never holds the key.
func (e *Engine) ReserveAnonymous(ctx context.Context, caller common.Address, document common.Hash, slot uint64, amount *big.Int, encryptedLabel []byte) (uint64, error) {
	if len(encryptedLabel) > e.cfg.MaxLabelLen {
		return 0, &LabelTooLargeError{Size: len(encryptedLabel), Max: e.cfg.MaxLabelLen}
	}
	return e.reserve(ctx, caller, document, slot, common.Address{}, amount, encryptedLabel, EventReservedAnonymous)
}

func (e *Engine) reserve(ctx context.Context, caller common.Address, document common.Hash, slot uint64, recipient common.Address, amount *big.Int, encryptedLabel []byte, eventType EventType) (uint64, error) {
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrZeroAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.cfg.SingleSlot {
		if active := e.activeSlot[document]; active != 0 {
			return 0, &AlreadyReservedError{Document: document, Slot: active}
		}
	}

	if slot == 0 {
		slot = e.allocateSlot(document)
	} else {
		if _, exists := e.reservations[slotKey{document: document, slot: slot}]; exists {
			return 0, &AlreadyReservedError{Document: document, Slot: slot}
		}
		// keep allocation monotone past explicitly chosen ids
		if next := e.nextSlot[document]; slot >= next {
			e.nextSlot[document] = slot + 1
		}
	}

	now := e.now()
	label := make([]byte, len(encryptedLabel))
	copy(label, encryptedLabel)

	e.reservations[slotKey{document: document, slot: slot}] = &Reservation{
		Document:       document,
		Slot:           slot,
		Amount:         new(big.Int).Set(amount),
		ReservedFor:    recipient,
		EncryptedLabel: label,
		ReservedAt:     now,
	}
	if e.cfg.SingleSlot {
		e.activeSlot[document] = slot
	}

	totals := e.totalsFor(document)
	totals.EverReserved.Add(totals.EverReserved, amount)
	totals.Remaining.Add(totals.Remaining, amount)

	e.emit(ctx, Event{
		Type:       eventType,
		Document:   document,
		Slot:       slot,
		Actor:      caller,
		Recipient:  recipient,
		Amount:     new(big.Int).Set(amount),
		OccurredAt: now,
	})
	return slot, nil
}
