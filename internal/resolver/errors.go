package resolver

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrZeroAddress is returned when a named reservation targets the zero address
	ErrZeroAddress = errors.New("recipient is the zero address")
	// ErrZeroAmount is returned when a reservation carries no value
	ErrZeroAmount = errors.New("reserved amount must be positive")
	// ErrSlotRequired is returned when a multi-slot document operation omits the slot
	ErrSlotRequired = errors.New("slot id is required for multi-slot documents")
	// ErrTokenNotFound is returned when no reservation exists for the slot
	ErrTokenNotFound = errors.New("no reservation for slot")
	// ErrAlreadyReserved is returned when the slot already has a reservation
	ErrAlreadyReserved = errors.New("slot already reserved")
	// ErrAlreadyClaimed is returned when the slot has been consumed
	ErrAlreadyClaimed = errors.New("slot already claimed")
)

// TokenNotFoundError carries the slot that had no reservation.
type TokenNotFoundError struct {
	Document common.Hash
	Slot     uint64
}

func (e *TokenNotFoundError) Error() string {
	return fmt.Sprintf("no reservation for document %s slot %d", e.Document, e.Slot)
}

func (e *TokenNotFoundError) Unwrap() error { return ErrTokenNotFound }

// AlreadyReservedError carries the conflicting slot.
type AlreadyReservedError struct {
	Document common.Hash
	Slot     uint64
}

func (e *AlreadyReservedError) Error() string {
	return fmt.Sprintf("document %s slot %d is already reserved", e.Document, e.Slot)
}

func (e *AlreadyReservedError) Unwrap() error { return ErrAlreadyReserved }

// AlreadyClaimedError carries the claimant that consumed the slot.
type AlreadyClaimedError struct {
	Document common.Hash
	Slot     uint64
	Claimant common.Address
}

func (e *AlreadyClaimedError) Error() string {
	return fmt.Sprintf("document %s slot %d was already claimed by %s", e.Document, e.Slot, e.Claimant)
}

func (e *AlreadyClaimedError) Unwrap() error { return ErrAlreadyClaimed }

// NotReservedForYouError is returned when a named reservation is claimed by
// someone other than its recipient.
type NotReservedForYouError struct {
	Document    common.Hash
	Slot        uint64
	ReservedFor common.Address
	Caller      common.Address
}

func (e *NotReservedForYouError) Error() string {
	return fmt.Sprintf("document %s slot %d is reserved for %s, not %s", e.Document, e.Slot, e.ReservedFor, e.Caller)
}

// OnlyIssuerCanCancelError is returned when cancel is attempted by anyone
// but the document's registered issuer.
type OnlyIssuerCanCancelError struct {
	Document common.Hash
	Issuer   common.Address
	Caller   common.Address
}

func (e *OnlyIssuerCanCancelError) Error() string {
	return fmt.Sprintf("only issuer %s may cancel reservations for document %s, not %s", e.Issuer, e.Document, e.Caller)
}

// LabelTooLargeError is returned for oversized encrypted labels.
type LabelTooLargeError struct {
	Size int
	Max  int
}

func (e *LabelTooLargeError) Error() string {
	return fmt.Sprintf("encrypted label of %d bytes exceeds the %d byte cap", e.Size, e.Max)
}

// InsufficientReservedAmountError is returned when the claim amount exceeds
// what the reservation holds.
type InsufficientReservedAmountError struct {
	Requested *big.Int
	Available *big.Int
}

func (e *InsufficientReservedAmountError) Error() string {
	return fmt.Sprintf("requested %s exceeds reserved amount %s", e.Requested, e.Available)
}
