package ledger

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ErrValueSlotMismatch is returned when value moves between tokens of
// different 3525 value slots.
var ErrValueSlotMismatch = errors.New("tokens belong to different value slots")

type semiFungibleToken struct {
	owner     common.Address
	valueSlot uint64
	value     *big.Int
}

// ERC3525Ledger is a semi-fungible ledger: each token id carries a numeric
// value and belongs to a value slot; value moves freely between tokens of
// the same value slot.
type ERC3525Ledger struct {
	mu     sync.RWMutex
	tokens map[slotKey]*semiFungibleToken
}

func NewERC3525Ledger() *ERC3525Ledger {
	return &ERC3525Ledger{tokens: make(map[slotKey]*semiFungibleToken)}
}

func (l *ERC3525Ledger) Standard() Standard { return StandardERC3525 }

func (l *ERC3525Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := slotKey{document: document, slot: slot}
	if _, exists := l.tokens[key]; exists {
		return ErrSlotOccupied
	}
	value := amount
	if value == nil {
		value = big.NewInt(1)
	}
	l.tokens[key] = &semiFungibleToken{
		owner:     to,
		valueSlot: 1, // default value slot until assigned
		value:     new(big.Int).Set(value),
	}
	return nil
}

// BalanceOf returns the value held by owner in the token at slot.
func (l *ERC3525Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	token, ok := l.tokens[slotKey{document: document, slot: slot}]
	if !ok || token.owner != owner {
		return new(big.Int)
	}
	return new(big.Int).Set(token.value)
}

func (l *ERC3525Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	token, ok := l.tokens[slotKey{document: document, slot: slot}]
	if !ok {
		return common.Address{}, false
	}
	return token.owner, true
}

// AssignValueSlot moves a token into a value slot group.
func (l *ERC3525Ledger) AssignValueSlot(document common.Hash, slot, valueSlot uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if token, ok := l.tokens[slotKey{document: document, slot: slot}]; ok {
		token.valueSlot = valueSlot
	}
}

// TransferValue moves value between two tokens of the same value slot.
func (l *ERC3525Ledger) TransferValue(document common.Hash, fromSlot, toSlot uint64, amount *big.Int) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	from, ok := l.tokens[slotKey{document: document, slot: fromSlot}]
	if !ok {
		return ErrInsufficientBalance
	}
	to, ok := l.tokens[slotKey{document: document, slot: toSlot}]
	if !ok {
		return ErrInsufficientBalance
	}
	if from.valueSlot != to.valueSlot {
		return ErrValueSlotMismatch
	}
	if from.value.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}

	from.value = new(big.Int).Sub(from.value, amount)
	to.value = new(big.Int).Add(to.value, amount)
	return nil
}
