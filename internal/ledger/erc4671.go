package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ERC4671Ledger is a non-tradable badge ledger. Badges cannot move but can
// be invalidated by the platform without changing ownership.
type ERC4671Ledger struct {
	book *ownerBook

	mu      sync.RWMutex
	invalid map[slotKey]bool
}

func NewERC4671Ledger() *ERC4671Ledger {
	return &ERC4671Ledger{
		book:    newOwnerBook(),
		invalid: make(map[slotKey]bool),
	}
}

func (l *ERC4671Ledger) Standard() Standard { return StandardERC4671 }

func (l *ERC4671Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	return l.book.mint(document, slot, to, amount)
}

func (l *ERC4671Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balanceOf(document, slot, owner)
}

func (l *ERC4671Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	return l.book.ownerOf(document, slot)
}

// Invalidate marks a badge invalid without removing it from its holder.
func (l *ERC4671Ledger) Invalidate(document common.Hash, slot uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.invalid[slotKey{document: document, slot: slot}] = true
}

// IsValid reports whether a minted badge is still valid.
func (l *ERC4671Ledger) IsValid(document common.Hash, slot uint64) bool {
	if _, minted := l.book.ownerOf(document, slot); !minted {
		return false
	}
	l.mu.RLock()
	defer l.mu.RUnlock()
	return !l.invalid[slotKey{document: document, slot: slot}]
}
