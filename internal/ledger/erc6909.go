package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ERC6909Ledger is a minimal multi-token ledger: per-slot fungible balances
// with global operator approvals, without the 1155 receiver-callback surface.
type ERC6909Ledger struct {
	book *balanceBook

	mu        sync.RWMutex
	operators map[common.Address]map[common.Address]bool
}

func NewERC6909Ledger() *ERC6909Ledger {
	return &ERC6909Ledger{
		book:      newBalanceBook(),
		operators: make(map[common.Address]map[common.Address]bool),
	}
}

func (l *ERC6909Ledger) Standard() Standard { return StandardERC6909 }

func (l *ERC6909Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	l.book.credit(document, slot, to, amount)
	return nil
}

func (l *ERC6909Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balance(document, slot, owner)
}

func (l *ERC6909Ledger) Transfer(_ context.Context, document common.Hash, slot uint64, from, to common.Address, amount *big.Int) error {
	if err := l.book.debit(document, slot, from, amount); err != nil {
		return err
	}
	l.book.credit(document, slot, to, amount)
	return nil
}

// SetOperator grants or revokes operator rights over all of owner's balances.
func (l *ERC6909Ledger) SetOperator(owner, operator common.Address, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.operators[owner] == nil {
		l.operators[owner] = make(map[common.Address]bool)
	}
	l.operators[owner][operator] = approved
}

// IsOperator reports whether operator may move owner's balances.
func (l *ERC6909Ledger) IsOperator(owner, operator common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.operators[owner][operator]
}
