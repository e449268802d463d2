package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ERC1155Ledger keeps fungible amounts per (document, token id) slot with
// operator approvals.
type ERC1155Ledger struct {
	book *balanceBook

	mu        sync.RWMutex
	approvals map[common.Address]map[common.Address]bool
}

func NewERC1155Ledger() *ERC1155Ledger {
	return &ERC1155Ledger{
		book:      newBalanceBook(),
		approvals: make(map[common.Address]map[common.Address]bool),
	}
}

func (l *ERC1155Ledger) Standard() Standard { return StandardERC1155 }

func (l *ERC1155Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	l.book.credit(document, slot, to, amount)
	return nil
}

func (l *ERC1155Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balance(document, slot, owner)
}

func (l *ERC1155Ledger) Transfer(_ context.Context, document common.Hash, slot uint64, from, to common.Address, amount *big.Int) error {
	if err := l.book.debit(document, slot, from, amount); err != nil {
		return err
	}
	l.book.credit(document, slot, to, amount)
	return nil
}

// SetApprovalForAll lets operator move any of owner's balances.
func (l *ERC1155Ledger) SetApprovalForAll(owner, operator common.Address, approved bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.approvals[owner] == nil {
		l.approvals[owner] = make(map[common.Address]bool)
	}
	l.approvals[owner][operator] = approved
}

// IsApprovedForAll reports whether operator may move owner's balances.
func (l *ERC1155Ledger) IsApprovedForAll(owner, operator common.Address) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.approvals[owner][operator]
}
