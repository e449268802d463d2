package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ownerBook is the shared one-owner-per-slot bookkeeping used by the
// non-fungible ledgers (721 and its derivatives).
type ownerBook struct {
	mu     sync.RWMutex
	owners map[slotKey]common.Address
}

func newOwnerBook() *ownerBook {
	return &ownerBook{owners: make(map[slotKey]common.Address)}
}

func (b *ownerBook) mint(document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	if amount != nil && amount.Cmp(big.NewInt(1)) != 0 {
		return ErrNonFungibleAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	key := slotKey{document: document, slot: slot}
	if _, exists := b.owners[key]; exists {
		return ErrSlotOccupied
	}
	b.owners[key] = to
	return nil
}

func (b *ownerBook) ownerOf(document common.Hash, slot uint64) (common.Address, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	owner, ok := b.owners[slotKey{document: document, slot: slot}]
	return owner, ok
}

func (b *ownerBook) transfer(document common.Hash, slot uint64, from, to common.Address) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := slotKey{document: document, slot: slot}
	if b.owners[key] != from {
		return ErrInsufficientBalance
	}
	b.owners[key] = to
	return nil
}

func (b *ownerBook) balanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	if current, ok := b.ownerOf(document, slot); ok && current == owner {
		return big.NewInt(1)
	}
	return new(big.Int)
}

// ERC721Ledger keeps one owner per (document, token id) slot.
type ERC721Ledger struct {
	book *ownerBook
}

func NewERC721Ledger() *ERC721Ledger {
	return &ERC721Ledger{book: newOwnerBook()}
}

func (l *ERC721Ledger) Standard() Standard { return StandardERC721 }

func (l *ERC721Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	return l.book.mint(document, slot, to, amount)
}

func (l *ERC721Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balanceOf(document, slot, owner)
}

// OwnerOf returns the owner of a minted slot.
func (l *ERC721Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	return l.book.ownerOf(document, slot)
}

func (l *ERC721Ledger) Transfer(_ context.Context, document common.Hash, slot uint64, from, to common.Address, _ *big.Int) error {
	return l.book.transfer(document, slot, from, to)
}
