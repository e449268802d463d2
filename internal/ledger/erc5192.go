package ledger

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ERC5192Ledger is a soulbound variant of the 721 ledger: every minted
// token is permanently locked to its claimant.
type ERC5192Ledger struct {
	book *ownerBook
}

func NewERC5192Ledger() *ERC5192Ledger {
	return &ERC5192Ledger{book: newOwnerBook()}
}

func (l *ERC5192Ledger) Standard() Standard { return StandardERC5192 }

func (l *ERC5192Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	return l.book.mint(document, slot, to, amount)
}

func (l *ERC5192Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balanceOf(document, slot, owner)
}

func (l *ERC5192Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	return l.book.ownerOf(document, slot)
}

// Locked reports the 5192 lock status; always true for minted tokens.
func (l *ERC5192Ledger) Locked(document common.Hash, slot uint64) bool {
	_, minted := l.book.ownerOf(document, slot)
	return minted
}
