package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

const royaltyDenominator = 10000

type royaltyConfig struct {
	receiver common.Address
	bps      uint16
}

// ERC2981Ledger is a transferable 721 ledger with per-document royalty
// configuration.
type ERC2981Ledger struct {
	book *ownerBook

	mu        sync.RWMutex
	royalties map[common.Hash]royaltyConfig
}

func NewERC2981Ledger() *ERC2981Ledger {
	return &ERC2981Ledger{
		book:      newOwnerBook(),
		royalties: make(map[common.Hash]royaltyConfig),
	}
}

func (l *ERC2981Ledger) Standard() Standard { return StandardERC2981 }

func (l *ERC2981Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	return l.book.mint(document, slot, to, amount)
}

func (l *ERC2981Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balanceOf(document, slot, owner)
}

func (l *ERC2981Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	return l.book.ownerOf(document, slot)
}

func (l *ERC2981Ledger) Transfer(_ context.Context, document common.Hash, slot uint64, from, to common.Address, _ *big.Int) error {
	return l.book.transfer(document, slot, from, to)
}

// SetRoyalty configures the royalty receiver and basis points for a document.
func (l *ERC2981Ledger) SetRoyalty(document common.Hash, receiver common.Address, bps uint16) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.royalties[document] = royaltyConfig{receiver: receiver, bps: bps}
}

// RoyaltyInfo returns the royalty receiver and amount owed for a sale price.
func (l *ERC2981Ledger) RoyaltyInfo(document common.Hash, salePrice *big.Int) (common.Address, *big.Int) {
	l.mu.RLock()
	config, ok := l.royalties[document]
	l.mu.RUnlock()
	if !ok {
		return common.Address{}, new(big.Int)
	}

	royalty := new(big.Int).Mul(salePrice, big.NewInt(int64(config.bps)))
	royalty.Div(royalty, big.NewInt(royaltyDenominator))
	return config.receiver, royalty
}
