package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// ERC4626Ledger is a fungible vault ledger: claims deposit underlying
// assets and mint shares at the current exchange rate.
type ERC4626Ledger struct {
	book *balanceBook

	mu          sync.RWMutex
	totalAssets map[common.Hash]*big.Int
	totalShares map[common.Hash]*big.Int
}

func NewERC4626Ledger() *ERC4626Ledger {
	return &ERC4626Ledger{
		book:        newBalanceBook(),
		totalAssets: make(map[common.Hash]*big.Int),
		totalShares: make(map[common.Hash]*big.Int),
	}
}

func (l *ERC4626Ledger) Standard() Standard { return StandardERC4626 }

// Mint deposits amount of underlying assets and credits the equivalent
// shares to the claimant.
func (l *ERC4626Ledger) Mint(_ context.Context, document common.Hash, _ uint64, to common.Address, amount *big.Int) error {
	l.mu.Lock()
	shares := l.convertToShares(document, amount)
	l.totalAssets[document] = add(l.totalAssets[document], amount)
	l.totalShares[document] = add(l.totalShares[document], shares)
	l.mu.Unlock()

	l.book.credit(document, fungibleSlot, to, shares)
	return nil
}

// BalanceOf returns the share balance of owner.
func (l *ERC4626Ledger) BalanceOf(document common.Hash, _ uint64, owner common.Address) *big.Int {
	return l.book.balance(document, fungibleSlot, owner)
}

func (l *ERC4626Ledger) Transfer(_ context.Context, document common.Hash, _ uint64, from, to common.Address, amount *big.Int) error {
	if err := l.book.debit(document, fungibleSlot, from, amount); err != nil {
		return err
	}
	l.book.credit(document, fungibleSlot, to, amount)
	return nil
}

// ConvertToAssets returns the underlying asset value of a share amount.
func (l *ERC4626Ledger) ConvertToAssets(document common.Hash, shares *big.Int) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	totalShares := l.totalShares[document]
	if totalShares == nil || totalShares.Sign() == 0 {
		return new(big.Int).Set(shares)
	}
	assets := new(big.Int).Mul(shares, l.totalAssets[document])
	return assets.Div(assets, totalShares)
}

// TotalAssets returns the vault's underlying asset total for a document.
func (l *ERC4626Ledger) TotalAssets(document common.Hash) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.totalAssets[document] == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(l.totalAssets[document])
}

// convertToShares prices a deposit at the current rate; 1:1 for the first
// deposit. Caller holds l.mu.
func (l *ERC4626Ledger) convertToShares(document common.Hash, assets *big.Int) *big.Int {
	totalAssets := l.totalAssets[document]
	if totalAssets == nil || totalAssets.Sign() == 0 {
		return new(big.Int).Set(assets)
	}
	shares := new(big.Int).Mul(assets, l.totalShares[document])
	return shares.Div(shares, totalAssets)
}

func add(current, delta *big.Int) *big.Int {
	if current == nil {
		current = new(big.Int)
	}
	return new(big.Int).Add(current, delta)
}
