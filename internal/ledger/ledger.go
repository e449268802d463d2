// Package ledger holds balance truth for tokenized documents. Each token
// standard supported by the platform implements ValueLedger; the resolver
// core mints through the interface and never keeps balances of its own.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/constants"
)

// Standard identifies the token standard a ledger implements.
type Standard string

const (
	StandardERC721  Standard = constants.ERC721Standard
	StandardERC20   Standard = constants.ERC20Standard
	StandardERC1155 Standard = constants.ERC1155Standard
	StandardERC5192 Standard = constants.ERC5192Standard
	StandardERC4671 Standard = constants.ERC4671Standard
	StandardERC2981 Standard = constants.ERC2981Standard
	StandardERC4907 Standard = constants.ERC4907Standard
	StandardERC4626 Standard = constants.ERC4626Standard
	StandardERC6909 Standard = constants.ERC6909Standard
	StandardERC3525 Standard = constants.ERC3525Standard
	StandardERC3643 Standard = constants.ERC3643Standard
)

var (
	// ErrInsufficientBalance is returned when a transfer exceeds the sender's balance
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrTransferLocked is returned by non-transferable standards
	ErrTransferLocked = errors.New("token is non-transferable")
	// ErrNonFungibleAmount is returned when a non-fungible mint carries an amount other than one
	ErrNonFungibleAmount = errors.New("non-fungible tokens mint exactly one unit")
	// ErrSlotOccupied is returned when a non-fungible slot already has an owner
	ErrSlotOccupied = errors.New("slot already minted")
	// ErrUnknownStandard is returned by the factory for unrecognized standards
	ErrUnknownStandard = errors.New("unknown token standard")
)

// ValueLedger is the balance primitive each resolver variant provides.
// Mint is called exactly once per successful claim; BalanceOf is the
// standard-specific balance view for (document, slot, owner).
type ValueLedger interface {
	Standard() Standard
	Mint(ctx context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error
	BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int
}

// Transferable is implemented by ledgers whose standard permits transfers.
type Transferable interface {
	Transfer(ctx context.Context, document common.Hash, slot uint64, from, to common.Address, amount *big.Int) error
}

// New constructs the ledger for a standard.
func New(standard Standard) (ValueLedger, error) {
	switch standard {
	case StandardERC721:
		return NewERC721Ledger(), nil
	case StandardERC20:
		return NewERC20VotesLedger(), nil
	case StandardERC1155:
		return NewERC1155Ledger(), nil
	case StandardERC5192:
		return NewERC5192Ledger(), nil
	case StandardERC4671:
		return NewERC4671Ledger(), nil
	case StandardERC2981:
		return NewERC2981Ledger(), nil
	case StandardERC4907:
		return NewERC4907Ledger(), nil
	case StandardERC4626:
		return NewERC4626Ledger(), nil
	case StandardERC6909:
		return NewERC6909Ledger(), nil
	case StandardERC3525:
		return NewERC3525Ledger(), nil
	case StandardERC3643:
		return NewERC3643Ledger(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStandard, standard)
	}
}

// SingleSlot reports whether the standard keeps one reservation slot per
// document (fungible ledgers) rather than one slot per token id.
func SingleSlot(standard Standard) bool {
	switch standard {
	case StandardERC20, StandardERC4626, StandardERC3643:
		return true
	default:
		return false
	}
}

type slotKey struct {
	document common.Hash
	slot     uint64
}

// balanceBook is the shared (document, slot, owner) -> amount bookkeeping
// used by the fungible and semi-fungible ledgers.
type balanceBook struct {
	mu       sync.RWMutex
	balances map[slotKey]map[common.Address]*big.Int
}

func newBalanceBook() *balanceBook {
	return &balanceBook{balances: make(map[slotKey]map[common.Address]*big.Int)}
}

func (b *balanceBook) credit(document common.Hash, slot uint64, to common.Address, amount *big.Int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := slotKey{document: document, slot: slot}
	if b.balances[key] == nil {
		b.balances[key] = make(map[common.Address]*big.Int)
	}
	current := b.balances[key][to]
	if current == nil {
		current = new(big.Int)
	}
	b.balances[key][to] = new(big.Int).Add(current, amount)
}

func (b *balanceBook) debit(document common.Hash, slot uint64, from common.Address, amount *big.Int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	key := slotKey{document: document, slot: slot}
	current := b.balances[key][from]
	if current == nil || current.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	b.balances[key][from] = new(big.Int).Sub(current, amount)
	return nil
}

func (b *balanceBook) balance(document common.Hash, slot uint64, owner common.Address) *big.Int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	key := slotKey{document: document, slot: slot}
	current := b.balances[key][owner]
	if current == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(current)
}
