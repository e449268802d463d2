package ledger

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

// fungibleSlot is the internal balance-book key for ledgers whose standard
// has no per-token slots. Never exposed: reservation slot ids start at 1.
const fungibleSlot = 0

// ERC20VotesLedger is a fungible ledger with checkpoint-free vote
// delegation: voting power follows balances through the holder's delegatee.
type ERC20VotesLedger struct {
	book *balanceBook

	mu        sync.RWMutex
	delegates map[common.Hash]map[common.Address]common.Address
	votes     map[common.Hash]map[common.Address]*big.Int
}

func NewERC20VotesLedger() *ERC20VotesLedger {
	return &ERC20VotesLedger{
		book:      newBalanceBook(),
		delegates: make(map[common.Hash]map[common.Address]common.Address),
		votes:     make(map[common.Hash]map[common.Address]*big.Int),
	}
}

func (l *ERC20VotesLedger) Standard() Standard { return StandardERC20 }

func (l *ERC20VotesLedger) Mint(_ context.Context, document common.Hash, _ uint64, to common.Address, amount *big.Int) error {
	l.book.credit(document, fungibleSlot, to, amount)
	l.moveVotes(document, l.delegateeOf(document, to), amount)
	return nil
}

func (l *ERC20VotesLedger) BalanceOf(document common.Hash, _ uint64, owner common.Address) *big.Int {
	return l.book.balance(document, fungibleSlot, owner)
}

func (l *ERC20VotesLedger) Transfer(_ context.Context, document common.Hash, _ uint64, from, to common.Address, amount *big.Int) error {
	if err := l.book.debit(document, fungibleSlot, from, amount); err != nil {
		return err
	}
	l.book.credit(document, fungibleSlot, to, amount)
	l.moveVotes(document, l.delegateeOf(document, from), new(big.Int).Neg(amount))
	l.moveVotes(document, l.delegateeOf(document, to), amount)
	return nil
}

// Delegate moves the holder's voting power to delegatee.
func (l *ERC20VotesLedger) Delegate(document common.Hash, holder, delegatee common.Address) {
	balance := l.BalanceOf(document, fungibleSlot, holder)

	l.mu.Lock()
	if l.delegates[document] == nil {
		l.delegates[document] = make(map[common.Address]common.Address)
	}
	previous, ok := l.delegates[document][holder]
	if !ok {
		previous = holder
	}
	l.delegates[document][holder] = delegatee
	l.mu.Unlock()

	l.moveVotes(document, previous, new(big.Int).Neg(balance))
	l.moveVotes(document, delegatee, balance)
}

// Votes returns the current voting power of addr for the document.
func (l *ERC20VotesLedger) Votes(document common.Hash, addr common.Address) *big.Int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	current := l.votes[document][addr]
	if current == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(current)
}

func (l *ERC20VotesLedger) delegateeOf(document common.Hash, holder common.Address) common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if delegatee, ok := l.delegates[document][holder]; ok {
		return delegatee
	}
	return holder
}

func (l *ERC20VotesLedger) moveVotes(document common.Hash, addr common.Address, delta *big.Int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.votes[document] == nil {
		l.votes[document] = make(map[common.Address]*big.Int)
	}
	current := l.votes[document][addr]
	if current == nil {
		current = new(big.Int)
	}
	l.votes[document][addr] = new(big.Int).Add(current, delta)
}
