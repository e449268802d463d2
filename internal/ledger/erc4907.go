package ledger

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

type userGrant struct {
	user    common.Address
	expires uint64
}

// ERC4907Ledger is a transferable 721 ledger with time-boxed user grants
// (rental). The user role expires by wall clock, checked at read time.
type ERC4907Ledger struct {
	book *ownerBook

	mu    sync.RWMutex
	users map[slotKey]userGrant
	now   func() time.Time
}

func NewERC4907Ledger() *ERC4907Ledger {
	return &ERC4907Ledger{
		book:  newOwnerBook(),
		users: make(map[slotKey]userGrant),
		now:   time.Now,
	}
}

func (l *ERC4907Ledger) Standard() Standard { return StandardERC4907 }

func (l *ERC4907Ledger) Mint(_ context.Context, document common.Hash, slot uint64, to common.Address, amount *big.Int) error {
	return l.book.mint(document, slot, to, amount)
}

func (l *ERC4907Ledger) BalanceOf(document common.Hash, slot uint64, owner common.Address) *big.Int {
	return l.book.balanceOf(document, slot, owner)
}

func (l *ERC4907Ledger) OwnerOf(document common.Hash, slot uint64) (common.Address, bool) {
	return l.book.ownerOf(document, slot)
}

func (l *ERC4907Ledger) Transfer(_ context.Context, document common.Hash, slot uint64, from, to common.Address, _ *big.Int) error {
	if err := l.book.transfer(document, slot, from, to); err != nil {
		return err
	}
	// 4907: user grant is cleared on transfer
	l.mu.Lock()
	delete(l.users, slotKey{document: document, slot: slot})
	l.mu.Unlock()
	return nil
}

// SetUser grants the user role on a token until expires (unix seconds).
func (l *ERC4907Ledger) SetUser(document common.Hash, slot uint64, user common.Address, expires uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.users[slotKey{document: document, slot: slot}] = userGrant{user: user, expires: expires}
}

// UserOf returns the current user of a token, or the zero address once the
// grant has expired.
func (l *ERC4907Ledger) UserOf(document common.Hash, slot uint64) common.Address {
	l.mu.RLock()
	defer l.mu.RUnlock()

	grant, ok := l.users[slotKey{document: document, slot: slot}]
	if !ok || grant.expires < uint64(l.now().Unix()) {
		return common.Address{}
	}
	return grant.user
}
