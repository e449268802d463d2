// Package resolver implements the shared Reserve -> Claim -> Credential
// state machine behind every tokenization strategy: attestation-checked
// claims over per-document reservation slots, conservation accounting, and
// best-effort trust-credential issuance. Balance truth lives in the value
// ledger; this package owns everything else.
package resolver

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/constants"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"go.uber.org/zap"
)

// DefaultMaxLabelLen caps anonymous reservation labels; oversized opaque
// blobs are a storage griefing vector.
const DefaultMaxLabelLen = 1000

// CredentialPolicy selects when trust credentials are issued for a document.
type CredentialPolicy string

const (
	// CredentialOnEveryClaim issues a credential to each claimant as they claim
	CredentialOnEveryClaim CredentialPolicy = constants.CredentialOnEveryClaim
	// CredentialOnExhaustion issues to all holders once all reserved value is claimed
	CredentialOnExhaustion CredentialPolicy = constants.CredentialOnExhaustion
	// CredentialAfterDeadline issues to all holders on the first claim at or
	// after the configured deadline
	CredentialAfterDeadline CredentialPolicy = constants.CredentialAfterDeadline
)

// CapabilityChecker validates that an attestation grants a capability over
// a document. Implemented by eas.Verifier.
type CapabilityChecker interface {
	Verify(ctx context.Context, documentID common.Hash, required eas.Capability, attestationUID common.Hash) (*eas.CapabilityPayload, error)
}

// CredentialIssuer is the best-effort trust-credential side channel. Errors
// are logged and dropped by the engine, never propagated to the claim path.
type CredentialIssuer interface {
	IssueCredentials(ctx context.Context, document common.Hash, holders []common.Address) error
}

// Config parameterizes an engine for one tokenization strategy.
type Config struct {
	Standard    ledger.Standard
	Policy      CredentialPolicy
	Deadline    time.Time // used by CredentialAfterDeadline
	MaxLabelLen int
	// SingleSlot documents keep one reservation slot; claims may omit the
	// slot id and the engine resolves the document's sole active slot.
	SingleSlot bool
}

// DefaultConfig returns the configuration the platform ships for a standard.
func DefaultConfig(standard ledger.Standard) Config {
	policy := CredentialOnExhaustion
	switch standard {
	case ledger.StandardERC5192, ledger.StandardERC4671:
		// identity-shaped tokens credential each claimant immediately
		policy = CredentialOnEveryClaim
	}
	return Config{
		Standard:    standard,
		Policy:      policy,
		MaxLabelLen: DefaultMaxLabelLen,
		SingleSlot:  ledger.SingleSlot(standard),
	}
}

// Reservation is the per-slot record tracked by the engine.
type Reservation struct {
	Document       common.Hash
	Slot           uint64
	Amount         *big.Int
	ReservedFor    common.Address // zero address = anonymous
	EncryptedLabel []byte         // opaque ciphertext, never decrypted here
	Claimed        bool
	Claimant       common.Address
	ReservedAt     time.Time
	ClaimedAt      time.Time
}

// Anonymous reports whether any valid claimant may consume the reservation.
func (r *Reservation) Anonymous() bool {
	return r.ReservedFor == (common.Address{})
}

// Totals is the per-document conservation ledger:
// EverReserved == Remaining + Claimed + Cancelled at all times.
type Totals struct {
	EverReserved *big.Int
	Remaining    *big.Int
	Claimed      *big.Int
	Cancelled    *big.Int
}

type slotKey struct {
	document common.Hash
	slot     uint64
}

// Engine is the reservation/claim state machine for one tokenization
// strategy. All mutable state is owned by the engine and guarded by a
// single mutex spanning each entry point, so the claimed check and the
// claimed set are never interleavable (the off-chain equivalent of the
// contracts' reentrancy guard).
type Engine struct {
	mu sync.Mutex

	cfg         Config
	ledger      ledger.ValueLedger
	verifier    CapabilityChecker
	issuers     eas.IssuerRegistry
	credentials CredentialIssuer
	events      EventSink
	logger      *zap.Logger
	now         func() time.Time

	reservations     map[slotKey]*Reservation
	nextSlot         map[common.Hash]uint64
	activeSlot       map[common.Hash]uint64 // single-slot reverse index
	holders          map[common.Hash][]common.Address
	holderSeen       map[common.Hash]map[common.Address]bool
	credentialIssued map[common.Hash]bool
	totals           map[common.Hash]*Totals
}

// NewEngine creates an engine over the given ledger and collaborators.
func NewEngine(cfg Config, valueLedger ledger.ValueLedger, verifier CapabilityChecker, issuers eas.IssuerRegistry, credentials CredentialIssuer, events EventSink) *Engine {
	if cfg.MaxLabelLen == 0 {
		cfg.MaxLabelLen = DefaultMaxLabelLen
	}
	return &Engine{
		cfg:              cfg,
		ledger:           valueLedger,
		verifier:         verifier,
		issuers:          issuers,
		credentials:      credentials,
		events:           events,
		logger:           logger.Log,
		now:              time.Now,
		reservations:     make(map[slotKey]*Reservation),
		nextSlot:         make(map[common.Hash]uint64),
		activeSlot:       make(map[common.Hash]uint64),
		holders:          make(map[common.Hash][]common.Address),
		holderSeen:       make(map[common.Hash]map[common.Address]bool),
		credentialIssued: make(map[common.Hash]bool),
		totals:           make(map[common.Hash]*Totals),
	}
}

// WithClock overrides the engine's clock. Used by tests.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Standard returns the token standard this engine tokenizes under.
func (e *Engine) Standard() ledger.Standard {
	return e.cfg.Standard
}

// Ledger exposes the value ledger for standard-specific queries.
func (e *Engine) Ledger() ledger.ValueLedger {
	return e.ledger
}

// GetReservation returns a copy of the reservation at (document, slot).
func (e *Engine) GetReservation(document common.Hash, slot uint64) (Reservation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	resolved, err := e.resolveSlot(document, slot)
	if err != nil {
		return Reservation{}, err
	}
	reservation, ok := e.reservations[slotKey{document: document, slot: resolved}]
	if !ok {
		return Reservation{}, &TokenNotFoundError{Document: document, Slot: resolved}
	}
	copied := *reservation
	copied.Amount = new(big.Int).Set(reservation.Amount)
	return copied, nil
}

// Holders returns every address that has ever claimed a slot of the
// document, in claim order.
func (e *Engine) Holders(document common.Hash) []common.Address {
	e.mu.Lock()
	defer e.mu.Unlock()

	holders := make([]common.Address, len(e.holders[document]))
	copy(holders, e.holders[document])
	return holders
}

// TotalsFor returns the conservation counters for a document.
func (e *Engine) TotalsFor(document common.Hash) Totals {
	e.mu.Lock()
	defer e.mu.Unlock()

	totals := e.totals[document]
	if totals == nil {
		return Totals{
			EverReserved: new(big.Int),
			Remaining:    new(big.Int),
			Claimed:      new(big.Int),
			Cancelled:    new(big.Int),
		}
	}
	return Totals{
		EverReserved: new(big.Int).Set(totals.EverReserved),
		Remaining:    new(big.Int).Set(totals.Remaining),
		Claimed:      new(big.Int).Set(totals.Claimed),
		Cancelled:    new(big.Int).Set(totals.Cancelled),
	}
}

// CredentialIssued reports whether full-set credential issuance has run.
func (e *Engine) CredentialIssued(document common.Hash) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.credentialIssued[document]
}

// resolveSlot maps an unspecified slot (0) to the document's sole active
// slot. Explicit slot ids pass through. Caller holds e.mu.
func (e *Engine) resolveSlot(document common.Hash, slot uint64) (uint64, error) {
	if slot != 0 {
		return slot, nil
	}
	if !e.cfg.SingleSlot {
		return 0, ErrSlotRequired
	}
	active := e.activeSlot[document]
	if active == 0 {
		return 0, &TokenNotFoundError{Document: document, Slot: 0}
	}
	return active, nil
}

// allocateSlot hands out monotonically increasing slot ids starting at 1.
// Caller holds e.mu.
func (e *Engine) allocateSlot(document common.Hash) uint64 {
	next := e.nextSlot[document]
	if next == 0 {
		next = 1
	}
	e.nextSlot[document] = next + 1
	return next
}

// totalsFor returns (creating if needed) the counters for a document.
// Caller holds e.mu.
func (e *Engine) totalsFor(document common.Hash) *Totals {
	totals := e.totals[document]
	if totals == nil {
		totals = &Totals{
			EverReserved: new(big.Int),
			Remaining:    new(big.Int),
			Claimed:      new(big.Int),
			Cancelled:    new(big.Int),
		}
		e.totals[document] = totals
	}
	return totals
}

// emit appends an audit event. The in-memory store is authoritative; a
// failing sink is logged and does not unwind the transition.
func (e *Engine) emit(ctx context.Context, event Event) {
	if e.events == nil {
		return
	}
	if err := e.events.Append(ctx, event); err != nil {
		e.logger.Error("Failed to append audit event",
			zap.String("event_type", string(event.Type)),
			zap.String("document", event.Document.Hex()),
			zap.Uint64("slot", event.Slot),
			zap.Error(err))
	}
}
