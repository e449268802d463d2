package resolver_test

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logger.InitLogger("test")
}

var (
	capabilitySchema = common.HexToHash("0x1111111111111111111111111111111111111111111111111111111111111111")
	documentD        = common.HexToHash("0xd0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0")
	issuerAddr       = common.HexToAddress("0x00000000000000000000000000000000000000A1")
	executorAddr     = common.HexToAddress("0x00000000000000000000000000000000000000E1")
	claimant1        = common.HexToAddress("0x00000000000000000000000000000000000000C1")
	claimant2        = common.HexToAddress("0x00000000000000000000000000000000000000C2")
	recipientR       = common.HexToAddress("0x00000000000000000000000000000000000000F1")
)

type issuerMap map[common.Hash]common.Address

func (m issuerMap) IssuerOf(_ context.Context, document common.Hash) (common.Address, error) {
	issuer, ok := m[document]
	if !ok {
		return common.Address{}, fmt.Errorf("document %s has no registered issuer", document)
	}
	return issuer, nil
}

type credentialRecorder struct {
	mu    sync.Mutex
	calls [][]common.Address
	fail  bool
}

func (r *credentialRecorder) IssueCredentials(_ context.Context, _ common.Hash, holders []common.Address) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("attestation oracle unavailable")
	}
	copied := make([]common.Address, len(holders))
	copy(copied, holders)
	r.calls = append(r.calls, copied)
	return nil
}

func (r *credentialRecorder) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type eventRecorder struct {
	mu     sync.Mutex
	events []resolver.Event
}

func (r *eventRecorder) Append(_ context.Context, event resolver.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
	return nil
}

func (r *eventRecorder) ofType(t resolver.EventType) []resolver.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []resolver.Event
	for _, event := range r.events {
		if event.Type == t {
			out = append(out, event)
		}
	}
	return out
}

type harness struct {
	engine      *resolver.Engine
	oracle      *eas.MemoryOracle
	credentials *credentialRecorder
	events      *eventRecorder
}

func newHarness(t *testing.T, cfg resolver.Config) *harness {
	t.Helper()

	valueLedger, err := ledger.New(cfg.Standard)
	require.NoError(t, err)

	oracle := eas.NewMemoryOracle(issuerAddr)
	issuers := issuerMap{documentD: issuerAddr}
	verifier := eas.NewVerifier(oracle, capabilitySchema, issuers)
	credentials := &credentialRecorder{}
	events := &eventRecorder{}

	return &harness{
		engine:      resolver.NewEngine(cfg, valueLedger, verifier, issuers, credentials, events),
		oracle:      oracle,
		credentials: credentials,
		events:      events,
	}
}

// attest seeds an issuer-signed claim attestation for documentD.
func (h *harness) attest(t *testing.T, capabilities eas.Capability, amount int64, expiration uint64) common.Hash {
	t.Helper()
	return h.attestFor(t, issuerAddr, documentD, capabilities, amount, expiration)
}

func (h *harness) attestFor(t *testing.T, attester common.Address, document common.Hash, capabilities eas.Capability, amount int64, expiration uint64) common.Hash {
	t.Helper()

	data, err := eas.EncodePayload(eas.CapabilityPayload{
		DocumentHash: document,
		Capabilities: capabilities,
		Amount:       big.NewInt(amount),
	})
	require.NoError(t, err)

	uid, err := h.oracle.AttestAs(context.Background(), attester, eas.AttestationRequest{
		Schema:         capabilitySchema,
		ExpirationTime: expiration,
		Revocable:      true,
		Data:           data,
	})
	require.NoError(t, err)
	return uid
}

func assertConserved(t *testing.T, engine *resolver.Engine, document common.Hash) {
	t.Helper()
	totals := engine.TotalsFor(document)
	sum := new(big.Int).Add(totals.Remaining, totals.Claimed)
	sum.Add(sum, totals.Cancelled)
	assert.Zero(t, totals.EverReserved.Cmp(sum),
		"conservation violated: ever=%s remaining=%s claimed=%s cancelled=%s",
		totals.EverReserved, totals.Remaining, totals.Claimed, totals.Cancelled)
}

func TestClaim_AnonymousReservationFirstClaimantWins(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	slot, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), []byte("ciphertext-label"))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), slot)

	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	minted, err := h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err)
	assert.Zero(t, minted.Cmp(big.NewInt(1)))

	totals := h.engine.TotalsFor(documentD)
	assert.Zero(t, totals.Remaining.Sign())
	assertConserved(t, h.engine, documentD)

	reservation, err := h.engine.GetReservation(documentD, 1)
	require.NoError(t, err)
	assert.True(t, reservation.Claimed)
	assert.Equal(t, claimant1, reservation.Claimant)

	// second claimant loses regardless of attestation validity
	_, err = h.engine.Claim(ctx, claimant2, documentD, 1, uid)
	require.Error(t, err)
	assert.ErrorIs(t, err, resolver.ErrAlreadyClaimed)

	var alreadyClaimed *resolver.AlreadyClaimedError
	require.ErrorAs(t, err, &alreadyClaimed)
	assert.Equal(t, claimant1, alreadyClaimed.Claimant)

	assert.Equal(t, []common.Address{claimant1}, h.engine.Holders(documentD))
	assert.Len(t, h.events.ofType(resolver.EventClaimed), 1)
}

func TestClaim_NamedReservationRejectsOtherCallers(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	_, err := h.engine.Reserve(ctx, executorAddr, documentD, 2, recipientR, big.NewInt(1))
	require.NoError(t, err)

	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	_, err = h.engine.Claim(ctx, claimant1, documentD, 2, uid)
	var notForYou *resolver.NotReservedForYouError
	require.ErrorAs(t, err, &notForYou)
	assert.Equal(t, recipientR, notForYou.ReservedFor)
	assert.Equal(t, claimant1, notForYou.Caller)

	_, err = h.engine.Claim(ctx, recipientR, documentD, 2, uid)
	require.NoError(t, err)
}

func TestClaim_VerifierFailuresLeaveStateUnchanged(t *testing.T) {
	otherIssuer := common.HexToAddress("0x00000000000000000000000000000000000000B2")
	otherDocument := common.HexToHash("0xbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbadbad0")
	past := uint64(time.Now().Add(-time.Hour).Unix())

	tests := []struct {
		name    string
		setup   func(t *testing.T, h *harness) common.Hash
		wantErr error
	}{
		{
			name: "unknown attestation",
			setup: func(t *testing.T, h *harness) common.Hash {
				return common.HexToHash("0xdeadbeef")
			},
			wantErr: eas.ErrAttestationNotFound,
		},
		{
			name: "revoked attestation",
			setup: func(t *testing.T, h *harness) common.Hash {
				uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)
				require.NoError(t, h.oracle.Revoke(context.Background(), uid))
				return uid
			},
			wantErr: eas.ErrRevoked,
		},
		{
			name: "expired attestation",
			setup: func(t *testing.T, h *harness) common.Hash {
				return h.attest(t, eas.CapabilityClaimToken, 0, past)
			},
			wantErr: eas.ErrExpired,
		},
		{
			name: "attester is not the registered issuer",
			setup: func(t *testing.T, h *harness) common.Hash {
				return h.attestFor(t, otherIssuer, documentD, eas.CapabilityClaimToken, 0, 0)
			},
			wantErr: nil, // WrongIssuerError, asserted below
		},
		{
			name: "capability not granted",
			setup: func(t *testing.T, h *harness) common.Hash {
				return h.attest(t, eas.CapabilitySignDocument, 0, 0)
			},
			wantErr: nil, // CapabilityNotGrantedError
		},
		{
			name: "payload bound to a different document",
			setup: func(t *testing.T, h *harness) common.Hash {
				return h.attestFor(t, issuerAddr, otherDocument, eas.CapabilityClaimToken, 0, 0)
			},
			wantErr: nil, // DocumentMismatchError
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
			ctx := context.Background()

			_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
			require.NoError(t, err)
			before := h.engine.TotalsFor(documentD)

			uid := tt.setup(t, h)
			_, err = h.engine.Claim(ctx, claimant1, documentD, 1, uid)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}

			// no partial mutation on verifier failure
			after := h.engine.TotalsFor(documentD)
			assert.Zero(t, before.Remaining.Cmp(after.Remaining))
			assert.Zero(t, before.Claimed.Cmp(after.Claimed))
			reservation, getErr := h.engine.GetReservation(documentD, 1)
			require.NoError(t, getErr)
			assert.False(t, reservation.Claimed)
			assert.Empty(t, h.engine.Holders(documentD))
			assert.Empty(t, h.events.ofType(resolver.EventClaimed))
		})
	}
}

func TestClaim_WrongIssuerErrorCarriesAddresses(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)

	otherIssuer := common.HexToAddress("0x00000000000000000000000000000000000000B2")
	uid := h.attestFor(t, otherIssuer, documentD, eas.CapabilityClaimToken, 0, 0)

	_, err = h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	var wrongIssuer *eas.WrongIssuerError
	require.ErrorAs(t, err, &wrongIssuer)
	assert.Equal(t, issuerAddr, wrongIssuer.Expected)
	assert.Equal(t, otherIssuer, wrongIssuer.Actual)
}

func TestClaim_FungibleAmountFromPayload(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC20))
	ctx := context.Background()

	slot, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(100), nil)
	require.NoError(t, err)
	require.Equal(t, uint64(1), slot)

	// attestation encodes a 60 unit claim
	uid := h.attest(t, eas.CapabilityClaimToken, 60, 0)
	minted, err := h.engine.Claim(ctx, claimant1, documentD, 0, uid)
	require.NoError(t, err)
	assert.Zero(t, minted.Cmp(big.NewInt(60)))

	// the 40 units the payload left behind are unreachable once the slot
	// is consumed, so they are released as cancelled
	totals := h.engine.TotalsFor(documentD)
	assert.Zero(t, totals.Claimed.Cmp(big.NewInt(60)))
	assert.Zero(t, totals.Remaining.Sign())
	assert.Zero(t, totals.Cancelled.Cmp(big.NewInt(40)))
	assertConserved(t, h.engine, documentD)

	valueLedger := h.engine.Ledger().(*ledger.ERC20VotesLedger)
	assert.Zero(t, valueLedger.BalanceOf(documentD, 0, claimant1).Cmp(big.NewInt(60)))

	// nothing remains claimable on the document
	_, err = h.engine.Claim(ctx, claimant2, documentD, 0, h.attest(t, eas.CapabilityClaimToken, 0, 0))
	require.ErrorIs(t, err, resolver.ErrAlreadyClaimed)
}

func TestClaim_PayloadAmountExceedingReservationFails(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC20))
	ctx := context.Background()

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(100), nil)
	require.NoError(t, err)

	uid := h.attest(t, eas.CapabilityClaimToken, 150, 0)
	_, err = h.engine.Claim(ctx, claimant1, documentD, 0, uid)

	var insufficient *resolver.InsufficientReservedAmountError
	require.ErrorAs(t, err, &insufficient)
	assert.Zero(t, insufficient.Requested.Cmp(big.NewInt(150)))
	assert.Zero(t, insufficient.Available.Cmp(big.NewInt(100)))
	assertConserved(t, h.engine, documentD)
}

func TestReserve_PreconditionViolations(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	_, err := h.engine.Reserve(ctx, executorAddr, documentD, 1, common.Address{}, big.NewInt(1))
	assert.ErrorIs(t, err, resolver.ErrZeroAddress)

	_, err = h.engine.Reserve(ctx, executorAddr, documentD, 1, recipientR, big.NewInt(0))
	assert.ErrorIs(t, err, resolver.ErrZeroAmount)

	oversized := make([]byte, resolver.DefaultMaxLabelLen+1)
	_, err = h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), oversized)
	var tooLarge *resolver.LabelTooLargeError
	require.ErrorAs(t, err, &tooLarge)
	assert.Equal(t, resolver.DefaultMaxLabelLen, tooLarge.Max)

	_, err = h.engine.Reserve(ctx, executorAddr, documentD, 7, recipientR, big.NewInt(1))
	require.NoError(t, err)
	_, err = h.engine.Reserve(ctx, executorAddr, documentD, 7, recipientR, big.NewInt(1))
	assert.ErrorIs(t, err, resolver.ErrAlreadyReserved)
}

func TestReserve_SingleSlotDocumentsHoldOneReservation(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC4626))
	ctx := context.Background()

	slot, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(500), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), slot)

	_, err = h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(500), nil)
	assert.ErrorIs(t, err, resolver.ErrAlreadyReserved)
}

func TestClaim_MultiSlotRequiresExplicitSlot(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)

	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)
	_, err = h.engine.Claim(ctx, claimant1, documentD, 0, uid)
	assert.ErrorIs(t, err, resolver.ErrSlotRequired)
}

func TestCancel_IssuerOnlyAndClaimBlocking(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()

	// scenario: executor reserves slot 2 for R, issuer cancels before any claim
	_, err := h.engine.Reserve(ctx, executorAddr, documentD, 2, recipientR, big.NewInt(50))
	require.NoError(t, err)

	// executor holds the Executor role but is not the issuer
	err = h.engine.Cancel(ctx, executorAddr, documentD, 2)
	var onlyIssuer *resolver.OnlyIssuerCanCancelError
	require.ErrorAs(t, err, &onlyIssuer)
	assert.Equal(t, issuerAddr, onlyIssuer.Issuer)

	require.NoError(t, h.engine.Cancel(ctx, issuerAddr, documentD, 2))

	totals := h.engine.TotalsFor(documentD)
	assert.Zero(t, totals.Cancelled.Cmp(big.NewInt(50)))
	assert.Zero(t, totals.Remaining.Sign())
	assertConserved(t, h.engine, documentD)

	// a later claim on the cancelled slot finds nothing
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)
	_, err = h.engine.Claim(ctx, recipientR, documentD, 2, uid)
	assert.ErrorIs(t, err, resolver.ErrTokenNotFound)

	// claimed slots are never cancellable
	_, err = h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 3, big.NewInt(1), nil)
	require.NoError(t, err)
	_, err = h.engine.Claim(ctx, claimant1, documentD, 3, uid)
	require.NoError(t, err)
	err = h.engine.Cancel(ctx, issuerAddr, documentD, 3)
	assert.ErrorIs(t, err, resolver.ErrAlreadyClaimed)
}

func TestConservationAcrossMixedOperations(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC1155))
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	for slot := uint64(1); slot <= 6; slot++ {
		_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, slot, big.NewInt(int64(slot*10)), nil)
		require.NoError(t, err)
		assertConserved(t, h.engine, documentD)
	}

	_, err := h.engine.Claim(ctx, claimant1, documentD, 2, uid)
	require.NoError(t, err)
	assertConserved(t, h.engine, documentD)

	require.NoError(t, h.engine.Cancel(ctx, issuerAddr, documentD, 5))
	assertConserved(t, h.engine, documentD)

	_, err = h.engine.Claim(ctx, claimant2, documentD, 6, uid)
	require.NoError(t, err)
	assertConserved(t, h.engine, documentD)

	totals := h.engine.TotalsFor(documentD)
	assert.Zero(t, totals.EverReserved.Cmp(big.NewInt(210)))
	assert.Zero(t, totals.Claimed.Cmp(big.NewInt(80)))
	assert.Zero(t, totals.Cancelled.Cmp(big.NewInt(50)))
	assert.Zero(t, totals.Remaining.Cmp(big.NewInt(80)))
}

func TestCredentials_OnExhaustionFiresOnceWithAllHolders(t *testing.T) {
	cfg := resolver.DefaultConfig(ledger.StandardERC721)
	require.Equal(t, resolver.CredentialOnExhaustion, cfg.Policy)
	h := newHarness(t, cfg)
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)
	_, err = h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 2, big.NewInt(1), nil)
	require.NoError(t, err)

	_, err = h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, h.credentials.callCount(), "credentials must wait for exhaustion")

	_, err = h.engine.Claim(ctx, claimant2, documentD, 2, uid)
	require.NoError(t, err)
	require.Equal(t, 1, h.credentials.callCount())
	assert.Equal(t, []common.Address{claimant1, claimant2}, h.credentials.calls[0])
	assert.True(t, h.engine.CredentialIssued(documentD))
	assert.Len(t, h.events.ofType(resolver.EventCredentialIssued), 1)
}

func TestCredentials_OnEveryClaimPolicy(t *testing.T) {
	cfg := resolver.DefaultConfig(ledger.StandardERC5192)
	require.Equal(t, resolver.CredentialOnEveryClaim, cfg.Policy)
	h := newHarness(t, cfg)
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	for slot := uint64(1); slot <= 2; slot++ {
		_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, slot, big.NewInt(1), nil)
		require.NoError(t, err)
	}

	_, err := h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err)
	_, err = h.engine.Claim(ctx, claimant2, documentD, 2, uid)
	require.NoError(t, err)

	require.Equal(t, 2, h.credentials.callCount())
	assert.Equal(t, []common.Address{claimant1}, h.credentials.calls[0])
	assert.Equal(t, []common.Address{claimant2}, h.credentials.calls[1])
}

func TestCredentials_AfterDeadlinePolicy(t *testing.T) {
	cfg := resolver.DefaultConfig(ledger.StandardERC721)
	cfg.Policy = resolver.CredentialAfterDeadline
	cfg.Deadline = time.Now().Add(time.Hour)
	h := newHarness(t, cfg)
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)
	_, err = h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 2, big.NewInt(1), nil)
	require.NoError(t, err)

	_, err = h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err)
	assert.Equal(t, 0, h.credentials.callCount(), "deadline not reached")

	// move the engine clock past the deadline
	h.engine.WithClock(func() time.Time { return cfg.Deadline.Add(time.Minute) })
	_, err = h.engine.Claim(ctx, claimant2, documentD, 2, uid)
	require.NoError(t, err)
	require.Equal(t, 1, h.credentials.callCount())
	assert.ElementsMatch(t, []common.Address{claimant1, claimant2}, h.credentials.calls[0])
}

func TestCredentials_FailureNeverUnwindsClaim(t *testing.T) {
	cfg := resolver.DefaultConfig(ledger.StandardERC5192)
	h := newHarness(t, cfg)
	h.credentials.fail = true
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)

	minted, err := h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err, "credential failure must be swallowed")
	assert.Zero(t, minted.Cmp(big.NewInt(1)))

	reservation, err := h.engine.GetReservation(documentD, 1)
	require.NoError(t, err)
	assert.True(t, reservation.Claimed)
	assert.Empty(t, h.events.ofType(resolver.EventCredentialIssued))
}

func TestTriggerCredentials_Idempotent(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC721))
	ctx := context.Background()
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 1, big.NewInt(1), nil)
	require.NoError(t, err)
	_, err = h.engine.Claim(ctx, claimant1, documentD, 1, uid)
	require.NoError(t, err)
	// exhaustion already issued the full set
	require.Equal(t, 1, h.credentials.callCount())

	holders, err := h.engine.TriggerCredentials(ctx, documentD)
	require.NoError(t, err)
	assert.Nil(t, holders)
	assert.Equal(t, 1, h.credentials.callCount(), "second trigger must be a no-op")
}

func TestSingleSlot_AutoDetectClaim(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC3643))
	ctx := context.Background()

	valueLedger := h.engine.Ledger().(*ledger.ERC3643Ledger)
	valueLedger.RegisterIdentity(claimant1)

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(100), nil)
	require.NoError(t, err)

	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)
	minted, err := h.engine.Claim(ctx, claimant1, documentD, 0, uid)
	require.NoError(t, err)
	assert.Zero(t, minted.Cmp(big.NewInt(100)))
}

func TestClaim_LedgerRejectionPropagates(t *testing.T) {
	h := newHarness(t, resolver.DefaultConfig(ledger.StandardERC3643))
	ctx := context.Background()

	_, err := h.engine.ReserveAnonymous(ctx, executorAddr, documentD, 0, big.NewInt(100), nil)
	require.NoError(t, err)

	// claimant never registered in the identity registry
	uid := h.attest(t, eas.CapabilityClaimToken, 0, 0)
	_, err = h.engine.Claim(ctx, claimant1, documentD, 0, uid)
	var notCompliant *ledger.NotCompliantError
	require.ErrorAs(t, err, &notCompliant)

	// the failed mint must leave the slot claimable
	reservation, err := h.engine.GetReservation(documentD, 0)
	require.NoError(t, err)
	assert.False(t, reservation.Claimed)
	assertConserved(t, h.engine, documentD)
}
