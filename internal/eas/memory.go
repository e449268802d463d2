package eas

import (
	"context"
	"encoding/binary"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// MemoryOracle is an in-process attestation ledger used by the simulator
// mode and by tests. UIDs are derived the same way EAS derives them: a
// keccak256 over the request fields and a monotonic nonce.
type MemoryOracle struct {
	mu           sync.RWMutex
	attestations map[common.Hash]Attestation
	nonce        uint64
	signer       common.Address
	now          func() time.Time
}

// NewMemoryOracle creates an empty in-memory oracle. Attestations written
// through Attest carry signer as their attester; the on-chain ledger derives
// the attester from msg.sender, off-chain the adapter owns one identity.
func NewMemoryOracle(signer common.Address) *MemoryOracle {
	return &MemoryOracle{
		attestations: make(map[common.Hash]Attestation),
		signer:       signer,
		now:          time.Now,
	}
}

// WithClock overrides the oracle's clock. Used by tests.
func (o *MemoryOracle) WithClock(now func() time.Time) *MemoryOracle {
	o.now = now
	return o
}

// GetAttestation returns the attestation for uid, or ErrAttestationNotFound.
func (o *MemoryOracle) GetAttestation(_ context.Context, uid common.Hash) (Attestation, error) {
	o.mu.RLock()
	defer o.mu.RUnlock()

	attestation, ok := o.attestations[uid]
	if !ok {
		return Attestation{}, ErrAttestationNotFound
	}
	return attestation, nil
}

// Attest appends a new attestation signed by the oracle's own identity and
// returns its UID.
func (o *MemoryOracle) Attest(_ context.Context, req AttestationRequest) (common.Hash, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attest(o.signer, req), nil
}

// AttestAs appends an attestation with an explicit attester. Used to seed
// issuer-signed capability attestations in simulator and test setups.
func (o *MemoryOracle) AttestAs(_ context.Context, attester common.Address, req AttestationRequest) (common.Hash, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.attest(attester, req), nil
}

// Revoke marks an attestation revoked. Revocation is sticky: revoking an
// already-revoked attestation keeps the original revocation time.
func (o *MemoryOracle) Revoke(_ context.Context, uid common.Hash) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	attestation, ok := o.attestations[uid]
	if !ok {
		return ErrAttestationNotFound
	}
	if attestation.RevocationTime == 0 {
		attestation.RevocationTime = uint64(o.now().Unix())
		o.attestations[uid] = attestation
	}
	return nil
}

func (o *MemoryOracle) attest(attester common.Address, req AttestationRequest) common.Hash {
	o.nonce++
	nonce := make([]byte, 8)
	binary.BigEndian.PutUint64(nonce, o.nonce)

	uid := crypto.Keccak256Hash(
		req.Schema.Bytes(),
		req.Recipient.Bytes(),
		req.RefUID.Bytes(),
		req.Data,
		nonce,
	)

	o.attestations[uid] = Attestation{
		UID:            uid,
		Schema:         req.Schema,
		Time:           uint64(o.now().Unix()),
		ExpirationTime: req.ExpirationTime,
		RefUID:         req.RefUID,
		Recipient:      req.Recipient,
		Attester:       attester,
		Revocable:      req.Revocable,
		Data:           req.Data,
	}
	return uid
}
