package eas

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrRevoked is returned when the attestation has a nonzero revocation time
	ErrRevoked = errors.New("attestation has been revoked")
	// ErrExpired is returned when the attestation expiration time is in the past
	ErrExpired = errors.New("attestation has expired")
)

// SchemaMismatchError is returned when an attestation was issued under a
// schema other than the capability schema configured for this deployment.
type SchemaMismatchError struct {
	Expected common.Hash
	Actual   common.Hash
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("attestation schema mismatch: expected %s, got %s", e.Expected, e.Actual)
}

// WrongIssuerError is returned when the attester is not the registered
// issuer of the document.
type WrongIssuerError struct {
	DocumentID common.Hash
	Expected   common.Address
	Actual     common.Address
}

func (e *WrongIssuerError) Error() string {
	return fmt.Sprintf("attestation for document %s issued by %s, expected registered issuer %s",
		e.DocumentID, e.Actual, e.Expected)
}

// DocumentMismatchError is returned when the payload binds a different
// document hash than the one being operated on.
type DocumentMismatchError struct {
	Expected common.Hash
	Actual   common.Hash
}

func (e *DocumentMismatchError) Error() string {
	return fmt.Sprintf("attestation bound to document %s, expected %s", e.Actual, e.Expected)
}

// CapabilityNotGrantedError is returned when the payload capability set does
// not include the requested capability.
type CapabilityNotGrantedError struct {
	Requested Capability
	Granted   Capability
}

func (e *CapabilityNotGrantedError) Error() string {
	return fmt.Sprintf("capability %s not granted (attestation grants %s)", e.Requested, e.Granted)
}

// IssuerRegistry resolves the registered issuer address for a document.
type IssuerRegistry interface {
	IssuerOf(ctx context.Context, documentID common.Hash) (common.Address, error)
}

// Verifier checks that an attestation grants a requested capability over a
// document. It is a pure read path over the oracle and never mutates state,
// so callers can verify before touching any reservation or claim state.
type Verifier struct {
	oracle  Oracle
	schema  common.Hash
	issuers IssuerRegistry
	now     func() time.Time
}

// NewVerifier creates a verifier bound to the capability schema of this
// deployment.
func NewVerifier(oracle Oracle, schema common.Hash, issuers IssuerRegistry) *Verifier {
	return &Verifier{
		oracle:  oracle,
		schema:  schema,
		issuers: issuers,
		now:     time.Now,
	}
}

// WithClock overrides the verifier's clock. Used by tests to pin expiry checks.
func (v *Verifier) WithClock(now func() time.Time) *Verifier {
	v.now = now
	return v
}

// Verify confirms the attestation is well-formed, unexpired, unrevoked,
// issued by the document's registered issuer, bound to the document, and
// grants the requested capability. On success it returns the decoded
// payload so callers can extract the claim amount without a second decode.
func (v *Verifier) Verify(ctx context.Context, documentID common.Hash, required Capability, attestationUID common.Hash) (*CapabilityPayload, error) {
	attestation, err := v.oracle.GetAttestation(ctx, attestationUID)
	if err != nil {
		if errors.Is(err, ErrAttestationNotFound) {
			return nil, ErrAttestationNotFound
		}
		return nil, fmt.Errorf("failed to read attestation %s: %w", attestationUID, err)
	}

	if attestation.Schema != v.schema {
		return nil, &SchemaMismatchError{Expected: v.schema, Actual: attestation.Schema}
	}
	if attestation.RevocationTime != 0 {
		return nil, ErrRevoked
	}
	if attestation.ExpirationTime != 0 && attestation.ExpirationTime <= uint64(v.now().Unix()) {
		return nil, ErrExpired
	}

	issuer, err := v.issuers.IssuerOf(ctx, documentID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve issuer for document %s: %w", documentID, err)
	}
	if attestation.Attester != issuer {
		return nil, &WrongIssuerError{DocumentID: documentID, Expected: issuer, Actual: attestation.Attester}
	}

	payload, err := DecodePayload(attestation.Data)
	if err != nil {
		return nil, err
	}
	if payload.DocumentHash != documentID {
		return nil, &DocumentMismatchError{Expected: documentID, Actual: payload.DocumentHash}
	}
	if !payload.Capabilities.Has(required) {
		return nil, &CapabilityNotGrantedError{Requested: required, Granted: payload.Capabilities}
	}

	return payload, nil
}
