package eas

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// DocumentHash derives the canonical document identifier from raw content.
// Documents are addressed by keccak256 everywhere in the platform.
func DocumentHash(content []byte) common.Hash {
	return crypto.Keccak256Hash(content)
}

// Capability is a single permission bit that an attestation payload can grant
// over a document. Capabilities combine as a bit-flag set.
type Capability uint64

const (
	CapabilityClaimToken Capability = 1 << iota
	CapabilitySignDocument
	CapabilityReviewDocument
	CapabilityOwnDocument
	CapabilityReferenceDocument
)

var capabilityNames = map[Capability]string{
	CapabilityClaimToken:        "CLAIM_TOKEN",
	CapabilitySignDocument:      "SIGN_DOCUMENT",
	CapabilityReviewDocument:    "REVIEW_DOCUMENT",
	CapabilityOwnDocument:       "OWN_DOCUMENT",
	CapabilityReferenceDocument: "REFERENCE_DOCUMENT",
}

// Has reports whether every bit of other is present in c.
func (c Capability) Has(other Capability) bool {
	return c&other == other
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	var parts []string
	for bit, name := range capabilityNames {
		if c&bit != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "NONE"
	}
	return strings.Join(parts, "|")
}

// Attestation mirrors the EAS attestation record returned by the oracle.
type Attestation struct {
	UID            common.Hash
	Schema         common.Hash
	Time           uint64
	ExpirationTime uint64 // 0 = never expires
	RevocationTime uint64 // 0 = not revoked
	RefUID         common.Hash
	Recipient      common.Address
	Attester       common.Address
	Revocable      bool
	Data           []byte
}

// AttestationRequest is the input to Oracle.Attest.
type AttestationRequest struct {
	Schema         common.Hash
	Recipient      common.Address
	ExpirationTime uint64
	Revocable      bool
	RefUID         common.Hash
	Data           []byte
}

// Schema UIDs follow the EAS convention: keccak256 of the schema
// declaration. Production deployments override these with the UIDs
// registered on chain.
var (
	// DefaultCapabilitySchema identifies capability-grant attestations
	DefaultCapabilitySchema = crypto.Keccak256Hash([]byte("bytes32 documentHash,uint256 capabilities,uint256 amount,string metadata"))
	// DefaultCredentialSchema identifies issued trust credentials
	DefaultCredentialSchema = crypto.Keccak256Hash([]byte("bytes32 documentHash,address holder,uint64 issuedAt"))
)

var (
	// ErrAttestationNotFound is returned when the oracle has no record for a UID
	ErrAttestationNotFound = errors.New("attestation not found")
	// ErrReadOnlyOracle is returned by oracle adapters that have no signer
	ErrReadOnlyOracle = errors.New("oracle adapter is read-only")
)

// Oracle is a view over an external attestation ledger. Reads are
// side-effect free; Attest appends a new record and never updates or
// deletes existing ones.
type Oracle interface {
	GetAttestation(ctx context.Context, uid common.Hash) (Attestation, error)
	Attest(ctx context.Context, req AttestationRequest) (common.Hash, error)
}
