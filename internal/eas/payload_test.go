package eas_test

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	original := eas.CapabilityPayload{
		DocumentHash: testDocument,
		Capabilities: eas.CapabilityClaimToken | eas.CapabilityOwnDocument,
		Amount:       big.NewInt(1_000_000),
		Metadata:     `{"tranche":"senior"}`,
	}

	data, err := eas.EncodePayload(original)
	require.NoError(t, err)

	decoded, err := eas.DecodePayload(data)
	require.NoError(t, err)
	assert.Equal(t, original.DocumentHash, decoded.DocumentHash)
	assert.Equal(t, original.Capabilities, decoded.Capabilities)
	assert.Zero(t, original.Amount.Cmp(decoded.Amount))
	assert.Equal(t, original.Metadata, decoded.Metadata)
}

func TestDecodePayload_Garbage(t *testing.T) {
	_, err := eas.DecodePayload([]byte{0x01, 0x02, 0x03})
	assert.Error(t, err)
}

func TestDecodePayload_CapabilityBitsBeyondDefinedSet(t *testing.T) {
	data, err := eas.EncodePayload(eas.CapabilityPayload{
		DocumentHash: testDocument,
		Capabilities: eas.CapabilityClaimToken,
	})
	require.NoError(t, err)

	// the capabilities word occupies bytes 32..63; setting its high byte
	// pushes the value past uint64 range
	data[32] = 0x01
	_, err = eas.DecodePayload(data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "capability bits")
}

func TestCapability_Has(t *testing.T) {
	granted := eas.CapabilityClaimToken | eas.CapabilitySignDocument
	assert.True(t, granted.Has(eas.CapabilityClaimToken))
	assert.True(t, granted.Has(eas.CapabilitySignDocument))
	assert.False(t, granted.Has(eas.CapabilityReviewDocument))
	assert.False(t, granted.Has(eas.CapabilityOwnDocument))

	// requesting a composite requires every bit
	assert.True(t, granted.Has(eas.CapabilityClaimToken|eas.CapabilitySignDocument))
	assert.False(t, granted.Has(eas.CapabilityClaimToken|eas.CapabilityOwnDocument))
}

func TestCapability_String(t *testing.T) {
	assert.Equal(t, "CLAIM_TOKEN", eas.CapabilityClaimToken.String())
	composite := eas.CapabilityClaimToken | eas.CapabilitySignDocument
	assert.Contains(t, composite.String(), "CLAIM_TOKEN")
	assert.Contains(t, composite.String(), "SIGN_DOCUMENT")
}

func TestDocumentHashIsKeccak(t *testing.T) {
	hash := eas.DocumentHash([]byte("articles-of-incorporation.pdf"))
	assert.NotEqual(t, common.Hash{}, hash)
	assert.Equal(t, hash, eas.DocumentHash([]byte("articles-of-incorporation.pdf")))
	assert.NotEqual(t, hash, eas.DocumentHash([]byte("amended.pdf")))
}
