package eas

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

// CapabilityPayload is the decoded form of the attestation data blob used by
// the Integra capability schema: the bound document hash, the granted
// capability bit-set, an optional claim amount and free-form metadata.
type CapabilityPayload struct {
	DocumentHash common.Hash
	Capabilities Capability
	Amount       *big.Int
	Metadata     string
}

var payloadArguments = abi.Arguments{
	{Name: "documentHash", Type: mustABIType("bytes32")},
	{Name: "capabilities", Type: mustABIType("uint256")},
	{Name: "amount", Type: mustABIType("uint256")},
	{Name: "metadata", Type: mustABIType("string")},
}

func mustABIType(signature string) abi.Type {
	t, err := abi.NewType(signature, "", nil)
	if err != nil {
		panic("invalid abi type " + signature + ": " + err.Error())
	}
	return t
}

// EncodePayload ABI-encodes a capability payload for inclusion in an
// attestation request.
func EncodePayload(p CapabilityPayload) ([]byte, error) {
	amount := p.Amount
	if amount == nil {
		amount = big.NewInt(0)
	}
	data, err := payloadArguments.Pack(
		[32]byte(p.DocumentHash),
		new(big.Int).SetUint64(uint64(p.Capabilities)),
		amount,
		p.Metadata,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to encode capability payload: %w", err)
	}
	return data, nil
}

// DecodePayload decodes the ABI-encoded data blob of a capability attestation.
func DecodePayload(data []byte) (*CapabilityPayload, error) {
	values, err := payloadArguments.Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("malformed capability payload: %w", err)
	}
	if len(values) != 4 {
		return nil, fmt.Errorf("malformed capability payload: expected 4 fields, got %d", len(values))
	}

	documentHash, ok := values[0].([32]byte)
	if !ok {
		return nil, fmt.Errorf("malformed capability payload: document hash is not bytes32")
	}
	capabilities, ok := values[1].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("malformed capability payload: capabilities is not uint256")
	}
	// the defined capability bits all fit in 64; anything above is a
	// foreign or corrupt grant, not a truncation candidate
	if !capabilities.IsUint64() {
		return nil, fmt.Errorf("malformed capability payload: capability bits %s exceed the defined set", capabilities)
	}
	amount, ok := values[2].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("malformed capability payload: amount is not uint256")
	}
	metadata, ok := values[3].(string)
	if !ok {
		return nil, fmt.Errorf("malformed capability payload: metadata is not string")
	}

	return &CapabilityPayload{
		DocumentHash: common.Hash(documentHash),
		Capabilities: Capability(capabilities.Uint64()),
		Amount:       amount,
		Metadata:     metadata,
	}, nil
}
