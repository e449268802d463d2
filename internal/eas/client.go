package eas

import (
	"context"
	"fmt"
	"strings"

	"github.com/cenkalti/backoff/v4"
	ethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/integraledger/integra-api/internal/logger"
	"go.uber.org/zap"
)

// getAttestation(bytes32) fragment of the EAS contract ABI
const easABI = `[{"inputs":[{"internalType":"bytes32","name":"uid","type":"bytes32"}],"name":"getAttestation","outputs":[{"components":[{"internalType":"bytes32","name":"uid","type":"bytes32"},{"internalType":"bytes32","name":"schema","type":"bytes32"},{"internalType":"uint64","name":"time","type":"uint64"},{"internalType":"uint64","name":"expirationTime","type":"uint64"},{"internalType":"uint64","name":"revocationTime","type":"uint64"},{"internalType":"bytes32","name":"refUID","type":"bytes32"},{"internalType":"address","name":"recipient","type":"address"},{"internalType":"address","name":"attester","type":"address"},{"internalType":"bool","name":"revocable","type":"bool"},{"internalType":"bytes","name":"data","type":"bytes"}],"internalType":"struct Attestation","name":"","type":"tuple"}],"stateMutability":"view","type":"function"}]`

const maxCallRetries = 3

// Client is a read-only oracle adapter over a deployed EAS contract. Reads
// are retried with exponential backoff on transient RPC failures; they are
// side-effect free so retrying is safe. The client holds no signer, so
// Attest is not supported: credential writes go through the issuance queue
// whose worker owns signing.
type Client struct {
	eth      *ethclient.Client
	contract common.Address
	abi      abi.ABI
	logger   *zap.Logger
}

// NewClient connects to the given RPC endpoint and binds the EAS contract
// address.
func NewClient(rpcURL string, contract common.Address) (*Client, error) {
	parsed, err := abi.JSON(strings.NewReader(easABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EAS ABI: %w", err)
	}

	eth, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to attestation RPC: %w", err)
	}

	return &Client{
		eth:      eth,
		contract: contract,
		abi:      parsed,
		logger:   logger.Log,
	}, nil
}

// GetAttestation reads the attestation record for uid from the contract.
func (c *Client) GetAttestation(ctx context.Context, uid common.Hash) (Attestation, error) {
	input, err := c.abi.Pack("getAttestation", [32]byte(uid))
	if err != nil {
		return Attestation{}, fmt.Errorf("failed to encode getAttestation call: %w", err)
	}

	msg := ethereum.CallMsg{To: &c.contract, Data: input}

	var output []byte
	operation := func() error {
		var callErr error
		output, callErr = c.eth.CallContract(ctx, msg, nil)
		if callErr != nil {
			c.logger.Warn("Attestation read failed, retrying",
				zap.String("uid", uid.Hex()),
				zap.Error(callErr))
		}
		return callErr
	}
	if err := backoff.Retry(operation, backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), maxCallRetries), ctx)); err != nil {
		return Attestation{}, fmt.Errorf("failed to read attestation %s: %w", uid, err)
	}

	var record struct {
		Uid            [32]byte
		Schema         [32]byte
		Time           uint64
		ExpirationTime uint64
		RevocationTime uint64
		RefUID         [32]byte
		Recipient      common.Address
		Attester       common.Address
		Revocable      bool
		Data           []byte
	}
	if err := c.abi.UnpackIntoInterface(&record, "getAttestation", output); err != nil {
		return Attestation{}, fmt.Errorf("failed to decode attestation %s: %w", uid, err)
	}

	// EAS returns a zeroed record for unknown UIDs
	if record.Uid == ([32]byte{}) {
		return Attestation{}, ErrAttestationNotFound
	}

	return Attestation{
		UID:            common.Hash(record.Uid),
		Schema:         common.Hash(record.Schema),
		Time:           record.Time,
		ExpirationTime: record.ExpirationTime,
		RevocationTime: record.RevocationTime,
		RefUID:         common.Hash(record.RefUID),
		Recipient:      record.Recipient,
		Attester:       record.Attester,
		Revocable:      record.Revocable,
		Data:           record.Data,
	}, nil
}

// Attest is not supported on the read-only client.
func (c *Client) Attest(_ context.Context, _ AttestationRequest) (common.Hash, error) {
	return common.Hash{}, ErrReadOnlyOracle
}

// Close releases the underlying RPC connection.
func (c *Client) Close() {
	c.eth.Close()
}
