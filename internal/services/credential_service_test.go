package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/mocks"
	"github.com/integraledger/integra-api/internal/queue"
	"github.com/integraledger/integra-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var (
	credentialSchema = common.HexToHash("0x3333333333333333333333333333333333333333333333333333333333333333")
	platformSigner   = common.HexToAddress("0x00000000000000000000000000000000000000F0")
	holderOne        = common.HexToAddress("0x00000000000000000000000000000000000000C1")
	holderTwo        = common.HexToAddress("0x00000000000000000000000000000000000000C2")
)

type recordingPublisher struct {
	messages []queue.CredentialMessage
	err      error
}

func (p *recordingPublisher) PublishCredentialRequest(_ context.Context, msg queue.CredentialMessage) error {
	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, msg)
	return nil
}

type failingOracle struct{}

func (failingOracle) GetAttestation(context.Context, common.Hash) (eas.Attestation, error) {
	return eas.Attestation{}, eas.ErrAttestationNotFound
}

func (failingOracle) Attest(context.Context, eas.AttestationRequest) (common.Hash, error) {
	return common.Hash{}, eas.ErrReadOnlyOracle
}

func TestIssueCredentials_DirectIssuance(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	oracle := eas.NewMemoryOracle(platformSigner)
	mockQuerier := mocks.NewMockQuerier(ctrl)

	var recorded []db.CreateCredentialParams
	mockQuerier.EXPECT().CreateCredential(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, arg db.CreateCredentialParams) (db.Credential, error) {
			recorded = append(recorded, arg)
			return db.Credential{}, nil
		}).Times(2)

	service := services.NewCredentialService(oracle, credentialSchema, mockQuerier)
	err := service.IssueCredentials(context.Background(), testDocument, []common.Address{holderOne, holderTwo})
	require.NoError(t, err)

	require.Len(t, recorded, 2)
	assert.Equal(t, testDocument.Hex(), recorded[0].DocumentHash)
	assert.Equal(t, holderOne.Hex(), recorded[0].HolderAddress)

	// the attestation is real and addressed to the holder
	uid := common.HexToHash(recorded[0].AttestationUid)
	attestation, err := oracle.GetAttestation(context.Background(), uid)
	require.NoError(t, err)
	assert.Equal(t, credentialSchema, attestation.Schema)
	assert.Equal(t, holderOne, attestation.Recipient)
	assert.Equal(t, platformSigner, attestation.Attester)

	payload, err := eas.DecodePayload(attestation.Data)
	require.NoError(t, err)
	assert.Equal(t, testDocument, payload.DocumentHash)
	assert.True(t, payload.Capabilities.Has(eas.CapabilityOwnDocument))
}

func TestIssueCredentials_PublisherPath(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// no oracle writes, no db writes, just one queue message
	publisher := &recordingPublisher{}
	mockQuerier := mocks.NewMockQuerier(ctrl)

	service := services.NewCredentialService(failingOracle{}, credentialSchema, mockQuerier).WithPublisher(publisher)
	err := service.IssueCredentials(context.Background(), testDocument, []common.Address{holderOne, holderTwo})
	require.NoError(t, err)

	require.Len(t, publisher.messages, 1)
	assert.Equal(t, testDocument.Hex(), publisher.messages[0].DocumentHash)
	assert.Equal(t, []string{holderOne.Hex(), holderTwo.Hex()}, publisher.messages[0].Holders)
}

func TestIssueCredentials_OracleFailureReported(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)

	service := services.NewCredentialService(failingOracle{}, credentialSchema, mockQuerier)
	err := service.IssueCredentials(context.Background(), testDocument, []common.Address{holderOne})
	assert.ErrorIs(t, err, eas.ErrReadOnlyOracle)
}

func TestIssueCredentials_AuditWriteFailureIsNonFatal(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	oracle := eas.NewMemoryOracle(platformSigner)
	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().CreateCredential(gomock.Any(), gomock.Any()).Return(db.Credential{}, errors.New("db down"))

	service := services.NewCredentialService(oracle, credentialSchema, mockQuerier)
	err := service.IssueCredentials(context.Background(), testDocument, []common.Address{holderOne})
	assert.NoError(t, err, "attestation succeeded, audit record is best effort")
}

func TestIssueCredentials_NoHolders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	service := services.NewCredentialService(failingOracle{}, credentialSchema, mockQuerier)
	assert.NoError(t, service.IssueCredentials(context.Background(), testDocument, nil))
}
