package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/mocks"
	"github.com/integraledger/integra-api/internal/services"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	logger.InitLogger("test")
}

var (
	testDocument = common.HexToHash("0xd0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0d0c0")
	testIssuer   = common.HexToAddress("0x00000000000000000000000000000000000000A1")
)

func TestRegisterDocument(t *testing.T) {
	tests := []struct {
		name       string
		params     services.RegisterDocumentParams
		setupMocks func(m *mocks.MockQuerier)
		wantErr    error
	}{
		{
			name: "success",
			params: services.RegisterDocumentParams{
				DocumentHash: testDocument,
				Issuer:       testIssuer,
				Standard:     ledger.StandardERC721,
			},
			setupMocks: func(m *mocks.MockQuerier) {
				m.EXPECT().GetDocumentByHash(gomock.Any(), testDocument.Hex()).Return(db.Document{}, pgx.ErrNoRows)
				m.EXPECT().CreateDocument(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, arg db.CreateDocumentParams) (db.Document, error) {
						assert.Equal(t, testDocument.Hex(), arg.DocumentHash)
						assert.Equal(t, testIssuer.Hex(), arg.IssuerAddress)
						assert.Equal(t, "erc721", arg.Standard)
						// policy defaults per standard
						assert.Equal(t, "on_exhaustion", arg.CredentialPolicy)
						return db.Document{DocumentHash: arg.DocumentHash, IssuerAddress: arg.IssuerAddress, Standard: arg.Standard}, nil
					})
			},
		},
		{
			name: "already registered",
			params: services.RegisterDocumentParams{
				DocumentHash: testDocument,
				Issuer:       testIssuer,
				Standard:     ledger.StandardERC721,
			},
			setupMocks: func(m *mocks.MockQuerier) {
				m.EXPECT().GetDocumentByHash(gomock.Any(), testDocument.Hex()).Return(db.Document{DocumentHash: testDocument.Hex()}, nil)
			},
			wantErr: services.ErrIssuerAlreadySet,
		},
		{
			name: "zero issuer",
			params: services.RegisterDocumentParams{
				DocumentHash: testDocument,
				Standard:     ledger.StandardERC721,
			},
			setupMocks: func(m *mocks.MockQuerier) {},
			wantErr:    services.ErrInvalidIssuer,
		},
		{
			name: "unknown standard",
			params: services.RegisterDocumentParams{
				DocumentHash: testDocument,
				Issuer:       testIssuer,
				Standard:     "erc777",
			},
			setupMocks: func(m *mocks.MockQuerier) {},
			wantErr:    ledger.ErrUnknownStandard,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockQuerier := mocks.NewMockQuerier(ctrl)
			tt.setupMocks(mockQuerier)

			service := services.NewDocumentService(mockQuerier)
			_, err := service.RegisterDocument(context.Background(), tt.params)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestIssuerOf_CachesAfterFirstLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetDocumentByHash(gomock.Any(), testDocument.Hex()).
		Return(db.Document{DocumentHash: testDocument.Hex(), IssuerAddress: testIssuer.Hex(), Standard: "erc721"}, nil).
		Times(1)

	service := services.NewDocumentService(mockQuerier)

	issuer, err := service.IssuerOf(context.Background(), testDocument)
	require.NoError(t, err)
	assert.Equal(t, testIssuer, issuer)

	// second call hits the cache, the mock would fail on a second db call
	issuer, err = service.IssuerOf(context.Background(), testDocument)
	require.NoError(t, err)
	assert.Equal(t, testIssuer, issuer)
}

func TestIssuerOf_NotRegistered(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetDocumentByHash(gomock.Any(), testDocument.Hex()).Return(db.Document{}, pgx.ErrNoRows)

	service := services.NewDocumentService(mockQuerier)
	_, err := service.IssuerOf(context.Background(), testDocument)
	assert.ErrorIs(t, err, services.ErrDocumentNotRegistered)
}

func TestIssuerOf_DatabaseErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dbErr := errors.New("connection reset")
	mockQuerier := mocks.NewMockQuerier(ctrl)
	mockQuerier.EXPECT().GetDocumentByHash(gomock.Any(), testDocument.Hex()).Return(db.Document{}, dbErr)

	service := services.NewDocumentService(mockQuerier)
	_, err := service.IssuerOf(context.Background(), testDocument)
	assert.ErrorIs(t, err, dbErr)
}
