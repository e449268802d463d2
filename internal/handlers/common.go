package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/accesscontrol"
	"github.com/integraledger/integra-api/internal/eas"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/logger"
	"github.com/integraledger/integra-api/internal/resolver"
	"github.com/integraledger/integra-api/internal/services"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CommonServices holds common dependencies used across handlers
type CommonServices struct {
	documents    *services.DocumentService
	tokenization *services.TokenizationService
	credentials  *services.CredentialService
	events       *services.EventService
	apiKeys      *services.APIKeyService
	oracle       eas.Oracle
	verifier     *eas.Verifier
}

// NewCommonServices creates a new instance of CommonServices
func NewCommonServices(
	documents *services.DocumentService,
	tokenization *services.TokenizationService,
	credentials *services.CredentialService,
	events *services.EventService,
	apiKeys *services.APIKeyService,
	oracle eas.Oracle,
	verifier *eas.Verifier,
) *CommonServices {
	return &CommonServices{
		documents:    documents,
		tokenization: tokenization,
		credentials:  credentials,
		events:       events,
		apiKeys:      apiKeys,
		oracle:       oracle,
		verifier:     verifier,
	}
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse represents a standard success response
type SuccessResponse struct {
	Message string `json:"message"`
}

// sendError logs the error and sends a JSON error response
func sendError(c *gin.Context, statusCode int, message string, err error) {
	logger.Error(message,
		zap.Error(err),
		zap.String("path", c.Request.URL.Path),
		zap.String("method", c.Request.Method),
	)
	c.JSON(statusCode, ErrorResponse{Error: message})
}

// handleDBError maps database errors to HTTP status codes
func handleDBError(c *gin.Context, err error, notFoundMsg string) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		sendError(c, http.StatusNotFound, notFoundMsg, err)
	default:
		sendError(c, http.StatusInternalServerError, "Internal server error", err)
	}
}

// sendDomainError maps tokenization state-machine errors to HTTP status
// codes. The error text carries the conflicting addresses and ids, so it is
// passed through verbatim.
func sendDomainError(c *gin.Context, err error) {
	var (
		missingRole    *accesscontrol.MissingRoleError
		notForYou      *resolver.NotReservedForYouError
		onlyIssuer     *resolver.OnlyIssuerCanCancelError
		wrongIssuer    *eas.WrongIssuerError
		schemaMismatch *eas.SchemaMismatchError
		docMismatch    *eas.DocumentMismatchError
		notGranted     *eas.CapabilityNotGrantedError
		notCompliant   *ledger.NotCompliantError
	)

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, accesscontrol.ErrPaused):
		status = http.StatusServiceUnavailable
	case errors.Is(err, resolver.ErrTokenNotFound),
		errors.Is(err, eas.ErrAttestationNotFound),
		errors.Is(err, services.ErrDocumentNotRegistered):
		status = http.StatusNotFound
	case errors.Is(err, resolver.ErrAlreadyClaimed),
		errors.Is(err, resolver.ErrAlreadyReserved),
		errors.Is(err, services.ErrIssuerAlreadySet):
		status = http.StatusConflict
	case errors.As(err, &missingRole),
		errors.As(err, &notForYou),
		errors.As(err, &onlyIssuer),
		errors.As(err, &wrongIssuer),
		errors.As(err, &schemaMismatch),
		errors.As(err, &docMismatch),
		errors.As(err, &notGranted),
		errors.As(err, &notCompliant),
		errors.Is(err, eas.ErrRevoked),
		errors.Is(err, eas.ErrExpired):
		status = http.StatusForbidden
	case errors.Is(err, resolver.ErrZeroAddress),
		errors.Is(err, resolver.ErrZeroAmount),
		errors.Is(err, resolver.ErrSlotRequired),
		errors.Is(err, services.ErrInvalidIssuer),
		errors.Is(err, ledger.ErrUnknownStandard):
		status = http.StatusBadRequest
	}

	var labelTooLarge *resolver.LabelTooLargeError
	var insufficient *resolver.InsufficientReservedAmountError
	if errors.As(err, &labelTooLarge) || errors.As(err, &insufficient) {
		status = http.StatusBadRequest
	}

	sendError(c, status, err.Error(), err)
}

// sendSuccess sends a success response
func sendSuccess(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

// sendList sends a list response
func sendList(c *gin.Context, items interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"object": "list",
		"data":   items,
	})
}

// parseHash parses a 32-byte hex hash path parameter.
func parseHash(c *gin.Context, param string) (common.Hash, bool) {
	value := c.Param(param)
	if len(value) != 66 || value[:2] != "0x" {
		sendError(c, http.StatusBadRequest, "Invalid hash format, expected 0x-prefixed 32 bytes", nil)
		return common.Hash{}, false
	}
	return common.HexToHash(value), true
}

// parseSlot parses the slot path parameter.
func parseSlot(c *gin.Context) (uint64, bool) {
	value := c.Param("slot")
	slot, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		sendError(c, http.StatusBadRequest, "Invalid slot, expected an unsigned integer", err)
		return 0, false
	}
	return slot, true
}

// parseAddress validates a hex address field.
func parseAddress(c *gin.Context, value, field string) (common.Address, bool) {
	if !common.IsHexAddress(value) {
		sendError(c, http.StatusBadRequest, "Invalid address in field "+field, nil)
		return common.Address{}, false
	}
	return common.HexToAddress(value), true
}
