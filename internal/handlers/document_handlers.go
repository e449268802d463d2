package handlers

import (
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/db"
	"github.com/integraledger/integra-api/internal/ledger"
	"github.com/integraledger/integra-api/internal/resolver"
	"github.com/integraledger/integra-api/internal/services"
)

// DocumentHandler handles document registration and lookup
type DocumentHandler struct {
	common *CommonServices
}

// NewDocumentHandler creates a new instance of DocumentHandler
func NewDocumentHandler(common *CommonServices) *DocumentHandler {
	return &DocumentHandler{common: common}
}

// RegisterDocumentRequest represents the request body for registering a document
type RegisterDocumentRequest struct {
	DocumentHash     string     `json:"document_hash" binding:"required"`
	IssuerAddress    string     `json:"issuer_address" binding:"required"`
	Standard         string     `json:"standard" binding:"required"`
	CredentialPolicy string     `json:"credential_policy,omitempty" binding:"omitempty,oneof=on_every_claim on_exhaustion after_deadline"`
	Deadline         *time.Time `json:"deadline,omitempty"`
}

// DocumentResponse represents a registered document
type DocumentResponse struct {
	ID               string `json:"id"`
	Object           string `json:"object"`
	DocumentHash     string `json:"document_hash"`
	IssuerAddress    string `json:"issuer_address"`
	Standard         string `json:"standard"`
	CredentialPolicy string `json:"credential_policy"`
	Deadline         *int64 `json:"deadline,omitempty"`
	Created          int64  `json:"created"`
}

func toDocumentResponse(document db.Document) DocumentResponse {
	response := DocumentResponse{
		ID:               document.ID.String(),
		Object:           "document",
		DocumentHash:     document.DocumentHash,
		IssuerAddress:    document.IssuerAddress,
		Standard:         document.Standard,
		CredentialPolicy: document.CredentialPolicy,
		Created:          document.CreatedAt.Time.Unix(),
	}
	if document.Deadline.Valid {
		deadline := document.Deadline.Time.Unix()
		response.Deadline = &deadline
	}
	return response
}

// RegisterDocument registers a document hash with its issuer and standard
// @Summary Register a document for tokenization
// @Description Binds a document hash to its issuer address, token standard and credential policy. The binding is immutable.
// @Tags documents
// @Accept json
// @Produce json
// @Param request body RegisterDocumentRequest true "Document registration"
// @Success 201 {object} DocumentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /documents [post]
func (h *DocumentHandler) RegisterDocument(c *gin.Context) {
	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	if len(req.DocumentHash) != 66 || req.DocumentHash[:2] != "0x" {
		sendError(c, http.StatusBadRequest, "Invalid document hash, expected 0x-prefixed 32 bytes", nil)
		return
	}
	issuer, ok := parseAddress(c, req.IssuerAddress, "issuer_address")
	if !ok {
		return
	}

	document, err := h.common.documents.RegisterDocument(c.Request.Context(), services.RegisterDocumentParams{
		DocumentHash: common.HexToHash(req.DocumentHash),
		Issuer:       issuer,
		Standard:     ledger.Standard(req.Standard),
		Policy:       resolver.CredentialPolicy(req.CredentialPolicy),
		Deadline:     req.Deadline,
	})
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, toDocumentResponse(document))
}

// GetDocument returns a registered document by hash
// @Summary Get a document
// @Tags documents
// @Produce json
// @Param hash path string true "Document hash"
// @Success 200 {object} DocumentResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{hash} [get]
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}

	document, err := h.common.documents.GetDocument(c.Request.Context(), hash)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, toDocumentResponse(document))
}

// ListDocuments returns all registered documents
// @Summary List documents
// @Tags documents
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /documents [get]
func (h *DocumentHandler) ListDocuments(c *gin.Context) {
	documents, err := h.common.documents.ListDocuments(c.Request.Context())
	if err != nil {
		handleDBError(c, err, "No documents found")
		return
	}

	response := make([]DocumentResponse, len(documents))
	for i, document := range documents {
		response[i] = toDocumentResponse(document)
	}
	sendList(c, response)
}

// TokenEventResponse represents one audit event
type TokenEventResponse struct {
	ID             string `json:"id"`
	Object         string `json:"object"`
	EventType      string `json:"event_type"`
	Slot           int64  `json:"slot"`
	ActorAddress   string `json:"actor_address"`
	Recipient      string `json:"recipient_address,omitempty"`
	Amount         string `json:"amount"`
	AttestationUID string `json:"attestation_uid,omitempty"`
	OccurredAt     int64  `json:"occurred_at"`
}

// GetEvents returns the audit event log for a document
// @Summary Get document event history
// @Tags documents
// @Produce json
// @Param hash path string true "Document hash"
// @Success 200 {object} map[string]interface{}
// @Router /documents/{hash}/events [get]
func (h *DocumentHandler) GetEvents(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}

	events, err := h.common.events.History(c.Request.Context(), hash)
	if err != nil {
		handleDBError(c, err, "No events found")
		return
	}

	response := make([]TokenEventResponse, len(events))
	for i, event := range events {
		response[i] = TokenEventResponse{
			ID:             event.ID.String(),
			Object:         "token_event",
			EventType:      event.EventType,
			Slot:           event.Slot,
			ActorAddress:   event.ActorAddress,
			Recipient:      event.RecipientAddress.String,
			Amount:         event.Amount,
			AttestationUID: event.AttestationUid.String,
			OccurredAt:     event.OccurredAt.Time.Unix(),
		}
	}
	sendList(c, response)
}

// TotalsResponse represents the conservation counters of a document
type TotalsResponse struct {
	Object       string `json:"object"`
	DocumentHash string `json:"document_hash"`
	EverReserved string `json:"ever_reserved"`
	Remaining    string `json:"remaining"`
	Claimed      string `json:"claimed"`
	Cancelled    string `json:"cancelled"`
}

// GetTotals returns the conservation counters for a document
// @Summary Get document totals
// @Tags documents
// @Produce json
// @Param hash path string true "Document hash"
// @Success 200 {object} TotalsResponse
// @Router /documents/{hash}/totals [get]
func (h *DocumentHandler) GetTotals(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}

	totals, err := h.common.tokenization.Totals(c.Request.Context(), hash)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, TotalsResponse{
		Object:       "totals",
		DocumentHash: hash.Hex(),
		EverReserved: totals.EverReserved.String(),
		Remaining:    totals.Remaining.String(),
		Claimed:      totals.Claimed.String(),
		Cancelled:    totals.Cancelled.String(),
	})
}

// GetHolders returns the holder set of a document in claim order
// @Summary Get document holders
// @Tags documents
// @Produce json
// @Param hash path string true "Document hash"
// @Success 200 {object} map[string]interface{}
// @Router /documents/{hash}/holders [get]
func (h *DocumentHandler) GetHolders(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}

	holders, err := h.common.tokenization.Holders(c.Request.Context(), hash)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	addresses := make([]string, len(holders))
	for i, holder := range holders {
		addresses[i] = holder.Hex()
	}
	sendList(c, addresses)
}
