package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/eas"
)

// AttestationHandler serves attestation inspection and dry-run verification
type AttestationHandler struct {
	common *CommonServices
}

// NewAttestationHandler creates a new instance of AttestationHandler
func NewAttestationHandler(common *CommonServices) *AttestationHandler {
	return &AttestationHandler{common: common}
}

// AttestationResponse represents an attestation record
type AttestationResponse struct {
	Object         string `json:"object"`
	UID            string `json:"uid"`
	Schema         string `json:"schema"`
	Attester       string `json:"attester"`
	Recipient      string `json:"recipient"`
	Time           uint64 `json:"time"`
	ExpirationTime uint64 `json:"expiration_time"`
	RevocationTime uint64 `json:"revocation_time"`
	Revocable      bool   `json:"revocable"`
	DocumentHash   string `json:"document_hash,omitempty"`
	Capabilities   string `json:"capabilities,omitempty"`
	Amount         string `json:"amount,omitempty"`
	Metadata       string `json:"metadata,omitempty"`
}

// GetAttestation returns an attestation by UID with its decoded payload
// @Summary Inspect an attestation
// @Tags attestations
// @Produce json
// @Param uid path string true "Attestation UID"
// @Success 200 {object} AttestationResponse
// @Failure 404 {object} ErrorResponse
// @Router /attestations/{uid} [get]
func (h *AttestationHandler) GetAttestation(c *gin.Context) {
	uid, ok := parseHash(c, "uid")
	if !ok {
		return
	}

	attestation, err := h.common.oracle.GetAttestation(c.Request.Context(), uid)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	response := AttestationResponse{
		Object:         "attestation",
		UID:            attestation.UID.Hex(),
		Schema:         attestation.Schema.Hex(),
		Attester:       attestation.Attester.Hex(),
		Recipient:      attestation.Recipient.Hex(),
		Time:           attestation.Time,
		ExpirationTime: attestation.ExpirationTime,
		RevocationTime: attestation.RevocationTime,
		Revocable:      attestation.Revocable,
	}
	// payload decode is best effort: foreign-schema attestations are
	// still inspectable
	if payload, err := eas.DecodePayload(attestation.Data); err == nil {
		response.DocumentHash = payload.DocumentHash.Hex()
		response.Capabilities = payload.Capabilities.String()
		response.Amount = payload.Amount.String()
		response.Metadata = payload.Metadata
	}
	sendSuccess(c, http.StatusOK, response)
}

// VerifyRequest represents a dry-run capability verification
type VerifyRequest struct {
	DocumentHash   string `json:"document_hash" binding:"required"`
	AttestationUID string `json:"attestation_uid" binding:"required"`
	Capability     string `json:"capability" binding:"required,oneof=CLAIM_TOKEN SIGN_DOCUMENT REVIEW_DOCUMENT OWN_DOCUMENT REFERENCE_DOCUMENT"`
}

// VerifyResponse represents the verification outcome
type VerifyResponse struct {
	Object string `json:"object"`
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

var capabilityByName = map[string]eas.Capability{
	"CLAIM_TOKEN":        eas.CapabilityClaimToken,
	"SIGN_DOCUMENT":      eas.CapabilitySignDocument,
	"REVIEW_DOCUMENT":    eas.CapabilityReviewDocument,
	"OWN_DOCUMENT":       eas.CapabilityOwnDocument,
	"REFERENCE_DOCUMENT": eas.CapabilityReferenceDocument,
}

// Verify dry-runs capability verification without mutating any state
// @Summary Verify an attestation grants a capability
// @Tags attestations
// @Accept json
// @Produce json
// @Param request body VerifyRequest true "Verification"
// @Success 200 {object} VerifyResponse
// @Router /attestations/verify [post]
func (h *AttestationHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	capability := capabilityByName[req.Capability]
	_, err := h.common.verifier.Verify(
		c.Request.Context(),
		common.HexToHash(req.DocumentHash),
		capability,
		common.HexToHash(req.AttestationUID),
	)
	if err != nil {
		sendSuccess(c, http.StatusOK, VerifyResponse{Object: "verification", Valid: false, Reason: err.Error()})
		return
	}
	sendSuccess(c, http.StatusOK, VerifyResponse{Object: "verification", Valid: true})
}
