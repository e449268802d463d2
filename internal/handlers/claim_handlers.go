package handlers

import (
	"net/http"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/auth"
)

// ClaimHandler handles attestation-gated claims
type ClaimHandler struct {
	common *CommonServices
}

// NewClaimHandler creates a new instance of ClaimHandler
func NewClaimHandler(common *CommonServices) *ClaimHandler {
	return &ClaimHandler{common: common}
}

// ClaimRequest represents the request body for a claim
type ClaimRequest struct {
	Slot           uint64 `json:"slot,omitempty"`
	AttestationUID string `json:"attestation_uid" binding:"required"`
}

// ClaimResponse represents a settled claim
type ClaimResponse struct {
	Object       string `json:"object"`
	DocumentHash string `json:"document_hash"`
	Slot         uint64 `json:"slot"`
	Claimant     string `json:"claimant"`
	Amount       string `json:"amount"`
}

// Claim consumes a reservation with a capability attestation
// @Summary Claim a reserved token
// @Description Settles a reservation for the authenticated actor. The attestation must grant CLAIM_TOKEN over the document and be signed by the registered issuer.
// @Tags claims
// @Accept json
// @Produce json
// @Param hash path string true "Document hash"
// @Param request body ClaimRequest true "Claim"
// @Success 200 {object} ClaimResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /documents/{hash}/claims [post]
func (h *ClaimHandler) Claim(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if len(req.AttestationUID) != 66 || req.AttestationUID[:2] != "0x" {
		sendError(c, http.StatusBadRequest, "Invalid attestation UID, expected 0x-prefixed 32 bytes", nil)
		return
	}

	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}

	amount, err := h.common.tokenization.Claim(c.Request.Context(), caller, hash, req.Slot, common.HexToHash(req.AttestationUID))
	if err != nil {
		sendDomainError(c, err)
		return
	}

	// the engine resolves slot 0 for single-slot standards; report the
	// reservation's actual slot when we can read it back
	slot := req.Slot
	if reservation, err := h.common.tokenization.GetReservation(c.Request.Context(), hash, req.Slot); err == nil {
		slot = reservation.Slot
	}

	sendSuccess(c, http.StatusOK, ClaimResponse{
		Object:       "claim",
		DocumentHash: hash.Hex(),
		Slot:         slot,
		Claimant:     caller.Hex(),
		Amount:       amount.String(),
	})
}
