package handlers

import (
	"encoding/base64"
	"math/big"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/auth"
	"github.com/integraledger/integra-api/internal/resolver"
)

// ReservationHandler handles reserve and cancel operations
type ReservationHandler struct {
	common *CommonServices
}

// NewReservationHandler creates a new instance of ReservationHandler
func NewReservationHandler(common *CommonServices) *ReservationHandler {
	return &ReservationHandler{common: common}
}

// ReserveRequest represents the request body for a named reservation
type ReserveRequest struct {
	Slot      uint64 `json:"slot,omitempty"`
	Recipient string `json:"recipient" binding:"required"`
	Amount    string `json:"amount" binding:"required"`
}

// ReserveAnonymousRequest represents the request body for an open reservation
type ReserveAnonymousRequest struct {
	Slot           uint64 `json:"slot,omitempty"`
	Amount         string `json:"amount" binding:"required"`
	EncryptedLabel string `json:"encrypted_label,omitempty"` // base64 ciphertext
}

// ReservationResponse represents a reservation record
type ReservationResponse struct {
	Object       string `json:"object"`
	DocumentHash string `json:"document_hash"`
	Slot         uint64 `json:"slot"`
	Amount       string `json:"amount"`
	ReservedFor  string `json:"reserved_for,omitempty"`
	Anonymous    bool   `json:"anonymous"`
	Claimed      bool   `json:"claimed"`
	Claimant     string `json:"claimant,omitempty"`
	ReservedAt   int64  `json:"reserved_at"`
	ClaimedAt    *int64 `json:"claimed_at,omitempty"`
}

func toReservationResponse(reservation resolver.Reservation) ReservationResponse {
	response := ReservationResponse{
		Object:       "reservation",
		DocumentHash: reservation.Document.Hex(),
		Slot:         reservation.Slot,
		Amount:       reservation.Amount.String(),
		Anonymous:    reservation.Anonymous(),
		Claimed:      reservation.Claimed,
		ReservedAt:   reservation.ReservedAt.Unix(),
	}
	if !reservation.Anonymous() {
		response.ReservedFor = reservation.ReservedFor.Hex()
	}
	if reservation.Claimed {
		response.Claimant = reservation.Claimant.Hex()
		claimedAt := reservation.ClaimedAt.Unix()
		response.ClaimedAt = &claimedAt
	}
	return response
}

func parseAmount(c *gin.Context, value string) (*big.Int, bool) {
	amount, ok := new(big.Int).SetString(value, 10)
	if !ok {
		sendError(c, http.StatusBadRequest, "Invalid amount, expected a decimal integer", nil)
		return nil, false
	}
	return amount, true
}

// Reserve creates a named reservation on a document
// @Summary Reserve a token slot for a recipient
// @Description Creates a reservation claimable only by the named recipient. Requires the Executor role.
// @Tags reservations
// @Accept json
// @Produce json
// @Param hash path string true "Document hash"
// @Param request body ReserveRequest true "Reservation"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /documents/{hash}/reservations [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	var req ReserveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}
	recipient, ok := parseAddress(c, req.Recipient, "recipient")
	if !ok {
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	slot, err := h.common.tokenization.Reserve(c.Request.Context(), caller, hash, req.Slot, recipient, amount)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	reservation, err := h.common.tokenization.GetReservation(c.Request.Context(), hash, slot)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, toReservationResponse(reservation))
}

// ReserveAnonymous creates an open reservation on a document
// @Summary Reserve a token slot claimable by any valid attestation holder
// @Tags reservations
// @Accept json
// @Produce json
// @Param hash path string true "Document hash"
// @Param request body ReserveAnonymousRequest true "Anonymous reservation"
// @Success 201 {object} ReservationResponse
// @Failure 400 {object} ErrorResponse
// @Router /documents/{hash}/reservations/anonymous [post]
func (h *ReservationHandler) ReserveAnonymous(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	var req ReserveAnonymousRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}
	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	var label []byte
	if req.EncryptedLabel != "" {
		label, err = base64.StdEncoding.DecodeString(req.EncryptedLabel)
		if err != nil {
			sendError(c, http.StatusBadRequest, "Invalid encrypted label, expected base64", err)
			return
		}
	}

	slot, err := h.common.tokenization.ReserveAnonymous(c.Request.Context(), caller, hash, req.Slot, amount, label)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	reservation, err := h.common.tokenization.GetReservation(c.Request.Context(), hash, slot)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusCreated, toReservationResponse(reservation))
}

// GetReservation returns a reservation by document and slot
// @Summary Get a reservation
// @Tags reservations
// @Produce json
// @Param hash path string true "Document hash"
// @Param slot path int true "Slot id (0 resolves the sole slot of single-slot standards)"
// @Success 200 {object} ReservationResponse
// @Failure 404 {object} ErrorResponse
// @Router /documents/{hash}/reservations/{slot} [get]
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	reservation, err := h.common.tokenization.GetReservation(c.Request.Context(), hash, slot)
	if err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, toReservationResponse(reservation))
}

// Cancel deletes an unclaimed reservation
// @Summary Cancel a reservation
// @Description Deletes an unclaimed reservation. Only the document's issuer may cancel.
// @Tags reservations
// @Produce json
// @Param hash path string true "Document hash"
// @Param slot path int true "Slot id"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /documents/{hash}/reservations/{slot} [delete]
func (h *ReservationHandler) Cancel(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	slot, ok := parseSlot(c)
	if !ok {
		return
	}

	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}

	if err := h.common.tokenization.Cancel(c.Request.Context(), caller, hash, slot); err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Reservation cancelled"})
}
