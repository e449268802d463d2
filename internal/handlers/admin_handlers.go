package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/integraledger/integra-api/internal/accesscontrol"
	"github.com/integraledger/integra-api/internal/auth"
	"github.com/integraledger/integra-api/internal/services"
)

// AdminHandler handles role administration, pause control, credential
// triggers and API key management
type AdminHandler struct {
	common *CommonServices
}

// NewAdminHandler creates a new instance of AdminHandler
func NewAdminHandler(common *CommonServices) *AdminHandler {
	return &AdminHandler{common: common}
}

// RoleRequest represents a grant or revoke request
type RoleRequest struct {
	Address string `json:"address" binding:"required"`
	Role    string `json:"role" binding:"required,oneof=executor governor operator"`
}

// GrantRole grants a role to an address
// @Summary Grant a role
// @Description Grants executor, governor or operator to an address. The authenticated actor must hold Governor.
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RoleRequest true "Role grant"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/roles [post]
func (h *AdminHandler) GrantRole(c *gin.Context) {
	h.mutateRole(c, true)
}

// RevokeRole revokes a role from an address
// @Summary Revoke a role
// @Tags admin
// @Accept json
// @Produce json
// @Param request body RoleRequest true "Role revoke"
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/roles [delete]
func (h *AdminHandler) RevokeRole(c *gin.Context) {
	h.mutateRole(c, false)
}

func (h *AdminHandler) mutateRole(c *gin.Context, grant bool) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}
	target, ok := parseAddress(c, req.Address, "address")
	if !ok {
		return
	}

	registry := h.common.tokenization.Registry()
	role := accesscontrol.Role(req.Role)
	if grant {
		err = registry.Grant(caller, target, role)
	} else {
		err = registry.Revoke(caller, target, role)
	}
	if err != nil {
		sendDomainError(c, err)
		return
	}

	message := "Role granted"
	if !grant {
		message = "Role revoked"
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: message})
}

// Pause stops all mutating tokenization endpoints
// @Summary Pause the platform
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/pause [post]
func (h *AdminHandler) Pause(c *gin.Context) {
	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}
	if err := h.common.tokenization.Registry().Pause(caller); err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Platform paused"})
}

// Unpause re-enables mutating tokenization endpoints
// @Summary Unpause the platform
// @Tags admin
// @Produce json
// @Success 200 {object} SuccessResponse
// @Failure 403 {object} ErrorResponse
// @Router /admin/unpause [post]
func (h *AdminHandler) Unpause(c *gin.Context) {
	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}
	if err := h.common.tokenization.Registry().Unpause(caller); err != nil {
		sendDomainError(c, err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "Platform unpaused"})
}

// TriggerCredentials runs manual full-set credential issuance for a document
// @Summary Trigger credential issuance
// @Description Issues trust credentials to every current holder. Idempotent. The authenticated actor must hold Operator.
// @Tags admin
// @Produce json
// @Param hash path string true "Document hash"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /admin/documents/{hash}/credentials [post]
func (h *AdminHandler) TriggerCredentials(c *gin.Context) {
	hash, ok := parseHash(c, "hash")
	if !ok {
		return
	}
	caller, err := auth.ActorAddress(c)
	if err != nil {
		sendError(c, http.StatusUnauthorized, "No actor address", err)
		return
	}

	holders, err := h.common.tokenization.TriggerCredentials(c.Request.Context(), caller, hash)
	if err != nil {
		sendDomainError(c, err)
		return
	}

	addresses := make([]string, len(holders))
	for i, holder := range holders {
		addresses[i] = holder.Hex()
	}
	sendSuccess(c, http.StatusOK, gin.H{"object": "credential_trigger", "holders": addresses})
}

// CreateAPIKeyRequest represents the request body for creating an API key
type CreateAPIKeyRequest struct {
	Name        string     `json:"name" binding:"required"`
	AccessLevel string     `json:"access_level" binding:"required,oneof=read write admin"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
}

// CreateAPIKey mints a new API key; the plaintext is returned exactly once
// @Summary Create an API key
// @Tags admin
// @Accept json
// @Produce json
// @Param request body CreateAPIKeyRequest true "API key"
// @Success 201 {object} map[string]interface{}
// @Router /admin/api-keys [post]
func (h *AdminHandler) CreateAPIKey(c *gin.Context) {
	var req CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	apiKey, plaintext, err := h.common.apiKeys.CreateAPIKey(c.Request.Context(), services.CreateAPIKeyParams{
		Name:        req.Name,
		AccessLevel: req.AccessLevel,
		ExpiresAt:   req.ExpiresAt,
	})
	if err != nil {
		sendError(c, http.StatusInternalServerError, "Failed to create API key", err)
		return
	}

	sendSuccess(c, http.StatusCreated, gin.H{
		"object":       "api_key",
		"id":           apiKey.ID.String(),
		"name":         apiKey.Name,
		"access_level": apiKey.AccessLevel,
		"key":          plaintext,
	})
}

// DeleteAPIKey revokes an API key
// @Summary Delete an API key
// @Tags admin
// @Produce json
// @Param id path string true "API key id"
// @Success 200 {object} SuccessResponse
// @Router /admin/api-keys/{id} [delete]
func (h *AdminHandler) DeleteAPIKey(c *gin.Context) {
	if err := h.common.apiKeys.DeleteAPIKey(c.Request.Context(), c.Param("id")); err != nil {
		sendError(c, http.StatusBadRequest, "Failed to delete API key", err)
		return
	}
	sendSuccess(c, http.StatusOK, SuccessResponse{Message: "API key deleted"})
}
