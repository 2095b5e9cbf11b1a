package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/models"
	"chat-core/internal/telemetry"
)

// ConversationHandler opens private conversations and answers permission checks.
type ConversationHandler struct {
	conversations ConversationService
	permissions   PermissionService
	audit         *telemetry.AuditEmitter
	log           *zap.Logger
}

func NewConversationHandler(conversations ConversationService, permissions PermissionService, audit *telemetry.AuditEmitter, log *zap.Logger) *ConversationHandler {
	return &ConversationHandler{
		conversations: conversations,
		permissions:   permissions,
		audit:         audit,
		log:           nopLogger(log).Named("conversations"),
	}
}

// StartDirect creates or returns the direct conversation with another user.
func (h *ConversationHandler) StartDirect(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	var req struct {
		UserID uuid.UUID `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.conversations.GetOrCreateDirect(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "conversation.direct_opened", conv.ID)
	c.JSON(http.StatusOK, conv)
}

// StartServer creates or returns the conversation with another member of the server.
func (h *ConversationHandler) StartServer(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	var req struct {
		MemberID uuid.UUID `json:"member_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	conv, err := h.conversations.GetOrCreateServer(c.Request.Context(), serverID, userID, req.MemberID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "conversation.server_opened", conv.ID)
	c.JSON(http.StatusOK, conv)
}

// HasPermission reports whether a member holds a permission.
func (h *ConversationHandler) HasPermission(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "member_id")
	if !ok {
		return
	}
	permission, err := models.ParsePermission(c.Param("permission"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	granted, err := h.permissions.MemberPermission(c.Request.Context(), userID, memberID, permission)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"member_id": memberID, "permission": permission, "granted": granted})
}
