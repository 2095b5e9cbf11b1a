package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/models"
	"chat-core/internal/services"
	"chat-core/internal/telemetry"
)

// MessageHandler serves message writes, pages and reactions.
type MessageHandler struct {
	messages  MessageService
	reader    MessageReader
	reactions ReactionService
	audit     *telemetry.AuditEmitter
	log       *zap.Logger
}

// NewMessageHandler builds a MessageHandler.
func NewMessageHandler(messages MessageService, reader MessageReader, reactions ReactionService, audit *telemetry.AuditEmitter, log *zap.Logger) *MessageHandler {
	return &MessageHandler{
		messages:  messages,
		reader:    reader,
		reactions: reactions,
		audit:     audit,
		log:       nopLogger(log).Named("messages"),
	}
}

// CreateMessage stores a message in a channel, a conversation or a thread.
func (h *MessageHandler) CreateMessage(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	var req struct {
		ChannelID       *uuid.UUID `json:"channel_id"`
		ConversationID  *uuid.UUID `json:"conversation_id"`
		ParentMessageID *uuid.UUID `json:"parent_message_id"`
		Body            *string    `json:"body"`
		ImageRef        *string    `json:"image_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.messages.CreateMessage(c.Request.Context(), services.CreateMessageInput{
		CallerID:        userID,
		ChannelID:       req.ChannelID,
		ConversationID:  req.ConversationID,
		ParentMessageID: req.ParentMessageID,
		Body:            req.Body,
		ImageRef:        req.ImageRef,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "message.created", id)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// UpdateMessage replaces the body of the caller's own message.
func (h *MessageHandler) UpdateMessage(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	messageID, ok := uuidParam(c, "message_id")
	if !ok {
		return
	}

	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	msg, err := h.messages.UpdateMessage(c.Request.Context(), messageID, userID, req.Body)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "message.updated", messageID)
	c.JSON(http.StatusOK, msg)
}

// DeleteMessage removes the caller's own message and its reactions.
func (h *MessageHandler) DeleteMessage(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	messageID, ok := uuidParam(c, "message_id")
	if !ok {
		return
	}

	if err := h.messages.DeleteMessage(c.Request.Context(), messageID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "message.deleted", messageID)
	c.Status(http.StatusNoContent)
}

// ListMessages returns one page of a channel, a conversation or a thread.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	var sel models.ScopeSelector
	for name, dst := range map[string]**uuid.UUID{
		"channel_id":        &sel.ChannelID,
		"conversation_id":   &sel.ConversationID,
		"parent_message_id": &sel.ParentMessageID,
	} {
		raw := c.Query(name)
		if raw == "" {
			continue
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
			return
		}
		*dst = &id
	}

	opts := models.PageOptions{Cursor: c.Query("cursor")}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		opts.Limit = limit
	}

	page, err := h.reader.GetPage(c.Request.Context(), sel, opts, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// GetMessage returns one assembled message.
func (h *MessageHandler) GetMessage(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	messageID, ok := uuidParam(c, "message_id")
	if !ok {
		return
	}

	msg, err := h.reader.GetMessage(c.Request.Context(), messageID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if msg == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "message not found"})
		return
	}
	c.JSON(http.StatusOK, msg)
}

// ToggleReaction adds the caller's reaction or removes it when already present.
func (h *MessageHandler) ToggleReaction(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	messageID, ok := uuidParam(c, "message_id")
	if !ok {
		return
	}

	var req struct {
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.reactions.ToggleReaction(c.Request.Context(), messageID, userID, req.Value)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "reaction."+string(result.Outcome), messageID)
	c.JSON(http.StatusOK, result)
}
