package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/models"
	"chat-core/internal/telemetry"
)

// FriendHandler runs the friend request endpoints.
type FriendHandler struct {
	friends FriendService
	audit   *telemetry.AuditEmitter
	log     *zap.Logger
}

func NewFriendHandler(friends FriendService, audit *telemetry.AuditEmitter, log *zap.Logger) *FriendHandler {
	return &FriendHandler{friends: friends, audit: audit, log: nopLogger(log).Named("friends")}
}

func (h *FriendHandler) ListFriends(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	reqs, err := h.friends.List(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs})
}

func (h *FriendHandler) CreateRequest(c *gin.Context) {
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

	created, err := h.friends.CreateRequest(c.Request.Context(), userID, req.UserID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "friend.requested", created.ID)
	c.JSON(http.StatusCreated, created)
}

func (h *FriendHandler) Accept(c *gin.Context) {
	h.transition(c, "accepted", h.friends.Accept)
}

func (h *FriendHandler) Block(c *gin.Context) {
	h.transition(c, "blocked", h.friends.Block)
}

func (h *FriendHandler) Reject(c *gin.Context) {
	h.remove(c, "rejected", h.friends.Reject)
}

func (h *FriendHandler) Unblock(c *gin.Context) {
	h.remove(c, "unblocked", h.friends.Unblock)
}

type friendTransition func(ctx context.Context, requestID, callerID uuid.UUID) (models.FriendRequest, error)

func (h *FriendHandler) transition(c *gin.Context, verb string, fn friendTransition) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}

	updated, err := fn(c.Request.Context(), requestID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "friend."+verb, requestID)
	c.JSON(http.StatusOK, updated)
}

func (h *FriendHandler) remove(c *gin.Context, verb string, fn func(ctx context.Context, requestID, callerID uuid.UUID) error) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	requestID, ok := uuidParam(c, "request_id")
	if !ok {
		return
	}

	if err := fn(c.Request.Context(), requestID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "friend."+verb, requestID)
	c.Status(http.StatusNoContent)
}
