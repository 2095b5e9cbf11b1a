package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-core/internal/services"
	"chat-core/internal/telemetry"
)

// UserHandler serves profile registration and presence.
type UserHandler struct {
	users UserService
	audit *telemetry.AuditEmitter
	log   *zap.Logger
}

func NewUserHandler(users UserService, audit *telemetry.AuditEmitter, log *zap.Logger) *UserHandler {
	return &UserHandler{users: users, audit: audit, log: nopLogger(log).Named("users")}
}

// Register creates a profile. It is the only route served without X-User-ID.
func (h *UserHandler) Register(c *gin.Context) {
	var req struct {
		Name      string  `json:"name" binding:"required"`
		Email     string  `json:"email" binding:"required"`
		AvatarRef *string `json:"avatar_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.users.Register(c.Request.Context(), services.RegisterUserInput{Name: req.Name, Email: req.Email, AvatarRef: req.AvatarRef})
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "user.registered", user.ID)
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateStatus(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.users.UpdateStatus(c.Request.Context(), userID, req.Status); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "user.status_changed", userID)
	c.Status(http.StatusNoContent)
}
