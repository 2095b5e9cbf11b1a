package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chat-core/internal/models"
	"chat-core/internal/telemetry"
)

// ServerHandler manages servers, channels, membership and roles.
type ServerHandler struct {
	servers ServerService
	roles   RoleService
	audit   *telemetry.AuditEmitter
	log     *zap.Logger
}

func NewServerHandler(servers ServerService, roles RoleService, audit *telemetry.AuditEmitter, log *zap.Logger) *ServerHandler {
	return &ServerHandler{
		servers: servers,
		roles:   roles,
		audit:   audit,
		log:     nopLogger(log).Named("servers"),
	}
}

func (h *ServerHandler) CreateServer(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}

	var req struct {
		Name     string  `json:"name" binding:"required"`
		ImageRef *string `json:"image_ref"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	server, err := h.servers.CreateServer(c.Request.Context(), userID, req.Name, req.ImageRef)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "server.created", server.ID)
	c.JSON(http.StatusCreated, server)
}

func (h *ServerHandler) GetServer(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	server, err := h.servers.GetServer(c.Request.Context(), serverID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, server)
}

func (h *ServerHandler) RenameServer(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.servers.RenameServer(c.Request.Context(), serverID, userID, req.Name); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "server.renamed", serverID)
	c.Status(http.StatusNoContent)
}

func (h *ServerHandler) CreateChannel(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	var req struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	channel, err := h.servers.CreateChannel(c.Request.Context(), serverID, userID, req.Name)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "channel.created", channel.ID)
	c.JSON(http.StatusCreated, channel)
}

func (h *ServerHandler) Join(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	member, err := h.servers.Join(c.Request.Context(), serverID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "server.joined", serverID)
	c.JSON(http.StatusCreated, member)
}

func (h *ServerHandler) Leave(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	if err := h.servers.Leave(c.Request.Context(), serverID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "server.left", serverID)
	c.Status(http.StatusNoContent)
}

func (h *ServerHandler) ListRoles(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	roles, err := h.roles.ListRoles(c.Request.Context(), serverID, userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"roles": roles})
}

func (h *ServerHandler) CreateRole(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}

	var req struct {
		Name        string              `json:"name" binding:"required"`
		Permissions []models.Permission `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.CreateRole(c.Request.Context(), serverID, userID, req.Name, req.Permissions)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "role.created", role.ID)
	c.JSON(http.StatusCreated, role)
}

// UpdateRole leaves fields missing from the body unchanged.
func (h *ServerHandler) UpdateRole(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}
	roleID, ok := uuidParam(c, "role_id")
	if !ok {
		return
	}

	var req struct {
		Name        *string             `json:"name"`
		Permissions []models.Permission `json:"permissions"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	role, err := h.roles.UpdateRole(c.Request.Context(), serverID, roleID, userID, req.Name, req.Permissions)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "role.updated", roleID)
	c.JSON(http.StatusOK, role)
}

func (h *ServerHandler) DeleteRole(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}
	roleID, ok := uuidParam(c, "role_id")
	if !ok {
		return
	}

	if err := h.roles.DeleteRole(c.Request.Context(), serverID, roleID, userID); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "role.deleted", roleID)
	c.Status(http.StatusNoContent)
}

func (h *ServerHandler) AssignRole(c *gin.Context) {
	h.changeAssignment(c, true)
}

func (h *ServerHandler) UnassignRole(c *gin.Context) {
	h.changeAssignment(c, false)
}

func (h *ServerHandler) changeAssignment(c *gin.Context, assign bool) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	serverID, ok := uuidParam(c, "server_id")
	if !ok {
		return
	}
	roleID, ok := uuidParam(c, "role_id")
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "member_id")
	if !ok {
		return
	}

	action := "role.assigned"
	var err error
	if assign {
		err = h.roles.AssignRole(c.Request.Context(), serverID, roleID, memberID, userID)
	} else {
		action = "role.unassigned"
		err = h.roles.UnassignRole(c.Request.Context(), serverID, roleID, memberID, userID)
	}
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, action, memberID)
	c.Status(http.StatusNoContent)
}

// SetMuted mutes or unmutes a member.
func (h *ServerHandler) SetMuted(c *gin.Context) {
	userID, ok := mustCaller(c)
	if !ok {
		return
	}
	memberID, ok := uuidParam(c, "member_id")
	if !ok {
		return
	}

	var req struct {
		Muted *bool `json:"muted" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.roles.SetMuted(c.Request.Context(), memberID, userID, *req.Muted); err != nil {
		respondError(c, h.log, err)
		return
	}

	audit(c, h.audit, "member.mute_changed", memberID)
	c.Status(http.StatusNoContent)
}
