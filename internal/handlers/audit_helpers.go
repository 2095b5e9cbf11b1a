package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"chat-core/internal/apperrors"
	"chat-core/internal/middleware"
	"chat-core/internal/telemetry"
)

func requestIDFromContext(c *gin.Context) string {
	if id := c.GetString(middleware.RequestIDKey); id != "" {
		return id
	}

	requestID := c.GetHeader("X-Request-Id")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Set(middleware.RequestIDKey, requestID)
	return requestID
}

func userIDFromContext(c *gin.Context) *string {
	if id, ok := callerID(c); ok {
		value := id.String()
		return &value
	}
	return nil
}

func callerID(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(middleware.UserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := val.(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// mustCaller aborts with 401 when the auth middleware did not run.
func mustCaller(c *gin.Context) (uuid.UUID, bool) {
	id, ok := callerID(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
	}
	return id, ok
}

func audit(c *gin.Context, emitter *telemetry.AuditEmitter, action string, target uuid.UUID) {
	rec := telemetry.AuditRecord{Action: action}
	if target != uuid.Nil {
		rec.TargetID = target.String()
	}
	emitter.Record(c.Request.Context(), rec, requestIDFromContext(c), userIDFromContext(c))
}

// respondError maps domain error kinds onto HTTP statuses. Anything else is a
// store or transport failure and is logged but not shown to the client.
func respondError(c *gin.Context, log *zap.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, apperrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrPermission):
		status = http.StatusForbidden
	case errors.Is(err, apperrors.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, apperrors.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, apperrors.ErrConflict):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		log.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.String("request_id", requestIDFromContext(c)),
			zap.Error(err),
		)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return uuid.Nil, false
	}
	return id, true
}

func nopLogger(log *zap.Logger) *zap.Logger {
	if log == nil {
		return zap.NewNop()
	}
	return log
}
