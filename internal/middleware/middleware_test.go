package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chat-core/internal/observability"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), AccessLog(zap.NewNop()))
	r.GET("/me", AuthMiddleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":    c.MustGet(UserIDKey).(uuid.UUID).String(),
			"request_id": observability.RequestIDFromContext(c.Request.Context()),
		})
	})
	return r
}

func TestAuthMiddlewareRejectsMissingOrInvalidHeader(t *testing.T) {
	router := setupRouter()

	for _, header := range []string{"", "42", uuid.Nil.String()} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if header != "" {
			req.Header.Set("X-User-ID", header)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
	}
}

func TestAuthMiddlewareSetsUserAndRequestID(t *testing.T) {
	router := setupRouter()
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", userID.String())
	req.Header.Set("X-Request-Id", "req-1")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "req-1", rec.Header().Get("X-Request-Id"))
	assert.JSONEq(t, `{"user_id":"`+userID.String()+`","request_id":"req-1"}`, rec.Body.String())
}

func TestRequestIDIsMintedWhenAbsent(t *testing.T) {
	router := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-User-ID", uuid.NewString())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	_, err := uuid.Parse(rec.Header().Get("X-Request-Id"))
	assert.NoError(t, err)
}
