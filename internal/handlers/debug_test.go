package handlers

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"chat-core/internal/mocks"
	"chat-core/internal/telemetry"
)

func TestDebugRoutesDisabled(t *testing.T) {
	router := newTestRouter()
	RegisterDebugRoutes(router, nil, false)

	rec := serve(router, http.MethodGet, "/debug/audit-test", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDebugAuditTestEmits(t *testing.T) {
	publisher := new(mocks.PublisherMock)
	emitter := telemetry.NewAuditEmitter(publisher, "audit.chat", "chat-core", "test", zap.NewNop())
	router := newTestRouter()
	RegisterDebugRoutes(router, emitter, true)

	publisher.On("Publish", mock.Anything, "audit.chat", mock.MatchedBy(func(env telemetry.AuditEnvelope) bool {
		return env.Payload.Action == "debug.audit_test" && env.RequestID != ""
	})).Return(nil).Once()

	rec := serve(router, http.MethodGet, "/debug/audit-test", "")

	require.Equal(t, http.StatusOK, rec.Code)
	publisher.AssertExpectations(t)
}
