package observability

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequestIDFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	assert.Empty(t, RequestIDFromRequest(req))

	req.Header.Set("X-Correlation-Id", "corr")
	assert.Equal(t, "corr", RequestIDFromRequest(req))

	req.Header.Set("X-Request-Id", "req")
	assert.Equal(t, "req", RequestIDFromRequest(req))
}

func TestIPFromRequest(t *testing.T) {
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.7:5555"
	assert.Equal(t, "10.0.0.7", IPFromRequest(req))

	req.Header.Set("X-Real-Ip", "192.0.2.4")
	assert.Equal(t, "192.0.2.4", IPFromRequest(req))

	req.Header.Set("X-Forwarded-For", " , 203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", IPFromRequest(req))
}

func TestChangeEventAndHeaders(t *testing.T) {
	ev := NewChangeEvent("message.created", "dm:a:b", map[string]string{"id": "m"})
	assert.Equal(t, "change", ev.EventType)
	assert.Equal(t, "dm:a:b", ev.Room)
	assert.NotEmpty(t, ev.OccurredAt)

	assert.Equal(t, map[string]string{"x-request-id": "r"}, BuildHeaders("r", ""))
	assert.Empty(t, BuildHeaders("", ""))

	ctx := WithRequestID(context.Background(), "r-1")
	assert.Equal(t, "r-1", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Empty(t, TraceIDFromContext(ctx))
}
