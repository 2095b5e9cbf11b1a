package observability

import (
	"context"
	"time"
)

// EventEnvelope is the change event handed to the realtime broker. Room is
// the deterministic room key the event is routed by.
type EventEnvelope struct {
	EventType  string      `json:"event_type"`
	EventName  string      `json:"event_name"`
	Room       string      `json:"room"`
	OccurredAt string      `json:"occurred_at"`
	Payload    interface{} `json:"payload"`
}

func NewChangeEvent(name, room string, payload interface{}) EventEnvelope {
	return EventEnvelope{
		EventType:  "change",
		EventName:  name,
		Room:       room,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Payload:    payload,
	}
}

func BuildHeaders(requestID, traceID string) map[string]string {
	headers := map[string]string{}
	if requestID != "" {
		headers["x-request-id"] = requestID
	}
	if traceID != "" {
		headers["trace_id"] = traceID
	}
	return headers
}

type requestIDKey struct{}

// WithRequestID stores the request id so publishers deeper in the call chain can tag events.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
