package telemetry

import (
	"context"
	"time"

	"go.uber.org/zap"

	"chat-core/internal/observability"
)

type Publisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
	Close() error
}

// AuditEmitter records who changed what. Mutating handlers emit one record
// per successful request; publish failures are logged and never reach the caller.
type AuditEmitter struct {
	publisher   Publisher
	routingKey  string
	service     string
	environment string
	log         *zap.Logger
	now         func() time.Time
}

type AuditEnvelope struct {
	SchemaVersion int         `json:"schema_version"`
	EventType     string      `json:"event_type"`
	OccurredAt    string      `json:"occurred_at"`
	Service       string      `json:"service"`
	Environment   string      `json:"environment"`
	RequestID     string      `json:"request_id"`
	TraceID       string      `json:"trace_id,omitempty"`
	ActorID       *string     `json:"actor_id,omitempty"`
	Payload       AuditRecord `json:"payload"`
}

// AuditRecord is one audited action, e.g. {"message.deleted", <message id>}.
type AuditRecord struct {
	Action   string `json:"action"`
	TargetID string `json:"target_id,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

func NewAuditEmitter(publisher Publisher, routingKey, service, environment string, log *zap.Logger) *AuditEmitter {
	return &AuditEmitter{
		publisher:   publisher,
		routingKey:  routingKey,
		service:     service,
		environment: environment,
		log:         log.Named("audit"),
		now:         time.Now,
	}
}

// Record publishes rec on behalf of actorID. A nil emitter drops the record.
func (e *AuditEmitter) Record(ctx context.Context, rec AuditRecord, requestID string, actorID *string) {
	if e == nil || e.publisher == nil {
		return
	}

	e.log.Debug("audit",
		zap.String("action", rec.Action),
		zap.String("target_id", rec.TargetID),
		zap.String("request_id", requestID),
		zap.Stringp("actor_id", actorID),
	)
	envelope := AuditEnvelope{
		SchemaVersion: 2,
		EventType:     "audit_log",
		OccurredAt:    e.now().UTC().Format(time.RFC3339Nano),
		Service:       e.service,
		Environment:   e.environment,
		RequestID:     requestID,
		TraceID:       observability.TraceIDFromContext(ctx),
		ActorID:       actorID,
		Payload:       rec,
	}

	if err := e.publisher.Publish(ctx, e.routingKey, envelope); err != nil {
		e.log.Warn("audit publish failed", zap.String("action", rec.Action), zap.Error(err))
	}
}
